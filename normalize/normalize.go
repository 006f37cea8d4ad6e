package normalize

import (
	"fmt"
	"time"

	"github.com/Serg1oA/news-now-quick/model"
	"github.com/Serg1oA/news-now-quick/translate"
	"golang.org/x/text/cases"
	"golang.org/x/text/language"
)

const (
	PlaceholderImage   = "https://images.unsplash.com/photo-1504711434969-e33886168f5c?w=400&h=250&fit=crop"
	DefaultTitle       = "No Title"
	DefaultDescription = "No description available"
	DefaultReadMoreURL = "#"
	DefaultSource      = "Unknown Source"
	AllCountries       = "all"
	idPrefix           = "gnews_"
)

var titleCaser = cases.Title(language.Und)

// Context is the translated request the batch was fetched for.
type Context struct {
	Category string
	Country  string
	Language string
}

type Normalizer struct {
	Translator translate.Translator
}

// Normalize converts a batch of upstream records. IDs are only unique within
// the batch.
func (n Normalizer) Normalize(articles []model.UpstreamArticle, c Context, now time.Time) []model.Article {
	out := make([]model.Article, 0, len(articles))

	category := CategoryLabel(c.Category)
	country := fallback(c.Country, AllCountries)
	lang := fallback(c.Language, translate.DefaultLanguage)
	nowStamp := n.Translator.Timestamp(now)

	for i, a := range articles {
		out = append(out, model.Article{
			ID:          fmt.Sprintf("%s%d_%s", idPrefix, i, a.PublishedAt),
			Title:       fallback(a.Title, DefaultTitle),
			Description: fallback(a.Description, DefaultDescription),
			ImageURL:    fallback(a.Image, PlaceholderImage),
			Category:    category,
			PublishedAt: fallback(a.PublishedAt, nowStamp),
			ReadMoreURL: fallback(a.URL, DefaultReadMoreURL),
			Source:      fallback(a.Source.Name, DefaultSource),
			Country:     country,
			Language:    lang,
		})
	}
	return out
}

// CategoryLabel renders an upstream category for display.
func CategoryLabel(category string) string {
	if category == "" || category == translate.DefaultCategory {
		return "General"
	}
	return titleCaser.String(category)
}

// Total prefers the upstream-reported total, which may be larger than the
// page that was returned.
func Total(resp *model.UpstreamResponse, returned int) int {
	if resp != nil && resp.TotalArticles != nil {
		return *resp.TotalArticles
	}
	return returned
}

func fallback(value, def string) string {
	if value == "" {
		return def
	}
	return value
}
