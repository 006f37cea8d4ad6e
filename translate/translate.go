// Package translate maps client filter values onto GNews query parameters.
package translate

import (
	"time"

	"github.com/Serg1oA/news-now-quick/model"
)

const (
	DefaultCategory = "general"
	DefaultLanguage = "en"
)

// timestampLayout always ends in a literal Z. Whether the wall clock is
// converted to UTC first is controlled by Translator.FromDateUTC.
const timestampLayout = "2006-01-02T15:04:05Z"

var categoryMap = map[string]string{
	"all":           "general",
	"technology":    "technology",
	"business":      "business",
	"politics":      "nation",
	"sports":        "sports",
	"entertainment": "entertainment",
	"health":        "health",
	"science":       "science",
}

var languageMap = map[string]string{
	"en": "en",
	"es": "es",
	"fr": "fr",
	"de": "de",
	"it": "it",
	"pt": "pt",
}

// "all" and unknown values both mean no country filter.
var countryMap = map[string]string{
	"us": "us",
	"uk": "gb",
	"ca": "ca",
	"au": "au",
	"de": "de",
	"fr": "fr",
	"jp": "jp",
}

func Category(topic string) string {
	if c, ok := categoryMap[topic]; ok {
		return c
	}
	return DefaultCategory
}

func Language(lang string) string {
	if l, ok := languageMap[lang]; ok {
		return l
	}
	return DefaultLanguage
}

func Country(country string) string {
	return countryMap[country]
}

type Translator struct {
	// FromDateUTC converts timestamps to UTC before formatting. When false
	// the local wall clock is formatted with a Z suffix.
	FromDateUTC bool
}

func (t Translator) Translate(req model.FilterRequest, now time.Time) model.UpstreamQuery {
	q := model.UpstreamQuery{
		Category: Category(req.Topic),
		Language: Language(req.Language),
		Country:  Country(req.Country),
		Max:      req.MaxArticles,
		From:     t.FromDate(req.DateRange, now),
		Search:   req.SearchQuery,
	}
	if q.Search != "" {
		q.Category = ""
	}
	return q
}

// FromDate returns the lower publish bound for a symbolic range, or "" when
// the range is unknown.
func (t Translator) FromDate(dateRange string, now time.Time) string {
	var from time.Time
	switch dateRange {
	case "today":
		from = time.Date(now.Year(), now.Month(), now.Day(), 0, 0, 0, 0, now.Location())
	case "week":
		from = now.AddDate(0, 0, -7)
	case "month":
		from = now.AddDate(0, 0, -30)
	case "year":
		from = now.AddDate(0, 0, -365)
	default:
		return ""
	}
	return t.Timestamp(from)
}

func (t Translator) Timestamp(ts time.Time) string {
	if t.FromDateUTC {
		ts = ts.UTC()
	}
	return ts.Format(timestampLayout)
}
