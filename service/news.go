package service

import (
	"context"
	"errors"
	"log"
	"net/http"
	"time"

	"github.com/Serg1oA/news-now-quick/events"
	"github.com/Serg1oA/news-now-quick/fetcher"
	"github.com/Serg1oA/news-now-quick/metrics"
	"github.com/Serg1oA/news-now-quick/model"
	"github.com/Serg1oA/news-now-quick/normalize"
	"github.com/Serg1oA/news-now-quick/translate"
)

const (
	KindNews   = "news"
	KindSearch = "search"
)

// NewsFetcher performs the single upstream call for a translated query.
type NewsFetcher interface {
	Fetch(ctx context.Context, q model.UpstreamQuery) (*model.UpstreamResponse, error)
}

type NewsService struct {
	fetcher    NewsFetcher
	publisher  events.Publisher
	translator translate.Translator
	normalizer normalize.Normalizer
	now        func() time.Time
}

func NewNewsService(f NewsFetcher, p events.Publisher, tr translate.Translator) *NewsService {
	if p == nil {
		p = events.Nop{}
	}
	return &NewsService{
		fetcher:    f,
		publisher:  p,
		translator: tr,
		normalizer: normalize.Normalizer{Translator: tr},
		now:        time.Now,
	}
}

// News serves /api/news. The returned int is the HTTP status to respond with.
func (s *NewsService) News(ctx context.Context, req model.FilterRequest, requestID string) (model.Envelope, int) {
	return s.run(ctx, KindNews, req, requestID)
}

// Search serves /api/search. The topic is ignored; articles are labelled
// with the general category.
func (s *NewsService) Search(ctx context.Context, req model.FilterRequest, requestID string) (model.Envelope, int) {
	req.Topic = ""
	return s.run(ctx, KindSearch, req, requestID)
}

func (s *NewsService) run(ctx context.Context, kind string, req model.FilterRequest, requestID string) (model.Envelope, int) {
	now := s.now()
	q := s.translator.Translate(req, now)
	label := translate.Category(req.Topic)

	from := "no date filter"
	if q.From != "" {
		from = "from=" + q.From
	}
	if kind == KindSearch {
		log.Printf("[INFO] Searching news: query='%s', lang=%s, country=%s, %s", q.Search, q.Language, q.Country, from)
	} else {
		log.Printf("[INFO] Fetching news: category=%s, lang=%s, country=%s, %s", label, q.Language, q.Country, from)
	}

	event := model.FetchEvent{
		RequestID: requestID,
		Kind:      kind,
		Category:  q.Category,
		Language:  q.Language,
		Country:   q.Country,
		Search:    q.Search,
		FetchedAt: now,
	}

	resp, err := s.fetcher.Fetch(ctx, q)
	if err != nil {
		message := fetcher.MsgInternal
		var fe *fetcher.Error
		if errors.As(err, &fe) {
			message = fe.Message()
		}
		log.Printf("[ERROR] %s request %s failed: %v", kind, requestID, err)

		event.Error = message
		s.publisher.PublishFetchResult(event)
		return model.ErrorEnvelope(message), http.StatusInternalServerError
	}

	articles := s.normalizer.Normalize(resp.Articles, normalize.Context{
		Category: label,
		Country:  q.Country,
		Language: q.Language,
	}, now)
	total := normalize.Total(resp, len(articles))

	metrics.NewsArticlesServed.WithLabelValues(label, kind).Add(float64(len(articles)))

	event.Success = true
	event.ArticleCount = len(articles)
	event.Total = total
	s.publisher.PublishFetchResult(event)

	log.Printf("[INFO] Returned %d articles (total=%d) for %s request %s", len(articles), total, kind, requestID)
	return model.SuccessEnvelope(articles, total), http.StatusOK
}
