package model

import "time"

// FilterRequest is built from the inbound query string.
type FilterRequest struct {
	Topic       string
	Language    string
	Country     string
	DateRange   string
	SearchQuery string
	MaxArticles int
}

// UpstreamQuery holds the translated parameters. Empty strings mean the
// parameter is not sent.
type UpstreamQuery struct {
	Category string
	Language string
	Country  string
	Max      int
	From     string
	Search   string
}

// FetchEvent is published after every upstream call.
type FetchEvent struct {
	RequestID    string    `json:"requestId"`
	Kind         string    `json:"kind"`
	Category     string    `json:"category,omitempty"`
	Language     string    `json:"language"`
	Country      string    `json:"country,omitempty"`
	Search       string    `json:"search,omitempty"`
	ArticleCount int       `json:"articleCount"`
	Total        int       `json:"total"`
	Success      bool      `json:"success"`
	Error        string    `json:"error,omitempty"`
	FetchedAt    time.Time `json:"fetchedAt"`
}
