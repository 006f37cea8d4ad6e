package model

// Article is the client-facing record. Every field is always populated.
type Article struct {
	ID          string `json:"id"`
	Title       string `json:"title"`
	Description string `json:"description"`
	ImageURL    string `json:"imageUrl"`
	Category    string `json:"category"`
	PublishedAt string `json:"publishedAt"`
	ReadMoreURL string `json:"readMoreUrl"`
	Source      string `json:"source"`
	Country     string `json:"country"`
	Language    string `json:"language"`
}

// Envelope wraps every /api response.
type Envelope struct {
	Success  bool      `json:"success"`
	Articles []Article `json:"articles"`
	Total    *int      `json:"total,omitempty"`
	Error    string    `json:"error,omitempty"`
}

func SuccessEnvelope(articles []Article, total int) Envelope {
	if articles == nil {
		articles = []Article{}
	}
	return Envelope{Success: true, Articles: articles, Total: &total}
}

func ErrorEnvelope(message string) Envelope {
	return Envelope{Success: false, Articles: []Article{}, Error: message}
}

// UpstreamArticle mirrors one GNews article. Absent keys and JSON nulls
// both decode to the zero value.
type UpstreamArticle struct {
	Title       string `json:"title"`
	Description string `json:"description"`
	Content     string `json:"content"`
	URL         string `json:"url"`
	Image       string `json:"image"`
	PublishedAt string `json:"publishedAt"`
	Source      struct {
		Name string `json:"name"`
		URL  string `json:"url"`
	} `json:"source"`
}

type UpstreamResponse struct {
	TotalArticles *int              `json:"totalArticles"`
	Articles      []UpstreamArticle `json:"articles"`
}
