package events

import (
	"encoding/json"
	"log"
	"time"

	"github.com/Serg1oA/news-now-quick/metrics"
	"github.com/Serg1oA/news-now-quick/model"
	"github.com/nats-io/nats.go"
)

const FetchResultSubject = "news.fetch.result"

// Publisher receives a FetchEvent after every upstream call.
type Publisher interface {
	PublishFetchResult(event model.FetchEvent)
	Close()
}

// NATSPublisher handles publishing fetch results to NATS
type NATSPublisher struct {
	conn    *nats.Conn
	subject string
	publish func(subject string, data []byte) error
}

// NewNATSPublisher connects to url. The connection reconnects on its own;
// publishes made while disconnected are buffered by the client.
func NewNATSPublisher(url string) (*NATSPublisher, error) {
	nc, err := nats.Connect(url,
		nats.Name("news-now-quick"),
		nats.ReconnectWait(2*time.Second),
		nats.MaxReconnects(-1),
	)
	if err != nil {
		return nil, err
	}

	return &NATSPublisher{
		conn:    nc,
		subject: FetchResultSubject,
		publish: nc.Publish,
	}, nil
}

// Close drains and closes the NATS connection
func (np *NATSPublisher) Close() {
	if np.conn != nil {
		if err := np.conn.Drain(); err != nil {
			np.conn.Close()
		}
	}
}

// PublishFetchResult publishes one fetch result. Failures are logged only;
// the client response never depends on the event stream.
func (np *NATSPublisher) PublishFetchResult(event model.FetchEvent) {
	message := FetchMessage{
		Event:     event,
		Timestamp: time.Now(),
		Source:    "news-now-quick",
		Version:   "1.0",
	}

	data, err := json.Marshal(message)
	if err != nil {
		log.Printf("Failed to marshal fetch result: %v", err)
		metrics.NatsMessagesPublished.WithLabelValues(np.subject, "error").Inc()
		return
	}

	if err := np.publish(np.subject, data); err != nil {
		log.Printf("Failed to publish fetch result: %v", err)
		metrics.NatsMessagesPublished.WithLabelValues(np.subject, "error").Inc()
		return
	}
	metrics.NatsMessagesPublished.WithLabelValues(np.subject, "success").Inc()
}

// FetchMessage represents the structure sent to NATS
type FetchMessage struct {
	Event     model.FetchEvent `json:"event"`
	Timestamp time.Time        `json:"timestamp"`
	Source    string           `json:"source"`
	Version   string           `json:"version"`
}

// Nop discards events. Used when NATS_URL is not configured.
type Nop struct{}

func (Nop) PublishFetchResult(model.FetchEvent) {}
func (Nop) Close()                              {}
