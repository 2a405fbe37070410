package kafka

import (
	"time"

	"github.com/google/uuid"

	"github.com/vladislavdragonenkov/markethub/internal/domain"
)

// TopicCartEvents — топик по умолчанию для событий корзины.
const TopicCartEvents = "markethub.cart.events"

// Заголовки сообщений
const (
	HeaderEventType = "x-event-type"
	HeaderEventID   = "x-event-id"
)

// CartEventMessage — JSON-представление события корзины в Kafka.
type CartEventMessage struct {
	EventID   string            `json:"event_id"`
	EventType string            `json:"event_type"`
	ClientID  string            `json:"client_id"`
	ProductID string            `json:"product_id,omitempty"`
	Quantity  int               `json:"quantity,omitempty"`
	Items     []domain.LineItem `json:"items"`
	Remote    bool              `json:"remote"`
	FellBack  bool              `json:"fell_back"`
	Timestamp time.Time         `json:"timestamp"`
}

// NewCartEventMessage строит сообщение из доменного события и присваивает ему id.
func NewCartEventMessage(clientID string, event domain.CartEvent) *CartEventMessage {
	ts := event.Occurred
	if ts.IsZero() {
		ts = time.Now().UTC()
	}
	items := event.Items
	if items == nil {
		items = []domain.LineItem{}
	}
	return &CartEventMessage{
		EventID:   uuid.NewString(),
		EventType: string(event.Type),
		ClientID:  clientID,
		ProductID: event.ProductID,
		Quantity:  event.Quantity,
		Items:     items,
		Remote:    event.Remote,
		FellBack:  event.FellBack,
		Timestamp: ts,
	}
}
