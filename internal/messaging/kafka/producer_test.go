package kafka

import (
	"context"
	"encoding/json"
	"testing"
	"time"

	"github.com/IBM/sarama"
	"github.com/IBM/sarama/mocks"

	"github.com/vladislavdragonenkov/markethub/internal/domain"
)

func TestProducer_PublishCartEvent(t *testing.T) {
	mockProducer := mocks.NewSyncProducer(t, nil)
	producer := newProducer(mockProducer, "", "client-1")

	mockProducer.ExpectSendMessageWithCheckerFunctionAndSucceed(func(val []byte) error {
		var msg CartEventMessage
		if err := json.Unmarshal(val, &msg); err != nil {
			return err
		}
		if msg.EventType != string(domain.CartEventItemAdded) {
			t.Errorf("expected event type %s, got %s", domain.CartEventItemAdded, msg.EventType)
		}
		if msg.ClientID != "client-1" || msg.ProductID != "p1" || msg.Quantity != 2 {
			t.Errorf("unexpected message: %+v", msg)
		}
		if msg.EventID == "" {
			t.Error("event id should be set")
		}
		return nil
	})

	err := producer.PublishCartEvent(context.Background(), domain.CartEvent{
		Type:      domain.CartEventItemAdded,
		ProductID: "p1",
		Quantity:  2,
		Items:     []domain.LineItem{{ProductID: "p1", Quantity: 2}},
	})
	if err != nil {
		t.Fatalf("expected no error, got %v", err)
	}

	if producer.topic != TopicCartEvents {
		t.Errorf("expected default topic %s, got %s", TopicCartEvents, producer.topic)
	}

	if err := mockProducer.Close(); err != nil {
		t.Fatal(err)
	}
}

func TestProducer_PublishCartEvent_Error(t *testing.T) {
	mockProducer := mocks.NewSyncProducer(t, nil)
	producer := newProducer(mockProducer, "custom.topic", "client-1")

	mockProducer.ExpectSendMessageAndFail(sarama.ErrOutOfBrokers)

	err := producer.PublishCartEvent(context.Background(), domain.CartEvent{Type: domain.CartEventCleared})
	if err == nil {
		t.Fatal("expected error, got nil")
	}

	if err := mockProducer.Close(); err != nil {
		t.Fatal(err)
	}
}

func TestProducer_PublishCartEvent_CanceledContext(t *testing.T) {
	mockProducer := mocks.NewSyncProducer(t, nil)
	producer := newProducer(mockProducer, "", "client-1")

	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	if err := producer.PublishCartEvent(ctx, domain.CartEvent{Type: domain.CartEventCleared}); err == nil {
		t.Fatal("expected context error")
	}

	if err := mockProducer.Close(); err != nil {
		t.Fatal(err)
	}
}

func TestNewCartEventMessage(t *testing.T) {
	occurred := time.Date(2026, 1, 2, 3, 4, 5, 0, time.UTC)
	msg := NewCartEventMessage("client-1", domain.CartEvent{
		Type:     domain.CartEventSynced,
		Remote:   true,
		Occurred: occurred,
	})

	if msg.EventType != "cart.synced" {
		t.Errorf("unexpected event type %s", msg.EventType)
	}
	if !msg.Timestamp.Equal(occurred) {
		t.Errorf("expected timestamp %v, got %v", occurred, msg.Timestamp)
	}
	if msg.Items == nil {
		t.Error("items should serialize as an empty list, not null")
	}
	if !msg.Remote {
		t.Error("remote flag lost")
	}

	other := NewCartEventMessage("client-1", domain.CartEvent{Type: domain.CartEventCleared})
	if other.EventID == msg.EventID {
		t.Error("event ids should be unique")
	}
	if time.Since(other.Timestamp) > time.Second {
		t.Error("timestamp should default to now")
	}
}
