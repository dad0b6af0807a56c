package realtime

import (
	"context"
	"encoding/json"
	"errors"
	"testing"

	"github.com/google/uuid"

	"github.com/saikganesh/navajothi-jewels-backend/pkg/enums"
)

type fakePublishClient struct {
	channel string
	payload []byte
	err     error
}

func (f *fakePublishClient) Publish(ctx context.Context, channel string, payload any) error {
	if f.err != nil {
		return f.err
	}
	f.channel = channel
	f.payload = payload.([]byte)
	return nil
}

func (f *fakePublishClient) CartChannelKey(userID string) string {
	return "nj:cart:" + userID
}

func TestPublishCartEventEnvelope(t *testing.T) {
	client := &fakePublishClient{}
	publisher, err := NewPublisher(client)
	if err != nil {
		t.Fatalf("new publisher: %v", err)
	}

	productID := uuid.New()
	if err := publisher.PublishCartEvent(context.Background(), "user-1", CartEvent(enums.CartEventUpdate, productID)); err != nil {
		t.Fatalf("publish: %v", err)
	}

	if client.channel != "nj:cart:user-1" {
		t.Fatalf("unexpected channel %q", client.channel)
	}

	var decoded Event
	if err := json.Unmarshal(client.payload, &decoded); err != nil {
		t.Fatalf("decode payload: %v", err)
	}
	if decoded.Type != enums.CartEventUpdate || decoded.ProductID == nil || *decoded.ProductID != productID {
		t.Fatalf("unexpected event %+v", decoded)
	}
}

func TestPublishClearEventOmitsProduct(t *testing.T) {
	client := &fakePublishClient{}
	publisher, _ := NewPublisher(client)

	if err := publisher.PublishCartEvent(context.Background(), "user-1", ClearEvent()); err != nil {
		t.Fatalf("publish: %v", err)
	}

	var decoded map[string]any
	if err := json.Unmarshal(client.payload, &decoded); err != nil {
		t.Fatalf("decode payload: %v", err)
	}
	if _, present := decoded["product_id"]; present {
		t.Fatal("clear event must omit product_id")
	}
}

func TestPublishCartEventWrapsTransportError(t *testing.T) {
	publisher, _ := NewPublisher(&fakePublishClient{err: errors.New("redis down")})

	if err := publisher.PublishCartEvent(context.Background(), "user-1", ClearEvent()); err == nil {
		t.Fatal("expected transport error")
	}
}
