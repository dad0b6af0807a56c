package realtime

import (
	"context"
	"encoding/json"
	"fmt"

	pkgerrors "github.com/saikganesh/navajothi-jewels-backend/pkg/errors"
)

type publishClient interface {
	Publish(ctx context.Context, channel string, payload any) error
	CartChannelKey(userID string) string
}

// Publisher serializes cart events onto the per-user channel.
type Publisher struct {
	client publishClient
}

// NewPublisher builds a publisher over the shared redis client.
func NewPublisher(client publishClient) (*Publisher, error) {
	if client == nil {
		return nil, fmt.Errorf("publish client required")
	}
	return &Publisher{client: client}, nil
}

// PublishCartEvent emits one event on the user's cart channel.
func (p *Publisher) PublishCartEvent(ctx context.Context, userID string, event Event) error {
	payload, err := json.Marshal(event)
	if err != nil {
		return pkgerrors.Wrap(pkgerrors.CodeInternal, err, "encode cart event")
	}
	if err := p.client.Publish(ctx, p.client.CartChannelKey(userID), payload); err != nil {
		return pkgerrors.Wrap(pkgerrors.CodeDependency, err, "publish cart event")
	}
	return nil
}
