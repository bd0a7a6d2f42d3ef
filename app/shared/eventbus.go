package shared

import (
	"context"

	"github.com/ThreeDotsLabs/watermill/message"
)

// EventBus is the messaging surface the application modules publish through.
type EventBus interface {
	Publish(ctx context.Context, topic string, msg *message.Message) error
	Subscribe(ctx context.Context, topic string) (<-chan *message.Message, error)
	Close() error
}
