package eventbus

import (
	"context"
	"sync"
	"time"

	"github.com/dpup/oauthconnect/errors"
	"github.com/dpup/oauthconnect/logging"
	"github.com/google/uuid"
)

// NewBus returns an in-memory EventBus. Handlers run on their own goroutines
// and receive the context passed to Publish.
func NewBus() EventBus {
	return &Bus{}
}

// Bus is an in-memory implementation of EventBus.
type Bus struct {
	subscribers map[string][]Subscriber

	mu sync.Mutex     // Protects subscribers.
	wg sync.WaitGroup // Waits for active subscribers to complete.
}

// Subscribe registers a handler for messages on a topic.
func (b *Bus) Subscribe(topic string, subscriber Subscriber) {
	b.mu.Lock()
	defer b.mu.Unlock()
	if b.subscribers == nil {
		b.subscribers = make(map[string][]Subscriber)
	}
	b.subscribers[topic] = append(b.subscribers[topic], subscriber)
}

// Publish sends a message to all subscribers of the topic.
func (b *Bus) Publish(ctx context.Context, topic string, data any) {
	b.mu.Lock()
	handlers := b.subscribers[topic]
	b.mu.Unlock()

	if len(handlers) == 0 {
		return
	}

	for _, handler := range handlers {
		msg := &Message{
			ID:    uuid.NewString(),
			Topic: topic,
			Data:  data,
		}
		b.wg.Add(1)
		go b.execute(ctx, handler, msg)
	}
}

// Wait blocks until all pending messages are processed or the timeout
// elapses.
func (b *Bus) Wait(ctx context.Context, timeout time.Duration) error {
	c := make(chan struct{})
	go func() {
		defer close(c)
		b.wg.Wait()
	}()
	select {
	case <-c:
		return nil
	case <-time.After(timeout):
		return errors.New("eventbus: timeout waiting for handlers to finish")
	case <-ctx.Done():
		return ctx.Err()
	}
}

func (b *Bus) execute(ctx context.Context, handler Subscriber, msg *Message) {
	defer func() {
		if r := recover(); r != nil {
			logging.Errorw(ctx, "eventbus: recovered from panic",
				"error", r, "topic", msg.Topic, "message_id", msg.ID)
		}
		b.wg.Done()
	}()
	if err := handler(ctx, msg); err != nil {
		logging.Errorw(ctx, "eventbus: handler error",
			"error", err, "topic", msg.Topic, "message_id", msg.ID)
	}
}
