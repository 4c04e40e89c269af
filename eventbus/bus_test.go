package eventbus

import (
	"context"
	"sync/atomic"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestPublishDeliversToAllSubscribers(t *testing.T) {
	bus := NewBus()
	ctx := context.Background()

	var count atomic.Int32
	bus.Subscribe("topic", func(ctx context.Context, m *Message) error {
		count.Add(1)
		return nil
	})
	bus.Subscribe("topic", func(ctx context.Context, m *Message) error {
		count.Add(1)
		return nil
	})

	bus.Publish(ctx, "topic", "hello")
	require.NoError(t, bus.Wait(ctx, time.Second))
	assert.Equal(t, int32(2), count.Load())
}

func TestPublishNoSubscribers(t *testing.T) {
	bus := NewBus()
	ctx := context.Background()
	bus.Publish(ctx, "empty", "hello")
	require.NoError(t, bus.Wait(ctx, time.Second))
}

func TestPublishTopicIsolation(t *testing.T) {
	bus := NewBus()
	ctx := context.Background()

	var got atomic.Value
	bus.Subscribe("a", func(ctx context.Context, m *Message) error {
		got.Store(m.Data)
		return nil
	})

	bus.Publish(ctx, "b", "for-b")
	bus.Publish(ctx, "a", "for-a")
	require.NoError(t, bus.Wait(ctx, time.Second))
	assert.Equal(t, "for-a", got.Load())
}

func TestMessageMetadata(t *testing.T) {
	bus := NewBus()
	ctx := context.Background()

	msgs := make(chan *Message, 1)
	bus.Subscribe("topic", func(ctx context.Context, m *Message) error {
		msgs <- m
		return nil
	})

	bus.Publish(ctx, "topic", 42)
	require.NoError(t, bus.Wait(ctx, time.Second))

	m := <-msgs
	assert.NotEmpty(t, m.ID)
	assert.Equal(t, "topic", m.Topic)
	assert.Equal(t, 42, m.Data)
}

func TestSubscriberPanicIsRecovered(t *testing.T) {
	bus := NewBus()
	ctx := context.Background()

	var called atomic.Bool
	bus.Subscribe("topic", func(ctx context.Context, m *Message) error {
		panic("boom")
	})
	bus.Subscribe("topic", func(ctx context.Context, m *Message) error {
		called.Store(true)
		return nil
	})

	bus.Publish(ctx, "topic", nil)
	require.NoError(t, bus.Wait(ctx, time.Second))
	assert.True(t, called.Load())
}

func TestPluginName(t *testing.T) {
	p := Plugin(NewBus())
	assert.Equal(t, "eventbus", p.Name())
}
