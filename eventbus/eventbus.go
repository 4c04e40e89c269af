// Package eventbus provides a simple publish/subscribe event bus. Plugins and
// components can optionally use this to communicate with each other.
package eventbus

import (
	"context"
	"time"

	"github.com/dpup/oauthconnect"
)

// Constant name for identifying the eventbus plugin.
const PluginName = "eventbus"

// Message wraps a published payload with delivery metadata.
type Message struct {
	ID    string
	Topic string
	Data  any
}

// Function type for event subscribers.
type Subscriber func(context.Context, *Message) error

// Plugin registers an eventbus for use by other plugins.
func Plugin(eb EventBus) *EventBusPlugin {
	return &EventBusPlugin{EventBus: eb}
}

// EventBusPlugin provides access to an event bus for plugins and components
// to communicate with each other.
type EventBusPlugin struct {
	EventBus
}

// From oauthconnect.Plugin.
func (p *EventBusPlugin) Name() string {
	return PluginName
}

var _ oauthconnect.Plugin = &EventBusPlugin{}

// EventBus provides a simple publish/subscribe interface for publishing and
// subscribing to events.
type EventBus interface {
	// Subscribe to an event. The handler will be called when the event is
	// published. Subscribers should assume that they may be called multiple
	// times concurrently.
	Subscribe(topic string, subscriber Subscriber)

	// Publish an event. The event will be sent to all subscribers.
	Publish(ctx context.Context, topic string, data any)

	// Wait for the event bus to finish processing all events. You should
	// ensure that publishers are also stopped as the event bus won't reject
	// new events.
	Wait(ctx context.Context, timeout time.Duration) error
}
