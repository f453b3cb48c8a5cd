package event_bus

import "driverstation/shared/data_structures"

// EventBus_t is the concrete EventBus implementation.
//
// If an event type has 0 subscribers, publishing to it is a no-op; subscriber
// sets are created lazily on first Subscribe and never proactively pruned.
type EventBus_t struct {
	subscriptions *data_structures.SafeMap[string, *data_structures.SafeSet[Subscriber]]                    // event type -> subscribers
	handlers      *data_structures.SafeMap[Subscriber, *data_structures.SafeMap[string, SubscriberHandler]] // subscriber -> event type -> handler
}

// Subscriber identifies a registered listener. It is comparable (the handler
// function itself is stored separately) so it can key a SafeMap or live in a SafeSet.
type Subscriber struct {
	ID string
}

// SubscriberHandler is invoked with the published event when a subscription matches.
type SubscriberHandler func(event Event)

// Event is anything publishable on the bus: a type tag plus a data payload.
type Event interface {
	GetType() string
	GetData() interface{}
}

// DefaultEvent is the event implementation used throughout the core: the
// config bus, protocol layer, and engine all publish DefaultEvent values.
type DefaultEvent struct {
	Type string
	Data interface{}
}

// DefaultPtrEvent avoids copying large payloads; GetData dereferences Data.
type DefaultPtrEvent struct {
	Type string
	Data *interface{}
}
