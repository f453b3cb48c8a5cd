package event_bus

import "driverstation/shared/data_structures"

func NewEventBus() EventBus {
	return &EventBus_t{
		subscriptions: data_structures.NewSafeMap[string, *data_structures.SafeSet[Subscriber]](),
		handlers:      data_structures.NewSafeMap[Subscriber, *data_structures.SafeMap[string, SubscriberHandler]](),
	}
}

func (eb *EventBus_t) Subscribe(eventType string, subscriber *Subscriber, handler SubscriberHandler) *Subscriber {
	if subscriber == nil {
		subscriber = NewSubscriber()
	}

	// Store the handler function under this subscriber's event-type map
	byType := eb.handlers.GetOrDefault(*subscriber, data_structures.NewSafeMap[string, SubscriberHandler]())
	byType.Set(eventType, handler)
	eb.handlers.Set(*subscriber, byType)

	// Add subscriber to the event type's set
	set := eb.subscriptions.GetOrDefault(eventType, data_structures.NewSafeSet[Subscriber]())
	set.Add(*subscriber)
	eb.subscriptions.Set(eventType, set)
	return subscriber
}

func (eb *EventBus_t) Unsubscribe(eventType string, subscriber *Subscriber) {
	if subscriber == nil {
		return
	}

	// Remove subscriber from the event type's set
	if set, ok := eb.subscriptions.Get(eventType); ok {
		set.Remove(*subscriber)
	}

	// Remove this event type's handler, leaving other subscriptions intact
	if byType, ok := eb.handlers.Get(*subscriber); ok {
		byType.Delete(eventType)
		eb.handlers.DeleteIfEmpty(*subscriber)
	}
}

func (eb *EventBus_t) Publish(event Event) {
	if event == nil {
		return
	}

	eventType := event.GetType()
	set, ok := eb.subscriptions.Get(eventType)
	if !ok {
		return
	}

	for sub := range set.Iterate() {
		byType, ok := eb.handlers.Get(sub)
		if !ok {
			continue
		}
		if handler, ok := byType.Get(eventType); ok {
			go handler(event)
		}
	}
}

// PublishData wraps data in a DefaultEvent and publishes it, for callers that
// don't need a custom Event implementation.
func (eb *EventBus_t) PublishData(eventType string, data interface{}) {
	eb.Publish(NewDefaultEvent(eventType, data))
}
