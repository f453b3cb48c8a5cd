package terminal

import (
	"fmt"

	"driverstation/dsconfig"
	"driverstation/shared/event_bus"
)

func subscribeCommand(ctx *CommandContext, args []string) error {
	if len(args) < 1 {
		return fmt.Errorf("usage: subscribe <event_type>")
	}
	eventType := args[0]
	ctx.Engine.Events().Subscribe(eventType, ctx.Subscriber, func(event event_bus.Event) {
		ctx.Conn.Write([]byte(fmt.Sprintf("\nEvent received: %s\n", event.GetType())))
		ctx.Conn.Write([]byte(fmt.Sprintf("Data: %v\n", event.GetData())))
	})
	ctx.Conn.Write([]byte(fmt.Sprintf("Subscribed to event type: %s\n", eventType)))
	return nil
}

func unsubscribeCommand(ctx *CommandContext, args []string) error {
	if len(args) < 1 {
		return fmt.Errorf("usage: unsubscribe <event_type>")
	}
	eventType := args[0]
	ctx.Engine.Events().Unsubscribe(eventType, ctx.Subscriber)
	ctx.Conn.Write([]byte(fmt.Sprintf("Unsubscribed from event type: %s\n", eventType)))
	return nil
}

// subscribeAllCommand subscribes to every event type this codebase
// publishes; there is no wildcard subscription on the bus itself, so this
// enumerates dsconfig's event list the same way the status API's push
// channels do.
func subscribeAllCommand(ctx *CommandContext, args []string) error {
	for _, eventType := range dsconfig.AllEventTypes() {
		eventType := eventType
		ctx.Engine.Events().Subscribe(eventType, ctx.Subscriber, func(event event_bus.Event) {
			ctx.Conn.Write([]byte(fmt.Sprintf("\n[%s] %v\n", event.GetType(), event.GetData())))
		})
	}
	ctx.Conn.Write([]byte("Subscribed to all event types.\n"))
	return nil
}

func unsubscribeAllCommand(ctx *CommandContext, args []string) error {
	for _, eventType := range dsconfig.AllEventTypes() {
		ctx.Engine.Events().Unsubscribe(eventType, ctx.Subscriber)
	}
	ctx.Conn.Write([]byte("Unsubscribed from all event types.\n"))
	return nil
}

func publishCommand(ctx *CommandContext, args []string) error {
	if len(args) < 2 {
		return fmt.Errorf("usage: publish <event_type> <data>")
	}
	eventType := args[0]
	data := args[1]
	ctx.Engine.Events().Publish(event_bus.NewDefaultEvent(eventType, data))
	ctx.Conn.Write([]byte("Published event\n"))
	return nil
}
