package shared

/*
Msg is the command envelope submitted to the control-loop engine's single
command queue. Every external actor that wants to mutate engine state
(operator command, status-API handler, terminal command) constructs a Msg
and hands it to the engine rather than mutating state directly, preserving
the single-threaded event-loop model: every Msg is handled on the engine's
command goroutine, which takes messages off the queue one at a time.
*/
type Msg interface {
	GetMsg() string         // Get the command name, e.g. "SET_ENABLED", "SET_MODE"
	GetPayload() any        // Get the payload of the message
	GetSource() string      // Get the source of the message, e.g. "statusapi", "terminal"
	GetReplyChan() chan any // Get the reply channel for the message
}

// DefaultMsg is the concrete Msg implementation used throughout the core.
type DefaultMsg struct {
	Msg       string   `json:"msg"`               // The command name
	Payload   any      `json:"payload,omitempty"` // Optional payload for the command
	Source    string   `json:"source,omitempty"`  // Optional source of the command
	ReplyChan chan any `json:"-"`                 // Channel for replies, not serialized
}
