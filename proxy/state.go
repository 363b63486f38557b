package proxy

// State indicates a request's progress through its life-cycle.
type State int

const (
	// StateReceived is the initial state of the request.
	StateReceived State = iota

	// StateUnrouted means that no route matched the request path. It is a
	// final state.
	StateUnrouted

	// StateRouted means that a route matched and the request body has been
	// read.
	StateRouted

	// StateDispatched means that the request has been recorded and sent to the
	// upstream server.
	StateDispatched

	// StateCompleted means that the upstream response has been recorded and
	// sent to the client. It is a final state.
	StateCompleted

	// StateFailed means that the upstream server could not be contacted, or
	// its response could not be read. It is a final state.
	StateFailed
)

func (s State) String() string {
	switch s {
	case StateReceived:
		return "received"
	case StateUnrouted:
		return "unrouted"
	case StateRouted:
		return "routed"
	case StateDispatched:
		return "dispatched"
	case StateCompleted:
		return "completed"
	case StateFailed:
		return "failed"
	default:
		return "unknown"
	}
}
