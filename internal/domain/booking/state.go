package booking

import "errors"

// ErrUnsupportedState carries the exact message the original API exposed for
// unknown state tokens.
var ErrUnsupportedState = errors.New("Unknown state: UNSUPPORTED_STATUS")

// State classifies bookings for listing queries. It is a closed set: every
// variant maps to a distinct repository query, and anything outside the set
// is rejected at parse time so a new state can never fall through silently.
type State string

const (
	StateAll      State = "ALL"
	StateCurrent  State = "CURRENT"
	StatePast     State = "PAST"
	StateFuture   State = "FUTURE"
	StateWaiting  State = "WAITING"
	StateRejected State = "REJECTED"
	StateApproved State = "APPROVED"
)

// ParseState validates a state token. Matching is case-sensitive.
func ParseState(raw string) (State, error) {
	switch State(raw) {
	case StateAll, StateCurrent, StatePast, StateFuture, StateWaiting, StateRejected, StateApproved:
		return State(raw), nil
	default:
		return "", ErrUnsupportedState
	}
}

// StatusFilter returns the Status a pure status-filter state selects, and
// whether the state is one.
func (s State) StatusFilter() (Status, bool) {
	switch s {
	case StateWaiting:
		return StatusWaiting, true
	case StateRejected:
		return StatusRejected, true
	case StateApproved:
		return StatusApproved, true
	default:
		return "", false
	}
}
