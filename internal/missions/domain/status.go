// Package domain holds the mission lifecycle state machine. Every status
// change anywhere in the missions module must pass through CanTransition;
// the persistence layer stores statuses as opaque strings.
package domain

// Status is a mission lifecycle state.
type Status string

const (
	StatusNew                 = Status("NEW")
	StatusAccepted            = Status("ACCEPTED")
	StatusPaused              = Status("PAUSED")
	StatusOnHold              = Status("ON_HOLD")
	StatusCompleted           = Status("COMPLETED")
	StatusClosed              = Status("CLOSED")
	StatusDeclined            = Status("DECLINED")
	StatusDeclinedSafety      = Status("DECLINED_SAFETY")
	StatusCancelled           = Status("CANCELLED")
	StatusFailed              = Status("FAILED")
	StatusHoldExpired         = Status("HOLD_EXPIRED")
	StatusClosedForInactivity = Status("CLOSED_FOR_INACTIVITY")
)

// transitions maps each status to the statuses it may move to. A status
// missing from the map is terminal.
var transitions = map[Status][]Status{
	StatusNew: {
		StatusAccepted,
		StatusDeclined,
		StatusDeclinedSafety,
		StatusCancelled,
		StatusHoldExpired,
		StatusOnHold,
	},
	StatusAccepted: {
		StatusPaused,
		StatusOnHold,
		StatusCompleted,
		StatusDeclined,
		StatusDeclinedSafety,
		StatusFailed,
		StatusCancelled,
	},
	StatusPaused: {
		StatusAccepted,
		StatusCancelled,
		StatusFailed,
	},
	StatusOnHold: {
		StatusNew,
		StatusAccepted,
		StatusCancelled,
		StatusClosedForInactivity,
	},
	StatusCompleted: {
		StatusClosed,
	},
}

// Valid reports whether s is one of the known statuses.
func (s Status) Valid() bool {
	switch s {
	case StatusNew, StatusAccepted, StatusPaused, StatusOnHold,
		StatusCompleted, StatusClosed, StatusDeclined, StatusDeclinedSafety,
		StatusCancelled, StatusFailed, StatusHoldExpired, StatusClosedForInactivity:
		return true
	}
	return false
}

// Terminal reports whether no transition leaves s.
func (s Status) Terminal() bool {
	return s.Valid() && len(transitions[s]) == 0
}

// Active reports whether s counts against the agent's active-mission limit.
func (s Status) Active() bool {
	switch s {
	case StatusNew, StatusAccepted, StatusOnHold:
		return true
	}
	return false
}

// CanTransition reports whether a mission may move from one status to
// another. Unknown statuses never transition.
func CanTransition(from, to Status) bool {
	for _, next := range transitions[from] {
		if next == to {
			return true
		}
	}
	return false
}
