package domain

import "testing"

func TestCanTransitionLifecycle(t *testing.T) {
	tests := []struct {
		name string
		from Status
		to   Status
		want bool
	}{
		{"accept new", StatusNew, StatusAccepted, true},
		{"decline new", StatusNew, StatusDeclined, true},
		{"safety decline new", StatusNew, StatusDeclinedSafety, true},
		{"expire held new", StatusNew, StatusHoldExpired, true},
		{"hold new", StatusNew, StatusOnHold, true},
		{"complete new skips accept", StatusNew, StatusCompleted, false},

		{"pause accepted", StatusAccepted, StatusPaused, true},
		{"complete accepted", StatusAccepted, StatusCompleted, true},
		{"safety decline accepted", StatusAccepted, StatusDeclinedSafety, true},
		{"fail accepted", StatusAccepted, StatusFailed, true},
		{"hold accepted", StatusAccepted, StatusOnHold, true},

		{"resume paused", StatusPaused, StatusAccepted, true},
		{"complete paused", StatusPaused, StatusCompleted, false},

		{"release hold", StatusOnHold, StatusNew, true},
		{"release hold back to accepted", StatusOnHold, StatusAccepted, true},
		{"inactivity close hold", StatusOnHold, StatusClosedForInactivity, true},

		{"close completed", StatusCompleted, StatusClosed, true},
		{"reopen completed", StatusCompleted, StatusAccepted, false},

		{"reopen closed", StatusClosed, StatusNew, false},
		{"reopen declined", StatusDeclined, StatusNew, false},
		{"reopen safety declined", StatusDeclinedSafety, StatusAccepted, false},
		{"reopen cancelled", StatusCancelled, StatusNew, false},
		{"reopen failed", StatusFailed, StatusAccepted, false},
		{"reopen hold expired", StatusHoldExpired, StatusNew, false},

		{"unknown source", Status("BOGUS"), StatusAccepted, false},
		{"unknown target", StatusNew, Status("BOGUS"), false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := CanTransition(tt.from, tt.to); got != tt.want {
				t.Errorf("CanTransition(%s, %s) = %v, want %v", tt.from, tt.to, got, tt.want)
			}
		})
	}
}

func TestTerminalStatuses(t *testing.T) {
	terminal := []Status{
		StatusClosed, StatusDeclined, StatusDeclinedSafety, StatusCancelled,
		StatusFailed, StatusHoldExpired, StatusClosedForInactivity,
	}
	for _, s := range terminal {
		if !s.Terminal() {
			t.Errorf("%s should be terminal", s)
		}
	}

	open := []Status{StatusNew, StatusAccepted, StatusPaused, StatusOnHold, StatusCompleted}
	for _, s := range open {
		if s.Terminal() {
			t.Errorf("%s should not be terminal", s)
		}
	}

	if Status("BOGUS").Terminal() {
		t.Error("unknown status must not report terminal")
	}
}

func TestActiveStatuses(t *testing.T) {
	for _, s := range []Status{StatusNew, StatusAccepted, StatusOnHold} {
		if !s.Active() {
			t.Errorf("%s should count as active", s)
		}
	}
	for _, s := range []Status{StatusPaused, StatusCompleted, StatusClosed, StatusDeclined, StatusCancelled} {
		if s.Active() {
			t.Errorf("%s should not count as active", s)
		}
	}
}

func TestValid(t *testing.T) {
	if !StatusNew.Valid() || !StatusClosedForInactivity.Valid() {
		t.Error("known statuses must validate")
	}
	if Status("").Valid() || Status("new").Valid() {
		t.Error("unknown or wrong-case statuses must not validate")
	}
}
