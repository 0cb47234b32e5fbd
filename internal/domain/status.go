package domain

type BookingStatus string

const (
	BookingPending    BookingStatus = "pending"
	BookingConfirmed  BookingStatus = "confirmed"
	BookingInProgress BookingStatus = "in-progress"
	BookingCompleted  BookingStatus = "completed"
	BookingCancelled  BookingStatus = "cancelled"
)

// ChefTargets are the statuses a chef may move a booking to.
var ChefTargets = []BookingStatus{
	BookingConfirmed,
	BookingInProgress,
	BookingCompleted,
	BookingCancelled,
}

var transitions = map[BookingStatus][]BookingStatus{
	BookingPending:    {BookingConfirmed, BookingCancelled},
	BookingConfirmed:  {BookingInProgress, BookingCancelled},
	BookingInProgress: {BookingCompleted, BookingCancelled},
}

func (s BookingStatus) Valid() bool {
	switch s {
	case BookingPending, BookingConfirmed, BookingInProgress, BookingCompleted, BookingCancelled:
		return true
	}
	return false
}

// IsTerminal reports whether no further transition is possible.
func (s BookingStatus) IsTerminal() bool {
	return s == BookingCompleted || s == BookingCancelled
}

// Next lists the statuses reachable from s.
func (s BookingStatus) Next() []BookingStatus {
	return transitions[s]
}

func (s BookingStatus) CanTransition(to BookingStatus) bool {
	for _, next := range transitions[s] {
		if next == to {
			return true
		}
	}
	return false
}

// IsChefTarget reports whether a chef may request s.
func IsChefTarget(s BookingStatus) bool {
	for _, target := range ChefTargets {
		if target == s {
			return true
		}
	}
	return false
}
