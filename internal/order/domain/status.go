package domain

// Status is the order lifecycle state.
type Status string

const (
	StatusPending   Status = "pending"
	StatusConfirmed Status = "confirmed"
	StatusShipping  Status = "shipping"
	StatusDelivered Status = "delivered"
	StatusPaid      Status = "paid"
	StatusCancelled Status = "cancelled"
)

// transitions is the full lifecycle graph. Paid and cancelled are terminal.
var transitions = map[Status][]Status{
	StatusPending:   {StatusConfirmed, StatusCancelled},
	StatusConfirmed: {StatusShipping, StatusPaid, StatusCancelled},
	StatusShipping:  {StatusDelivered, StatusCancelled},
	StatusDelivered: {StatusPaid},
	StatusPaid:      {},
	StatusCancelled: {},
}

// Valid reports whether the status is a known lifecycle state.
func (s Status) Valid() bool {
	_, ok := transitions[s]
	return ok
}

// CanTransitionTo reports whether the lifecycle allows moving to next.
func (s Status) CanTransitionTo(next Status) bool {
	for _, allowed := range transitions[s] {
		if allowed == next {
			return true
		}
	}
	return false
}
