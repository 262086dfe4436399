package booking

type Status string

const (
	StatusPending   Status = "pending"
	StatusConfirmed Status = "confirmed"
	StatusCompleted Status = "completed"
	StatusCancelled Status = "cancelled"
)

func (s Status) String() string {
	return string(s)
}

func (s Status) IsValid() bool {
	switch s {
	case StatusPending, StatusConfirmed, StatusCompleted, StatusCancelled:
		return true
	default:
		return false
	}
}

// IsTerminal reports whether the lifecycle sweeper must leave the booking
// alone: completed and cancelled are final states.
func (s Status) IsTerminal() bool {
	return s == StatusCompleted || s == StatusCancelled
}

type PaymentType string

const (
	PaymentCash        PaymentType = "cash"
	PaymentCertificate PaymentType = "certificate"
	PaymentAggregator  PaymentType = "aggregator"
)

func (p PaymentType) IsValid() bool {
	switch p {
	case PaymentCash, PaymentCertificate, PaymentAggregator:
		return true
	default:
		return false
	}
}
