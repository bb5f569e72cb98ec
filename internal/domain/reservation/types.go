package reservation

type Status string

const (
	StatusPendingPayment   Status = "pending_payment"
	StatusPendingApproval  Status = "pending_approval"
	StatusPaymentConfirmed Status = "payment_confirmed"
	StatusExpired          Status = "expired"
	StatusCancelled        Status = "cancelled"
	StatusPaymentFailed    Status = "payment_failed"
)

func (s Status) String() string {
	return string(s)
}

func (s Status) IsValid() bool {
	switch s {
	case StatusPendingPayment, StatusPendingApproval, StatusPaymentConfirmed,
		StatusExpired, StatusCancelled, StatusPaymentFailed:
		return true
	default:
		return false
	}
}

func (s Status) IsTerminal() bool {
	switch s {
	case StatusExpired, StatusCancelled, StatusPaymentFailed:
		return true
	default:
		return false
	}
}

// LiveStatuses hold a station window against other bookings.
var LiveStatuses = []Status{StatusPendingPayment, StatusPendingApproval, StatusPaymentConfirmed}

type Kind string

const (
	KindStandard  Kind = "standard"
	KindChallenge Kind = "challenge"
)

func (k Kind) IsValid() bool {
	return k == KindStandard || k == KindChallenge
}

type PaymentMethod string

const (
	PaymentOnline  PaymentMethod = "online"
	PaymentOffline PaymentMethod = "offline"
)

type action string

const (
	actionConfirm       action = "confirm"
	actionAwaitApproval action = "await_approval"
	actionCancel        action = "cancel"
	actionExpire        action = "expire"
	actionFail          action = "fail"
)

var transitionMap = map[action][]Status{
	actionConfirm:       {StatusPendingPayment, StatusPendingApproval, StatusPaymentConfirmed},
	actionAwaitApproval: {StatusPendingPayment},
	actionCancel:        {StatusPendingPayment, StatusPendingApproval, StatusPaymentConfirmed},
	actionExpire:        {StatusPendingPayment},
	actionFail:          {StatusPendingPayment, StatusPendingApproval},
}

func validTransition(a action, from Status) bool {
	for _, s := range transitionMap[a] {
		if s == from {
			return true
		}
	}
	return false
}
