package errs

// Error classes. Every caller-visible error is marked with exactly one of these so
// the HTTP layer can map it without knowing individual sentinels.
var (
	// ErrValidation: bad input shape or range. Never retried by the system.
	ErrValidation = New("validation error")
	// ErrConflict: lock contention, slot taken, resource unavailable, incompatible state.
	ErrConflict = New("conflict")
	ErrNotFound = New("not found")
	// ErrForbidden: the actor may not touch another customer's booking.
	ErrForbidden = New("forbidden")
	// ErrSignature: payment verification failure. Fatal for the request.
	ErrSignature = New("signature verification failed")
	// ErrPromotionRollback: a queue promotion failed mid-flight and its entry was reverted.
	ErrPromotionRollback = New("queue promotion rolled back")

	// ErrRetryable is an additional mark for conflicts the caller may simply retry.
	ErrRetryable = New("retryable")
)

func Validation(msg string) error { return Mark(New(msg), ErrValidation) }
func Conflict(msg string) error   { return Mark(New(msg), ErrConflict) }
func NotFound(msg string) error   { return Mark(New(msg), ErrNotFound) }
func Forbidden(msg string) error  { return Mark(New(msg), ErrForbidden) }

func IsValidation(err error) bool { return Is(err, ErrValidation) }
func IsConflict(err error) bool   { return Is(err, ErrConflict) }
func IsNotFound(err error) bool   { return Is(err, ErrNotFound) }
func IsForbidden(err error) bool  { return Is(err, ErrForbidden) }
func IsSignature(err error) bool  { return Is(err, ErrSignature) }
func IsRetryable(err error) bool  { return Is(err, ErrRetryable) }
