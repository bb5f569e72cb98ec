package commands

import (
	"context"

	"gamezone-booking/internal/domain/reservation"
	"gamezone-booking/internal/pkg/errs"
	"gamezone-booking/internal/pkg/signature"
	"gamezone-booking/internal/usecase/queries"
	"gamezone-booking/internal/usecase/shared"

	"github.com/google/uuid"
)

//go:generate mockgen -source=payment.go -destination=../../../tests/mock/commands/payment.go -package=commandsmock

type EntityType string

const (
	EntityReservation EntityType = "reservation"
	EntitySession     EntityType = "session"
)

// VerifyPaymentRequest is a gateway confirmation. OrderRef is the id of the
// entity being paid for.
type VerifyPaymentRequest struct {
	EntityType EntityType
	OrderRef   string
	PaymentRef string
	Signature  string
}

type PaymentCommands interface {
	Verify(ctx context.Context, req VerifyPaymentRequest) (*DispatchResult, error)
}

type paymentUseCaseImpl struct {
	*Dependencies
	verifier *signature.Verifier
}

func NewPaymentCommands(deps *Dependencies, verifier *signature.Verifier) PaymentCommands {
	return &paymentUseCaseImpl{Dependencies: deps, verifier: verifier}
}

// Verify checks the signature before anything else; a mismatch never reaches
// the booking state.
func (uc *paymentUseCaseImpl) Verify(ctx context.Context, req VerifyPaymentRequest) (*DispatchResult, error) {
	if err := uc.verifier.Verify(req.OrderRef, req.PaymentRef, req.Signature); err != nil {
		uc.Logger.Warn("payment signature rejected",
			"entity_type", req.EntityType,
			"order_ref", req.OrderRef,
			"payment_ref", req.PaymentRef)
		return nil, err
	}
	if req.PaymentRef == "" {
		return nil, ErrMissingPaymentRef
	}
	id, err := uuid.Parse(req.OrderRef)
	if err != nil {
		return nil, errs.Mark(errs.Wrap(err, "order reference"), errs.ErrValidation)
	}

	switch req.EntityType {
	case EntityReservation:
		return uc.dispatchPaid(ctx, dispatchRequest{
			reservationID: id,
			paymentRef:    req.PaymentRef,
			method:        reservation.PaymentOnline,
			enqueue:       true,
		})
	case EntitySession:
		return uc.markSessionPaid(ctx, id, req.PaymentRef)
	default:
		return nil, ErrUnknownEntityType
	}
}

// markSessionPaid is a pure payment confirmation; the session state machine is
// not touched.
func (uc *paymentUseCaseImpl) markSessionPaid(ctx context.Context, id uuid.UUID, paymentRef string) (*DispatchResult, error) {
	var view *queries.SessionView
	err := withVersionRetry(uc.Booking.TransitionRetries, func() error {
		return uc.UoW.Within(ctx, func(ctx context.Context, tx shared.Tx) error {
			sess, err := tx.Sessions().FindByID(ctx, id)
			if err != nil {
				return notFoundAs(err, ErrSessionNotFound)
			}
			sess.MarkPaid(paymentRef, uc.Clock.Now())
			if err := tx.Sessions().Update(ctx, sess); err != nil {
				return err
			}
			view = queries.NewSessionView(sess)
			return nil
		})
	})
	if err != nil {
		return nil, err
	}
	return &DispatchResult{Outcome: OutcomePaid, Session: view}, nil
}
