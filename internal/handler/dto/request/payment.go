package request

import "gamezone-booking/internal/usecase/commands"

// VerifyPaymentRequest is the gateway callback body. Signature is the hex
// HMAC-SHA256 of "orderRef|paymentRef".
type VerifyPaymentRequest struct {
	EntityType string `json:"entityType" binding:"required"`
	OrderRef   string `json:"orderRef" binding:"required"`
	PaymentRef string `json:"paymentRef"`
	Signature  string `json:"signature" binding:"required"`
}

func (r VerifyPaymentRequest) ToCommand() commands.VerifyPaymentRequest {
	return commands.VerifyPaymentRequest{
		EntityType: commands.EntityType(r.EntityType),
		OrderRef:   r.OrderRef,
		PaymentRef: r.PaymentRef,
		Signature:  r.Signature,
	}
}
