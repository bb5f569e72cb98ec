package request

import "github.com/google/uuid"

type PauseSessionRequest struct {
	Reason string `json:"reason"`
}

type ExtendSessionRequest struct {
	AdditionalMinutes int `json:"additionalMinutes"`
}

type SelectWinnerRequest struct {
	WinnerID uuid.UUID `json:"winnerId" binding:"required"`
}
