// README: Booking hand-off payload sent to the chosen operator.
package handoff

import (
	"time"

	"charterdesk/internal/types"
)

// Booking is a confirmed quote leaving the concierge for the operator's desk.
type Booking struct {
	ConversationID types.ID              `json:"conversation_id"`
	OperatorID     types.ID              `json:"operator_id"`
	OperatorName   string                `json:"operator_name"`
	Aircraft       string                `json:"aircraft"`
	PriceGBP       int64                 `json:"price_gbp"`
	Trip           types.AviationContext `json:"trip"`
	Role           string                `json:"role"`
	ConfirmedAt    time.Time             `json:"confirmed_at"`
}
