// README: Operator profile as shown to brokers.
package operator

import (
	"strings"

	"charterdesk/internal/types"
)

type Profile struct {
	ID                 types.ID `json:"id"`
	Name               string   `json:"name"`
	HomeBases          []string `json:"home_bases"`
	SafetyNotes        string   `json:"safety_notes,omitempty"`
	TypicalTurnMinutes int      `json:"typical_turn_minutes"`
	Contact            string   `json:"contact"`
}

// MaskContact hides the local part of an email or all but the last four
// digits of a phone number. Contact details never leave the platform in clear.
func MaskContact(contact string) string {
	contact = strings.TrimSpace(contact)
	if contact == "" {
		return ""
	}
	if at := strings.LastIndex(contact, "@"); at > 0 {
		return contact[:1] + strings.Repeat("*", at-1) + contact[at:]
	}
	b := []byte(contact)
	digits := 0
	for i := len(b) - 1; i >= 0; i-- {
		if b[i] < '0' || b[i] > '9' {
			continue
		}
		digits++
		if digits > 4 {
			b[i] = '*'
		}
	}
	return string(b)
}
