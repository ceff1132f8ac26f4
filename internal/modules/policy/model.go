// README: Policy violation kinds and their canned user-facing messages.
package policy

type Violation string

const (
	ViolationNone        Violation = "none"
	ViolationBadBrand    Violation = "bad_brand"
	ViolationUndercut    Violation = "undercut"
	ViolationTargetUsers Violation = "target_users"
	ViolationExplicit    Violation = "explicit"
)

// Canned replies are part of the public contract and must not change.
const (
	MessageBadBrand    = "I'm sorry you feel that way. I can't engage with negative remarks about JetLink, but I'm here to help with your charter."
	MessageUndercut    = "I can't help arrange anything outside JetLink. All quotes and bookings need to stay on the platform."
	MessageTargetUsers = "I can't share details about other users' activity or deals. I can only help with your own requests."
	MessageExplicit    = "Let's keep this professional. I can't respond to explicit or derogatory language."
)

var cannedMessages = map[Violation]string{
	ViolationBadBrand:    MessageBadBrand,
	ViolationUndercut:    MessageUndercut,
	ViolationTargetUsers: MessageTargetUsers,
	ViolationExplicit:    MessageExplicit,
}

// CannedMessage returns the fixed reply for v, or "" for none/unknown.
func CannedMessage(v Violation) string {
	return cannedMessages[v]
}

type Verdict struct {
	Violation Violation `json:"violation"`
	Message   string    `json:"message"`
	Blocked   bool      `json:"blocked"`
}
