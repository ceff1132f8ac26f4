package ai

import (
	"regexp"
	"strings"
)

// DefaultNextAction is appended when a reply does not already offer a next step.
const DefaultNextAction = "Would you like me to check availability and pricing for you?"

var (
	roleMarkerRe = regexp.MustCompile(`(?im)^\s*(?:#+\s*)?(?:assistant|concierge|ai|bot|system|response)\s*:\s*`)
	blankRunRe   = regexp.MustCompile(`\n\s*\n(?:\s*\n)+`)
	nextActions  = []string{
		"shall i", "should i", "would you like", "do you want", "want me to",
		"could you", "can you", "can i", "may i", "ready to", "anything else", "are you happy",
	}
)

// Polish normalises backend text: role markers go, runs of blank lines
// collapse to one, the reply ends with punctuation and offers a next step.
// It returns "" when nothing is left.
func Polish(text string) string {
	text = roleMarkerRe.ReplaceAllString(text, "")
	text = strings.ReplaceAll(text, "\r\n", "\n")
	text = blankRunRe.ReplaceAllString(text, "\n\n")
	text = strings.TrimSpace(text)
	if text == "" {
		return ""
	}
	if !strings.ContainsAny(text[len(text)-1:], ".!?") {
		text += "."
	}
	if !HasNextAction(text) {
		text += " " + DefaultNextAction
	}
	return text
}

// HasNextAction reports whether text already invites the user to act.
func HasNextAction(text string) bool {
	lower := strings.ToLower(text)
	for _, p := range nextActions {
		if strings.Contains(lower, p) {
			return true
		}
	}
	return false
}
