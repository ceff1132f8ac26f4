// README: Context extractor; pulls partial flight-request fields out of free text.
package extraction

import (
	"fmt"
	"math"
	"regexp"
	"strconv"
	"strings"
	"time"

	"charterdesk/internal/modules/airport"
	"charterdesk/internal/rules"
	"charterdesk/internal/types"
)

var (
	isoDateRe  = regexp.MustCompile(`\b(\d{4})-(\d{1,2})-(\d{1,2})\b`)
	dmyDateRe  = regexp.MustCompile(`\b(\d{1,2})[/-](\d{1,2})[/-](\d{4})\b`)
	icaoWordRe = regexp.MustCompile(`\b[A-Za-z]{4}\b`)
)

// budgetCueWindow is how far before an amount a cue word may appear.
const budgetCueWindow = 24

type Extractor struct {
	ex *rules.Extraction
}

func NewExtractor(set *rules.Set) *Extractor {
	return &Extractor{ex: &set.Extraction}
}

// Extract returns the fields it could read from message. Anything ambiguous
// is left unset.
func (e *Extractor) Extract(message string) types.AviationContext {
	var out types.AviationContext
	m := newMasked(message)

	if date, span, ok := findDate(message); ok {
		out.Date = date
		m.hide(span)
	}
	for i := range e.ex.Aircraft {
		if v, span, ok := e.ex.Aircraft[i].Find(message); ok {
			out.Aircraft = v
			m.hide(span)
			break
		}
	}
	out.Origin, out.Destination = e.airports(message, m)

	if v, span, ok := findInt(e.ex.PaxRe, m.String()); ok && v > 0 {
		out.Pax = v
		m.hide(span)
	}
	if v, span, ok := findInt(e.ex.BagsRe, m.String()); ok {
		out.Bags = v
		m.hide(span)
	}
	if v, ok := e.budget(m.String()); ok {
		out.BudgetGBP = v
	}
	for i := range e.ex.Cabin {
		if v, _, ok := e.ex.Cabin[i].Find(message); ok {
			out.CabinPreference = v
			break
		}
	}
	for i := range e.ex.Flexibility {
		if v, _, ok := e.ex.Flexibility[i].Find(message); ok {
			out.Flexibility = v
			break
		}
	}
	return out
}

func (e *Extractor) airports(message string, m *masked) (origin, destination string) {
	for _, loc := range icaoWordRe.FindAllStringIndex(message, -1) {
		code := strings.ToUpper(message[loc[0]:loc[1]])
		if !airport.IsKnown(code) {
			continue
		}
		m.hide([2]int{loc[0], loc[1]})
		switch {
		case origin == "":
			origin = code
		case code != origin:
			return origin, code
		}
	}
	return origin, ""
}

func (e *Extractor) budget(s string) (int64, bool) {
	if e.ex.BudgetRe == nil {
		return 0, false
	}
	for _, loc := range e.ex.BudgetRe.FindAllStringSubmatchIndex(s, -1) {
		numStart, numEnd := loc[4], loc[5]
		if numStart > 0 && (isWordByte(s[numStart-1]) || s[numStart-1] == ':') {
			continue
		}
		if numEnd < len(s) && strings.ContainsRune(":/-", rune(s[numEnd])) {
			continue
		}
		prefix := loc[2] >= 0
		unit := group(s, loc, 3)
		suffix := loc[8] >= 0
		if !prefix && !suffix {
			if e.notMoney(s, numEnd, loc) {
				continue
			}
			if unit == "" && !e.cued(s, loc[0]) {
				continue
			}
		}
		v, err := strconv.ParseFloat(strings.ReplaceAll(s[numStart:numEnd], ",", ""), 64)
		if err != nil {
			continue
		}
		switch strings.ToLower(unit) {
		case "k", "thousand":
			v *= 1_000
		case "m", "million":
			v *= 1_000_000
		}
		if amount := int64(math.Round(v)); amount > 0 {
			return amount, true
		}
	}
	return 0, false
}

// notMoney reports whether the word after the amount (and its k/m unit) is a
// time, duration or distance unit.
func (e *Extractor) notMoney(s string, numEnd int, loc []int) bool {
	if e.ex.NotBudgetRe == nil {
		return false
	}
	after := numEnd
	if loc[7] >= 0 {
		after = loc[7]
	}
	return e.ex.NotBudgetRe.MatchString(s[after:])
}

func (e *Extractor) cued(s string, at int) bool {
	if e.ex.BudgetCueRe == nil {
		return false
	}
	from := at - budgetCueWindow
	if from < 0 {
		from = 0
	}
	return e.ex.BudgetCueRe.MatchString(s[from:at])
}

func findDate(s string) (string, [2]int, bool) {
	if loc := isoDateRe.FindStringSubmatchIndex(s); loc != nil {
		if d, ok := normaliseDate(group(s, loc, 1), group(s, loc, 2), group(s, loc, 3)); ok {
			return d, [2]int{loc[0], loc[1]}, true
		}
	}
	if loc := dmyDateRe.FindStringSubmatchIndex(s); loc != nil {
		if d, ok := normaliseDate(group(s, loc, 3), group(s, loc, 2), group(s, loc, 1)); ok {
			return d, [2]int{loc[0], loc[1]}, true
		}
	}
	return "", [2]int{}, false
}

func normaliseDate(year, month, day string) (string, bool) {
	y, _ := strconv.Atoi(year)
	mo, _ := strconv.Atoi(month)
	d, _ := strconv.Atoi(day)
	s := fmt.Sprintf("%04d-%02d-%02d", y, mo, d)
	if _, err := time.Parse(time.DateOnly, s); err != nil {
		return "", false
	}
	return s, true
}

func findInt(re *regexp.Regexp, s string) (int, [2]int, bool) {
	if re == nil {
		return 0, [2]int{}, false
	}
	loc := re.FindStringSubmatchIndex(s)
	if loc == nil {
		return 0, [2]int{}, false
	}
	v, err := strconv.Atoi(group(s, loc, 1))
	if err != nil {
		return 0, [2]int{}, false
	}
	return v, [2]int{loc[0], loc[1]}, true
}

func group(s string, loc []int, n int) string {
	if 2*n+1 >= len(loc) || loc[2*n] < 0 {
		return ""
	}
	return s[loc[2*n]:loc[2*n+1]]
}

func isWordByte(c byte) bool {
	return c == '_' || c == '.' || c == ',' ||
		(c >= '0' && c <= '9') || (c >= 'a' && c <= 'z') || (c >= 'A' && c <= 'Z')
}

// masked is the message with already-consumed spans blanked out, so a date
// or passenger count is never read again as a budget.
type masked struct {
	b []byte
}

func newMasked(s string) *masked {
	return &masked{b: []byte(s)}
}

func (m *masked) hide(span [2]int) {
	for i := span[0]; i < span[1] && i < len(m.b); i++ {
		m.b[i] = ' '
	}
}

func (m *masked) String() string {
	return string(m.b)
}
