// README: Sanctions screening against blocked names, companies and countries.
package compliance

import (
	"fmt"
	"strings"

	"charterdesk/internal/rules"
)

type Screening struct {
	Clear bool   `json:"clear"`
	Notes string `json:"notes"`
}

type Screener struct {
	names     []string
	companies []string
	countries []string
}

func NewScreener(s rules.Sanctions) *Screener {
	return &Screener{
		names:     lowerAll(s.Names),
		companies: lowerAll(s.Companies),
		countries: lowerAll(s.Countries),
	}
}

// Screen flags a party when any blocked entry appears inside the supplied
// name, company or country. Empty inputs are not checked.
func (s *Screener) Screen(name, company, country string) Screening {
	var hits []string
	if h := firstHit(name, s.names); h != "" {
		hits = append(hits, fmt.Sprintf("name matches sanctioned party %q", h))
	}
	if h := firstHit(company, s.companies); h != "" {
		hits = append(hits, fmt.Sprintf("company matches sanctioned entity %q", h))
	}
	if h := firstHit(country, s.countries); h != "" {
		hits = append(hits, fmt.Sprintf("country %q is embargoed", h))
	}
	if len(hits) == 0 {
		return Screening{Clear: true, Notes: "No sanctions matches"}
	}
	return Screening{Clear: false, Notes: "Manual review required: " + strings.Join(hits, "; ")}
}

func firstHit(value string, list []string) string {
	v := strings.ToLower(strings.TrimSpace(value))
	if v == "" {
		return ""
	}
	for _, entry := range list {
		if strings.Contains(v, entry) {
			return entry
		}
	}
	return ""
}

func lowerAll(in []string) []string {
	out := make([]string, 0, len(in))
	for _, s := range in {
		if s = strings.ToLower(strings.TrimSpace(s)); s != "" {
			out = append(out, s)
		}
	}
	return out
}
