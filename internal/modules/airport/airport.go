// README: Known ICAO airports used for extraction and reposition distances.
package airport

import (
	"sort"
	"strings"

	"charterdesk/internal/types"
)

type Airport struct {
	ICAO     string
	Name     string
	City     string
	Country  string
	Position types.Point
}

var known = map[string]Airport{
	"EGLL": {"EGLL", "London Heathrow", "London", "GB", types.Point{Lat: 51.4700, Lng: -0.4543}},
	"EGLF": {"EGLF", "Farnborough", "Farnborough", "GB", types.Point{Lat: 51.2758, Lng: -0.7763}},
	"EGKB": {"EGKB", "London Biggin Hill", "London", "GB", types.Point{Lat: 51.3308, Lng: 0.0325}},
	"EGGW": {"EGGW", "London Luton", "Luton", "GB", types.Point{Lat: 51.8747, Lng: -0.3683}},
	"EGSS": {"EGSS", "London Stansted", "London", "GB", types.Point{Lat: 51.8850, Lng: 0.2350}},
	"EGLC": {"EGLC", "London City", "London", "GB", types.Point{Lat: 51.5053, Lng: 0.0553}},
	"EGHH": {"EGHH", "Bournemouth", "Bournemouth", "GB", types.Point{Lat: 50.7800, Lng: -1.8425}},
	"EGCC": {"EGCC", "Manchester", "Manchester", "GB", types.Point{Lat: 53.3537, Lng: -2.2750}},
	"EGPH": {"EGPH", "Edinburgh", "Edinburgh", "GB", types.Point{Lat: 55.9500, Lng: -3.3725}},
	"EIDW": {"EIDW", "Dublin", "Dublin", "IE", types.Point{Lat: 53.4213, Lng: -6.2701}},
	"LFPB": {"LFPB", "Paris Le Bourget", "Paris", "FR", types.Point{Lat: 48.9694, Lng: 2.4414}},
	"LFMN": {"LFMN", "Nice Cote d'Azur", "Nice", "FR", types.Point{Lat: 43.6584, Lng: 7.2159}},
	"LSGG": {"LSGG", "Geneva", "Geneva", "CH", types.Point{Lat: 46.2381, Lng: 6.1089}},
	"LSZH": {"LSZH", "Zurich", "Zurich", "CH", types.Point{Lat: 47.4647, Lng: 8.5492}},
	"EDDM": {"EDDM", "Munich", "Munich", "DE", types.Point{Lat: 48.3538, Lng: 11.7861}},
	"EHAM": {"EHAM", "Amsterdam Schiphol", "Amsterdam", "NL", types.Point{Lat: 52.3086, Lng: 4.7639}},
	"LIML": {"LIML", "Milan Linate", "Milan", "IT", types.Point{Lat: 45.4451, Lng: 9.2767}},
	"LEMD": {"LEMD", "Madrid Barajas", "Madrid", "ES", types.Point{Lat: 40.4719, Lng: -3.5626}},
	"LEIB": {"LEIB", "Ibiza", "Ibiza", "ES", types.Point{Lat: 38.8729, Lng: 1.3731}},
	"LGAV": {"LGAV", "Athens", "Athens", "GR", types.Point{Lat: 37.9364, Lng: 23.9445}},
	"OMDB": {"OMDB", "Dubai International", "Dubai", "AE", types.Point{Lat: 25.2528, Lng: 55.3644}},
	"OMDW": {"OMDW", "Dubai Al Maktoum", "Dubai", "AE", types.Point{Lat: 24.8964, Lng: 55.1614}},
	"KJFK": {"KJFK", "New York JFK", "New York", "US", types.Point{Lat: 40.6413, Lng: -73.7781}},
	"KTEB": {"KTEB", "Teterboro", "New York", "US", types.Point{Lat: 40.8501, Lng: -74.0608}},
	"KBOS": {"KBOS", "Boston Logan", "Boston", "US", types.Point{Lat: 42.3656, Lng: -71.0096}},
	"KMIA": {"KMIA", "Miami", "Miami", "US", types.Point{Lat: 25.7959, Lng: -80.2870}},
	"KLAS": {"KLAS", "Las Vegas", "Las Vegas", "US", types.Point{Lat: 36.0840, Lng: -115.1537}},
	"KVNY": {"KVNY", "Van Nuys", "Los Angeles", "US", types.Point{Lat: 34.2098, Lng: -118.4895}},
	"CYYZ": {"CYYZ", "Toronto Pearson", "Toronto", "CA", types.Point{Lat: 43.6777, Lng: -79.6248}},
}

// Lookup finds an airport by ICAO code, case-insensitively.
func Lookup(icao string) (Airport, bool) {
	a, ok := known[strings.ToUpper(strings.TrimSpace(icao))]
	return a, ok
}

func IsKnown(icao string) bool {
	_, ok := Lookup(icao)
	return ok
}

// Codes returns every known ICAO code, sorted.
func Codes() []string {
	out := make([]string, 0, len(known))
	for code := range known {
		out = append(out, code)
	}
	sort.Strings(out)
	return out
}

// DistanceBetweenNm returns the great-circle distance between two known
// airports. ok is false when either code is unknown.
func DistanceBetweenNm(from, to string) (nm float64, ok bool) {
	a, okA := Lookup(from)
	b, okB := Lookup(to)
	if !okA || !okB {
		return 0, false
	}
	return DistanceNm(a.Position, b.Position), true
}
