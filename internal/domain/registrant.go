package domain

import "strings"

// RegistrantType identifies which registration export a registrant came from.
type RegistrantType string

const (
	RegistrantAttendee         RegistrantType = "Attendee"
	RegistrantExhibitorSponsor RegistrantType = "Exhibitor/Sponsor"
)

// Registrant is one row of a conference registration export.
type Registrant struct {
	ConfID           string
	AttendeeCategory string
	Type             RegistrantType
}

// RegistrantIndex maps canonical conference ids to registrant records.
type RegistrantIndex map[string]Registrant

// BuildRegistrantIndex merges the attendee and exhibitor/sponsor exports into a
// single lookup keyed by canonical conference id. Duplicate ids resolve
// first-match-wins: attendee rows take precedence over exhibitor rows, and
// earlier rows over later ones within the same export.
func BuildRegistrantIndex(attendees, exhibitors []Registrant) RegistrantIndex {
	idx := make(RegistrantIndex, len(attendees)+len(exhibitors))
	add := func(rows []Registrant) {
		for _, r := range rows {
			key := CanonicalID(r.ConfID)
			if key == "" {
				continue
			}
			if _, ok := idx[key]; ok {
				continue
			}
			idx[key] = r
		}
	}
	add(attendees)
	add(exhibitors)
	return idx
}

// Lookup returns the registrant for an attendee id, if one is registered.
func (idx RegistrantIndex) Lookup(attendeeID string) (Registrant, bool) {
	r, ok := idx[CanonicalID(attendeeID)]
	return r, ok
}

// CanonicalID normalizes an identifier for cross-table joins. Numeric columns
// round-trip through spreadsheet exports as floats ("10234.0"), so an
// all-zero fractional part is stripped when the rest is purely numeric.
func CanonicalID(raw string) string {
	s := strings.TrimSpace(raw)
	if dot := strings.IndexByte(s, '.'); dot > 0 {
		whole, frac := s[:dot], s[dot+1:]
		if isDigits(whole) && isZeros(frac) {
			return whole
		}
	}
	return s
}

func isDigits(s string) bool {
	if s == "" {
		return false
	}
	for i := 0; i < len(s); i++ {
		if s[i] < '0' || s[i] > '9' {
			return false
		}
	}
	return true
}

func isZeros(s string) bool {
	if s == "" {
		return false
	}
	for i := 0; i < len(s); i++ {
		if s[i] != '0' {
			return false
		}
	}
	return true
}
