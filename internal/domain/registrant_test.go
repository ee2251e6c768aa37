package domain

import "testing"

func TestCanonicalID(t *testing.T) {
	tests := []struct {
		name string
		in   string
		want string
	}{
		{name: "plain id", in: "po_1ABC", want: "po_1ABC"},
		{name: "surrounding whitespace", in: "  10234 ", want: "10234"},
		{name: "float export of integer id", in: "10234.0", want: "10234"},
		{name: "float export with more zeros", in: "10234.000", want: "10234"},
		{name: "real fractional value untouched", in: "10234.5", want: "10234.5"},
		{name: "non numeric whole part untouched", in: "po_1.0", want: "po_1.0"},
		{name: "bare dot untouched", in: ".0", want: ".0"},
		{name: "empty", in: "", want: ""},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := CanonicalID(tt.in); got != tt.want {
				t.Errorf("CanonicalID(%q) = %q, want %q", tt.in, got, tt.want)
			}
		})
	}
}

func TestBuildRegistrantIndex_FirstMatchWins(t *testing.T) {
	attendees := []Registrant{
		{ConfID: "100", AttendeeCategory: "Member", Type: RegistrantAttendee},
		{ConfID: "100", AttendeeCategory: "Student", Type: RegistrantAttendee},
	}
	exhibitors := []Registrant{
		{ConfID: "100", AttendeeCategory: "Gold Sponsor", Type: RegistrantExhibitorSponsor},
		{ConfID: "200", AttendeeCategory: "Exhibitor", Type: RegistrantExhibitorSponsor},
	}

	idx := BuildRegistrantIndex(attendees, exhibitors)

	if len(idx) != 2 {
		t.Fatalf("expected 2 entries, got %d", len(idx))
	}

	r, ok := idx.Lookup("100")
	if !ok {
		t.Fatal("expected registrant for id 100")
	}
	if r.Type != RegistrantAttendee || r.AttendeeCategory != "Member" {
		t.Errorf("duplicate id resolved to %+v, want first attendee row", r)
	}

	if _, ok := idx.Lookup("200"); !ok {
		t.Error("expected registrant for id 200")
	}
}

func TestBuildRegistrantIndex_CanonicalKeys(t *testing.T) {
	idx := BuildRegistrantIndex([]Registrant{
		{ConfID: "100.0", AttendeeCategory: "Member", Type: RegistrantAttendee},
	}, nil)

	if _, ok := idx.Lookup("100"); !ok {
		t.Error("float-exported id should be reachable by its integer form")
	}
	if _, ok := idx.Lookup(" 100.0 "); !ok {
		t.Error("lookup should canonicalize its argument too")
	}
}

func TestBuildRegistrantIndex_SkipsEmptyIDs(t *testing.T) {
	idx := BuildRegistrantIndex([]Registrant{
		{ConfID: "   ", AttendeeCategory: "Member", Type: RegistrantAttendee},
	}, nil)

	if len(idx) != 0 {
		t.Fatalf("expected empty index, got %d entries", len(idx))
	}
}
