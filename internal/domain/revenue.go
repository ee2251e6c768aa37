package domain

import "strings"

// General-ledger account codes used by the journal. The strings are the exact
// account names in the chart of accounts, so changing them breaks downstream
// imports into the accounting system.
const (
	AccountMeetingRegistration = "4305 - Annual Meeting Reg"
	AccountMeetingExhibits     = "4306 - Annual Meeting Exhibits"
	AccountMeetingSponsors     = "4307 - Annual Meeting Sponsors"
	AccountProcessorFees       = "5100 - Bank/CC/Merch Fees"
	AccountBankChecking        = "1001 - TD Checking"

	// AccountRefundSuspense holds refund debits until an accountant assigns
	// them a real account from the refunds schedule.
	AccountRefundSuspense = "XXXX - See Refunds Schedule"
)

// ResolveRevenueAccount maps a payment's registrant to a revenue account.
// The registrant is nil when the payment's attendee id matched no registration
// record; such payments book to the registration account by policy.
//
// Precedence is load-bearing: a sponsor-category attendee still books to 4305,
// and the "Sponsor"/"Exhibit" substring checks are case-sensitive.
func ResolveRevenueAccount(r *Registrant) string {
	if r == nil {
		return AccountMeetingRegistration
	}
	switch {
	case r.Type == RegistrantAttendee:
		return AccountMeetingRegistration
	case strings.Contains(r.AttendeeCategory, "Sponsor"):
		return AccountMeetingSponsors
	case strings.Contains(r.AttendeeCategory, "Exhibit"):
		return AccountMeetingExhibits
	case r.Type == RegistrantExhibitorSponsor:
		return AccountMeetingExhibits
	default:
		return AccountMeetingRegistration
	}
}
