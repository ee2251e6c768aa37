package usecase

import "github.com/scaap/striperecon/internal/domain"

// ClassifyPayments derives the revenue account of every payment from the
// registrant index. The input slice is not mutated. Payments whose attendee
// id matches no registrant resolve through the same policy with a nil
// registrant, so a valid account always comes back.
func ClassifyPayments(payments []domain.Payment, idx domain.RegistrantIndex) []domain.Payment {
	out := make([]domain.Payment, len(payments))
	for i, p := range payments {
		if r, ok := idx.Lookup(p.AttendeeID); ok {
			p.RevenueAccount = domain.ResolveRevenueAccount(&r)
		} else {
			p.RevenueAccount = domain.ResolveRevenueAccount(nil)
		}
		out[i] = p
	}
	return out
}
