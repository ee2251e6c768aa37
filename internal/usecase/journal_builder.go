package usecase

import (
	"sort"

	"github.com/shopspring/decimal"

	"github.com/scaap/striperecon/internal/domain"
)

// BuildJournal emits the journal lines for each settled batch: one credit per
// distinct revenue account in the batch, a fee debit, and a net-deposit debit.
// Each batch balances by construction: the payout amount plus fees equals the
// captured gross when the processor's math holds, and the reconciliation
// summary is where a shortfall surfaces.
func BuildJournal(settled []*BatchGroup, fees FeeLookup) []domain.JournalLine {
	var lines []domain.JournalLine
	for _, g := range settled {
		if len(g.Payments) == 0 {
			// Cannot happen via MatchPayouts; a batch with no payments has
			// nothing to journalize.
			continue
		}

		date := g.Payout.ArrivalDate
		desc := domain.PayoutDescription(g.TransferID)

		byAccount := make(map[string]decimal.Decimal)
		for _, p := range g.Payments {
			byAccount[p.RevenueAccount] = byAccount[p.RevenueAccount].Add(p.Amount)
		}
		accounts := make([]string, 0, len(byAccount))
		for account := range byAccount {
			accounts = append(accounts, account)
		}
		sort.Strings(accounts)

		for _, account := range accounts {
			lines = append(lines, domain.CreditLine(date, account, byAccount[account], desc))
		}
		lines = append(lines, domain.DebitLine(date, domain.AccountProcessorFees, fees.For(g.TransferID), desc))
		lines = append(lines, domain.DebitLine(date, domain.AccountBankChecking, g.Payout.Amount, desc))
	}
	return lines
}
