// Package settle computes equal-split balances and reduces them to a
// minimal set of transfers.
package settle

import (
	"sort"

	"github.com/kotan/tally/internal/models"
)

// Epsilon absorbs the floating-point residue of the equal split. Any
// balance within Epsilon of zero is treated as settled.
const Epsilon = 1e-5

// EqualSplitBalances converts per-actor paid totals into net balances
// under an equal-split policy: net = paid - (sum / participants).
// The result is sorted by actor ID so downstream output is reproducible
// regardless of map iteration order.
func EqualSplitBalances(totals map[string]models.ActorTotal) []models.ActorBalance {
	if len(totals) == 0 {
		return nil
	}

	var sum int64
	for _, t := range totals {
		sum += t.Total
	}
	share := float64(sum) / float64(len(totals))

	balances := make([]models.ActorBalance, 0, len(totals))
	for actorID, t := range totals {
		balances = append(balances, models.ActorBalance{
			ActorID:    actorID,
			ActorLabel: t.ActorLabel,
			Net:        float64(t.Total) - share,
		})
	}
	sort.Slice(balances, func(i, j int) bool {
		return balances[i].ActorID < balances[j].ActorID
	})
	return balances
}

// Settle reduces the given balances to the fewest pairwise transfers.
//
// Greedy matching: each round pairs the largest creditor with the
// largest debtor and moves min(credit, debt) between them, which fully
// zeroes at least one of the two. N participants therefore settle in at
// most N-1 transfers. Ties go to the earliest balance in input order.
//
// Settle never mutates its input; callers keep their balances. Empty or
// already-settled input yields an empty result, not an error.
func Settle(balances []models.ActorBalance) []models.Transfer {
	if len(balances) == 0 {
		return nil
	}

	// Private working copy; the loop consumes it.
	working := make([]models.ActorBalance, len(balances))
	copy(working, balances)

	var transfers []models.Transfer
	for {
		creditor, debtor := extremes(working)
		if working[creditor].Net <= Epsilon && working[debtor].Net >= -Epsilon {
			break
		}

		amount := working[creditor].Net
		if -working[debtor].Net < amount {
			amount = -working[debtor].Net
		}
		if amount <= Epsilon {
			break
		}

		transfers = append(transfers, models.Transfer{
			FromID:    working[debtor].ActorID,
			FromLabel: working[debtor].ActorLabel,
			ToID:      working[creditor].ActorID,
			ToLabel:   working[creditor].ActorLabel,
			Amount:    amount,
		})

		working[creditor].Net -= amount
		working[debtor].Net += amount
	}

	return transfers
}

// extremes returns the indices of the largest creditor and the largest
// debtor, preferring earlier entries on ties.
func extremes(balances []models.ActorBalance) (creditor, debtor int) {
	for i, b := range balances {
		if b.Net > balances[creditor].Net {
			creditor = i
		}
		if b.Net < balances[debtor].Net {
			debtor = i
		}
	}
	return creditor, debtor
}
