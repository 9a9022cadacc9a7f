package rebalance

import "sort"

// balanceCash appends, for every account whose net dollar flow exceeds
// the tolerance, one corrective trade in a cash-like identifier so the
// account ends the run close to cash neutral. The returned list is not
// consolidated; callers re-run Consolidate.
func balanceCash(snap *Snapshot, trades []Trade, tolerance float64) []Trade {
	flows := netFlows(trades)
	accounts := make([]string, 0, len(flows))
	for account := range flows {
		accounts = append(accounts, account)
	}
	sort.Strings(accounts)

	// Shares already traded per position; a balancing sell must fit in
	// what remains after the planned trades, not the pre-trade quantity.
	traded := map[accountIdent]float64{}
	for _, t := range trades {
		traded[accountIdent{t.Account, t.Identifier}] += t.SharesDelta
	}

	conv := snap.conv
	for _, account := range accounts {
		flow := flows[account]
		if flow >= -tolerance && flow <= tolerance {
			continue
		}

		// Prefer a cash-like position the account already holds.
		ident, owned := snap.tradingIdent(account, conv.CashSleeve)
		if !owned || ident == "" {
			ident = conv.CashProxy()
		}
		// Cash-like instruments trade at par when no price is known.
		price := snap.Price(ident)
		if !isPriceable(price) {
			price = 1.0
		}

		shares := roundShares(-flow, price, true)
		if shares < 0 {
			// A cash sell is still a sell: it cannot exceed what the
			// account still holds once the planned trades run. Anything
			// left over surfaces as a residual.
			remaining := snap.Quantity(account, ident) + traded[accountIdent{account, ident}]
			if remaining < 0 {
				remaining = 0
			}
			if -shares > remaining {
				shares = -remaining
			}
		}
		if shares == 0 {
			continue
		}
		action := Buy
		if shares < 0 {
			action = Sell
		}
		trades = append(trades, Trade{
			Account:     account,
			TaxStatus:   snap.TaxStatus(account),
			Identifier:  ident,
			Sleeve:      conv.CashSleeve,
			Action:      action,
			SharesDelta: shares,
			Price:       price,
			DollarDelta: shares * price,
		})
	}
	return trades
}
