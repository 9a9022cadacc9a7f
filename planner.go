package rebalance

import "sort"

// SleeveDeltas is the planner's output: for each sleeve, the dollars each
// account must trade (positive buys, negative sells). It is the one
// typed intermediate passed between the planner and the trade generator.
type SleeveDeltas map[string]map[string]float64

func (d SleeveDeltas) add(sleeve, account string, dollars float64) {
	if d[sleeve] == nil {
		d[sleeve] = map[string]float64{}
	}
	d[sleeve][account] += dollars
}

// Sleeves returns the sleeves with pending deltas, sorted.
func (d SleeveDeltas) Sleeves() []string {
	sleeves := make([]string, 0, len(d))
	for sleeve := range d {
		sleeves = append(sleeves, sleeve)
	}
	sort.Strings(sleeves)
	return sleeves
}

// Accounts returns the accounts with a pending delta in a sleeve, sorted.
func (d SleeveDeltas) Accounts(sleeve string) []string {
	accounts := make([]string, 0, len(d[sleeve]))
	for account := range d[sleeve] {
		accounts = append(accounts, account)
	}
	sort.Strings(accounts)
	return accounts
}

// planDeltas computes portfolio-wide sleeve targets and distributes each
// sleeve's delta across accounts.
//
// Targets are sized once, portfolio-wide: weight times the investable
// total (total value minus the illiquid sleeve). The distribution policy
// is deliberately the only one in the codebase:
//
//   - Sells stay in the accounts that already hold the sleeve, taken in
//     ascending tax-rate order, then ascending per-dollar unrealized
//     gain, then account name, each capped at the account's held value.
//   - All buy dollars for a sleeve pool into one preferred account:
//     lowest tax rate first, then largest existing exposure to the
//     sleeve, then largest account, then name.
//
// Sleeves whose total delta is below minTrade are skipped. Degenerate
// inputs (nil weights, non-positive investable total) plan nothing.
func planDeltas(snap *Snapshot, weights Weights, minTrade float64) SleeveDeltas {
	if len(weights) == 0 {
		return nil
	}
	investable := snap.TotalValue() - snap.IlliquidValue()
	if investable <= 0 {
		return nil
	}

	illiquid := snap.conv.IlliquidSleeve
	sleeves := map[string]bool{}
	for sleeve := range weights {
		sleeves[sleeve] = true
	}
	for as := range snap.sleeveValue {
		if as.sleeve != illiquid {
			sleeves[as.sleeve] = true
		}
	}
	ordered := make([]string, 0, len(sleeves))
	for sleeve := range sleeves {
		ordered = append(ordered, sleeve)
	}
	sort.Strings(ordered)

	deltas := SleeveDeltas{}
	for _, sleeve := range ordered {
		target := weights[sleeve] * investable
		delta := target - snap.SleeveTotal(sleeve)
		if delta > -minTrade && delta < minTrade {
			continue
		}
		if delta < 0 {
			distributeSell(snap, deltas, sleeve, -delta)
		} else {
			deltas.add(sleeve, preferredBuyer(snap, sleeve), delta)
		}
	}
	return deltas
}

// distributeSell spreads `dollars` of selling over the accounts holding
// the sleeve, cheapest tax impact first, each capped at its held value.
// Anything beyond the portfolio's total position is simply not sellable
// and is left unassigned.
func distributeSell(snap *Snapshot, deltas SleeveDeltas, sleeve string, dollars float64) {
	holders := snap.holders(sleeve)
	sort.SliceStable(holders, func(i, j int) bool {
		ri := snap.conv.TaxRateFor(snap.TaxStatus(holders[i]))
		rj := snap.conv.TaxRateFor(snap.TaxStatus(holders[j]))
		if ri != rj {
			return ri < rj
		}
		gi := snap.gainPerDollar(holders[i], sleeve)
		gj := snap.gainPerDollar(holders[j], sleeve)
		if gi != gj {
			return gi < gj
		}
		return holders[i] < holders[j]
	})

	remaining := dollars
	for _, account := range holders {
		if remaining <= 0 {
			break
		}
		take := snap.SleeveValue(account, sleeve)
		if take > remaining {
			take = remaining
		}
		if take <= 0 {
			continue
		}
		deltas.add(sleeve, account, -take)
		remaining -= take
	}
}

// preferredBuyer picks the single account that receives all buy dollars
// for a sleeve: tax-exempt first, then the account with the largest
// existing exposure to the sleeve, then the largest account overall.
func preferredBuyer(snap *Snapshot, sleeve string) string {
	accounts := snap.Accounts()
	best := accounts[0]
	for _, account := range accounts[1:] {
		if buyerLess(snap, sleeve, account, best) {
			best = account
		}
	}
	return best
}

func buyerLess(snap *Snapshot, sleeve, a, b string) bool {
	ra := snap.conv.TaxRateFor(snap.TaxStatus(a))
	rb := snap.conv.TaxRateFor(snap.TaxStatus(b))
	if ra != rb {
		return ra < rb
	}
	ea := snap.SleeveValue(a, sleeve)
	eb := snap.SleeveValue(b, sleeve)
	if ea != eb {
		return ea > eb
	}
	ta := snap.accountValue[a]
	tb := snap.accountValue[b]
	if ta != tb {
		return ta > tb
	}
	return a < b
}
