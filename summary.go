package rebalance

import "sort"

// AccountSummary aggregates one account's trades: gross buys, gross
// sells, net realized gain and the estimated tax at the account's flat
// rate. Sells are reported as positive dollars.
type AccountSummary struct {
	Account    string
	TaxStatus  string
	TotalBuys  float64
	TotalSells float64
	NetCapGain float64
	EstTax     float64
}

// TaxStatusSummary aggregates trades across all accounts sharing a tax
// status.
type TaxStatusSummary struct {
	TaxStatus  string
	TotalBuys  float64
	TotalSells float64
	NetCapGain float64
	EstTax     float64
}

// SummarizeByAccount folds a trade list into per-account totals, sorted
// by account name.
func SummarizeByAccount(trades []Trade, conv *Conventions) []AccountSummary {
	conv = conv.orDefault()
	byAccount := map[string]*AccountSummary{}
	var order []string
	for _, t := range trades {
		s, ok := byAccount[t.Account]
		if !ok {
			s = &AccountSummary{Account: t.Account, TaxStatus: t.TaxStatus}
			byAccount[t.Account] = s
			order = append(order, t.Account)
		}
		addTrade(t, &s.TotalBuys, &s.TotalSells, &s.NetCapGain)
	}
	sort.Strings(order)

	out := make([]AccountSummary, 0, len(order))
	for _, account := range order {
		s := byAccount[account]
		s.EstTax = conv.TaxRateFor(s.TaxStatus) * s.NetCapGain
		out = append(out, *s)
	}
	return out
}

// SummarizeByTaxStatus folds a trade list into per-tax-status totals,
// sorted by status.
func SummarizeByTaxStatus(trades []Trade, conv *Conventions) []TaxStatusSummary {
	conv = conv.orDefault()
	byStatus := map[string]*TaxStatusSummary{}
	var order []string
	for _, t := range trades {
		s, ok := byStatus[t.TaxStatus]
		if !ok {
			s = &TaxStatusSummary{TaxStatus: t.TaxStatus}
			byStatus[t.TaxStatus] = s
			order = append(order, t.TaxStatus)
		}
		addTrade(t, &s.TotalBuys, &s.TotalSells, &s.NetCapGain)
	}
	sort.Strings(order)

	out := make([]TaxStatusSummary, 0, len(order))
	for _, status := range order {
		s := byStatus[status]
		s.EstTax = conv.TaxRateFor(s.TaxStatus) * s.NetCapGain
		out = append(out, *s)
	}
	return out
}

func addTrade(t Trade, buys, sells, capGain *float64) {
	if t.Action == Buy {
		*buys += t.DollarDelta
	} else {
		*sells += -t.DollarDelta
	}
	*capGain += t.CapGainDollars
}
