package rebalance

import (
	"math"
	"sort"
)

// Holding is one row of the holdings snapshot: a position in a single
// identifier inside a single account. Price and AverageCost are per
// share; Value and Cost are the derived aggregates.
type Holding struct {
	Account     string
	Identifier  string
	Name        string
	Quantity    float64
	Price       float64
	AverageCost float64
	Value       float64
	Cost        float64
	Sleeve      string
	TaxStatus   string
	Illiquid    bool
}

// Holdings is the full snapshot, in input order.
type Holdings []Holding

// Normalize returns a copy of the holdings with every derived and
// classified field filled in: Value and Cost recomputed from the
// per-share columns, Sleeve and TaxStatus filled where the input left
// them empty, and the illiquid flag set. The input is never mutated.
//
// This is the single place where optional columns are resolved, so the
// rest of the pipeline can assume a fixed schema.
func (hs Holdings) Normalize(conv *Conventions) Holdings {
	conv = conv.orDefault()
	out := make(Holdings, len(hs))
	for i, h := range hs {
		if h.Sleeve == "" {
			h.Sleeve = conv.SleeveFor(h.Identifier, h.Name)
		}
		if h.TaxStatus == "" {
			h.TaxStatus = conv.TaxStatusFor(h.Account)
		}
		h.Illiquid = h.Sleeve == conv.IlliquidSleeve
		h.Value = h.Quantity * h.Price
		h.Cost = h.Quantity * h.AverageCost
		out[i] = h
	}
	return out
}

// TotalValue sums Value over all rows.
func (hs Holdings) TotalValue() float64 {
	var total float64
	for _, h := range hs {
		total += h.Value
	}
	return total
}

// SleeveValue sums Value over all rows of one sleeve.
func (hs Holdings) SleeveValue(sleeve string) float64 {
	var total float64
	for _, h := range hs {
		if h.Sleeve == sleeve {
			total += h.Value
		}
	}
	return total
}

// Accounts returns the distinct account names, sorted.
func (hs Holdings) Accounts() []string {
	seen := map[string]bool{}
	var accounts []string
	for _, h := range hs {
		if !seen[h.Account] {
			seen[h.Account] = true
			accounts = append(accounts, h.Account)
		}
	}
	sort.Strings(accounts)
	return accounts
}

// Sleeves returns the distinct sleeves present in the snapshot, sorted.
func (hs Holdings) Sleeves() []string {
	seen := map[string]bool{}
	var sleeves []string
	for _, h := range hs {
		if !seen[h.Sleeve] {
			seen[h.Sleeve] = true
			sleeves = append(sleeves, h.Sleeve)
		}
	}
	sort.Strings(sleeves)
	return sleeves
}

// isPriceable reports whether a per-share price can size a trade.
func isPriceable(price float64) bool {
	return price > 0 && !math.IsInf(price, 0) && !math.IsNaN(price)
}
