package rebalance

import (
	"sort"

	"github.com/shopspring/decimal"
)

// Action is the direction of a trade.
type Action string

const (
	Buy  Action = "BUY"
	Sell Action = "SELL"
)

// Trade is one buy or sell of a concrete identifier inside one account.
// SharesDelta is signed (negative sells); DollarDelta is always
// SharesDelta times Price. CapGainDollars is realized only on sells and
// may be negative. A trade never references more than one account.
type Trade struct {
	Account        string
	TaxStatus      string
	Identifier     string
	Sleeve         string
	Action         Action
	SharesDelta    float64
	Price          float64
	AverageCost    float64
	DollarDelta    float64
	CapGainDollars float64
}

// roundShares converts dollars into a rounded share count. Cash-like
// instruments round to 2 decimal places, everything else to 1. A
// non-priceable price yields zero shares.
func roundShares(dollars, price float64, cashLike bool) float64 {
	if !isPriceable(price) {
		return 0
	}
	places := int32(1)
	if cashLike {
		places = 2
	}
	shares, _ := decimal.NewFromFloat(dollars / price).Round(places).Float64()
	return shares
}

// generateTrades turns planned sleeve deltas into concrete trades. Legs
// with no resolvable identifier or no usable price are skipped, sells
// are capped at the shares actually held, and sells of unheld
// identifiers are dropped. The result still needs Consolidate.
func generateTrades(snap *Snapshot, deltas SleeveDeltas) []Trade {
	conv := snap.conv
	var trades []Trade
	for _, sleeve := range deltas.Sleeves() {
		for _, account := range deltas.Accounts(sleeve) {
			dollars := deltas[sleeve][account]
			ident, owned := snap.tradingIdent(account, sleeve)
			if ident == "" {
				continue
			}
			price := snap.Price(ident)
			if !isPriceable(price) {
				// One more chance on the configured proxy before the leg
				// is declared unpriceable.
				if proxy, ok := conv.FallbackProxy[sleeve]; ok && isPriceable(snap.Price(proxy)) {
					ident, price = proxy, snap.Price(proxy)
					owned = snap.Quantity(account, ident) > 0
				} else {
					continue
				}
			}

			shares := roundShares(dollars, price, conv.IsCashLike(ident))
			if shares == 0 {
				continue
			}
			if dollars < 0 {
				if !owned {
					continue
				}
				held := snap.Quantity(account, ident)
				if held <= 0 {
					continue
				}
				if -shares > held {
					shares = -held
				}
				if shares == 0 {
					continue
				}
			}

			avgCost := snap.AverageCost(account, ident)
			var capGain float64
			if shares < 0 {
				capGain = (price - avgCost) * -shares
			}
			action := Buy
			if shares < 0 {
				action = Sell
			}
			trades = append(trades, Trade{
				Account:        account,
				TaxStatus:      snap.TaxStatus(account),
				Identifier:     ident,
				Sleeve:         sleeve,
				Action:         action,
				SharesDelta:    shares,
				Price:          price,
				AverageCost:    avgCost,
				DollarDelta:    shares * price,
				CapGainDollars: capGain,
			})
		}
	}
	return trades
}

// Consolidate merges duplicate (Account, Identifier, Sleeve, TaxStatus)
// rows produced by different passes into one, summing shares, dollars
// and realized gains, and re-derives the Action from the net shares
// sign. The result is sorted so identical inputs always produce an
// identical trade list.
func Consolidate(trades []Trade) []Trade {
	type key struct {
		account, identifier, sleeve, taxStatus string
	}
	merged := map[key]Trade{}
	var order []key
	for _, t := range trades {
		k := key{t.Account, t.Identifier, t.Sleeve, t.TaxStatus}
		if prev, ok := merged[k]; ok {
			prev.SharesDelta += t.SharesDelta
			prev.DollarDelta += t.DollarDelta
			prev.CapGainDollars += t.CapGainDollars
			prev.Price = t.Price
			prev.AverageCost = t.AverageCost
			merged[k] = prev
		} else {
			merged[k] = t
			order = append(order, k)
		}
	}

	out := make([]Trade, 0, len(merged))
	for _, k := range order {
		t := merged[k]
		if t.SharesDelta >= 0 {
			t.Action = Buy
		} else {
			t.Action = Sell
		}
		out = append(out, t)
	}
	sort.Slice(out, func(i, j int) bool {
		a, b := out[i], out[j]
		if a.Account != b.Account {
			return a.Account < b.Account
		}
		if a.Sleeve != b.Sleeve {
			return a.Sleeve < b.Sleeve
		}
		if a.Identifier != b.Identifier {
			return a.Identifier < b.Identifier
		}
		return a.TaxStatus < b.TaxStatus
	})
	return out
}

// netFlows sums DollarDelta per account.
func netFlows(trades []Trade) map[string]float64 {
	flows := map[string]float64{}
	for _, t := range trades {
		flows[t.Account] += t.DollarDelta
	}
	return flows
}
