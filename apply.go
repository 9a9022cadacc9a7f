package rebalance

import "sort"

// dustQuantity is the share count under which a projected position is
// considered gone.
const dustQuantity = 1e-6

// applyTrades projects the post-trade holdings: every traded (account,
// identifier) pair gets its net share delta applied to its first lot,
// pairs traded but not previously held are synthesized as zero-quantity
// rows first, Value and Cost are recomputed, and dust rows are dropped.
func applyTrades(hs Holdings, trades []Trade, snap *Snapshot, conv *Conventions) Holdings {
	conv = conv.orDefault()
	if len(trades) == 0 {
		out := make(Holdings, len(hs))
		copy(out, hs)
		return out
	}

	deltas := map[accountIdent]float64{}
	tradePrice := map[accountIdent]float64{}
	for _, t := range trades {
		ai := accountIdent{t.Account, t.Identifier}
		deltas[ai] += t.SharesDelta
		tradePrice[ai] = t.Price
	}

	out := make(Holdings, len(hs))
	copy(out, hs)

	held := map[accountIdent]bool{}
	for _, h := range hs {
		held[accountIdent{h.Account, h.Identifier}] = true
	}

	// Placeholder rows for buys into identifiers the account never held,
	// appended in a stable order.
	var missing []accountIdent
	for ai := range deltas {
		if !held[ai] {
			missing = append(missing, ai)
		}
	}
	sort.Slice(missing, func(i, j int) bool {
		if missing[i].account != missing[j].account {
			return missing[i].account < missing[j].account
		}
		return missing[i].identifier < missing[j].identifier
	})
	for _, ai := range missing {
		out = append(out, placeholderHolding(ai, snap, conv, tradePrice[ai]))
	}

	// Apply each pair's net delta once, to its first lot in input order.
	applied := map[accountIdent]bool{}
	for i := range out {
		ai := accountIdent{out[i].Account, out[i].Identifier}
		if applied[ai] {
			continue
		}
		applied[ai] = true
		out[i].Quantity += deltas[ai]
	}

	result := out[:0:0]
	for _, h := range out {
		h.Value = h.Quantity * h.Price
		h.Cost = h.Quantity * h.AverageCost
		if h.Quantity > -dustQuantity && h.Quantity < dustQuantity {
			continue
		}
		result = append(result, h)
	}
	return result
}

// placeholderHolding synthesizes the zero-quantity row a buy lands in.
// The sleeve comes from other holders of the identifier, else from the
// proxy reverse mapping, else the default sleeve.
func placeholderHolding(ai accountIdent, snap *Snapshot, conv *Conventions, price float64) Holding {
	sleeve := snap.sleeveOf[ai.identifier]
	if sleeve == "" {
		if s, ok := conv.proxySleeve(ai.identifier); ok {
			sleeve = s
		} else {
			sleeve = conv.DefaultSleeve
		}
	}
	if p := snap.Price(ai.identifier); isPriceable(p) {
		price = p
	} else if !isPriceable(price) {
		price = 1.0
	}
	return Holding{
		Account:    ai.account,
		Identifier: ai.identifier,
		Name:       ai.identifier,
		Sleeve:     sleeve,
		TaxStatus:  snap.TaxStatus(ai.account),
		Price:      price,
	}
}

// residualFlows reports the accounts whose net dollar flow still exceeds
// the tolerance after cash balancing. Residuals are warnings, never
// errors: they surface imbalances instead of silently dropping them.
func residualFlows(trades []Trade, tolerance float64) map[string]float64 {
	residuals := map[string]float64{}
	for account, flow := range netFlows(trades) {
		if flow < -tolerance || flow > tolerance {
			residuals[account] = flow
		}
	}
	return residuals
}
