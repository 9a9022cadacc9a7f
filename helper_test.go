package rebalance

// row is a terse Holding factory for tests; classification fields are
// left for Normalize to fill.
func row(account, identifier, name string, quantity, price, avgCost float64) Holding {
	return Holding{
		Account:     account,
		Identifier:  identifier,
		Name:        name,
		Quantity:    quantity,
		Price:       price,
		AverageCost: avgCost,
	}
}

// plan runs the default rebalancer over raw rows.
func plan(hs Holdings, targets Weights) *Plan {
	return NewRebalancer().Plan(hs, targets)
}

// snapshotOf normalizes rows with the default conventions and indexes
// them.
func snapshotOf(hs Holdings) *Snapshot {
	conv := DefaultConventions()
	return NewSnapshot(hs.Normalize(conv), conv)
}

func almost(got, want float64) bool {
	diff := got - want
	if diff < 0 {
		diff = -diff
	}
	return diff < 1e-9
}
