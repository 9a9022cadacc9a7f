package rebalance

// Default thresholds for a Rebalancer.
const (
	// DefaultCashTolerance is the absolute per-account dollar flow
	// accepted without a corrective cash trade.
	DefaultCashTolerance = 100.0

	// DefaultMinTradeDollars is the sleeve delta below which no trade is
	// generated at all.
	DefaultMinTradeDollars = 5.0
)

// Rebalancer computes the buy/sell list that moves an aggregate
// portfolio toward a target sleeve mix without moving assets between
// accounts. The zero value is not usable; construct with NewRebalancer
// and adjust the exported fields before calling Plan.
type Rebalancer struct {
	Conventions     *Conventions
	CashTolerance   float64
	MinTradeDollars float64
}

// NewRebalancer returns a Rebalancer with the default conventions and
// thresholds.
func NewRebalancer() *Rebalancer {
	return &Rebalancer{
		Conventions:     DefaultConventions(),
		CashTolerance:   DefaultCashTolerance,
		MinTradeDollars: DefaultMinTradeDollars,
	}
}

// Plan is the result of one rebalancing run: the consolidated trade
// list, the projected post-trade holdings, and any per-account dollar
// flow that could not be balanced within the cash tolerance.
type Plan struct {
	Holdings  Holdings           // normalized input snapshot
	Trades    []Trade            // consolidated, deterministically sorted
	After     Holdings           // holdings with all trades applied
	Residuals map[string]float64 // account -> leftover flow beyond tolerance
}

// Plan runs the whole pipeline over one holdings snapshot:
// classification, portfolio-wide sleeve targeting, per-account trade
// generation, cash balancing, and projection of the after state.
//
// Degenerate targets (zero-sum weights) or an empty investable base
// produce a plan with no trades and the holdings echoed unchanged; they
// are not errors.
func (r *Rebalancer) Plan(hs Holdings, targets Weights) *Plan {
	conv := r.Conventions.orDefault()

	normalized := hs.Normalize(conv)
	snap := NewSnapshot(normalized, conv)
	weights := targets.Normalize(conv.IlliquidSleeve)

	deltas := planDeltas(snap, weights, r.MinTradeDollars)
	trades := Consolidate(generateTrades(snap, deltas))
	trades = Consolidate(balanceCash(snap, trades, r.CashTolerance))

	return &Plan{
		Holdings:  normalized,
		Trades:    trades,
		After:     applyTrades(normalized, trades, snap, conv),
		Residuals: residualFlows(trades, r.CashTolerance),
	}
}
