package rebalance

import "sort"

// TradeReport bundles everything the renderer needs to present one
// rebalancing run.
type TradeReport struct {
	Trades    []Trade
	Accounts  []AccountSummary
	ByStatus  []TaxStatusSummary
	Residuals []Residual

	TotalValue      float64
	InvestableValue float64
}

// Residual is one account's leftover dollar flow beyond the cash
// tolerance, for warning display.
type Residual struct {
	Account string
	Dollars float64
}

// NewTradeReport assembles the report for a computed plan.
func NewTradeReport(p *Plan, conv *Conventions) *TradeReport {
	conv = conv.orDefault()

	var illiquid float64
	for _, h := range p.Holdings {
		if h.Illiquid {
			illiquid += h.Value
		}
	}
	total := p.Holdings.TotalValue()

	residuals := make([]Residual, 0, len(p.Residuals))
	for account, dollars := range p.Residuals {
		residuals = append(residuals, Residual{Account: account, Dollars: dollars})
	}
	sort.Slice(residuals, func(i, j int) bool { return residuals[i].Account < residuals[j].Account })

	return &TradeReport{
		Trades:          p.Trades,
		Accounts:        SummarizeByAccount(p.Trades, conv),
		ByStatus:        SummarizeByTaxStatus(p.Trades, conv),
		Residuals:       residuals,
		TotalValue:      total,
		InvestableValue: total - illiquid,
	}
}
