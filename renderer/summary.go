package renderer

import (
	"fmt"
	"strings"

	"github.com/wcope/rebalance"
)

// SummaryMarkdown renders only the aggregate view of a run: per-account
// and per-tax-status totals, without the trade-by-trade detail.
func SummaryMarkdown(r *rebalance.TradeReport) string {
	var b strings.Builder

	fmt.Fprintf(&b, "# Rebalancing Summary\n\n")
	fmt.Fprintf(&b, "Portfolio value: %s (investable %s)\n\n",
		rebalance.Money(r.TotalValue),
		rebalance.Money(r.InvestableValue),
	)

	if len(r.Trades) == 0 {
		fmt.Fprintln(&b, "No trades required.")
		return b.String()
	}

	fmt.Fprint(&b, "## Per Account\n\n")
	fmt.Fprintln(&b, "| Account | Tax Status | Buys | Sells | Net Realized Gain | Est. Tax |")
	fmt.Fprintln(&b, "|:---|:---|---:|---:|---:|---:|")
	for _, s := range r.Accounts {
		fmt.Fprintf(&b, "| %s | %s | %s | %s | %s | %s |\n",
			s.Account,
			s.TaxStatus,
			rebalance.Money(s.TotalBuys),
			rebalance.Money(s.TotalSells),
			rebalance.Money(s.NetCapGain).SignedString(),
			rebalance.Money(s.EstTax),
		)
	}
	fmt.Fprintln(&b)

	fmt.Fprint(&b, "## Per Tax Status\n\n")
	fmt.Fprintln(&b, "| Tax Status | Buys | Sells | Net Realized Gain | Est. Tax |")
	fmt.Fprintln(&b, "|:---|---:|---:|---:|---:|")
	for _, s := range r.ByStatus {
		fmt.Fprintf(&b, "| %s | %s | %s | %s | %s |\n",
			s.TaxStatus,
			rebalance.Money(s.TotalBuys),
			rebalance.Money(s.TotalSells),
			rebalance.Money(s.NetCapGain).SignedString(),
			rebalance.Money(s.EstTax),
		)
	}

	if len(r.Residuals) > 0 {
		fmt.Fprint(&b, "\n## Warnings\n\n")
		for _, res := range r.Residuals {
			fmt.Fprintf(&b, "- residual cash flow in %q: %s\n", res.Account, rebalance.Money(res.Dollars).SignedString())
		}
	}

	return b.String()
}
