package renderer

import (
	"fmt"
	"strings"

	"github.com/wcope/rebalance"
)

// HoldingsMarkdown renders a holdings table with a per-sleeve weight
// column and a total line.
func HoldingsMarkdown(title string, hs rebalance.Holdings) string {
	var b strings.Builder
	total := hs.TotalValue()

	fmt.Fprintf(&b, "# %s\n\n", title)
	fmt.Fprintln(&b, "| Account | Identifier | Sleeve | Tax Status | Quantity | Price | Value | Weight |")
	fmt.Fprintln(&b, "|:---|:---|:---|:---|---:|---:|---:|---:|")
	for _, h := range hs {
		var weight rebalance.Percent
		if total > 0 {
			weight = rebalance.Percent(h.Value / total)
		}
		fmt.Fprintf(&b, "| %s | %s | %s | %s | %.2f | %s | %s | %s |\n",
			h.Account,
			h.Identifier,
			h.Sleeve,
			h.TaxStatus,
			h.Quantity,
			rebalance.Money(h.Price),
			rebalance.Money(h.Value),
			weight,
		)
	}
	fmt.Fprintf(&b, "| **Total** | | | | | | **%s** | |\n", rebalance.Money(total))

	fmt.Fprint(&b, "\n## By Sleeve\n\n")
	fmt.Fprintln(&b, "| Sleeve | Value | Weight |")
	fmt.Fprintln(&b, "|:---|---:|---:|")
	for _, sleeve := range hs.Sleeves() {
		v := hs.SleeveValue(sleeve)
		var weight rebalance.Percent
		if total > 0 {
			weight = rebalance.Percent(v / total)
		}
		fmt.Fprintf(&b, "| %s | %s | %s |\n", sleeve, rebalance.Money(v), weight)
	}

	return b.String()
}
