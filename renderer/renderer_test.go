package renderer

import (
	"strings"
	"testing"

	"github.com/wcope/rebalance"
)

func samplePlan() *rebalance.Plan {
	hs := rebalance.Holdings{
		{Account: "Vanguard Roth IRA", Identifier: "VWO", Name: "Vanguard Emerging Markets", Quantity: 10, Price: 100, AverageCost: 80},
		{Account: "Vanguard Roth IRA", Identifier: "SCHB", Name: "Schwab US Broad Market", Quantity: 0, Price: 250},
	}
	return rebalance.NewRebalancer().Plan(hs, rebalance.Weights{"US_Core": 1})
}

func TestTradeReportMarkdown(t *testing.T) {
	p := samplePlan()
	r := rebalance.NewTradeReport(p, nil)
	got := TradeReportMarkdown(r)

	for _, want := range []string{
		"# Rebalancing Trades",
		"Portfolio value: $1,000.00 (investable $1,000.00)",
		"## Trades",
		"| Vanguard Roth IRA | VWO | EM | SELL | -10.00 | $100.00 | -$1,000.00 | +$200.00 |",
		"| Vanguard Roth IRA | SCHB | US_Core | BUY | 4.00 | $250.00 | +$1,000.00 | - |",
		"## Per Account",
		"## Per Tax Status",
	} {
		if !strings.Contains(got, want) {
			t.Errorf("report missing %q:\n%s", want, got)
		}
	}
	if strings.Contains(got, "## Warnings") {
		t.Errorf("report has warnings for a balanced run:\n%s", got)
	}
}

func TestTradeReportMarkdownNoTrades(t *testing.T) {
	hs := rebalance.Holdings{
		{Account: "A", Identifier: "SCHB", Name: "Schwab US Broad Market", Quantity: 10, Price: 100, AverageCost: 100},
	}
	p := rebalance.NewRebalancer().Plan(hs, rebalance.Weights{"US_Core": 1})
	got := TradeReportMarkdown(rebalance.NewTradeReport(p, nil))

	if !strings.Contains(got, "No trades required.") {
		t.Errorf("report should say nothing to do:\n%s", got)
	}
}

func TestHoldingsMarkdown(t *testing.T) {
	p := samplePlan()
	got := HoldingsMarkdown("Holdings", p.Holdings)

	for _, want := range []string{
		"# Holdings",
		"| Vanguard Roth IRA | VWO | EM | ROTH IRA | 10.00 | $100.00 | $1,000.00 | 100.00% |",
		"| **Total** | | | | | | **$1,000.00** | |",
		"## By Sleeve",
		"| EM | $1,000.00 | 100.00% |",
	} {
		if !strings.Contains(got, want) {
			t.Errorf("table missing %q:\n%s", want, got)
		}
	}
}

func TestSummaryMarkdown(t *testing.T) {
	p := samplePlan()
	got := SummaryMarkdown(rebalance.NewTradeReport(p, nil))

	if strings.Contains(got, "## Trades") {
		t.Errorf("summary should omit the trade detail:\n%s", got)
	}
	for _, want := range []string{
		"# Rebalancing Summary",
		"## Per Account",
		"| Vanguard Roth IRA | ROTH IRA | $1,000.00 | $1,000.00 | +$200.00 | $0.00 |",
	} {
		if !strings.Contains(got, want) {
			t.Errorf("summary missing %q:\n%s", want, got)
		}
	}
}
