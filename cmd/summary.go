package cmd

import (
	"context"
	"flag"
	"fmt"
	"os"

	"github.com/google/subcommands"
	"github.com/wcope/rebalance"
	"github.com/wcope/rebalance/renderer"
)

// summaryCmd holds the flags for the 'summary' subcommand.
type summaryCmd struct {
	holdings    string
	targetsFile string
	targetsDir  string
	jsonPath    string
	vol         float64
	cashTol     float64
}

func (*summaryCmd) Name() string     { return "summary" }
func (*summaryCmd) Synopsis() string { return "aggregate view of a rebalancing run" }
func (*summaryCmd) Usage() string {
	return `rbt summary [-holdings <file>] [-targets <file> | -targets-dir <dir> -vol <v>]

  Runs the rebalancing computation and displays only the per-account and
  per-tax-status totals with the estimated tax, without the
  trade-by-trade detail.
`
}

func (c *summaryCmd) SetFlags(f *flag.FlagSet) {
	f.StringVar(&c.holdings, "holdings", "data/holdings.csv", "Path to the holdings CSV")
	f.StringVar(&c.targetsFile, "targets", "", "Path to a target weights file (CSV or JSON); overrides -targets-dir")
	f.StringVar(&c.targetsDir, "targets-dir", "portfolio_targets", "Directory with the six scenario target files")
	f.StringVar(&c.jsonPath, "json-path", "", "JSONPath to the weights object in a JSON targets file (default $.weights)")
	f.Float64Var(&c.vol, "vol", 0.08, "Target volatility selecting the scenario files (0.08 = 8%)")
	f.Float64Var(&c.cashTol, "cash-tol", rebalance.DefaultCashTolerance, "Per-account cash tolerance in dollars")
}

func (c *summaryCmd) Execute(_ context.Context, f *flag.FlagSet, _ ...interface{}) subcommands.ExitStatus {
	holdings, err := loadHoldings(c.holdings)
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error loading holdings: %v\n", err)
		return subcommands.ExitFailure
	}
	targets, err := loadTargets(c.targetsFile, c.targetsDir, c.vol, c.jsonPath)
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error loading targets: %v\n", err)
		return subcommands.ExitFailure
	}

	r := rebalance.NewRebalancer()
	r.CashTolerance = c.cashTol
	plan := r.Plan(holdings, targets)

	report := rebalance.NewTradeReport(plan, r.Conventions)
	printMarkdown(renderer.SummaryMarkdown(report))
	return subcommands.ExitSuccess
}
