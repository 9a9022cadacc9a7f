package cmd

import (
	"context"
	"flag"
	"fmt"
	"os"
	"path/filepath"
	"time"

	"github.com/google/subcommands"
	"github.com/wcope/rebalance"
	"github.com/wcope/rebalance/renderer"
)

// tradesCmd holds the flags for the 'trades' subcommand.
type tradesCmd struct {
	holdings    string
	targetsFile string
	targetsDir  string
	jsonPath    string
	vol         float64
	cashTol     float64
	minTrade    float64
	outDir      string
}

func (*tradesCmd) Name() string     { return "trades" }
func (*tradesCmd) Synopsis() string { return "generate per-account trades toward the target mix" }
func (*tradesCmd) Usage() string {
	return `rbt trades [-holdings <file>] [-targets <file> | -targets-dir <dir> -vol <v>] [-cash-tol <dollars>] [-o <dir>]

  Computes the buy/sell list that moves the aggregate portfolio toward
  the target sleeve mix without transferring assets between accounts,
  balances each account's cash flow, and displays the resulting trades,
  summaries and residual warnings. With -o, also writes the trade list
  and the projected holdings as CSV.
`
}

func (c *tradesCmd) SetFlags(f *flag.FlagSet) {
	f.StringVar(&c.holdings, "holdings", "data/holdings.csv", "Path to the holdings CSV")
	f.StringVar(&c.targetsFile, "targets", "", "Path to a target weights file (CSV or JSON); overrides -targets-dir")
	f.StringVar(&c.targetsDir, "targets-dir", "portfolio_targets", "Directory with the six scenario target files")
	f.StringVar(&c.jsonPath, "json-path", "", "JSONPath to the weights object in a JSON targets file (default $.weights)")
	f.Float64Var(&c.vol, "vol", 0.08, "Target volatility selecting the scenario files (0.08 = 8%)")
	f.Float64Var(&c.cashTol, "cash-tol", rebalance.DefaultCashTolerance, "Per-account cash tolerance in dollars")
	f.Float64Var(&c.minTrade, "min-trade", rebalance.DefaultMinTradeDollars, "Smallest sleeve delta worth trading, in dollars")
	f.StringVar(&c.outDir, "o", "", "Directory to write the trades and holdings-after CSV files")
}

func (c *tradesCmd) Execute(_ context.Context, f *flag.FlagSet, _ ...interface{}) subcommands.ExitStatus {
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
	r.MinTradeDollars = c.minTrade
	plan := r.Plan(holdings, targets)

	if c.outDir != "" {
		if err := writeOutputs(c.outDir, plan); err != nil {
			fmt.Fprintf(os.Stderr, "Error writing outputs: %v\n", err)
			return subcommands.ExitFailure
		}
	}

	report := rebalance.NewTradeReport(plan, r.Conventions)
	printMarkdown(renderer.TradeReportMarkdown(report))

	for _, res := range report.Residuals {
		fmt.Fprintf(os.Stderr, "warning: residual cash flow in %q: %s\n",
			res.Account, rebalance.Money(res.Dollars).SignedString())
	}
	return subcommands.ExitSuccess
}

// writeOutputs writes the trade list and the projected holdings as CSV,
// named by run date.
func writeOutputs(dir string, plan *rebalance.Plan) error {
	if err := os.MkdirAll(dir, 0755); err != nil {
		return err
	}
	day := time.Now().Format("2006-01-02")

	tradesPath := filepath.Join(dir, fmt.Sprintf("trades_%s.csv", day))
	tf, err := os.Create(tradesPath)
	if err != nil {
		return err
	}
	defer tf.Close()
	if err := rebalance.EncodeTrades(tf, plan.Trades); err != nil {
		return fmt.Errorf("cannot write %q: %w", tradesPath, err)
	}
	fmt.Printf("Trades written: %s\n", tradesPath)

	afterPath := filepath.Join(dir, fmt.Sprintf("holdings_aftertrades_%s.csv", day))
	af, err := os.Create(afterPath)
	if err != nil {
		return err
	}
	defer af.Close()
	if err := rebalance.EncodeHoldings(af, plan.After); err != nil {
		return fmt.Errorf("cannot write %q: %w", afterPath, err)
	}
	fmt.Printf("Holdings-after written: %s\n", afterPath)
	return nil
}
