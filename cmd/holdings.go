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

// holdingsCmd holds the flags for the 'holdings' subcommand.
type holdingsCmd struct {
	holdings string
}

func (*holdingsCmd) Name() string     { return "holdings" }
func (*holdingsCmd) Synopsis() string { return "display the classified holdings snapshot" }
func (*holdingsCmd) Usage() string {
	return `rbt holdings [-holdings <file>]

  Loads the holdings CSV, classifies every row into a sleeve and a tax
  status, and displays the resulting table with per-sleeve weights.
`
}

func (c *holdingsCmd) SetFlags(f *flag.FlagSet) {
	f.StringVar(&c.holdings, "holdings", "data/holdings.csv", "Path to the holdings CSV")
}

func (c *holdingsCmd) Execute(_ context.Context, f *flag.FlagSet, _ ...interface{}) subcommands.ExitStatus {
	holdings, err := loadHoldings(c.holdings)
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error loading holdings: %v\n", err)
		return subcommands.ExitFailure
	}

	normalized := holdings.Normalize(rebalance.DefaultConventions())
	printMarkdown(renderer.HoldingsMarkdown("Holdings", normalized))
	return subcommands.ExitSuccess
}
