// Package cmd implements the CLI application that generates rebalancing
// trades from a holdings snapshot.
package cmd

import (
	"fmt"
	"math"
	"os"
	"path/filepath"
	"strings"

	"github.com/google/subcommands"
	"github.com/wcope/rebalance"
)

// as a CLI application, it has a very short lived lifecycle, so commands
// are plain values registered once by the main package.

// Commands lists every subcommand the binary registers.
var Commands = []subcommands.Command{
	&tradesCmd{},
	&holdingsCmd{},
	&summaryCmd{},
	&topicCmd{},
}

// loadHoldings reads and decodes the holdings CSV.
func loadHoldings(path string) (rebalance.Holdings, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("cannot open holdings file %q: %w", path, err)
	}
	defer f.Close()
	return rebalance.DecodeHoldings(f)
}

// loadTargets resolves the target weights from whichever source the
// flags selected: a single CSV or JSON file, or a scenario directory
// averaged at the requested volatility.
func loadTargets(file, dir string, vol float64, jsonPath string) (rebalance.Weights, error) {
	if file != "" {
		f, err := os.Open(file)
		if err != nil {
			return nil, fmt.Errorf("cannot open targets file %q: %w", file, err)
		}
		defer f.Close()
		if strings.EqualFold(filepath.Ext(file), ".json") {
			return rebalance.DecodeTargetsJSON(f, jsonPath)
		}
		return rebalance.DecodeTargets(f)
	}
	volPct := int(math.Round(vol * 100))
	return rebalance.LoadScenarioTargets(dir, volPct)
}
