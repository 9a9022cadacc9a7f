package rebalance

import (
	"encoding/csv"
	"encoding/json"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strconv"
	"strings"

	"github.com/PaesslerAG/jsonpath"
)

// this file contains the interchange formats: holdings and trades as
// CSV, target weights as CSV or JSON. Holdings files come from manually
// maintained broker exports, so headers are normalized generously and
// bad numeric cells degrade to zero instead of failing the run; only a
// structurally missing column is fatal.

// Scenarios are the six macro scenarios averaged into one target mix.
var Scenarios = []string{"Base", "Disinflation", "Reflation", "HardLanding", "Stagflation", "Geopolitical"}

// MissingColumnError reports required holdings columns absent from the
// input. It is fatal: the engine never runs on a partial schema.
type MissingColumnError struct {
	Columns []string
}

func (e *MissingColumnError) Error() string {
	return fmt.Sprintf("holdings missing required columns: %s", strings.Join(e.Columns, ", "))
}

// headerAliases maps a squashed (lowercase, no spaces/underscores)
// header cell to its canonical column.
var headerAliases = map[string]string{
	"symbol": "Identifier", "ticker": "Identifier", "identifier": "Identifier", "ident": "Identifier",
	"name": "Name", "description": "Name", "securityname": "Name",
	"account": "Account", "accountname": "Account",
	"taxstatus": "TaxStatus",
	"sleeve":    "Sleeve", "assetclass": "Sleeve",
	"quantity": "Quantity", "qty": "Quantity", "shares": "Quantity",
	"price": "Price", "pricepershare": "Price", "currentprice": "Price", "lastprice": "Price", "shareprice": "Price",
	"averagecost": "AverageCost", "avgcost": "AverageCost", "costpershare": "AverageCost",
	"value": "Value", "marketvalue": "Value", "currentvalue": "Value", "currvalue": "Value",
	"cost": "Cost", "totalcost": "Cost", "costbasis": "Cost",
}

func squashHeader(cell string) string {
	cell = strings.ToLower(strings.TrimSpace(cell))
	cell = strings.NewReplacer(" ", "", "_", "", "$", "").Replace(cell)
	return cell
}

// DecodeHoldings reads a holdings CSV, normalizing flexible broker
// headers to the canonical schema. Missing Value/Cost cells (or cells
// more than a cent away from Quantity times the per-share column) are
// recomputed; missing Sleeve/TaxStatus stay empty for the classifier.
func DecodeHoldings(r io.Reader) (Holdings, error) {
	cr := csv.NewReader(r)
	cr.TrimLeadingSpace = true
	records, err := cr.ReadAll()
	if err != nil {
		return nil, fmt.Errorf("cannot parse holdings csv: %w", err)
	}
	if len(records) == 0 {
		return nil, &MissingColumnError{Columns: requiredColumns()}
	}

	columns := map[string]int{}
	for i, cell := range records[0] {
		if canonical, ok := headerAliases[squashHeader(cell)]; ok {
			if _, taken := columns[canonical]; !taken {
				columns[canonical] = i
			}
		}
	}
	var missing []string
	for _, c := range requiredColumns() {
		if _, ok := columns[c]; !ok {
			missing = append(missing, c)
		}
	}
	if len(missing) > 0 {
		return nil, &MissingColumnError{Columns: missing}
	}

	cell := func(row []string, column string) string {
		i, ok := columns[column]
		if !ok || i >= len(row) {
			return ""
		}
		return strings.TrimSpace(row[i])
	}

	var hs Holdings
	for _, row := range records[1:] {
		h := Holding{
			Account:     cell(row, "Account"),
			Identifier:  strings.ToUpper(cell(row, "Identifier")),
			Name:        cell(row, "Name"),
			Sleeve:      cell(row, "Sleeve"),
			TaxStatus:   cell(row, "TaxStatus"),
			Quantity:    coerceNumber(cell(row, "Quantity")),
			Price:       coerceNumber(cell(row, "Price")),
			AverageCost: coerceNumber(cell(row, "AverageCost")),
		}
		h.Value = repairDerived(cell(row, "Value"), h.Quantity*h.Price)
		h.Cost = repairDerived(cell(row, "Cost"), h.Quantity*h.AverageCost)
		hs = append(hs, h)
	}
	return hs, nil
}

func requiredColumns() []string {
	return []string{"Account", "Identifier", "Name", "Quantity", "Price", "AverageCost"}
}

// coerceNumber parses a numeric cell tolerantly: currency symbols,
// thousand separators and surrounding noise are stripped, and anything
// unparseable becomes zero.
func coerceNumber(cell string) float64 {
	cell = strings.NewReplacer("$", "", ",", "", " ", "").Replace(cell)
	if cell == "" {
		return 0
	}
	v, err := strconv.ParseFloat(cell, 64)
	if err != nil {
		return 0
	}
	return v
}

// repairDerived keeps a provided derived cell only when it agrees with
// the per-share columns within a cent.
func repairDerived(cell string, computed float64) float64 {
	if cell == "" {
		return computed
	}
	v := coerceNumber(cell)
	diff := v - computed
	if diff < -0.01 || diff > 0.01 {
		return computed
	}
	return v
}

// DecodeTargets reads a two-column (sleeve, weight) CSV. A first line
// whose second cell is not a number is treated as a header.
func DecodeTargets(r io.Reader) (Weights, error) {
	cr := csv.NewReader(r)
	cr.TrimLeadingSpace = true
	cr.FieldsPerRecord = -1
	records, err := cr.ReadAll()
	if err != nil {
		return nil, fmt.Errorf("cannot parse targets csv: %w", err)
	}

	w := Weights{}
	for i, row := range records {
		if len(row) < 2 {
			continue
		}
		weight, err := strconv.ParseFloat(strings.TrimSpace(row[1]), 64)
		if err != nil {
			if i == 0 {
				continue // header line
			}
			return nil, fmt.Errorf("cannot parse target weight %q for sleeve %q", row[1], row[0])
		}
		w[strings.TrimSpace(row[0])] += weight
	}
	return w, nil
}

// LoadScenarioTargets averages the sleeve weights of the six scenario
// files allocation_targetVol_<vol>_<Scenario>_Real.csv found in dir.
// Every scenario file must exist; the averaged weights must carry some
// positive mass.
func LoadScenarioTargets(dir string, volPct int) (Weights, error) {
	var missing []string
	sum := Weights{}
	for _, scenario := range Scenarios {
		path := filepath.Join(dir, fmt.Sprintf("allocation_targetVol_%d_%s_Real.csv", volPct, scenario))
		f, err := os.Open(path)
		if err != nil {
			missing = append(missing, path)
			continue
		}
		w, err := DecodeTargets(f)
		f.Close()
		if err != nil {
			return nil, fmt.Errorf("scenario %s: %w", scenario, err)
		}
		for sleeve, weight := range w {
			sum[sleeve] += weight
		}
	}
	if len(missing) > 0 {
		return nil, fmt.Errorf("missing target files:\n  %s", strings.Join(missing, "\n  "))
	}

	avg := Weights{}
	var total float64
	for sleeve, weight := range sum {
		weight /= float64(len(Scenarios))
		if weight < 0 {
			weight = 0
		}
		avg[sleeve] = weight
		total += weight
	}
	if total <= 0 {
		return nil, fmt.Errorf("target weights sum to zero")
	}
	return avg, nil
}

// DecodeTargetsJSON extracts sleeve weights from a JSON document. The
// path selects the object holding sleeve-to-weight pairs; it defaults
// to "$.weights".
func DecodeTargetsJSON(r io.Reader, path string) (Weights, error) {
	if path == "" {
		path = "$.weights"
	}
	var jobj any
	if err := json.NewDecoder(r).Decode(&jobj); err != nil {
		return nil, fmt.Errorf("cannot parse targets json: %w", err)
	}
	jval, err := jsonpath.Get(path, jobj)
	if err != nil {
		return nil, fmt.Errorf("cannot evaluate %q on targets json: %w", path, err)
	}
	// jsonpath is never clear about whether it returns a list of one
	// answer or a single answer; keep the first one if any.
	if jlist, ok := jval.([]any); ok && len(jlist) > 0 {
		jval = jlist[0]
	}
	jmap, ok := jval.(map[string]any)
	if !ok {
		return nil, fmt.Errorf("%q does not select a sleeve-to-weight object", path)
	}

	w := Weights{}
	for sleeve, v := range jmap {
		weight, ok := v.(float64)
		if !ok {
			return nil, fmt.Errorf("weight for sleeve %q is not a number", sleeve)
		}
		w[sleeve] = weight
	}
	return w, nil
}

// EncodeTrades writes the trade list in the interchange CSV format.
func EncodeTrades(w io.Writer, trades []Trade) error {
	cw := csv.NewWriter(w)
	header := []string{"Account", "TaxStatus", "Identifier", "Sleeve", "Action", "Shares_Delta", "Price", "AverageCost", "Delta_$", "CapGain_$"}
	if err := cw.Write(header); err != nil {
		return err
	}
	for _, t := range trades {
		row := []string{
			t.Account, t.TaxStatus, t.Identifier, t.Sleeve, string(t.Action),
			formatNumber(t.SharesDelta),
			formatNumber(t.Price),
			formatNumber(t.AverageCost),
			formatNumber(t.DollarDelta),
			formatNumber(t.CapGainDollars),
		}
		if err := cw.Write(row); err != nil {
			return err
		}
	}
	cw.Flush()
	return cw.Error()
}

// EncodeHoldings writes a holdings table (before or after trades) in the
// interchange CSV format.
func EncodeHoldings(w io.Writer, hs Holdings) error {
	cw := csv.NewWriter(w)
	header := []string{"Account", "TaxStatus", "Identifier", "Name", "Sleeve", "Quantity", "Price", "AverageCost", "Value", "Cost"}
	if err := cw.Write(header); err != nil {
		return err
	}
	for _, h := range hs {
		row := []string{
			h.Account, h.TaxStatus, h.Identifier, h.Name, h.Sleeve,
			formatNumber(h.Quantity),
			formatNumber(h.Price),
			formatNumber(h.AverageCost),
			formatNumber(h.Value),
			formatNumber(h.Cost),
		}
		if err := cw.Write(row); err != nil {
			return err
		}
	}
	cw.Flush()
	return cw.Error()
}

func formatNumber(v float64) string {
	return strconv.FormatFloat(v, 'f', -1, 64)
}
