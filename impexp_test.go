package rebalance

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"testing"
)

func TestDecodeHoldingsNormalizesBrokerHeaders(t *testing.T) {
	in := `Account Name,Symbol,Description,Qty,Last Price,Avg Cost,Market Value
Schwab Brokerage,vtv,Vanguard Value ETF,10,"$100.00","$80.00","$1,000.00"
Vanguard Roth IRA,VWO,Vanguard Emerging Markets,5,40,50,
`
	hs, err := DecodeHoldings(strings.NewReader(in))
	if err != nil {
		t.Fatal(err)
	}
	if len(hs) != 2 {
		t.Fatalf("got %d rows, want 2", len(hs))
	}

	h := hs[0]
	if h.Account != "Schwab Brokerage" || h.Identifier != "VTV" {
		t.Errorf("row 0 = %s/%s, want Schwab Brokerage/VTV (identifier uppercased)", h.Account, h.Identifier)
	}
	if h.Quantity != 10 || h.Price != 100 || h.AverageCost != 80 {
		t.Errorf("row 0 numbers = %v/%v/%v, want 10/100/80", h.Quantity, h.Price, h.AverageCost)
	}
	if h.Value != 1000 {
		t.Errorf("row 0 value = %v, want the provided 1000", h.Value)
	}
	// Missing derived cells are recomputed.
	if hs[1].Value != 200 || hs[1].Cost != 250 {
		t.Errorf("row 1 derived = %v/%v, want 200/250", hs[1].Value, hs[1].Cost)
	}
}

func TestDecodeHoldingsRepairsInconsistentValue(t *testing.T) {
	in := `Account,Identifier,Name,Quantity,Price,AverageCost,Value
A,VTV,Vanguard Value ETF,10,100,80,999999
`
	hs, err := DecodeHoldings(strings.NewReader(in))
	if err != nil {
		t.Fatal(err)
	}
	if hs[0].Value != 1000 {
		t.Errorf("value = %v, want recomputed 1000 (cell disagrees with qty*price)", hs[0].Value)
	}
}

func TestDecodeHoldingsToleratesBadNumericCells(t *testing.T) {
	in := `Account,Identifier,Name,Quantity,Price,AverageCost
A,VTV,Vanguard Value ETF,n/a,100,80
`
	hs, err := DecodeHoldings(strings.NewReader(in))
	if err != nil {
		t.Fatal(err)
	}
	if hs[0].Quantity != 0 {
		t.Errorf("quantity = %v, want 0 for an unparseable cell", hs[0].Quantity)
	}
}

func TestDecodeHoldingsMissingColumns(t *testing.T) {
	in := `Account,Identifier,Quantity
A,VTV,10
`
	_, err := DecodeHoldings(strings.NewReader(in))
	var missing *MissingColumnError
	if !errors.As(err, &missing) {
		t.Fatalf("err = %v, want a MissingColumnError", err)
	}
	want := []string{"Name", "Price", "AverageCost"}
	if len(missing.Columns) != len(want) {
		t.Fatalf("missing = %v, want %v", missing.Columns, want)
	}
	for i, c := range want {
		if missing.Columns[i] != c {
			t.Errorf("missing[%d] = %q, want %q", i, missing.Columns[i], c)
		}
	}
}

func TestDecodeTargets(t *testing.T) {
	in := `Sleeve,Weight
US_Core,0.6
EM,0.4
`
	w, err := DecodeTargets(strings.NewReader(in))
	if err != nil {
		t.Fatal(err)
	}
	if !almost(w["US_Core"], 0.6) || !almost(w["EM"], 0.4) {
		t.Errorf("weights = %v, want US_Core 0.6, EM 0.4", w)
	}

	// Headerless input works too.
	w, err = DecodeTargets(strings.NewReader("US_Core,1\n"))
	if err != nil {
		t.Fatal(err)
	}
	if !almost(w["US_Core"], 1) {
		t.Errorf("weights = %v, want US_Core 1", w)
	}

	// A bad weight past the first line is an error.
	if _, err := DecodeTargets(strings.NewReader("US_Core,0.6\nEM,oops\n")); err == nil {
		t.Error("want an error for an unparseable weight")
	}
}

func TestLoadScenarioTargets(t *testing.T) {
	dir := t.TempDir()
	for i, scenario := range Scenarios {
		// One scenario leans EM, the rest lean US_Core.
		body := "US_Core,0.8\nEM,0.2\n"
		if i == 0 {
			body = "US_Core,0.2\nEM,0.8\n"
		}
		name := fmt.Sprintf("allocation_targetVol_8_%s_Real.csv", scenario)
		if err := os.WriteFile(filepath.Join(dir, name), []byte(body), 0o644); err != nil {
			t.Fatal(err)
		}
	}

	w, err := LoadScenarioTargets(dir, 8)
	if err != nil {
		t.Fatal(err)
	}
	if !almost(w["US_Core"], 0.7) || !almost(w["EM"], 0.3) {
		t.Errorf("averaged weights = %v, want US_Core 0.7, EM 0.3", w)
	}
}

func TestLoadScenarioTargetsReportsAllMissingFiles(t *testing.T) {
	_, err := LoadScenarioTargets(t.TempDir(), 8)
	if err == nil {
		t.Fatal("want an error when no scenario file exists")
	}
	for _, scenario := range Scenarios {
		if !strings.Contains(err.Error(), scenario) {
			t.Errorf("error does not name the missing %s file: %v", scenario, err)
		}
	}
}

func TestDecodeTargetsJSON(t *testing.T) {
	in := `{"asof": "2026-08-01", "weights": {"US_Core": 0.6, "EM": 0.4}}`
	w, err := DecodeTargetsJSON(strings.NewReader(in), "")
	if err != nil {
		t.Fatal(err)
	}
	if !almost(w["US_Core"], 0.6) || !almost(w["EM"], 0.4) {
		t.Errorf("weights = %v, want US_Core 0.6, EM 0.4", w)
	}
}

func TestDecodeTargetsJSONCustomPath(t *testing.T) {
	in := `{"model": {"targets": {"US_Value": 1}}}`
	w, err := DecodeTargetsJSON(strings.NewReader(in), "$.model.targets")
	if err != nil {
		t.Fatal(err)
	}
	if !almost(w["US_Value"], 1) {
		t.Errorf("weights = %v, want US_Value 1", w)
	}
}

func TestDecodeTargetsJSONErrors(t *testing.T) {
	if _, err := DecodeTargetsJSON(strings.NewReader(`{"weights": [1, 2]}`), ""); err == nil {
		t.Error("want an error when the path selects a non-object")
	}
	if _, err := DecodeTargetsJSON(strings.NewReader(`{"weights": {"EM": "lots"}}`), ""); err == nil {
		t.Error("want an error for a non-numeric weight")
	}
}

func TestEncodeTradesRoundTripShape(t *testing.T) {
	var b strings.Builder
	err := EncodeTrades(&b, []Trade{
		{Account: "A", TaxStatus: "Taxable", Identifier: "VWO", Sleeve: "EM", Action: Sell, SharesDelta: -10, Price: 50, AverageCost: 40, DollarDelta: -500, CapGainDollars: 100},
	})
	if err != nil {
		t.Fatal(err)
	}
	lines := strings.Split(strings.TrimSpace(b.String()), "\n")
	if len(lines) != 2 {
		t.Fatalf("got %d lines, want header + 1 row", len(lines))
	}
	if lines[0] != "Account,TaxStatus,Identifier,Sleeve,Action,Shares_Delta,Price,AverageCost,Delta_$,CapGain_$" {
		t.Errorf("header = %q", lines[0])
	}
	if lines[1] != "A,Taxable,VWO,EM,SELL,-10,50,40,-500,100" {
		t.Errorf("row = %q", lines[1])
	}
}

func TestEncodeHoldingsReadableByDecode(t *testing.T) {
	hs := Holdings{
		row("A", "VTV", "Vanguard Value ETF", 10, 100, 80),
	}.Normalize(nil)

	var b strings.Builder
	if err := EncodeHoldings(&b, hs); err != nil {
		t.Fatal(err)
	}
	back, err := DecodeHoldings(strings.NewReader(b.String()))
	if err != nil {
		t.Fatal(err)
	}
	if len(back) != 1 || back[0].Identifier != "VTV" || back[0].Value != 1000 {
		t.Errorf("decoded = %+v, want the encoded VTV row back", back)
	}
}
