package cmd

import (
	"os"
	"path/filepath"
	"testing"
)

func TestLoadTargetsDispatchesOnExtension(t *testing.T) {
	dir := t.TempDir()

	csvPath := filepath.Join(dir, "targets.csv")
	if err := os.WriteFile(csvPath, []byte("US_Core,0.6\nEM,0.4\n"), 0o644); err != nil {
		t.Fatal(err)
	}
	w, err := loadTargets(csvPath, "", 0.08, "")
	if err != nil {
		t.Fatal(err)
	}
	if w["US_Core"] != 0.6 {
		t.Errorf("csv targets = %v, want US_Core 0.6", w)
	}

	jsonPath := filepath.Join(dir, "targets.JSON")
	if err := os.WriteFile(jsonPath, []byte(`{"weights": {"EM": 1}}`), 0o644); err != nil {
		t.Fatal(err)
	}
	w, err = loadTargets(jsonPath, "", 0.08, "")
	if err != nil {
		t.Fatal(err)
	}
	if w["EM"] != 1 {
		t.Errorf("json targets = %v, want EM 1", w)
	}
}

func TestLoadTargetsScenarioDirErrors(t *testing.T) {
	// An empty scenario directory names every missing file.
	if _, err := loadTargets("", t.TempDir(), 0.08, ""); err == nil {
		t.Error("want an error for an empty scenario directory")
	}
}

func TestLoadHoldingsMissingFile(t *testing.T) {
	if _, err := loadHoldings(filepath.Join(t.TempDir(), "nope.csv")); err == nil {
		t.Error("want an error for a missing holdings file")
	}
}
