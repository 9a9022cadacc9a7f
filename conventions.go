package rebalance

import (
	"regexp"
	"sort"
	"strings"
)

// Conventions holds the classification tables that turn raw holdings rows
// into sleeve-tagged, tax-tagged positions: the explicit identifier to
// sleeve mapping, the illiquid issuer markers, the tax-status rules, the
// cash-like identifier set and the per-sleeve fallback proxies.
//
// All lookups are pure and case-insensitive. A nil *Conventions behaves
// like DefaultConventions().
type Conventions struct {
	// SleeveByIdentifier maps an uppercase identifier to its sleeve.
	SleeveByIdentifier map[string]string

	// DefaultSleeve is the final classification fallback.
	DefaultSleeve string

	// IlliquidSleeve is a fixed, never-traded bucket. A holding whose
	// identifier or name contains one of IlliquidMarkers lands here.
	IlliquidSleeve  string
	IlliquidMarkers []string

	// FallbackProxy names the identifier to trade for a sleeve when no
	// position in that sleeve exists anywhere in the portfolio.
	FallbackProxy map[string]string

	// CashSleeve and CashIdentifiers drive cash balancing and the finer
	// share rounding applied to cash-like instruments.
	CashSleeve      string
	CashIdentifiers map[string]bool

	// TaxStatusRules are evaluated in order against the lowercased
	// account name; first match wins. Unmatched accounts get
	// DefaultTaxStatus.
	TaxStatusRules   []TaxStatusRule
	DefaultTaxStatus string

	// TaxRateByStatus holds flat estimated long-term capital gains rates.
	TaxRateByStatus map[string]float64
}

// TaxStatusRule binds an account-name pattern to a tax status.
type TaxStatusRule struct {
	Pattern *regexp.Regexp
	Status  string
}

// DefaultConventions returns the stock classification tables: broad US
// ETF mappings, ROTH/HSA/Trust account rules, and the usual money-market
// identifiers.
func DefaultConventions() *Conventions {
	return &Conventions{
		SleeveByIdentifier: map[string]string{
			"IVW": "US_Growth", "VOOG": "US_Growth", "AMZN": "US_Growth",
			"SCHB": "US_Core", "DFAU": "US_Core", "SCHM": "US_Core",
			"SCHA": "US_SmallValue", "VBR": "US_SmallValue",
			"IUSV": "US_Value", "VTV": "US_Value", "VOOV": "US_Value", "MGV": "US_Value",
			"VXUS": "Intl_DM", "VPL": "Intl_DM", "FNDF": "Intl_DM", "FNDC": "Intl_DM",
			"VWO": "EM", "EMXC": "EM", "FNDE": "EM", "TSM": "EM",
			"XLE": "Energy", "VDE": "Energy",
			"AGG": "IG_Core", "SCHZ": "IG_Core",
			"VWOB": "EM_USD", "BNDX": "IG_Intl_Hedged",
			"SPAXX": "Cash", "FDRXX": "Cash", "VMFXX": "Cash", "BIL": "Cash", "CASH": "Cash",
		},
		DefaultSleeve:   "US_Core",
		IlliquidSleeve:  "Illiquid",
		IlliquidMarkers: []string{"PRIVATE", "RESTRICTED"},
		FallbackProxy: map[string]string{
			"US_Core": "SCHB", "US_Value": "VTV", "US_SmallValue": "VBR", "US_Growth": "IVW",
			"Intl_DM": "VXUS", "EM": "VWO", "Energy": "XLE",
			"IG_Core": "AGG", "Treasuries": "IEF", "TIPS": "TIP",
			"EM_USD": "VWOB", "IG_Intl_Hedged": "BNDX", "Cash": "BIL",
		},
		CashSleeve: "Cash",
		CashIdentifiers: map[string]bool{
			"SPAXX": true, "VMFXX": true, "FDRXX": true, "BIL": true, "CASH": true,
		},
		TaxStatusRules: []TaxStatusRule{
			{Pattern: regexp.MustCompile(`\broth\b`), Status: "ROTH IRA"},
			{Pattern: regexp.MustCompile(`\bhsa\b`), Status: "HSA"},
			{Pattern: regexp.MustCompile(`\btrust\b`), Status: "Trust"},
		},
		DefaultTaxStatus: "Taxable",
		TaxRateByStatus: map[string]float64{
			"HSA":      0.00,
			"ROTH IRA": 0.00,
			"Trust":    0.20,
			"Taxable":  0.15,
		},
	}
}

func (c *Conventions) orDefault() *Conventions {
	if c == nil {
		return DefaultConventions()
	}
	return c
}

// SleeveFor classifies a holding into a sleeve. The explicit identifier
// table wins; a name or identifier carrying an illiquid marker forces the
// illiquid sleeve; then name keyword heuristics; then the default sleeve.
func (c *Conventions) SleeveFor(identifier, name string) string {
	c = c.orDefault()
	ident := strings.ToUpper(strings.TrimSpace(identifier))
	n := strings.ToUpper(strings.TrimSpace(name))

	if c.IsIlliquid(ident, n) {
		return c.IlliquidSleeve
	}
	if sleeve, ok := c.SleeveByIdentifier[ident]; ok {
		return sleeve
	}
	if strings.Contains(n, "INFLATION") {
		return "TIPS"
	}
	for _, kw := range []string{"UST", "TREAS", "STRIP"} {
		if strings.Contains(n, kw) {
			return "Treasuries"
		}
	}
	return c.DefaultSleeve
}

// IsIlliquid reports whether the identifier or name carries one of the
// configured illiquid issuer markers.
func (c *Conventions) IsIlliquid(identifier, name string) bool {
	c = c.orDefault()
	s := strings.ToUpper(strings.TrimSpace(identifier)) + " " + strings.ToUpper(strings.TrimSpace(name))
	for _, marker := range c.IlliquidMarkers {
		if marker != "" && strings.Contains(s, marker) {
			return true
		}
	}
	return false
}

// TaxStatusFor assigns a tax status from the account name. Rules are
// evaluated in order against the lowercased name; first match wins.
func (c *Conventions) TaxStatusFor(account string) string {
	c = c.orDefault()
	low := strings.ToLower(account)
	for _, rule := range c.TaxStatusRules {
		if rule.Pattern.MatchString(low) {
			return rule.Status
		}
	}
	return c.DefaultTaxStatus
}

// TaxRateFor returns the flat estimated capital gains rate for a status.
// Unknown statuses fall back on keyword matching so that variants like
// "Roth IRA (Vanguard)" still map to a sensible rate.
func (c *Conventions) TaxRateFor(status string) float64 {
	c = c.orDefault()
	if rate, ok := c.TaxRateByStatus[status]; ok {
		return rate
	}
	s := strings.ToLower(status)
	switch {
	case strings.Contains(s, "roth"), strings.Contains(s, "hsa"):
		return 0.0
	case strings.Contains(s, "trust"):
		return 0.20
	case strings.Contains(s, "taxable"):
		return 0.15
	}
	return 0.0
}

// IsCashLike reports whether an identifier is a money-market style
// instrument expected to trade at par.
func (c *Conventions) IsCashLike(identifier string) bool {
	c = c.orDefault()
	return c.CashIdentifiers[strings.ToUpper(strings.TrimSpace(identifier))]
}

// CashProxy returns the identifier to use for a cash balancing trade when
// the account holds no cash-like position.
func (c *Conventions) CashProxy() string {
	c = c.orDefault()
	if p, ok := c.FallbackProxy[c.CashSleeve]; ok {
		return p
	}
	return "BIL"
}

// proxySleeve is the reverse of FallbackProxy, used by the projector to
// guess the sleeve of a traded-but-unheld identifier.
func (c *Conventions) proxySleeve(identifier string) (string, bool) {
	c = c.orDefault()
	ident := strings.ToUpper(strings.TrimSpace(identifier))
	sleeves := make([]string, 0, len(c.FallbackProxy))
	for sleeve := range c.FallbackProxy {
		sleeves = append(sleeves, sleeve)
	}
	sort.Strings(sleeves)
	for _, sleeve := range sleeves {
		if c.FallbackProxy[sleeve] == ident {
			return sleeve, true
		}
	}
	return "", false
}
