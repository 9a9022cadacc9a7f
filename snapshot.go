package rebalance

import "sort"

type accountSleeve struct {
	account string
	sleeve  string
}

type accountIdent struct {
	account    string
	identifier string
}

// Snapshot is the read-only view of a normalized holdings table that the
// planner, trade generator and cash balancer share. Every map is built
// once, up front; nothing is mutated during generation, so generation
// stays a deterministic single pass.
type Snapshot struct {
	conv     *Conventions
	holdings Holdings

	// price holds the median per-share price seen for each identifier.
	price map[string]float64

	// sleeveOf maps an identifier to the sleeve carrying most of its value.
	sleeveOf map[string]string

	// canonByAccount picks, per (account, sleeve), the identifier with the
	// largest dollar value there: the one concrete symbol traded for that
	// bucket. canonBySleeve is the portfolio-wide equivalent, extended
	// with the fallback proxies for sleeves nobody holds.
	canonByAccount map[accountSleeve]string
	canonBySleeve  map[string]string

	quantity map[accountIdent]float64
	avgCost  map[accountIdent]float64

	sleeveValue  map[accountSleeve]float64
	sleeveCost   map[accountSleeve]float64
	accountValue map[string]float64
	taxStatus    map[string]string
}

// NewSnapshot indexes a normalized holdings table.
func NewSnapshot(hs Holdings, conv *Conventions) *Snapshot {
	conv = conv.orDefault()
	s := &Snapshot{
		conv:           conv,
		holdings:       hs,
		price:          map[string]float64{},
		sleeveOf:       map[string]string{},
		canonByAccount: map[accountSleeve]string{},
		canonBySleeve:  map[string]string{},
		quantity:       map[accountIdent]float64{},
		avgCost:        map[accountIdent]float64{},
		sleeveValue:    map[accountSleeve]float64{},
		sleeveCost:     map[accountSleeve]float64{},
		accountValue:   map[string]float64{},
		taxStatus:      map[string]string{},
	}

	prices := map[string][]float64{}
	costSum := map[accountIdent]float64{}
	bucketValue := map[accountSleeve]map[string]float64{}
	sleeveIdentValue := map[string]map[string]float64{}
	identSleeveValue := map[string]map[string]float64{}

	for _, h := range hs {
		prices[h.Identifier] = append(prices[h.Identifier], h.Price)

		ai := accountIdent{h.Account, h.Identifier}
		s.quantity[ai] += h.Quantity
		costSum[ai] += h.Quantity * h.AverageCost

		as := accountSleeve{h.Account, h.Sleeve}
		s.sleeveValue[as] += h.Value
		s.sleeveCost[as] += h.Cost
		s.accountValue[h.Account] += h.Value
		if s.taxStatus[h.Account] == "" {
			s.taxStatus[h.Account] = h.TaxStatus
		}

		if bucketValue[as] == nil {
			bucketValue[as] = map[string]float64{}
		}
		bucketValue[as][h.Identifier] += h.Value
		if sleeveIdentValue[h.Sleeve] == nil {
			sleeveIdentValue[h.Sleeve] = map[string]float64{}
		}
		sleeveIdentValue[h.Sleeve][h.Identifier] += h.Value
		if identSleeveValue[h.Identifier] == nil {
			identSleeveValue[h.Identifier] = map[string]float64{}
		}
		identSleeveValue[h.Identifier][h.Sleeve] += h.Value
	}

	for ident, ps := range prices {
		s.price[ident] = median(ps)
	}
	for as, idents := range bucketValue {
		s.canonByAccount[as] = largestKey(idents)
	}
	for sleeve, idents := range sleeveIdentValue {
		s.canonBySleeve[sleeve] = largestKey(idents)
	}
	for sleeve, proxy := range conv.FallbackProxy {
		if _, ok := s.canonBySleeve[sleeve]; !ok {
			s.canonBySleeve[sleeve] = proxy
		}
	}
	for ident, sleeves := range identSleeveValue {
		s.sleeveOf[ident] = largestKey(sleeves)
	}
	for ai, cost := range costSum {
		if q := s.quantity[ai]; q > 0 {
			s.avgCost[ai] = cost / q
		}
	}
	return s
}

// Price returns the median per-share price for an identifier, or 0 when
// the identifier never appears in the holdings.
func (s *Snapshot) Price(identifier string) float64 { return s.price[identifier] }

// Quantity returns the shares held for an identifier in one account.
func (s *Snapshot) Quantity(account, identifier string) float64 {
	return s.quantity[accountIdent{account, identifier}]
}

// AverageCost returns the quantity-weighted mean average cost for an
// identifier in one account, or 0 when nothing is held.
func (s *Snapshot) AverageCost(account, identifier string) float64 {
	return s.avgCost[accountIdent{account, identifier}]
}

// SleeveValue returns the dollars one account holds in one sleeve.
func (s *Snapshot) SleeveValue(account, sleeve string) float64 {
	return s.sleeveValue[accountSleeve{account, sleeve}]
}

// TotalValue is the portfolio-wide market value.
func (s *Snapshot) TotalValue() float64 {
	var total float64
	for _, v := range s.accountValue {
		total += v
	}
	return total
}

// IlliquidValue is the portfolio-wide value of the illiquid sleeve.
func (s *Snapshot) IlliquidValue() float64 {
	var total float64
	for as, v := range s.sleeveValue {
		if as.sleeve == s.conv.IlliquidSleeve {
			total += v
		}
	}
	return total
}

// SleeveTotal is the portfolio-wide value of one sleeve.
func (s *Snapshot) SleeveTotal(sleeve string) float64 {
	var total float64
	for as, v := range s.sleeveValue {
		if as.sleeve == sleeve {
			total += v
		}
	}
	return total
}

// TaxStatus returns the tax status recorded for an account, falling back
// on the classifier for accounts absent from the snapshot.
func (s *Snapshot) TaxStatus(account string) string {
	if st := s.taxStatus[account]; st != "" {
		return st
	}
	return s.conv.TaxStatusFor(account)
}

// Accounts returns the account names present in the snapshot, sorted.
func (s *Snapshot) Accounts() []string {
	accounts := make([]string, 0, len(s.accountValue))
	for a := range s.accountValue {
		accounts = append(accounts, a)
	}
	sort.Strings(accounts)
	return accounts
}

// holders returns the accounts holding value in a sleeve, sorted by name.
func (s *Snapshot) holders(sleeve string) []string {
	var accounts []string
	for as, v := range s.sleeveValue {
		if as.sleeve == sleeve && v > 0 {
			accounts = append(accounts, as.account)
		}
	}
	sort.Strings(accounts)
	return accounts
}

// gainPerDollar is the unrealized gain carried by each dollar an account
// holds in a sleeve. Zero-value buckets report zero.
func (s *Snapshot) gainPerDollar(account, sleeve string) float64 {
	as := accountSleeve{account, sleeve}
	v := s.sleeveValue[as]
	if v <= 0 {
		return 0
	}
	return (v - s.sleeveCost[as]) / v
}

// tradingIdent resolves the concrete identifier to trade for a sleeve in
// an account: the largest position already in that bucket, else the
// sleeve's portfolio-wide canonical identifier (which includes the
// configured proxies). The second return reports whether the account
// already holds the bucket.
func (s *Snapshot) tradingIdent(account, sleeve string) (ident string, owned bool) {
	if ident, ok := s.canonByAccount[accountSleeve{account, sleeve}]; ok {
		return ident, true
	}
	return s.canonBySleeve[sleeve], false
}

// median of a non-empty sample; even-sized samples take the mean of the
// two middle values.
func median(xs []float64) float64 {
	if len(xs) == 0 {
		return 0
	}
	sorted := append([]float64(nil), xs...)
	sort.Float64s(sorted)
	mid := len(sorted) / 2
	if len(sorted)%2 == 1 {
		return sorted[mid]
	}
	return (sorted[mid-1] + sorted[mid]) / 2
}

// largestKey picks the key with the largest value, breaking ties on the
// smaller key so the choice never depends on map iteration order.
func largestKey(m map[string]float64) string {
	var best string
	var bestV float64
	first := true
	for k, v := range m {
		if first || v > bestV || (v == bestV && k < best) {
			best, bestV = k, v
			first = false
		}
	}
	return best
}
