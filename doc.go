// Package rebalance turns a snapshot of investment holdings spread over
// several accounts into the buy/sell list that moves the aggregate
// portfolio toward a target asset-class mix.
//
// The pipeline is a single deterministic pass over an in-memory table:
// holdings are classified into sleeves and tax statuses (Conventions),
// sleeve targets are sized portfolio-wide and distributed per account
// (planDeltas), deltas become concrete trades with share rounding, sell
// caps and realized-gain accounting (generateTrades), each account's net
// flow is offset with a cash trade (balanceCash), and the trade list is
// projected back onto the holdings (applyTrades).
//
// Assets never move between accounts, the illiquid sleeve is never
// traded, and data-quality gaps (unknown accounts, unpriceable
// identifiers) degrade to safe defaults instead of failing the run.
package rebalance
