// Package invanalyzer reconciles and values investment portfolios from
// broker-exported transaction and holdings data.
//
// The package owns the position cost-basis engine: it infers the signed
// quantity and monetary value of each transaction, maintains a weighted
// average-cost position per security per account, replays that state at
// arbitrary historical valuation dates, reconciles the result against
// broker-declared holdings, and derives realized and unrealized gains.
//
// File parsing, persistence and the command line live in the ii, hsbc,
// store and cmd subpackages; the engine only consumes and produces typed
// in-memory records.
package invanalyzer
