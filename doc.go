// Package rewind reconstructs a peer-to-peer lending portfolio as it existed
// at an earlier date, from a later snapshot and the ledger of operations in
// between. Platforms only let you download the portfolio as it is today; for
// a year-end asset declaration the balances of December 31 are what counts,
// so the tool walks the account statement backwards, undoing each operation,
// until it reaches the date you asked for.
//
// The package provides:
//   - Classification: mapping raw account-statement rows onto a small, closed
//     set of principal-affecting operation kinds, dropping (and counting)
//     everything else.
//   - Reversal: the sequential fold that applies each operation's inverse in
//     descending timestamp order, producing the portfolio state immediately
//     before the earliest operation. It fails fast on anything it cannot
//     undo exactly; partial results are never produced.
//   - Normalized formats: JSONL operations ledgers and snapshots, a
//     normalized statement CSV, and a jsonpath-driven importer for platform
//     JSON exports.
//
// This package is the foundation of the `rwd` command-line tool. All
// monetary values are exact decimals end to end.
package rewind
