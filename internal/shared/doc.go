// Package shared holds helpers used across the credit risk packages.
//
// The testutil subpackage provides:
//
//   - synthetic credit customer record sets with a chosen size and
//     good/bad split
//   - a buffered slog handler for asserting on log output
//
// Example usage:
//
//	func TestSomething(t *testing.T) {
//	    rs := testutil.SyntheticCredit(t, 1000, 700)
//	    logger, logs := testutil.NewTestLogger(t)
//	    ...
//	}
//
// Nothing in this package may import service or transport code.
package shared
