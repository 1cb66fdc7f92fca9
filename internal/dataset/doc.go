// Package dataset loads the credit customer table and exposes it as an
// immutable RecordSet.
//
// A RecordSet keeps the header order of the source file and every cell as
// the original string. Numeric interpretation happens later, in the
// preprocess package. Each RecordSet carries an xxhash64 content hash that
// identifies it in the model cache.
package dataset
