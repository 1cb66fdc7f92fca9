// Package preprocess turns a dataset.RecordSet into a numeric FeatureMatrix.
//
// Encode passes numeric columns through in header order and appends one
// 0/1 indicator column per categorical level, named "<column>_<level>".
// With DropFirst the lexicographically smallest level of every categorical
// column is the reference and gets no indicator.
//
// Reconcile aligns a matrix with the training column list by name. It is the
// only way single-row input reaches a trained classifier.
package preprocess
