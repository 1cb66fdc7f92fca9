// Package evaluation trains every configured classifier variant on one
// deterministic train/held-out split and scores each on the held-out rows.
//
// Metrics that cannot be computed from the held-out labels, such as ROC-AUC
// when only one class is present, are reported as undefined together with
// an *InsufficientDataError. They are never reported as zero.
package evaluation
