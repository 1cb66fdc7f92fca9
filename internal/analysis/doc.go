// Package analysis implements the unsupervised and descriptive routines
// behind the segmentation, anomaly and dashboard views: k-means with
// k-means++ seeding, an isolation forest, and summary statistics.
//
// All randomized routines take an explicit seed and are reproducible.
package analysis
