// Package views renders each dashboard section as a display.Page.
//
// Dataset views (home, segmentation, anomaly, fairness, dashboard) read the
// loaded record set. Input views (prediction, recommendations, finance)
// take a validated request body; prediction also needs the trained
// evaluation bundle. Views hold no state between calls.
package views
