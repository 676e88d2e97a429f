// Package analytics computes the summary tables over the cleaned sales
// dataset: period shares, price per square foot, year-built distributions,
// category means, market caps and one-family transaction counts.
//
// A Frame is an immutable view over records. Filters return new frames and
// grouping yields deterministic, sorted groups, so running the Aggregator
// twice over the same frame gives identical reports.
package analytics
