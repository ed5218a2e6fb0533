// Package findings defines the shared finding model produced by the repository
// scanners: categorized findings, verified false positives, and the partition
// helpers that guarantee every pattern match surfaces in exactly one bucket.
package findings
