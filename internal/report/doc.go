// Package report owns the audit result model and its outward faces: the
// deterministic severity summarizer, the human-readable text renderer, the
// condensed alert message, and JSON/YAML encoders for external tooling.
package report
