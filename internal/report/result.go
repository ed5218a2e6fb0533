package report

import (
	"github.com/temirov/repoaudit/internal/efficiency"
	"github.com/temirov/repoaudit/internal/minimalism"
	"github.com/temirov/repoaudit/internal/security"
	"github.com/temirov/repoaudit/internal/treewalk"
)

// DetailLevel distinguishes interactive full audits from bounded brief ones.
type DetailLevel string

// Supported detail levels.
const (
	DetailLevelFull  DetailLevel = "full"
	DetailLevelBrief DetailLevel = "brief"
)

// Severity ranks an audit outcome.
type Severity string

// Supported severities, ordered from least to most urgent.
const (
	SeverityInfo     Severity = "info"
	SeverityWarning  Severity = "warning"
	SeverityCritical Severity = "critical"
)

// Policy mirrors the operating constraints the audit reports against but never
// enforces.
type Policy struct {
	NonDestructive      bool   `json:"non_destructive" yaml:"non_destructive" mapstructure:"non_destructive"`
	FeaturePreservation bool   `json:"feature_preservation" yaml:"feature_preservation" mapstructure:"feature_preservation"`
	ConflictResolution  string `json:"conflict_resolution" yaml:"conflict_resolution" mapstructure:"conflict_resolution"`
}

// Summary condenses the audit outcome into counts and a severity rank.
type Summary struct {
	TotalIssues    int      `json:"total_issues" yaml:"total_issues"`
	Severity       Severity `json:"severity" yaml:"severity"`
	StylePreserved bool     `json:"style_preserved" yaml:"style_preserved"`
}

// AuditResult is the complete outcome of one audit invocation. It is built
// fresh on every run and never mutated afterwards.
type AuditResult struct {
	RepositoryName string            `json:"repository_name" yaml:"repository_name"`
	RootPath       string            `json:"root_path" yaml:"root_path"`
	DetailLevel    DetailLevel       `json:"detail_level" yaml:"detail_level"`
	Policy         Policy            `json:"policy" yaml:"policy"`
	Metrics        treewalk.Metrics  `json:"metrics" yaml:"metrics"`
	Security       security.Report   `json:"security" yaml:"security"`
	Efficiency     efficiency.Report `json:"efficiency" yaml:"efficiency"`
	Minimalism     minimalism.Report `json:"minimalism" yaml:"minimalism"`
	StyleNotes     []string          `json:"style_notes" yaml:"style_notes"`
	Summary        Summary           `json:"summary" yaml:"summary"`
}
