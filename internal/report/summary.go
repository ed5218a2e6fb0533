package report

const (
	defaultTotalWarningThresholdConstant    = 4
	defaultTotalCriticalThresholdConstant   = 8
	defaultSecurityWarningThresholdConstant = 3
	defaultSecurityCriticalThresholdConstant = 5
)

// Thresholds holds the issue-count boundaries driving severity ranking. The
// values are guardrail defaults preserved as configuration rather than derived.
type Thresholds struct {
	TotalWarning     int `mapstructure:"total_warning"`
	TotalCritical    int `mapstructure:"total_critical"`
	SecurityWarning  int `mapstructure:"security_warning"`
	SecurityCritical int `mapstructure:"security_critical"`
}

// DefaultThresholds returns the standard severity boundaries.
func DefaultThresholds() Thresholds {
	return Thresholds{
		TotalWarning:     defaultTotalWarningThresholdConstant,
		TotalCritical:    defaultTotalCriticalThresholdConstant,
		SecurityWarning:  defaultSecurityWarningThresholdConstant,
		SecurityCritical: defaultSecurityCriticalThresholdConstant,
	}
}

// Summarize maps the three scanners' issue counts to a summary. Security
// issues cross lower boundaries than the combined total: security dominates
// the other two axes deliberately.
func Summarize(securityIssues int, efficiencyIssues int, minimalismIssues int, stylePreserved bool, thresholds Thresholds) Summary {
	totalIssues := securityIssues + efficiencyIssues + minimalismIssues

	severity := SeverityInfo
	switch {
	case totalIssues >= thresholds.TotalCritical || securityIssues >= thresholds.SecurityCritical:
		severity = SeverityCritical
	case totalIssues >= thresholds.TotalWarning || securityIssues >= thresholds.SecurityWarning:
		severity = SeverityWarning
	}

	return Summary{
		TotalIssues:    totalIssues,
		Severity:       severity,
		StylePreserved: stylePreserved,
	}
}
