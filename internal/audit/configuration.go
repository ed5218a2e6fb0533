package audit

import (
	"strings"

	"github.com/temirov/repoaudit/internal/efficiency"
	"github.com/temirov/repoaudit/internal/report"
	"github.com/temirov/repoaudit/internal/security"
)

const (
	defaultConflictResolutionConstant = "merge-prefer-existing"

	fullFileCeilingDefaultConstant  = 3000
	briefFileCeilingDefaultConstant = 800

	policyNonDestructiveKeySuffixConstant      = ".policy.non_destructive"
	policyFeaturePreservationKeySuffixConstant = ".policy.feature_preservation"
	policyConflictResolutionKeySuffixConstant  = ".policy.conflict_resolution"
)

// ScanBounds groups every ceiling applied during one audit at a given detail
// level.
type ScanBounds struct {
	FileCeiling int               `mapstructure:"file_ceiling"`
	Security    security.Limits   `mapstructure:"security"`
	Efficiency  efficiency.Limits `mapstructure:"efficiency"`
}

// Configuration aggregates the audit policy, severity thresholds, and the
// full/brief scan bounds. All values are guardrail defaults overridable from
// configuration; the core never persists them.
type Configuration struct {
	Policy     report.Policy     `mapstructure:"policy"`
	Thresholds report.Thresholds `mapstructure:"thresholds"`
	Full       ScanBounds        `mapstructure:"full"`
	Brief      ScanBounds        `mapstructure:"brief"`
}

// DefaultConfiguration supplies baseline values for the audit command.
func DefaultConfiguration() Configuration {
	return Configuration{
		Policy: report.Policy{
			NonDestructive:      true,
			FeaturePreservation: true,
			ConflictResolution:  defaultConflictResolutionConstant,
		},
		Thresholds: report.DefaultThresholds(),
		Full: ScanBounds{
			FileCeiling: fullFileCeilingDefaultConstant,
			Security:    security.DefaultLimits(),
			Efficiency:  efficiency.DefaultLimits(),
		},
		Brief: ScanBounds{
			FileCeiling: briefFileCeilingDefaultConstant,
			Security:    security.BriefLimits(),
			Efficiency:  efficiency.BriefLimits(),
		},
	}
}

// Sanitize normalizes configured values, falling back to defaults for
// unusable entries.
func (configuration Configuration) Sanitize() Configuration {
	sanitized := configuration
	defaults := DefaultConfiguration()

	if len(strings.TrimSpace(sanitized.Policy.ConflictResolution)) == 0 {
		sanitized.Policy.ConflictResolution = defaults.Policy.ConflictResolution
	}
	sanitized.Thresholds = sanitizeThresholds(sanitized.Thresholds, defaults.Thresholds)
	sanitized.Full = sanitizeScanBounds(sanitized.Full, defaults.Full)
	sanitized.Brief = sanitizeScanBounds(sanitized.Brief, defaults.Brief)

	return sanitized
}

func sanitizeThresholds(candidate report.Thresholds, fallback report.Thresholds) report.Thresholds {
	sanitized := candidate
	if sanitized.TotalWarning <= 0 {
		sanitized.TotalWarning = fallback.TotalWarning
	}
	if sanitized.TotalCritical <= 0 {
		sanitized.TotalCritical = fallback.TotalCritical
	}
	if sanitized.SecurityWarning <= 0 {
		sanitized.SecurityWarning = fallback.SecurityWarning
	}
	if sanitized.SecurityCritical <= 0 {
		sanitized.SecurityCritical = fallback.SecurityCritical
	}
	return sanitized
}

func sanitizeScanBounds(candidate ScanBounds, fallback ScanBounds) ScanBounds {
	sanitized := candidate
	if sanitized.FileCeiling <= 0 {
		sanitized.FileCeiling = fallback.FileCeiling
	}
	if sanitized.Security.MaxSecretMatches <= 0 {
		sanitized.Security.MaxSecretMatches = fallback.Security.MaxSecretMatches
	}
	if sanitized.Security.MaxAttackSurfaceFiles <= 0 {
		sanitized.Security.MaxAttackSurfaceFiles = fallback.Security.MaxAttackSurfaceFiles
	}
	if sanitized.Security.MaxAttackSurfaceFindings <= 0 {
		sanitized.Security.MaxAttackSurfaceFindings = fallback.Security.MaxAttackSurfaceFindings
	}
	if sanitized.Efficiency.MaxFunctionScanFiles <= 0 {
		sanitized.Efficiency.MaxFunctionScanFiles = fallback.Efficiency.MaxFunctionScanFiles
	}
	if sanitized.Efficiency.MaxPerformanceScanFiles <= 0 {
		sanitized.Efficiency.MaxPerformanceScanFiles = fallback.Efficiency.MaxPerformanceScanFiles
	}
	if sanitized.Efficiency.MaxImportScanFiles <= 0 {
		sanitized.Efficiency.MaxImportScanFiles = fallback.Efficiency.MaxImportScanFiles
	}
	return sanitized
}

// DefaultConfigurationValues exposes the policy defaults for viper
// registration under the provided configuration key.
func DefaultConfigurationValues(configurationKey string) map[string]any {
	return map[string]any{
		configurationKey + policyNonDestructiveKeySuffixConstant:      true,
		configurationKey + policyFeaturePreservationKeySuffixConstant: true,
		configurationKey + policyConflictResolutionKeySuffixConstant:  defaultConflictResolutionConstant,
	}
}
