package security

import (
	"strings"

	"github.com/temirov/repoaudit/internal/findings"
	"github.com/temirov/repoaudit/internal/treewalk"
)

const (
	defaultSecretMatchCeilingConstant       = 25
	briefSecretMatchCeilingConstant         = 8
	defaultAttackSurfaceFileCeilingConstant = 160
	briefAttackSurfaceFileCeilingConstant   = 60
	defaultAttackSurfaceFindingCapConstant  = 50
	briefAttackSurfaceFindingCapConstant    = 15
	relativePathSeparatorConstant           = "/"
)

// Limits bounds the three security passes for one detail level.
type Limits struct {
	MaxSecretMatches         int `mapstructure:"max_secret_matches"`
	MaxAttackSurfaceFiles    int `mapstructure:"max_attack_surface_files"`
	MaxAttackSurfaceFindings int `mapstructure:"max_attack_surface_findings"`
}

// DefaultLimits returns the full-detail scan bounds.
func DefaultLimits() Limits {
	return Limits{
		MaxSecretMatches:         defaultSecretMatchCeilingConstant,
		MaxAttackSurfaceFiles:    defaultAttackSurfaceFileCeilingConstant,
		MaxAttackSurfaceFindings: defaultAttackSurfaceFindingCapConstant,
	}
}

// BriefLimits returns the reduced bounds used by background audits.
func BriefLimits() Limits {
	return Limits{
		MaxSecretMatches:         briefSecretMatchCeilingConstant,
		MaxAttackSurfaceFiles:    briefAttackSurfaceFileCeilingConstant,
		MaxAttackSurfaceFindings: briefAttackSurfaceFindingCapConstant,
	}
}

// Report aggregates the results of the three security passes.
type Report struct {
	SecretFindings         []findings.Finding               `json:"secrets_findings" yaml:"secrets_findings"`
	VerifiedFalsePositives []findings.VerifiedFalsePositive `json:"verified_false_positives" yaml:"verified_false_positives"`
	AttackSurfaceFindings  []findings.Finding               `json:"attack_surface_findings" yaml:"attack_surface_findings"`
	DependencyAlerts       []findings.Finding               `json:"dependency_alerts" yaml:"dependency_alerts"`
	Issues                 int                              `json:"issues" yaml:"issues"`
}

// Scanner runs the security passes against a walked inventory.
type Scanner struct {
	limits  Limits
	parsers []DependencyManifestParser
}

// NewScanner constructs a scanner with the provided limits and the standard
// manifest parsers.
func NewScanner(limits Limits) *Scanner {
	return &Scanner{
		limits: limits,
		parsers: []DependencyManifestParser{
			RequirementsParser{},
			PyprojectParser{},
		},
	}
}

// Scan executes the secret, attack-surface, and dependency passes in order and
// returns the combined report. Verified false positives never count as issues.
func (scanner *Scanner) Scan(inventory *treewalk.Inventory) Report {
	report := Report{}

	secretBucket := scanner.scanSecrets(inventory)
	report.SecretFindings = secretBucket.Active
	report.VerifiedFalsePositives = secretBucket.Verified
	report.AttackSurfaceFindings = scanner.scanAttackSurface(inventory)
	report.DependencyAlerts = scanner.scanDependencies(inventory)
	report.Issues = len(report.SecretFindings) + len(report.AttackSurfaceFindings) + len(report.DependencyAlerts)

	return report
}

// scanSecrets applies the secret pattern table to text-like files. The match
// ceiling is shared between active findings and verified false positives so
// false-positive volume cannot starve real-finding capacity.
func (scanner *Scanner) scanSecrets(inventory *treewalk.Inventory) findings.Bucket {
	bucket := findings.Bucket{}
	loader := inventory.Loader()

	for _, record := range inventory.Files {
		if bucket.TotalMatches() >= scanner.limits.MaxSecretMatches {
			return bucket
		}
		if !treewalk.IsTextLikeExtension(record.Extension) {
			continue
		}
		if pathContainsLegacyDirectory(record.RelativePath) {
			continue
		}

		content, loaded := loader.Load(record.Path)
		if !loaded {
			continue
		}

		for _, rule := range secretPatternRules {
			if bucket.TotalMatches() >= scanner.limits.MaxSecretMatches {
				return bucket
			}
			for _, matchSpan := range rule.expression.FindAllStringIndex(content, -1) {
				if bucket.TotalMatches() >= scanner.limits.MaxSecretMatches {
					return bucket
				}
				finding := findings.Finding{
					File:           record.RelativePath,
					Line:           lineNumberAtOffset(content, matchSpan[0]),
					Issue:          rule.issueLabel,
					Recommendation: rule.recommendation,
					Category:       findings.CategorySecurity,
				}
				if reason, falsePositive := verifySecretMatch(record.RelativePath, content, matchSpan[0]); falsePositive {
					bucket.RecordVerified(finding, reason)
					continue
				}
				bucket.Record(finding)
			}
		}
	}

	return bucket
}

// scanAttackSurface applies the attack-surface table to Python sources and
// returns immediately once the finding cap is reached.
func (scanner *Scanner) scanAttackSurface(inventory *treewalk.Inventory) []findings.Finding {
	var attackFindings []findings.Finding
	loader := inventory.Loader()

	scannedFiles := 0
	for _, record := range inventory.PythonFiles() {
		if scannedFiles >= scanner.limits.MaxAttackSurfaceFiles {
			break
		}
		scannedFiles++

		content, loaded := loader.Load(record.Path)
		if !loaded {
			continue
		}

		for _, rule := range attackSurfaceRules {
			for _, matchSpan := range rule.expression.FindAllStringIndex(content, -1) {
				matchedText := content[matchSpan[0]:matchSpan[1]]
				if rule.exclusion != nil && rule.exclusion.MatchString(matchedText) {
					continue
				}
				attackFindings = append(attackFindings, findings.Finding{
					File:           record.RelativePath,
					Line:           lineNumberAtOffset(content, matchSpan[0]),
					Issue:          rule.issueLabel,
					Recommendation: rule.recommendation,
					Category:       findings.CategorySecurity,
				})
				if len(attackFindings) >= scanner.limits.MaxAttackSurfaceFindings {
					return attackFindings
				}
			}
		}
	}

	return attackFindings
}

// scanDependencies routes manifest files to the parser claiming them.
func (scanner *Scanner) scanDependencies(inventory *treewalk.Inventory) []findings.Finding {
	var dependencyAlerts []findings.Finding
	loader := inventory.Loader()

	for _, record := range inventory.Files {
		for _, parser := range scanner.parsers {
			if !parser.Recognizes(record.RelativePath) {
				continue
			}
			content, loaded := loader.Load(record.Path)
			if !loaded {
				continue
			}
			dependencyAlerts = append(dependencyAlerts, parser.Parse(record.RelativePath, content)...)
		}
	}

	return dependencyAlerts
}

// lineNumberAtOffset computes the 1-based line number by counting newlines up
// to the match offset.
func lineNumberAtOffset(content string, offset int) int {
	if offset > len(content) {
		offset = len(content)
	}
	return 1 + strings.Count(content[:offset], "\n")
}

func pathContainsLegacyDirectory(relativePath string) bool {
	for _, segment := range strings.Split(relativePath, relativePathSeparatorConstant) {
		if treewalk.IsLegacyDirectory(segment) {
			return true
		}
	}
	return false
}
