package security

import (
	"fmt"
	"path"
	"strings"

	toml "github.com/pelletier/go-toml/v2"

	"github.com/temirov/repoaudit/internal/findings"
)

const (
	requirementsFilePrefixConstant    = "requirements"
	requirementsFileExtensionConstant = ".txt"
	pyprojectFileNameConstant         = "pyproject.toml"

	requirementsCommentPrefixConstant = "#"
	requirementsOptionPrefixConstant  = "-"
	insecureGitSourceMarkerConstant   = "git+http://"

	unpinnedIssueTemplateConstant       = "unpinned dependency %q"
	insecureSourceIssueTemplateConstant = "dependency %q fetched over plaintext http"
	unpinnedRecommendationConstant      = "Pin the dependency with an explicit version specifier"
	insecureRecommendationConstant      = "Use an https VCS source for the dependency"

	optionalDependencyGroupTemplateConstant = "optional-dependencies.%s"

	dependencyNameTableKeyConstant    = "name"
	dependencyVersionTableKeyConstant = "version"
	dependencyGitTableKeyConstant     = "git"
	plaintextSchemePrefixConstant     = "http://"
)

// versionSpecifierTokens are the markers that distinguish a pinned requirement
// from a floating one.
var versionSpecifierTokens = []string{"==", "<=", ">=", "~=", "!=", "<", ">"}

// DependencyManifestParser inspects one manifest format for dependency-hygiene
// violations.
type DependencyManifestParser interface {
	Recognizes(relativePath string) bool
	Parse(relativePath string, content string) []findings.Finding
}

// RequirementsParser analyzes pip requirements files line by line.
type RequirementsParser struct{}

// Recognizes claims files named requirements*.txt anywhere in the tree.
func (RequirementsParser) Recognizes(relativePath string) bool {
	fileName := strings.ToLower(path.Base(relativePath))
	return strings.HasPrefix(fileName, requirementsFilePrefixConstant) && strings.HasSuffix(fileName, requirementsFileExtensionConstant)
}

// Parse flags unpinned requirement lines and plaintext VCS sources.
func (RequirementsParser) Parse(relativePath string, content string) []findings.Finding {
	var manifestFindings []findings.Finding

	for lineIndex, rawLine := range strings.Split(content, "\n") {
		requirementLine := strings.TrimSpace(rawLine)
		if len(requirementLine) == 0 {
			continue
		}
		if strings.HasPrefix(requirementLine, requirementsCommentPrefixConstant) {
			continue
		}

		// Insecure sources are flagged even on option lines such as
		// editable installs; the option skip only exempts the pin check.
		if strings.Contains(requirementLine, insecureGitSourceMarkerConstant) {
			manifestFindings = append(manifestFindings, dependencyFinding(relativePath, lineIndex+1, insecureSourceIssueTemplateConstant, requirementLine, insecureRecommendationConstant))
			continue
		}

		if strings.HasPrefix(requirementLine, requirementsOptionPrefixConstant) {
			continue
		}

		if !containsVersionSpecifier(requirementLine) {
			manifestFindings = append(manifestFindings, dependencyFinding(relativePath, lineIndex+1, unpinnedIssueTemplateConstant, requirementLine, unpinnedRecommendationConstant))
		}
	}

	return manifestFindings
}

// pyprojectManifest models the subset of pyproject.toml the analyzer consumes.
// Dependency entries stay untyped so string-only and table-form declarations
// both decode.
type pyprojectManifest struct {
	Project struct {
		Dependencies         []any            `toml:"dependencies"`
		OptionalDependencies map[string][]any `toml:"optional-dependencies"`
	} `toml:"project"`
}

// PyprojectParser analyzes PEP 621 project metadata with a structured TOML
// parser. Malformed manifests silently skip the analysis step for that file.
type PyprojectParser struct{}

// Recognizes claims pyproject.toml files.
func (PyprojectParser) Recognizes(relativePath string) bool {
	return strings.EqualFold(path.Base(relativePath), pyprojectFileNameConstant)
}

// Parse checks project.dependencies and every optional-dependency group for
// unpinned entries and plaintext VCS sources.
func (PyprojectParser) Parse(relativePath string, content string) []findings.Finding {
	var manifest pyprojectManifest
	if unmarshalError := toml.Unmarshal([]byte(content), &manifest); unmarshalError != nil {
		return nil
	}

	var manifestFindings []findings.Finding
	manifestFindings = append(manifestFindings, analyzeDependencyEntries(relativePath, manifest.Project.Dependencies)...)

	for groupName, groupEntries := range manifest.Project.OptionalDependencies {
		groupPath := relativePath + " " + fmt.Sprintf(optionalDependencyGroupTemplateConstant, groupName)
		manifestFindings = append(manifestFindings, analyzeDependencyEntries(groupPath, groupEntries)...)
	}

	return manifestFindings
}

func analyzeDependencyEntries(manifestLocation string, entries []any) []findings.Finding {
	var entryFindings []findings.Finding

	for _, rawEntry := range entries {
		switch entry := rawEntry.(type) {
		case string:
			requirement := strings.TrimSpace(entry)
			if len(requirement) == 0 {
				continue
			}
			if strings.Contains(requirement, insecureGitSourceMarkerConstant) {
				entryFindings = append(entryFindings, dependencyFinding(manifestLocation, 0, insecureSourceIssueTemplateConstant, requirement, insecureRecommendationConstant))
				continue
			}
			if !containsVersionSpecifier(requirement) {
				entryFindings = append(entryFindings, dependencyFinding(manifestLocation, 0, unpinnedIssueTemplateConstant, requirement, unpinnedRecommendationConstant))
			}
		case map[string]any:
			entryFindings = append(entryFindings, analyzeTableEntry(manifestLocation, entry)...)
		}
	}

	return entryFindings
}

func analyzeTableEntry(manifestLocation string, entry map[string]any) []findings.Finding {
	entryName := tableStringValue(entry, dependencyNameTableKeyConstant)
	if len(entryName) == 0 {
		entryName = fmt.Sprintf("%v", entry)
	}

	if gitSource := tableStringValue(entry, dependencyGitTableKeyConstant); strings.HasPrefix(gitSource, plaintextSchemePrefixConstant) {
		return []findings.Finding{dependencyFinding(manifestLocation, 0, insecureSourceIssueTemplateConstant, entryName, insecureRecommendationConstant)}
	}

	if version := tableStringValue(entry, dependencyVersionTableKeyConstant); len(version) == 0 {
		return []findings.Finding{dependencyFinding(manifestLocation, 0, unpinnedIssueTemplateConstant, entryName, unpinnedRecommendationConstant)}
	}

	return nil
}

func tableStringValue(entry map[string]any, key string) string {
	rawValue, present := entry[key]
	if !present {
		return ""
	}
	stringValue, isString := rawValue.(string)
	if !isString {
		return ""
	}
	return strings.TrimSpace(stringValue)
}

func containsVersionSpecifier(requirement string) bool {
	for _, specifierToken := range versionSpecifierTokens {
		if strings.Contains(requirement, specifierToken) {
			return true
		}
	}
	return false
}

func dependencyFinding(file string, line int, issueTemplate string, subject string, recommendation string) findings.Finding {
	return findings.Finding{
		File:           file,
		Line:           line,
		Issue:          fmt.Sprintf(issueTemplate, subject),
		Recommendation: recommendation,
		Category:       findings.CategorySecurity,
	}
}
