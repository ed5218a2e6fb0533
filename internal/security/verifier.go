package security

import (
	"path"
	"strings"
)

const (
	documentationContextReasonConstant = "documentation context: match sits alongside example or placeholder markers"
	wizardPlaceholderReasonConstant    = "GUI placeholder context: match belongs to wizard widget construction"

	wizardContextWindowSizeConstant = 1000

	guiWizardPathFragmentConstant   = "gui_wizard"
	setupWizardPathFragmentConstant = "setup_wizard"
)

// documentationFileNames is the fixed set of documentation files eligible for
// the documentation-context suppression rule.
var documentationFileNames = map[string]struct{}{
	"readme.md":       {},
	"changelog.md":    {},
	"contributing.md": {},
	"security.md":     {},
	"usage.md":        {},
}

// documentationContextIndicators mark content that discusses credentials
// rather than containing them.
var documentationContextIndicators = []string{
	"example",
	"placeholder",
	"```",
	"sample",
	"your-",
	"dummy",
}

// wizardPlaceholderIndicators mark GUI widget construction and input
// validation code around a match inside wizard modules.
var wizardPlaceholderIndicators = []string{
	"entry(",
	"show=\"*\"",
	"show='*'",
	"placeholder",
	"validate",
	"ttk.",
	"stringvar",
}

// verifySecretMatch applies the two contextual suppression rules to one secret
// pattern hit. It returns the re-labeling reason and true when the hit is a
// verified false positive. Matches are only ever re-labeled, never dropped.
func verifySecretMatch(relativePath string, content string, matchOffset int) (string, bool) {
	if matchesDocumentationRule(relativePath, content) {
		return documentationContextReasonConstant, true
	}
	if matchesWizardRule(relativePath, content, matchOffset) {
		return wizardPlaceholderReasonConstant, true
	}
	return "", false
}

// matchesDocumentationRule reports whether the file is a known documentation
// file whose content carries documentation-context indicators.
func matchesDocumentationRule(relativePath string, content string) bool {
	fileName := strings.ToLower(path.Base(relativePath))
	if _, documentationFile := documentationFileNames[fileName]; !documentationFile {
		return false
	}

	loweredContent := strings.ToLower(content)
	for _, indicator := range documentationContextIndicators {
		if strings.Contains(loweredContent, indicator) {
			return true
		}
	}
	return false
}

// matchesWizardRule reports whether the match sits inside a wizard module and
// a bounded window around it contains GUI placeholder indicators.
func matchesWizardRule(relativePath string, content string, matchOffset int) bool {
	loweredPath := strings.ToLower(relativePath)
	if !strings.Contains(loweredPath, guiWizardPathFragmentConstant) && !strings.Contains(loweredPath, setupWizardPathFragmentConstant) {
		return false
	}

	windowStart := matchOffset - wizardContextWindowSizeConstant
	if windowStart < 0 {
		windowStart = 0
	}
	windowEnd := matchOffset + wizardContextWindowSizeConstant
	if windowEnd > len(content) {
		windowEnd = len(content)
	}

	loweredWindow := strings.ToLower(content[windowStart:windowEnd])
	for _, indicator := range wizardPlaceholderIndicators {
		if strings.Contains(loweredWindow, indicator) {
			return true
		}
	}
	return false
}
