package path

import (
	"path/filepath"
	"strings"
)

var booleanLiteralCandidates = map[string]struct{}{
	"true":  {},
	"false": {},
	"yes":   {},
	"no":    {},
}

// RepositoryPathSanitizerConfiguration adjusts sanitizer behavior.
type RepositoryPathSanitizerConfiguration struct {
	ExcludeBooleanLiteralCandidates bool
	PruneNestedPaths                bool
}

// RepositoryPathSanitizer normalizes raw repository path arguments into a
// deduplicated, cleaned list.
type RepositoryPathSanitizer struct {
	homeExpander  *HomeExpander
	configuration RepositoryPathSanitizerConfiguration
}

// NewRepositoryPathSanitizer constructs a sanitizer with default behavior.
func NewRepositoryPathSanitizer() *RepositoryPathSanitizer {
	return NewRepositoryPathSanitizerWithConfiguration(nil, RepositoryPathSanitizerConfiguration{})
}

// NewRepositoryPathSanitizerWithConfiguration constructs a sanitizer with the
// provided home expander and configuration; nil expanders use the default.
func NewRepositoryPathSanitizerWithConfiguration(expander *HomeExpander, configuration RepositoryPathSanitizerConfiguration) *RepositoryPathSanitizer {
	if expander == nil {
		expander = NewHomeExpander()
	}
	return &RepositoryPathSanitizer{homeExpander: expander, configuration: configuration}
}

// Sanitize trims, expands, cleans, and deduplicates the provided candidate
// paths while preserving their original order.
func (sanitizer *RepositoryPathSanitizer) Sanitize(candidatePaths []string) []string {
	if len(candidatePaths) == 0 {
		return nil
	}

	sanitizedPaths := make([]string, 0, len(candidatePaths))
	seenPaths := make(map[string]struct{}, len(candidatePaths))

	for _, candidatePath := range candidatePaths {
		trimmedPath := strings.TrimSpace(candidatePath)
		if len(trimmedPath) == 0 {
			continue
		}
		if sanitizer.configuration.ExcludeBooleanLiteralCandidates {
			if _, isBooleanLiteral := booleanLiteralCandidates[strings.ToLower(trimmedPath)]; isBooleanLiteral {
				continue
			}
		}

		cleanedPath := filepath.Clean(sanitizer.homeExpander.Expand(trimmedPath))
		if _, alreadySeen := seenPaths[cleanedPath]; alreadySeen {
			continue
		}
		seenPaths[cleanedPath] = struct{}{}
		sanitizedPaths = append(sanitizedPaths, cleanedPath)
	}

	if sanitizer.configuration.PruneNestedPaths {
		sanitizedPaths = pruneNestedPaths(sanitizedPaths)
	}

	if len(sanitizedPaths) == 0 {
		return nil
	}
	return sanitizedPaths
}

func pruneNestedPaths(candidatePaths []string) []string {
	prunedPaths := make([]string, 0, len(candidatePaths))
	for _, candidatePath := range candidatePaths {
		nested := false
		for _, otherPath := range candidatePaths {
			if otherPath == candidatePath {
				continue
			}
			if isNestedPath(otherPath, candidatePath) {
				nested = true
				break
			}
		}
		if !nested {
			prunedPaths = append(prunedPaths, candidatePath)
		}
	}
	return prunedPaths
}

func isNestedPath(parentPath string, childPath string) bool {
	relativePath, relativeError := filepath.Rel(parentPath, childPath)
	if relativeError != nil {
		return false
	}
	if relativePath == "." {
		return false
	}
	return relativePath != ".." && !strings.HasPrefix(relativePath, ".."+string(filepath.Separator))
}
