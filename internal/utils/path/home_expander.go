// Package path provides filesystem path normalization helpers shared by
// command implementations.
package path

import (
	"os"
	"path/filepath"
	"strings"
	"sync"
)

const (
	homeShorthandLiteralConstant = "~"
	homePrefixLiteralConstant    = "~/"
)

// HomeDirectoryProvider resolves the current user's home directory.
type HomeDirectoryProvider func() (string, error)

// HomeExpander rewrites tilde-prefixed paths into absolute home-relative
// paths.
type HomeExpander struct {
	homeDirectoryProvider HomeDirectoryProvider
	resolveOnce           sync.Once
	resolvedHomeDirectory string
	resolutionSucceeded   bool
}

// NewHomeExpander constructs a HomeExpander backed by os.UserHomeDir.
func NewHomeExpander() *HomeExpander {
	return NewHomeExpanderWithProvider(os.UserHomeDir)
}

// NewHomeExpanderWithProvider constructs a HomeExpander using the supplied
// provider; nil providers fall back to os.UserHomeDir.
func NewHomeExpanderWithProvider(provider HomeDirectoryProvider) *HomeExpander {
	if provider == nil {
		provider = os.UserHomeDir
	}
	return &HomeExpander{homeDirectoryProvider: provider}
}

// Expand replaces a leading tilde with the resolved home directory. Paths
// without the prefix, and paths whose home directory cannot be resolved, are
// returned unchanged.
func (expander *HomeExpander) Expand(candidatePath string) string {
	trimmedPath := strings.TrimSpace(candidatePath)
	if trimmedPath != homeShorthandLiteralConstant && !strings.HasPrefix(trimmedPath, homePrefixLiteralConstant) {
		return candidatePath
	}

	expander.resolveOnce.Do(func() {
		homeDirectory, homeError := expander.homeDirectoryProvider()
		if homeError != nil || len(strings.TrimSpace(homeDirectory)) == 0 {
			return
		}
		expander.resolvedHomeDirectory = homeDirectory
		expander.resolutionSucceeded = true
	})

	if !expander.resolutionSucceeded {
		return candidatePath
	}

	if trimmedPath == homeShorthandLiteralConstant {
		return expander.resolvedHomeDirectory
	}
	return filepath.Join(expander.resolvedHomeDirectory, strings.TrimPrefix(trimmedPath, homePrefixLiteralConstant))
}
