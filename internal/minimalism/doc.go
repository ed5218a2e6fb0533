// Package minimalism implements structural repository policy checks: installer
// sprawl, orphaned tests, duplicate entry points, redundant packaging
// manifests, incomplete src layouts, and stale legacy directories.
package minimalism
