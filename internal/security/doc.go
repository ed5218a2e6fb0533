// Package security implements the security scanner: a secret-pattern matcher
// with contextual false-positive verification, an attack-surface matcher over
// Python sources, and a dependency-hygiene analyzer covering requirements files
// and pyproject manifests.
package security
