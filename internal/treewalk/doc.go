// Package treewalk performs the bounded repository traversal shared by all
// scanners. It owns the single directory skip-set, enforces the file-count
// ceiling, collects tree-level metrics, and caches file content so downstream
// scanners re-use already-read bytes instead of touching disk again.
package treewalk
