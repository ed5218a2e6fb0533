// Package efficiency implements heuristic duplicate-implementation, long
// function, complexity, performance-antipattern, and shallow import-cycle
// checks over a walked repository tree.
package efficiency
