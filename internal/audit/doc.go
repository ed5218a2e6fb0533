// Package audit coordinates the repository compliance scan: it walks the
// tree, drives the security, efficiency, and minimalism scanners, summarizes
// severity, renders the report, and forwards a condensed alert from a
// detached background task.
//
// It exposes CommandBuilder for wiring the audit Cobra command, Service for
// driving audits programmatically, and the AlertDispatcher collaborator
// abstraction.
package audit
