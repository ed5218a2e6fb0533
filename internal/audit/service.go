package audit

import (
	"context"
	"io"
	"path/filepath"

	"go.uber.org/zap"

	"github.com/temirov/repoaudit/internal/efficiency"
	"github.com/temirov/repoaudit/internal/minimalism"
	"github.com/temirov/repoaudit/internal/report"
	"github.com/temirov/repoaudit/internal/security"
	"github.com/temirov/repoaudit/internal/treewalk"
)

const (
	auditStartedMessageConstant     = "repository audit started"
	auditCompletedMessageConstant   = "repository audit completed"
	backgroundAlertFailedMessage    = "background alert skipped"
	logFieldRootPathConstant        = "root_path"
	logFieldDetailLevelConstant     = "detail_level"
	logFieldTotalIssuesConstant     = "total_issues"
	logFieldSeverityConstant        = "severity"
	nonDestructiveStyleNoteConstant = "audit is read-only; no repository files were modified"
	featurePreservationStyleNote    = "existing features are reported against, never removed"
)

// Service runs repository audits. Each invocation re-derives everything from
// the live filesystem; no state survives between runs.
type Service struct {
	configuration   Configuration
	alertDispatcher AlertDispatcher
	outputWriter    io.Writer
	logger          *zap.Logger
}

// NewService constructs a Service using the provided dependencies. A nil
// logger degrades to a no-op logger and a nil dispatcher to the logging
// default.
func NewService(configuration Configuration, alertDispatcher AlertDispatcher, outputWriter io.Writer, logger *zap.Logger) *Service {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &Service{
		configuration:   configuration.Sanitize(),
		alertDispatcher: ResolveAlertDispatcher(alertDispatcher, logger),
		outputWriter:    outputWriter,
		logger:          logger,
	}
}

// RunFull performs an interactive audit: it prints the complete report to the
// output writer and then launches a detached background task that re-runs the
// audit briefly and forwards its summary to the alert dispatcher. The
// background task is never awaited and cannot fail the caller.
func (service *Service) RunFull(executionContext context.Context, rootPath string) (report.AuditResult, error) {
	result, auditError := service.runAudit(executionContext, rootPath, report.DetailLevelFull)
	if auditError != nil {
		return report.AuditResult{}, auditError
	}

	if service.outputWriter != nil {
		report.RenderText(service.outputWriter, result)
	}

	go service.sendBriefAlert(rootPath)

	return result, nil
}

// RunBrief performs a bounded audit and returns the structured result with no
// output side effect.
func (service *Service) RunBrief(executionContext context.Context, rootPath string) (report.AuditResult, error) {
	return service.runAudit(executionContext, rootPath, report.DetailLevelBrief)
}

// runAudit is the single implementation behind both entry points; the detail
// level only changes the scan bounds handed to each scanner.
func (service *Service) runAudit(executionContext context.Context, rootPath string, detailLevel report.DetailLevel) (report.AuditResult, error) {
	if contextError := executionContext.Err(); contextError != nil {
		return report.AuditResult{}, contextError
	}

	bounds := service.configuration.Full
	if detailLevel == report.DetailLevelBrief {
		bounds = service.configuration.Brief
	}

	service.logger.Debug(
		auditStartedMessageConstant,
		zap.String(logFieldRootPathConstant, rootPath),
		zap.String(logFieldDetailLevelConstant, string(detailLevel)),
	)

	walker := treewalk.NewWalker(bounds.FileCeiling)
	inventory, walkError := walker.Walk(rootPath)
	if walkError != nil {
		return report.AuditResult{}, walkError
	}

	securityReport := security.NewScanner(bounds.Security).Scan(inventory)
	efficiencyReport := efficiency.NewScanner(bounds.Efficiency).Scan(inventory)
	minimalismReport := minimalism.NewScanner().Scan(inventory)

	policy := service.configuration.Policy
	stylePreserved := policy.NonDestructive && policy.FeaturePreservation
	summary := report.Summarize(
		securityReport.Issues,
		efficiencyReport.Issues,
		minimalismReport.Issues,
		stylePreserved,
		service.configuration.Thresholds,
	)

	result := report.AuditResult{
		RepositoryName: repositoryName(rootPath),
		RootPath:       rootPath,
		DetailLevel:    detailLevel,
		Policy:         policy,
		Metrics:        inventory.Metrics,
		Security:       securityReport,
		Efficiency:     efficiencyReport,
		Minimalism:     minimalismReport,
		StyleNotes:     styleNotes(policy),
		Summary:        summary,
	}

	service.logger.Info(
		auditCompletedMessageConstant,
		zap.String(logFieldRootPathConstant, rootPath),
		zap.String(logFieldDetailLevelConstant, string(detailLevel)),
		zap.Int(logFieldTotalIssuesConstant, result.Summary.TotalIssues),
		zap.String(logFieldSeverityConstant, string(result.Summary.Severity)),
	)

	return result, nil
}

// sendBriefAlert runs the brief audit and forwards its summary. Alerting must
// never crash the host process: errors are discarded and panics recovered.
func (service *Service) sendBriefAlert(rootPath string) {
	defer func() {
		if recovered := recover(); recovered != nil {
			service.logger.Debug(backgroundAlertFailedMessage)
		}
	}()

	briefResult, auditError := service.runAudit(context.Background(), rootPath, report.DetailLevelBrief)
	if auditError != nil {
		return
	}

	_ = service.alertDispatcher.Dispatch(
		report.AlertTitle(briefResult),
		report.AlertMessage(briefResult),
		string(briefResult.Summary.Severity),
	)
}

func repositoryName(rootPath string) string {
	absolutePath, absoluteError := filepath.Abs(rootPath)
	if absoluteError != nil {
		absolutePath = rootPath
	}
	return filepath.Base(absolutePath)
}

func styleNotes(policy report.Policy) []string {
	var notes []string
	if policy.NonDestructive {
		notes = append(notes, nonDestructiveStyleNoteConstant)
	}
	if policy.FeaturePreservation {
		notes = append(notes, featurePreservationStyleNote)
	}
	return notes
}
