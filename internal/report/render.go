package report

import (
	"fmt"
	"io"

	"github.com/temirov/repoaudit/internal/findings"
)

const (
	reportHeaderTemplateConstant        = "Repository audit: %s (%s)\n"
	reportDetailTemplateConstant        = "Detail level: %s\n"
	reportMetricsTemplateConstant       = "Files scanned: %d (%d python)%s\n"
	reportScanLimitedSuffixConstant     = " [scan limited]"
	reportOversizedTemplateConstant     = "Oversized files: %v\n"
	reportUnsafeTemplateConstant        = "Unsafe extension files: %v\n"
	reportSectionTemplateConstant       = "\n== %s (%d issues) ==\n"
	reportFindingTemplateConstant       = "  %s: %s\n"
	reportFindingLineTemplateConstant   = "  %s:%d: %s\n"
	reportVerifiedHeaderConstant        = "  -- verified false positives --\n"
	reportVerifiedTemplateConstant      = "  %s: %s (%s)\n"
	reportSummaryTemplateConstant       = "\nTotal issues: %d  severity: %s  style preserved: %t\n"
	reportSectionSecurityTitleConstant  = "Security"
	reportSectionEfficiencyTitle        = "Efficiency"
	reportSectionMinimalismTitle        = "Minimalism"
	reportStyleNoteTemplateConstant     = "Note: %s\n"
)

// RenderText writes the section-per-category human-readable report. Verified
// false positives appear in a clearly separated block under their section.
func RenderText(writer io.Writer, result AuditResult) {
	fmt.Fprintf(writer, reportHeaderTemplateConstant, result.RepositoryName, result.RootPath)
	fmt.Fprintf(writer, reportDetailTemplateConstant, result.DetailLevel)

	scanLimitedSuffix := ""
	if result.Metrics.ScanLimited {
		scanLimitedSuffix = reportScanLimitedSuffixConstant
	}
	fmt.Fprintf(writer, reportMetricsTemplateConstant, result.Metrics.TotalFiles, result.Metrics.PythonFiles, scanLimitedSuffix)
	if len(result.Metrics.OversizedFiles) > 0 {
		fmt.Fprintf(writer, reportOversizedTemplateConstant, result.Metrics.OversizedFiles)
	}
	if len(result.Metrics.UnsafeExtensionFiles) > 0 {
		fmt.Fprintf(writer, reportUnsafeTemplateConstant, result.Metrics.UnsafeExtensionFiles)
	}

	securityFindings := append(append([]findings.Finding{}, result.Security.SecretFindings...), result.Security.AttackSurfaceFindings...)
	securityFindings = append(securityFindings, result.Security.DependencyAlerts...)
	renderSection(writer, reportSectionSecurityTitleConstant, result.Security.Issues, securityFindings, result.Security.VerifiedFalsePositives)
	renderSection(writer, reportSectionEfficiencyTitle, result.Efficiency.Issues, result.Efficiency.Findings, result.Efficiency.VerifiedFalsePositives)
	renderSection(writer, reportSectionMinimalismTitle, result.Minimalism.Issues, result.Minimalism.Findings, result.Minimalism.VerifiedFalsePositives)

	for _, styleNote := range result.StyleNotes {
		fmt.Fprintf(writer, reportStyleNoteTemplateConstant, styleNote)
	}

	fmt.Fprintf(writer, reportSummaryTemplateConstant, result.Summary.TotalIssues, result.Summary.Severity, result.Summary.StylePreserved)
}

func renderSection(writer io.Writer, sectionTitle string, issueCount int, activeFindings []findings.Finding, verifiedFalsePositives []findings.VerifiedFalsePositive) {
	fmt.Fprintf(writer, reportSectionTemplateConstant, sectionTitle, issueCount)

	for _, finding := range activeFindings {
		if finding.Line > 0 {
			fmt.Fprintf(writer, reportFindingLineTemplateConstant, finding.File, finding.Line, finding.Issue)
			continue
		}
		fmt.Fprintf(writer, reportFindingTemplateConstant, finding.File, finding.Issue)
	}

	if len(verifiedFalsePositives) == 0 {
		return
	}
	fmt.Fprint(writer, reportVerifiedHeaderConstant)
	for _, verified := range verifiedFalsePositives {
		fmt.Fprintf(writer, reportVerifiedTemplateConstant, verified.Finding.File, verified.Finding.Issue, verified.Reason)
	}
}
