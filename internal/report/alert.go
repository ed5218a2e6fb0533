package report

import "fmt"

const (
	alertTitleTemplateConstant   = "Repository audit: %s"
	alertMessageTemplateConstant = "Repo: %s\nIssues: %d (security: %d, efficiency: %d, minimalism: %d)\nDetail: %s"
)

// AlertTitle builds the alert title for a completed audit.
func AlertTitle(result AuditResult) string {
	return fmt.Sprintf(alertTitleTemplateConstant, result.RepositoryName)
}

// AlertMessage compresses an audit result into the one-paragraph alert body.
func AlertMessage(result AuditResult) string {
	return fmt.Sprintf(
		alertMessageTemplateConstant,
		result.RepositoryName,
		result.Summary.TotalIssues,
		result.Security.Issues,
		result.Efficiency.Issues,
		result.Minimalism.Issues,
		result.DetailLevel,
	)
}
