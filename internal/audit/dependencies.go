package audit

import "go.uber.org/zap"

const (
	alertDispatchedMessageConstant = "audit alert dispatched"
	alertTitleFieldConstant        = "title"
	alertSeverityFieldConstant     = "severity"
	alertMessageFieldConstant      = "message"
)

// AlertDispatcher forwards condensed audit summaries to an external alert
// collaborator. Implementations are best-effort; the controller swallows every
// failure raised here.
type AlertDispatcher interface {
	Dispatch(title string, message string, severity string) error
}

// LoggingAlertDispatcher is the default dispatcher: it emits the alert through
// the structured logger instead of an external channel.
type LoggingAlertDispatcher struct {
	logger *zap.Logger
}

// NewLoggingAlertDispatcher constructs a dispatcher backed by the provided
// logger.
func NewLoggingAlertDispatcher(logger *zap.Logger) LoggingAlertDispatcher {
	if logger == nil {
		logger = zap.NewNop()
	}
	return LoggingAlertDispatcher{logger: logger}
}

// Dispatch logs the alert at info level.
func (dispatcher LoggingAlertDispatcher) Dispatch(title string, message string, severity string) error {
	dispatcher.logger.Info(
		alertDispatchedMessageConstant,
		zap.String(alertTitleFieldConstant, title),
		zap.String(alertSeverityFieldConstant, severity),
		zap.String(alertMessageFieldConstant, message),
	)
	return nil
}

// ResolveAlertDispatcher returns the candidate dispatcher or the logging
// default when none is provided.
func ResolveAlertDispatcher(candidate AlertDispatcher, logger *zap.Logger) AlertDispatcher {
	if candidate != nil {
		return candidate
	}
	return NewLoggingAlertDispatcher(logger)
}
