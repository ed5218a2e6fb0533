package audit

import (
	"errors"
	"fmt"
	"strings"

	"github.com/spf13/cobra"
	"go.uber.org/zap"

	flagutils "github.com/temirov/repoaudit/internal/utils/flags"
	pathutils "github.com/temirov/repoaudit/internal/utils/path"
	"github.com/temirov/repoaudit/internal/report"
)

const (
	commandNameConstant             = "audit"
	commandShortDescriptionConstant = "Scan a repository tree for compliance and hygiene issues"
	commandLongDescriptionConstant  = "audit walks the repository tree, applies the security, efficiency, and minimalism scanners, and reports categorized, severity-ranked findings."

	flagBriefNameConstant         = "brief"
	flagBriefDescriptionConstant  = "Run the bounded brief audit and print the structured result"
	flagFormatNameConstant        = "format"
	flagFormatDefaultConstant     = formatTextConstant
	flagFormatDescriptionConstant = "Output format for brief results"

	formatTextConstant = "text"
	formatJSONConstant = "json"
	formatYAMLConstant = "yaml"

	defaultRootPathConstant             = "."
	unsupportedFormatTemplateConstant   = "unsupported output format: %s"
	tooManyRootArgumentsMessageConstant = "audit accepts at most one repository root"
)

// LoggerProvider supplies a zap logger for command execution.
type LoggerProvider func() *zap.Logger

// ConfigurationProvider supplies the effective audit configuration.
type ConfigurationProvider func() Configuration

// CommandBuilder assembles the audit cobra command with configurable
// dependencies.
type CommandBuilder struct {
	LoggerProvider        LoggerProvider
	ConfigurationProvider ConfigurationProvider
	AlertDispatcher       AlertDispatcher

	briefFlagValue  bool
	formatFlagValue string
}

// Build constructs the cobra command for repository audits.
func (builder *CommandBuilder) Build() (*cobra.Command, error) {
	command := &cobra.Command{
		Use:   commandNameConstant,
		Short: commandShortDescriptionConstant,
		Long:  commandLongDescriptionConstant,
		RunE:  builder.run,
	}

	flagutils.AddToggleFlag(command.Flags(), &builder.briefFlagValue, flagBriefNameConstant, "", false, flagBriefDescriptionConstant)
	formatUsage := flagutils.FormatChoiceUsage(flagFormatDefaultConstant, []string{formatTextConstant, formatJSONConstant, formatYAMLConstant}, flagFormatDescriptionConstant)
	command.Flags().StringVar(&builder.formatFlagValue, flagFormatNameConstant, flagFormatDefaultConstant, formatUsage)

	return command, nil
}

func (builder *CommandBuilder) run(command *cobra.Command, arguments []string) error {
	rootPath, rootError := resolveRootPath(arguments)
	if rootError != nil {
		return rootError
	}

	outputFormat := strings.ToLower(strings.TrimSpace(builder.formatFlagValue))
	switch outputFormat {
	case formatTextConstant, formatJSONConstant, formatYAMLConstant:
	default:
		return fmt.Errorf(unsupportedFormatTemplateConstant, builder.formatFlagValue)
	}

	service := NewService(
		builder.resolveConfiguration(),
		builder.AlertDispatcher,
		command.OutOrStdout(),
		builder.resolveLogger(),
	)

	if !builder.briefFlagValue {
		_, runError := service.RunFull(command.Context(), rootPath)
		return runError
	}

	briefResult, runError := service.RunBrief(command.Context(), rootPath)
	if runError != nil {
		return runError
	}

	switch outputFormat {
	case formatJSONConstant:
		return report.EncodeJSON(command.OutOrStdout(), briefResult)
	case formatYAMLConstant:
		return report.EncodeYAML(command.OutOrStdout(), briefResult)
	default:
		report.RenderText(command.OutOrStdout(), briefResult)
		return nil
	}
}

func resolveRootPath(arguments []string) (string, error) {
	sanitizedRoots := pathutils.NewRepositoryPathSanitizer().Sanitize(arguments)
	switch len(sanitizedRoots) {
	case 0:
		return defaultRootPathConstant, nil
	case 1:
		return sanitizedRoots[0], nil
	default:
		return "", errors.New(tooManyRootArgumentsMessageConstant)
	}
}

func (builder *CommandBuilder) resolveConfiguration() Configuration {
	if builder.ConfigurationProvider == nil {
		return DefaultConfiguration()
	}
	return builder.ConfigurationProvider()
}

func (builder *CommandBuilder) resolveLogger() *zap.Logger {
	if builder.LoggerProvider == nil {
		return zap.NewNop()
	}
	logger := builder.LoggerProvider()
	if logger == nil {
		return zap.NewNop()
	}
	return logger
}
