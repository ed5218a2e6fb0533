package cli_test

import (
	"testing"

	mapstructure "github.com/go-viper/mapstructure/v2"
	"github.com/stretchr/testify/require"

	"github.com/temirov/repoaudit/cmd/cli"
)

func TestApplicationConfigurationDecodesFromSettingsMap(testInstance *testing.T) {
	settingsMap := map[string]any{
		"common": map[string]any{
			"log_level":  "debug",
			"log_format": "console",
		},
		"tools": map[string]any{
			"audit": map[string]any{
				"policy": map[string]any{
					"non_destructive":      true,
					"feature_preservation": false,
					"conflict_resolution":  "merge-prefer-existing",
				},
				"thresholds": map[string]any{
					"total_warning":     6,
					"total_critical":    12,
					"security_warning":  2,
					"security_critical": 4,
				},
				"full": map[string]any{
					"file_ceiling": 1500,
					"security": map[string]any{
						"max_secret_matches": 40,
					},
				},
			},
		},
	}

	var configuration cli.ApplicationConfiguration
	decoder, decoderError := mapstructure.NewDecoder(&mapstructure.DecoderConfig{Result: &configuration})
	require.NoError(testInstance, decoderError)
	require.NoError(testInstance, decoder.Decode(settingsMap))

	require.Equal(testInstance, "debug", configuration.Common.LogLevel)
	require.Equal(testInstance, "console", configuration.Common.LogFormat)

	auditConfiguration := configuration.Tools.Audit
	require.True(testInstance, auditConfiguration.Policy.NonDestructive)
	require.False(testInstance, auditConfiguration.Policy.FeaturePreservation)
	require.Equal(testInstance, "merge-prefer-existing", auditConfiguration.Policy.ConflictResolution)
	require.Equal(testInstance, 6, auditConfiguration.Thresholds.TotalWarning)
	require.Equal(testInstance, 12, auditConfiguration.Thresholds.TotalCritical)
	require.Equal(testInstance, 1500, auditConfiguration.Full.FileCeiling)
	require.Equal(testInstance, 40, auditConfiguration.Full.Security.MaxSecretMatches)
}
