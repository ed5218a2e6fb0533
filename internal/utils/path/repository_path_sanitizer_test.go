package path_test

import (
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/require"

	pathutils "github.com/temirov/repoaudit/internal/utils/path"
)

func TestHomeExpanderExpandsTildePaths(testInstance *testing.T) {
	expander := pathutils.NewHomeExpanderWithProvider(func() (string, error) {
		return "/home/auditor", nil
	})

	require.Equal(testInstance, "/home/auditor", expander.Expand("~"))
	require.Equal(testInstance, filepath.Join("/home/auditor", "projects/demo"), expander.Expand("~/projects/demo"))
	require.Equal(testInstance, "/var/data", expander.Expand("/var/data"))
}

func TestSanitizeNormalizesCandidates(testInstance *testing.T) {
	testCases := []struct {
		name           string
		candidatePaths []string
		configuration  pathutils.RepositoryPathSanitizerConfiguration
		expectedPaths  []string
	}{
		{
			name:           "empty_input",
			candidatePaths: nil,
			expectedPaths:  nil,
		},
		{
			name:           "blank_entries_dropped",
			candidatePaths: []string{"  ", ""},
			expectedPaths:  nil,
		},
		{
			name:           "paths_cleaned_and_deduplicated",
			candidatePaths: []string{"/workspace/demo/", "/workspace//demo", "/workspace/other"},
			expectedPaths:  []string{"/workspace/demo", "/workspace/other"},
		},
		{
			name:           "boolean_literals_excluded_when_configured",
			candidatePaths: []string{"true", "/workspace/demo"},
			configuration:  pathutils.RepositoryPathSanitizerConfiguration{ExcludeBooleanLiteralCandidates: true},
			expectedPaths:  []string{"/workspace/demo"},
		},
		{
			name:           "nested_paths_pruned_when_configured",
			candidatePaths: []string{"/workspace/demo", "/workspace/demo/internal", "/workspace/other"},
			configuration:  pathutils.RepositoryPathSanitizerConfiguration{PruneNestedPaths: true},
			expectedPaths:  []string{"/workspace/demo", "/workspace/other"},
		},
	}

	for _, testCase := range testCases {
		testInstance.Run(testCase.name, func(subtest *testing.T) {
			sanitizer := pathutils.NewRepositoryPathSanitizerWithConfiguration(nil, testCase.configuration)
			require.Equal(subtest, testCase.expectedPaths, sanitizer.Sanitize(testCase.candidatePaths))
		})
	}
}
