package efficiency_test

import (
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/temirov/repoaudit/internal/efficiency"
	"github.com/temirov/repoaudit/internal/treewalk"
)

func writeFixtureFile(testInstance *testing.T, rootPath string, relativePath string, content string) {
	testInstance.Helper()
	absolutePath := filepath.Join(rootPath, filepath.FromSlash(relativePath))
	require.NoError(testInstance, os.MkdirAll(filepath.Dir(absolutePath), 0o755))
	require.NoError(testInstance, os.WriteFile(absolutePath, []byte(content), 0o644))
}

func walkFixture(testInstance *testing.T, rootPath string) *treewalk.Inventory {
	testInstance.Helper()
	inventory, walkError := treewalk.NewWalker(0).Walk(rootPath)
	require.NoError(testInstance, walkError)
	return inventory
}

func TestScanWizardDuplication(testInstance *testing.T) {
	testCases := []struct {
		name             string
		wizardFiles      []string
		expectedActive   bool
		expectedVerified bool
	}{
		{
			name:        "single_wizard_passes",
			wizardFiles: []string{"setup_wizard.py"},
		},
		{
			name:           "same_flavor_duplication_flagged",
			wizardFiles:    []string{"wizard.py", "install_wizard.py"},
			expectedActive: true,
		},
		{
			name:             "gui_and_setup_pair_verified",
			wizardFiles:      []string{"gui_wizard.py", "setup_wizard.py"},
			expectedVerified: true,
		},
	}

	for _, testCase := range testCases {
		testInstance.Run(testCase.name, func(subtest *testing.T) {
			rootPath := subtest.TempDir()
			for _, wizardFile := range testCase.wizardFiles {
				writeFixtureFile(subtest, rootPath, wizardFile, "def run():\n    pass\n")
			}

			scanReport := efficiency.NewScanner(efficiency.DefaultLimits()).Scan(walkFixture(subtest, rootPath))

			activePresent := false
			for _, finding := range scanReport.Findings {
				if finding.Issue == "multiple wizard implementations present" {
					activePresent = true
				}
			}
			verifiedPresent := false
			for _, verified := range scanReport.VerifiedFalsePositives {
				if verified.Finding.Issue == "multiple wizard implementations present" {
					verifiedPresent = true
				}
			}

			require.Equal(subtest, testCase.expectedActive, activePresent)
			require.Equal(subtest, testCase.expectedVerified, verifiedPresent)
		})
	}
}

func TestScanDuplicateLaunchers(testInstance *testing.T) {
	rootPath := testInstance.TempDir()
	writeFixtureFile(testInstance, rootPath, "run.py", "print('run')\n")
	writeFixtureFile(testInstance, rootPath, "main.py", "print('main')\n")

	scanReport := efficiency.NewScanner(efficiency.DefaultLimits()).Scan(walkFixture(testInstance, rootPath))

	require.Equal(testInstance, 1, scanReport.Issues)
	require.Equal(testInstance, "duplicate launcher entry points at repository root", scanReport.Findings[0].Issue)
}

func TestScanNestedLauncherIsNotDuplicate(testInstance *testing.T) {
	rootPath := testInstance.TempDir()
	writeFixtureFile(testInstance, rootPath, "run.py", "print('run')\n")
	writeFixtureFile(testInstance, rootPath, "examples/main.py", "print('example')\n")

	scanReport := efficiency.NewScanner(efficiency.DefaultLimits()).Scan(walkFixture(testInstance, rootPath))

	require.Zero(testInstance, scanReport.Issues)
}

func TestScanOverlongFunction(testInstance *testing.T) {
	var contentBuilder strings.Builder
	contentBuilder.WriteString("def oversized():\n")
	for lineIndex := 0; lineIndex < 160; lineIndex++ {
		contentBuilder.WriteString("    value = 1\n")
	}
	contentBuilder.WriteString("def compact():\n    return 1\n")
	rootPath := testInstance.TempDir()
	writeFixtureFile(testInstance, rootPath, "worker.py", contentBuilder.String())

	scanReport := efficiency.NewScanner(efficiency.DefaultLimits()).Scan(walkFixture(testInstance, rootPath))

	require.Equal(testInstance, 1, scanReport.Issues)
	require.Contains(testInstance, scanReport.Findings[0].Issue, "oversized")
	require.Equal(testInstance, 1, scanReport.Findings[0].Line)
}

func TestScanHighComplexityFile(testInstance *testing.T) {
	testCases := []struct {
		name           string
		lineCount      int
		indentWidth    int
		expectedIssues int
	}{
		{name: "long_and_deeply_indented_flagged", lineCount: 520, indentWidth: 24, expectedIssues: 1},
		{name: "long_but_shallow_passes", lineCount: 520, indentWidth: 8, expectedIssues: 0},
		{name: "deep_but_short_passes", lineCount: 120, indentWidth: 24, expectedIssues: 0},
	}

	for _, testCase := range testCases {
		testInstance.Run(testCase.name, func(subtest *testing.T) {
			var contentBuilder strings.Builder
			for lineIndex := 0; lineIndex < testCase.lineCount; lineIndex++ {
				contentBuilder.WriteString("value = 1\n")
			}
			contentBuilder.WriteString(strings.Repeat(" ", testCase.indentWidth) + "deep = 1\n")

			rootPath := subtest.TempDir()
			writeFixtureFile(subtest, rootPath, "monolith.py", contentBuilder.String())

			scanReport := efficiency.NewScanner(efficiency.DefaultLimits()).Scan(walkFixture(subtest, rootPath))

			require.Equal(subtest, testCase.expectedIssues, scanReport.Issues)
			if testCase.expectedIssues > 0 {
				require.Contains(subtest, scanReport.Findings[0].Issue, "exceeds 500 lines")
			}
		})
	}
}

func TestScanPerformancePatterns(testInstance *testing.T) {
	testCases := []struct {
		name          string
		content       string
		expectedIssue string
	}{
		{
			name:          "query_inside_loop",
			content:       "for user in users:\n    record = database.query(user)\n",
			expectedIssue: "query call inside a loop body (possible N+1 access)",
		},
		{
			name:          "string_concatenation_inside_loop",
			content:       "for part in parts:\n    text += \"segment\"\n",
			expectedIssue: "string concatenation inside a loop",
		},
	}

	for _, testCase := range testCases {
		testInstance.Run(testCase.name, func(subtest *testing.T) {
			rootPath := subtest.TempDir()
			writeFixtureFile(subtest, rootPath, "pipeline.py", testCase.content)

			scanReport := efficiency.NewScanner(efficiency.DefaultLimits()).Scan(walkFixture(subtest, rootPath))

			issuePresent := false
			for _, finding := range scanReport.Findings {
				if finding.Issue == testCase.expectedIssue {
					issuePresent = true
				}
			}
			require.True(subtest, issuePresent)
		})
	}
}

func TestScanImportCycles(testInstance *testing.T) {
	rootPath := testInstance.TempDir()
	writeFixtureFile(testInstance, rootPath, "orders.py", "import billing\n\ndef place():\n    pass\n")
	writeFixtureFile(testInstance, rootPath, "billing.py", "import orders\n\ndef charge():\n    pass\n")
	writeFixtureFile(testInstance, rootPath, "shipping.py", "import orders\n")

	scanReport := efficiency.NewScanner(efficiency.DefaultLimits()).Scan(walkFixture(testInstance, rootPath))

	require.Equal(testInstance, 1, scanReport.Issues)
	require.Contains(testInstance, scanReport.Findings[0].Issue, "billing")
	require.Contains(testInstance, scanReport.Findings[0].Issue, "orders")
}

func TestScanRespectsFunctionFileCap(testInstance *testing.T) {
	var contentBuilder strings.Builder
	contentBuilder.WriteString("def oversized():\n")
	for lineIndex := 0; lineIndex < 160; lineIndex++ {
		contentBuilder.WriteString("    value = 1\n")
	}

	rootPath := testInstance.TempDir()
	writeFixtureFile(testInstance, rootPath, "a_first.py", "value = 1\n")
	writeFixtureFile(testInstance, rootPath, "z_last.py", contentBuilder.String())

	limits := efficiency.DefaultLimits()
	limits.MaxFunctionScanFiles = 1
	scanReport := efficiency.NewScanner(limits).Scan(walkFixture(testInstance, rootPath))

	require.Zero(testInstance, scanReport.Issues)
}
