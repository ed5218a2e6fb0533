package audit_test

import (
	"bytes"
	"context"
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/require"
	"go.uber.org/zap"

	"github.com/temirov/repoaudit/internal/audit"
	"github.com/temirov/repoaudit/internal/report"
)

type recordingAlertDispatcher struct {
	dispatchedAlerts chan dispatchedAlert
}

type dispatchedAlert struct {
	title    string
	message  string
	severity string
}

func newRecordingAlertDispatcher() *recordingAlertDispatcher {
	return &recordingAlertDispatcher{dispatchedAlerts: make(chan dispatchedAlert, 1)}
}

func (dispatcher *recordingAlertDispatcher) Dispatch(title string, message string, severity string) error {
	dispatcher.dispatchedAlerts <- dispatchedAlert{title: title, message: message, severity: severity}
	return nil
}

func writeFixtureFile(testInstance *testing.T, rootPath string, relativePath string, content string) {
	testInstance.Helper()
	absolutePath := filepath.Join(rootPath, filepath.FromSlash(relativePath))
	require.NoError(testInstance, os.MkdirAll(filepath.Dir(absolutePath), 0o755))
	require.NoError(testInstance, os.WriteFile(absolutePath, []byte(content), 0o644))
}

func buildRepositoryFixture(testInstance *testing.T) string {
	rootPath := testInstance.TempDir()
	writeFixtureFile(testInstance, rootPath, "app.py", "password = \"prodvalue1\"\nos.system(\"task\")\n")
	writeFixtureFile(testInstance, rootPath, "README.md", "Example:\n\npassword = \"example12345\"\n")
	writeFixtureFile(testInstance, rootPath, "requirements.txt", "requests==2.31.0\nflask\n")
	return rootPath
}

func TestRunBriefProducesBoundedResult(testInstance *testing.T) {
	rootPath := buildRepositoryFixture(testInstance)
	service := audit.NewService(audit.DefaultConfiguration(), newRecordingAlertDispatcher(), nil, zap.NewNop())

	result, runError := service.RunBrief(context.Background(), rootPath)
	require.NoError(testInstance, runError)

	require.Equal(testInstance, report.DetailLevelBrief, result.DetailLevel)
	require.Equal(testInstance, filepath.Base(rootPath), result.RepositoryName)
	require.Equal(testInstance, 3, result.Metrics.TotalFiles)
	require.Equal(testInstance, 3, result.Security.Issues)
	require.Len(testInstance, result.Security.VerifiedFalsePositives, 1)
	require.Equal(testInstance, result.Security.Issues+result.Efficiency.Issues+result.Minimalism.Issues, result.Summary.TotalIssues)
}

func TestRunFullRendersAndDispatchesBackgroundAlert(testInstance *testing.T) {
	rootPath := buildRepositoryFixture(testInstance)
	dispatcher := newRecordingAlertDispatcher()
	var outputBuffer bytes.Buffer
	service := audit.NewService(audit.DefaultConfiguration(), dispatcher, &outputBuffer, zap.NewNop())

	result, runError := service.RunFull(context.Background(), rootPath)
	require.NoError(testInstance, runError)
	require.Equal(testInstance, report.DetailLevelFull, result.DetailLevel)

	renderedOutput := outputBuffer.String()
	require.Contains(testInstance, renderedOutput, "Repository audit: "+filepath.Base(rootPath))
	require.Contains(testInstance, renderedOutput, "== Security")

	select {
	case alert := <-dispatcher.dispatchedAlerts:
		require.Contains(testInstance, alert.title, filepath.Base(rootPath))
		require.Contains(testInstance, alert.message, "Detail: brief")
		require.NotEmpty(testInstance, alert.severity)
	case <-time.After(5 * time.Second):
		testInstance.Fatal("background alert was not dispatched")
	}
}

func TestRunAuditPartitionsSecretMatches(testInstance *testing.T) {
	rootPath := buildRepositoryFixture(testInstance)
	service := audit.NewService(audit.DefaultConfiguration(), newRecordingAlertDispatcher(), nil, zap.NewNop())

	result, runError := service.RunBrief(context.Background(), rootPath)
	require.NoError(testInstance, runError)

	// One active secret (app.py) and one verified false positive (README.md):
	// every match lands in exactly one list.
	require.Len(testInstance, result.Security.SecretFindings, 1)
	require.Len(testInstance, result.Security.VerifiedFalsePositives, 1)
	require.Equal(testInstance, "app.py", result.Security.SecretFindings[0].File)
	require.Equal(testInstance, "README.md", result.Security.VerifiedFalsePositives[0].Finding.File)
}

func TestRunBriefIsRepeatable(testInstance *testing.T) {
	rootPath := buildRepositoryFixture(testInstance)
	service := audit.NewService(audit.DefaultConfiguration(), newRecordingAlertDispatcher(), nil, zap.NewNop())

	firstResult, firstError := service.RunBrief(context.Background(), rootPath)
	require.NoError(testInstance, firstError)
	secondResult, secondError := service.RunBrief(context.Background(), rootPath)
	require.NoError(testInstance, secondError)

	require.Equal(testInstance, firstResult, secondResult)
}

func TestRunBriefHonorsCancelledContext(testInstance *testing.T) {
	rootPath := buildRepositoryFixture(testInstance)
	service := audit.NewService(audit.DefaultConfiguration(), newRecordingAlertDispatcher(), nil, zap.NewNop())

	cancelledContext, cancelFunction := context.WithCancel(context.Background())
	cancelFunction()

	_, runError := service.RunBrief(cancelledContext, rootPath)
	require.ErrorIs(testInstance, runError, context.Canceled)
}

func TestRunBriefMissingRootFails(testInstance *testing.T) {
	service := audit.NewService(audit.DefaultConfiguration(), newRecordingAlertDispatcher(), nil, zap.NewNop())

	_, runError := service.RunBrief(context.Background(), filepath.Join(testInstance.TempDir(), "absent"))
	require.Error(testInstance, runError)
}

func TestStyleNotesFollowPolicy(testInstance *testing.T) {
	rootPath := testInstance.TempDir()
	writeFixtureFile(testInstance, rootPath, "app.py", "value = 1\n")

	configuration := audit.DefaultConfiguration()
	configuration.Policy.FeaturePreservation = false
	service := audit.NewService(configuration, newRecordingAlertDispatcher(), nil, zap.NewNop())

	result, runError := service.RunBrief(context.Background(), rootPath)
	require.NoError(testInstance, runError)

	require.Len(testInstance, result.StyleNotes, 1)
	require.False(testInstance, result.Summary.StylePreserved)
}
