package treewalk_test

import (
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/temirov/repoaudit/internal/treewalk"
)

func writeFixtureFile(testInstance *testing.T, rootPath string, relativePath string, content string) {
	testInstance.Helper()
	absolutePath := filepath.Join(rootPath, filepath.FromSlash(relativePath))
	require.NoError(testInstance, os.MkdirAll(filepath.Dir(absolutePath), 0o755))
	require.NoError(testInstance, os.WriteFile(absolutePath, []byte(content), 0o644))
}

func TestWalkCollectsMetrics(testInstance *testing.T) {
	rootPath := testInstance.TempDir()
	writeFixtureFile(testInstance, rootPath, "main.py", "print('hello')\n")
	writeFixtureFile(testInstance, rootPath, "docs/README.md", "# docs\n")
	writeFixtureFile(testInstance, rootPath, "certs/server.pem", "-----BEGIN CERTIFICATE-----\n")
	writeFixtureFile(testInstance, rootPath, "pkg/util.py", "value = 1\n")

	inventory, walkError := treewalk.NewWalker(0).Walk(rootPath)
	require.NoError(testInstance, walkError)

	require.Equal(testInstance, 4, inventory.Metrics.TotalFiles)
	require.Equal(testInstance, 2, inventory.Metrics.PythonFiles)
	require.Equal(testInstance, []string{"certs/server.pem"}, inventory.Metrics.UnsafeExtensionFiles)
	require.False(testInstance, inventory.Metrics.ScanLimited)
	require.Len(testInstance, inventory.PythonFiles(), 2)
}

func TestWalkSkipsSharedDirectorySet(testInstance *testing.T) {
	rootPath := testInstance.TempDir()
	writeFixtureFile(testInstance, rootPath, "app.py", "value = 1\n")
	writeFixtureFile(testInstance, rootPath, ".git/config", "[core]\n")
	writeFixtureFile(testInstance, rootPath, "__pycache__/app.cpython-311.pyc", "binary")
	writeFixtureFile(testInstance, rootPath, "node_modules/pkg/index.js", "module.exports = {}\n")
	writeFixtureFile(testInstance, rootPath, ".venv/bin/activate", "#!/bin/sh\n")
	writeFixtureFile(testInstance, rootPath, "pkg.egg-info/PKG-INFO", "Name: pkg\n")

	inventory, walkError := treewalk.NewWalker(0).Walk(rootPath)
	require.NoError(testInstance, walkError)

	require.Equal(testInstance, 1, inventory.Metrics.TotalFiles)
	require.Equal(testInstance, "app.py", inventory.Files[0].RelativePath)
}

func TestWalkRecordsOversizedFiles(testInstance *testing.T) {
	rootPath := testInstance.TempDir()
	oversizedContent := strings.Repeat("a", 5*1024*1024+1)
	writeFixtureFile(testInstance, rootPath, "data/archive.bin", oversizedContent)
	writeFixtureFile(testInstance, rootPath, "app.py", "value = 1\n")

	inventory, walkError := treewalk.NewWalker(0).Walk(rootPath)
	require.NoError(testInstance, walkError)

	require.Equal(testInstance, []string{"data/archive.bin"}, inventory.Metrics.OversizedFiles)
}

func TestWalkFileCeilingMarksScanLimited(testInstance *testing.T) {
	rootPath := testInstance.TempDir()
	writeFixtureFile(testInstance, rootPath, "a.py", "a = 1\n")
	writeFixtureFile(testInstance, rootPath, "b.py", "b = 2\n")
	writeFixtureFile(testInstance, rootPath, "c.py", "c = 3\n")

	inventory, walkError := treewalk.NewWalker(2).Walk(rootPath)
	require.NoError(testInstance, walkError)

	require.Equal(testInstance, 2, inventory.Metrics.TotalFiles)
	require.True(testInstance, inventory.Metrics.ScanLimited)
}

func TestWalkOrdersFilesByRelativePath(testInstance *testing.T) {
	rootPath := testInstance.TempDir()
	writeFixtureFile(testInstance, rootPath, "zeta.py", "z = 1\n")
	writeFixtureFile(testInstance, rootPath, "alpha.py", "a = 1\n")
	writeFixtureFile(testInstance, rootPath, "nested/beta.py", "b = 1\n")

	inventory, walkError := treewalk.NewWalker(0).Walk(rootPath)
	require.NoError(testInstance, walkError)

	var relativePaths []string
	for _, record := range inventory.Files {
		relativePaths = append(relativePaths, record.RelativePath)
	}
	require.Equal(testInstance, []string{"alpha.py", "nested/beta.py", "zeta.py"}, relativePaths)
}

func TestShouldSkipDirectory(testInstance *testing.T) {
	testCases := []struct {
		name          string
		directoryName string
		expectedSkip  bool
	}{
		{name: "git_metadata", directoryName: ".git", expectedSkip: true},
		{name: "pycache", directoryName: "__pycache__", expectedSkip: true},
		{name: "egg_info_suffix", directoryName: "mypackage.egg-info", expectedSkip: true},
		{name: "regular_source_directory", directoryName: "src", expectedSkip: false},
		{name: "legacy_directory_is_walked", directoryName: "legacy_archive", expectedSkip: false},
	}

	for _, testCase := range testCases {
		testInstance.Run(testCase.name, func(subtest *testing.T) {
			require.Equal(subtest, testCase.expectedSkip, treewalk.ShouldSkipDirectory(testCase.directoryName))
		})
	}
}

func TestIsLegacyDirectory(testInstance *testing.T) {
	require.True(testInstance, treewalk.IsLegacyDirectory("legacy_archive"))
	require.True(testInstance, treewalk.IsLegacyDirectory("deprecated"))
	require.True(testInstance, treewalk.IsLegacyDirectory("_quarantine"))
	require.False(testInstance, treewalk.IsLegacyDirectory("archive"))
}

func TestContentLoaderMemoizesReads(testInstance *testing.T) {
	rootPath := testInstance.TempDir()
	filePath := filepath.Join(rootPath, "config.ini")
	require.NoError(testInstance, os.WriteFile(filePath, []byte("key = value\n"), 0o644))

	loader := treewalk.NewContentLoader()
	firstContent, firstLoaded := loader.Load(filePath)
	require.True(testInstance, firstLoaded)
	require.Equal(testInstance, "key = value\n", firstContent)

	// The cached copy survives deletion of the underlying file.
	require.NoError(testInstance, os.Remove(filePath))
	secondContent, secondLoaded := loader.Load(filePath)
	require.True(testInstance, secondLoaded)
	require.Equal(testInstance, firstContent, secondContent)
}

func TestContentLoaderRejectsBinaryAndMissingFiles(testInstance *testing.T) {
	rootPath := testInstance.TempDir()
	binaryPath := filepath.Join(rootPath, "blob.txt")
	require.NoError(testInstance, os.WriteFile(binaryPath, []byte{0x00, 0x01, 0x02}, 0o644))

	loader := treewalk.NewContentLoader()
	_, binaryLoaded := loader.Load(binaryPath)
	require.False(testInstance, binaryLoaded)

	_, missingLoaded := loader.Load(filepath.Join(rootPath, "absent.txt"))
	require.False(testInstance, missingLoaded)
}

func TestIsTextLikeExtension(testInstance *testing.T) {
	require.True(testInstance, treewalk.IsTextLikeExtension(".py"))
	require.True(testInstance, treewalk.IsTextLikeExtension(".MD"))
	require.False(testInstance, treewalk.IsTextLikeExtension(".png"))
}
