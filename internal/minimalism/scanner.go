package minimalism

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"

	toml "github.com/pelletier/go-toml/v2"

	"github.com/temirov/repoaudit/internal/findings"
	"github.com/temirov/repoaudit/internal/treewalk"
)

const (
	installerScriptAllowanceConstant = 2
	orphanedTestFilePrefixConstant   = "test_"
	pythonFileSuffixConstant         = ".py"
	setupScriptFileNameConstant      = "setup.py"
	pyprojectFileNameConstant        = "pyproject.toml"
	sourceLayoutDirectoryConstant    = "src"
	packageInitFileNameConstant      = "__init__.py"

	buildSystemTableKeyConstant     = "build-system"
	projectTableKeyConstant         = "project"
	buildBackendTableKeyConstant    = "build-backend"
	setuptoolsBackendMarkerConstant = "setuptools"

	installerSprawlIssueTemplateConstant  = "%d installer scripts present"
	installerSprawlRecommendationConstant = "Keep one installation path and remove the rest"
	orphanedTestIssueTemplateConstant     = "test file %s sits at the repository root"
	orphanedTestRecommendationConstant    = "Move test modules under a tests/ directory"
	duplicateLauncherIssueConstant        = "duplicate launcher files at repository root"
	duplicateLauncherRecommendation       = "Keep a single launcher script"
	redundantPackagingIssueConstant       = "setup.py and pyproject.toml both present"
	redundantPackagingRecommendation      = "Migrate packaging metadata fully into pyproject.toml"
	dualPackagingReasonConstant           = "valid dual-config for backward compatibility: pyproject carries a complete setuptools build-system and project table"
	incompleteSourceTreeIssueConstant     = "src/ layout lacks an importable package"
	incompleteSourceTreeRecommendation    = "Add a src/<package>/__init__.py or drop the src layout"
	legacyDirectoryIssueTemplateConstant  = "legacy quarantine directory %s present"
	legacyDirectoryRecommendationConstant = "Delete retired code or move it out of the repository"
)

// installerScriptFileNames is the known installer set counted at the root.
var installerScriptFileNames = []string{
	"install.sh",
	"install.py",
	"setup.sh",
	"installer.py",
	"quick_install.sh",
}

// launcherFileNames mirrors the entry-point set checked by the efficiency
// scanner; minimalism reports the structural duplication.
var launcherFileNames = []string{
	"run.py",
	"main.py",
	"launcher.py",
	"start.py",
}

// Report aggregates minimalism findings and their verified false positives.
type Report struct {
	Findings               []findings.Finding               `json:"findings" yaml:"findings"`
	VerifiedFalsePositives []findings.VerifiedFalsePositive `json:"verified_false_positives" yaml:"verified_false_positives"`
	Issues                 int                              `json:"issues" yaml:"issues"`
}

// Scanner runs the structural checks against a repository root.
type Scanner struct{}

// NewScanner constructs a minimalism scanner.
func NewScanner() *Scanner {
	return &Scanner{}
}

// Scan executes every structural check and returns the combined report.
// Directory read failures skip the affected check silently.
func (scanner *Scanner) Scan(inventory *treewalk.Inventory) Report {
	bucket := findings.Bucket{}
	rootEntries := readRootEntries(inventory.RootPath)

	scanner.checkInstallerSprawl(rootEntries, &bucket)
	scanner.checkOrphanedTests(rootEntries, &bucket)
	scanner.checkDuplicateLaunchers(rootEntries, &bucket)
	scanner.checkRedundantPackaging(inventory, rootEntries, &bucket)
	scanner.checkSourceLayout(inventory.RootPath, rootEntries, &bucket)
	scanner.checkLegacyDirectories(rootEntries, &bucket)

	return Report{
		Findings:               bucket.Active,
		VerifiedFalsePositives: bucket.Verified,
		Issues:                 len(bucket.Active),
	}
}

type rootEntry struct {
	name        string
	isDirectory bool
}

func readRootEntries(rootPath string) []rootEntry {
	directoryEntries, readError := os.ReadDir(rootPath)
	if readError != nil {
		return nil
	}

	entries := make([]rootEntry, 0, len(directoryEntries))
	for _, directoryEntry := range directoryEntries {
		entries = append(entries, rootEntry{
			name:        directoryEntry.Name(),
			isDirectory: directoryEntry.IsDir(),
		})
	}
	return entries
}

func rootFilePresent(rootEntries []rootEntry, fileName string) bool {
	for _, entry := range rootEntries {
		if !entry.isDirectory && strings.EqualFold(entry.name, fileName) {
			return true
		}
	}
	return false
}

func (scanner *Scanner) checkInstallerSprawl(rootEntries []rootEntry, bucket *findings.Bucket) {
	var presentInstallers []string
	for _, installerName := range installerScriptFileNames {
		if rootFilePresent(rootEntries, installerName) {
			presentInstallers = append(presentInstallers, installerName)
		}
	}

	if len(presentInstallers) > installerScriptAllowanceConstant {
		bucket.Record(findings.Finding{
			File:           strings.Join(presentInstallers, ", "),
			Issue:          fmt.Sprintf(installerSprawlIssueTemplateConstant, len(presentInstallers)),
			Recommendation: installerSprawlRecommendationConstant,
			Category:       findings.CategoryMinimalism,
		})
	}
}

func (scanner *Scanner) checkOrphanedTests(rootEntries []rootEntry, bucket *findings.Bucket) {
	for _, entry := range rootEntries {
		if entry.isDirectory {
			continue
		}
		if strings.HasPrefix(entry.name, orphanedTestFilePrefixConstant) && strings.HasSuffix(entry.name, pythonFileSuffixConstant) {
			bucket.Record(findings.Finding{
				File:           entry.name,
				Issue:          fmt.Sprintf(orphanedTestIssueTemplateConstant, entry.name),
				Recommendation: orphanedTestRecommendationConstant,
				Category:       findings.CategoryMinimalism,
			})
		}
	}
}

func (scanner *Scanner) checkDuplicateLaunchers(rootEntries []rootEntry, bucket *findings.Bucket) {
	var presentLaunchers []string
	for _, launcherName := range launcherFileNames {
		if rootFilePresent(rootEntries, launcherName) {
			presentLaunchers = append(presentLaunchers, launcherName)
		}
	}

	if len(presentLaunchers) >= 2 {
		bucket.Record(findings.Finding{
			File:           strings.Join(presentLaunchers, ", "),
			Issue:          duplicateLauncherIssueConstant,
			Recommendation: duplicateLauncherRecommendation,
			Category:       findings.CategoryMinimalism,
		})
	}
}

// checkRedundantPackaging flags trees carrying both setup.py and
// pyproject.toml. A pyproject holding a complete setuptools build-system plus
// a project table is a deliberate compatibility arrangement and is verified as
// a false positive instead of reported.
func (scanner *Scanner) checkRedundantPackaging(inventory *treewalk.Inventory, rootEntries []rootEntry, bucket *findings.Bucket) {
	if !rootFilePresent(rootEntries, setupScriptFileNameConstant) || !rootFilePresent(rootEntries, pyprojectFileNameConstant) {
		return
	}

	finding := findings.Finding{
		File:           setupScriptFileNameConstant + ", " + pyprojectFileNameConstant,
		Issue:          redundantPackagingIssueConstant,
		Recommendation: redundantPackagingRecommendation,
		Category:       findings.CategoryMinimalism,
	}

	if pyprojectCoversSetuptoolsBuild(inventory) {
		bucket.RecordVerified(finding, dualPackagingReasonConstant)
		return
	}
	bucket.Record(finding)
}

// pyprojectCoversSetuptoolsBuild reports whether the root pyproject.toml holds
// [build-system], [project], and a setuptools backend reference. Unreadable or
// malformed manifests report false.
func pyprojectCoversSetuptoolsBuild(inventory *treewalk.Inventory) bool {
	content, loaded := inventory.Loader().Load(filepath.Join(inventory.RootPath, pyprojectFileNameConstant))
	if !loaded {
		return false
	}

	var manifestTables map[string]any
	if unmarshalError := toml.Unmarshal([]byte(content), &manifestTables); unmarshalError != nil {
		return false
	}

	buildSystemTable, buildSystemPresent := manifestTables[buildSystemTableKeyConstant].(map[string]any)
	if !buildSystemPresent {
		return false
	}
	if _, projectPresent := manifestTables[projectTableKeyConstant]; !projectPresent {
		return false
	}

	buildBackend, _ := buildSystemTable[buildBackendTableKeyConstant].(string)
	return strings.Contains(buildBackend, setuptoolsBackendMarkerConstant)
}

// checkSourceLayout flags a src/ directory that holds no importable package.
func (scanner *Scanner) checkSourceLayout(rootPath string, rootEntries []rootEntry, bucket *findings.Bucket) {
	sourceDirectoryPresent := false
	for _, entry := range rootEntries {
		if entry.isDirectory && entry.name == sourceLayoutDirectoryConstant {
			sourceDirectoryPresent = true
			break
		}
	}
	if !sourceDirectoryPresent {
		return
	}

	sourceEntries, readError := os.ReadDir(filepath.Join(rootPath, sourceLayoutDirectoryConstant))
	if readError != nil {
		return
	}

	for _, sourceEntry := range sourceEntries {
		if !sourceEntry.IsDir() {
			continue
		}
		initPath := filepath.Join(rootPath, sourceLayoutDirectoryConstant, sourceEntry.Name(), packageInitFileNameConstant)
		if _, statError := os.Stat(initPath); statError == nil {
			return
		}
	}

	bucket.Record(findings.Finding{
		File:           sourceLayoutDirectoryConstant,
		Issue:          incompleteSourceTreeIssueConstant,
		Recommendation: incompleteSourceTreeRecommendation,
		Category:       findings.CategoryMinimalism,
	})
}

func (scanner *Scanner) checkLegacyDirectories(rootEntries []rootEntry, bucket *findings.Bucket) {
	for _, entry := range rootEntries {
		if !entry.isDirectory {
			continue
		}
		if treewalk.IsLegacyDirectory(entry.name) {
			bucket.Record(findings.Finding{
				File:           entry.name,
				Issue:          fmt.Sprintf(legacyDirectoryIssueTemplateConstant, entry.name),
				Recommendation: legacyDirectoryRecommendationConstant,
				Category:       findings.CategoryMinimalism,
			})
		}
	}
}
