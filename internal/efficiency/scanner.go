package efficiency

import (
	"fmt"
	"path"
	"regexp"
	"sort"
	"strings"

	"github.com/temirov/repoaudit/internal/findings"
	"github.com/temirov/repoaudit/internal/treewalk"
)

const (
	defaultFunctionScanFileCapConstant    = 50
	briefFunctionScanFileCapConstant      = 25
	defaultPerformanceScanFileCapConstant = 30
	briefPerformanceScanFileCapConstant   = 15
	defaultImportScanFileCapConstant      = 50
	briefImportScanFileCapConstant        = 25

	longFunctionLineLimitConstant       = 150
	complexFileLineLimitConstant        = 500
	complexFileIndentDepthLimitConstant = 5
	indentationUnitWidthConstant        = 4
	pythonFileSuffixConstant            = ".py"

	multipleWizardsIssueConstant          = "multiple wizard implementations present"
	multipleWizardsRecommendationConstant = "Consolidate setup flows into one wizard module"
	wizardPurposesReasonConstant          = "wizard modules serve different purposes (CLI versus GUI)"
	duplicateLauncherIssueConstant        = "duplicate launcher entry points at repository root"
	duplicateLauncherRecommendation       = "Keep a single entry point and delete the rest"
	duplicateConfigIssueConstant          = "duplicate configuration modules"
	duplicateConfigRecommendation         = "Merge configuration handling into one module"
	longFunctionIssueTemplateConstant     = "function %s spans %d lines"
	longFunctionRecommendationConstant    = "Split the function into smaller units"
	complexFileIssueTemplateConstant      = "file exceeds %d lines with indentation depth over %d"
	complexFileRecommendationConstant     = "Flatten nesting and extract helpers"
	nPlusOneIssueConstant                 = "query call inside a loop body (possible N+1 access)"
	nPlusOneRecommendationConstant        = "Batch the lookups outside the loop"
	stringConcatIssueConstant             = "string concatenation inside a loop"
	stringConcatRecommendationConstant    = "Accumulate parts in a list and join once"
	circularImportIssueTemplateConstant   = "possible circular import between %s and %s"
	circularImportRecommendationConstant  = "Break the cycle with a shared lower-level module"

	guiFlavorFragmentConstant   = "gui"
	cliFlavorFragmentConstant   = "cli"
	setupFlavorFragmentConstant = "setup"
)

// wizardModuleFileNames are the known wizard implementations checked for
// duplication.
var wizardModuleFileNames = []string{
	"setup_wizard.py",
	"gui_wizard.py",
	"wizard.py",
	"install_wizard.py",
}

// launcherFileNames are the root-level entry points checked for duplication.
var launcherFileNames = []string{
	"run.py",
	"main.py",
	"launcher.py",
	"start.py",
}

// configurationModuleFileNames are the configuration modules checked for
// duplication.
var configurationModuleFileNames = []string{
	"config.py",
	"settings.py",
	"configuration.py",
}

var (
	functionDefinitionExpression = regexp.MustCompile(`^(\s*)def\s+(\w+)`)
	importStatementExpression    = regexp.MustCompile(`(?m)^\s*(?:import|from)\s+([\w.]+)`)
	loopQueryExpression          = regexp.MustCompile(`(?m)^\s*for\s+\w+\s+in\s+.+:\s*\n(?:\s*\n)*\s+.*\.(?:get|fetch|query|execute|filter)\(`)
	loopConcatExpression         = regexp.MustCompile(`(?m)^\s*for\s+.+:\s*\n(?:.*\n){0,5}?\s*\w+\s*\+=\s*["']`)
)

// Limits bounds the sampled file subsets for one detail level.
type Limits struct {
	MaxFunctionScanFiles    int `mapstructure:"max_function_scan_files"`
	MaxPerformanceScanFiles int `mapstructure:"max_performance_scan_files"`
	MaxImportScanFiles      int `mapstructure:"max_import_scan_files"`
}

// DefaultLimits returns the full-detail scan bounds.
func DefaultLimits() Limits {
	return Limits{
		MaxFunctionScanFiles:    defaultFunctionScanFileCapConstant,
		MaxPerformanceScanFiles: defaultPerformanceScanFileCapConstant,
		MaxImportScanFiles:      defaultImportScanFileCapConstant,
	}
}

// BriefLimits returns the reduced bounds used by background audits.
func BriefLimits() Limits {
	return Limits{
		MaxFunctionScanFiles:    briefFunctionScanFileCapConstant,
		MaxPerformanceScanFiles: briefPerformanceScanFileCapConstant,
		MaxImportScanFiles:      briefImportScanFileCapConstant,
	}
}

// Report aggregates efficiency findings and their verified false positives.
type Report struct {
	Findings               []findings.Finding               `json:"findings" yaml:"findings"`
	VerifiedFalsePositives []findings.VerifiedFalsePositive `json:"verified_false_positives" yaml:"verified_false_positives"`
	Issues                 int                              `json:"issues" yaml:"issues"`
}

// Scanner runs the efficiency checks against a walked inventory.
type Scanner struct {
	limits Limits
}

// NewScanner constructs a scanner with the provided limits.
func NewScanner(limits Limits) *Scanner {
	return &Scanner{limits: limits}
}

// Scan executes every efficiency check and returns the combined report.
func (scanner *Scanner) Scan(inventory *treewalk.Inventory) Report {
	bucket := findings.Bucket{}

	scanner.checkWizardDuplication(inventory, &bucket)
	scanner.checkDuplicateFileSets(inventory, &bucket)
	scanner.checkFunctionShape(inventory, &bucket)
	scanner.checkPerformancePatterns(inventory, &bucket)
	scanner.checkImportCycles(inventory, &bucket)

	return Report{
		Findings:               bucket.Active,
		VerifiedFalsePositives: bucket.Verified,
		Issues:                 len(bucket.Active),
	}
}

// checkWizardDuplication flags repositories carrying more than one known
// wizard module. A CLI-flavored wizard next to a GUI-flavored one is verified
// as a false positive rather than dropped.
func (scanner *Scanner) checkWizardDuplication(inventory *treewalk.Inventory, bucket *findings.Bucket) {
	presentWizards := presentFileNames(inventory, wizardModuleFileNames, false)
	if len(presentWizards) < 2 {
		return
	}

	finding := findings.Finding{
		File:           strings.Join(presentWizards, ", "),
		Issue:          multipleWizardsIssueConstant,
		Recommendation: multipleWizardsRecommendationConstant,
		Category:       findings.CategoryEfficiency,
	}

	if wizardsServeDifferentPurposes(presentWizards) {
		bucket.RecordVerified(finding, wizardPurposesReasonConstant)
		return
	}
	bucket.Record(finding)
}

func wizardsServeDifferentPurposes(wizardNames []string) bool {
	guiFlavored := false
	commandFlavored := false
	for _, wizardName := range wizardNames {
		loweredName := strings.ToLower(wizardName)
		if strings.Contains(loweredName, guiFlavorFragmentConstant) {
			guiFlavored = true
			continue
		}
		if strings.Contains(loweredName, cliFlavorFragmentConstant) || strings.Contains(loweredName, setupFlavorFragmentConstant) {
			commandFlavored = true
		}
	}
	return guiFlavored && commandFlavored
}

// checkDuplicateFileSets flags duplicate launchers and configuration modules.
func (scanner *Scanner) checkDuplicateFileSets(inventory *treewalk.Inventory, bucket *findings.Bucket) {
	presentLaunchers := presentFileNames(inventory, launcherFileNames, true)
	if len(presentLaunchers) >= 2 {
		bucket.Record(findings.Finding{
			File:           strings.Join(presentLaunchers, ", "),
			Issue:          duplicateLauncherIssueConstant,
			Recommendation: duplicateLauncherRecommendation,
			Category:       findings.CategoryEfficiency,
		})
	}

	presentConfigurations := presentFileNames(inventory, configurationModuleFileNames, false)
	if len(presentConfigurations) >= 2 {
		bucket.Record(findings.Finding{
			File:           strings.Join(presentConfigurations, ", "),
			Issue:          duplicateConfigIssueConstant,
			Recommendation: duplicateConfigRecommendation,
			Category:       findings.CategoryEfficiency,
		})
	}
}

// checkFunctionShape samples Python files for over-long functions and
// high-complexity files using the indentation heuristic.
func (scanner *Scanner) checkFunctionShape(inventory *treewalk.Inventory, bucket *findings.Bucket) {
	loader := inventory.Loader()

	scannedFiles := 0
	for _, record := range inventory.PythonFiles() {
		if scannedFiles >= scanner.limits.MaxFunctionScanFiles {
			return
		}
		scannedFiles++

		content, loaded := loader.Load(record.Path)
		if !loaded {
			continue
		}
		contentLines := strings.Split(content, "\n")

		for _, overlongFunction := range locateOverlongFunctions(contentLines) {
			bucket.Record(findings.Finding{
				File:           record.RelativePath,
				Line:           overlongFunction.startLine,
				Issue:          fmt.Sprintf(longFunctionIssueTemplateConstant, overlongFunction.name, overlongFunction.lineCount),
				Recommendation: longFunctionRecommendationConstant,
				Category:       findings.CategoryEfficiency,
			})
		}

		if len(contentLines) > complexFileLineLimitConstant && maximumIndentDepth(contentLines) > complexFileIndentDepthLimitConstant {
			bucket.Record(findings.Finding{
				File:           record.RelativePath,
				Issue:          fmt.Sprintf(complexFileIssueTemplateConstant, complexFileLineLimitConstant, complexFileIndentDepthLimitConstant),
				Recommendation: complexFileRecommendationConstant,
				Category:       findings.CategoryEfficiency,
			})
		}
	}
}

type functionSpan struct {
	name      string
	startLine int
	lineCount int
}

// locateOverlongFunctions tracks def boundaries by indentation: a function
// ends at the first non-blank line indented at or above its def.
func locateOverlongFunctions(contentLines []string) []functionSpan {
	var overlongFunctions []functionSpan

	type openFunction struct {
		name        string
		startIndex  int
		indentWidth int
	}
	var currentFunction *openFunction

	closeFunction := func(endIndex int) {
		if currentFunction == nil {
			return
		}
		spanLength := endIndex - currentFunction.startIndex
		if spanLength > longFunctionLineLimitConstant {
			overlongFunctions = append(overlongFunctions, functionSpan{
				name:      currentFunction.name,
				startLine: currentFunction.startIndex + 1,
				lineCount: spanLength,
			})
		}
		currentFunction = nil
	}

	for lineIndex, contentLine := range contentLines {
		definitionMatch := functionDefinitionExpression.FindStringSubmatch(contentLine)
		if definitionMatch != nil {
			closeFunction(lineIndex)
			currentFunction = &openFunction{
				name:        definitionMatch[2],
				startIndex:  lineIndex,
				indentWidth: len(definitionMatch[1]),
			}
			continue
		}

		if currentFunction == nil {
			continue
		}
		trimmedLine := strings.TrimSpace(contentLine)
		if len(trimmedLine) == 0 {
			continue
		}
		if leadingWhitespaceWidth(contentLine) <= currentFunction.indentWidth {
			closeFunction(lineIndex)
		}
	}
	closeFunction(len(contentLines))

	return overlongFunctions
}

func leadingWhitespaceWidth(contentLine string) int {
	return len(contentLine) - len(strings.TrimLeft(contentLine, " \t"))
}

func maximumIndentDepth(contentLines []string) int {
	maximumDepth := 0
	for _, contentLine := range contentLines {
		if len(strings.TrimSpace(contentLine)) == 0 {
			continue
		}
		indentDepth := leadingWhitespaceWidth(contentLine) / indentationUnitWidthConstant
		if indentDepth > maximumDepth {
			maximumDepth = indentDepth
		}
	}
	return maximumDepth
}

// checkPerformancePatterns applies the two naive antipattern expressions to a
// sampled subset of files.
func (scanner *Scanner) checkPerformancePatterns(inventory *treewalk.Inventory, bucket *findings.Bucket) {
	loader := inventory.Loader()

	scannedFiles := 0
	for _, record := range inventory.PythonFiles() {
		if scannedFiles >= scanner.limits.MaxPerformanceScanFiles {
			return
		}
		scannedFiles++

		content, loaded := loader.Load(record.Path)
		if !loaded {
			continue
		}

		if matchSpan := loopQueryExpression.FindStringIndex(content); matchSpan != nil {
			bucket.Record(findings.Finding{
				File:           record.RelativePath,
				Line:           1 + strings.Count(content[:matchSpan[0]], "\n"),
				Issue:          nPlusOneIssueConstant,
				Recommendation: nPlusOneRecommendationConstant,
				Category:       findings.CategoryEfficiency,
			})
		}

		if matchSpan := loopConcatExpression.FindStringIndex(content); matchSpan != nil {
			bucket.Record(findings.Finding{
				File:           record.RelativePath,
				Line:           1 + strings.Count(content[:matchSpan[0]], "\n"),
				Issue:          stringConcatIssueConstant,
				Recommendation: stringConcatRecommendationConstant,
				Category:       findings.CategoryEfficiency,
			})
		}
	}
}

// checkImportCycles builds a module-to-imports map over a bounded file subset
// and flags mutually importing pairs. The detector is approximate: it compares
// module name roots, not resolved import targets.
func (scanner *Scanner) checkImportCycles(inventory *treewalk.Inventory, bucket *findings.Bucket) {
	loader := inventory.Loader()

	importsByModule := map[string]map[string]struct{}{}
	scannedFiles := 0
	for _, record := range inventory.PythonFiles() {
		if scannedFiles >= scanner.limits.MaxImportScanFiles {
			break
		}
		scannedFiles++

		content, loaded := loader.Load(record.Path)
		if !loaded {
			continue
		}

		moduleName := strings.TrimSuffix(path.Base(record.RelativePath), pythonFileSuffixConstant)
		importedRoots := map[string]struct{}{}
		for _, importMatch := range importStatementExpression.FindAllStringSubmatch(content, -1) {
			importedRoots[rootModuleName(importMatch[1])] = struct{}{}
		}
		importsByModule[moduleName] = importedRoots
	}

	moduleNames := make([]string, 0, len(importsByModule))
	for moduleName := range importsByModule {
		moduleNames = append(moduleNames, moduleName)
	}
	sort.Strings(moduleNames)

	for firstIndex, firstModule := range moduleNames {
		for _, secondModule := range moduleNames[firstIndex+1:] {
			_, firstImportsSecond := importsByModule[firstModule][secondModule]
			_, secondImportsFirst := importsByModule[secondModule][firstModule]
			if firstImportsSecond && secondImportsFirst {
				bucket.Record(findings.Finding{
					File:           firstModule + pythonFileSuffixConstant,
					Issue:          fmt.Sprintf(circularImportIssueTemplateConstant, firstModule, secondModule),
					Recommendation: circularImportRecommendationConstant,
					Category:       findings.CategoryEfficiency,
				})
			}
		}
	}
}

func rootModuleName(dottedModulePath string) string {
	if separatorIndex := strings.Index(dottedModulePath, "."); separatorIndex >= 0 {
		return dottedModulePath[:separatorIndex]
	}
	return dottedModulePath
}

// presentFileNames returns which of the candidate names exist in the walked
// tree, optionally restricted to the repository root.
func presentFileNames(inventory *treewalk.Inventory, candidateNames []string, rootOnly bool) []string {
	recordedNames := map[string]struct{}{}
	for _, record := range inventory.Files {
		baseName := path.Base(record.RelativePath)
		if rootOnly && baseName != record.RelativePath {
			continue
		}
		recordedNames[strings.ToLower(baseName)] = struct{}{}
	}

	var presentNames []string
	for _, candidateName := range candidateNames {
		if _, present := recordedNames[candidateName]; present {
			presentNames = append(presentNames, candidateName)
		}
	}
	return presentNames
}
