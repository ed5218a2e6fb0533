package treewalk

import (
	"io/fs"
	"path/filepath"
	"sort"
	"strings"
)

const (
	pythonFileExtensionConstant    = ".py"
	oversizedFileThresholdBytes    = 5 * 1024 * 1024
	oversizedFileListCapConstant   = 10
	unsafeExtensionListCapConstant = 10
	defaultFileCeilingConstant     = 3000
	limitedFileCeilingConstant     = 800
	gitMetadataDirectoryConstant   = ".git"
	pycacheDirectoryConstant       = "__pycache__"
	nodeModulesDirectoryConstant   = "node_modules"
	buildDirectoryConstant         = "build"
	distDirectoryConstant          = "dist"
	virtualenvDirectoryConstant    = ".venv"
	virtualenvAltDirectoryConstant = "venv"
	eggInfoDirectorySuffixConstant = ".egg-info"
	legacyArchiveDirectoryConstant = "legacy_archive"
	deprecatedDirectoryConstant    = "deprecated"
	quarantineDirectoryConstant    = "_quarantine"
)

// skippedDirectoryNames is the one shared ignore-list consumed by the walker;
// scanners never re-declare their own skip sets.
var skippedDirectoryNames = map[string]struct{}{
	gitMetadataDirectoryConstant:   {},
	pycacheDirectoryConstant:       {},
	nodeModulesDirectoryConstant:   {},
	buildDirectoryConstant:         {},
	distDirectoryConstant:          {},
	virtualenvDirectoryConstant:    {},
	virtualenvAltDirectoryConstant: {},
}

// legacyDirectoryNames marks quarantine directories holding retired code. The
// secret scanner skips them and the minimalism scanner reports their presence.
var legacyDirectoryNames = map[string]struct{}{
	legacyArchiveDirectoryConstant: {},
	deprecatedDirectoryConstant:    {},
	quarantineDirectoryConstant:    {},
}

// unsafeFileExtensions lists extensions that should never live inside a
// repository tree.
var unsafeFileExtensions = map[string]struct{}{
	".pem": {},
	".key": {},
	".pfx": {},
	".p12": {},
}

// FileRecord captures one regular file encountered during traversal.
type FileRecord struct {
	Path         string
	RelativePath string
	Size         int64
	Extension    string
}

// Metrics aggregates tree-level measurements produced by a single walk.
type Metrics struct {
	TotalFiles           int      `json:"total_files" yaml:"total_files"`
	PythonFiles          int      `json:"python_files" yaml:"python_files"`
	OversizedFiles       []string `json:"oversized_files" yaml:"oversized_files"`
	UnsafeExtensionFiles []string `json:"unsafe_extension_files" yaml:"unsafe_extension_files"`
	ScanLimited          bool     `json:"scan_limited" yaml:"scan_limited"`
}

// Inventory is the walk result shared by every scanner: the ordered file list,
// the derived metrics, and a content cache keyed by absolute path.
type Inventory struct {
	RootPath string
	Files    []FileRecord
	Metrics  Metrics

	loader *ContentLoader
}

// Walker traverses a repository tree once, honoring the shared skip-set and the
// configured file-count ceiling.
type Walker struct {
	fileCeiling int
}

// NewWalker constructs a walker bounded by the supplied file ceiling; a
// non-positive ceiling selects the default bound.
func NewWalker(fileCeiling int) *Walker {
	resolvedCeiling := fileCeiling
	if resolvedCeiling <= 0 {
		resolvedCeiling = defaultFileCeilingConstant
	}
	return &Walker{fileCeiling: resolvedCeiling}
}

// NewLimitedWalker constructs a walker using the reduced brief-mode ceiling.
func NewLimitedWalker() *Walker {
	return NewWalker(limitedFileCeilingConstant)
}

// errCeilingReached terminates traversal early once the file ceiling is hit.
var errCeilingReached = stopWalkError{}

type stopWalkError struct{}

func (stopWalkError) Error() string { return "file ceiling reached" }

// Walk traverses rootPath and returns the collected inventory. Unreadable
// entries are skipped silently; hitting the file ceiling is not an error and is
// surfaced through Metrics.ScanLimited.
func (walker *Walker) Walk(rootPath string) (*Inventory, error) {
	inventory := &Inventory{
		RootPath: rootPath,
		loader:   NewContentLoader(),
	}

	walkError := filepath.WalkDir(rootPath, func(currentPath string, directoryEntry fs.DirEntry, entryError error) error {
		if entryError != nil {
			if currentPath == rootPath {
				return entryError
			}
			return nil
		}

		if directoryEntry.IsDir() {
			if ShouldSkipDirectory(directoryEntry.Name()) {
				return fs.SkipDir
			}
			return nil
		}

		if !directoryEntry.Type().IsRegular() {
			return nil
		}

		if inventory.Metrics.TotalFiles >= walker.fileCeiling {
			inventory.Metrics.ScanLimited = true
			return errCeilingReached
		}

		fileInformation, informationError := directoryEntry.Info()
		if informationError != nil {
			return nil
		}

		relativePath, relativeError := filepath.Rel(rootPath, currentPath)
		if relativeError != nil {
			relativePath = currentPath
		}

		extension := strings.ToLower(filepath.Ext(currentPath))
		record := FileRecord{
			Path:         currentPath,
			RelativePath: filepath.ToSlash(relativePath),
			Size:         fileInformation.Size(),
			Extension:    extension,
		}
		inventory.Files = append(inventory.Files, record)
		inventory.Metrics.TotalFiles++

		if extension == pythonFileExtensionConstant {
			inventory.Metrics.PythonFiles++
		}

		if fileInformation.Size() > oversizedFileThresholdBytes && len(inventory.Metrics.OversizedFiles) < oversizedFileListCapConstant {
			inventory.Metrics.OversizedFiles = append(inventory.Metrics.OversizedFiles, record.RelativePath)
		}

		if _, unsafeExtension := unsafeFileExtensions[extension]; unsafeExtension {
			if len(inventory.Metrics.UnsafeExtensionFiles) < unsafeExtensionListCapConstant {
				inventory.Metrics.UnsafeExtensionFiles = append(inventory.Metrics.UnsafeExtensionFiles, record.RelativePath)
			}
		}

		return nil
	})
	if walkError != nil && walkError != errCeilingReached {
		return nil, walkError
	}

	sort.Slice(inventory.Files, func(first int, second int) bool {
		return inventory.Files[first].RelativePath < inventory.Files[second].RelativePath
	})

	return inventory, nil
}

// Loader exposes the inventory's memoizing content reader.
func (inventory *Inventory) Loader() *ContentLoader {
	if inventory.loader == nil {
		inventory.loader = NewContentLoader()
	}
	return inventory.loader
}

// PythonFiles returns the records whose extension marks them as Python source.
func (inventory *Inventory) PythonFiles() []FileRecord {
	var pythonRecords []FileRecord
	for _, record := range inventory.Files {
		if record.Extension == pythonFileExtensionConstant {
			pythonRecords = append(pythonRecords, record)
		}
	}
	return pythonRecords
}

// ShouldSkipDirectory reports whether the named directory belongs to the shared
// skip-set.
func ShouldSkipDirectory(directoryName string) bool {
	if _, skipped := skippedDirectoryNames[directoryName]; skipped {
		return true
	}
	return strings.HasSuffix(directoryName, eggInfoDirectorySuffixConstant)
}

// IsLegacyDirectory reports whether the named directory is a legacy-quarantine
// location.
func IsLegacyDirectory(directoryName string) bool {
	_, legacy := legacyDirectoryNames[directoryName]
	return legacy
}

// LegacyDirectoryNames returns the fixed legacy-quarantine directory names in
// sorted order.
func LegacyDirectoryNames() []string {
	names := make([]string, 0, len(legacyDirectoryNames))
	for directoryName := range legacyDirectoryNames {
		names = append(names, directoryName)
	}
	sort.Strings(names)
	return names
}
