package treewalk

import (
	"bytes"
	"os"
	"strings"
)

const binarySniffWindowConstant = 512

// textFileExtensions lists the extensions the pattern scanners treat as text.
var textFileExtensions = map[string]struct{}{
	".py":   {},
	".json": {},
	".md":   {},
	".yml":  {},
	".yaml": {},
	".ini":  {},
	".txt":  {},
}

// ContentLoader memoizes file content so the scanners that follow the walk can
// share one read per file. Read failures are cached as misses so a failing file
// is never retried.
type ContentLoader struct {
	contentByPath map[string]string
	failedPaths   map[string]struct{}
}

// NewContentLoader constructs an empty loader.
func NewContentLoader() *ContentLoader {
	return &ContentLoader{
		contentByPath: map[string]string{},
		failedPaths:   map[string]struct{}{},
	}
}

// Load returns the file content and true on success. Unreadable and binary
// files report false.
func (loader *ContentLoader) Load(filePath string) (string, bool) {
	if cachedContent, cached := loader.contentByPath[filePath]; cached {
		return cachedContent, true
	}
	if _, failed := loader.failedPaths[filePath]; failed {
		return "", false
	}

	contentBytes, readError := os.ReadFile(filePath)
	if readError != nil || looksBinary(contentBytes) {
		loader.failedPaths[filePath] = struct{}{}
		return "", false
	}

	content := string(contentBytes)
	loader.contentByPath[filePath] = content
	return content, true
}

// IsTextLikeExtension reports whether the extension belongs to the fixed
// text-like set scanned for secrets.
func IsTextLikeExtension(extension string) bool {
	_, textLike := textFileExtensions[strings.ToLower(extension)]
	return textLike
}

func looksBinary(contentBytes []byte) bool {
	sniffWindow := contentBytes
	if len(sniffWindow) > binarySniffWindowConstant {
		sniffWindow = sniffWindow[:binarySniffWindowConstant]
	}
	return bytes.IndexByte(sniffWindow, 0) >= 0
}
