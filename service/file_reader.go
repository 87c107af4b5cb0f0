package service

import (
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
	"sort"
	"strings"

	"github.com/bmatcuk/doublestar/v4"

	"github.com/ludo-technologies/shapedup/domain"
	"github.com/ludo-technologies/shapedup/internal/parser"
)

// skipDirs are never descended into
var skipDirs = []string{
	"node_modules",
	"vendor",
	"__pycache__",
	"venv",
	"target",
	"build",
	"dist",
	"*.egg-info",
}

// FileReaderImpl implements domain.FileReader over a language registry
type FileReaderImpl struct {
	registry *parser.Registry
}

// NewFileReader creates a file reader. A nil registry uses parser.DefaultRegistry.
func NewFileReader(registry *parser.Registry) *FileReaderImpl {
	if registry == nil {
		registry = parser.DefaultRegistry()
	}
	return &FileReaderImpl{registry: registry}
}

// CollectSourceFiles finds every file with a registered extension under the
// given paths. Explicitly named files are always kept, even with an unknown
// extension, so that they can be parsed by the fallback language. The result
// is sorted and free of duplicates.
func (f *FileReaderImpl) CollectSourceFiles(paths []string, recursive bool, includePatterns, excludePatterns []string) ([]string, error) {
	seen := make(map[string]bool)
	var files []string
	add := func(path string) {
		if !seen[path] {
			seen[path] = true
			files = append(files, path)
		}
	}

	for _, path := range paths {
		info, err := os.Stat(path)
		if err != nil {
			return nil, domain.NewFileNotFoundError(path, err)
		}

		if info.IsDir() {
			dirFiles, err := f.collectFromDirectory(path, recursive, includePatterns, excludePatterns)
			if err != nil {
				return nil, err
			}
			for _, file := range dirFiles {
				add(file)
			}
			continue
		}

		if !f.isExcluded(path, path, excludePatterns) {
			add(path)
		}
	}

	sort.Strings(files)
	return files, nil
}

// ReadFile reads the content of a file
func (f *FileReaderImpl) ReadFile(path string) ([]byte, error) {
	content, err := os.ReadFile(path)
	if err != nil {
		return nil, domain.NewFileNotFoundError(path, err)
	}
	return content, nil
}

// IsSupportedFile reports whether the file's extension has a registered language
func (f *FileReaderImpl) IsSupportedFile(path string) bool {
	return f.registry.Supports(path)
}

// FileExists checks if a regular file exists
func (f *FileReaderImpl) FileExists(path string) (bool, error) {
	info, err := os.Stat(path)
	if os.IsNotExist(err) {
		return false, nil
	}
	if err != nil {
		return false, err
	}
	return !info.IsDir(), nil
}

func (f *FileReaderImpl) collectFromDirectory(dirPath string, recursive bool, includePatterns, excludePatterns []string) ([]string, error) {
	var files []string

	walkFunc := func(path string, d fs.DirEntry, err error) error {
		if err != nil {
			// unreadable entries are skipped, not fatal
			return nil
		}

		rel, relErr := filepath.Rel(dirPath, path)
		if relErr != nil {
			rel = path
		}
		rel = filepath.ToSlash(rel)

		if d.IsDir() {
			if path == dirPath {
				return nil
			}
			if !recursive || f.shouldSkipDirectory(d.Name()) || f.isExcluded(path, rel, excludePatterns) {
				return filepath.SkipDir
			}
			return nil
		}

		if strings.HasPrefix(d.Name(), ".") || !f.IsSupportedFile(path) {
			return nil
		}
		if f.isExcluded(path, rel, excludePatterns) {
			return nil
		}
		if len(includePatterns) > 0 && !matchAny(includePatterns, path, rel) {
			return nil
		}

		files = append(files, path)
		return nil
	}

	if err := filepath.WalkDir(dirPath, walkFunc); err != nil {
		return nil, fmt.Errorf("failed to walk directory %s: %w", dirPath, err)
	}

	return files, nil
}

func (f *FileReaderImpl) isExcluded(path, rel string, excludePatterns []string) bool {
	return len(excludePatterns) > 0 && matchAny(excludePatterns, path, rel)
}

// matchAny tests each doublestar pattern against the path as given, the
// path relative to the walk root, and the base name.
func matchAny(patterns []string, path, rel string) bool {
	slashed := filepath.ToSlash(path)
	base := filepath.Base(path)
	for _, pattern := range patterns {
		for _, candidate := range []string{slashed, rel, base} {
			if matched, _ := doublestar.Match(pattern, candidate); matched {
				return true
			}
		}
	}
	return false
}

// shouldSkipDirectory skips hidden and well-known dependency or build directories
func (f *FileReaderImpl) shouldSkipDirectory(dirName string) bool {
	if strings.HasPrefix(dirName, ".") && dirName != "." && dirName != ".." {
		return true
	}

	dirLower := strings.ToLower(dirName)
	for _, skipDir := range skipDirs {
		if matched, _ := filepath.Match(skipDir, dirLower); matched {
			return true
		}
	}

	return false
}

// ValidatePaths validates that all provided paths exist and are accessible
func (f *FileReaderImpl) ValidatePaths(paths []string) error {
	for _, path := range paths {
		if _, err := os.Stat(path); err != nil {
			if os.IsNotExist(err) {
				return domain.NewFileNotFoundError(path, err)
			}
			return domain.NewInvalidInputError(fmt.Sprintf("cannot access path: %s", path), err)
		}
	}
	return nil
}
