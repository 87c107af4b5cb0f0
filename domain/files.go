package domain

// FileReader defines the interface for locating and reading source files
type FileReader interface {
	// CollectSourceFiles finds supported source files in the given paths
	CollectSourceFiles(paths []string, recursive bool, includePatterns, excludePatterns []string) ([]string, error)

	// ReadFile reads the content of a file
	ReadFile(path string) ([]byte, error)

	// IsSupportedFile reports whether a file has a registered language
	IsSupportedFile(path string) bool

	// FileExists checks if a file exists and returns an error if not
	FileExists(path string) (bool, error)
}
