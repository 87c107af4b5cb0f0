package app

import "github.com/ludo-technologies/shapedup/domain"

// ResolveFilePaths resolves the input paths into the files to analyze.
// When every path is already a supported file and no exclude patterns apply,
// the paths are returned as given; otherwise the file reader walks them.
//
// This keeps pre-resolved file lists, such as those handed over by the MCP
// server, from being walked a second time.
func ResolveFilePaths(
	fileReader domain.FileReader,
	paths []string,
	recursive bool,
	includePatterns []string,
	excludePatterns []string,
) ([]string, error) {
	allFiles := len(excludePatterns) == 0
	for _, path := range paths {
		if !allFiles {
			break
		}
		if !fileReader.IsSupportedFile(path) {
			allFiles = false
			break
		}
		// FileExists is true only for regular files
		exists, err := fileReader.FileExists(path)
		if err != nil || !exists {
			allFiles = false
		}
	}

	if allFiles && len(paths) > 0 {
		return paths, nil
	}

	return fileReader.CollectSourceFiles(
		paths,
		recursive,
		includePatterns,
		excludePatterns,
	)
}
