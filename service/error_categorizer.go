package service

import (
	"context"
	"errors"
	"strings"

	"github.com/ludo-technologies/shapedup/domain"
	"github.com/ludo-technologies/shapedup/internal/parser"
)

// ErrorCategorizerImpl implements domain.ErrorCategorizer. Domain error codes
// decide the category when present; message patterns are the fallback.
type ErrorCategorizerImpl struct {
	codes    map[string]domain.ErrorCategory
	patterns []categoryPatterns
}

type categoryPatterns struct {
	category domain.ErrorCategory
	patterns []string
}

// NewErrorCategorizer creates a new error categorizer
func NewErrorCategorizer() domain.ErrorCategorizer {
	return &ErrorCategorizerImpl{
		codes: map[string]domain.ErrorCategory{
			domain.ErrCodeInvalidInput:      domain.ErrorCategoryInput,
			domain.ErrCodeFileNotFound:      domain.ErrorCategoryInput,
			domain.ErrCodeConfigError:       domain.ErrorCategoryConfig,
			domain.ErrCodeOutputError:       domain.ErrorCategoryOutput,
			domain.ErrCodeUnsupportedFormat: domain.ErrorCategoryOutput,
			domain.ErrCodeAnalysisError:     domain.ErrorCategoryProcessing,
			domain.ErrCodeParseFailure:      domain.ErrorCategoryProcessing,
			domain.ErrCodeUnknownFileType:   domain.ErrorCategoryProcessing,
			domain.ErrCodeParseTimeout:      domain.ErrorCategoryTimeout,
		},
		// ordered: the first matching category wins
		patterns: []categoryPatterns{
			{domain.ErrorCategoryTimeout, []string{"timeout", "timed out", "deadline", "context canceled"}},
			{domain.ErrorCategoryConfig, []string{"config", ".toml", "yaml", "invalid filter"}},
			{domain.ErrorCategoryInput, []string{"no files found", "no such file", "file not found", "cannot access", "permission denied"}},
			{domain.ErrorCategoryOutput, []string{"write", "output", "cannot create", "report"}},
			{domain.ErrorCategoryProcessing, []string{"parse", "syntax", "analysis", "tree-sitter"}},
		},
	}
}

// Categorize determines the category of an error
func (ec *ErrorCategorizerImpl) Categorize(err error) *domain.CategorizedError {
	if err == nil {
		return nil
	}

	category := ec.category(err)
	message := err.Error()
	if category != domain.ErrorCategoryUnknown {
		message = categoryMessages[category]
	}
	return &domain.CategorizedError{
		Category: category,
		Message:  message,
		Original: err,
	}
}

func (ec *ErrorCategorizerImpl) category(err error) domain.ErrorCategory {
	if errors.Is(err, parser.ErrTimeout) || errors.Is(err, context.DeadlineExceeded) {
		return domain.ErrorCategoryTimeout
	}
	if c, ok := ec.codes[domain.ErrorCode(err)]; ok {
		return c
	}

	msg := strings.ToLower(err.Error())
	for _, cp := range ec.patterns {
		if containsAnyPattern(msg, cp.patterns) {
			return cp.category
		}
	}
	return domain.ErrorCategoryUnknown
}

var categoryMessages = map[domain.ErrorCategory]string{
	domain.ErrorCategoryInput:      "Failed to process input files or directories",
	domain.ErrorCategoryConfig:     "Configuration file or settings error",
	domain.ErrorCategoryTimeout:    "Analysis timed out",
	domain.ErrorCategoryOutput:     "Failed to generate or write output",
	domain.ErrorCategoryProcessing: "Error during duplication analysis",
	domain.ErrorCategoryUnknown:    "An unexpected error occurred",
}

// GetRecoverySuggestions returns recovery suggestions for an error category
func (ec *ErrorCategorizerImpl) GetRecoverySuggestions(category domain.ErrorCategory) []string {
	switch category {
	case domain.ErrorCategoryInput:
		return []string{
			"Check that the paths exist and contain supported source files",
			"Run: shapedup languages to list the recognized extensions",
			"Check --include and --exclude patterns",
		}
	case domain.ErrorCategoryConfig:
		return []string{
			"Verify the values in .shapedup.toml or [tool.shapedup] in pyproject.toml",
			"Run: shapedup init to generate a valid config file",
			"Filters must be patterns such as \"(call _ puts ___)\" or a bare node type",
		}
	case domain.ErrorCategoryTimeout:
		return []string{
			"Increase the per-file limit with --timeout",
			"Exclude generated or minified files with --exclude",
		}
	case domain.ErrorCategoryOutput:
		return []string{
			"Check write permissions for the report directory",
			"Try a different output format",
		}
	case domain.ErrorCategoryProcessing:
		return []string{
			"Some files may have syntax errors; run with --verbose to see which",
			"Inspect a file's tree with: shapedup dump <file>",
		}
	}
	return []string{
		"Run with --verbose for detailed error information",
		"Report the issue if it persists",
	}
}

func containsAnyPattern(str string, patterns []string) bool {
	for _, pattern := range patterns {
		if strings.Contains(str, pattern) {
			return true
		}
	}
	return false
}
