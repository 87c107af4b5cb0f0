package main

import (
	"errors"
	"fmt"
	"io"

	"github.com/fatih/color"

	"github.com/ludo-technologies/shapedup/domain"
	"github.com/ludo-technologies/shapedup/service"
)

// printError writes err to w. Failed checks print their message alone; other
// errors get a category and recovery hints.
func printError(w io.Writer, err error) {
	var de domain.DomainError
	if errors.As(err, &de) && de.Code == domain.ErrCodeCheckFailed {
		fmt.Fprintln(w, color.RedString(de.Message))
		return
	}

	categorizer := service.NewErrorCategorizer()
	categorized := categorizer.Categorize(err)

	fmt.Fprintf(w, "%s %v\n", color.RedString("Error (%s):", categorized.Category), err)
	if categorized.Category == domain.ErrorCategoryUnknown {
		return
	}
	fmt.Fprintln(w, "\nSuggestions:")
	for _, s := range categorizer.GetRecoverySuggestions(categorized.Category) {
		fmt.Fprintf(w, "  • %s\n", s)
	}
}
