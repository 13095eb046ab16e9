package cli

import (
	"fmt"
	"io"

	"textpatch/internal/domain"
)

// printReport writes one status line per file in input order.
func printReport(w io.Writer, report *domain.Report) {
	for _, res := range report.Results {
		fmt.Fprintln(w, statusLine(res, report.DryRun))
	}
}

func statusLine(res domain.FileResult, dryRun bool) string {
	switch res.Outcome {
	case domain.OutcomeUpdated:
		if dryRun {
			return "Would update " + res.Path
		}
		return "Updated " + res.Path
	case domain.OutcomeReverted:
		return "Reverted " + res.Path
	case domain.OutcomeFailed:
		return fmt.Sprintf("Error processing %s: %v", res.Path, res.Err)
	default:
		return "No changes in " + res.Path
	}
}
