package cli

import (
	"bytes"
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"textpatch/internal/domain"
)

func TestPrintReport(t *testing.T) {
	report := &domain.Report{}
	report.Add(domain.FileResult{Path: "/p/a.java", Outcome: domain.OutcomeUpdated, Replacements: 2})
	report.Add(domain.FileResult{Path: "/p/b.java", Outcome: domain.OutcomeUnchanged})
	report.Add(domain.FileResult{Path: "/p/c.java", Outcome: domain.OutcomeFailed, Err: errors.New("boom")})
	report.Add(domain.FileResult{Path: "/p/d.java", Outcome: domain.OutcomeReverted})

	var buf bytes.Buffer
	printReport(&buf, report)

	assert.Equal(t, "Updated /p/a.java\n"+
		"No changes in /p/b.java\n"+
		"Error processing /p/c.java: boom\n"+
		"Reverted /p/d.java\n", buf.String())
}

func TestPrintReport_DryRun(t *testing.T) {
	report := &domain.Report{DryRun: true}
	report.Add(domain.FileResult{Path: "a", Outcome: domain.OutcomeUpdated})

	var buf bytes.Buffer
	printReport(&buf, report)
	assert.Equal(t, "Would update a\n", buf.String())
}
