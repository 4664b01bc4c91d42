package cli

import (
	"encoding/json"
	"fmt"
	"io"

	"github.com/mmr-tortoise/gitflow-bump/internal/lifecycle"
	"github.com/mmr-tortoise/gitflow-bump/internal/model"
)

// printSummary outputs an operation summary in text or JSON format.
func printSummary(w io.Writer, s *lifecycle.Summary) {
	if IsJSONOutput() {
		printSummaryJSON(w, s)
		return
	}
	printSummaryText(w, s)
}

func printSummaryJSON(w io.Writer, s *lifecycle.Summary) {
	data, _ := json.MarshalIndent(s, "", "  ")
	fmt.Fprintln(w, string(data))
}

// printSummaryText mirrors git-flow's own "Summary of actions" layout.
func printSummaryText(w io.Writer, s *lifecycle.Summary) {
	switch s.Action {
	case lifecycle.ActionStart:
		fmt.Fprintf(w, `
Summary of actions:
- A new branch '%s' was created, based on '%s'
- You are now on branch '%s'

Follow-up actions:
- %s
- When done, run:

     %s

`, s.Branch, s.Base, s.Branch, followUp(s.Kind), s.Next)

	case lifecycle.ActionFinish:
		fmt.Fprintf(w, `
Summary of actions:
- Version of %s bumped to '%s' in %s and committed
- Branch '%s' was finished with git-flow

`, s.Package, s.Version, s.MetadataFile, s.Branch)
	}
}

// followUp returns the work hint shown after starting a branch.
func followUp(kind model.BranchKind) string {
	if kind == model.BranchHotfix {
		return "Start committing your hot fixes"
	}
	return "Start committing last-minute fixes in preparing your release"
}
