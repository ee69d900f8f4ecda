package cli

import (
	"context"
	"fmt"

	"github.com/spf13/cobra"

	"github.com/matzehuels/slotframe/pkg/compose"
	"github.com/matzehuels/slotframe/pkg/page"
)

// checkCommand composes page files and reports their authoring issues.
func (c *CLI) checkCommand() *cobra.Command {
	var (
		maxDepth int
		strict   bool
	)

	cmd := &cobra.Command{
		Use:   "check <page>...",
		Short: "Report authoring issues in page files",
		Long: `Compose each page and report authoring issues: unknown variants,
placeholders that match no enabled region, content components with nested
placeholders and nesting that is too deep.

The command fails when any page has errors. With --strict warnings fail too.`,
		Args: cobra.MinimumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			failed := 0
			for _, path := range args {
				bad, err := c.runCheck(cmd.Context(), path, maxDepth, strict)
				if err != nil {
					return err
				}
				if bad {
					failed++
				}
			}
			if failed > 0 {
				return fmt.Errorf("%d of %d pages have issues", failed, len(args))
			}
			return nil
		},
	}

	cmd.Flags().IntVar(&maxDepth, "max-depth", compose.DefaultMaxDepth, "maximum layout nesting depth")
	cmd.Flags().BoolVar(&strict, "strict", false, "treat warnings as failures")
	return cmd
}

// runCheck reports whether the page at path fails the check.
func (c *CLI) runCheck(ctx context.Context, path string, maxDepth int, strict bool) (bool, error) {
	prog := newProgress(c.Logger)
	p, err := page.Import(path)
	if err != nil {
		return false, err
	}
	doc, err := compose.Compose(ctx, p, compose.Options{MaxDepth: maxDepth})
	if err != nil {
		return false, fmt.Errorf("compose %s: %w", path, err)
	}
	prog.done("Composed " + p.Name)

	errs, warns := countIssues(doc.Issues)
	if errs == 0 && warns == 0 {
		printSuccess("%s: %d layouts, no issues", path, doc.Layouts())
		return false, nil
	}
	if errs > 0 || strict {
		printError("%s: %d errors, %d warnings", path, errs, warns)
	} else {
		printWarning("%s: %d warnings", path, warns)
	}
	printIssues(doc.Issues)
	return errs > 0 || strict, nil
}

func countIssues(issues []compose.Issue) (errs, warns int) {
	for _, is := range issues {
		if is.Level == compose.LevelError {
			errs++
		} else {
			warns++
		}
	}
	return errs, warns
}
