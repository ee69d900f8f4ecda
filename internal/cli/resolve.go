package cli

import (
	"encoding/json"
	"fmt"
	"strings"

	"github.com/spf13/cobra"

	"github.com/matzehuels/slotframe/pkg/core/layout"
	"github.com/matzehuels/slotframe/pkg/errors"
	"github.com/matzehuels/slotframe/pkg/params"
)

// resolveCommand resolves a single layout instance from the command line.
func (c *CLI) resolveCommand() *cobra.Command {
	var (
		pairs   []string
		classes bool
	)

	cmd := &cobra.Command{
		Use:   "resolve <variant|component>",
		Short: "Resolve one layout instance to its tree",
		Long: `Resolve one layout instance to its tree.

The argument is a variant id ("fifty-fifty") or a CMS rendering name
("ColumnSplitter"). Authoring parameters are passed with -p, for example:

  slotframe resolve column-splitter -p DynamicPlaceholderId=3 \
    -p EnabledPlaceholders=1,3 -p ColumnWidth1=md:w-1/3

The tree is printed as JSON. --classes prints the container class list instead.`,
		Args: cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			p, err := params.FromPairs(pairs)
			if err != nil {
				return err
			}
			req, err := requestFor(args[0], p)
			if err != nil {
				return err
			}
			tree, err := layout.Resolve(req)
			if err != nil {
				return err
			}
			c.Logger.Debug("resolved layout", "variant", tree.Variant, "regions", len(tree.Regions))

			out := cmd.OutOrStdout()
			if classes {
				_, err := fmt.Fprintln(out, strings.Join(tree.ClassList(), " "))
				return err
			}
			enc := json.NewEncoder(out)
			enc.SetIndent("", "  ")
			return enc.Encode(tree)
		},
	}

	cmd.Flags().StringArrayVarP(&pairs, "param", "p", nil, "authoring parameter as key=value (repeatable)")
	cmd.Flags().BoolVar(&classes, "classes", false, "print only the container class list")
	return cmd
}

// requestFor accepts either a variant id or a rendering name.
func requestFor(name string, p map[string]string) (layout.Request, error) {
	req, err := params.Request(name, p)
	if err == nil {
		return req, nil
	}
	if r, ok := params.ForComponent(name, p); ok {
		return r, nil
	}
	if errors.Is(err, errors.ErrCodeUnknownVariant) {
		return layout.Request{}, errors.New(errors.ErrCodeUnknownVariant,
			"%q is neither a layout variant nor a layout component (see 'slotframe variants')", name)
	}
	return layout.Request{}, err
}
