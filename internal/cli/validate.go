package cli

import (
	"fmt"
	"strconv"

	"github.com/spf13/cobra"

	kerrors "github.com/kindredlab/kindred/pkg/errors"
	"github.com/kindredlab/kindred/pkg/graph"
	"github.com/kindredlab/kindred/pkg/kin"
)

// validateCommand creates the validate command for checking family graphs.
func (c *CLI) validateCommand() *cobra.Command {
	return &cobra.Command{
		Use:   "validate [graph.json]",
		Short: "Check a family graph's structural invariants",
		Long: `Check a family graph's structural invariants.

Validation rejects empty or duplicate ids, partnerships without parents,
references to unknown people and ancestry cycles. The first violation is
reported with its machine-readable error code.`,
		Args: cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			return c.runValidate(args[0])
		},
	}
}

func (c *CLI) runValidate(input string) error {
	g, err := graph.ReadGraphFile(input)
	if err != nil {
		return fmt.Errorf("load graph %s: %w", input, err)
	}

	if err := kin.Validate(g); err != nil {
		structured := kerrors.FromGraphError(err)
		printError("Graph is invalid")
		printDetail("code: %s", structured.Code)
		printDetail("%v", err)
		return structured
	}

	roots := kin.Roots(g)

	printSuccess("Graph is valid")
	printKeyValue("people", strconv.Itoa(g.PersonCount()))
	printKeyValue("partnerships", strconv.Itoa(g.PartnershipCount()))
	printKeyValue("family lines", strconv.Itoa(len(roots)))
	printNewline()
	printNextStep("Layout", "kindred layout "+input)

	return nil
}
