package cli

import (
	"fmt"
	"strings"

	"github.com/spf13/cobra"

	"asm6502/pkg/asm"
)

func newEvalCmd(root *rootOptions) *cobra.Command {
	var showTree bool

	cmd := &cobra.Command{
		Use:   "eval <expression>",
		Short: "Evaluate an arithmetic expression",
		Long: `eval folds + - * / over numeric and character literals, with
parentheses for grouping. Literals may be decimal, $hex, 0xhex, 0bbinary or 'c'.`,
		Example: `  asm6502 eval '($10 + 2) * 4'`,
		Args:    cobra.MinimumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			opts, _, err := root.assemblerOptions(cmd)
			if err != nil {
				return err
			}
			a := asm.NewAssembler(opts)
			idx, err := a.ParseExpression(strings.Join(args, " "))
			if err != nil {
				return err
			}
			v, err := a.Evaluate(idx)
			if err != nil {
				return err
			}

			w := cmd.OutOrStdout()
			if showTree {
				if err := asm.DumpAST(w, a.Arena(), idx); err != nil {
					return err
				}
			}
			fmt.Fprintf(w, "%d ($%X)\n", v, v)
			return nil
		},
	}
	cmd.Flags().BoolVar(&showTree, "ast", false, "print the expression tree first")
	return cmd
}
