package cli

import (
	"io"

	"github.com/spf13/cobra"

	"asm6502/internal/tui"
)

func newReplCmd(root *rootOptions) *cobra.Command {
	return &cobra.Command{
		Use:   "repl",
		Short: "Assemble interactively, one line at a time",
		Long: `repl opens a terminal session. Each line is assembled together with the
lines accepted before it; a line that fails is reported and discarded.

  =expr      evaluate an expression
  :list      show the listing
  :symbols   show the symbol table
  :ast       show the syntax tree
  :clear     start over
  esc        quit`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			// Log records would corrupt the full-screen UI.
			root.verbose = false
			cmd.SetErr(io.Discard)
			opts, _, err := root.assemblerOptions(cmd)
			if err != nil {
				return err
			}
			return tui.Run(opts)
		},
	}
}
