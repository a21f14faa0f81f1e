package cli

import (
	"fmt"
	"io"
	"strings"

	"github.com/charmbracelet/lipgloss"
	"github.com/spf13/cobra"

	"asm6502/pkg/asm"
	"asm6502/pkg/utils"
)

var headingStyle = lipgloss.NewStyle().Bold(true).Foreground(lipgloss.Color("#7C3AED"))

func newDumpCmd(root *rootOptions) *cobra.Command {
	var tokens, tree, symbols bool

	cmd := &cobra.Command{
		Use:   "dump <file>",
		Short: "Print the tokens, syntax tree and symbol table of a source file",
		Long: `dump assembles <file> and prints its internal views. With no selection
flags every view is printed.`,
		Args: cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			opts, cfg, err := root.assemblerOptions(cmd)
			if err != nil {
				return err
			}
			src, err := utils.ReadSource(args[0], cfg.Assembler.MaxInput)
			if err != nil {
				return err
			}
			if !tokens && !tree && !symbols {
				tokens, tree, symbols = true, true, true
			}

			a := asm.NewAssembler(opts)
			w := cmd.OutOrStdout()
			if tokens {
				toks, err := a.Lex(src)
				if err != nil {
					return fmt.Errorf("%s: %w", args[0], err)
				}
				section(w, "Tokens")
				for _, t := range toks {
					fmt.Fprintln(w, t)
				}
			}

			if _, err := a.Assemble(src); err != nil {
				return fmt.Errorf("%s: %w", args[0], err)
			}
			if tree {
				section(w, "Syntax tree")
				if err := asm.DumpAST(w, a.Arena(), a.Root()); err != nil {
					return err
				}
			}
			if symbols {
				section(w, "Symbols")
				fmt.Fprint(w, a.Symbols().String())
			}
			return nil
		},
	}
	cmd.Flags().BoolVar(&tokens, "tokens", false, "print the token stream")
	cmd.Flags().BoolVar(&tree, "ast", false, "print the syntax tree")
	cmd.Flags().BoolVar(&symbols, "symbols", false, "print the symbol table")
	return cmd
}

func section(w io.Writer, title string) {
	fmt.Fprintln(w, headingStyle.Render(title))
	fmt.Fprintln(w, strings.Repeat("-", len(title)))
}
