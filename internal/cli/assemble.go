package cli

import (
	"fmt"

	"github.com/spf13/cobra"

	"asm6502/pkg/asm"
	"asm6502/pkg/utils"
)

func newAssembleCmd(root *rootOptions) *cobra.Command {
	var (
		outPath string
		listing bool
		origin  int
	)

	cmd := &cobra.Command{
		Use:   "assemble <file>",
		Short: "Assemble a source file into a raw binary",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			opts, cfg, err := root.assemblerOptions(cmd)
			if err != nil {
				return err
			}
			if cmd.Flags().Changed("origin") {
				if origin < 0 || origin > 0xFFFF {
					return fmt.Errorf("origin %#x is outside $0000-$FFFF", origin)
				}
				opts.Origin = uint16(origin)
			}

			src, err := utils.ReadSource(args[0], cfg.Assembler.MaxInput)
			if err != nil {
				return err
			}
			prog, err := asm.NewAssembler(opts).Assemble(src)
			if err != nil {
				return fmt.Errorf("%s: %w", args[0], err)
			}

			out := outPath
			if out == "" {
				out = utils.DefaultOutputPath(args[0])
			}
			if err := utils.WriteBinary(out, prog.Code); err != nil {
				return fmt.Errorf("failed to write binary file %q: %w", out, err)
			}

			w := cmd.OutOrStdout()
			if listing {
				fmt.Fprint(w, prog.ListingString())
			}
			fmt.Fprintf(w, "assembled %d bytes at $%04X -> %s\n", len(prog.Code), prog.Origin, out)
			return nil
		},
	}
	cmd.Flags().StringVarP(&outPath, "out", "o", "", "output binary path (default: input with .bin extension)")
	cmd.Flags().BoolVarP(&listing, "listing", "l", false, "print the address/bytes/source listing")
	cmd.Flags().IntVar(&origin, "origin", asm.DefaultOrigin, "load address, overrides the config file")
	return cmd
}
