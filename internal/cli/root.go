// Package cli wires the assembler into cobra commands.
package cli

import (
	"fmt"
	"log/slog"

	"github.com/spf13/cobra"

	"asm6502/internal/config"
	"asm6502/internal/logging"
	"asm6502/pkg/asm"
)

type rootOptions struct {
	cfgFile string
	verbose bool
}

// NewRootCmd builds the command tree.
func NewRootCmd() *cobra.Command {
	opts := &rootOptions{}

	root := &cobra.Command{
		Use:   "asm6502",
		Short: "6502 assembler",
		Long: `asm6502 assembles 6502 source into raw machine code.

Source is one statement per line: a label ("loop:"), an instruction
("LDA #$05", "STA $0200,X", "BNE loop") or a directive (".org $0800",
recorded but ignored). Labels may only be referenced after they are defined.`,
		SilenceUsage:  true,
		SilenceErrors: true,
	}
	root.PersistentFlags().StringVar(&opts.cfgFile, "config", "", "config file, .toml or .yaml (default: $"+config.EnvVar+" or ./asm6502.toml)")
	root.PersistentFlags().BoolVarP(&opts.verbose, "verbose", "v", false, "log at debug level")

	root.AddCommand(
		newAssembleCmd(opts),
		newDumpCmd(opts),
		newEvalCmd(opts),
		newReplCmd(opts),
		newVersionCmd(),
	)
	return root
}

func Execute() error {
	root := NewRootCmd()
	if err := root.Execute(); err != nil {
		printError(root, err)
		return err
	}
	return nil
}

// setup loads the configuration and builds the logger the command runs with.
func (o *rootOptions) setup(cmd *cobra.Command) (*config.Config, *slog.Logger, error) {
	var cfg *config.Config
	var err error
	if o.cfgFile != "" {
		cfg, err = config.Load(o.cfgFile)
	} else {
		cfg, err = config.LoadFromEnv()
	}
	if err != nil {
		return nil, nil, err
	}
	if o.verbose {
		cfg.Log.Level = "debug"
	}
	log := logging.New(cmd.ErrOrStderr(), cfg.Log)
	log.Debug("configuration loaded", "origin", fmt.Sprintf("$%04X", cfg.Assembler.Origin), "max_input", cfg.Assembler.MaxInput)
	return cfg, log, nil
}

func (o *rootOptions) assemblerOptions(cmd *cobra.Command) (asm.Options, *config.Config, error) {
	cfg, log, err := o.setup(cmd)
	if err != nil {
		return asm.Options{}, nil, err
	}
	opts := cfg.AssemblerOptions()
	opts.Logger = log
	return opts, cfg, nil
}

func printError(cmd *cobra.Command, err error) {
	fmt.Fprintf(cmd.ErrOrStderr(), "error: %v\n", err)
}
