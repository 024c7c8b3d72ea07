package commands

import (
	"fmt"
	"io"
	"os"
	"path/filepath"

	"github.com/spf13/cobra"

	"github.com/splitbook-dev/splitbook/internal/config"
	"github.com/splitbook-dev/splitbook/internal/importer"
	"github.com/splitbook-dev/splitbook/internal/model"
)

func newInitCommand() *cobra.Command {
	var name string
	var settlement string
	var participants []string

	cmd := &cobra.Command{
		Use:   "init [directory]",
		Short: "Initialize a new splitbook group",
		Args:  cobra.MaximumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			dir := "."
			if len(args) > 0 {
				dir = args[0]
			}

			absDir, err := filepath.Abs(dir)
			if err != nil {
				return fmt.Errorf("resolving path: %w", err)
			}

			return runInit(absDir, name, settlement, participants, cmd.OutOrStdout())
		},
	}

	cmd.Flags().StringVar(&name, "name", "", "group name (required)")
	_ = cmd.MarkFlagRequired("name")
	cmd.Flags().StringVar(&settlement, "settlement", string(model.SettleDirect), "settlement policy")
	cmd.Flags().StringArrayVar(&participants, "participant", nil, "participant name (repeatable)")

	return cmd
}

func runInit(dir, name, settlement string, participants []string, out io.Writer) error {
	// Create directory structure.
	for _, d := range []string{"import", "logs"} {
		if err := os.MkdirAll(filepath.Join(dir, d), 0o755); err != nil {
			return fmt.Errorf("creating directory %s: %w", d, err)
		}
	}

	// Write group.yaml.
	cfg := config.Default(name, participants...)
	cfg.Group.Settlement = settlement
	if err := config.Save(filepath.Join(dir, "group.yaml"), cfg); err != nil {
		return fmt.Errorf("writing config: %w", err)
	}

	// Write a header-only expenses.csv as a starting point.
	f, err := os.Create(filepath.Join(dir, "import", "expenses.csv"))
	if err != nil {
		return fmt.Errorf("creating expenses file: %w", err)
	}
	defer f.Close()
	if err := importer.WriteRows(f, nil); err != nil {
		return fmt.Errorf("writing expenses file: %w", err)
	}

	fmt.Fprintf(out, "Initialized group %q at %s\n", name, dir)
	return nil
}
