package cli

import (
	"os"
	"path/filepath"

	"github.com/spf13/cobra"

	"github.com/varontron/mutation-mapper/internal/infra/config"
	"github.com/varontron/mutation-mapper/internal/infra/fsworkspace"
	"github.com/varontron/mutation-mapper/internal/infra/logger"
	"github.com/varontron/mutation-mapper/internal/infra/workspacefinder"
	"github.com/varontron/mutation-mapper/internal/ui/tui"
)

// rootFlags are shared by every subcommand.
type rootFlags struct {
	workspace string
	debug     bool

	closeLog func() error
}

func (f *rootFlags) close() {
	if f.closeLog != nil {
		_ = f.closeLog()
		f.closeLog = nil
	}
}

func Execute() {
	cmd, flags := newRoot()
	err := cmd.Execute()
	flags.close()
	if err != nil {
		os.Exit(1)
	}
}

func newRootCmd() *cobra.Command {
	cmd, _ := newRoot()
	return cmd
}

func newRoot() (*cobra.Command, *rootFlags) {
	flags := &rootFlags{}

	cmd := &cobra.Command{
		Use:          "mutmapper",
		Short:        "mutmapper: map cancer mutations onto 3D structures",
		Long:         "mutmapper turns mutation tables into PyMOL and Jmol scripts that paint the mutated residues on a PDB structure.",
		SilenceUsage: true,
		PersistentPreRunE: func(_ *cobra.Command, _ []string) error {
			setupLogging(flags)
			return nil
		},
		RunE: func(_ *cobra.Command, _ []string) error {
			wd, err := os.Getwd()
			if err != nil {
				wd = "."
			}
			wd, _ = filepath.Abs(wd)

			deps := tui.Deps{
				StartDir:             wd,
				Workspace:            flags.workspace,
				WorkspaceLocator:     workspacefinder.NewFinder(),
				WorkspaceInitializer: fsworkspace.NewInitializer(),
				Open:                 openSession,
				Logger:               logger.Component("tui"),
				Debug:                flags.debug,
			}
			return tui.Run(deps)
		},
	}

	cmd.PersistentFlags().StringVarP(&flags.workspace, "workspace", "w", "", "Workspace root (optional; autodetected if omitted)")
	cmd.PersistentFlags().BoolVar(&flags.debug, "debug", false, "enable verbose logging to .mutmapper/logs/mutmapper.log")

	cmd.AddCommand(
		initCmd(),
		generateCmd(flags),
		validateCmd(flags),
		summaryCmd(flags),
		tableCmd(flags),
		mutationsCmd(flags),
		stylesCmd(),
		sendCmd(flags),
		watchCmd(flags),
		versionCmd(),
	)
	return cmd, flags
}

// setupLogging routes logs into the workspace when one can be found.
// Outside a workspace records are discarded.
func setupLogging(flags *rootFlags) {
	if flags.closeLog != nil {
		return
	}
	root, err := resolveWorkspaceRoot(flags.workspace)
	if err != nil || !fileExists(filepath.Join(root, config.FileName)) {
		return
	}
	cleanup, err := logger.Setup(logger.Config{Root: root, Debug: flags.debug})
	if err == nil {
		flags.closeLog = cleanup
	}
}
