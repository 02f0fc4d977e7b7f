package cli

import (
	"context"
	"fmt"
	"io"
	"os"
	"os/signal"
	"path/filepath"
	"time"

	"github.com/spf13/cobra"

	"github.com/varontron/mutation-mapper/internal/infra/logger"
	"github.com/varontron/mutation-mapper/internal/infra/watch"
	"github.com/varontron/mutation-mapper/internal/usecase"
)

func watchCmd(root *rootFlags) *cobra.Command {
	var flags generateFlags
	var noSave bool
	var send bool
	var sendURL string
	var debounce time.Duration

	c := &cobra.Command{
		Use:   "watch",
		Short: "Regenerate the script whenever the mutation or structure file changes",
		RunE: func(cmd *cobra.Command, _ []string) error {
			ws, err := loadWorkspace(root.workspace)
			if err != nil {
				return err
			}
			req, err := flags.request(cmd, ws)
			if err != nil {
				return err
			}
			req.Save = !noSave

			ctx, stop := signal.NotifyContext(cmd.Context(), os.Interrupt)
			defer stop()

			uc := ws.generator(ws.store)
			out, errOut := cmd.OutOrStdout(), cmd.ErrOrStderr()

			regenerate := func(ctx context.Context) {
				res, err := uc.Execute(ctx, req)
				if err != nil {
					fmt.Fprintf(errOut, "[%s] error: %v\n", clock(), err)
					return
				}
				reportRegenerated(out, ws, res)
				if send {
					if err := sendScript(ctx, ws.cfg.Remote, sendURL, res.Script, out); err != nil {
						fmt.Fprintf(errOut, "[%s] send: %v\n", clock(), err)
					}
				}
			}

			regenerate(ctx)

			w := watch.New(
				[]string{req.MutationsPath, req.StructuresPath},
				func(ctx context.Context, changed []string) {
					for _, p := range changed {
						fmt.Fprintf(out, "[%s] changed %s\n", clock(), relPath(ws.root, p))
					}
					regenerate(ctx)
				},
				watch.WithDebounce(debounce),
				watch.WithLogger(logger.Component("watch")),
			)

			fmt.Fprintf(out, "watching %s and %s (Ctrl+C to stop)\n",
				filepath.Base(req.MutationsPath), filepath.Base(req.StructuresPath))
			return w.Run(ctx)
		},
	}

	flags.bind(c)
	c.Flags().BoolVar(&noSave, "no-save", false, "Do not save scripts under scripts/")
	c.Flags().BoolVar(&send, "send", false, "Send every regenerated script to a running PyMOL")
	c.Flags().StringVar(&sendURL, "url", "", "PyMOL XML-RPC endpoint (default: remote.pymol_url)")
	c.Flags().DurationVar(&debounce, "debounce", 300*time.Millisecond, "Quiet period before regenerating")
	return c
}

func reportRegenerated(w io.Writer, ws *workspaceCtx, res usecase.GenerateResult) {
	line := fmt.Sprintf("[%s] %s on %s: %d mapped / %d unmapped", clock(), res.Script.Gene, res.Structure.Label(), len(res.Mapped), len(res.Unmapped))
	if res.SavedID != "" {
		line += " -> " + relPath(ws.root, ws.store.Path(res.SavedID, res.Script.Viewer))
	}
	fmt.Fprintln(w, line)
}

func clock() string {
	return time.Now().Format("15:04:05")
}
