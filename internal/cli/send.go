package cli

import (
	"context"
	"fmt"
	"io"
	"os"
	"os/signal"
	"path/filepath"
	"strings"
	"time"

	"github.com/spf13/cobra"

	"github.com/varontron/mutation-mapper/internal/domain"
	"github.com/varontron/mutation-mapper/internal/infra/httpclient"
	"github.com/varontron/mutation-mapper/internal/infra/logger"
	"github.com/varontron/mutation-mapper/internal/infra/pymolrpc"
)

func sendCmd(root *rootFlags) *cobra.Command {
	var url string
	var timeout time.Duration

	c := &cobra.Command{
		Use:   "send <script>",
		Short: "Send a saved script to a running PyMOL (pymol -R)",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			remote := domain.DefaultConfig().Remote
			if ws, err := loadWorkspace(root.workspace); err == nil {
				remote = ws.cfg.Remote
			}
			if timeout > 0 {
				remote.Timeout = timeout
			}

			script, err := readScript(args[0])
			if err != nil {
				return err
			}

			ctx, stop := signal.NotifyContext(cmd.Context(), os.Interrupt)
			defer stop()

			return sendScript(ctx, remote, url, script, cmd.OutOrStdout())
		},
	}

	c.Flags().StringVar(&url, "url", "", "PyMOL XML-RPC endpoint (default: remote.pymol_url)")
	c.Flags().DurationVar(&timeout, "timeout", 0, "Per-request timeout (default: remote.timeout)")
	return c
}

func sendScript(ctx context.Context, remote domain.RemoteConfig, url string, script domain.Script, w io.Writer) error {
	if strings.TrimSpace(url) == "" {
		url = remote.PyMOLURL
	}
	if url == "" {
		url = pymolrpc.DefaultURL
	}

	hc := httpclient.FromRemote(remote)
	client := pymolrpc.New(
		pymolrpc.WithURL(url),
		pymolrpc.WithTransport(httpclient.NewTransport(hc)),
		pymolrpc.WithTimeout(hc.Timeout),
		pymolrpc.WithLogger(logger.Component("pymolrpc")),
	)
	if err := client.Send(ctx, script); err != nil {
		return err
	}
	fmt.Fprintf(w, "sent %d command(s) to %s\n", len(script.Lines()), url)
	return nil
}

// readScript loads a script file; the viewer follows the file extension.
func readScript(path string) (domain.Script, error) {
	b, err := os.ReadFile(path)
	if err != nil {
		return domain.Script{}, &domain.OpError{Op: "cli.send.read", Kind: domain.KindNotFound, Path: path, Err: err}
	}

	ext := strings.ToLower(filepath.Ext(path))
	var viewer domain.Viewer
	for _, v := range domain.Viewers() {
		if v.ScriptExt() == ext {
			viewer = v
		}
	}
	if viewer == "" {
		return domain.Script{}, domain.Unsupported("cli.send.read", "script extension %q (expected .pml or .spt)", ext)
	}

	var cmds []string
	for _, line := range strings.Split(string(b), "\n") {
		line = strings.TrimRight(line, "\r")
		if t := strings.TrimSpace(line); t == "" || strings.HasPrefix(t, "#") {
			continue
		}
		cmds = append(cmds, line)
	}
	return domain.Script{Viewer: viewer, Commands: cmds}, nil
}
