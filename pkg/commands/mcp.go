package commands

import (
	"fmt"
	"strings"

	"github.com/spf13/cobra"

	"tableflip.dev/dumpdash/pkg/runner/mcp"
)

func addMCP(topLevel *cobra.Command) {
	r := &mcp.Runner{}
	var transport string

	cmd := &cobra.Command{
		Use:   "mcp",
		Short: "Start the Model Context Protocol server",
		Long: `Launch an MCP server that lets assistants read the dashboard, look up and
search dumps, list reminders, and approve or reject dumps.`,
		Example: `
dumpdash mcp
dumpdash mcp --transport stdio
dumpdash mcp --listen :0 --path /mcp
`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			cmd.SilenceUsage = true
			svc, err := loadService()
			if err != nil {
				return err
			}
			r.App = svc
			r.Version = version
			r.Transport = mcp.Transport(strings.TrimSpace(transport))
			r.Stdin = cmd.InOrStdin()
			r.Stdout = cmd.OutOrStdout()
			r.Ready = func(url string) {
				_, _ = fmt.Fprintf(cmd.ErrOrStderr(), "MCP server listening on %s\n", url)
			}
			return r.Do(cmd.Context())
		},
	}

	cmd.Flags().StringVar(&transport, "transport", string(mcp.TransportHTTP), "Transport to use: http or stdio.")
	cmd.Flags().StringVar(&r.Listen, "listen", mcp.DefaultListen, "Address for the HTTP transport (host:port, port 0 picks one).")
	cmd.Flags().StringVar(&r.Path, "path", mcp.DefaultPath, "HTTP endpoint path.")
	cmd.Flags().StringVar(&r.CertFile, "tls-cert", "", "TLS certificate file, serves https with --tls-key.")
	cmd.Flags().StringVar(&r.KeyFile, "tls-key", "", "TLS private key file.")

	topLevel.AddCommand(cmd)
}
