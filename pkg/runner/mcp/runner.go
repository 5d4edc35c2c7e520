package mcp

import (
	"context"
	"errors"
	"fmt"
	"io"
	stdlog "log"
	"net"
	"net/http"
	"os"
	"strings"
	"time"

	"github.com/mark3labs/mcp-go/mcp"
	"github.com/mark3labs/mcp-go/server"
	"github.com/rs/zerolog/log"

	"tableflip.dev/dumpdash/pkg/app"
)

// Transport selects how the MCP server is exposed.
type Transport string

const (
	// TransportHTTP serves streamable HTTP.
	TransportHTTP Transport = "http"
	// TransportStdio serves a single client over stdin and stdout.
	TransportStdio Transport = "stdio"
)

// Where `dumpdash mcp` listens when no flags are given.
const (
	DefaultListen = "127.0.0.1:7337"
	DefaultPath   = "/dumpdash/mcp"
)

const shutdownGrace = 5 * time.Second

// Runner serves the dashboard to MCP clients until ctx is done.
type Runner struct {
	App     *app.Service
	Version string

	Transport Transport
	Listen    string
	Path      string
	CertFile  string
	KeyFile   string
	// Ready receives the endpoint URL once the HTTP listener is up.
	Ready func(url string)

	Stdin  io.Reader
	Stdout io.Writer
}

// Do executes the runner.
func (r Runner) Do(ctx context.Context) error {
	if r.App == nil {
		return errors.New("mcp runner requires the dashboard service")
	}
	switch t := Transport(strings.ToLower(string(r.Transport))); t {
	case "", TransportHTTP:
		if (r.CertFile == "") != (r.KeyFile == "") {
			return errors.New("both --tls-cert and --tls-key are needed for https")
		}
		return r.serveHTTP(ctx, r.server())
	case TransportStdio:
		return r.serveStdio(ctx, r.server())
	default:
		return fmt.Errorf("unknown MCP transport %q (expected http or stdio)", t)
	}
}

func (r Runner) server() *server.MCPServer {
	hooks := &server.Hooks{}
	hooks.AddBeforeCallTool(func(_ context.Context, _ any, req *mcp.CallToolRequest) {
		toolCallsTotal.WithLabelValues(req.Params.Name).Inc()
		log.Debug().Str("tool", req.Params.Name).Msg("mcp: tool call")
	})
	hooks.AddOnError(func(_ context.Context, _ any, method mcp.MCPMethod, _ any, err error) {
		log.Warn().Err(err).Str("method", string(method)).Msg("mcp: request failed")
	})

	version := r.Version
	if version == "" {
		version = "dev"
	}
	srv := server.NewMCPServer(
		"dumpdash",
		version,
		server.WithResourceCapabilities(false, false),
		server.WithToolCapabilities(false),
		server.WithInstructions("Read the time-bucketed dump dashboard, search dumps and review AI-flagged dumps. "+
			"Rejecting needs a reason of at least ten characters."),
		server.WithHooks(hooks),
		server.WithResourceRecovery(),
		server.WithRecovery(),
	)

	svc := NewService(r.App)
	registerResources(srv, svc)
	registerTools(srv, svc)
	return srv
}

func (r Runner) serveStdio(ctx context.Context, srv *server.MCPServer) error {
	in, out := r.Stdin, r.Stdout
	if in == nil {
		in = os.Stdin
	}
	if out == nil {
		out = os.Stdout
	}
	stdio := server.NewStdioServer(srv)
	stdio.SetErrorLogger(stdlog.New(log.Logger, "", 0))

	log.Debug().Msg("mcp: serving on stdio")
	err := stdio.Listen(ctx, in, out)
	if errors.Is(err, context.Canceled) {
		return nil
	}
	return err
}

func (r Runner) serveHTTP(ctx context.Context, srv *server.MCPServer) error {
	path := endpointPath(r.Path)
	listen := r.Listen
	if listen == "" {
		listen = DefaultListen
	}

	mux := http.NewServeMux()
	mux.Handle(path, server.NewStreamableHTTPServer(srv, server.WithEndpointPath(path)))
	httpSrv := &http.Server{Handler: mux, ReadHeaderTimeout: 10 * time.Second}

	ln, err := net.Listen("tcp", listen)
	if err != nil {
		return fmt.Errorf("mcp: listen on %s: %w", listen, err)
	}
	url := r.endpoint(ln.Addr(), path)
	log.Info().Str("url", url).Msg("mcp: listening")
	if r.Ready != nil {
		r.Ready(url)
	}

	go func() {
		<-ctx.Done()
		shutdownCtx, cancel := context.WithTimeout(context.Background(), shutdownGrace)
		defer cancel()
		_ = httpSrv.Shutdown(shutdownCtx)
	}()

	if r.CertFile != "" {
		err = httpSrv.ServeTLS(ln, r.CertFile, r.KeyFile)
	} else {
		err = httpSrv.Serve(ln)
	}
	if errors.Is(err, http.ErrServerClosed) {
		return nil
	}
	return err
}

// endpoint is the URL a client on this machine should dial. Wildcard
// listeners are reported as loopback.
func (r Runner) endpoint(addr net.Addr, path string) string {
	scheme := "http"
	if r.CertFile != "" {
		scheme = "https"
	}
	host, port, err := net.SplitHostPort(addr.String())
	if err != nil {
		return scheme + "://" + addr.String() + path
	}
	if ip := net.ParseIP(host); ip == nil || ip.IsUnspecified() {
		host = "127.0.0.1"
	}
	return scheme + "://" + net.JoinHostPort(host, port) + path
}

func endpointPath(p string) string {
	p = strings.TrimSpace(p)
	if p == "" {
		return DefaultPath
	}
	if !strings.HasPrefix(p, "/") {
		p = "/" + p
	}
	return p
}
