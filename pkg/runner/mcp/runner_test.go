package mcp

import (
	"bytes"
	"context"
	"io"
	"net"
	"net/http"
	"strings"
	"testing"
	"time"

	"tableflip.dev/dumpdash/pkg/app"
)

func testApp() *app.Service {
	return &app.Service{
		Backend:     &fakeBackend{dumps: seed()},
		Persistence: flags{},
		Clock:       func() time.Time { return now },
	}
}

const initialize = `{"jsonrpc":"2.0","id":1,"method":"initialize","params":{"protocolVersion":"2025-03-26","capabilities":{},"clientInfo":{"name":"test","version":"1"}}}`

func TestRunnerStdio(t *testing.T) {
	in := strings.NewReader(initialize + "\n" + `{"jsonrpc":"2.0","id":2,"method":"tools/list"}` + "\n")
	var out bytes.Buffer

	r := Runner{App: testApp(), Version: "1.2.3", Transport: TransportStdio, Stdin: in, Stdout: &out}
	if err := r.Do(context.Background()); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	for _, want := range []string{`"name":"dumpdash"`, `"version":"1.2.3"`, "approve_dump", "search_dumps"} {
		if !strings.Contains(out.String(), want) {
			t.Fatalf("expected %s in:\n%s", want, out.String())
		}
	}
}

func TestRunnerHTTP(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	ready := make(chan string, 1)
	done := make(chan error, 1)
	r := Runner{App: testApp(), Listen: "127.0.0.1:0", Path: "tools", Ready: func(url string) { ready <- url }}
	go func() { done <- r.Do(ctx) }()

	var url string
	select {
	case url = <-ready:
	case err := <-done:
		t.Fatalf("runner stopped early: %v", err)
	case <-time.After(5 * time.Second):
		t.Fatalf("runner never listened")
	}
	if !strings.HasPrefix(url, "http://127.0.0.1:") || !strings.HasSuffix(url, "/tools") {
		t.Fatalf("unexpected endpoint %q", url)
	}

	resp, err := http.Post(url, "application/json", strings.NewReader(initialize))
	if err != nil {
		t.Fatalf("initialize: %v", err)
	}
	body, _ := io.ReadAll(resp.Body)
	_ = resp.Body.Close()
	if resp.StatusCode != http.StatusOK || !strings.Contains(string(body), "dumpdash") {
		t.Fatalf("unexpected answer %d: %s", resp.StatusCode, body)
	}

	cancel()
	select {
	case err := <-done:
		if err != nil {
			t.Fatalf("expected a clean shutdown, got %v", err)
		}
	case <-time.After(10 * time.Second):
		t.Fatalf("runner did not stop")
	}
}

func TestRunnerRejectsBadOptions(t *testing.T) {
	for name, r := range map[string]Runner{
		"no service":    {},
		"transport":     {App: testApp(), Transport: "carrier-pigeon"},
		"half tls pair": {App: testApp(), CertFile: "cert.pem"},
	} {
		if err := r.Do(context.Background()); err == nil {
			t.Errorf("%s: expected an error", name)
		}
	}
}

func TestEndpoint(t *testing.T) {
	tests := map[string]struct {
		runner Runner
		addr   net.Addr
		path   string
		want   string
	}{
		"loopback": {
			addr: &net.TCPAddr{IP: net.IPv4(127, 0, 0, 1), Port: 7337},
			path: DefaultPath,
			want: "http://127.0.0.1:7337/dumpdash/mcp",
		},
		"wildcard": {
			addr: &net.TCPAddr{IP: net.IPv6unspecified, Port: 9000},
			path: "/mcp",
			want: "http://127.0.0.1:9000/mcp",
		},
		"ipv6 tls": {
			runner: Runner{CertFile: "c", KeyFile: "k"},
			addr:   &net.TCPAddr{IP: net.IPv6loopback, Port: 443},
			path:   "/mcp",
			want:   "https://[::1]:443/mcp",
		},
	}
	for name, tc := range tests {
		if got := tc.runner.endpoint(tc.addr, tc.path); got != tc.want {
			t.Errorf("%s: got %q, want %q", name, got, tc.want)
		}
	}
}

func TestEndpointPath(t *testing.T) {
	for in, want := range map[string]string{
		"":      DefaultPath,
		"  ":    DefaultPath,
		"mcp":   "/mcp",
		"/a/b":  "/a/b",
		" /x/ ": "/x/",
	} {
		if got := endpointPath(in); got != want {
			t.Errorf("endpointPath(%q) = %q, want %q", in, got, want)
		}
	}
}
