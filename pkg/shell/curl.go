package shell

import (
	"context"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"sort"
	"strings"
	"time"

	"github.com/substrata-labs/vshell/pkg/config"
	"github.com/substrata-labs/vshell/pkg/logger"
	"github.com/substrata-labs/vshell/pkg/transport"
)

// newHTTPClient builds the client for outbound requests; tests swap it for
// one backed by httptest.
var newHTTPClient = transport.NewClient

var newH2Client = transport.NewH2Client

// clientFor selects the client variant the config asks for.
func clientFor(cfg config.HTTPConfig, timeout time.Duration) (*http.Client, error) {
	if cfg.HTTP2 {
		return newH2Client(timeout)
	}
	if cfg.ProxyURL != "" {
		proxyURL, err := url.Parse(cfg.ProxyURL)
		if err != nil {
			return nil, fmt.Errorf("invalid proxy URL: %w", err)
		}
		return &http.Client{
			Timeout:   timeout,
			Transport: transport.NewProxyTransport(proxyURL),
		}, nil
	}
	return newHTTPClient(timeout), nil
}

// cmdCurl performs an HTTP request and returns the response body on stdout.
// Relative URLs resolve against the configured base URL, and configured
// default headers are applied before any -H overrides. The "browse" command
// is an alias for it.
func cmdCurl(ctx context.Context, args []string, cc *commandContext) Result {
	method := ""
	headers := map[string]string{}
	var data string
	var hasData bool
	var outFile string
	var includeHead bool
	var rawURL string

	for i := 0; i < len(args); i++ {
		a := args[i]
		switch {
		case a == "-X" || a == "--request":
			i++
			if i >= len(args) {
				return errResult("curl: option %s requires an argument", a)
			}
			method = strings.ToUpper(args[i])
		case a == "-H" || a == "--header":
			i++
			if i >= len(args) {
				return errResult("curl: option %s requires an argument", a)
			}
			name, value, ok := strings.Cut(args[i], ":")
			if !ok {
				return errResult("curl: malformed header %q", args[i])
			}
			headers[strings.TrimSpace(name)] = strings.TrimSpace(value)
		case a == "-d" || a == "--data" || a == "--data-raw":
			i++
			if i >= len(args) {
				return errResult("curl: option %s requires an argument", a)
			}
			data = args[i]
			hasData = true
		case a == "-o" || a == "--output":
			i++
			if i >= len(args) {
				return errResult("curl: option %s requires an argument", a)
			}
			outFile = args[i]
		case a == "-i" || a == "--include":
			includeHead = true
		case a == "-s" || a == "-sS" || a == "-S" || a == "-L" || a == "--silent" || a == "--location":
			// accepted for compatibility, no effect here
		case strings.HasPrefix(a, "-"):
			return errResult("curl: unknown option: %s", a)
		default:
			if rawURL != "" {
				return errResult("curl: multiple URLs are not supported")
			}
			rawURL = a
		}
	}

	if rawURL == "" {
		return errResult("curl: no URL specified")
	}

	target, err := resolveURL(rawURL, cc.cfg.HTTP.BaseURL)
	if err != nil {
		return errResult("curl: %v", err)
	}

	if method == "" {
		if hasData {
			method = "POST"
		} else {
			method = "GET"
		}
	}

	timeout := time.Duration(cc.cfg.HTTP.TimeoutSeconds) * time.Second
	reqCtx := ctx
	if timeout > 0 {
		var cancel context.CancelFunc
		reqCtx, cancel = context.WithTimeout(ctx, timeout)
		defer cancel()
	}

	var body io.Reader
	if hasData {
		body = strings.NewReader(data)
	}
	req, err := http.NewRequestWithContext(reqCtx, method, target, body)
	if err != nil {
		return errResult("curl: %v", err)
	}

	for name, value := range cc.cfg.HTTP.Headers {
		req.Header.Set(name, value)
	}
	for name, value := range headers {
		req.Header.Set(name, value)
	}
	if hasData && req.Header.Get("Content-Type") == "" {
		req.Header.Set("Content-Type", "application/x-www-form-urlencoded")
	}

	logger.DebugCF("shell", "http request", map[string]interface{}{
		"method": method,
		"url":    target,
	})

	client, err := clientFor(cc.cfg.HTTP, timeout)
	if err != nil {
		return errResult("curl: %v", err)
	}
	resp, err := client.Do(req)
	if err != nil {
		return errResult("curl: %v", err)
	}
	defer resp.Body.Close()

	maxBytes := cc.cfg.HTTP.MaxResponseBytes
	if maxBytes <= 0 {
		maxBytes = 1 << 20
	}
	raw, err := io.ReadAll(io.LimitReader(resp.Body, int64(maxBytes)+1))
	if err != nil {
		return errResult("curl: reading response: %v", err)
	}
	truncated := len(raw) > maxBytes
	if truncated {
		raw = raw[:maxBytes]
	}

	out := string(raw)
	if truncated {
		out += fmt.Sprintf("\n[response truncated at %d bytes]", maxBytes)
	}
	if includeHead {
		out = formatResponseHead(resp) + out
	}

	if outFile != "" {
		if err := cc.fs.Write(ctx, outFile, out); err != nil {
			return errResult("curl: %v", err)
		}
		return okResult("")
	}
	return okResult(out)
}

// resolveURL joins a relative URL onto the configured base. Absolute URLs
// pass through untouched.
func resolveURL(rawURL, base string) (string, error) {
	if strings.Contains(rawURL, "://") {
		return rawURL, nil
	}
	if base == "" {
		return "", fmt.Errorf("relative URL %q with no base URL configured", rawURL)
	}
	return strings.TrimSuffix(base, "/") + "/" + strings.TrimPrefix(rawURL, "/"), nil
}

func formatResponseHead(resp *http.Response) string {
	var b strings.Builder
	fmt.Fprintf(&b, "%s %s\n", resp.Proto, resp.Status)
	names := make([]string, 0, len(resp.Header))
	for name := range resp.Header {
		names = append(names, name)
	}
	sort.Strings(names)
	for _, name := range names {
		for _, value := range resp.Header[name] {
			fmt.Fprintf(&b, "%s: %s\n", name, value)
		}
	}
	b.WriteString("\n")
	return b.String()
}
