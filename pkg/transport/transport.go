// Package transport provides the HTTP client stack used by the shell's
// network commands (curl, browse). Go's default crypto/tls produces a JA3
// fingerprint that several CDNs identify as "Go" and answer with a managed
// JS challenge, which is useless output for an agent that wanted the page
// body. This package centralises the fix: all outbound requests present a
// Chrome-like TLS fingerprint via uTLS.
//
// Two client variants are provided:
//   - NewClient (HTTP/1.1) — the default for API endpoints and page fetches.
//     Uses Chrome 120 fingerprint with ALPN restricted to http/1.1.
//   - NewH2Client (HTTP/2) — for endpoints that also inspect HTTP/2 SETTINGS
//     fingerprints. Uses tls-client with a full Chrome 120 profile (matching
//     SETTINGS values/order, pseudo-header order, connection flow).
//
// Both decode Content-Encoding: zstd response bodies, which servers send to
// Chrome-fingerprinted clients and which Go's net/http does not decode.
package transport

import (
	"context"
	"io"
	"net"
	"net/http"
	"net/url"
	"time"

	"github.com/klauspost/compress/zstd"

	fhttp "github.com/bogdanfinn/fhttp"
	tlsclient "github.com/bogdanfinn/tls-client"
	"github.com/bogdanfinn/tls-client/profiles"
	utls "github.com/refraction-networking/utls"
)

// dialChromeTLSh1 performs the TLS handshake with a Chrome 120 ClientHello,
// ALPN restricted to http/1.1. This prevents the server from negotiating h2,
// which Go's http.Transport cannot handle over custom DialTLSContext
// connections. Wrapped with h1Conn to hide ConnectionState from Go's h2
// detection.
func dialChromeTLSh1(ctx context.Context, network, addr string) (net.Conn, error) {
	dialer := &net.Dialer{Timeout: 10 * time.Second, KeepAlive: 30 * time.Second}
	rawConn, err := dialer.DialContext(ctx, network, addr)
	if err != nil {
		return nil, err
	}

	host, _, err := net.SplitHostPort(addr)
	if err != nil {
		rawConn.Close()
		return nil, err
	}

	spec, err := utls.UTLSIdToSpec(utls.HelloChrome_120)
	if err != nil {
		rawConn.Close()
		return nil, err
	}
	for _, ext := range spec.Extensions {
		if alpn, ok := ext.(*utls.ALPNExtension); ok {
			alpn.AlpnProtocols = []string{"http/1.1"}
			break
		}
	}

	tlsConn := utls.UClient(rawConn, &utls.Config{ServerName: host}, utls.HelloCustom)
	if err := tlsConn.ApplyPreset(&spec); err != nil {
		rawConn.Close()
		return nil, err
	}
	if err := tlsConn.Handshake(); err != nil {
		rawConn.Close()
		return nil, err
	}

	// Wrap to prevent Go's net/http from detecting h2 on the connection.
	return &h1Conn{Conn: tlsConn}, nil
}

// h1Conn wraps a net.Conn to hide ConnectionState from Go's net/http Transport.
type h1Conn struct {
	net.Conn
}

// NewTransport returns a RoundTripper using the Chrome TLS fingerprint with
// HTTP/1.1 only, with zstd response decoding layered on top.
func NewTransport() http.RoundTripper {
	return &zstdRT{inner: &http.Transport{
		ForceAttemptHTTP2: false,
		MaxIdleConns:      4,
		IdleConnTimeout:   90 * time.Second,
		DialTLSContext:    dialChromeTLSh1,
		DialContext: (&net.Dialer{
			Timeout:   10 * time.Second,
			KeepAlive: 30 * time.Second,
		}).DialContext,
	}}
}

// NewProxyTransport returns the HTTP/1.1 transport with an HTTP proxy
// configured.
func NewProxyTransport(proxyURL *url.URL) http.RoundTripper {
	t := &http.Transport{
		ForceAttemptHTTP2: false,
		MaxIdleConns:      4,
		IdleConnTimeout:   90 * time.Second,
		DialTLSContext:    dialChromeTLSh1,
		DialContext: (&net.Dialer{
			Timeout:   10 * time.Second,
			KeepAlive: 30 * time.Second,
		}).DialContext,
		Proxy: http.ProxyURL(proxyURL),
	}
	return &zstdRT{inner: t}
}

// NewClient returns an *http.Client on the HTTP/1.1 Chrome-fingerprinted
// transport. A timeout of 0 means no timeout.
func NewClient(timeout time.Duration) *http.Client {
	return &http.Client{
		Timeout:   timeout,
		Transport: NewTransport(),
	}
}

// zstdRT decodes Content-Encoding: zstd response bodies.
type zstdRT struct {
	inner http.RoundTripper
}

func (rt *zstdRT) RoundTrip(req *http.Request) (*http.Response, error) {
	resp, err := rt.inner.RoundTrip(req)
	if err != nil {
		return nil, err
	}
	if resp.Header.Get("Content-Encoding") != "zstd" {
		return resp, nil
	}

	dec, err := zstd.NewReader(resp.Body)
	if err != nil {
		resp.Body.Close()
		return nil, err
	}
	resp.Body = &zstdBody{dec: dec, raw: resp.Body}
	resp.Header.Del("Content-Encoding")
	resp.ContentLength = -1
	resp.Uncompressed = true
	return resp, nil
}

type zstdBody struct {
	dec *zstd.Decoder
	raw io.ReadCloser
}

func (b *zstdBody) Read(p []byte) (int, error) { return b.dec.Read(p) }

func (b *zstdBody) Close() error {
	b.dec.Close()
	return b.raw.Close()
}

// chromeRoundTripper adapts tls-client (which uses bogdanfinn/fhttp types)
// to Go's standard http.RoundTripper interface. It converts http.Request to
// fhttp.Request, delegates to the tls-client, then converts the response back.
type chromeRoundTripper struct {
	client tlsclient.HttpClient
}

func (rt *chromeRoundTripper) RoundTrip(hReq *http.Request) (*http.Response, error) {
	var body io.Reader
	if hReq.Body != nil {
		body = hReq.Body
	}
	fReq, err := fhttp.NewRequest(hReq.Method, hReq.URL.String(), body)
	if err != nil {
		return nil, err
	}
	// Copy headers individually so fhttp's internal defaults are preserved.
	// Replacing the whole map (fReq.Header = ...) breaks tls-client's h2
	// header-order fingerprinting.
	for k, vv := range hReq.Header {
		for _, v := range vv {
			fReq.Header.Add(k, v)
		}
	}
	if hReq.ContentLength > 0 {
		fReq.ContentLength = hReq.ContentLength
	}

	fResp, err := rt.client.Do(fReq)
	if err != nil {
		return nil, err
	}
	return &http.Response{
		Status:           fResp.Status,
		StatusCode:       fResp.StatusCode,
		Proto:            fResp.Proto,
		ProtoMajor:       fResp.ProtoMajor,
		ProtoMinor:       fResp.ProtoMinor,
		Header:           http.Header(fResp.Header),
		Body:             fResp.Body,
		ContentLength:    fResp.ContentLength,
		TransferEncoding: fResp.TransferEncoding,
		Close:            fResp.Close,
		Uncompressed:     fResp.Uncompressed,
		Trailer:          http.Header(fResp.Trailer),
		Request:          hReq,
	}, nil
}

// NewH2Client returns an *http.Client that speaks HTTP/2 using a full Chrome
// browser fingerprint, for endpoints that inspect both the TLS ClientHello
// (JA3) and the HTTP/2 SETTINGS frame (Akamai h2 fingerprint).
func NewH2Client(timeout time.Duration) (*http.Client, error) {
	client, err := tlsclient.NewHttpClient(tlsclient.NewNoopLogger(),
		tlsclient.WithClientProfile(profiles.Chrome_120),
		tlsclient.WithRandomTLSExtensionOrder(),
		tlsclient.WithNotFollowRedirects(),
	)
	if err != nil {
		return nil, err
	}
	return &http.Client{
		Timeout:   timeout,
		Transport: &chromeRoundTripper{client: client},
	}, nil
}
