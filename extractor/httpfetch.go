package extractor

import (
	"context"
	"fmt"
	"io"
	"net"
	"net/http"
	"net/url"

	utls "github.com/refraction-networking/utls"
)

const chromeUA = "Mozilla/5.0 (Windows NT 10.0; Win64; x64) AppleWebKit/537.36 (KHTML, like Gecko) Chrome/131.0.0.0 Safari/537.36"

// maxBodyBytes caps the static fetch so a pathological origin cannot
// exhaust memory.
const maxBodyBytes = 10 * 1024 * 1024

// StaticFetcher performs HTTP requests with a Chrome TLS fingerprint
// (utls), so the static path sees the same document a real browser would
// be served. It implements Fetcher.
type StaticFetcher struct {
	defaultProxy string
}

// NewStaticFetcher creates a static fetcher. proxy may be empty.
func NewStaticFetcher(proxy string) *StaticFetcher {
	return &StaticFetcher{defaultProxy: proxy}
}

// Fetch retrieves the URL's raw document. Non-2xx responses and
// transport failures are returned as errors; the extractor treats them
// as a fallback trigger, not a terminal failure.
func (f *StaticFetcher) Fetch(ctx context.Context, targetURL string) ([]byte, error) {
	transport := &http.Transport{
		DialTLSContext: dialTLSChrome,
	}
	if f.defaultProxy != "" {
		proxyURL, err := url.Parse(f.defaultProxy)
		if err == nil && (proxyURL.Scheme == "http" || proxyURL.Scheme == "https") {
			transport.Proxy = http.ProxyURL(proxyURL)
		}
	}

	client := &http.Client{Transport: transport}
	defer client.CloseIdleConnections()

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, targetURL, nil)
	if err != nil {
		return nil, fmt.Errorf("staticfetch: build request: %w", err)
	}
	req.Header.Set("User-Agent", chromeUA)
	req.Header.Set("Accept", "text/html,application/xhtml+xml,application/xml;q=0.9,image/avif,image/webp,image/apng,*/*;q=0.8")
	req.Header.Set("Accept-Language", "en-US,en;q=0.9")
	req.Header.Set("Cache-Control", "no-cache")

	resp, err := client.Do(req)
	if err != nil {
		return nil, fmt.Errorf("staticfetch: request failed: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode >= 400 {
		return nil, fmt.Errorf("staticfetch: HTTP %d for %s", resp.StatusCode, targetURL)
	}

	body, err := io.ReadAll(io.LimitReader(resp.Body, maxBodyBytes))
	if err != nil {
		return nil, fmt.Errorf("staticfetch: read body: %w", err)
	}

	return body, nil
}

// dialTLSChrome establishes a TLS connection using a Chrome fingerprint
// via utls.
func dialTLSChrome(ctx context.Context, network, addr string) (net.Conn, error) {
	dialer := &net.Dialer{}
	rawConn, err := dialer.DialContext(ctx, network, addr)
	if err != nil {
		return nil, err
	}

	host, _, _ := net.SplitHostPort(addr)
	tlsConn := utls.UClient(rawConn, &utls.Config{
		ServerName: host,
	}, utls.HelloChrome_Auto)

	if err := tlsConn.HandshakeContext(ctx); err != nil {
		rawConn.Close()
		return nil, err
	}
	return tlsConn, nil
}
