// Package fetch implements the socket-level HTTP client the crawler needs:
// dial the URI's host directly, write a raw HTTP/1.1 GET, and parse just
// enough of the response to decide whether to return a body, follow a
// redirect, or give up. This is deliberately not built on net/http's
// Client/Transport — the documented external interface is framed in terms
// of raw sockets (TCP_NODELAY, explicit buffer sizes, a redirect budget
// threaded through recursive calls), which is a better fit for a thin
// wrapper over net.Conn than for reshaping net/http's redirect policy and
// connection pooling to match. See DESIGN.md for why no pack library
// displaces the standard library for this piece.
package fetch

import (
	"bufio"
	"crypto/tls"
	"fmt"
	"net"
	"net/url"
	"strconv"
	"strings"
	"time"
)

const (
	readTimeout  = 3 * time.Second
	bufferSize   = 32 * 1024
	defaultRedir = 3
)

// Client fetches HTML bodies over raw sockets.
type Client struct{}

// New returns a Client ready to use.
func New() *Client { return &Client{} }

// Fetch retrieves uri, following up to a budget of redirectBudget 3xx
// responses. It returns the response body and true only for a 200
// response whose content-type starts with "text/html"; any I/O error,
// non-HTML response, or exhausted redirect budget returns ("", false).
func (c *Client) Fetch(uri string, redirectBudget int) (string, bool) {
	body, ok := c.fetchOnce(uri)
	if !ok {
		return "", false
	}
	if body.redirectLocation != "" {
		if redirectBudget <= 0 {
			return "", false
		}
		next, err := resolveURI(uri, body.redirectLocation)
		if err != nil {
			return "", false
		}
		return c.Fetch(next, redirectBudget-1)
	}
	return body.text, true
}

type fetchResult struct {
	status           int
	contentType      string
	text             string
	redirectLocation string
}

func (c *Client) fetchOnce(uri string) (fetchResult, bool) {
	u, err := url.Parse(uri)
	if err != nil {
		return fetchResult{}, false
	}

	conn, err := dial(u)
	if err != nil {
		return fetchResult{}, false
	}
	defer conn.Close()

	raw := conn
	if tc, ok := conn.(*tls.Conn); ok {
		raw = tc.NetConn()
	}
	if tcp, ok := raw.(*net.TCPConn); ok {
		_ = tcp.SetNoDelay(true)
		_ = tcp.SetReadBuffer(bufferSize)
		_ = tcp.SetWriteBuffer(bufferSize)
	}
	_ = conn.SetReadDeadline(time.Now().Add(readTimeout))

	path := u.Path
	if path == "" {
		path = "/"
	}
	if u.RawQuery != "" {
		path += "?" + u.RawQuery
	}
	request := fmt.Sprintf(
		"GET %s HTTP/1.1\r\nHost: %s\r\nConnection: close\r\nUser-Agent: cobweb-crawler/1.0\r\nAccept: text/html\r\n\r\n",
		path, u.Host,
	)
	if _, err := conn.Write([]byte(request)); err != nil {
		return fetchResult{}, false
	}

	reader := bufio.NewReaderSize(conn, bufferSize)

	statusLine, err := reader.ReadString('\n')
	if err != nil {
		return fetchResult{}, false
	}
	status := parseStatusCode(statusLine)

	headers := make(map[string]string)
	for {
		line, err := reader.ReadString('\n')
		if err != nil {
			return fetchResult{}, false
		}
		line = strings.TrimRight(line, "\r\n")
		if line == "" {
			break
		}
		if idx := strings.IndexByte(line, ':'); idx >= 0 {
			key := strings.ToLower(strings.TrimSpace(line[:idx]))
			val := strings.TrimSpace(line[idx+1:])
			headers[key] = val
		}
	}

	if status >= 300 && status < 400 {
		if loc, ok := headers["location"]; ok {
			return fetchResult{status: status, redirectLocation: loc}, true
		}
		return fetchResult{}, false
	}

	contentType := headers["content-type"]
	if status != 200 || !strings.HasPrefix(contentType, "text/html") {
		return fetchResult{status: status, contentType: contentType}, false
	}

	var body strings.Builder
	buf := make([]byte, bufferSize)
	for {
		n, err := reader.Read(buf)
		if n > 0 {
			body.Write(buf[:n])
		}
		if err != nil {
			break
		}
	}

	return fetchResult{status: status, contentType: contentType, text: body.String()}, true
}

func dial(u *url.URL) (net.Conn, error) {
	host := u.Host
	if !strings.Contains(host, ":") {
		switch u.Scheme {
		case "https":
			host = net.JoinHostPort(host, "443")
		default:
			host = net.JoinHostPort(host, "80")
		}
	}

	if u.Scheme == "https" {
		return tls.DialWithDialer(&net.Dialer{Timeout: readTimeout}, "tcp", host, &tls.Config{})
	}
	return net.DialTimeout("tcp", host, readTimeout)
}

func parseStatusCode(statusLine string) int {
	fields := strings.Fields(statusLine)
	if len(fields) < 2 {
		return 0
	}
	code, err := strconv.Atoi(fields[1])
	if err != nil {
		return 0
	}
	return code
}

func resolveURI(base, ref string) (string, error) {
	b, err := url.Parse(base)
	if err != nil {
		return "", err
	}
	r, err := url.Parse(ref)
	if err != nil {
		return "", err
	}
	return b.ResolveReference(r).String(), nil
}

// DefaultRedirectBudget is the redirect budget the crawler uses per spec.
const DefaultRedirectBudget = defaultRedir
