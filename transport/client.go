// Package transport implements the minimal smart-HTTP client needed
// for reference discovery and the want/done exchange (§4.4). Only the
// two synchronous calls the spec requires are implemented: no
// capability negotiation, no auth, no sideband.
package transport

import (
	"bytes"
	"context"
	"io"
	"net/http"
	"net/url"
	"strings"

	"github.com/kbolino/mingit/giterrors"
	"github.com/kbolino/mingit/gitlog"
	"github.com/kbolino/mingit/object"
	"github.com/kbolino/mingit/pktline"
)

const (
	uploadPackService = "git-upload-pack"
	userAgent         = "mingit/0"
)

// Option configures a Client. The shape mirrors the functional-options
// pattern used by the retrieval pack's HTTP client constructors.
type Option func(*Client)

// WithHTTPClient overrides the *http.Client used for requests.
func WithHTTPClient(hc *http.Client) Option {
	return func(c *Client) { c.http = hc }
}

// WithLogger attaches a logger the client reports progress through.
func WithLogger(l gitlog.Logger) Option {
	return func(c *Client) { c.log = l }
}

// Client is a minimal smart-HTTP client.
type Client struct {
	base *url.URL
	http *http.Client
	log  gitlog.Logger
}

// NewClient builds a Client targeting the given repository URL.
func NewClient(repoURL string, opts ...Option) (*Client, error) {
	u, err := url.Parse(repoURL)
	if err != nil {
		return nil, giterrors.Wrap(giterrors.TransportError, err, "invalid repository URL %q", repoURL)
	}
	if u.Scheme != "http" && u.Scheme != "https" {
		return nil, giterrors.New(giterrors.TransportError, "unsupported URL scheme %q", u.Scheme)
	}
	u.Path = strings.TrimSuffix(u.Path, "/")

	c := &Client{base: u, http: http.DefaultClient, log: gitlog.Noop{}}
	for _, opt := range opts {
		opt(c)
	}
	return c, nil
}

func (c *Client) joinPath(segment string) string {
	return c.base.String() + "/" + segment
}

// DiscoverHead performs the GET .../info/refs?service=git-upload-pack
// call and returns the identity the remote HEAD points to.
func (c *Client) DiscoverHead(ctx context.Context) (object.Oid, error) {
	reqURL := c.joinPath("info/refs") + "?service=" + uploadPackService
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, reqURL, nil)
	if err != nil {
		return object.NullOid, giterrors.Wrap(giterrors.TransportError, err, "could not build discovery request")
	}
	req.Header.Set("User-Agent", userAgent)

	body, err := c.do(req)
	if err != nil {
		return object.NullOid, err
	}

	lines, err := pktline.ReadAll(body)
	if err != nil {
		return object.NullOid, err
	}
	if len(lines) < 1 {
		return object.NullOid, giterrors.New(giterrors.TransportError, "empty info/refs response")
	}
	// lines[0] is the service advertisement pkt-line and is ignored.
	for _, line := range lines[1:] {
		fields := strings.FieldsFunc(string(line), func(r rune) bool { return r == ' ' || r == 0 })
		if len(fields) < 2 || fields[1] != "HEAD" {
			continue
		}
		hex := fields[0]
		if len(hex) != object.OidSize*2 {
			return object.NullOid, giterrors.New(giterrors.TransportError, "HEAD identity has length %d, want %d", len(hex), object.OidSize*2)
		}
		c.log.Info("discovered remote HEAD", "oid", hex)
		return object.NewOidFromHexString(hex)
	}
	return object.NullOid, giterrors.New(giterrors.TransportError, "no HEAD line in info/refs response")
}

// FetchPack performs the POST .../git-upload-pack want/done exchange
// and returns the raw pack stream that followed the NAK line.
func (c *Client) FetchPack(ctx context.Context, want object.Oid) ([]byte, error) {
	var body bytes.Buffer
	body.Write(pktline.Write([]byte("want " + want.String() + "\n")))
	body.Write(pktline.Flush)
	body.Write(pktline.Write([]byte("done\n")))

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, c.joinPath("git-upload-pack"), &body)
	if err != nil {
		return nil, giterrors.Wrap(giterrors.TransportError, err, "could not build upload-pack request")
	}
	req.Header.Set("Content-Type", "application/x-git-upload-pack-request")
	req.Header.Set("User-Agent", userAgent)

	resp, err := c.do(req)
	if err != nil {
		return nil, err
	}

	nak, rest, err := pktline.Read(resp, 0)
	if err != nil {
		return nil, err
	}
	if strings.TrimSpace(string(nak)) != "NAK" {
		return nil, giterrors.New(giterrors.TransportError, "expected NAK pkt-line, got %q", string(nak))
	}
	c.log.Info("received pack stream", "bytes", len(resp)-rest)
	return resp[rest:], nil
}

func (c *Client) do(req *http.Request) ([]byte, error) {
	resp, err := c.http.Do(req)
	if err != nil {
		return nil, giterrors.Wrap(giterrors.TransportError, err, "request to %s failed", req.URL)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return nil, giterrors.New(giterrors.TransportError, "unexpected HTTP status %d from %s", resp.StatusCode, req.URL)
	}
	data, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, giterrors.Wrap(giterrors.TransportError, err, "could not read response body from %s", req.URL)
	}
	return data, nil
}
