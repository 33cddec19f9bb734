package catalog

import (
	"fmt"
	"net/http"
	"net/url"
	"strings"
)

// Request is the part of an inbound request the resolver looks at.
type Request interface {
	Header(name string) string
	Encrypted() bool
	PeerAddress() string
}

type httpRequest struct {
	r *http.Request
}

// HTTPRequest adapts a standard library request. Go moves the Host header
// into r.Host, so Header("Host") reads it from there.
func HTTPRequest(r *http.Request) Request {
	return httpRequest{r: r}
}

func (h httpRequest) Header(name string) string {
	if strings.EqualFold(name, "Host") {
		return h.r.Host
	}
	return h.r.Header.Get(name)
}

func (h httpRequest) Encrypted() bool { return h.r.TLS != nil }

func (h httpRequest) PeerAddress() string { return h.r.RemoteAddr }

// OriginStrategy selects how the catalog origin is derived. The two
// implementations are *FromRequestStrategy and *FixedStrategy.
type OriginStrategy interface {
	// PathPrefix is prepended to every API base path.
	PathPrefix() string
	isOriginStrategy()
}

// FromRequestStrategy derives the origin from the request, believing
// forwarding headers only when Trust accepts the connected peer.
type FromRequestStrategy struct {
	Trust    TrustFunc
	BasePath string
}

func (s *FromRequestStrategy) PathPrefix() string { return s.BasePath }
func (*FromRequestStrategy) isOriginStrategy()    {}

// FixedStrategy always resolves to the same origin.
type FixedStrategy struct {
	result   OriginResult
	basePath string
}

// NewFixedStrategy parses origin once. A missing scheme means https.
func NewFixedStrategy(origin, basePath string) (*FixedStrategy, error) {
	raw := strings.TrimRight(strings.TrimSpace(origin), "/")
	if raw == "" {
		return nil, fmt.Errorf("%w: empty origin", ErrInvalidOrigin)
	}
	if !strings.Contains(raw, "://") {
		raw = "https://" + raw
	}

	u, err := url.Parse(raw)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrInvalidOrigin, err)
	}
	scheme := strings.ToLower(u.Scheme)
	if scheme != "http" && scheme != "https" {
		return nil, fmt.Errorf("%w: unsupported scheme %q", ErrInvalidOrigin, u.Scheme)
	}
	if u.Host == "" {
		return nil, fmt.Errorf("%w: %q has no host", ErrInvalidOrigin, origin)
	}

	host := strings.ToLower(u.Host)
	switch {
	case scheme == "https" && u.Port() == "443":
		host = strings.TrimSuffix(host, ":443")
	case scheme == "http" && u.Port() == "80":
		host = strings.TrimSuffix(host, ":80")
	}

	return &FixedStrategy{
		result:   newOriginResult(scheme, normalizeHost(host), false),
		basePath: basePath,
	}, nil
}

// MustFixedStrategy is like NewFixedStrategy but panics on error.
func MustFixedStrategy(origin, basePath string) *FixedStrategy {
	s, err := NewFixedStrategy(origin, basePath)
	if err != nil {
		panic(err)
	}
	return s
}

func (s *FixedStrategy) PathPrefix() string { return s.basePath }
func (*FixedStrategy) isOriginStrategy()    {}

// Origin returns the parsed origin, e.g. "https://api.example.com".
func (s *FixedStrategy) Origin() string { return s.result.Origin }

// DefaultStrategy is used when a config carries no strategy.
func DefaultStrategy() OriginStrategy {
	return &FromRequestStrategy{Trust: TrustNone()}
}

// OriginResult is the public origin of a request.
type OriginResult struct {
	Scheme string
	Host   string
	Origin string
	// Forwarded is true when proxy headers were honored.
	Forwarded bool
}

func newOriginResult(scheme, host string, forwarded bool) OriginResult {
	return OriginResult{
		Scheme:    scheme,
		Host:      host,
		Origin:    scheme + "://" + host,
		Forwarded: forwarded,
	}
}

// ResolveOrigin computes the public origin for req. It never fails: missing
// headers fall back to localhost and the connection scheme, and anything
// that goes wrong while evaluating proxy trust counts as untrusted.
func ResolveOrigin(strategy OriginStrategy, req Request) OriginResult {
	switch s := strategy.(type) {
	case *FixedStrategy:
		return s.result
	case *FromRequestStrategy:
		return resolveFromRequest(s, req)
	default:
		return resolveFromRequest(&FromRequestStrategy{}, req)
	}
}

func resolveFromRequest(s *FromRequestStrategy, req Request) OriginResult {
	scheme := "http"
	if req.Encrypted() {
		scheme = "https"
	}
	host := normalizeHost(req.Header("Host"))
	if host == "" {
		host = "localhost"
	}

	if !peerTrusted(req, s.Trust) {
		return newOriginResult(scheme, host, false)
	}

	forwarded := false
	info := forwardedFromHeaders(req)
	if info.proto == "http" || info.proto == "https" {
		scheme = info.proto
		forwarded = true
	}
	if h := normalizeHost(info.host); h != "" {
		host = h
		forwarded = true
	}
	return newOriginResult(scheme, host, forwarded)
}

// peerTrusted evaluates trust against the nearest hop only.
func peerTrusted(req Request, trust TrustFunc) (trusted bool) {
	if trust == nil {
		return false
	}
	defer func() {
		if recover() != nil {
			trusted = false
		}
	}()
	chain := forwardingChain(req)
	if len(chain) == 0 {
		return false
	}
	return trust(chain[0], 0)
}

func normalizeHost(host string) string {
	return strings.TrimRight(strings.TrimSpace(host), "/")
}
