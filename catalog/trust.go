package catalog

import (
	"fmt"
	"net"
	"net/netip"
	"strings"
)

// TrustFunc reports whether the proxy at addr, hop positions away from this
// server, may be believed about the original scheme and host.
type TrustFunc func(addr string, hop int) bool

// namedRanges are the symbolic names accepted by TrustList.
var namedRanges = map[string][]string{
	"linklocal":   {"169.254.0.0/16", "fe80::/10"},
	"loopback":    {"127.0.0.1/8", "::1/128"},
	"uniquelocal": {"10.0.0.0/8", "172.16.0.0/12", "192.168.0.0/16", "fc00::/7"},
}

// TrustNone never trusts a proxy.
func TrustNone() TrustFunc {
	return func(string, int) bool { return false }
}

// TrustAll trusts every proxy.
func TrustAll() TrustFunc {
	return func(string, int) bool { return true }
}

// TrustList trusts addresses inside any of the given networks. Each spec is
// an IP, a CIDR, one of loopback/linklocal/uniquelocal, or a comma separated
// list of those.
func TrustList(specs ...string) (TrustFunc, error) {
	var prefixes []netip.Prefix
	for _, spec := range specs {
		for _, item := range strings.Split(spec, ",") {
			item = strings.TrimSpace(item)
			if item == "" {
				continue
			}
			parsed, err := parseTrustItem(item)
			if err != nil {
				return nil, err
			}
			prefixes = append(prefixes, parsed...)
		}
	}

	return func(addr string, _ int) bool {
		ip, ok := parseAddr(addr)
		if !ok {
			return false
		}
		for _, p := range prefixes {
			if p.Contains(ip) {
				return true
			}
		}
		return false
	}, nil
}

// ParseTrust normalizes the literal forms a trust setting can take: nil,
// bool, string, []string, []any (as decoded from YAML), TrustFunc, or a plain
// func(string, int) bool.
func ParseTrust(setting any) (TrustFunc, error) {
	switch v := setting.(type) {
	case nil:
		return TrustNone(), nil
	case bool:
		if v {
			return TrustAll(), nil
		}
		return TrustNone(), nil
	case TrustFunc:
		return v, nil
	case func(string, int) bool:
		return v, nil
	case string:
		return TrustList(v)
	case []string:
		return TrustList(v...)
	case []any:
		specs := make([]string, 0, len(v))
		for _, item := range v {
			s, ok := item.(string)
			if !ok {
				return nil, fmt.Errorf("%w: list entry %v is not a string", ErrInvalidTrust, item)
			}
			specs = append(specs, s)
		}
		return TrustList(specs...)
	default:
		return nil, fmt.Errorf("%w: unsupported type %T", ErrInvalidTrust, setting)
	}
}

func parseTrustItem(item string) ([]netip.Prefix, error) {
	if names, ok := namedRanges[strings.ToLower(item)]; ok {
		out := make([]netip.Prefix, 0, len(names))
		for _, n := range names {
			out = append(out, netip.MustParsePrefix(n).Masked())
		}
		return out, nil
	}

	if strings.Contains(item, "/") {
		p, err := netip.ParsePrefix(item)
		if err != nil {
			return nil, fmt.Errorf("%w: %q: %v", ErrInvalidTrust, item, err)
		}
		return []netip.Prefix{unmapPrefix(p).Masked()}, nil
	}

	ip, err := netip.ParseAddr(item)
	if err != nil {
		return nil, fmt.Errorf("%w: %q: %v", ErrInvalidTrust, item, err)
	}
	ip = ip.Unmap().WithZone("")
	return []netip.Prefix{netip.PrefixFrom(ip, ip.BitLen())}, nil
}

func unmapPrefix(p netip.Prefix) netip.Prefix {
	addr := p.Addr()
	if !addr.Is4In6() {
		return p
	}
	bits := p.Bits() - 96
	if bits < 0 {
		bits = 0
	}
	return netip.PrefixFrom(addr.Unmap(), bits)
}

// parseAddr accepts a bare IP or a host:port pair as found in RemoteAddr.
func parseAddr(addr string) (netip.Addr, bool) {
	addr = strings.TrimSpace(addr)
	if host, _, err := net.SplitHostPort(addr); err == nil {
		addr = host
	}
	addr = strings.TrimSuffix(strings.TrimPrefix(addr, "["), "]")
	ip, err := netip.ParseAddr(addr)
	if err != nil {
		return netip.Addr{}, false
	}
	return ip.Unmap().WithZone(""), true
}
