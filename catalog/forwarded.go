package catalog

import (
	"net"
	"strings"
)

// forwardedInfo is what the proxy headers claim about the original request.
type forwardedInfo struct {
	proto string
	host  string
}

// forwardedFromHeaders reads the RFC 7239 Forwarded header when present and
// falls back to X-Forwarded-Proto / X-Forwarded-Host otherwise.
func forwardedFromHeaders(req Request) forwardedInfo {
	if raw := req.Header("Forwarded"); strings.TrimSpace(raw) != "" {
		return parseForwarded(raw)
	}
	return forwardedInfo{
		proto: strings.ToLower(firstListValue(req.Header("X-Forwarded-Proto"))),
		host:  firstListValue(req.Header("X-Forwarded-Host")),
	}
}

// parseForwarded returns the first proto and host parameters found scanning
// the elements left to right, i.e. closest to the client first.
func parseForwarded(raw string) forwardedInfo {
	var info forwardedInfo
	for _, element := range splitQuoted(raw, ',') {
		for _, pair := range splitQuoted(element, ';') {
			key, value, ok := strings.Cut(pair, "=")
			if !ok {
				continue
			}
			value = unquote(strings.TrimSpace(value))
			switch strings.ToLower(strings.TrimSpace(key)) {
			case "proto":
				if info.proto == "" {
					info.proto = strings.ToLower(value)
				}
			case "host":
				if info.host == "" {
					info.host = value
				}
			}
		}
		if info.proto != "" && info.host != "" {
			break
		}
	}
	return info
}

// splitQuoted splits s on sep, ignoring separators inside double quotes.
func splitQuoted(s string, sep byte) []string {
	var (
		parts   []string
		start   int
		quoted  bool
		escaped bool
	)
	for i := 0; i < len(s); i++ {
		c := s[i]
		switch {
		case escaped:
			escaped = false
		case c == '\\' && quoted:
			escaped = true
		case c == '"':
			quoted = !quoted
		case c == sep && !quoted:
			parts = append(parts, strings.TrimSpace(s[start:i]))
			start = i + 1
		}
	}
	return append(parts, strings.TrimSpace(s[start:]))
}

func unquote(v string) string {
	if len(v) < 2 || v[0] != '"' || v[len(v)-1] != '"' {
		return v
	}
	v = v[1 : len(v)-1]
	if !strings.Contains(v, `\`) {
		return v
	}
	var b strings.Builder
	escaped := false
	for i := 0; i < len(v); i++ {
		if v[i] == '\\' && !escaped {
			escaped = true
			continue
		}
		escaped = false
		b.WriteByte(v[i])
	}
	return b.String()
}

func firstListValue(v string) string {
	first, _, _ := strings.Cut(v, ",")
	return strings.TrimSpace(first)
}

// forwardingChain lists the addresses a request travelled through, nearest
// first: the connected peer, then X-Forwarded-For entries right to left.
func forwardingChain(req Request) []string {
	peer := strings.TrimSpace(req.PeerAddress())
	if host, _, err := net.SplitHostPort(peer); err == nil {
		peer = host
	}
	if peer == "" {
		return nil
	}
	chain := []string{peer}
	xff := strings.Split(req.Header("X-Forwarded-For"), ",")
	for i := len(xff) - 1; i >= 0; i-- {
		if addr := strings.TrimSpace(xff[i]); addr != "" {
			chain = append(chain, addr)
		}
	}
	return chain
}
