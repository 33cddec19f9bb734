package catalog

import (
	"errors"
	"testing"
)

func TestTrustList(t *testing.T) {
	tests := []struct {
		name  string
		specs []string
		addr  string
		want  bool
	}{
		{"exact ip", []string{"10.0.0.5"}, "10.0.0.5", true},
		{"exact ip miss", []string{"10.0.0.5"}, "10.0.0.6", false},
		{"cidr", []string{"10.0.0.0/8"}, "10.20.30.40", true},
		{"cidr miss", []string{"10.0.0.0/8"}, "11.0.0.1", false},
		{"loopback v4", []string{"loopback"}, "127.0.0.1", true},
		{"loopback v6", []string{"loopback"}, "::1", true},
		{"linklocal", []string{"linklocal"}, "169.254.1.1", true},
		{"uniquelocal", []string{"uniquelocal"}, "192.168.1.10", true},
		{"uniquelocal v6", []string{"uniquelocal"}, "fd00::1", true},
		{"comma separated", []string{"loopback, 203.0.113.0/24"}, "203.0.113.9", true},
		{"several specs", []string{"loopback", "198.51.100.1"}, "198.51.100.1", true},
		{"mapped v4", []string{"10.0.0.0/8"}, "::ffff:10.1.2.3", true},
		{"host port", []string{"10.0.0.0/8"}, "10.1.2.3:8080", true},
		{"bracketed v6", []string{"loopback"}, "[::1]", true},
		{"not an ip", []string{"loopback"}, "unix-socket", false},
		{"empty list", nil, "127.0.0.1", false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			trust, err := TrustList(tt.specs...)
			if err != nil {
				t.Fatalf("TrustList(%v): %v", tt.specs, err)
			}
			if got := trust(tt.addr, 0); got != tt.want {
				t.Errorf("trust(%q) = %v, want %v", tt.addr, got, tt.want)
			}
		})
	}
}

func TestTrustListInvalid(t *testing.T) {
	for _, spec := range []string{"not-an-ip", "10.0.0.0/33", "300.1.1.1"} {
		if _, err := TrustList(spec); !errors.Is(err, ErrInvalidTrust) {
			t.Errorf("TrustList(%q): expected ErrInvalidTrust, got %v", spec, err)
		}
	}
}

func TestParseTrust(t *testing.T) {
	custom := func(addr string, _ int) bool { return addr == "192.0.2.1" }

	tests := []struct {
		name    string
		setting any
		addr    string
		want    bool
		wantErr bool
	}{
		{"nil", nil, "127.0.0.1", false, false},
		{"false", false, "127.0.0.1", false, false},
		{"true", true, "203.0.113.1", true, false},
		{"string", "loopback", "127.0.0.1", true, false},
		{"string slice", []string{"10.0.0.0/8"}, "10.0.0.1", true, false},
		{"any slice", []any{"10.0.0.0/8"}, "10.0.0.1", true, false},
		{"func", custom, "192.0.2.1", true, false},
		{"trust func", TrustFunc(custom), "192.0.2.2", false, false},
		{"any slice non string", []any{1}, "", false, true},
		{"unsupported", 42, "", false, true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			trust, err := ParseTrust(tt.setting)
			if (err != nil) != tt.wantErr {
				t.Fatalf("ParseTrust error = %v, wantErr %v", err, tt.wantErr)
			}
			if err != nil {
				return
			}
			if got := trust(tt.addr, 0); got != tt.want {
				t.Errorf("trust(%q) = %v, want %v", tt.addr, got, tt.want)
			}
		})
	}
}
