package sitename

import (
	"os"
	"path/filepath"
	"testing"
)

func TestFromOpenVPN(t *testing.T) {
	t.Parallel()

	cases := []struct {
		name, conf, want string
		ok               bool
	}{
		{"plain", "cert /etc/openvpn/keys/lincoln.crt\nkey /etc/openvpn/keys/lincoln.key\n", "Lincoln", true},
		{"server suffix", "key /etc/openvpn/keys/north-high-main-server.key", "North-High", true},
		{"no key line", "remote vpn.example.org 1194\n", "", false},
		{"only suffix", "key /etc/openvpn/keys/-main-server.key", "", false},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			got, ok := FromOpenVPN(tc.conf)
			if ok != tc.ok || got != tc.want {
				t.Fatalf("FromOpenVPN = %q, %v; want %q, %v", got, ok, tc.want, tc.ok)
			}
		})
	}
}

func TestResolve(t *testing.T) {
	t.Parallel()

	dir := t.TempDir()
	conf := filepath.Join(dir, "client.conf")
	if err := os.WriteFile(conf, []byte("key /etc/openvpn/keys/westfield-main-server.key\n"), 0o600); err != nil {
		t.Fatal(err)
	}

	if got := Resolve("  Oak Grove ", conf); got != "Oak Grove" {
		t.Fatalf("explicit = %q", got)
	}
	if got := Resolve("", conf); got != "Westfield" {
		t.Fatalf("from conf = %q", got)
	}
	if got := Resolve("", filepath.Join(dir, "missing.conf")); got != Unknown {
		t.Fatalf("missing conf = %q", got)
	}
}

func TestCompact(t *testing.T) {
	t.Parallel()

	for in, want := range map[string]string{
		"oak grove elementary": "OakGroveElementary",
		"Lincoln":              "Lincoln",
		"   ":                  Unknown,
	} {
		if got := Compact(in); got != want {
			t.Errorf("Compact(%q) = %q, want %q", in, got, want)
		}
	}
}
