// Package sitename resolves the human name of the monitored site
package sitename

import (
	"os"
	"regexp"
	"strings"

	pstrings "usagereport/internal/platform/strings"

	"golang.org/x/text/cases"
	"golang.org/x/text/language"
)

// Unknown is used when no name can be found
const Unknown = "Unknown"

// DefaultOpenVPNConf is the client config whose key path carries the site name
const DefaultOpenVPNConf = "/etc/openvpn/client.conf"

const serverSuffix = "-main-server"

var keyRe = regexp.MustCompile(`/etc/openvpn/keys/([\w\-_]+)\.key`)

// FromOpenVPN extracts the site name from openvpn client config text
func FromOpenVPN(conf string) (string, bool) {
	m := keyRe.FindStringSubmatch(conf)
	if m == nil {
		return "", false
	}
	name := strings.ReplaceAll(m[1], serverSuffix, "")
	if name == "" {
		return "", false
	}
	return Title(name), true
}

// FromFile reads an openvpn client config; any failure yields Unknown
func FromFile(path string) string {
	b, err := os.ReadFile(path)
	if err != nil {
		return Unknown
	}
	if name, ok := FromOpenVPN(string(b)); ok {
		return name
	}
	return Unknown
}

// Resolve prefers an explicit name and falls back to the openvpn config at confPath
func Resolve(explicit, confPath string) string {
	if s := strings.TrimSpace(explicit); s != "" {
		return s
	}
	if confPath == "" {
		confPath = DefaultOpenVPNConf
	}
	return FromFile(confPath)
}

// Title upper-cases the first letter of every word
func Title(s string) string {
	return cases.Title(language.Und).String(s)
}

// Compact is the title-cased name with spaces removed, safe for file names
func Compact(s string) string {
	s = pstrings.Compact(Title(s))
	if s == "" {
		return Unknown
	}
	return s
}
