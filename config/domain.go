package config

import (
	"net/netip"
	"sort"
	"strings"

	"github.com/jxo-me/dduckdns/consts"
	"github.com/pkg/errors"
)

const zoneSuffix = ".duckdns.org"

// DomainSettings is one [domains.<label>] table.
// An empty ip or ipv6 means the key was not given.
type DomainSettings struct {
	Clear bool   `mapstructure:"clear" yaml:"clear,omitempty" json:"clear,omitempty" toml:"clear,omitempty"`
	IP    string `mapstructure:"ip" yaml:"ip,omitempty" json:"ip,omitempty" toml:"ip,omitempty"`
	IPv6  string `mapstructure:"ipv6" yaml:"ipv6,omitempty" json:"ipv6,omitempty" toml:"ipv6,omitempty"`
}

type AddrMode int

const (
	// AddrUnset leaves the parameter out of the request.
	AddrUnset AddrMode = iota
	AddrLiteral
	// AddrAuto uses the address looked up once per run.
	AddrAuto
)

func (m AddrMode) String() string {
	switch m {
	case AddrLiteral:
		return "literal"
	case AddrAuto:
		return "auto"
	default:
		return "unset"
	}
}

type AddrSpec struct {
	Mode AddrMode
	Addr string
}

// Domain 域名实体
type Domain struct {
	Name  string
	IPv4  AddrSpec
	IPv6  AddrSpec
	Clear bool
}

func NewDomain(name string, s DomainSettings) Domain {
	d := Domain{Name: name, Clear: s.Clear}
	if ip := strings.TrimSpace(s.IP); ip != "" {
		d.IPv4 = AddrSpec{Mode: AddrLiteral, Addr: ip}
	}
	switch ipv6 := strings.TrimSpace(s.IPv6); ipv6 {
	case "":
	case consts.AutoAddress:
		d.IPv6 = AddrSpec{Mode: AddrAuto}
	default:
		d.IPv6 = AddrSpec{Mode: AddrLiteral, Addr: ipv6}
	}
	return d
}

func (d Domain) String() string {
	return d.Name
}

// GetFullDomain 获得完整域名
func (d Domain) GetFullDomain() string {
	return d.Name + zoneSuffix
}

func (d Domain) NeedsAutoIPv6() bool {
	return d.IPv6.Mode == AddrAuto
}

// DomainList returns the configured domains sorted by label.
func (c *Config) DomainList() []Domain {
	names := make([]string, 0, len(c.Domains))
	for name := range c.Domains {
		names = append(names, name)
	}
	sort.Strings(names)

	domains := make([]Domain, 0, len(names))
	for _, name := range names {
		domains = append(domains, NewDomain(name, c.Domains[name]))
	}
	return domains
}

func validateDomain(name string, s DomainSettings) error {
	if !isLabel(name) {
		return errors.Wrapf(ErrInvalidConfig, "domain %q must be a bare Duck DNS label of a-z, 0-9 and -", name)
	}
	if ip := strings.TrimSpace(s.IP); ip != "" {
		addr, err := netip.ParseAddr(ip)
		if err != nil || !addr.Is4() {
			return errors.Wrapf(ErrInvalidConfig, "domains.%s.ip %q is not an IPv4 address", name, s.IP)
		}
	}
	if ipv6 := strings.TrimSpace(s.IPv6); ipv6 != "" && ipv6 != consts.AutoAddress {
		addr, err := netip.ParseAddr(ipv6)
		if err != nil || !addr.Is6() || addr.Is4In6() {
			return errors.Wrapf(ErrInvalidConfig, "domains.%s.ipv6 %q is neither \"auto\" nor an IPv6 address", name, s.IPv6)
		}
	}
	return nil
}

// isLabel reports whether name is a bare lower-case label. Table names are
// lowercased when the file is read, so [domains.MyHome] is sent as "myhome";
// Duck DNS matches labels without regard to case.
func isLabel(name string) bool {
	if name == "" || len(name) > 63 || name[0] == '-' || name[len(name)-1] == '-' {
		return false
	}
	for _, r := range name {
		if (r < 'a' || r > 'z') && (r < '0' || r > '9') && r != '-' {
			return false
		}
	}
	return true
}
