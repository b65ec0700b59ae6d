package install

import (
	"fmt"
	"net"
)

// DestNetwork derives the destination network to install a route for,
// per spec §4.5 step 2: if destIP is already in CIDR form, use it as-is;
// otherwise assume a /24 and take its network address.
//
// This /24 default is flagged in spec §9 as a source quirk carried
// forward unchanged: a real deployment should instead extract the mask
// from the matching LSDB NET entry, but that is left as an open question
// and not implemented here.
func DestNetwork(dest string) (*net.IPNet, error) {
	if ip, n, err := net.ParseCIDR(dest); err == nil {
		n.IP = ip.Mask(n.Mask)
		return n, nil
	}

	ip := net.ParseIP(dest)
	if ip == nil {
		return nil, fmt.Errorf("install: %q is neither a CIDR nor an IP address", dest)
	}
	ip4 := ip.To4()
	if ip4 == nil {
		return nil, fmt.Errorf("install: %q is not an IPv4 address", dest)
	}

	mask := net.CIDRMask(24, 32)
	return &net.IPNet{IP: ip4.Mask(mask), Mask: mask}, nil
}
