package install_test

import (
	"net"
	"testing"

	"github.com/lstoned/lsrd/install"
)

func TestDestNetworkCIDRPassthrough(t *testing.T) {
	n, err := install.DestNetwork("10.0.3.0/24")
	if err != nil {
		t.Fatalf("DestNetwork: %v", err)
	}
	if n.String() != "10.0.3.0/24" {
		t.Fatalf("got %s, want 10.0.3.0/24", n)
	}
}

func TestDestNetworkHostFallsBackTo24(t *testing.T) {
	n, err := install.DestNetwork("10.0.3.10")
	if err != nil {
		t.Fatalf("DestNetwork: %v", err)
	}
	if n.String() != "10.0.3.0/24" {
		t.Fatalf("got %s, want 10.0.3.0/24 (the /24 fallback)", n)
	}
}

func TestDestNetworkInvalid(t *testing.T) {
	if _, err := install.DestNetwork("not-an-ip"); err == nil {
		t.Fatalf("expected an error for a non-IP, non-CIDR destination")
	}
}

func TestRecordingInstaller(t *testing.T) {
	r := install.NewRecording()
	_, dest, _ := net.ParseCIDR("10.0.3.0/24")
	next := net.ParseIP("10.1.3.3")

	if err := r.InstallRoute(nil, dest, next); err != nil {
		t.Fatalf("InstallRoute: %v", err)
	}

	if !r.Has("10.0.3.0/24", "10.1.3.3") {
		t.Fatalf("expected the install to be recorded")
	}
	if len(r.Entries()) != 1 {
		t.Fatalf("got %d entries, want 1", len(r.Entries()))
	}
}
