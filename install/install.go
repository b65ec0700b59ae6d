// Package install provides the kernel forwarding-table side effect as an
// injected abstraction (spec §9: "the kernel-route installer should be
// an injected abstraction so tests can assert against a recorded log
// instead of mutating the host"), plus a shell-based implementation for
// the reference environment described in spec §6.
package install

import (
	"context"
	"fmt"
	"net"
	"os/exec"
)

// KernelInstaller installs a forwarding entry for dest via next on the
// local kernel routing table.
type KernelInstaller interface {
	InstallRoute(ctx context.Context, dest *net.IPNet, next net.IP) error
}

// ShellInstaller shells out to `ip route replace <CIDR> via <IP>`, per
// spec §6's description of the reference environment. A nonzero exit is
// logged by the caller and otherwise ignored: spec §7 specifies no
// retry and no rollback of reservations on installer failure.
type ShellInstaller struct{}

// InstallRoute implements KernelInstaller.
func (ShellInstaller) InstallRoute(ctx context.Context, dest *net.IPNet, next net.IP) error {
	cmd := exec.CommandContext(ctx, "ip", "route", "replace", dest.String(), "via", next.String())
	out, err := cmd.CombinedOutput()
	if err != nil {
		return fmt.Errorf("ip route replace %s via %s: %w: %s", dest, next, err, out)
	}
	return nil
}

// Entry is one recorded installation, for tests.
type Entry struct {
	Dest *net.IPNet
	Next net.IP
}

// String renders e the same way the real command line would read.
func (e Entry) String() string {
	return fmt.Sprintf("ip route replace %s via %s", e.Dest, e.Next)
}
