package networking

import (
	"context"
	"fmt"
	"strings"

	"github.com/maksimkurb/wgvpc/src/internal/errors"
	"github.com/maksimkurb/wgvpc/src/internal/log"
)

// NamespaceManager creates network namespaces and WireGuard interfaces inside
// them through the ip, wg and wg-quick tools. Every operation inspects the
// current state first and is a no-op when there is nothing to do.
type NamespaceManager struct {
	runner CommandRunner
}

func NewNamespaceManager(runner CommandRunner) *NamespaceManager {
	return &NamespaceManager{runner: runner}
}

// ListNamespaces returns the names printed by `ip netns list`.
func (m *NamespaceManager) ListNamespaces(ctx context.Context) ([]string, error) {
	res, err := m.runner.Run(ctx, "ip", "netns", "list")
	if err != nil {
		return nil, err
	}
	if err := res.Err("ip netns list"); err != nil {
		return nil, err
	}
	return parseNamespaceList(res.Stdout), nil
}

// NamespaceExists compares exact names, "ns_R1" does not match "ns_R10".
func (m *NamespaceManager) NamespaceExists(ctx context.Context, ns string) (bool, error) {
	names, err := m.ListNamespaces(ctx)
	if err != nil {
		return false, err
	}
	for _, name := range names {
		if name == ns {
			return true, nil
		}
	}
	return false, nil
}

// CreateNamespace adds the namespace and brings its loopback up.
func (m *NamespaceManager) CreateNamespace(ctx context.Context, ns string) error {
	exists, err := m.NamespaceExists(ctx, ns)
	if err != nil {
		return err
	}
	if exists {
		log.Debugf("[netns %s] Namespace already exists", ns)
		return nil
	}

	log.Infof("[netns %s] Creating namespace", ns)
	if err := m.exec(ctx, "ip netns add", "ip", "netns", "add", ns); err != nil {
		return err
	}
	return m.exec(ctx, "ip link set lo up", "ip", "-n", ns, "link", "set", "lo", "up")
}

func (m *NamespaceManager) DeleteNamespace(ctx context.Context, ns string) error {
	exists, err := m.NamespaceExists(ctx, ns)
	if err != nil {
		return err
	}
	if !exists {
		log.Debugf("[netns %s] Namespace does not exist, nothing to delete", ns)
		return nil
	}

	log.Infof("[netns %s] Deleting namespace", ns)
	return m.exec(ctx, "ip netns delete", "ip", "netns", "delete", ns)
}

// ListInterfaces returns link names inside ns.
func (m *NamespaceManager) ListInterfaces(ctx context.Context, ns string) ([]string, error) {
	res, err := m.runner.Run(ctx, "ip", "-n", ns, "-o", "link", "show")
	if err != nil {
		return nil, err
	}
	if err := res.Err("ip link show"); err != nil {
		return nil, err
	}
	return parseLinkList(res.Stdout), nil
}

func (m *NamespaceManager) InterfaceExists(ctx context.Context, name, ns string) (bool, error) {
	links, err := m.ListInterfaces(ctx, ns)
	if err != nil {
		return false, err
	}
	for _, link := range links {
		if link == name {
			return true, nil
		}
	}
	return false, nil
}

// CreateInterface creates a WireGuard link, moves it into ns, loads
// configPath into it, assigns address, brings it up and routes network
// through it. The first failing step aborts the rest.
func (m *NamespaceManager) CreateInterface(ctx context.Context, name, ns, address, network, configPath string) error {
	exists, err := m.NamespaceExists(ctx, ns)
	if err != nil {
		return err
	}
	if !exists {
		return errors.Derive(errors.ErrNamespaceNotFound, fmt.Sprintf("namespace %s does not exist", ns), nil)
	}
	if address == "" {
		return errors.Derive(errors.ErrMissingAddress, fmt.Sprintf("interface %s has no address", name), nil)
	}

	ifaceExists, err := m.InterfaceExists(ctx, name, ns)
	if err != nil {
		return err
	}
	if ifaceExists {
		log.Debugf("[netns %s] Interface %s already exists", ns, name)
		return nil
	}

	log.Infof("[netns %s] Creating interface %s (%s, route %s)", ns, name, address, network)

	if err := m.exec(ctx, "ip link add", "ip", "link", "add", name, "type", "wireguard"); err != nil {
		return err
	}
	if err := m.exec(ctx, "ip link set netns", "ip", "link", "set", name, "netns", ns); err != nil {
		return err
	}

	// wg setconf does not understand wg-quick keys (Address, DNS), strip them first
	stripped, err := m.runner.Run(ctx, "wg-quick", "strip", configPath)
	if err != nil {
		return err
	}
	if err := stripped.Err("wg-quick strip"); err != nil {
		return err
	}
	res, err := m.runner.RunInput(ctx, stripped.Stdout, "ip", "netns", "exec", ns, "wg", "setconf", name, "/dev/stdin")
	if err != nil {
		return err
	}
	if err := res.Err("wg setconf"); err != nil {
		return err
	}

	if err := m.exec(ctx, "ip addr add", "ip", "-n", ns, "addr", "add", withHostMask(address), "dev", name); err != nil {
		return err
	}
	if err := m.SetInterfaceUp(ctx, name, ns); err != nil {
		return err
	}
	return m.exec(ctx, "ip route add", "ip", "-n", ns, "route", "add", network, "dev", name)
}

func (m *NamespaceManager) SetInterfaceUp(ctx context.Context, name, ns string) error {
	return m.exec(ctx, "ip link set up", "ip", "-n", ns, "link", "set", name, "up")
}

// DestroyInterface deletes the link from ns. A missing link is not an error.
func (m *NamespaceManager) DestroyInterface(ctx context.Context, name, ns string) error {
	exists, err := m.NamespaceExists(ctx, ns)
	if err != nil {
		return err
	}
	if !exists {
		log.Debugf("[netns %s] Namespace is gone, interface %s went with it", ns, name)
		return nil
	}

	ifaceExists, err := m.InterfaceExists(ctx, name, ns)
	if err != nil {
		return err
	}
	if !ifaceExists {
		log.Debugf("[netns %s] Interface %s does not exist", ns, name)
		return nil
	}

	log.Infof("[netns %s] Deleting interface %s", ns, name)
	return m.exec(ctx, "ip link delete", "ip", "-n", ns, "link", "delete", name)
}

func (m *NamespaceManager) exec(ctx context.Context, step string, name string, args ...string) error {
	res, err := m.runner.Run(ctx, name, args...)
	if err != nil {
		return err
	}
	return res.Err(step)
}

// parseNamespaceList handles both "name" and "name (id: N)" lines.
func parseNamespaceList(out string) []string {
	var names []string
	for _, line := range strings.Split(out, "\n") {
		fields := strings.Fields(line)
		if len(fields) == 0 {
			continue
		}
		names = append(names, fields[0])
	}
	return names
}

// parseLinkList reads `ip -o link show` lines: "5: wg-1001: <...> mtu 1420 ..."
// or "7: veth0@if8: <...>".
func parseLinkList(out string) []string {
	var names []string
	for _, line := range strings.Split(out, "\n") {
		fields := strings.Fields(line)
		if len(fields) < 2 {
			continue
		}
		name := strings.TrimSuffix(fields[1], ":")
		if at := strings.IndexByte(name, '@'); at >= 0 {
			name = name[:at]
		}
		if name != "" {
			names = append(names, name)
		}
	}
	return names
}

func withHostMask(address string) string {
	if strings.Contains(address, "/") {
		return address
	}
	return address + "/32"
}
