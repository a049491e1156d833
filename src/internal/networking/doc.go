// Package networking applies router state to the host.
//
// NamespaceManager drives the ip, wg and wg-quick tools through a
// CommandRunner to create namespaces and WireGuard interfaces. Firewall
// manages DROP/ACCEPT rules in the filter table through go-iptables.
// Inspector reads the live links of a namespace over netlink.
//
// All mutating operations check current state first, so calling them twice
// leaves the host exactly as calling them once.
package networking
