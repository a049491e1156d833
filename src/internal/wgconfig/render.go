package wgconfig

import (
	"fmt"
	"strings"

	"github.com/maksimkurb/wgvpc/src/internal/errors"
	"github.com/maksimkurb/wgvpc/src/internal/models"
	"github.com/maksimkurb/wgvpc/src/internal/utils"
)

// KeepaliveSeconds is the PersistentKeepalive value written when keepalive is requested.
const KeepaliveSeconds = 25

// RenderInterfaceBlock renders an [Interface] section.
// port 0 and dns "" are treated as absent. The result has no trailing newline.
func RenderInterfaceBlock(address string, port int, privateKey, dns string) (string, error) {
	if !utils.IsValidAddress(address) {
		return "", errors.Derive(ErrInvalidAddress, fmt.Sprintf("invalid interface address %q", address), nil)
	}
	if port != 0 && !utils.IsValidPort(port) {
		return "", errors.Derive(ErrInvalidPort, fmt.Sprintf("listen port %d is out of range 1-65535", port), nil)
	}
	if dns != "" && !utils.IsValidAddress(dns) {
		return "", errors.Derive(ErrInvalidDNS, fmt.Sprintf("invalid DNS address %q", dns), nil)
	}
	if privateKey == "" {
		return "", ErrMissingPrivateKey
	}

	var b strings.Builder
	b.WriteString("[Interface]\n")
	fmt.Fprintf(&b, "Address = %s/32\n", address)
	if port != 0 {
		fmt.Fprintf(&b, "ListenPort = %d\n", port)
	}
	fmt.Fprintf(&b, "PrivateKey = %s\n", privateKey)
	if dns != "" {
		fmt.Fprintf(&b, "DNS = %s\n", dns)
	}
	return strings.TrimSpace(b.String()), nil
}

// RenderPeerBlock renders a [Peer] section. allowedIPs is a comma-separated
// list of networks; endpoint "" is omitted. The result has no trailing newline.
func RenderPeerBlock(publicKey, endpoint, allowedIPs string, keepalive bool) (string, error) {
	if strings.TrimSpace(publicKey) == "" {
		return "", ErrMissingPublicKey
	}

	networks := utils.SplitList(allowedIPs)
	for _, network := range networks {
		if !utils.IsValidNetwork(network) {
			return "", errors.Derive(ErrInvalidAllowedIP, fmt.Sprintf("invalid allowed IP network %q", network), nil)
		}
	}
	if len(networks) == 0 {
		return "", ErrMissingAllowedIPs
	}

	var b strings.Builder
	b.WriteString("[Peer]\n")
	fmt.Fprintf(&b, "PublicKey = %s\n", publicKey)
	if endpoint != "" {
		fmt.Fprintf(&b, "Endpoint = %s\n", endpoint)
	}
	fmt.Fprintf(&b, "AllowedIPs = %s\n", strings.Join(networks, ","))
	if keepalive {
		fmt.Fprintf(&b, "PersistentKeepalive = %d\n", KeepaliveSeconds)
	}
	return strings.TrimSpace(b.String()), nil
}

// RenderLANConfig renders the router side config of one LAN: the interface
// block on the LAN gateway, then one peer per remote attached to the LAN.
func RenderLANConfig(router *models.Router, lan *models.LAN, remotes []*models.Remote) (string, error) {
	if router == nil {
		return "", errRouterNotFound
	}
	if lan == nil {
		return "", ErrLANNotFound
	}

	iface, err := RenderInterfaceBlock(lan.Gateway, lan.Port, router.PrivateKey, "")
	if err != nil {
		return "", fmt.Errorf("lan %s: %w", lan.ID, err)
	}

	blocks := []string{iface}
	for _, remote := range remotes {
		if remote.LANID != lan.ID {
			continue
		}
		peer, err := RenderPeerBlock(remote.PublicKey, "", remote.Address+"/32", true)
		if err != nil {
			return "", fmt.Errorf("lan %s, remote %s: %w", lan.ID, remote.ID, err)
		}
		blocks = append(blocks, peer)
	}

	return joinBlocks(blocks), nil
}

// RenderRemoteConfig renders the client side config of a remote. The peer
// routes every LAN network of the router through the LAN endpoint.
func RenderRemoteConfig(router *models.Router, lan *models.LAN, remote *models.Remote, lans []*models.LAN) (string, error) {
	if router == nil {
		return "", errRouterNotFound
	}
	if remote == nil {
		return "", ErrRemoteNotFound
	}
	if lan == nil {
		return "", ErrLANNotFound
	}

	iface, err := RenderInterfaceBlock(remote.Address, 0, remote.PrivateKey, "")
	if err != nil {
		return "", fmt.Errorf("remote %s: %w", remote.ID, err)
	}

	networks := make([]string, 0, len(lans))
	for _, l := range lans {
		networks = append(networks, l.Network)
	}

	endpoint := fmt.Sprintf("%s:%d", router.Domain, lan.Port)
	peer, err := RenderPeerBlock(router.PublicKey, endpoint, strings.Join(networks, ","), true)
	if err != nil {
		return "", fmt.Errorf("remote %s: %w", remote.ID, err)
	}

	return joinBlocks([]string{iface, peer}), nil
}

// joinBlocks separates sections with a blank line and ends the text with a newline.
func joinBlocks(blocks []string) string {
	return strings.Join(blocks, "\n\n") + "\n"
}
