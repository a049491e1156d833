package networking

import (
	"fmt"
	"net"

	"github.com/vishvananda/netlink"
	"github.com/vishvananda/netns"
)

// LinkInfo describes one link as seen inside a namespace.
type LinkInfo struct {
	Name      string   `json:"name"`
	Type      string   `json:"type"`
	Up        bool     `json:"up"`
	MTU       int      `json:"mtu"`
	Addresses []string `json:"addresses"`
}

// Inspector reads runtime link state of a named namespace over netlink.
type Inspector struct{}

func NewInspector() *Inspector {
	return &Inspector{}
}

// Links returns all links in ns except loopback.
func (i *Inspector) Links(ns string) ([]LinkInfo, error) {
	nsHandle, err := netns.GetFromName(ns)
	if err != nil {
		return nil, fmt.Errorf("failed to open namespace %s: %w", ns, err)
	}
	defer nsHandle.Close()

	h, err := netlink.NewHandleAt(nsHandle)
	if err != nil {
		return nil, fmt.Errorf("failed to open netlink handle in %s: %w", ns, err)
	}
	defer h.Close()

	links, err := h.LinkList()
	if err != nil {
		return nil, fmt.Errorf("failed to list links in %s: %w", ns, err)
	}

	var infos []LinkInfo
	for _, link := range links {
		attrs := link.Attrs()
		if attrs.Flags&net.FlagLoopback != 0 {
			continue
		}

		info := LinkInfo{
			Name: attrs.Name,
			Type: link.Type(),
			Up:   attrs.Flags&net.FlagUp != 0,
			MTU:  attrs.MTU,
		}

		addrs, err := h.AddrList(link, netlink.FAMILY_V4)
		if err != nil {
			return nil, fmt.Errorf("failed to list addresses of %s in %s: %w", attrs.Name, ns, err)
		}
		for _, addr := range addrs {
			info.Addresses = append(info.Addresses, addr.IPNet.String())
		}

		infos = append(infos, info)
	}
	return infos, nil
}
