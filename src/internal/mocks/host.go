package mocks

import (
	"bufio"
	"context"
	"fmt"
	"os"
	"sort"
	"strings"
	"sync"

	"github.com/maksimkurb/wgvpc/src/internal/networking"
)

// FakeLink is a simulated network link.
type FakeLink struct {
	Name      string
	Type      string
	Up        bool
	Addresses []string
	Routes    []string
	// Config is what `wg setconf` loaded into the link.
	Config string
}

// FakeNamespace is a simulated network namespace.
type FakeNamespace struct {
	LoopbackUp bool
	Links      map[string]*FakeLink
}

// FakeHost implements networking.CommandRunner by interpreting the ip, wg
// and wg-quick invocations the networking package issues against an
// in-memory model of namespaces and links.
type FakeHost struct {
	mu sync.Mutex

	Namespaces map[string]*FakeNamespace
	RootLinks  map[string]*FakeLink

	// FailOn makes any command line starting with a key exit with the mapped code.
	FailOn map[string]int

	// RunFunc, if set, replaces the simulation entirely.
	RunFunc func(input, name string, args ...string) (*networking.Result, error)

	// Calls records every command line in order.
	Calls []string
}

func NewFakeHost() *FakeHost {
	return &FakeHost{
		Namespaces: make(map[string]*FakeNamespace),
		RootLinks:  make(map[string]*FakeLink),
		FailOn:     make(map[string]int),
	}
}

func (h *FakeHost) Run(ctx context.Context, name string, args ...string) (*networking.Result, error) {
	return h.RunInput(ctx, "", name, args...)
}

func (h *FakeHost) RunInput(ctx context.Context, input string, name string, args ...string) (*networking.Result, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}

	h.mu.Lock()
	defer h.mu.Unlock()

	line := strings.Join(append([]string{name}, args...), " ")
	h.Calls = append(h.Calls, line)

	if h.RunFunc != nil {
		return h.RunFunc(input, name, args...)
	}
	for prefix, code := range h.FailOn {
		if strings.HasPrefix(line, prefix) {
			return &networking.Result{ExitCode: code, Stderr: "simulated failure: " + line}, nil
		}
	}

	switch name {
	case "ip":
		return h.ip(input, args), nil
	case "wg-quick":
		return h.wgQuick(args), nil
	}
	return fail(127, "%s: command not found", name), nil
}

// CallCount returns how many recorded command lines start with prefix.
func (h *FakeHost) CallCount(prefix string) int {
	h.mu.Lock()
	defer h.mu.Unlock()

	n := 0
	for _, c := range h.Calls {
		if strings.HasPrefix(c, prefix) {
			n++
		}
	}
	return n
}

// Link returns a link inside ns, or nil.
func (h *FakeHost) Link(ns, name string) *FakeLink {
	h.mu.Lock()
	defer h.mu.Unlock()

	if n, ok := h.Namespaces[ns]; ok {
		return n.Links[name]
	}
	return nil
}

func (h *FakeHost) HasNamespace(ns string) bool {
	h.mu.Lock()
	defer h.mu.Unlock()

	_, ok := h.Namespaces[ns]
	return ok
}

// AddNamespace seeds a namespace, as if created by another process.
func (h *FakeHost) AddNamespace(ns string) {
	h.mu.Lock()
	defer h.mu.Unlock()

	h.Namespaces[ns] = &FakeNamespace{Links: make(map[string]*FakeLink)}
}

// Links implements domain.LinkInspector over the simulated namespaces.
func (h *FakeHost) Links(ns string) ([]networking.LinkInfo, error) {
	h.mu.Lock()
	defer h.mu.Unlock()

	n, exists := h.Namespaces[ns]
	if !exists {
		return nil, fmt.Errorf("failed to open namespace %s: no such file or directory", ns)
	}
	names := make([]string, 0, len(n.Links))
	for name := range n.Links {
		names = append(names, name)
	}
	sort.Strings(names)

	infos := make([]networking.LinkInfo, 0, len(names))
	for _, name := range names {
		l := n.Links[name]
		infos = append(infos, networking.LinkInfo{
			Name:      l.Name,
			Type:      l.Type,
			Up:        l.Up,
			MTU:       1420,
			Addresses: append([]string(nil), l.Addresses...),
		})
	}
	return infos, nil
}

func (h *FakeHost) ip(input string, args []string) *networking.Result {
	ns := ""
	if len(args) >= 2 && args[0] == "-n" {
		ns, args = args[1], args[2:]
		if _, ok := h.Namespaces[ns]; !ok {
			return fail(1, "Cannot open network namespace \"%s\": No such file or directory", ns)
		}
	}
	if len(args) > 0 && args[0] == "-o" {
		args = args[1:]
	}
	if len(args) < 2 {
		return fail(1, "Object \"%s\" is unknown", strings.Join(args, " "))
	}

	switch args[0] {
	case "netns":
		return h.netns(input, args[1:])
	case "link":
		return h.link(ns, args[1:])
	case "addr":
		return h.addrOrRoute(ns, args[1:], false)
	case "route":
		return h.addrOrRoute(ns, args[1:], true)
	}
	return fail(1, "Object \"%s\" is unknown", args[0])
}

func (h *FakeHost) netns(input string, args []string) *networking.Result {
	switch args[0] {
	case "list":
		names := make([]string, 0, len(h.Namespaces))
		for name := range h.Namespaces {
			names = append(names, name)
		}
		sort.Strings(names)
		var b strings.Builder
		for i, name := range names {
			fmt.Fprintf(&b, "%s (id: %d)\n", name, i)
		}
		return ok(b.String())
	case "add":
		if _, exists := h.Namespaces[args[1]]; exists {
			return fail(1, "Cannot create namespace file \"/var/run/netns/%s\": File exists", args[1])
		}
		h.Namespaces[args[1]] = &FakeNamespace{Links: make(map[string]*FakeLink)}
		return ok("")
	case "delete", "del":
		if _, exists := h.Namespaces[args[1]]; !exists {
			return fail(1, "Cannot remove namespace file \"/var/run/netns/%s\": No such file or directory", args[1])
		}
		delete(h.Namespaces, args[1])
		return ok("")
	case "exec":
		// ip netns exec <ns> wg setconf <name> /dev/stdin
		if len(args) < 6 || args[2] != "wg" || args[3] != "setconf" {
			return fail(1, "unsupported netns exec: %s", strings.Join(args, " "))
		}
		n, exists := h.Namespaces[args[1]]
		if !exists {
			return fail(1, "Cannot open network namespace \"%s\"", args[1])
		}
		link, exists := n.Links[args[4]]
		if !exists {
			return fail(1, "Unable to modify interface: No such device")
		}
		if !strings.Contains(input, "PrivateKey") {
			return fail(1, "Unable to parse configuration")
		}
		link.Config = input
		return ok("")
	}
	return fail(1, "unknown netns command %s", args[0])
}

func (h *FakeHost) links(ns string) map[string]*FakeLink {
	if ns == "" {
		return h.RootLinks
	}
	return h.Namespaces[ns].Links
}

func (h *FakeHost) link(ns string, args []string) *networking.Result {
	links := h.links(ns)

	switch args[0] {
	case "show":
		names := make([]string, 0, len(links))
		for name := range links {
			names = append(names, name)
		}
		sort.Strings(names)

		var b strings.Builder
		if ns != "" {
			state := "DOWN"
			if h.Namespaces[ns].LoopbackUp {
				state = "UP"
			}
			fmt.Fprintf(&b, "1: lo: <LOOPBACK> mtu 65536 qdisc noqueue state %s mode DEFAULT group default qlen 1000\\    link/loopback 00:00:00:00:00:00 brd 00:00:00:00:00:00\n", state)
		}
		for i, name := range names {
			flags := "POINTOPOINT,NOARP"
			if links[name].Up {
				flags += ",UP,LOWER_UP"
			}
			fmt.Fprintf(&b, "%d: %s: <%s> mtu 1420 qdisc noqueue state UNKNOWN mode DEFAULT group default qlen 1000\\    link/none \n", i+2, name, flags)
		}
		return ok(b.String())
	case "add":
		// link add <name> type wireguard
		if len(args) < 4 {
			return fail(1, "incomplete command")
		}
		if _, exists := links[args[1]]; exists {
			return fail(2, "RTNETLINK answers: File exists")
		}
		links[args[1]] = &FakeLink{Name: args[1], Type: args[3]}
		return ok("")
	case "set":
		if len(args) < 3 {
			return fail(1, "incomplete command")
		}
		name := args[1]
		if name == "lo" && ns != "" && args[2] == "up" {
			h.Namespaces[ns].LoopbackUp = true
			return ok("")
		}
		link, exists := links[name]
		if !exists {
			return fail(1, "Cannot find device \"%s\"", name)
		}
		switch args[2] {
		case "up":
			link.Up = true
			return ok("")
		case "netns":
			target, exists := h.Namespaces[args[3]]
			if !exists {
				return fail(1, "Invalid \"netns\" value \"%s\"", args[3])
			}
			delete(links, name)
			target.Links[name] = link
			return ok("")
		}
	case "delete", "del":
		if _, exists := links[args[1]]; !exists {
			return fail(1, "Cannot find device \"%s\"", args[1])
		}
		delete(links, args[1])
		return ok("")
	}
	return fail(1, "unsupported link command: %s", strings.Join(args, " "))
}

// addrOrRoute handles `addr add <addr> dev <name>` and `route add <net> dev <name>`.
func (h *FakeHost) addrOrRoute(ns string, args []string, route bool) *networking.Result {
	if len(args) != 4 || args[0] != "add" || args[2] != "dev" {
		return fail(1, "unsupported command: %s", strings.Join(args, " "))
	}
	link, exists := h.links(ns)[args[3]]
	if !exists {
		return fail(1, "Cannot find device \"%s\"", args[3])
	}
	if route {
		if !link.Up {
			return fail(2, "RTNETLINK answers: Network is down")
		}
		link.Routes = append(link.Routes, args[1])
	} else {
		link.Addresses = append(link.Addresses, args[1])
	}
	return ok("")
}

// wgQuick handles `wg-quick strip <path>` by dropping wg-quick only keys.
func (h *FakeHost) wgQuick(args []string) *networking.Result {
	if len(args) != 2 || args[0] != "strip" {
		return fail(1, "Usage: wg-quick [ up | down | save | strip ] [ CONFIG_FILE | INTERFACE ]")
	}
	f, err := os.Open(args[1])
	if err != nil {
		return fail(1, "wg-quick: `%s' does not exist", args[1])
	}
	defer f.Close()

	var b strings.Builder
	scanner := bufio.NewScanner(f)
	for scanner.Scan() {
		line := scanner.Text()
		key := strings.TrimSpace(strings.SplitN(line, "=", 2)[0])
		switch key {
		case "Address", "DNS", "MTU", "Table", "PreUp", "PostUp", "PreDown", "PostDown", "SaveConfig":
			continue
		}
		b.WriteString(line)
		b.WriteString("\n")
	}
	return ok(b.String())
}

func ok(stdout string) *networking.Result {
	return &networking.Result{Stdout: stdout}
}

func fail(code int, format string, args ...any) *networking.Result {
	return &networking.Result{ExitCode: code, Stderr: fmt.Sprintf(format, args...)}
}
