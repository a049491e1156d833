package networking_test

import (
	"context"
	stderrors "errors"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/maksimkurb/wgvpc/src/internal/errors"
	"github.com/maksimkurb/wgvpc/src/internal/mocks"
	"github.com/maksimkurb/wgvpc/src/internal/networking"
)

const testConfig = "[Interface]\nAddress = 10.0.1.1/32\nListenPort = 51001\nPrivateKey = KEY\n\n[Peer]\nPublicKey = PUB\nAllowedIPs = 10.0.1.10/32\nPersistentKeepalive = 25\n"

func writeConfig(t *testing.T) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), "wg-1001.conf")
	if err := os.WriteFile(path, []byte(testConfig), 0600); err != nil {
		t.Fatalf("Failed to write config: %v", err)
	}
	return path
}

func TestCreateNamespace_Idempotent(t *testing.T) {
	ctx := context.Background()
	host := mocks.NewFakeHost()
	m := networking.NewNamespaceManager(host)

	if err := m.CreateNamespace(ctx, "ns_R1"); err != nil {
		t.Fatalf("First CreateNamespace failed: %v", err)
	}
	if err := m.CreateNamespace(ctx, "ns_R1"); err != nil {
		t.Fatalf("Second CreateNamespace failed: %v", err)
	}

	if got := host.CallCount("ip netns add ns_R1"); got != 1 {
		t.Errorf("Expected namespace to be added once, got %d", got)
	}
	if !host.Namespaces["ns_R1"].LoopbackUp {
		t.Error("Expected loopback to be up")
	}
}

func TestNamespaceExists_ExactMatch(t *testing.T) {
	ctx := context.Background()
	host := mocks.NewFakeHost()
	host.AddNamespace("ns_R10")
	m := networking.NewNamespaceManager(host)

	exists, err := m.NamespaceExists(ctx, "ns_R1")
	if err != nil {
		t.Fatalf("NamespaceExists failed: %v", err)
	}
	if exists {
		t.Error("ns_R1 must not match ns_R10")
	}

	if err := m.CreateNamespace(ctx, "ns_R1"); err != nil {
		t.Fatalf("CreateNamespace failed: %v", err)
	}
	if !host.HasNamespace("ns_R1") {
		t.Error("Expected ns_R1 to be created next to ns_R10")
	}
}

func TestDeleteNamespace(t *testing.T) {
	ctx := context.Background()
	host := mocks.NewFakeHost()
	m := networking.NewNamespaceManager(host)

	// Missing namespace is a no-op
	if err := m.DeleteNamespace(ctx, "ns_R1"); err != nil {
		t.Fatalf("DeleteNamespace on missing namespace failed: %v", err)
	}
	if host.CallCount("ip netns delete") != 0 {
		t.Error("Expected no delete call for missing namespace")
	}

	host.AddNamespace("ns_R1")
	if err := m.DeleteNamespace(ctx, "ns_R1"); err != nil {
		t.Fatalf("DeleteNamespace failed: %v", err)
	}
	if host.HasNamespace("ns_R1") {
		t.Error("Expected namespace to be deleted")
	}
}

func TestCreateInterface(t *testing.T) {
	ctx := context.Background()
	host := mocks.NewFakeHost()
	m := networking.NewNamespaceManager(host)
	configPath := writeConfig(t)

	if err := m.CreateNamespace(ctx, "ns_R1"); err != nil {
		t.Fatal(err)
	}
	if err := m.CreateInterface(ctx, "wg-1001", "ns_R1", "10.0.1.1", "10.0.1.0/24", configPath); err != nil {
		t.Fatalf("CreateInterface failed: %v", err)
	}

	link := host.Link("ns_R1", "wg-1001")
	if link == nil {
		t.Fatal("Expected interface inside namespace")
	}
	if link.Type != "wireguard" || !link.Up {
		t.Errorf("Unexpected link state: %+v", link)
	}
	if len(link.Addresses) != 1 || link.Addresses[0] != "10.0.1.1/32" {
		t.Errorf("Unexpected addresses: %v", link.Addresses)
	}
	if len(link.Routes) != 1 || link.Routes[0] != "10.0.1.0/24" {
		t.Errorf("Unexpected routes: %v", link.Routes)
	}
	if strings.Contains(link.Config, "Address") || !strings.Contains(link.Config, "PrivateKey = KEY") {
		t.Errorf("Expected stripped config to be loaded, got:\n%s", link.Config)
	}
	if _, inRoot := host.RootLinks["wg-1001"]; inRoot {
		t.Error("Interface must not stay in the root namespace")
	}

	exists, err := m.InterfaceExists(ctx, "wg-1001", "ns_R1")
	if err != nil || !exists {
		t.Errorf("InterfaceExists = %v, %v", exists, err)
	}

	// Second call is a no-op
	if err := m.CreateInterface(ctx, "wg-1001", "ns_R1", "10.0.1.1", "10.0.1.0/24", configPath); err != nil {
		t.Fatalf("Second CreateInterface failed: %v", err)
	}
	if got := host.CallCount("ip link add wg-1001"); got != 1 {
		t.Errorf("Expected one link add, got %d", got)
	}
}

func TestCreateInterface_Preconditions(t *testing.T) {
	ctx := context.Background()
	host := mocks.NewFakeHost()
	m := networking.NewNamespaceManager(host)

	err := m.CreateInterface(ctx, "wg-1001", "ns_missing", "10.0.1.1", "10.0.1.0/24", "/nonexistent")
	if !stderrors.Is(err, errors.ErrNamespaceNotFound) {
		t.Errorf("Expected ErrNamespaceNotFound, got %v", err)
	}

	host.AddNamespace("ns_R1")
	err = m.CreateInterface(ctx, "wg-1001", "ns_R1", "", "10.0.1.0/24", "/nonexistent")
	if !stderrors.Is(err, errors.ErrMissingAddress) {
		t.Errorf("Expected ErrMissingAddress, got %v", err)
	}

	if host.CallCount("ip link add") != 0 {
		t.Error("Expected no mutation before preconditions pass")
	}
}

func TestCreateInterface_StepFailureAborts(t *testing.T) {
	tests := []struct {
		name       string
		failPrefix string
		step       string
		notCalled  string
	}{
		{"link add", "ip link add", "ip link add", "ip link set wg-1001 netns"},
		{"move to namespace", "ip link set wg-1001 netns", "ip link set netns", "wg-quick strip"},
		{"strip", "wg-quick strip", "wg-quick strip", "ip netns exec"},
		{"setconf", "ip netns exec ns_R1 wg setconf", "wg setconf", "ip -n ns_R1 addr add"},
		{"addr", "ip -n ns_R1 addr add", "ip addr add", "ip -n ns_R1 link set wg-1001 up"},
		{"up", "ip -n ns_R1 link set wg-1001 up", "ip link set up", "ip -n ns_R1 route add"},
		{"route", "ip -n ns_R1 route add", "ip route add", ""},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			ctx := context.Background()
			host := mocks.NewFakeHost()
			host.AddNamespace("ns_R1")
			host.FailOn[tt.failPrefix] = 1
			m := networking.NewNamespaceManager(host)

			err := m.CreateInterface(ctx, "wg-1001", "ns_R1", "10.0.1.1", "10.0.1.0/24", writeConfig(t))
			if err == nil {
				t.Fatal("Expected error")
			}
			if errors.CodeOf(err) != errors.ErrCodeExternalTool {
				t.Errorf("Expected EXTERNAL_TOOL_ERROR, got %v", err)
			}
			if !strings.Contains(err.Error(), tt.step) {
				t.Errorf("Expected error to name step %q, got %v", tt.step, err)
			}
			if tt.notCalled != "" && host.CallCount(tt.notCalled) != 0 {
				t.Errorf("Expected %q not to run after failure", tt.notCalled)
			}
		})
	}
}

func TestDestroyInterface(t *testing.T) {
	ctx := context.Background()
	host := mocks.NewFakeHost()
	m := networking.NewNamespaceManager(host)

	// Namespace missing: nothing to do
	if err := m.DestroyInterface(ctx, "wg-1001", "ns_R1"); err != nil {
		t.Fatalf("DestroyInterface without namespace failed: %v", err)
	}

	if err := m.CreateNamespace(ctx, "ns_R1"); err != nil {
		t.Fatal(err)
	}
	// Interface missing: nothing to do
	if err := m.DestroyInterface(ctx, "wg-1001", "ns_R1"); err != nil {
		t.Fatalf("DestroyInterface without link failed: %v", err)
	}

	if err := m.CreateInterface(ctx, "wg-1001", "ns_R1", "10.0.1.1", "10.0.1.0/24", writeConfig(t)); err != nil {
		t.Fatal(err)
	}
	if err := m.DestroyInterface(ctx, "wg-1001", "ns_R1"); err != nil {
		t.Fatalf("DestroyInterface failed: %v", err)
	}
	if host.Link("ns_R1", "wg-1001") != nil {
		t.Error("Expected interface to be removed")
	}
	if got := host.CallCount("ip -n ns_R1 link delete"); got != 1 {
		t.Errorf("Expected one delete call, got %d", got)
	}
}

func TestNamespaceManager_RunnerError(t *testing.T) {
	host := mocks.NewFakeHost()
	host.RunFunc = func(input, name string, args ...string) (*networking.Result, error) {
		return nil, errors.NewExternalToolError("failed to run ip", stderrors.New("exec: \"ip\": executable file not found in $PATH"))
	}
	m := networking.NewNamespaceManager(host)

	if err := m.CreateNamespace(context.Background(), "ns_R1"); err == nil {
		t.Error("Expected runner error to propagate")
	}
}
