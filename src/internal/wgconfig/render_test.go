package wgconfig

import (
	stderrors "errors"
	"testing"

	"github.com/maksimkurb/wgvpc/src/internal/errors"
	"github.com/maksimkurb/wgvpc/src/internal/models"
)

func TestRenderInterfaceBlock(t *testing.T) {
	tests := []struct {
		name       string
		address    string
		port       int
		privateKey string
		dns        string
		expected   string
		wantErr    error
	}{
		{
			name:       "with port",
			address:    "10.0.0.1",
			port:       51820,
			privateKey: "KEY",
			expected:   "[Interface]\nAddress = 10.0.0.1/32\nListenPort = 51820\nPrivateKey = KEY",
		},
		{
			name:       "without port",
			address:    "10.0.1.5",
			privateKey: "KEY",
			expected:   "[Interface]\nAddress = 10.0.1.5/32\nPrivateKey = KEY",
		},
		{
			name:       "with dns",
			address:    "10.0.1.5",
			privateKey: "KEY",
			dns:        "1.1.1.1",
			expected:   "[Interface]\nAddress = 10.0.1.5/32\nPrivateKey = KEY\nDNS = 1.1.1.1",
		},
		{
			name:       "invalid address",
			address:    "10.0.0",
			privateKey: "KEY",
			wantErr:    ErrInvalidAddress,
		},
		{
			name:       "invalid port",
			address:    "10.0.0.1",
			port:       70000,
			privateKey: "KEY",
			wantErr:    ErrInvalidPort,
		},
		{
			name:       "negative port",
			address:    "10.0.0.1",
			port:       -1,
			privateKey: "KEY",
			wantErr:    ErrInvalidPort,
		},
		{
			name:       "invalid dns",
			address:    "10.0.0.1",
			privateKey: "KEY",
			dns:        "dns.example",
			wantErr:    ErrInvalidDNS,
		},
		{
			name:    "missing private key",
			address: "10.0.0.1",
			wantErr: ErrMissingPrivateKey,
		},
		{
			name:    "address checked before key",
			address: "bad",
			wantErr: ErrInvalidAddress,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := RenderInterfaceBlock(tt.address, tt.port, tt.privateKey, tt.dns)
			if tt.wantErr != nil {
				if !stderrors.Is(err, tt.wantErr) {
					t.Fatalf("Expected %v, got %v", tt.wantErr, err)
				}
				if errors.CodeOf(err) != errors.ErrCodeValidation {
					t.Errorf("Expected validation code, got %s", errors.CodeOf(err))
				}
				return
			}
			if err != nil {
				t.Fatalf("Unexpected error: %v", err)
			}
			if got != tt.expected {
				t.Errorf("Unexpected block:\n%q\nwant:\n%q", got, tt.expected)
			}
		})
	}
}

func TestRenderPeerBlock(t *testing.T) {
	tests := []struct {
		name       string
		publicKey  string
		endpoint   string
		allowedIPs string
		keepalive  bool
		expected   string
		wantErr    error
	}{
		{
			name:       "two networks with keepalive",
			publicKey:  "PUB",
			allowedIPs: "10.0.1.0/24,10.0.2.0/24",
			keepalive:  true,
			expected:   "[Peer]\nPublicKey = PUB\nAllowedIPs = 10.0.1.0/24,10.0.2.0/24\nPersistentKeepalive = 25",
		},
		{
			name:       "endpoint without keepalive",
			publicKey:  "PUB",
			endpoint:   "vpn.example.com:51820",
			allowedIPs: "10.0.1.5/32",
			expected:   "[Peer]\nPublicKey = PUB\nEndpoint = vpn.example.com:51820\nAllowedIPs = 10.0.1.5/32",
		},
		{
			name:       "spaces are trimmed",
			publicKey:  "PUB",
			allowedIPs: " 10.0.1.0/24 , 10.0.2.0/24 ",
			expected:   "[Peer]\nPublicKey = PUB\nAllowedIPs = 10.0.1.0/24,10.0.2.0/24",
		},
		{
			name:       "missing public key",
			publicKey:  "  ",
			allowedIPs: "10.0.1.0/24",
			wantErr:    ErrMissingPublicKey,
		},
		{
			name:       "invalid network",
			publicKey:  "PUB",
			allowedIPs: "10.0.1.0/24,10.0.2.0/40",
			wantErr:    ErrInvalidAllowedIP,
		},
		{
			name:       "bare address is not a network",
			publicKey:  "PUB",
			allowedIPs: "10.0.1.5",
			wantErr:    ErrInvalidAllowedIP,
		},
		{
			name:      "empty allowed ips",
			publicKey: "PUB",
			wantErr:   ErrMissingAllowedIPs,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := RenderPeerBlock(tt.publicKey, tt.endpoint, tt.allowedIPs, tt.keepalive)
			if tt.wantErr != nil {
				if !stderrors.Is(err, tt.wantErr) {
					t.Fatalf("Expected %v, got %v", tt.wantErr, err)
				}
				return
			}
			if err != nil {
				t.Fatalf("Unexpected error: %v", err)
			}
			if got != tt.expected {
				t.Errorf("Unexpected block:\n%q\nwant:\n%q", got, tt.expected)
			}
		})
	}
}

func testRouter() *models.Router {
	return &models.Router{
		ID:         "R1",
		Domain:     "vpn.example.com",
		PublicKey:  "ROUTERPUB",
		PrivateKey: "ROUTERPRIV",
	}
}

func testLANs() []*models.LAN {
	return []*models.LAN{
		{ID: "L1", Interface: "wg-1001", Network: "10.0.1.0/24", Gateway: "10.0.1.1", Port: 51001},
		{ID: "L2", Interface: "wg-1002", Network: "10.0.2.0/24", Gateway: "10.0.2.1", Port: 51002},
	}
}

func testRemotes() []*models.Remote {
	return []*models.Remote{
		{ID: "P1", LANID: "L1", Address: "10.0.1.10", PublicKey: "P1PUB", PrivateKey: "P1PRIV"},
		{ID: "P2", LANID: "L2", Address: "10.0.2.10", PublicKey: "P2PUB", PrivateKey: "P2PRIV"},
		{ID: "P3", LANID: "L1", Address: "10.0.1.11", PublicKey: "P3PUB", PrivateKey: "P3PRIV"},
	}
}

func TestRenderLANConfig(t *testing.T) {
	lans := testLANs()

	got, err := RenderLANConfig(testRouter(), lans[0], testRemotes())
	if err != nil {
		t.Fatalf("Unexpected error: %v", err)
	}

	expected := "[Interface]\n" +
		"Address = 10.0.1.1/32\n" +
		"ListenPort = 51001\n" +
		"PrivateKey = ROUTERPRIV\n" +
		"\n" +
		"[Peer]\n" +
		"PublicKey = P1PUB\n" +
		"AllowedIPs = 10.0.1.10/32\n" +
		"PersistentKeepalive = 25\n" +
		"\n" +
		"[Peer]\n" +
		"PublicKey = P3PUB\n" +
		"AllowedIPs = 10.0.1.11/32\n" +
		"PersistentKeepalive = 25\n"

	if got != expected {
		t.Errorf("Unexpected config:\n%s\nwant:\n%s", got, expected)
	}
}

func TestRenderLANConfig_NoRemotes(t *testing.T) {
	got, err := RenderLANConfig(testRouter(), testLANs()[1], nil)
	if err != nil {
		t.Fatalf("Unexpected error: %v", err)
	}
	expected := "[Interface]\nAddress = 10.0.2.1/32\nListenPort = 51002\nPrivateKey = ROUTERPRIV\n"
	if got != expected {
		t.Errorf("Unexpected config:\n%q\nwant:\n%q", got, expected)
	}
}

func TestRenderLANConfig_Errors(t *testing.T) {
	if _, err := RenderLANConfig(testRouter(), nil, nil); !stderrors.Is(err, ErrLANNotFound) {
		t.Errorf("Expected ErrLANNotFound, got %v", err)
	}

	router := testRouter()
	router.PrivateKey = ""
	if _, err := RenderLANConfig(router, testLANs()[0], nil); !stderrors.Is(err, ErrMissingPrivateKey) {
		t.Errorf("Expected ErrMissingPrivateKey, got %v", err)
	}

	remotes := testRemotes()
	remotes[0].PublicKey = ""
	if _, err := RenderLANConfig(testRouter(), testLANs()[0], remotes); !stderrors.Is(err, ErrMissingPublicKey) {
		t.Errorf("Expected ErrMissingPublicKey, got %v", err)
	}

	if _, err := RenderLANConfig(nil, testLANs()[0], nil); errors.CodeOf(err) != errors.ErrCodeNotFound {
		t.Errorf("Expected not found for nil router, got %v", err)
	}
}

func TestRenderRemoteConfig(t *testing.T) {
	lans := testLANs()
	remote := testRemotes()[1]

	got, err := RenderRemoteConfig(testRouter(), lans[1], remote, lans)
	if err != nil {
		t.Fatalf("Unexpected error: %v", err)
	}

	expected := "[Interface]\n" +
		"Address = 10.0.2.10/32\n" +
		"PrivateKey = P2PRIV\n" +
		"\n" +
		"[Peer]\n" +
		"PublicKey = ROUTERPUB\n" +
		"Endpoint = vpn.example.com:51002\n" +
		"AllowedIPs = 10.0.1.0/24,10.0.2.0/24\n" +
		"PersistentKeepalive = 25\n"

	if got != expected {
		t.Errorf("Unexpected config:\n%s\nwant:\n%s", got, expected)
	}
}

func TestRenderRemoteConfig_Errors(t *testing.T) {
	lans := testLANs()

	if _, err := RenderRemoteConfig(testRouter(), lans[0], nil, lans); !stderrors.Is(err, ErrRemoteNotFound) {
		t.Errorf("Expected ErrRemoteNotFound, got %v", err)
	}
	if _, err := RenderRemoteConfig(testRouter(), nil, testRemotes()[0], lans); !stderrors.Is(err, ErrLANNotFound) {
		t.Errorf("Expected ErrLANNotFound, got %v", err)
	}
	if _, err := RenderRemoteConfig(testRouter(), lans[0], testRemotes()[0], nil); !stderrors.Is(err, ErrMissingAllowedIPs) {
		t.Errorf("Expected ErrMissingAllowedIPs for router without LANs, got %v", err)
	}
}
