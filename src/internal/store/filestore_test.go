package store

import (
	stderrors "errors"
	"os"
	"path/filepath"
	"strings"
	"testing"
	"time"

	"github.com/maksimkurb/wgvpc/src/internal/errors"
	"github.com/maksimkurb/wgvpc/src/internal/keys"
	"github.com/maksimkurb/wgvpc/src/internal/models"
)

// sequence returns values from vals in order, then repeats the last one.
func sequence(vals ...int) func(int) int {
	i := 0
	return func(n int) int {
		v := vals[i]
		if i < len(vals)-1 {
			i++
		}
		return v % n
	}
}

func newTestStore(t *testing.T) *FileStore {
	t.Helper()
	s := NewFileStore(t.TempDir(), nil)
	s.now = func() time.Time { return time.Date(2026, 10, 1, 12, 0, 0, 0, time.UTC) }
	return s
}

func seedRouter(t *testing.T, s *FileStore) *models.Router {
	t.Helper()
	r, err := s.CreateRouter(&models.Router{ID: "R1", Domain: "vpn.example.com"})
	if err != nil {
		t.Fatalf("CreateRouter failed: %v", err)
	}
	return r
}

func TestVPC_CRUD(t *testing.T) {
	s := newTestStore(t)

	vpc, err := s.CreateVPC(&models.VPC{})
	if err != nil {
		t.Fatalf("CreateVPC failed: %v", err)
	}
	if !strings.HasPrefix(vpc.ID, "vpc-") || vpc.Name != vpc.ID {
		t.Errorf("Expected generated id and name, got %+v", vpc)
	}
	if vpc.CreatedAt.IsZero() || !vpc.CreatedAt.Equal(vpc.UpdatedAt) {
		t.Errorf("Expected timestamps, got %v / %v", vpc.CreatedAt, vpc.UpdatedAt)
	}

	if _, err := os.Stat(filepath.Join(s.DataDir(), "vpcs", vpc.ID+".toml")); err != nil {
		t.Errorf("Expected vpc file: %v", err)
	}

	read, err := s.ReadVPC(vpc.ID)
	if err != nil {
		t.Fatalf("ReadVPC failed: %v", err)
	}
	if read.Name != vpc.Name || !read.CreatedAt.Equal(vpc.CreatedAt) {
		t.Errorf("Round trip mismatch: %+v vs %+v", read, vpc)
	}

	if _, err := s.CreateVPC(&models.VPC{ID: vpc.ID}); !stderrors.Is(err, errors.ErrAlreadyExists) {
		t.Errorf("Expected ErrAlreadyExists, got %v", err)
	}

	list, err := s.ListVPCs()
	if err != nil || len(list) != 1 {
		t.Fatalf("ListVPCs = %v, %v", list, err)
	}

	if err := s.DeleteVPC(vpc.ID); err != nil {
		t.Fatalf("DeleteVPC failed: %v", err)
	}
	if _, err := s.ReadVPC(vpc.ID); !stderrors.Is(err, errors.ErrNotFound) {
		t.Errorf("Expected ErrNotFound after delete, got %v", err)
	}
	if err := s.DeleteVPC(vpc.ID); !stderrors.Is(err, errors.ErrNotFound) {
		t.Errorf("Expected ErrNotFound on second delete, got %v", err)
	}
}

func TestRouter_Create(t *testing.T) {
	s := newTestStore(t)

	r := seedRouter(t, s)
	if err := keys.CheckPair(r.PrivateKey, r.PublicKey); err != nil {
		t.Errorf("Expected generated key pair, got %v", err)
	}
	if !r.MeshAllowed() {
		t.Error("Expected mesh to default to allowed")
	}

	read, err := s.ReadRouter("R1")
	if err != nil {
		t.Fatalf("ReadRouter failed: %v", err)
	}
	if read.PrivateKey != r.PrivateKey || read.Domain != "vpn.example.com" {
		t.Errorf("Round trip mismatch: %+v", read)
	}
	if read.AllowMesh != nil {
		t.Errorf("Absent allowMesh must stay absent, got %v", *read.AllowMesh)
	}

	if _, err := s.CreateRouter(&models.Router{ID: "R1", Domain: "vpn.example.com"}); !stderrors.Is(err, errors.ErrAlreadyExists) {
		t.Errorf("Expected ErrAlreadyExists, got %v", err)
	}

	routers, err := s.ListRouters()
	if err != nil || len(routers) != 1 || routers[0].ID != "R1" {
		t.Errorf("ListRouters = %v, %v", routers, err)
	}
}

func TestRouter_CreateErrors(t *testing.T) {
	s := newTestStore(t)
	pair, _ := keys.Generate()
	other, _ := keys.Generate()

	tests := []struct {
		name   string
		router *models.Router
		code   errors.ErrorCode
	}{
		{"missing domain", &models.Router{ID: "R1"}, errors.ErrCodeValidation},
		{"bad id", &models.Router{ID: "../escape", Domain: "vpn.example.com"}, errors.ErrCodeValidation},
		{"unknown vpc", &models.Router{ID: "R1", Domain: "vpn.example.com", VPCID: "V9"}, errors.ErrCodeNotFound},
		{"mismatched keys", &models.Router{ID: "R1", Domain: "vpn.example.com", PrivateKey: pair.PrivateKey, PublicKey: other.PublicKey}, errors.ErrCodeValidation},
		{"bad private key", &models.Router{ID: "R1", Domain: "vpn.example.com", PrivateKey: "nope"}, errors.ErrCodeValidation},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := s.CreateRouter(tt.router)
			if errors.CodeOf(err) != tt.code {
				t.Errorf("Expected %s, got %v", tt.code, err)
			}
		})
	}

	if routers, _ := s.ListRouters(); len(routers) != 0 {
		t.Errorf("Expected nothing to be written, got %d routers", len(routers))
	}
}

func TestRouter_DerivesPublicKey(t *testing.T) {
	s := newTestStore(t)
	pair, _ := keys.Generate()

	r, err := s.CreateRouter(&models.Router{ID: "R1", Domain: "vpn.example.com", PrivateKey: pair.PrivateKey})
	if err != nil {
		t.Fatalf("CreateRouter failed: %v", err)
	}
	if r.PublicKey != pair.PublicKey {
		t.Errorf("Expected derived public key %s, got %s", pair.PublicKey, r.PublicKey)
	}
}

func TestLAN_CreateDefaults(t *testing.T) {
	s := newTestStore(t)
	seedRouter(t, s)
	// first interface pick collides, second is free; port offset 123
	s.intn = sequence(234, 234, 567, 123)

	first, err := s.CreateLAN("R1", &models.LAN{ID: "L1", Network: "10.0.1.0/24", Gateway: "10.0.1.1", Port: 51001})
	if err != nil {
		t.Fatalf("CreateLAN failed: %v", err)
	}
	if first.Interface != "wg-1234" {
		t.Errorf("Expected wg-1234, got %s", first.Interface)
	}

	second, err := s.CreateLAN("R1", &models.LAN{ID: "L2", Network: "10.0.2.0/24", Gateway: "10.0.2.1"})
	if err != nil {
		t.Fatalf("CreateLAN failed: %v", err)
	}
	if second.Interface != "wg-1567" {
		t.Errorf("Expected collision to be skipped, got %s", second.Interface)
	}
	if second.Port != 50123 {
		t.Errorf("Expected port 50123, got %d", second.Port)
	}

	lans, err := s.ReadLANs("R1")
	if err != nil {
		t.Fatalf("ReadLANs failed: %v", err)
	}
	if len(lans) != 2 || lans[0].ID != "L1" || lans[1].ID != "L2" {
		t.Errorf("Expected L1, L2 ordered by id, got %v", lans)
	}
}

func TestLAN_CreateErrors(t *testing.T) {
	s := newTestStore(t)
	seedRouter(t, s)

	if _, err := s.CreateLAN("R1", &models.LAN{ID: "L1", Interface: "wg-1001", Network: "10.0.1.0/24", Gateway: "10.0.1.1", Port: 51001}); err != nil {
		t.Fatal(err)
	}

	tests := []struct {
		name     string
		routerID string
		lan      *models.LAN
		code     errors.ErrorCode
	}{
		{"unknown router", "R9", &models.LAN{Network: "10.0.3.0/24", Gateway: "10.0.3.1"}, errors.ErrCodeNotFound},
		{"gateway outside", "R1", &models.LAN{Network: "10.0.3.0/24", Gateway: "10.0.4.1"}, errors.ErrCodeValidation},
		{"bad network", "R1", &models.LAN{Network: "10.0.3.0/33", Gateway: "10.0.3.1"}, errors.ErrCodeValidation},
		{"bad port", "R1", &models.LAN{Network: "10.0.3.0/24", Gateway: "10.0.3.1", Port: 70000}, errors.ErrCodeValidation},
		{"duplicate id", "R1", &models.LAN{ID: "L1", Network: "10.0.3.0/24", Gateway: "10.0.3.1"}, errors.ErrCodeConflict},
		{"duplicate interface", "R1", &models.LAN{Interface: "wg-1001", Network: "10.0.3.0/24", Gateway: "10.0.3.1"}, errors.ErrCodeConflict},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := s.CreateLAN(tt.routerID, tt.lan)
			if errors.CodeOf(err) != tt.code {
				t.Errorf("Expected %s, got %v", tt.code, err)
			}
		})
	}
}

func TestRemote_Create(t *testing.T) {
	s := newTestStore(t)
	seedRouter(t, s)
	if _, err := s.CreateLAN("R1", &models.LAN{ID: "L1", Network: "10.0.1.0/24", Gateway: "10.0.1.1", Port: 51001}); err != nil {
		t.Fatal(err)
	}

	remote, err := s.CreateRemote("R1", &models.Remote{ID: "P1", LANID: "L1", Address: "10.0.1.10"})
	if err != nil {
		t.Fatalf("CreateRemote failed: %v", err)
	}
	if err := keys.CheckPair(remote.PrivateKey, remote.PublicKey); err != nil {
		t.Errorf("Expected generated key pair: %v", err)
	}

	tests := []struct {
		name   string
		remote *models.Remote
		code   errors.ErrorCode
	}{
		{"unknown lan", &models.Remote{LANID: "L9", Address: "10.0.1.11"}, errors.ErrCodeNotFound},
		{"outside lan", &models.Remote{LANID: "L1", Address: "10.0.2.11"}, errors.ErrCodeValidation},
		{"bad address", &models.Remote{LANID: "L1", Address: "10.0.1"}, errors.ErrCodeValidation},
		{"duplicate id", &models.Remote{ID: "P1", LANID: "L1", Address: "10.0.1.12"}, errors.ErrCodeConflict},
		{"duplicate address", &models.Remote{LANID: "L1", Address: "10.0.1.10"}, errors.ErrCodeConflict},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := s.CreateRemote("R1", tt.remote)
			if errors.CodeOf(err) != tt.code {
				t.Errorf("Expected %s, got %v", tt.code, err)
			}
		})
	}

	// LAN with a remote attached cannot be deleted
	if err := s.DeleteLAN("R1", "L1"); errors.CodeOf(err) != errors.ErrCodeState {
		t.Errorf("Expected STATE_ERROR, got %v", err)
	}
	if err := s.DeleteRemote("R1", "P1"); err != nil {
		t.Fatalf("DeleteRemote failed: %v", err)
	}
	if err := s.DeleteLAN("R1", "L1"); err != nil {
		t.Fatalf("DeleteLAN failed: %v", err)
	}
}

func TestSubnet_CRUD(t *testing.T) {
	s := newTestStore(t)
	if _, err := s.CreateVPC(&models.VPC{ID: "V1"}); err != nil {
		t.Fatal(err)
	}
	if _, err := s.CreateRouter(&models.Router{ID: "R1", Domain: "vpn.example.com", VPCID: "V1"}); err != nil {
		t.Fatal(err)
	}
	if _, err := s.CreateLAN("R1", &models.LAN{ID: "L1", Interface: "wg-1001", Network: "10.0.1.0/24", Gateway: "10.0.1.1", Port: 51001}); err != nil {
		t.Fatal(err)
	}

	if _, err := s.CreateSubnet(&models.Subnet{ID: "S1", VPCID: "V9", RouterID: "R1", Network: "10.0.5.0/24", Gateway: "10.0.5.1"}); errors.CodeOf(err) != errors.ErrCodeNotFound {
		t.Errorf("Expected NOT_FOUND for unknown vpc, got %v", err)
	}
	if _, err := s.CreateSubnet(&models.Subnet{ID: "S1", VPCID: "V1", RouterID: "R1", Network: "10.0.5.0/24", Gateway: "10.0.5.1", Interface: "wg-1001"}); errors.CodeOf(err) != errors.ErrCodeConflict {
		t.Errorf("Expected CONFLICT for interface shared with a LAN, got %v", err)
	}

	sn, err := s.CreateSubnet(&models.Subnet{ID: "S1", VPCID: "V1", RouterID: "R1", Network: "10.0.5.0/24", Gateway: "10.0.5.1"})
	if err != nil {
		t.Fatalf("CreateSubnet failed: %v", err)
	}
	if sn.Interface == "" || sn.Port < lanPortMin || sn.Port > lanPortMax {
		t.Errorf("Expected generated interface and port, got %+v", sn)
	}

	attached, err := s.ReadSubnets("R1")
	if err != nil || len(attached) != 1 {
		t.Fatalf("ReadSubnets = %v, %v", attached, err)
	}
	if other, _ := s.ReadSubnets("R2"); len(other) != 0 {
		t.Errorf("Expected no subnets for R2, got %v", other)
	}

	// Remotes may attach to a subnet
	if _, err := s.CreateRemote("R1", &models.Remote{ID: "P1", LANID: "S1", Address: "10.0.5.10"}); err != nil {
		t.Fatalf("CreateRemote on subnet failed: %v", err)
	}

	// References block deletion
	if err := s.DeleteVPC("V1"); errors.CodeOf(err) != errors.ErrCodeState {
		t.Errorf("Expected STATE_ERROR deleting referenced vpc, got %v", err)
	}
	if err := s.DeleteRouter("R1"); errors.CodeOf(err) != errors.ErrCodeState {
		t.Errorf("Expected STATE_ERROR deleting router with subnet, got %v", err)
	}
	if err := s.DeleteSubnet("S1"); errors.CodeOf(err) != errors.ErrCodeState {
		t.Errorf("Expected STATE_ERROR deleting subnet with remote, got %v", err)
	}

	if err := s.DeleteRemote("R1", "P1"); err != nil {
		t.Fatal(err)
	}
	if err := s.DeleteSubnet("S1"); err != nil {
		t.Fatalf("DeleteSubnet failed: %v", err)
	}
	if err := s.DeleteRouter("R1"); err != nil {
		t.Fatalf("DeleteRouter failed: %v", err)
	}
	if _, err := s.ReadLANs("R1"); !stderrors.Is(err, errors.ErrNotFound) {
		t.Errorf("Expected router directory to be gone, got %v", err)
	}
	if err := s.DeleteVPC("V1"); err != nil {
		t.Fatalf("DeleteVPC failed: %v", err)
	}
}

func TestReadRecord_ParseError(t *testing.T) {
	s := newTestStore(t)
	seedRouter(t, s)

	path := filepath.Join(s.DataDir(), "routers", "R1", "L1.lan.toml")
	if err := os.WriteFile(path, []byte("network = \n"), 0600); err != nil {
		t.Fatal(err)
	}

	_, err := s.ReadLANs("R1")
	if errors.CodeOf(err) != errors.ErrCodeInternal {
		t.Fatalf("Expected INTERNAL_ERROR, got %v", err)
	}
	if !strings.Contains(err.Error(), "line 1") {
		t.Errorf("Expected position in error, got %v", err)
	}
}

func TestReadRecord_IDFromFileName(t *testing.T) {
	s := newTestStore(t)
	seedRouter(t, s)

	// Records written by hand may omit the id key
	path := filepath.Join(s.DataDir(), "routers", "R1", "office.lan.toml")
	content := "name = \"office\"\ninterface = \"wg-2000\"\nnetwork = \"10.0.9.0/24\"\ngateway = \"10.0.9.1\"\nport = 52000\n"
	if err := os.WriteFile(path, []byte(content), 0600); err != nil {
		t.Fatal(err)
	}

	lan, err := s.ReadLAN("R1", "office")
	if err != nil {
		t.Fatalf("ReadLAN failed: %v", err)
	}
	if lan.ID != "office" || lan.Port != 52000 {
		t.Errorf("Unexpected LAN: %+v", lan)
	}
}
