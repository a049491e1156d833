package models

import (
	"time"

	"github.com/maksimkurb/wgvpc/src/internal/config"
	"github.com/maksimkurb/wgvpc/src/internal/utils"
)

// HiddenKey replaces private keys in redacted records.
const HiddenKey = "(hidden)"

type VPC struct {
	ID        string            `toml:"id" json:"id" validate:"required,wg_id"`
	Name      string            `toml:"name" json:"name"`
	Metadata  map[string]string `toml:"metadata,omitempty" json:"metadata"`
	CreatedAt time.Time         `toml:"createdAt" json:"createdAt"`
	UpdatedAt time.Time         `toml:"updatedAt" json:"updatedAt"`
}

type Router struct {
	ID     string `toml:"id" json:"id" validate:"required,wg_id"`
	Name   string `toml:"name" json:"name"`
	Domain string `toml:"domain" json:"domain" validate:"required,wg_host"`
	VPCID  string `toml:"vpcId,omitempty" json:"vpcId,omitempty" validate:"omitempty,wg_id"`

	PublicKey  string `toml:"publicKey" json:"publicKey" validate:"required,wg_key"`
	PrivateKey string `toml:"privateKey" json:"privateKey" validate:"required,wg_key"`

	// AllowMesh permits traffic between the router's LANs. Absent means true.
	AllowMesh *bool `toml:"allowMesh,omitempty" json:"allowMesh,omitempty"`
}

type LAN struct {
	ID        string `toml:"id" json:"id" validate:"required,wg_id"`
	Name      string `toml:"name" json:"name"`
	Interface string `toml:"interface" json:"interface" validate:"required,wg_iface"`
	Network   string `toml:"network" json:"network" validate:"required,wg_network"`
	Gateway   string `toml:"gateway" json:"gateway" validate:"required,wg_address"`
	Port      int    `toml:"port" json:"port" validate:"required,wg_port"`
}

type Remote struct {
	ID         string `toml:"id" json:"id" validate:"required,wg_id"`
	Name       string `toml:"name" json:"name"`
	LANID      string `toml:"lanId" json:"lanId" validate:"required,wg_id"`
	Address    string `toml:"address" json:"address" validate:"required,wg_address"`
	PublicKey  string `toml:"publicKey" json:"publicKey" validate:"required,wg_key"`
	PrivateKey string `toml:"privateKey" json:"privateKey" validate:"required,wg_key"`
}

type Subnet struct {
	ID        string `toml:"id" json:"id" validate:"required,wg_id"`
	Name      string `toml:"name" json:"name"`
	VPCID     string `toml:"vpcId" json:"vpcId" validate:"required,wg_id"`
	RouterID  string `toml:"routerId" json:"routerId" validate:"required,wg_id"`
	Network   string `toml:"network" json:"network" validate:"required,wg_network"`
	Gateway   string `toml:"gateway" json:"gateway" validate:"required,wg_address"`
	Interface string `toml:"interface" json:"interface" validate:"required,wg_iface"`
	Port      int    `toml:"port" json:"port" validate:"required,wg_port"`
}

// MeshAllowed reports whether LANs of the router may reach each other.
func (r *Router) MeshAllowed() bool {
	return r.AllowMesh == nil || *r.AllowMesh
}

// Redacted returns a copy with the private key hidden.
func (r Router) Redacted() Router {
	if r.PrivateKey != "" {
		r.PrivateKey = HiddenKey
	}
	if r.AllowMesh != nil {
		mesh := *r.AllowMesh
		r.AllowMesh = &mesh
	}
	return r
}

// Redacted returns a copy with the private key hidden.
func (r Remote) Redacted() Remote {
	if r.PrivateKey != "" {
		r.PrivateKey = HiddenKey
	}
	return r
}

// AsLAN resolves the subnet to the LAN it behaves as on its router.
func (s *Subnet) AsLAN() *LAN {
	return &LAN{
		ID:        s.ID,
		Name:      s.Name,
		Interface: s.Interface,
		Network:   s.Network,
		Gateway:   s.Gateway,
		Port:      s.Port,
	}
}

func RedactRemotes(remotes []*Remote) []Remote {
	out := make([]Remote, 0, len(remotes))
	for _, r := range remotes {
		out = append(out, r.Redacted())
	}
	return out
}

func (v *VPC) Validate() error {
	if errs := config.ValidateStruct(v, "", "vpc "+v.ID); errs != nil {
		return errs
	}
	return nil
}

func (r *Router) Validate() error {
	if errs := config.ValidateStruct(r, "", "router "+r.ID); errs != nil {
		return errs
	}
	return nil
}

func (l *LAN) Validate() error {
	errs := config.ValidateStruct(l, "", "lan "+l.ID)
	if errs == nil && !utils.NetworkContains(l.Network, l.Gateway) {
		errs = append(errs, config.ValidationError{
			ItemName:  "lan " + l.ID,
			FieldPath: "gateway",
			Message:   "gateway " + l.Gateway + " is outside network " + l.Network,
		})
	}
	if errs != nil {
		return errs
	}
	return nil
}

func (r *Remote) Validate() error {
	if errs := config.ValidateStruct(r, "", "remote "+r.ID); errs != nil {
		return errs
	}
	return nil
}

func (s *Subnet) Validate() error {
	errs := config.ValidateStruct(s, "", "subnet "+s.ID)
	if errs == nil && !utils.NetworkContains(s.Network, s.Gateway) {
		errs = append(errs, config.ValidationError{
			ItemName:  "subnet " + s.ID,
			FieldPath: "gateway",
			Message:   "gateway " + s.Gateway + " is outside network " + s.Network,
		})
	}
	if errs != nil {
		return errs
	}
	return nil
}
