package api

import (
	"net/http"

	"github.com/go-chi/chi/v5"

	"github.com/maksimkurb/wgvpc/src/internal/models"
)

// ListVPCs returns all VPCs.
// GET /api/v1/vpcs
func (h *Handler) ListVPCs(w http.ResponseWriter, r *http.Request) {
	vpcs, err := h.store.ListVPCs()
	if err != nil {
		WriteDomainError(w, err)
		return
	}
	if vpcs == nil {
		vpcs = []*models.VPC{}
	}
	writeJSONData(w, vpcs)
}

// GetVPC returns one VPC.
// GET /api/v1/vpcs/{vpcId}
func (h *Handler) GetVPC(w http.ResponseWriter, r *http.Request) {
	vpc, err := h.store.ReadVPC(chi.URLParam(r, "vpcId"))
	if err != nil {
		WriteDomainError(w, err)
		return
	}
	writeJSONData(w, vpc)
}

// CreateVPC creates a VPC.
// POST /api/v1/vpcs
func (h *Handler) CreateVPC(w http.ResponseWriter, r *http.Request) {
	var vpc models.VPC
	if err := decodeJSON(r, &vpc); err != nil {
		WriteInvalidRequest(w, "Invalid request body: "+err.Error())
		return
	}

	created, err := h.store.CreateVPC(&vpc)
	if err != nil {
		WriteDomainError(w, err)
		return
	}
	writeCreated(w, created)
}

// DeleteVPC deletes a VPC that nothing references.
// DELETE /api/v1/vpcs/{vpcId}
func (h *Handler) DeleteVPC(w http.ResponseWriter, r *http.Request) {
	if err := h.store.DeleteVPC(chi.URLParam(r, "vpcId")); err != nil {
		WriteDomainError(w, err)
		return
	}
	writeNoContent(w)
}

// ListSubnets returns all subnets.
// GET /api/v1/subnets
func (h *Handler) ListSubnets(w http.ResponseWriter, r *http.Request) {
	subnets, err := h.store.ListSubnets()
	if err != nil {
		WriteDomainError(w, err)
		return
	}
	if subnets == nil {
		subnets = []*models.Subnet{}
	}
	writeJSONData(w, subnets)
}

// CreateSubnet attaches a new subnet to a router.
// POST /api/v1/subnets
func (h *Handler) CreateSubnet(w http.ResponseWriter, r *http.Request) {
	var sn models.Subnet
	if err := decodeJSON(r, &sn); err != nil {
		WriteInvalidRequest(w, "Invalid request body: "+err.Error())
		return
	}

	created, err := h.store.CreateSubnet(&sn)
	if err != nil {
		WriteDomainError(w, err)
		return
	}
	writeCreated(w, created)
}

// DeleteSubnet deletes a subnet without remotes.
// DELETE /api/v1/subnets/{subnetId}
func (h *Handler) DeleteSubnet(w http.ResponseWriter, r *http.Request) {
	if err := h.store.DeleteSubnet(chi.URLParam(r, "subnetId")); err != nil {
		WriteDomainError(w, err)
		return
	}
	writeNoContent(w)
}
