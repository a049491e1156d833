package api

import (
	"fmt"
	"net/http"

	"github.com/go-chi/chi/v5"

	"github.com/maksimkurb/wgvpc/src/internal/errors"
	"github.com/maksimkurb/wgvpc/src/internal/models"
)

func (h *Handler) routerInfo(router *models.Router) RouterInfo {
	return RouterInfo{
		Router: router.Redacted(),
		Active: h.lifecycle.IsRunning(router.ID),
	}
}

// ListRouters returns all routers with keys redacted.
// GET /api/v1/routers
func (h *Handler) ListRouters(w http.ResponseWriter, r *http.Request) {
	routers, err := h.store.ListRouters()
	if err != nil {
		WriteDomainError(w, err)
		return
	}

	infos := make([]RouterInfo, 0, len(routers))
	for _, router := range routers {
		infos = append(infos, h.routerInfo(router))
	}
	writeJSONData(w, infos)
}

// GetRouter returns one router.
// GET /api/v1/routers/{routerId}
func (h *Handler) GetRouter(w http.ResponseWriter, r *http.Request) {
	router, err := h.store.ReadRouter(chi.URLParam(r, "routerId"))
	if err != nil {
		WriteDomainError(w, err)
		return
	}
	writeJSONData(w, h.routerInfo(router))
}

// CreateRouter creates a router, generating keys when none are given.
// POST /api/v1/routers
func (h *Handler) CreateRouter(w http.ResponseWriter, r *http.Request) {
	var router models.Router
	if err := decodeJSON(r, &router); err != nil {
		WriteInvalidRequest(w, "Invalid request body: "+err.Error())
		return
	}

	created, err := h.store.CreateRouter(&router)
	if err != nil {
		WriteDomainError(w, err)
		return
	}
	writeCreated(w, h.routerInfo(created))
}

// DeleteRouter deletes a stopped router with its LANs and remotes.
// DELETE /api/v1/routers/{routerId}
func (h *Handler) DeleteRouter(w http.ResponseWriter, r *http.Request) {
	routerID := chi.URLParam(r, "routerId")
	if h.lifecycle.IsRunning(routerID) {
		WriteDomainError(w, errors.NewStateError(fmt.Sprintf("router %s is running, stop it first", routerID), nil))
		return
	}
	if err := h.store.DeleteRouter(routerID); err != nil {
		WriteDomainError(w, err)
		return
	}
	writeNoContent(w)
}

// ListLANs returns the router's LANs.
// GET /api/v1/routers/{routerId}/lans
func (h *Handler) ListLANs(w http.ResponseWriter, r *http.Request) {
	lans, err := h.store.ReadLANs(chi.URLParam(r, "routerId"))
	if err != nil {
		WriteDomainError(w, err)
		return
	}
	writeJSONData(w, lans)
}

// CreateLAN adds a LAN to the router.
// POST /api/v1/routers/{routerId}/lans
func (h *Handler) CreateLAN(w http.ResponseWriter, r *http.Request) {
	var lan models.LAN
	if err := decodeJSON(r, &lan); err != nil {
		WriteInvalidRequest(w, "Invalid request body: "+err.Error())
		return
	}

	created, err := h.store.CreateLAN(chi.URLParam(r, "routerId"), &lan)
	if err != nil {
		WriteDomainError(w, err)
		return
	}
	writeCreated(w, created)
}

// DeleteLAN removes a LAN without remotes.
// DELETE /api/v1/routers/{routerId}/lans/{lanId}
func (h *Handler) DeleteLAN(w http.ResponseWriter, r *http.Request) {
	if err := h.store.DeleteLAN(chi.URLParam(r, "routerId"), chi.URLParam(r, "lanId")); err != nil {
		WriteDomainError(w, err)
		return
	}
	writeNoContent(w)
}

// ListRemotes returns the router's remotes with keys redacted.
// GET /api/v1/routers/{routerId}/remotes
func (h *Handler) ListRemotes(w http.ResponseWriter, r *http.Request) {
	remotes, err := h.store.ReadRemotes(chi.URLParam(r, "routerId"))
	if err != nil {
		WriteDomainError(w, err)
		return
	}
	writeJSONData(w, models.RedactRemotes(remotes))
}

// CreateRemote adds a remote to a LAN of the router.
// POST /api/v1/routers/{routerId}/remotes
func (h *Handler) CreateRemote(w http.ResponseWriter, r *http.Request) {
	var remote models.Remote
	if err := decodeJSON(r, &remote); err != nil {
		WriteInvalidRequest(w, "Invalid request body: "+err.Error())
		return
	}

	created, err := h.store.CreateRemote(chi.URLParam(r, "routerId"), &remote)
	if err != nil {
		WriteDomainError(w, err)
		return
	}
	writeCreated(w, created.Redacted())
}

// DeleteRemote removes a remote.
// DELETE /api/v1/routers/{routerId}/remotes/{remoteId}
func (h *Handler) DeleteRemote(w http.ResponseWriter, r *http.Request) {
	if err := h.store.DeleteRemote(chi.URLParam(r, "routerId"), chi.URLParam(r, "remoteId")); err != nil {
		WriteDomainError(w, err)
		return
	}
	writeNoContent(w)
}

// GetRemoteConfig returns the remote's client configuration. With
// ?format=conf the bare file is returned as text/plain.
// GET /api/v1/routers/{routerId}/remotes/{remoteId}/config
func (h *Handler) GetRemoteConfig(w http.ResponseWriter, r *http.Request) {
	routerID := chi.URLParam(r, "routerId")
	remoteID := chi.URLParam(r, "remoteId")

	text, err := h.lifecycle.ClientConfig(routerID, remoteID)
	if err != nil {
		WriteDomainError(w, err)
		return
	}

	if r.URL.Query().Get("format") == "conf" {
		w.Header().Set("Content-Type", "text/plain; charset=utf-8")
		w.Header().Set("Content-Disposition", fmt.Sprintf("attachment; filename=%q", remoteID+".conf"))
		w.WriteHeader(http.StatusOK)
		_, _ = w.Write([]byte(text))
		return
	}
	writeJSONData(w, ClientConfigResponse{RouterID: routerID, RemoteID: remoteID, Config: text})
}
