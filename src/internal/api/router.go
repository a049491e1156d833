package api

import (
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/prometheus/client_golang/prometheus/promhttp"

	"github.com/maksimkurb/wgvpc/src/internal/metrics"
)

// NewRouter creates a new HTTP router with all API endpoints. A nil registry
// disables request metrics and the /metrics endpoint.
func NewRouter(h *Handler, registry *metrics.Registry) http.Handler {
	r := chi.NewRouter()

	// Apply middleware
	r.Use(Recovery)
	r.Use(Logger)
	if registry != nil {
		r.Use(Metrics(registry))
	}
	r.Use(JSONContentType)

	r.Route("/api/v1", func(r chi.Router) {
		r.Get("/vpcs", h.ListVPCs)
		r.Post("/vpcs", h.CreateVPC)
		r.Get("/vpcs/{vpcId}", h.GetVPC)
		r.Delete("/vpcs/{vpcId}", h.DeleteVPC)

		r.Get("/routers", h.ListRouters)
		r.Post("/routers", h.CreateRouter)
		r.Route("/routers/{routerId}", func(r chi.Router) {
			r.Get("/", h.GetRouter)
			r.Delete("/", h.DeleteRouter)

			// Lifecycle
			r.Post("/up", h.StartRouter)
			r.Post("/down", h.StopRouter)
			r.Post("/restart", h.RestartRouter)
			r.Get("/status", h.GetRouterStatus)

			r.Get("/lans", h.ListLANs)
			r.Post("/lans", h.CreateLAN)
			r.Delete("/lans/{lanId}", h.DeleteLAN)

			r.Get("/remotes", h.ListRemotes)
			r.Post("/remotes", h.CreateRemote)
			r.Delete("/remotes/{remoteId}", h.DeleteRemote)
			r.Get("/remotes/{remoteId}/config", h.GetRemoteConfig)
		})

		r.Get("/subnets", h.ListSubnets)
		r.Post("/subnets", h.CreateSubnet)
		r.Delete("/subnets/{subnetId}", h.DeleteSubnet)

		r.Get("/history", h.GetHistory)
	})

	if registry != nil {
		r.Handle("/metrics", promhttp.Handler())
	}

	return r
}
