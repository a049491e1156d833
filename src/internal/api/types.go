package api

import (
	"github.com/maksimkurb/wgvpc/src/internal/lifecycle"
	"github.com/maksimkurb/wgvpc/src/internal/models"
)

// DataResponse wraps successful responses with a "data" field.
type DataResponse struct {
	Data interface{} `json:"data"`
}

// RouterInfo is a router with its private key hidden and whether it is running.
type RouterInfo struct {
	models.Router
	Active bool `json:"active"`
}

// OperationResponse is the result of up, down and restart.
type OperationResponse struct {
	*lifecycle.Report
	Partial bool `json:"partial"`
}

// ClientConfigResponse carries a remote's WireGuard configuration.
type ClientConfigResponse struct {
	RouterID string `json:"routerId"`
	RemoteID string `json:"remoteId"`
	Config   string `json:"config"`
}
