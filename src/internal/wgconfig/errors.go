package wgconfig

import "github.com/maksimkurb/wgvpc/src/internal/errors"

var (
	ErrInvalidAddress    = &errors.Error{Code: errors.ErrCodeValidation, Reason: "INVALID_ADDRESS", Message: "invalid address"}
	ErrInvalidPort       = &errors.Error{Code: errors.ErrCodeValidation, Reason: "INVALID_PORT", Message: "invalid port"}
	ErrInvalidDNS        = &errors.Error{Code: errors.ErrCodeValidation, Reason: "INVALID_DNS", Message: "invalid DNS address"}
	ErrMissingPrivateKey = &errors.Error{Code: errors.ErrCodeValidation, Reason: "MISSING_PRIVATE_KEY", Message: "private key is required"}
	ErrMissingPublicKey  = &errors.Error{Code: errors.ErrCodeValidation, Reason: "MISSING_PUBLIC_KEY", Message: "public key is required"}
	ErrInvalidAllowedIP  = &errors.Error{Code: errors.ErrCodeValidation, Reason: "INVALID_ALLOWED_IP", Message: "invalid allowed IP network"}
	ErrMissingAllowedIPs = &errors.Error{Code: errors.ErrCodeValidation, Reason: "MISSING_ALLOWED_IPS", Message: "at least one allowed IP is required"}
	ErrLANNotFound       = &errors.Error{Code: errors.ErrCodeNotFound, Reason: "LAN_NOT_FOUND", Message: "LAN not found"}
	ErrRemoteNotFound    = &errors.Error{Code: errors.ErrCodeNotFound, Reason: "REMOTE_NOT_FOUND", Message: "remote not found"}
)

var errRouterNotFound = errors.Derive(errors.ErrNotFound, "router not found", nil)
