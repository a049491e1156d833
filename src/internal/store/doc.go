// Package store persists wgvpc records as TOML files.
//
// FileStore owns one canonical layout under the configured data directory
// and implements domain.ResourceStore for the lifecycle controller. Create
// operations validate records, check cross-record invariants (LAN gateway
// inside its network, remote address inside its LAN, referenced VPC and
// router present) and fill in generated defaults.
package store
