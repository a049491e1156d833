// Package models defines the records wgvpc keeps in its resource store:
// VPCs, routers, LANs, remotes and subnets.
//
// Records carry both toml (store) and json (API) tags. Private keys never
// leave the package unredacted through Redacted; the only consumer of a raw
// remote private key is client config rendering.
package models
