// Package wgconfig renders WireGuard configuration text.
//
// Output is the INI-like format consumed by wg-quick: one [Interface]
// section and zero or more [Peer] sections separated by a blank line. Key
// order inside a section is fixed:
//
//	[Interface]
//	Address = 10.0.1.1/32
//	ListenPort = 51820
//	PrivateKey = ...
//
//	[Peer]
//	PublicKey = ...
//	AllowedIPs = 10.0.1.5/32
//	PersistentKeepalive = 25
//
// All input is validated before anything is rendered. Errors are
// *errors.Error values matching the package sentinels with errors.Is.
package wgconfig
