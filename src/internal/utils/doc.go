// Package utils provides small helpers shared across wgvpc.
//
// Address validation follows a strict dotted-quad form: exactly four decimal
// octets, nothing else. Networks are an address plus "/mask" with mask 0-32.
//
//	utils.IsValidAddress("10.0.1.1")     // true
//	utils.IsValidAddress("10.0.1")       // false
//	utils.IsValidNetwork("10.0.1.0/24")  // true
//	utils.IsValidNetwork("10.0.1.0/33")  // false
//
// File helpers cover atomic writes for rendered configs and store records,
// and idempotent removal for lock and config files.
package utils
