// Package lifecycle turns router records into live namespaces, WireGuard
// interfaces and firewall rules, and tears them down again.
//
// A router is Running while its lock file exists in the run directory. Start
// claims the lock before touching anything else and records the router it
// provisioned in a snapshot next to the lock, so Stop removes exactly what
// Start created even if the records changed in between.
package lifecycle
