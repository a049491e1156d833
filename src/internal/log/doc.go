// Package log provides simple leveled logging for wgvpc.
//
// Levels are DEBUG (verbose mode only), INFO, WARN and ERROR. Output is
// colored with ANSI escape codes; errors go to stderr, everything else to
// stdout unless SetForceStdErr is enabled.
//
// Messages are conventionally prefixed with the object they concern:
//
//	log.Infof("[router %s] Starting", id)
//	log.Warnf("[netns %s] Namespace already exists", ns)
//
// Enabling debug output:
//
//	log.SetVerbose(true)
//	log.Debugf("Checking iptables rule [%v]", rule)
//
// The package keeps global state guarded by a mutex, so it is safe to use
// from concurrent lifecycle operations.
package log
