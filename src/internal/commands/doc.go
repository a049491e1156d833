// Package commands implements CLI command handlers for wgvpc.
//
// Each command implements the Runner interface: Init parses its arguments and
// loads the configuration, Run builds the dependencies with core and
// delegates to the lifecycle controller, the journal or the API server.
//
// # Available Commands
//
//   - serve: run the REST API (and /metrics)
//   - start, stop, restart <router-id>: drive a router's lifecycle
//   - status <router-id>: print records and runtime state
//   - client-config <router-id> <remote-id>: print a remote's wg-quick file
//   - history [router-id]: print journaled lifecycle operations
//   - self-check: verify tools, privileges and running routers
//
// # Example Usage
//
//	cmd := commands.CreateStartCommand()
//	ctx := &commands.AppContext{ConfigPath: "/etc/wgvpc/wgvpc.conf"}
//	if err := cmd.Init([]string{"R1"}, ctx); err != nil {
//	    log.Fatalf("%v", err)
//	}
//	if err := cmd.Run(); err != nil {
//	    log.Fatalf("%v", err)
//	}
package commands
