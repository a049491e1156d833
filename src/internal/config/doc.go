// Package config handles the wgvpc daemon configuration file.
//
// The file is TOML (default /etc/wgvpc/wgvpc.conf). Relative paths inside it
// are resolved against the directory of the file. Missing sections and empty
// fields are filled by ApplyDefaults.
//
//	cfg, err := config.LoadConfig("/etc/wgvpc/wgvpc.conf")
//	if err != nil {
//	    log.Fatalf("%v", err)
//	}
//	if err := cfg.ValidateConfig(); err != nil {
//	    log.Fatalf("%v", err)
//	}
//	ns := cfg.NamespaceName("R1") // ns_R1
//
// The package also owns the shared validator/v10 instance. Record types in
// other packages are validated through ValidateStruct and may use the custom
// tags wg_address, wg_network, wg_port, wg_key, wg_id, wg_iface and wg_host.
package config
