package networking

import (
	stderrors "errors"
	"fmt"
	"strings"

	"github.com/coreos/go-iptables/iptables"

	"github.com/maksimkurb/wgvpc/src/internal/errors"
	"github.com/maksimkurb/wgvpc/src/internal/log"
	"github.com/maksimkurb/wgvpc/src/internal/utils"
)

const filterTable = "filter"

// IPTables is the subset of *iptables.IPTables the firewall needs.
type IPTables interface {
	Exists(table, chain string, rulespec ...string) (bool, error)
	Append(table, chain string, rulespec ...string) error
	Insert(table, chain string, pos int, rulespec ...string) error
	Delete(table, chain string, rulespec ...string) error
	ChainExists(table, chain string) (bool, error)
	NewChain(table, chain string) error
}

// NewIPTables returns the IPv4 go-iptables handle.
func NewIPTables() (IPTables, error) {
	return iptables.NewWithProtocol(iptables.ProtocolIPv4)
}

// Firewall installs default-deny and allow rules for LAN networks in one
// filter chain. DROP rules are appended, ACCEPT rules are inserted at the
// head so they win over any DROP.
type Firewall struct {
	ipt   IPTables
	chain string
}

func NewFirewall(ipt IPTables, chain string) *Firewall {
	return &Firewall{ipt: ipt, chain: chain}
}

func (f *Firewall) Chain() string {
	return f.chain
}

// EnsureChain creates a custom chain and jumps to it from INPUT.
// Built-in chains are left alone.
func (f *Firewall) EnsureChain() error {
	switch f.chain {
	case "INPUT", "FORWARD", "OUTPUT":
		return nil
	}

	exists, err := f.ipt.ChainExists(filterTable, f.chain)
	if err != nil {
		return fmt.Errorf("failed to check chain %s: %w", f.chain, err)
	}
	if !exists {
		log.Infof("Creating iptables chain %s", f.chain)
		if err := f.ipt.NewChain(filterTable, f.chain); err != nil {
			return fmt.Errorf("failed to create chain %s: %w", f.chain, err)
		}
	}
	return f.addIfNotExists(false, "INPUT", "-j", f.chain)
}

func blockSpec(network string) []string {
	return []string{"-d", network, "-j", "DROP"}
}

func allowSpec(src, dst string) []string {
	return []string{"-s", src, "-d", dst, "-j", "ACCEPT"}
}

// BlockNetwork appends a DROP rule for traffic to network.
func (f *Firewall) BlockNetwork(network string) error {
	if err := validateNetworks(network); err != nil {
		return err
	}
	return f.addIfNotExists(false, f.chain, blockSpec(network)...)
}

func (f *Firewall) UnblockNetwork(network string) error {
	if err := validateNetworks(network); err != nil {
		return err
	}
	return f.delIfExists(f.chain, blockSpec(network)...)
}

// AllowPair inserts an ACCEPT rule for traffic from src to dst.
func (f *Firewall) AllowPair(src, dst string) error {
	if err := validateNetworks(src, dst); err != nil {
		return err
	}
	return f.addIfNotExists(true, f.chain, allowSpec(src, dst)...)
}

func (f *Firewall) DisallowPair(src, dst string) error {
	if err := validateNetworks(src, dst); err != nil {
		return err
	}
	return f.delIfExists(f.chain, allowSpec(src, dst)...)
}

// ApplyTopology blocks every network, lets each network reach itself and,
// with mesh, lets every network reach every other one. Rule failures do not
// stop the remaining rules and are returned joined.
func (f *Firewall) ApplyTopology(networks []string, mesh bool) error {
	if err := validateNetworks(networks...); err != nil {
		return err
	}

	var errs []error
	collect := func(err error) {
		if err != nil {
			log.Errorf("Firewall: %v", err)
			errs = append(errs, err)
		}
	}

	for _, n := range networks {
		collect(f.BlockNetwork(n))
	}
	for _, n := range networks {
		collect(f.AllowPair(n, n))
	}
	if mesh {
		for _, src := range networks {
			for _, dst := range networks {
				if src != dst {
					collect(f.AllowPair(src, dst))
				}
			}
		}
	}
	return stderrors.Join(errs...)
}

// RevokeTopology removes what ApplyTopology added: ACCEPT rules first, then DROP.
func (f *Firewall) RevokeTopology(networks []string, mesh bool) error {
	if err := validateNetworks(networks...); err != nil {
		return err
	}

	var errs []error
	collect := func(err error) {
		if err != nil {
			log.Errorf("Firewall: %v", err)
			errs = append(errs, err)
		}
	}

	if mesh {
		for _, src := range networks {
			for _, dst := range networks {
				if src != dst {
					collect(f.DisallowPair(src, dst))
				}
			}
		}
	}
	for _, n := range networks {
		collect(f.DisallowPair(n, n))
	}
	for _, n := range networks {
		collect(f.UnblockNetwork(n))
	}
	return stderrors.Join(errs...)
}

// RuleState tells whether one topology rule is installed.
type RuleState struct {
	Rule    string `json:"rule"`
	Present bool   `json:"present"`
}

// CheckTopology reports every rule ApplyTopology would install and whether
// it is present. Nothing is changed.
func (f *Firewall) CheckTopology(networks []string, mesh bool) ([]RuleState, error) {
	if err := validateNetworks(networks...); err != nil {
		return nil, err
	}

	var specs [][]string
	for _, n := range networks {
		specs = append(specs, blockSpec(n), allowSpec(n, n))
	}
	if mesh {
		for _, src := range networks {
			for _, dst := range networks {
				if src != dst {
					specs = append(specs, allowSpec(src, dst))
				}
			}
		}
	}

	states := make([]RuleState, 0, len(specs))
	for _, spec := range specs {
		exists, err := f.ipt.Exists(filterTable, f.chain, spec...)
		if err != nil {
			return nil, errors.NewExternalToolError(fmt.Sprintf("iptables check %v", spec), err)
		}
		states = append(states, RuleState{Rule: strings.Join(spec, " "), Present: exists})
	}
	return states, nil
}

func (f *Firewall) addIfNotExists(head bool, chain string, spec ...string) error {
	exists, err := f.ipt.Exists(filterTable, chain, spec...)
	if err != nil {
		return errors.NewExternalToolError(fmt.Sprintf("iptables check %v", spec), err)
	}
	if exists {
		log.Debugf("iptables rule %v already present in %s", spec, chain)
		return nil
	}

	log.Infof("Adding iptables rule %v to %s", spec, chain)
	if head {
		err = f.ipt.Insert(filterTable, chain, 1, spec...)
	} else {
		err = f.ipt.Append(filterTable, chain, spec...)
	}
	if err != nil {
		return errors.NewExternalToolError(fmt.Sprintf("iptables add %v", spec), err)
	}
	return nil
}

func (f *Firewall) delIfExists(chain string, spec ...string) error {
	exists, err := f.ipt.Exists(filterTable, chain, spec...)
	if err != nil {
		return errors.NewExternalToolError(fmt.Sprintf("iptables check %v", spec), err)
	}
	if !exists {
		log.Debugf("iptables rule %v not present in %s", spec, chain)
		return nil
	}

	log.Infof("Deleting iptables rule %v from %s", spec, chain)
	if err := f.ipt.Delete(filterTable, chain, spec...); err != nil {
		return errors.NewExternalToolError(fmt.Sprintf("iptables delete %v", spec), err)
	}
	return nil
}

func validateNetworks(networks ...string) error {
	for _, n := range networks {
		if !utils.IsValidNetwork(n) {
			return errors.NewValidationError(fmt.Sprintf("invalid network %q", n), nil)
		}
	}
	return nil
}
