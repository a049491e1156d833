package mocks

import (
	"fmt"
	"strings"
	"sync"
)

// FakeIPTables is an in-memory networking.IPTables. Rules are kept per
// "table/chain" in chain order.
type FakeIPTables struct {
	mu     sync.Mutex
	chains map[string][]string

	// FailFunc, if set, is consulted before every mutating call; a non-nil
	// error is returned instead of applying the change.
	FailFunc func(op string, chain string, rulespec []string) error

	ExistsCalls int
	AppendCalls int
	InsertCalls int
	DeleteCalls int
}

func NewFakeIPTables() *FakeIPTables {
	return &FakeIPTables{
		chains: map[string][]string{
			"filter/INPUT":   nil,
			"filter/FORWARD": nil,
			"filter/OUTPUT":  nil,
		},
	}
}

func chainKey(table, chain string) string {
	return table + "/" + chain
}

func (f *FakeIPTables) Exists(table, chain string, rulespec ...string) (bool, error) {
	f.mu.Lock()
	defer f.mu.Unlock()

	f.ExistsCalls++
	rules, ok := f.chains[chainKey(table, chain)]
	if !ok {
		return false, fmt.Errorf("iptables: No chain/target/match by that name")
	}
	rule := strings.Join(rulespec, " ")
	for _, r := range rules {
		if r == rule {
			return true, nil
		}
	}
	return false, nil
}

func (f *FakeIPTables) Append(table, chain string, rulespec ...string) error {
	f.mu.Lock()
	defer f.mu.Unlock()

	f.AppendCalls++
	if err := f.check("append", table, chain, rulespec); err != nil {
		return err
	}
	key := chainKey(table, chain)
	f.chains[key] = append(f.chains[key], strings.Join(rulespec, " "))
	return nil
}

func (f *FakeIPTables) Insert(table, chain string, pos int, rulespec ...string) error {
	f.mu.Lock()
	defer f.mu.Unlock()

	f.InsertCalls++
	if err := f.check("insert", table, chain, rulespec); err != nil {
		return err
	}
	key := chainKey(table, chain)
	rules := f.chains[key]
	idx := pos - 1
	if idx < 0 || idx > len(rules) {
		return fmt.Errorf("iptables: Index of insertion too big")
	}
	rules = append(rules, "")
	copy(rules[idx+1:], rules[idx:])
	rules[idx] = strings.Join(rulespec, " ")
	f.chains[key] = rules
	return nil
}

func (f *FakeIPTables) Delete(table, chain string, rulespec ...string) error {
	f.mu.Lock()
	defer f.mu.Unlock()

	f.DeleteCalls++
	if err := f.check("delete", table, chain, rulespec); err != nil {
		return err
	}
	key := chainKey(table, chain)
	rule := strings.Join(rulespec, " ")
	rules := f.chains[key]
	for i, r := range rules {
		if r == rule {
			f.chains[key] = append(rules[:i], rules[i+1:]...)
			return nil
		}
	}
	return fmt.Errorf("iptables: Bad rule (does a matching rule exist in that chain?)")
}

func (f *FakeIPTables) ChainExists(table, chain string) (bool, error) {
	f.mu.Lock()
	defer f.mu.Unlock()

	_, ok := f.chains[chainKey(table, chain)]
	return ok, nil
}

func (f *FakeIPTables) NewChain(table, chain string) error {
	f.mu.Lock()
	defer f.mu.Unlock()

	key := chainKey(table, chain)
	if _, ok := f.chains[key]; ok {
		return fmt.Errorf("iptables: Chain already exists")
	}
	f.chains[key] = nil
	return nil
}

// Rules returns the rules of a chain in order, each as a space-joined rulespec.
func (f *FakeIPTables) Rules(table, chain string) []string {
	f.mu.Lock()
	defer f.mu.Unlock()

	return append([]string(nil), f.chains[chainKey(table, chain)]...)
}

// HasRule reports whether the space-joined rule is present in the chain.
func (f *FakeIPTables) HasRule(table, chain, rule string) bool {
	for _, r := range f.Rules(table, chain) {
		if r == rule {
			return true
		}
	}
	return false
}

func (f *FakeIPTables) ResetCalls() {
	f.mu.Lock()
	defer f.mu.Unlock()

	f.ExistsCalls, f.AppendCalls, f.InsertCalls, f.DeleteCalls = 0, 0, 0, 0
}

func (f *FakeIPTables) check(op, table, chain string, rulespec []string) error {
	if _, ok := f.chains[chainKey(table, chain)]; !ok {
		return fmt.Errorf("iptables: No chain/target/match by that name")
	}
	if f.FailFunc != nil {
		return f.FailFunc(op, chain, rulespec)
	}
	return nil
}
