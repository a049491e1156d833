package utils

import (
	"net"
	"regexp"
	"strconv"
	"strings"
)

var (
	rxOctet   = regexp.MustCompile(`^[0-9]+$`)
	rxDNSName = regexp.MustCompile(`^([a-zA-Z0-9_]{1}[a-zA-Z0-9_-]{0,62}){1}(\.[a-zA-Z0-9_]{1}[a-zA-Z0-9_-]{0,62})*[\._]?$`)
)

// IsValidAddress reports whether s is four dot-separated decimal octets in
// the range 0-255 with nothing before, after or between them.
func IsValidAddress(s string) bool {
	parts := strings.Split(s, ".")
	if len(parts) != 4 {
		return false
	}
	for _, part := range parts {
		if !rxOctet.MatchString(part) {
			return false
		}
		n, err := strconv.Atoi(part)
		if err != nil || n < 0 || n > 255 {
			return false
		}
	}
	return true
}

// IsValidNetwork reports whether s is "address/mask" with a valid address and 0 <= mask <= 32.
func IsValidNetwork(s string) bool {
	parts := strings.Split(s, "/")
	if len(parts) != 2 {
		return false
	}
	if !IsValidAddress(parts[0]) {
		return false
	}
	if !rxOctet.MatchString(parts[1]) {
		return false
	}
	mask, err := strconv.Atoi(parts[1])
	return err == nil && mask >= 0 && mask <= 32
}

// IsValidPort checks if the given port number is in range 1-65535.
func IsValidPort(p int) bool {
	return p >= 1 && p <= 65535
}

// IsDNSName will validate the given string as a DNS name (credits: govalidator).
func IsDNSName(str string) bool {
	if str == "" || len(str) > 253 {
		return false
	}
	return !IsValidAddress(str) && net.ParseIP(str) == nil && rxDNSName.MatchString(str)
}

// NetworkContains reports whether address lies inside network. Both must pass
// IsValidAddress / IsValidNetwork, otherwise the result is false.
func NetworkContains(network, address string) bool {
	if !IsValidNetwork(network) || !IsValidAddress(address) {
		return false
	}
	_, ipNet, err := net.ParseCIDR(network)
	if err != nil {
		return false
	}
	return ipNet.Contains(net.ParseIP(address))
}

// SplitList splits a comma-separated list, trimming blanks and dropping empty entries.
func SplitList(s string) []string {
	var out []string
	for _, item := range strings.Split(s, ",") {
		if item = strings.TrimSpace(item); item != "" {
			out = append(out, item)
		}
	}
	return out
}
