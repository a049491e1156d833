package utils

import (
	"reflect"
	"testing"
)

func TestIsValidAddress(t *testing.T) {
	tests := []struct {
		input    string
		expected bool
	}{
		{"192.168.1.1", true},
		{"0.0.0.0", true},
		{"255.255.255.255", true},
		{"10.0.0.1", true},
		{"192.168.1.256", false},
		{"10.0.0", false},
		{"10.0.0.0.1", false},
		{"", false},
		{"a.b.c.d", false},
		{"10.0.0.1 ", false},
		{" 10.0.0.1", false},
		{"10.0.0.-1", false},
		{"10.0.0.+1", false},
		{"10..0.1", false},
		{"10.0.0.1/32", false},
		{"::1", false},
	}

	for _, tt := range tests {
		t.Run(tt.input, func(t *testing.T) {
			if got := IsValidAddress(tt.input); got != tt.expected {
				t.Errorf("IsValidAddress(%q) = %v, want %v", tt.input, got, tt.expected)
			}
		})
	}
}

func TestIsValidNetwork(t *testing.T) {
	tests := []struct {
		input    string
		expected bool
	}{
		{"10.0.0.0/24", true},
		{"10.0.0.0/0", true},
		{"10.0.0.1/32", true},
		{"10.0.0.0/33", false},
		{"10.0.0.0/-1", false},
		{"10.0.0.0", false},
		{"10.0.0.0/24/1", false},
		{"10.0.0/24", false},
		{"10.0.0.0/", false},
		{"10.0.0.0/2x", false},
		{"/24", false},
	}

	for _, tt := range tests {
		t.Run(tt.input, func(t *testing.T) {
			if got := IsValidNetwork(tt.input); got != tt.expected {
				t.Errorf("IsValidNetwork(%q) = %v, want %v", tt.input, got, tt.expected)
			}
		})
	}
}

func TestIsValidPort(t *testing.T) {
	tests := []struct {
		port     int
		expected bool
	}{
		{1, true},
		{51820, true},
		{65535, true},
		{0, false},
		{-1, false},
		{65536, false},
	}

	for _, tt := range tests {
		if got := IsValidPort(tt.port); got != tt.expected {
			t.Errorf("IsValidPort(%d) = %v, want %v", tt.port, got, tt.expected)
		}
	}
}

func TestIsDNSName(t *testing.T) {
	tests := []struct {
		input    string
		expected bool
	}{
		{"vpn.example.com", true},
		{"localhost", true},
		{"", false},
		{"10.0.0.1", false},
		{"bad domain", false},
	}
	for _, tt := range tests {
		if got := IsDNSName(tt.input); got != tt.expected {
			t.Errorf("IsDNSName(%q) = %v, want %v", tt.input, got, tt.expected)
		}
	}
}

func TestNetworkContains(t *testing.T) {
	tests := []struct {
		name     string
		network  string
		address  string
		expected bool
	}{
		{"gateway inside", "10.0.1.0/24", "10.0.1.1", true},
		{"outside", "10.0.1.0/24", "10.0.2.1", false},
		{"host route", "10.0.1.5/32", "10.0.1.5", true},
		{"invalid network", "10.0.1.0/40", "10.0.1.1", false},
		{"invalid address", "10.0.1.0/24", "10.0.1", false},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := NetworkContains(tt.network, tt.address); got != tt.expected {
				t.Errorf("NetworkContains(%q, %q) = %v, want %v", tt.network, tt.address, got, tt.expected)
			}
		})
	}
}

func TestSplitList(t *testing.T) {
	tests := []struct {
		input    string
		expected []string
	}{
		{"10.0.1.0/24,10.0.2.0/24", []string{"10.0.1.0/24", "10.0.2.0/24"}},
		{" 10.0.1.0/24 , 10.0.2.0/24 ", []string{"10.0.1.0/24", "10.0.2.0/24"}},
		{"", nil},
		{" , ", nil},
	}
	for _, tt := range tests {
		if got := SplitList(tt.input); !reflect.DeepEqual(got, tt.expected) {
			t.Errorf("SplitList(%q) = %v, want %v", tt.input, got, tt.expected)
		}
	}
}
