package model

import "testing"

func TestValidRole(t *testing.T) {
	tests := []struct {
		role     string
		expected bool
	}{
		{RoleCustomer, true},
		{RoleAdmin, true},
		{"manager", false},
		{"Admin", false},
		{"", false},
	}

	for _, tt := range tests {
		got := ValidRole(tt.role)
		if got != tt.expected {
			t.Errorf("ValidRole(%q) = %v, want %v", tt.role, got, tt.expected)
		}
	}
}
