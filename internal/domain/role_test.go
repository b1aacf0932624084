package domain_test

import (
	"testing"

	"leavedesk/internal/domain"

	"github.com/stretchr/testify/assert"
)

func TestParseRole(t *testing.T) {
	tests := []struct {
		in   string
		want domain.Role
		ok   bool
	}{
		{"EMPLOYEE", domain.RoleEmployee, true},
		{"MANAGER", domain.RoleManager, true},
		{"ADMIN", domain.RoleAdmin, true},
		{"employee", "", false},
		{"ROOT", "", false},
		{"", "", false},
	}

	for _, tt := range tests {
		t.Run(tt.in, func(t *testing.T) {
			got, ok := domain.ParseRole(tt.in)
			assert.Equal(t, tt.ok, ok)
			assert.Equal(t, tt.want, got)
		})
	}
}

func TestCan(t *testing.T) {
	tests := []struct {
		name string
		role domain.Role
		perm domain.Permission
		want bool
	}{
		{"employee can read own balance", domain.RoleEmployee, domain.PermBalanceRead, true},
		{"employee can file requests", domain.RoleEmployee, domain.PermRequestWrite, true},
		{"employee cannot act on approvals", domain.RoleEmployee, domain.PermApprovalAct, false},
		{"employee cannot adjust balances", domain.RoleEmployee, domain.PermBalanceAdjust, false},
		{"manager can act on approvals", domain.RoleManager, domain.PermApprovalAct, true},
		{"manager can read reports", domain.RoleManager, domain.PermReportRead, true},
		{"manager cannot manage employees", domain.RoleManager, domain.PermEmployeeWrite, false},
		{"manager cannot run carry-forward", domain.RoleManager, domain.PermCarryForward, false},
		{"admin can run carry-forward", domain.RoleAdmin, domain.PermCarryForward, true},
		{"admin can delete requests", domain.RoleAdmin, domain.PermRequestDelete, true},
		{"unknown role holds nothing", domain.Role("ROOT"), domain.PermRequestRead, false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, domain.Can(tt.role, tt.perm))
		})
	}
}
