package access

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestHasPermission(t *testing.T) {
	tests := []struct {
		role       string
		permission string
		want       bool
	}{
		{RoleAdmin, "anything", true},
		{RoleAdmin, ManageUsers, true},
		{RoleAdmin, "", true},

		{RoleSupervisor, ManageMembers, true},
		{RoleSupervisor, ViewReports, true},
		{RoleSupervisor, ManageAttendance, true},
		{RoleSupervisor, ViewMembers, false},
		{RoleSupervisor, RecordAttendance, false},
		{RoleSupervisor, ManageUsers, false},

		{RoleEmployee, ViewMembers, true},
		{RoleEmployee, RecordAttendance, true},
		{RoleEmployee, ManageMembers, false},
		{RoleEmployee, ViewReports, false},
		{RoleEmployee, "all", false},

		{"guest", ViewMembers, false},
		{"", ViewMembers, false},
	}

	for _, tt := range tests {
		t.Run(tt.role+"/"+tt.permission, func(t *testing.T) {
			assert.Equal(t, tt.want, HasPermission(tt.role, tt.permission))
		})
	}
}

func TestHasAny(t *testing.T) {
	assert.True(t, HasAny(RoleSupervisor, ViewMembers, ManageMembers))
	assert.True(t, HasAny(RoleEmployee, ViewMembers, ManageMembers))
	assert.False(t, HasAny(RoleEmployee, ViewReports, ManageUsers))
	assert.False(t, HasAny(RoleAdmin))
}
