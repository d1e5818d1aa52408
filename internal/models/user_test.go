package models

import "testing"

func TestIsValidRole(t *testing.T) {
	tests := []struct {
		name     string
		role     Role
		expected bool
	}{
		{"admin role", RoleAdmin, true},
		{"mechanic role", RoleMechanic, true},
		{"viewer role", RoleViewer, true},
		{"invalid role", "invalid", false},
		{"empty role", "", false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			result := IsValidRole(tt.role)
			if result != tt.expected {
				t.Errorf("IsValidRole(%s) = %v, want %v", tt.role, result, tt.expected)
			}
		})
	}
}

func TestUser_HasPermission(t *testing.T) {
	admin := &User{Role: RoleAdmin}
	mechanic := &User{Role: RoleMechanic}
	viewer := &User{Role: RoleViewer}

	tests := []struct {
		name     string
		user     *User
		action   string
		expected bool
	}{
		{"admin can manage vehicles", admin, "manage_vehicles", true},
		{"admin can manage maintenance", admin, "manage_maintenance", true},
		{"admin can view fleet", admin, "view_fleet", true},

		{"mechanic cannot manage vehicles", mechanic, "manage_vehicles", false},
		{"mechanic can manage maintenance", mechanic, "manage_maintenance", true},
		{"mechanic can view fleet", mechanic, "view_fleet", true},

		{"viewer can view fleet", viewer, "view_fleet", true},
		{"viewer cannot manage maintenance", viewer, "manage_maintenance", false},
		{"viewer cannot manage vehicles", viewer, "manage_vehicles", false},

		{"unknown role has no permissions", &User{Role: "ghost"}, "view_fleet", false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			result := tt.user.HasPermission(tt.action)
			if result != tt.expected {
				t.Errorf("User with role %s HasPermission(%s) = %v, want %v",
					tt.user.Role, tt.action, result, tt.expected)
			}
		})
	}
}
