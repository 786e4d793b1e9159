package entity

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestRoleCapabilities(t *testing.T) {
	tests := []struct {
		role          Role
		valid         bool
		canTriage     bool
		canBeAssigned bool
	}{
		{role: RoleOwner, valid: true, canTriage: true, canBeAssigned: false},
		{role: RoleLawyer, valid: true, canTriage: false, canBeAssigned: true},
		{role: RoleIntern, valid: true, canTriage: false, canBeAssigned: true},
		{role: Role("Sócio-Proprietário"), valid: false, canTriage: false, canBeAssigned: false},
		{role: Role(""), valid: false, canTriage: false, canBeAssigned: false},
	}

	for _, tt := range tests {
		t.Run(string(tt.role), func(t *testing.T) {
			assert.Equal(t, tt.valid, tt.role.Valid())
			assert.Equal(t, tt.canTriage, tt.role.CanTriage())
			assert.Equal(t, tt.canBeAssigned, tt.role.CanBeAssigned())
		})
	}
}

func TestUserIsOwner(t *testing.T) {
	assert.True(t, (&User{Role: RoleOwner}).IsOwner())
	assert.False(t, (&User{Role: RoleLawyer}).IsOwner())
}
