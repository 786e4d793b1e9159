package sqlite

import (
	"testing"

	"lawdesk/internal/domain/entity"
	"lawdesk/internal/utils"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestSeedOwnerIsIdempotent(t *testing.T) {
	db, err := Init(":memory:")
	require.NoError(t, err)

	require.NoError(t, SeedOwner(db, "boss", "1234", "Dr. Boss"))

	var owner entity.User
	require.NoError(t, db.Where("username = ?", "boss").First(&owner).Error)
	assert.Equal(t, entity.RoleOwner, owner.Role)
	assert.True(t, utils.CheckPassword("1234", owner.PasswordHash))

	// Change the password, then seed again: insert-or-ignore must never
	// reset it.
	newHash, err := utils.HashPassword("rotated")
	require.NoError(t, err)
	owner.PasswordHash = newHash
	require.NoError(t, db.Save(&owner).Error)

	require.NoError(t, SeedOwner(db, "boss", "1234", "Dr. Boss"))

	var again entity.User
	require.NoError(t, db.Where("username = ?", "boss").First(&again).Error)
	assert.True(t, utils.CheckPassword("rotated", again.PasswordHash))
	assert.False(t, utils.CheckPassword("1234", again.PasswordHash))

	var count int64
	require.NoError(t, db.Model(&entity.User{}).Count(&count).Error)
	assert.Equal(t, int64(1), count)
}
