package services

import (
	"testing"

	"github.com/skillforge-dev/skillforge/db"
	"github.com/skillforge-dev/skillforge/internal/models"
	"github.com/skillforge-dev/skillforge/internal/types"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/gorm"
)

func TestCreateUserWithProfile(t *testing.T) {
	setupTestDB(t)

	user := models.User{
		Email:        "new@example.com",
		PasswordHash: "hash",
		FirstName:    "New",
		LastName:     "User",
		Role:         types.RoleTalent,
		IsActive:     true,
	}
	require.NoError(t, CreateUserWithProfile(&user))

	var profile models.UserProfile
	require.NoError(t, db.DB.Where("user_id = ?", user.ID).First(&profile).Error)
}

func TestAdminRoleStaffSync(t *testing.T) {
	setupTestDB(t)

	admin := createTestUser(t, types.RoleAdmin)
	assert.True(t, admin.IsStaff)

	staff := models.User{
		Email:        "staff@example.com",
		PasswordHash: "hash",
		Role:         types.RoleTalent,
		IsStaff:      true,
		IsActive:     true,
	}
	require.NoError(t, db.DB.Create(&staff).Error)
	assert.Equal(t, types.RoleAdmin, staff.Role)
}

func TestPasswordResetFlow(t *testing.T) {
	setupTestDB(t)

	user := createTestUser(t, types.RoleTalent)

	_, first, err := RequestPasswordReset(user.Email)
	require.NoError(t, err)
	assert.Len(t, first.Code, 6)

	// A new request burns the outstanding code
	_, second, err := RequestPasswordReset(user.Email)
	require.NoError(t, err)

	_, _, err = VerifyResetCode(user.Email, first.Code)
	assert.ErrorIs(t, err, gorm.ErrRecordNotFound)

	_, verified, err := VerifyResetCode(user.Email, second.Code)
	require.NoError(t, err)
	assert.Equal(t, second.ID, verified.ID)

	require.NoError(t, ConfirmPasswordReset(user.Email, second.Code, "new-hash"))

	var refreshed models.User
	require.NoError(t, db.DB.First(&refreshed, user.ID).Error)
	assert.Equal(t, "new-hash", refreshed.PasswordHash)

	// The code is single use
	_, _, err = VerifyResetCode(user.Email, second.Code)
	assert.ErrorIs(t, err, gorm.ErrRecordNotFound)
}

func TestVerifyResetCodeUnknownEmail(t *testing.T) {
	setupTestDB(t)

	_, _, err := VerifyResetCode("nobody@example.com", "123456")
	assert.ErrorIs(t, err, gorm.ErrRecordNotFound)
}
