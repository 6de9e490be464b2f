package services

import (
	"crypto/rand"
	"fmt"
	"math/big"
	"time"

	"github.com/skillforge-dev/skillforge/db"
	"github.com/skillforge-dev/skillforge/internal/models"
	"gorm.io/gorm"
)

const resetCodeTTL = 30 * time.Minute

// CreateUserWithProfile persists a new user together with its empty profile,
// mirroring the one-to-one the rest of the system assumes exists.
func CreateUserWithProfile(user *models.User) error {
	return db.DB.Transaction(func(tx *gorm.DB) error {
		if err := tx.Create(user).Error; err != nil {
			return err
		}

		profile := models.UserProfile{UserID: user.ID}

		return tx.Create(&profile).Error
	})
}

// RequestPasswordReset invalidates any outstanding codes for the user and
// issues a fresh one.
func RequestPasswordReset(email string) (models.User, models.PasswordResetCode, error) {
	var user models.User
	var resetCode models.PasswordResetCode

	err := db.DB.Transaction(func(tx *gorm.DB) error {
		if err := tx.Where("email = ?", email).First(&user).Error; err != nil {
			return err
		}

		err := tx.Model(&models.PasswordResetCode{}).
			Where("user_id = ? AND is_used = ?", user.ID, false).
			Update("is_used", true).Error

		if err != nil {
			return err
		}

		code, err := generateResetCode()

		if err != nil {
			return err
		}

		resetCode = models.PasswordResetCode{
			UserID:    user.ID,
			Code:      code,
			ExpiresAt: time.Now().Add(resetCodeTTL),
		}

		return tx.Create(&resetCode).Error
	})

	return user, resetCode, err
}

// VerifyResetCode checks that the latest unused code for the email matches and
// has not expired.
func VerifyResetCode(email string, code string) (models.User, models.PasswordResetCode, error) {
	var user models.User
	var resetCode models.PasswordResetCode

	if err := db.DB.Where("email = ?", email).First(&user).Error; err != nil {
		return user, resetCode, err
	}

	err := db.DB.Where("user_id = ? AND code = ? AND is_used = ?", user.ID, code, false).
		Order("created_at DESC").
		First(&resetCode).Error

	if err != nil {
		return user, resetCode, err
	}

	if !resetCode.IsValid(time.Now()) {
		return user, resetCode, gorm.ErrRecordNotFound
	}

	return user, resetCode, nil
}

// ConfirmPasswordReset swaps in the new password hash and burns the code plus
// any other outstanding codes for the user.
func ConfirmPasswordReset(email string, code string, newPasswordHash string) error {
	user, resetCode, err := VerifyResetCode(email, code)

	if err != nil {
		return err
	}

	return db.DB.Transaction(func(tx *gorm.DB) error {
		if err := tx.Model(&user).Update("password_hash", newPasswordHash).Error; err != nil {
			return err
		}

		if err := tx.Model(&resetCode).Update("is_used", true).Error; err != nil {
			return err
		}

		return tx.Model(&models.PasswordResetCode{}).
			Where("user_id = ? AND is_used = ?", user.ID, false).
			Update("is_used", true).Error
	})
}

func generateResetCode() (string, error) {
	max := big.NewInt(1000000)

	n, err := rand.Int(rand.Reader, max)

	if err != nil {
		return "", err
	}

	return fmt.Sprintf("%06d", n.Int64()), nil
}
