package handlers

import (
	"errors"
	"log"
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/skillforge-dev/skillforge/db"
	"github.com/skillforge-dev/skillforge/internal/models"
	"github.com/skillforge-dev/skillforge/internal/services"
	"github.com/skillforge-dev/skillforge/internal/utils"
	"golang.org/x/crypto/bcrypt"
	"gorm.io/gorm"
)

type PasswordResetRequestBody struct {
	Email string `json:"email" binding:"required,email"`
}

type PasswordResetVerifyBody struct {
	Email string `json:"email" binding:"required,email"`
	Code  string `json:"code" binding:"required,len=6"`
}

type PasswordResetConfirmBody struct {
	Email     string `json:"email" binding:"required,email"`
	Code      string `json:"code" binding:"required,len=6"`
	Password1 string `json:"password1" binding:"required,min=8"`
	Password2 string `json:"password2" binding:"required"`
}

type PasswordChangeBody struct {
	OldPassword string `json:"old_password" binding:"required"`
	Password1   string `json:"password1" binding:"required,min=8"`
	Password2   string `json:"password2" binding:"required"`
}

func RequestPasswordReset(ctx *gin.Context) {
	var body PasswordResetRequestBody

	if err := ctx.BindJSON(&body); err != nil {
		ctx.JSON(http.StatusBadRequest, gin.H{"error": "Invalid request"})
		return
	}

	user, resetCode, err := services.RequestPasswordReset(body.Email)

	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			ctx.JSON(http.StatusNotFound, gin.H{"error": "User with this email does not exist"})
			return
		}
		log.Printf("Failed to create password reset code: %v", err)
		ctx.JSON(http.StatusInternalServerError, gin.H{"error": "Internal server error"})
		return
	}

	services.SendPasswordResetEmail(user.Email, resetCode.Code)

	ctx.JSON(http.StatusOK, gin.H{"message": "Check your email"})
}

func VerifyPasswordReset(ctx *gin.Context) {
	var body PasswordResetVerifyBody

	if err := ctx.BindJSON(&body); err != nil {
		ctx.JSON(http.StatusBadRequest, gin.H{"error": "Invalid request"})
		return
	}

	user, _, err := services.VerifyResetCode(body.Email, body.Code)

	if err != nil {
		ctx.JSON(http.StatusBadRequest, gin.H{"error": "Invalid or expired code"})
		return
	}

	ctx.JSON(http.StatusOK, gin.H{
		"message": "Verification code is valid",
		"email":   user.Email,
	})
}

func ConfirmPasswordReset(ctx *gin.Context) {
	var body PasswordResetConfirmBody

	if err := ctx.BindJSON(&body); err != nil {
		ctx.JSON(http.StatusBadRequest, gin.H{"error": "Invalid request"})
		return
	}

	if body.Password1 != body.Password2 {
		ctx.JSON(http.StatusBadRequest, gin.H{"error": "Passwords do not match"})
		return
	}

	passwordHash, err := bcrypt.GenerateFromPassword([]byte(body.Password1), bcrypt.DefaultCost)

	if err != nil {
		log.Printf("Failed to hash password: %v", err)
		ctx.JSON(http.StatusInternalServerError, gin.H{"error": "Internal server error"})
		return
	}

	if err := services.ConfirmPasswordReset(body.Email, body.Code, string(passwordHash)); err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			ctx.JSON(http.StatusBadRequest, gin.H{"error": "Invalid or expired code"})
			return
		}
		log.Printf("Failed to reset password: %v", err)
		ctx.JSON(http.StatusInternalServerError, gin.H{"error": "Internal server error"})
		return
	}

	ctx.JSON(http.StatusOK, gin.H{"message": "Password has been reset successfully"})
}

func ChangePassword(ctx *gin.Context) {
	currentUser, err := utils.GetCurrentUser(ctx)

	if err != nil {
		ctx.JSON(http.StatusUnauthorized, gin.H{"error": "User not authenticated"})
		return
	}

	var body PasswordChangeBody

	if err := ctx.BindJSON(&body); err != nil {
		ctx.JSON(http.StatusBadRequest, gin.H{"error": "Invalid request"})
		return
	}

	if body.Password1 != body.Password2 {
		ctx.JSON(http.StatusBadRequest, gin.H{"error": "Passwords do not match"})
		return
	}

	var user models.User

	if err := db.DB.First(&user, currentUser.ID).Error; err != nil {
		log.Printf("Failed to fetch user: %v", err)
		ctx.JSON(http.StatusInternalServerError, gin.H{"error": "Internal server error"})
		return
	}

	if err := bcrypt.CompareHashAndPassword([]byte(user.PasswordHash), []byte(body.OldPassword)); err != nil {
		ctx.JSON(http.StatusBadRequest, gin.H{"error": "Password is incorrect"})
		return
	}

	passwordHash, err := bcrypt.GenerateFromPassword([]byte(body.Password1), bcrypt.DefaultCost)

	if err != nil {
		log.Printf("Failed to hash password: %v", err)
		ctx.JSON(http.StatusInternalServerError, gin.H{"error": "Internal server error"})
		return
	}

	if err := db.DB.Model(&user).Update("password_hash", string(passwordHash)).Error; err != nil {
		log.Printf("Failed to update password: %v", err)
		ctx.JSON(http.StatusInternalServerError, gin.H{"error": "Internal server error"})
		return
	}

	ctx.JSON(http.StatusOK, gin.H{"message": "Password change successful"})
}
