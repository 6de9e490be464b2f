package handlers

import (
	"log"
	"net/http"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/skillforge-dev/skillforge/db"
	"github.com/skillforge-dev/skillforge/internal/models"
	"github.com/skillforge-dev/skillforge/internal/utils"
	"gorm.io/datatypes"
)

type UpdateProfileRequest struct {
	Title           *string         `json:"title"`
	Company         *string         `json:"company"`
	ExperienceYears *uint           `json:"experience_years"`
	Bio             *string         `json:"bio" binding:"omitempty,max=500"`
	HourlyRate      *float64        `json:"hourly_rate" binding:"omitempty,gte=0"`
	IsAvailable     *bool           `json:"is_available"`
	AvailableFrom   *time.Time      `json:"available_from"`
	Preferences     *datatypes.JSON `json:"notification_preferences"`
}

type UpdateUserRequest struct {
	FirstName   *string `json:"first_name"`
	LastName    *string `json:"last_name"`
	PhoneNumber *string `json:"phone_number"`
	Location    *string `json:"location"`
	Website     *string `json:"website" binding:"omitempty,url"`
	Github      *string `json:"github" binding:"omitempty,url"`
	Linkedin    *string `json:"linkedin" binding:"omitempty,url"`
	Twitter     *string `json:"twitter" binding:"omitempty,url"`
	SkillIDs    []uint  `json:"skill_ids"`
}

func UpdateProfile(ctx *gin.Context) {
	userID, err := utils.GetCurrentUserID(ctx)

	if err != nil {
		ctx.JSON(http.StatusUnauthorized, gin.H{"error": "User not authenticated"})
		return
	}

	var body UpdateProfileRequest

	if err := ctx.BindJSON(&body); err != nil {
		ctx.JSON(http.StatusBadRequest, gin.H{"error": "Invalid request"})
		return
	}

	var profile models.UserProfile

	if err := db.DB.Where("user_id = ?", userID).First(&profile).Error; err != nil {
		log.Printf("Failed to fetch profile: %v", err)
		ctx.JSON(http.StatusInternalServerError, gin.H{"error": "Internal server error"})
		return
	}

	updates := make(map[string]interface{})

	if body.Title != nil {
		updates["title"] = *body.Title
	}
	if body.Company != nil {
		updates["company"] = *body.Company
	}
	if body.ExperienceYears != nil {
		updates["experience_years"] = *body.ExperienceYears
	}
	if body.Bio != nil {
		updates["bio"] = *body.Bio
	}
	if body.HourlyRate != nil {
		updates["hourly_rate"] = *body.HourlyRate
	}
	if body.IsAvailable != nil {
		updates["is_available"] = *body.IsAvailable
	}
	if body.AvailableFrom != nil {
		updates["available_from"] = *body.AvailableFrom
	}
	if body.Preferences != nil {
		updates["notification_preferences"] = *body.Preferences
	}

	if len(updates) == 0 {
		ctx.JSON(http.StatusBadRequest, gin.H{"error": "No valid fields to update"})
		return
	}

	if err := db.DB.Model(&profile).Updates(updates).Error; err != nil {
		log.Printf("Failed to update profile: %v", err)
		ctx.JSON(http.StatusInternalServerError, gin.H{"error": "Internal server error"})
		return
	}

	ctx.JSON(http.StatusOK, profile)
}

func UpdateUser(ctx *gin.Context) {
	userID, err := utils.GetCurrentUserID(ctx)

	if err != nil {
		ctx.JSON(http.StatusUnauthorized, gin.H{"error": "User not authenticated"})
		return
	}

	var body UpdateUserRequest

	if err := ctx.BindJSON(&body); err != nil {
		ctx.JSON(http.StatusBadRequest, gin.H{"error": "Invalid request"})
		return
	}

	var user models.User

	if err := db.DB.First(&user, userID).Error; err != nil {
		log.Printf("Failed to fetch user: %v", err)
		ctx.JSON(http.StatusInternalServerError, gin.H{"error": "Internal server error"})
		return
	}

	updates := make(map[string]interface{})

	if body.FirstName != nil {
		updates["first_name"] = *body.FirstName
	}
	if body.LastName != nil {
		updates["last_name"] = *body.LastName
	}
	if body.PhoneNumber != nil {
		updates["phone_number"] = *body.PhoneNumber
	}
	if body.Location != nil {
		updates["location"] = *body.Location
	}
	if body.Website != nil {
		updates["website"] = *body.Website
	}
	if body.Github != nil {
		updates["github"] = *body.Github
	}
	if body.Linkedin != nil {
		updates["linkedin"] = *body.Linkedin
	}
	if body.Twitter != nil {
		updates["twitter"] = *body.Twitter
	}

	if len(updates) > 0 {
		if err := db.DB.Model(&user).Updates(updates).Error; err != nil {
			log.Printf("Failed to update user: %v", err)
			ctx.JSON(http.StatusInternalServerError, gin.H{"error": "Internal server error"})
			return
		}
	}

	if body.SkillIDs != nil {
		var skills []models.Skill

		if err := db.DB.Find(&skills, body.SkillIDs).Error; err != nil {
			log.Printf("Failed to fetch skills: %v", err)
			ctx.JSON(http.StatusInternalServerError, gin.H{"error": "Internal server error"})
			return
		}

		if err := db.DB.Model(&user).Association("Skills").Replace(skills); err != nil {
			log.Printf("Failed to update skills: %v", err)
			ctx.JSON(http.StatusInternalServerError, gin.H{"error": "Internal server error"})
			return
		}
	}

	if err := db.DB.Preload("Skills").First(&user, userID).Error; err != nil {
		log.Printf("Failed to refresh user: %v", err)
		ctx.JSON(http.StatusInternalServerError, gin.H{"error": "Internal server error"})
		return
	}

	ctx.JSON(http.StatusOK, gin.H{
		"user": gin.H{
			"id":         user.ID,
			"email":      user.Email,
			"first_name": user.FirstName,
			"last_name":  user.LastName,
			"role":       user.Role,
			"skills":     user.Skills,
		},
	})
}
