package handlers

import (
	"errors"
	"log"
	"net/http"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/skillforge-dev/skillforge/db"
	"github.com/skillforge-dev/skillforge/internal/models"
	"github.com/skillforge-dev/skillforge/internal/services"
	"github.com/skillforge-dev/skillforge/internal/types"
	"github.com/skillforge-dev/skillforge/internal/utils"
	"gorm.io/gorm"
)

type CreateInvitationRequest struct {
	InvitedUserID uint   `json:"invited_user_id" binding:"required"`
	RoleID        uint   `json:"role_id" binding:"required"`
	Message       string `json:"message"`
	ExpiresInDays uint   `json:"expires_in_days" binding:"omitempty,max=90"`
}

func CreateInvitation(ctx *gin.Context) {
	project, ok := fetchProject(ctx)

	if !ok {
		return
	}

	userID, err := utils.GetCurrentUserID(ctx)

	if err != nil {
		ctx.JSON(http.StatusUnauthorized, gin.H{"error": "User not authenticated"})
		return
	}

	var body CreateInvitationRequest

	if err := ctx.BindJSON(&body); err != nil {
		ctx.JSON(http.StatusBadRequest, gin.H{"error": "Invalid request"})
		return
	}

	// Inviter must be an active member of the project.
	var inviter models.ProjectMember

	err = db.DB.Where("project_id = ? AND user_id = ? AND is_active = ?", project.ID, userID, true).
		First(&inviter).Error

	if err != nil {
		ctx.JSON(http.StatusForbidden, gin.H{"error": "Only project members can send invitations"})
		return
	}

	var role models.ProjectRole

	if err := db.DB.Where("id = ? AND project_id = ?", body.RoleID, project.ID).First(&role).Error; err != nil {
		ctx.JSON(http.StatusNotFound, gin.H{"error": "Role not found"})
		return
	}

	var invitedUser models.User

	if err := db.DB.First(&invitedUser, body.InvitedUserID).Error; err != nil {
		ctx.JSON(http.StatusNotFound, gin.H{"error": "Invited user not found"})
		return
	}

	expiresInDays := body.ExpiresInDays

	if expiresInDays == 0 {
		expiresInDays = 7
	}

	expiresAt := time.Now().AddDate(0, 0, int(expiresInDays))

	invitation := models.ProjectInvitation{
		ProjectID:     project.ID,
		InvitedByID:   inviter.ID,
		InvitedUserID: invitedUser.ID,
		RoleID:        role.ID,
		Message:       body.Message,
		Status:        types.InvitationPending,
		ExpiresAt:     &expiresAt,
	}

	if err := db.DB.Create(&invitation).Error; err != nil {
		if errors.Is(err, gorm.ErrDuplicatedKey) {
			ctx.JSON(http.StatusConflict, gin.H{"error": "User already has an invitation for this project"})
			return
		}
		log.Printf("Failed to create invitation: %v", err)
		ctx.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to create invitation"})
		return
	}

	services.SendInvitationEmail(invitedUser.Email, project.Title, body.Message)

	ctx.JSON(http.StatusCreated, invitation)
}

func ListMyInvitations(ctx *gin.Context) {
	userID, err := utils.GetCurrentUserID(ctx)

	if err != nil {
		ctx.JSON(http.StatusUnauthorized, gin.H{"error": "User not authenticated"})
		return
	}

	var invitations []models.ProjectInvitation

	err = db.DB.Preload("Project").Preload("Role").
		Where("invited_user_id = ? AND status = ?", userID, types.InvitationPending).
		Find(&invitations).Error

	if err != nil {
		log.Printf("Failed to list invitations: %v", err)
		ctx.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to retrieve invitations"})
		return
	}

	ctx.JSON(http.StatusOK, invitations)
}

func AcceptInvitation(ctx *gin.Context) {
	invitation, ok := fetchOwnInvitation(ctx)

	if !ok {
		return
	}

	member, err := services.AcceptInvitation(invitation.ID)

	if err != nil {
		switch {
		case errors.Is(err, services.ErrInvitationExpired):
			ctx.JSON(http.StatusConflict, gin.H{"error": "Invitation has expired"})
		case errors.Is(err, services.ErrInvitationClosed):
			ctx.JSON(http.StatusConflict, gin.H{"error": "Invitation is no longer pending"})
		case errors.Is(err, services.ErrProjectMembersLimit):
			ctx.JSON(http.StatusConflict, gin.H{"error": "Project has reached its member limit"})
		default:
			log.Printf("Failed to accept invitation: %v", err)
			ctx.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to accept invitation"})
		}
		return
	}

	ctx.JSON(http.StatusOK, member)
}

func DeclineInvitation(ctx *gin.Context) {
	invitation, ok := fetchOwnInvitation(ctx)

	if !ok {
		return
	}

	invitation, err := services.DeclineInvitation(invitation.ID)

	if err != nil {
		if errors.Is(err, services.ErrInvitationClosed) {
			ctx.JSON(http.StatusConflict, gin.H{"error": "Invitation is no longer pending"})
			return
		}
		log.Printf("Failed to decline invitation: %v", err)
		ctx.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to decline invitation"})
		return
	}

	ctx.JSON(http.StatusOK, invitation)
}

// fetchOwnInvitation loads the :invitation_id invitation addressed to the
// caller; it writes the error response itself on failure.
func fetchOwnInvitation(ctx *gin.Context) (models.ProjectInvitation, bool) {
	var invitation models.ProjectInvitation

	userID, err := utils.GetCurrentUserID(ctx)

	if err != nil {
		ctx.JSON(http.StatusUnauthorized, gin.H{"error": "User not authenticated"})
		return invitation, false
	}

	invitationID, err := utils.GetIDParam(ctx, "invitation_id")

	if err != nil {
		ctx.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return invitation, false
	}

	err = db.DB.Where("id = ? AND invited_user_id = ?", invitationID, userID).First(&invitation).Error

	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			ctx.JSON(http.StatusNotFound, gin.H{"error": "Invitation not found"})
		} else {
			log.Printf("Failed to fetch invitation: %v", err)
			ctx.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to retrieve invitation"})
		}
		return invitation, false
	}

	return invitation, true
}
