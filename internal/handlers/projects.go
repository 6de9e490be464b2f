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

type CreateProjectRequest struct {
	Title         string     `json:"title" binding:"required,max=200"`
	Description   string     `json:"description" binding:"required"`
	ProjectType   string     `json:"project_type" binding:"omitempty,oneof=internal client learning open_source hackathon"`
	Visibility    string     `json:"visibility" binding:"omitempty,oneof=public private invite_only"`
	StartDate     *time.Time `json:"start_date"`
	TargetDate    *time.Time `json:"target_date"`
	MaxMembers    uint       `json:"max_members" binding:"omitempty,min=1,max=50"`
	AllowRequests *bool      `json:"allow_requests"`
	RepositoryURL string     `json:"repository_url" binding:"omitempty,url"`
	SkillIDs      []uint     `json:"skill_ids"`
}

type UpdateProjectRequest struct {
	Title         *string    `json:"title" binding:"omitempty,max=200"`
	Description   *string    `json:"description"`
	Status        *string    `json:"status" binding:"omitempty,oneof=planning active on_hold completed cancelled"`
	Visibility    *string    `json:"visibility" binding:"omitempty,oneof=public private invite_only"`
	TargetDate    *time.Time `json:"target_date"`
	AllowRequests *bool      `json:"allow_requests"`
}

type CreateProjectRoleRequest struct {
	Title            string `json:"title" binding:"required,max=100"`
	Description      string `json:"description"`
	CanManageTasks   bool   `json:"can_manage_tasks"`
	CanManageMembers bool   `json:"can_manage_members"`
	CanEditProject   bool   `json:"can_edit_project"`
	CanDeleteContent bool   `json:"can_delete_content"`
	MaxMembers       uint   `json:"max_members" binding:"omitempty,min=1"`
}

func CreateProject(ctx *gin.Context) {
	userID, err := utils.GetCurrentUserID(ctx)

	if err != nil {
		ctx.JSON(http.StatusUnauthorized, gin.H{"error": "User not authenticated"})
		return
	}

	var body CreateProjectRequest

	if err := ctx.BindJSON(&body); err != nil {
		ctx.JSON(http.StatusBadRequest, gin.H{"error": "Invalid request"})
		return
	}

	projectType := body.ProjectType

	if projectType == "" {
		projectType = types.ProjectInternal
	}

	visibility := body.Visibility

	if visibility == "" {
		visibility = types.VisibilityPrivate
	}

	maxMembers := body.MaxMembers

	if maxMembers == 0 {
		maxMembers = 20
	}

	allowRequests := true

	if body.AllowRequests != nil {
		allowRequests = *body.AllowRequests
	}

	project := models.Project{
		Title:         body.Title,
		Description:   body.Description,
		ProjectType:   projectType,
		Status:        types.ProjectPlanning,
		Visibility:    visibility,
		CreatedByID:   &userID,
		StartDate:     body.StartDate,
		TargetDate:    body.TargetDate,
		MaxMembers:    maxMembers,
		AllowRequests: allowRequests,
		RepositoryURL: body.RepositoryURL,
	}

	err = db.DB.Transaction(func(tx *gorm.DB) error {
		if err := tx.Create(&project).Error; err != nil {
			return err
		}

		// The creator joins as the first approved member.
		now := time.Now()
		member := models.ProjectMember{
			ProjectID:  project.ID,
			UserID:     userID,
			IsApproved: true,
			ApprovedAt: &now,
			JoinedAt:   &now,
		}

		return tx.Create(&member).Error
	})

	if err != nil {
		log.Printf("Failed to create project: %v", err)
		ctx.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to create project"})
		return
	}

	if len(body.SkillIDs) > 0 {
		var skills []models.Skill

		if err := db.DB.Find(&skills, body.SkillIDs).Error; err == nil {
			if err := db.DB.Model(&project).Association("Skills").Replace(skills); err != nil {
				log.Printf("Failed to attach skills: %v", err)
			}
		}
	}

	ctx.JSON(http.StatusCreated, project)
}

func ListProjects(ctx *gin.Context) {
	userID, err := utils.GetCurrentUserID(ctx)

	if err != nil {
		ctx.JSON(http.StatusUnauthorized, gin.H{"error": "User not authenticated"})
		return
	}

	var projects []models.Project

	// Own projects plus public ones.
	err = db.DB.Preload("Skills").
		Where("created_by_id = ? OR visibility = ?", userID, types.VisibilityPublic).
		Find(&projects).Error

	if err != nil {
		log.Printf("Failed to retrieve projects: %v", err)
		ctx.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to retrieve projects"})
		return
	}

	ctx.JSON(http.StatusOK, projects)
}

func GetProject(ctx *gin.Context) {
	project, ok := fetchProject(ctx)

	if !ok {
		return
	}

	memberCount, err := services.ActiveMemberCount(project.ID)

	if err != nil {
		log.Printf("Failed to count members: %v", err)
		ctx.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to retrieve project"})
		return
	}

	ctx.JSON(http.StatusOK, gin.H{
		"project":       project,
		"member_count":  memberCount,
		"has_vacancies": memberCount < int64(project.MaxMembers),
	})
}

func UpdateProject(ctx *gin.Context) {
	project, ok := fetchProject(ctx)

	if !ok {
		return
	}

	currentUser, _ := utils.GetCurrentUser(ctx)

	if project.CreatedByID == nil || *project.CreatedByID != currentUser.ID {
		if !currentUser.IsStaff {
			ctx.JSON(http.StatusForbidden, gin.H{"error": "Only the project creator can update this project"})
			return
		}
	}

	var body UpdateProjectRequest

	if err := ctx.BindJSON(&body); err != nil {
		ctx.JSON(http.StatusBadRequest, gin.H{"error": "Invalid request"})
		return
	}

	updates := make(map[string]interface{})

	if body.Title != nil {
		updates["title"] = *body.Title
	}
	if body.Description != nil {
		updates["description"] = *body.Description
	}
	if body.Status != nil {
		updates["status"] = *body.Status
	}
	if body.Visibility != nil {
		updates["visibility"] = *body.Visibility
	}
	if body.TargetDate != nil {
		updates["target_date"] = *body.TargetDate
	}
	if body.AllowRequests != nil {
		updates["allow_requests"] = *body.AllowRequests
	}

	if len(updates) == 0 {
		ctx.JSON(http.StatusBadRequest, gin.H{"error": "No valid fields to update"})
		return
	}

	if err := db.DB.Model(&project).Updates(updates).Error; err != nil {
		log.Printf("Failed to update project: %v", err)
		ctx.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to update project"})
		return
	}

	ctx.JSON(http.StatusOK, project)
}

func DeleteProject(ctx *gin.Context) {
	project, ok := fetchProject(ctx)

	if !ok {
		return
	}

	currentUser, _ := utils.GetCurrentUser(ctx)

	if (project.CreatedByID == nil || *project.CreatedByID != currentUser.ID) && !currentUser.IsStaff {
		ctx.JSON(http.StatusForbidden, gin.H{"error": "Only the project creator can delete this project"})
		return
	}

	if err := db.DB.Delete(&project).Error; err != nil {
		log.Printf("Failed to delete project: %v", err)
		ctx.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to delete project"})
		return
	}

	ctx.Status(http.StatusNoContent)
}

func CreateProjectRole(ctx *gin.Context) {
	project, ok := fetchProject(ctx)

	if !ok {
		return
	}

	var body CreateProjectRoleRequest

	if err := ctx.BindJSON(&body); err != nil {
		ctx.JSON(http.StatusBadRequest, gin.H{"error": "Invalid request"})
		return
	}

	maxMembers := body.MaxMembers

	if maxMembers == 0 {
		maxMembers = 1
	}

	role := models.ProjectRole{
		ProjectID:        project.ID,
		Title:            body.Title,
		Description:      body.Description,
		CanManageTasks:   body.CanManageTasks,
		CanManageMembers: body.CanManageMembers,
		CanEditProject:   body.CanEditProject,
		CanDeleteContent: body.CanDeleteContent,
		MaxMembers:       maxMembers,
	}

	if err := db.DB.Create(&role).Error; err != nil {
		log.Printf("Failed to create project role: %v", err)
		ctx.JSON(http.StatusBadRequest, gin.H{"error": "Failed to create project role"})
		return
	}

	ctx.JSON(http.StatusCreated, role)
}

func ListProjectMembers(ctx *gin.Context) {
	project, ok := fetchProject(ctx)

	if !ok {
		return
	}

	var members []models.ProjectMember

	err := db.DB.Preload("User").Preload("Role").
		Where("project_id = ? AND is_active = ?", project.ID, true).
		Find(&members).Error

	if err != nil {
		log.Printf("Failed to list members: %v", err)
		ctx.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to retrieve members"})
		return
	}

	ctx.JSON(http.StatusOK, members)
}

func ApproveProjectMember(ctx *gin.Context) {
	memberID, err := utils.GetIDParam(ctx, "member_id")

	if err != nil {
		ctx.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	member, err := services.ApproveMember(memberID)

	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			ctx.JSON(http.StatusNotFound, gin.H{"error": "Member not found"})
			return
		}
		log.Printf("Failed to approve member: %v", err)
		ctx.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to approve member"})
		return
	}

	ctx.JSON(http.StatusOK, member)
}

func RemoveProjectMember(ctx *gin.Context) {
	memberID, err := utils.GetIDParam(ctx, "member_id")

	if err != nil {
		ctx.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	member, err := services.RemoveMember(memberID)

	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			ctx.JSON(http.StatusNotFound, gin.H{"error": "Member not found"})
			return
		}
		log.Printf("Failed to remove member: %v", err)
		ctx.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to remove member"})
		return
	}

	ctx.JSON(http.StatusOK, member)
}

// fetchProject loads the :project_id project, writing the error response
// itself on failure.
func fetchProject(ctx *gin.Context) (models.Project, bool) {
	var project models.Project

	projectID, err := utils.GetIDParam(ctx, "project_id")

	if err != nil {
		ctx.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return project, false
	}

	if err := db.DB.First(&project, projectID).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			ctx.JSON(http.StatusNotFound, gin.H{"error": "Project not found"})
		} else {
			log.Printf("Failed to fetch project: %v", err)
			ctx.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to retrieve project"})
		}
		return project, false
	}

	return project, true
}
