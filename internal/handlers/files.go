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
	"gorm.io/gorm"
)

type CreateFileRequest struct {
	FilePath    string `json:"file_path" binding:"required"`
	FileSize    uint   `json:"file_size"`
	Description string `json:"description"`
	Category    string `json:"category" binding:"omitempty,oneof=document design code image video audio other"`
	IsPublic    bool   `json:"is_public"`
}

type CreateFileVersionRequest struct {
	FilePath    string `json:"file_path" binding:"required"`
	FileSize    uint   `json:"file_size"`
	Description string `json:"description"`
}

func CreateProjectFile(ctx *gin.Context) {
	project, ok := fetchProject(ctx)

	if !ok {
		return
	}

	userID, err := utils.GetCurrentUserID(ctx)

	if err != nil {
		ctx.JSON(http.StatusUnauthorized, gin.H{"error": "User not authenticated"})
		return
	}

	var body CreateFileRequest

	if err := ctx.BindJSON(&body); err != nil {
		ctx.JSON(http.StatusBadRequest, gin.H{"error": "Invalid request"})
		return
	}

	var uploader models.ProjectMember

	err = db.DB.Where("project_id = ? AND user_id = ? AND is_active = ?", project.ID, userID, true).
		First(&uploader).Error

	if err != nil {
		ctx.JSON(http.StatusForbidden, gin.H{"error": "Only project members can upload files"})
		return
	}

	category := body.Category

	if category == "" {
		category = "document"
	}

	file := models.ProjectFile{
		ProjectID:    project.ID,
		UploadedByID: &uploader.ID,
		FilePath:     body.FilePath,
		FileSize:     body.FileSize,
		Description:  body.Description,
		Category:     category,
		Version:      1,
		IsCurrent:    true,
		IsPublic:     body.IsPublic,
	}

	if err := db.DB.Create(&file).Error; err != nil {
		log.Printf("Failed to create project file: %v", err)
		ctx.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to create file"})
		return
	}

	ctx.JSON(http.StatusCreated, file)
}

func ListProjectFiles(ctx *gin.Context) {
	project, ok := fetchProject(ctx)

	if !ok {
		return
	}

	query := db.DB.Preload("UploadedBy").Where("project_id = ?", project.ID)

	// Current versions only unless the full lineage is requested.
	if ctx.Query("all_versions") == "" {
		query = query.Where("is_current = ?", true)
	}

	if category := ctx.Query("category"); category != "" {
		query = query.Where("category = ?", category)
	}

	var files []models.ProjectFile

	if err := query.Order("created_at DESC").Find(&files).Error; err != nil {
		log.Printf("Failed to list files: %v", err)
		ctx.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to retrieve files"})
		return
	}

	ctx.JSON(http.StatusOK, files)
}

func CreateFileVersion(ctx *gin.Context) {
	fileID, err := utils.GetIDParam(ctx, "file_id")

	if err != nil {
		ctx.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	var body CreateFileVersionRequest

	if err := ctx.BindJSON(&body); err != nil {
		ctx.JSON(http.StatusBadRequest, gin.H{"error": "Invalid request"})
		return
	}

	version, err := services.CreateFileVersion(fileID, body.FilePath, body.FileSize, body.Description)

	if err != nil {
		switch {
		case errors.Is(err, services.ErrFileVersionOutdated):
			ctx.JSON(http.StatusConflict, gin.H{"error": "Only the current version can be superseded"})
		case errors.Is(err, gorm.ErrRecordNotFound):
			ctx.JSON(http.StatusNotFound, gin.H{"error": "File not found"})
		default:
			log.Printf("Failed to create file version: %v", err)
			ctx.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to create file version"})
		}
		return
	}

	ctx.JSON(http.StatusCreated, version)
}

func DownloadProjectFile(ctx *gin.Context) {
	fileID, err := utils.GetIDParam(ctx, "file_id")

	if err != nil {
		ctx.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	file, err := services.IncrementFileDownload(fileID)

	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			ctx.JSON(http.StatusNotFound, gin.H{"error": "File not found"})
			return
		}
		log.Printf("Failed to record file download: %v", err)
		ctx.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to record download"})
		return
	}

	ctx.JSON(http.StatusOK, file)
}
