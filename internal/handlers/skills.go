package handlers

import (
	"log"
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/skillforge-dev/skillforge/db"
	"github.com/skillforge-dev/skillforge/internal/models"
)

type CreateSkillRequest struct {
	Name        string `json:"name" binding:"required"`
	Description string `json:"description"`
	CategoryID  uint   `json:"category_id" binding:"required"`
}

type CreateSkillCategoryRequest struct {
	Name string `json:"name" binding:"required"`
}

type CreateCategoryRequest struct {
	Name        string `json:"name" binding:"required"`
	Description string `json:"description"`
	ParentID    *uint  `json:"parent_id"`
}

func ListSkills(ctx *gin.Context) {
	var skills []models.Skill

	query := db.DB.Preload("Category")

	if categoryID := ctx.Query("category_id"); categoryID != "" {
		query = query.Where("category_id = ?", categoryID)
	}

	if err := query.Find(&skills).Error; err != nil {
		log.Printf("Failed to list skills: %v", err)
		ctx.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to retrieve skills"})
		return
	}

	ctx.JSON(http.StatusOK, skills)
}

func CreateSkill(ctx *gin.Context) {
	var body CreateSkillRequest

	if err := ctx.BindJSON(&body); err != nil {
		ctx.JSON(http.StatusBadRequest, gin.H{"error": "Invalid request"})
		return
	}

	skill := models.Skill{
		Name:        body.Name,
		Description: body.Description,
		CategoryID:  body.CategoryID,
	}

	if err := db.DB.Create(&skill).Error; err != nil {
		log.Printf("Failed to create skill: %v", err)
		ctx.JSON(http.StatusBadRequest, gin.H{"error": "Failed to create skill"})
		return
	}

	ctx.JSON(http.StatusCreated, skill)
}

func ListSkillCategories(ctx *gin.Context) {
	var categories []models.SkillCategory

	if err := db.DB.Preload("Skills").Find(&categories).Error; err != nil {
		log.Printf("Failed to list skill categories: %v", err)
		ctx.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to retrieve skill categories"})
		return
	}

	ctx.JSON(http.StatusOK, categories)
}

func CreateSkillCategory(ctx *gin.Context) {
	var body CreateSkillCategoryRequest

	if err := ctx.BindJSON(&body); err != nil {
		ctx.JSON(http.StatusBadRequest, gin.H{"error": "Invalid request"})
		return
	}

	category := models.SkillCategory{Name: body.Name}

	if err := db.DB.Create(&category).Error; err != nil {
		log.Printf("Failed to create skill category: %v", err)
		ctx.JSON(http.StatusBadRequest, gin.H{"error": "Failed to create skill category"})
		return
	}

	ctx.JSON(http.StatusCreated, category)
}

func ListCategories(ctx *gin.Context) {
	var categories []models.Category

	if err := db.DB.Preload("SubCategories").Where("parent_id IS NULL").Find(&categories).Error; err != nil {
		log.Printf("Failed to list categories: %v", err)
		ctx.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to retrieve categories"})
		return
	}

	ctx.JSON(http.StatusOK, categories)
}

func CreateCategory(ctx *gin.Context) {
	var body CreateCategoryRequest

	if err := ctx.BindJSON(&body); err != nil {
		ctx.JSON(http.StatusBadRequest, gin.H{"error": "Invalid request"})
		return
	}

	category := models.Category{
		Name:        body.Name,
		Description: body.Description,
		ParentID:    body.ParentID,
	}

	if err := db.DB.Create(&category).Error; err != nil {
		log.Printf("Failed to create category: %v", err)
		ctx.JSON(http.StatusBadRequest, gin.H{"error": "Failed to create category"})
		return
	}

	ctx.JSON(http.StatusCreated, category)
}
