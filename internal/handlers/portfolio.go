package handlers

import (
	"errors"
	"log"
	"net/http"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/skillforge-dev/skillforge/db"
	"github.com/skillforge-dev/skillforge/internal/models"
	"github.com/skillforge-dev/skillforge/internal/types"
	"github.com/skillforge-dev/skillforge/internal/utils"
	"gorm.io/gorm"
)

type CreatePortfolioItemRequest struct {
	Title         string     `json:"title" binding:"required,max=200"`
	Description   string     `json:"description" binding:"required"`
	ProjectType   string     `json:"project_type" binding:"omitempty,oneof=web mobile design marketing video writing other"`
	ProjectStatus string     `json:"project_status" binding:"omitempty,oneof=completed in_progress not_started"`
	Visibility    string     `json:"visibility" binding:"omitempty,oneof=public private link_only"`
	Technologies  string     `json:"technologies"`
	ClientName    string     `json:"client_name"`
	ProjectURL    string     `json:"project_url" binding:"omitempty,url"`
	GithubURL     string     `json:"github_url" binding:"omitempty,url"`
	StartDate     *time.Time `json:"start_date"`
	EndDate       *time.Time `json:"end_date"`
	SkillIDs      []uint     `json:"skill_ids"`
}

type AddPortfolioImageRequest struct {
	ImagePath string `json:"image_path" binding:"required"`
	Caption   string `json:"caption"`
	IsPrimary bool   `json:"is_primary"`
}

func ListPortfolioItems(ctx *gin.Context) {
	ownerID, err := utils.GetIDParam(ctx, "user_id")

	if err != nil {
		ctx.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	query := db.DB.Preload("Skills").Preload("Images").
		Where("owner_id = ?", ownerID)

	// Private items are only visible to their owner.
	currentUser, err := utils.GetCurrentUser(ctx)

	if err != nil || (currentUser.ID != ownerID && !currentUser.IsStaff) {
		query = query.Where("visibility = ?", types.VisibilityPublic)
	}

	var items []models.PortfolioItem

	if err := query.Order("is_featured DESC, created_at DESC").Find(&items).Error; err != nil {
		log.Printf("Failed to list portfolio items: %v", err)
		ctx.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to retrieve portfolio items"})
		return
	}

	ctx.JSON(http.StatusOK, items)
}

func GetPortfolioItem(ctx *gin.Context) {
	itemID, err := utils.GetIDParam(ctx, "item_id")

	if err != nil {
		ctx.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	var item models.PortfolioItem

	err = db.DB.Preload("Skills").Preload("Images").Preload("Owner").
		First(&item, itemID).Error

	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			ctx.JSON(http.StatusNotFound, gin.H{"error": "Portfolio item not found"})
		} else {
			log.Printf("Failed to fetch portfolio item: %v", err)
			ctx.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to retrieve portfolio item"})
		}
		return
	}

	currentUser, userErr := utils.GetCurrentUser(ctx)
	isOwner := userErr == nil && (currentUser.ID == item.OwnerID || currentUser.IsStaff)

	if !item.IsVisible() && !isOwner {
		ctx.JSON(http.StatusNotFound, gin.H{"error": "Portfolio item not found"})
		return
	}

	// Owner views do not inflate the counter.
	if !isOwner {
		err := db.DB.Model(&item).UpdateColumn("views_count", gorm.Expr("views_count + 1")).Error

		if err != nil {
			log.Printf("Failed to record portfolio view: %v", err)
		} else {
			item.ViewsCount++
		}
	}

	ctx.JSON(http.StatusOK, item)
}

func CreatePortfolioItem(ctx *gin.Context) {
	userID, err := utils.GetCurrentUserID(ctx)

	if err != nil {
		ctx.JSON(http.StatusUnauthorized, gin.H{"error": "User not authenticated"})
		return
	}

	var body CreatePortfolioItemRequest

	if err := ctx.BindJSON(&body); err != nil {
		ctx.JSON(http.StatusBadRequest, gin.H{"error": "Invalid request"})
		return
	}

	projectType := body.ProjectType

	if projectType == "" {
		projectType = "other"
	}

	projectStatus := body.ProjectStatus

	if projectStatus == "" {
		projectStatus = types.PortfolioInProgress
	}

	visibility := body.Visibility

	if visibility == "" {
		visibility = types.VisibilityPublic
	}

	item := models.PortfolioItem{
		OwnerID:       userID,
		Title:         body.Title,
		Description:   body.Description,
		ProjectType:   projectType,
		ProjectStatus: projectStatus,
		Visibility:    visibility,
		Technologies:  body.Technologies,
		ClientName:    body.ClientName,
		ProjectURL:    body.ProjectURL,
		GithubURL:     body.GithubURL,
		StartDate:     body.StartDate,
		EndDate:       body.EndDate,
	}

	if err := db.DB.Create(&item).Error; err != nil {
		log.Printf("Failed to create portfolio item: %v", err)
		ctx.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to create portfolio item"})
		return
	}

	if len(body.SkillIDs) > 0 {
		var skills []models.Skill

		if err := db.DB.Find(&skills, body.SkillIDs).Error; err == nil {
			if err := db.DB.Model(&item).Association("Skills").Replace(skills); err != nil {
				log.Printf("Failed to attach skills: %v", err)
			}
		}
	}

	ctx.JSON(http.StatusCreated, item)
}

func DeletePortfolioItem(ctx *gin.Context) {
	item, ok := fetchOwnPortfolioItem(ctx)

	if !ok {
		return
	}

	if err := db.DB.Delete(&item).Error; err != nil {
		log.Printf("Failed to delete portfolio item: %v", err)
		ctx.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to delete portfolio item"})
		return
	}

	ctx.Status(http.StatusNoContent)
}

// AddPortfolioImage appends an image; marking it primary demotes the previous
// primary in the same transaction.
func AddPortfolioImage(ctx *gin.Context) {
	item, ok := fetchOwnPortfolioItem(ctx)

	if !ok {
		return
	}

	var body AddPortfolioImageRequest

	if err := ctx.BindJSON(&body); err != nil {
		ctx.JSON(http.StatusBadRequest, gin.H{"error": "Invalid request"})
		return
	}

	image := models.PortfolioImage{
		PortfolioItemID: item.ID,
		ImagePath:       body.ImagePath,
		Caption:         body.Caption,
		IsPrimary:       body.IsPrimary,
	}

	err := db.DB.Transaction(func(tx *gorm.DB) error {
		if body.IsPrimary {
			err := tx.Model(&models.PortfolioImage{}).
				Where("portfolio_item_id = ? AND is_primary = ?", item.ID, true).
				Update("is_primary", false).Error

			if err != nil {
				return err
			}
		}

		return tx.Create(&image).Error
	})

	if err != nil {
		log.Printf("Failed to add portfolio image: %v", err)
		ctx.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to add image"})
		return
	}

	ctx.JSON(http.StatusCreated, image)
}

// fetchOwnPortfolioItem loads the :item_id item owned by the caller; it writes
// the error response itself on failure.
func fetchOwnPortfolioItem(ctx *gin.Context) (models.PortfolioItem, bool) {
	var item models.PortfolioItem

	currentUser, err := utils.GetCurrentUser(ctx)

	if err != nil {
		ctx.JSON(http.StatusUnauthorized, gin.H{"error": "User not authenticated"})
		return item, false
	}

	itemID, err := utils.GetIDParam(ctx, "item_id")

	if err != nil {
		ctx.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return item, false
	}

	if err := db.DB.First(&item, itemID).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			ctx.JSON(http.StatusNotFound, gin.H{"error": "Portfolio item not found"})
		} else {
			log.Printf("Failed to fetch portfolio item: %v", err)
			ctx.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to retrieve portfolio item"})
		}
		return item, false
	}

	if item.OwnerID != currentUser.ID && !currentUser.IsStaff {
		ctx.JSON(http.StatusForbidden, gin.H{"error": "Only the owner can modify this portfolio item"})
		return item, false
	}

	return item, true
}
