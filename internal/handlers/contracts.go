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
	"github.com/skillforge-dev/skillforge/internal/utils"
	"gorm.io/gorm"
)

type AddMilestoneRequest struct {
	Title       string     `json:"title" binding:"required,max=200"`
	Description string     `json:"description"`
	Amount      float64    `json:"amount" binding:"required,gt=0"`
	DueDate     *time.Time `json:"due_date"`
}

type TransitionMilestoneRequest struct {
	Status string `json:"status" binding:"required,oneof=in_progress completed approved paid"`
}

func ListContracts(ctx *gin.Context) {
	var contracts []models.Contract

	query := db.DB.Preload("Milestones")

	if status := ctx.Query("status"); status != "" {
		query = query.Where("status = ?", status)
	}

	if err := query.Order("created_at DESC").Find(&contracts).Error; err != nil {
		log.Printf("Failed to list contracts: %v", err)
		ctx.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to retrieve contracts"})
		return
	}

	ctx.JSON(http.StatusOK, contracts)
}

func GetContract(ctx *gin.Context) {
	contractID, err := utils.GetIDParam(ctx, "contract_id")

	if err != nil {
		ctx.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	var contract models.Contract

	err = db.DB.Preload("Milestones", func(db *gorm.DB) *gorm.DB { return db.Order("milestones.created_at") }).
		Preload("Job").Preload("Proposal").
		First(&contract, contractID).Error

	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			ctx.JSON(http.StatusNotFound, gin.H{"error": "Contract not found"})
		} else {
			log.Printf("Failed to fetch contract: %v", err)
			ctx.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to retrieve contract"})
		}
		return
	}

	ctx.JSON(http.StatusOK, gin.H{
		"contract":      contract,
		"duration_days": contract.DurationDays(),
	})
}

func ActivateContract(ctx *gin.Context) {
	respondContractTransition(ctx, services.ActivateContract)
}

func CompleteContract(ctx *gin.Context) {
	respondContractTransition(ctx, services.CompleteContract)
}

func CancelContract(ctx *gin.Context) {
	respondContractTransition(ctx, services.CancelContract)
}

func DisputeContract(ctx *gin.Context) {
	respondContractTransition(ctx, services.DisputeContract)
}

func respondContractTransition(ctx *gin.Context, transition func(uint) (models.Contract, error)) {
	contractID, err := utils.GetIDParam(ctx, "contract_id")

	if err != nil {
		ctx.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	contract, err := transition(contractID)

	if err != nil {
		switch {
		case errors.Is(err, services.ErrContractClosed):
			ctx.JSON(http.StatusConflict, gin.H{"error": "Contract is not in a valid state for this transition"})
		case errors.Is(err, gorm.ErrRecordNotFound):
			ctx.JSON(http.StatusNotFound, gin.H{"error": "Contract not found"})
		default:
			log.Printf("Failed to transition contract: %v", err)
			ctx.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to update contract"})
		}
		return
	}

	ctx.JSON(http.StatusOK, contract)
}

func AddMilestone(ctx *gin.Context) {
	contractID, err := utils.GetIDParam(ctx, "contract_id")

	if err != nil {
		ctx.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	var body AddMilestoneRequest

	if err := ctx.BindJSON(&body); err != nil {
		ctx.JSON(http.StatusBadRequest, gin.H{"error": "Invalid request"})
		return
	}

	milestone, err := services.AddMilestone(contractID, body.Title, body.Description, body.Amount, body.DueDate)

	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			ctx.JSON(http.StatusNotFound, gin.H{"error": "Contract not found"})
			return
		}
		log.Printf("Failed to add milestone: %v", err)
		ctx.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to add milestone"})
		return
	}

	ctx.JSON(http.StatusCreated, milestone)
}

func TransitionMilestone(ctx *gin.Context) {
	milestoneID, err := utils.GetIDParam(ctx, "milestone_id")

	if err != nil {
		ctx.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	var body TransitionMilestoneRequest

	if err := ctx.BindJSON(&body); err != nil {
		ctx.JSON(http.StatusBadRequest, gin.H{"error": "Invalid request"})
		return
	}

	milestone, err := services.TransitionMilestone(milestoneID, body.Status)

	if err != nil {
		switch {
		case errors.Is(err, services.ErrMilestoneTransition):
			ctx.JSON(http.StatusConflict, gin.H{"error": "Milestones only move one step forward"})
		case errors.Is(err, gorm.ErrRecordNotFound):
			ctx.JSON(http.StatusNotFound, gin.H{"error": "Milestone not found"})
		default:
			log.Printf("Failed to transition milestone: %v", err)
			ctx.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to update milestone"})
		}
		return
	}

	ctx.JSON(http.StatusOK, milestone)
}
