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

type CreateJobRequest struct {
	Title               string     `json:"title" binding:"required,max=200"`
	Description         string     `json:"description" binding:"required"`
	JobType             string     `json:"job_type" binding:"omitempty,oneof=full_time part_time contract freelance internship"`
	ExperienceLevel     string     `json:"experience_level" binding:"omitempty,oneof=entry mid senior expert"`
	Location            string     `json:"location"`
	IsRemote            bool       `json:"is_remote"`
	BudgetType          string     `json:"budget_type" binding:"omitempty,oneof=fixed hourly salary milestone"`
	Budget              *float64   `json:"budget" binding:"omitempty,gte=0"`
	DurationWeeks       *uint      `json:"duration_weeks"`
	ApplicationDeadline *time.Time `json:"application_deadline"`
	IsUrgent            bool       `json:"is_urgent"`
	SkillIDs            []uint     `json:"skill_ids"`
}

type SubmitProposalRequest struct {
	CoverLetter    string  `json:"cover_letter" binding:"required"`
	ProposedAmount float64 `json:"proposed_amount" binding:"required,gt=0"`
	EstimatedDays  uint    `json:"estimated_days" binding:"required,gt=0"`
	AttachmentPath string  `json:"attachment_path"`
}

type RejectProposalRequest struct {
	Note string `json:"note"`
}

func CreateJob(ctx *gin.Context) {
	userID, err := utils.GetCurrentUserID(ctx)

	if err != nil {
		ctx.JSON(http.StatusUnauthorized, gin.H{"error": "User not authenticated"})
		return
	}

	var body CreateJobRequest

	if err := ctx.BindJSON(&body); err != nil {
		ctx.JSON(http.StatusBadRequest, gin.H{"error": "Invalid request"})
		return
	}

	jobType := body.JobType

	if jobType == "" {
		jobType = types.JobFullTime
	}

	experienceLevel := body.ExperienceLevel

	if experienceLevel == "" {
		experienceLevel = types.ExperienceMid
	}

	budgetType := body.BudgetType

	if budgetType == "" {
		budgetType = types.BudgetFixed
	}

	job := models.JobPosting{
		ClientID:            userID,
		Title:               body.Title,
		Description:         body.Description,
		JobType:             jobType,
		ExperienceLevel:     experienceLevel,
		Location:            body.Location,
		IsRemote:            body.IsRemote,
		BudgetType:          budgetType,
		Budget:              body.Budget,
		DurationWeeks:       body.DurationWeeks,
		ApplicationDeadline: body.ApplicationDeadline,
		IsUrgent:            body.IsUrgent,
		Status:              types.JobDraft,
	}

	if err := db.DB.Create(&job).Error; err != nil {
		log.Printf("Failed to create job posting: %v", err)
		ctx.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to create job posting"})
		return
	}

	if len(body.SkillIDs) > 0 {
		var skills []models.Skill

		if err := db.DB.Find(&skills, body.SkillIDs).Error; err == nil {
			if err := db.DB.Model(&job).Association("Skills").Replace(skills); err != nil {
				log.Printf("Failed to attach skills: %v", err)
			}
		}
	}

	ctx.JSON(http.StatusCreated, job)
}

func ListJobs(ctx *gin.Context) {
	query := db.DB.Preload("Skills").Where("status = ?", types.JobPublished)

	if jobType := ctx.Query("job_type"); jobType != "" {
		query = query.Where("job_type = ?", jobType)
	}

	if ctx.Query("remote") != "" {
		query = query.Where("is_remote = ?", true)
	}

	var jobs []models.JobPosting

	if err := query.Order("is_urgent DESC, published_at DESC").Find(&jobs).Error; err != nil {
		log.Printf("Failed to list jobs: %v", err)
		ctx.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to retrieve job postings"})
		return
	}

	ctx.JSON(http.StatusOK, jobs)
}

func GetJob(ctx *gin.Context) {
	jobID, err := utils.GetIDParam(ctx, "job_id")

	if err != nil {
		ctx.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	var job models.JobPosting

	if err := db.DB.Preload("Skills").Preload("Client").First(&job, jobID).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			ctx.JSON(http.StatusNotFound, gin.H{"error": "Job posting not found"})
		} else {
			log.Printf("Failed to fetch job: %v", err)
			ctx.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to retrieve job posting"})
		}
		return
	}

	var proposalCount int64

	if err := db.DB.Model(&models.Proposal{}).Where("job_id = ?", job.ID).Count(&proposalCount).Error; err != nil {
		log.Printf("Failed to count proposals: %v", err)
		ctx.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to retrieve job posting"})
		return
	}

	ctx.JSON(http.StatusOK, gin.H{
		"job":             job,
		"is_active":       job.IsActive(time.Now()),
		"proposals_count": proposalCount,
	})
}

func PublishJob(ctx *gin.Context) {
	job, ok := fetchOwnedJob(ctx)

	if !ok {
		return
	}

	if job.Status == types.JobClosed || job.Status == types.JobFilled {
		ctx.JSON(http.StatusConflict, gin.H{"error": "Closed job postings cannot be published"})
		return
	}

	job.Status = types.JobPublished

	// published_at is stamped by the model hook, only on first publish
	if err := db.DB.Save(&job).Error; err != nil {
		log.Printf("Failed to publish job: %v", err)
		ctx.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to publish job posting"})
		return
	}

	ctx.JSON(http.StatusOK, job)
}

func CloseJob(ctx *gin.Context) {
	job, ok := fetchOwnedJob(ctx)

	if !ok {
		return
	}

	job.Status = types.JobClosed

	if err := db.DB.Save(&job).Error; err != nil {
		log.Printf("Failed to close job: %v", err)
		ctx.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to close job posting"})
		return
	}

	ctx.JSON(http.StatusOK, job)
}

func SubmitProposal(ctx *gin.Context) {
	userID, err := utils.GetCurrentUserID(ctx)

	if err != nil {
		ctx.JSON(http.StatusUnauthorized, gin.H{"error": "User not authenticated"})
		return
	}

	jobID, err := utils.GetIDParam(ctx, "job_id")

	if err != nil {
		ctx.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	var body SubmitProposalRequest

	if err := ctx.BindJSON(&body); err != nil {
		ctx.JSON(http.StatusBadRequest, gin.H{"error": "Invalid request"})
		return
	}

	proposal, err := services.SubmitProposal(services.ProposalInput{
		JobID:          jobID,
		ApplierID:      userID,
		CoverLetter:    body.CoverLetter,
		ProposedAmount: body.ProposedAmount,
		EstimatedDays:  body.EstimatedDays,
		AttachmentPath: body.AttachmentPath,
	})

	if err != nil {
		switch {
		case errors.Is(err, services.ErrJobNotActive):
			ctx.JSON(http.StatusConflict, gin.H{"error": "Job posting is not accepting proposals"})
		case errors.Is(err, services.ErrDuplicateProposal):
			ctx.JSON(http.StatusConflict, gin.H{"error": "You already submitted a proposal for this job"})
		case errors.Is(err, gorm.ErrRecordNotFound):
			ctx.JSON(http.StatusNotFound, gin.H{"error": "Job posting not found"})
		default:
			log.Printf("Failed to submit proposal: %v", err)
			ctx.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to submit proposal"})
		}
		return
	}

	ctx.JSON(http.StatusCreated, proposal)
}

func ListJobProposals(ctx *gin.Context) {
	job, ok := fetchOwnedJob(ctx)

	if !ok {
		return
	}

	var proposals []models.Proposal

	err := db.DB.Preload("Applier").Where("job_id = ?", job.ID).
		Order("created_at").Find(&proposals).Error

	if err != nil {
		log.Printf("Failed to list proposals: %v", err)
		ctx.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to retrieve proposals"})
		return
	}

	ctx.JSON(http.StatusOK, proposals)
}

func ReviewProposal(ctx *gin.Context) {
	respondProposalTransition(ctx, func(id uint) (models.Proposal, error) {
		return services.ReviewProposal(id)
	})
}

func AcceptProposal(ctx *gin.Context) {
	proposalID, err := utils.GetIDParam(ctx, "proposal_id")

	if err != nil {
		ctx.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	contract, err := services.AcceptProposal(proposalID)

	if err != nil {
		switch {
		case errors.Is(err, services.ErrProposalClosed):
			ctx.JSON(http.StatusConflict, gin.H{"error": "Proposal is no longer open"})
		case errors.Is(err, gorm.ErrRecordNotFound):
			ctx.JSON(http.StatusNotFound, gin.H{"error": "Proposal not found"})
		default:
			log.Printf("Failed to accept proposal: %v", err)
			ctx.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to accept proposal"})
		}
		return
	}

	ctx.JSON(http.StatusCreated, contract)
}

func RejectProposal(ctx *gin.Context) {
	proposalID, err := utils.GetIDParam(ctx, "proposal_id")

	if err != nil {
		ctx.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	var body RejectProposalRequest

	// The note is optional, so an empty body is fine.
	_ = ctx.BindJSON(&body)

	proposal, err := services.RejectProposal(proposalID, body.Note)

	if err != nil {
		switch {
		case errors.Is(err, services.ErrProposalClosed):
			ctx.JSON(http.StatusConflict, gin.H{"error": "Proposal is no longer open"})
		case errors.Is(err, gorm.ErrRecordNotFound):
			ctx.JSON(http.StatusNotFound, gin.H{"error": "Proposal not found"})
		default:
			log.Printf("Failed to reject proposal: %v", err)
			ctx.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to reject proposal"})
		}
		return
	}

	ctx.JSON(http.StatusOK, proposal)
}

func WithdrawProposal(ctx *gin.Context) {
	userID, err := utils.GetCurrentUserID(ctx)

	if err != nil {
		ctx.JSON(http.StatusUnauthorized, gin.H{"error": "User not authenticated"})
		return
	}

	proposalID, err := utils.GetIDParam(ctx, "proposal_id")

	if err != nil {
		ctx.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	var proposal models.Proposal

	if err := db.DB.Where("id = ? AND applier_id = ?", proposalID, userID).First(&proposal).Error; err != nil {
		ctx.JSON(http.StatusNotFound, gin.H{"error": "Proposal not found"})
		return
	}

	proposal, err = services.WithdrawProposal(proposal.ID)

	if err != nil {
		if errors.Is(err, services.ErrProposalClosed) {
			ctx.JSON(http.StatusConflict, gin.H{"error": "Proposal is no longer open"})
			return
		}
		log.Printf("Failed to withdraw proposal: %v", err)
		ctx.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to withdraw proposal"})
		return
	}

	ctx.JSON(http.StatusOK, proposal)
}

func respondProposalTransition(ctx *gin.Context, transition func(uint) (models.Proposal, error)) {
	proposalID, err := utils.GetIDParam(ctx, "proposal_id")

	if err != nil {
		ctx.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	proposal, err := transition(proposalID)

	if err != nil {
		switch {
		case errors.Is(err, services.ErrProposalClosed):
			ctx.JSON(http.StatusConflict, gin.H{"error": "Proposal is no longer open"})
		case errors.Is(err, gorm.ErrRecordNotFound):
			ctx.JSON(http.StatusNotFound, gin.H{"error": "Proposal not found"})
		default:
			log.Printf("Failed to transition proposal: %v", err)
			ctx.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to update proposal"})
		}
		return
	}

	ctx.JSON(http.StatusOK, proposal)
}

// fetchOwnedJob loads the :job_id posting when the caller is its client or a
// staff user; it writes the error response itself on failure.
func fetchOwnedJob(ctx *gin.Context) (models.JobPosting, bool) {
	var job models.JobPosting

	currentUser, err := utils.GetCurrentUser(ctx)

	if err != nil {
		ctx.JSON(http.StatusUnauthorized, gin.H{"error": "User not authenticated"})
		return job, false
	}

	jobID, err := utils.GetIDParam(ctx, "job_id")

	if err != nil {
		ctx.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return job, false
	}

	if err := db.DB.First(&job, jobID).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			ctx.JSON(http.StatusNotFound, gin.H{"error": "Job posting not found"})
		} else {
			log.Printf("Failed to fetch job: %v", err)
			ctx.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to retrieve job posting"})
		}
		return job, false
	}

	if job.ClientID != currentUser.ID && !currentUser.IsStaff {
		ctx.JSON(http.StatusForbidden, gin.H{"error": "Only the posting client can manage this job"})
		return job, false
	}

	return job, true
}
