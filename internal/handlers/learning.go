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

type EnrollRequest struct {
	CourseID   uint    `json:"course_id" binding:"required"`
	AmountPaid float64 `json:"amount_paid" binding:"gte=0"`
}

type CompleteLessonRequest struct {
	LessonID         uint   `json:"lesson_id" binding:"required"`
	TimeSpentMinutes uint   `json:"time_spent_minutes"`
	Notes            string `json:"notes"`
}

type SubmitReviewRequest struct {
	Rating  uint   `json:"rating" binding:"required,min=1,max=5"`
	Title   string `json:"title" binding:"max=200"`
	Comment string `json:"comment"`
}

func Enroll(ctx *gin.Context) {
	userID, err := utils.GetCurrentUserID(ctx)

	if err != nil {
		ctx.JSON(http.StatusUnauthorized, gin.H{"error": "User not authenticated"})
		return
	}

	var body EnrollRequest

	if err := ctx.BindJSON(&body); err != nil {
		ctx.JSON(http.StatusBadRequest, gin.H{"error": "Invalid request"})
		return
	}

	enrollment, err := services.Enroll(userID, body.CourseID, body.AmountPaid)

	if err != nil {
		switch {
		case errors.Is(err, services.ErrAlreadyEnrolled):
			ctx.JSON(http.StatusConflict, gin.H{"error": "Already enrolled in this course"})
		case errors.Is(err, gorm.ErrRecordNotFound):
			ctx.JSON(http.StatusNotFound, gin.H{"error": "Course not found"})
		default:
			log.Printf("Failed to enroll: %v", err)
			ctx.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to enroll"})
		}
		return
	}

	ctx.JSON(http.StatusCreated, enrollment)
}

func ListEnrollments(ctx *gin.Context) {
	userID, err := utils.GetCurrentUserID(ctx)

	if err != nil {
		ctx.JSON(http.StatusUnauthorized, gin.H{"error": "User not authenticated"})
		return
	}

	var enrollments []models.Enrollment

	err = db.DB.Preload("Course").Preload("LessonCompletions").
		Where("student_id = ?", userID).
		Find(&enrollments).Error

	if err != nil {
		log.Printf("Failed to list enrollments: %v", err)
		ctx.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to retrieve enrollments"})
		return
	}

	ctx.JSON(http.StatusOK, enrollments)
}

func CompleteLesson(ctx *gin.Context) {
	enrollment, ok := fetchOwnEnrollment(ctx)

	if !ok {
		return
	}

	var body CompleteLessonRequest

	if err := ctx.BindJSON(&body); err != nil {
		ctx.JSON(http.StatusBadRequest, gin.H{"error": "Invalid request"})
		return
	}

	completion, err := services.RecordLessonCompletion(enrollment.ID, body.LessonID, body.TimeSpentMinutes, body.Notes)

	if err != nil {
		switch {
		case errors.Is(err, services.ErrLessonNotInCourse):
			ctx.JSON(http.StatusBadRequest, gin.H{"error": "Lesson does not belong to the enrolled course"})
		case errors.Is(err, gorm.ErrRecordNotFound):
			ctx.JSON(http.StatusNotFound, gin.H{"error": "Lesson not found"})
		default:
			log.Printf("Failed to record lesson completion: %v", err)
			ctx.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to record completion"})
		}
		return
	}

	// Return the refreshed enrollment so clients see the new progress.
	if err := db.DB.First(&enrollment, enrollment.ID).Error; err != nil {
		log.Printf("Failed to refresh enrollment: %v", err)
		ctx.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to refresh enrollment"})
		return
	}

	ctx.JSON(http.StatusCreated, gin.H{
		"completion": completion,
		"enrollment": enrollment,
	})
}

func SubmitCourseReview(ctx *gin.Context) {
	enrollment, ok := fetchOwnEnrollment(ctx)

	if !ok {
		return
	}

	var body SubmitReviewRequest

	if err := ctx.BindJSON(&body); err != nil {
		ctx.JSON(http.StatusBadRequest, gin.H{"error": "Invalid request"})
		return
	}

	review, err := services.SubmitReview(enrollment.ID, body.Rating, body.Title, body.Comment)

	if err != nil {
		if errors.Is(err, services.ErrAlreadyReviewed) {
			ctx.JSON(http.StatusConflict, gin.H{"error": "Enrollment already has a review"})
			return
		}
		log.Printf("Failed to submit review: %v", err)
		ctx.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to submit review"})
		return
	}

	ctx.JSON(http.StatusCreated, review)
}

func ApproveCourseReview(ctx *gin.Context) {
	reviewID, err := utils.GetIDParam(ctx, "review_id")

	if err != nil {
		ctx.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	review, err := services.ApproveReview(reviewID)

	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			ctx.JSON(http.StatusNotFound, gin.H{"error": "Review not found"})
			return
		}
		log.Printf("Failed to approve review: %v", err)
		ctx.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to approve review"})
		return
	}

	ctx.JSON(http.StatusOK, review)
}

func ListCourseReviews(ctx *gin.Context) {
	courseID, err := utils.GetIDParam(ctx, "course_id")

	if err != nil {
		ctx.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	var reviews []models.CourseReview

	err = db.DB.Joins("JOIN enrollments ON enrollments.id = course_reviews.enrollment_id").
		Where("enrollments.course_id = ? AND course_reviews.is_approved = ?", courseID, true).
		Find(&reviews).Error

	if err != nil {
		log.Printf("Failed to list reviews: %v", err)
		ctx.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to retrieve reviews"})
		return
	}

	ctx.JSON(http.StatusOK, reviews)
}

func DownloadResource(ctx *gin.Context) {
	resourceID, err := utils.GetIDParam(ctx, "resource_id")

	if err != nil {
		ctx.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	resource, err := services.IncrementResourceDownload(resourceID)

	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			ctx.JSON(http.StatusNotFound, gin.H{"error": "Resource not found"})
			return
		}
		log.Printf("Failed to record download: %v", err)
		ctx.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to record download"})
		return
	}

	ctx.JSON(http.StatusOK, resource)
}

// fetchOwnEnrollment loads the :enrollment_id enrollment owned by the caller;
// it writes the error response itself on failure.
func fetchOwnEnrollment(ctx *gin.Context) (models.Enrollment, bool) {
	var enrollment models.Enrollment

	userID, err := utils.GetCurrentUserID(ctx)

	if err != nil {
		ctx.JSON(http.StatusUnauthorized, gin.H{"error": "User not authenticated"})
		return enrollment, false
	}

	enrollmentID, err := utils.GetIDParam(ctx, "enrollment_id")

	if err != nil {
		ctx.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return enrollment, false
	}

	if err := db.DB.Where("id = ? AND student_id = ?", enrollmentID, userID).First(&enrollment).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			ctx.JSON(http.StatusNotFound, gin.H{"error": "Enrollment not found"})
		} else {
			log.Printf("Failed to fetch enrollment: %v", err)
			ctx.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to retrieve enrollment"})
		}
		return enrollment, false
	}

	return enrollment, true
}
