package handlers

import (
	"errors"
	"log"
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/skillforge-dev/skillforge/db"
	"github.com/skillforge-dev/skillforge/internal/models"
	"github.com/skillforge-dev/skillforge/internal/types"
	"github.com/skillforge-dev/skillforge/internal/utils"
	"gorm.io/gorm"
)

type CreateCourseRequest struct {
	Title            string   `json:"title" binding:"required,max=150"`
	Description      string   `json:"description"`
	ShortDescription string   `json:"short_description" binding:"required,max=300"`
	CategoryID       *uint    `json:"category_id"`
	SkillIDs         []uint   `json:"skill_ids"`
	PreviewVideo     string   `json:"preview_video" binding:"omitempty,url"`
	Level            string   `json:"level" binding:"omitempty,oneof=beginner intermediate advanced"`
	DurationHours    float64  `json:"duration_hours" binding:"gte=0"`
	Price            float64  `json:"price" binding:"gte=0"`
	IsFree           bool     `json:"is_free"`
	DiscountPrice    *float64 `json:"discount_price" binding:"omitempty,gte=0"`
	IsCertified      bool     `json:"is_certified"`
}

type CreateModuleRequest struct {
	Title       string `json:"title" binding:"required,max=200"`
	Description string `json:"description"`
	Order       uint   `json:"order"`
}

type CreateLessonRequest struct {
	Title           string `json:"title" binding:"required,max=200"`
	Description     string `json:"description"`
	LessonType      string `json:"lesson_type" binding:"omitempty,oneof=video article quiz assignment"`
	VideoURL        string `json:"video_url" binding:"omitempty,url"`
	ArticleContent  string `json:"article_content"`
	AttachmentPath  string `json:"attachment_path"`
	DurationMinutes uint   `json:"duration_minutes"`
	Order           uint   `json:"order"`
	IsPreview       bool   `json:"is_preview"`
}

type CreateResourceRequest struct {
	Title        string `json:"title" binding:"required,max=200"`
	Description  string `json:"description"`
	ResourceType string `json:"resource_type" binding:"omitempty,oneof=template ebook cheatsheet code tool other"`
	FilePath     string `json:"file_path" binding:"required"`
	FileSize     uint   `json:"file_size"`
	IsFree       bool   `json:"is_free"`
}

func ListCourses(ctx *gin.Context) {
	var courses []models.Course

	query := db.DB.Preload("SkillsCovered").Preload("Category").Order("created_at DESC")

	// Unauthenticated listings only show published courses.
	if _, err := utils.GetCurrentUser(ctx); err != nil {
		query = query.Where("status = ?", types.CoursePublished)
	} else if status := ctx.Query("status"); status != "" {
		query = query.Where("status = ?", status)
	}

	if err := query.Find(&courses).Error; err != nil {
		log.Printf("Failed to list courses: %v", err)
		ctx.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to retrieve courses"})
		return
	}

	ctx.JSON(http.StatusOK, courses)
}

func GetCourse(ctx *gin.Context) {
	courseID, err := utils.GetIDParam(ctx, "course_id")

	if err != nil {
		ctx.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	var course models.Course

	err = db.DB.Preload("Modules", func(db *gorm.DB) *gorm.DB { return db.Order("modules.order") }).
		Preload("Modules.Lessons", func(db *gorm.DB) *gorm.DB { return db.Order("lessons.order") }).
		Preload("SkillsCovered").
		Preload("Resources").
		First(&course, courseID).Error

	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			ctx.JSON(http.StatusNotFound, gin.H{"error": "Course not found"})
		} else {
			log.Printf("Failed to fetch course: %v", err)
			ctx.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to retrieve course"})
		}
		return
	}

	ctx.JSON(http.StatusOK, gin.H{
		"course":              course,
		"current_price":       course.CurrentPrice(),
		"discount_percentage": course.DiscountPercentage(),
	})
}

func CreateCourse(ctx *gin.Context) {
	userID, err := utils.GetCurrentUserID(ctx)

	if err != nil {
		ctx.JSON(http.StatusUnauthorized, gin.H{"error": "User not authenticated"})
		return
	}

	var body CreateCourseRequest

	if err := ctx.BindJSON(&body); err != nil {
		ctx.JSON(http.StatusBadRequest, gin.H{"error": "Invalid request"})
		return
	}

	level := body.Level

	if level == "" {
		level = types.LevelBeginner
	}

	course := models.Course{
		Title:            body.Title,
		Description:      body.Description,
		ShortDescription: body.ShortDescription,
		MentorID:         userID,
		CategoryID:       body.CategoryID,
		PreviewVideo:     body.PreviewVideo,
		Level:            level,
		DurationHours:    body.DurationHours,
		Price:            body.Price,
		IsFree:           body.IsFree,
		DiscountPrice:    body.DiscountPrice,
		IsCertified:      body.IsCertified,
		Status:           types.CourseDraft,
	}

	if err := db.DB.Create(&course).Error; err != nil {
		log.Printf("Failed to create course: %v", err)
		ctx.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to create course"})
		return
	}

	if len(body.SkillIDs) > 0 {
		var skills []models.Skill

		if err := db.DB.Find(&skills, body.SkillIDs).Error; err == nil {
			if err := db.DB.Model(&course).Association("SkillsCovered").Replace(skills); err != nil {
				log.Printf("Failed to attach skills: %v", err)
			}
		}
	}

	ctx.JSON(http.StatusCreated, course)
}

func PublishCourse(ctx *gin.Context) {
	course, ok := fetchOwnedCourse(ctx)

	if !ok {
		return
	}

	if course.Status == types.CourseArchived {
		ctx.JSON(http.StatusConflict, gin.H{"error": "Archived courses cannot be published"})
		return
	}

	course.Status = types.CoursePublished

	// published_at is stamped by the model hook, only on first publish
	if err := db.DB.Save(&course).Error; err != nil {
		log.Printf("Failed to publish course: %v", err)
		ctx.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to publish course"})
		return
	}

	ctx.JSON(http.StatusOK, course)
}

func ArchiveCourse(ctx *gin.Context) {
	course, ok := fetchOwnedCourse(ctx)

	if !ok {
		return
	}

	course.Status = types.CourseArchived

	if err := db.DB.Save(&course).Error; err != nil {
		log.Printf("Failed to archive course: %v", err)
		ctx.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to archive course"})
		return
	}

	ctx.JSON(http.StatusOK, course)
}

func CreateCourseModule(ctx *gin.Context) {
	course, ok := fetchOwnedCourse(ctx)

	if !ok {
		return
	}

	var body CreateModuleRequest

	if err := ctx.BindJSON(&body); err != nil {
		ctx.JSON(http.StatusBadRequest, gin.H{"error": "Invalid request"})
		return
	}

	module := models.Module{
		CourseID:    course.ID,
		Title:       body.Title,
		Description: body.Description,
		Order:       body.Order,
	}

	if err := db.DB.Create(&module).Error; err != nil {
		log.Printf("Failed to create module: %v", err)
		ctx.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to create module"})
		return
	}

	ctx.JSON(http.StatusCreated, module)
}

func CreateLesson(ctx *gin.Context) {
	course, ok := fetchOwnedCourse(ctx)

	if !ok {
		return
	}

	moduleID, err := utils.GetIDParam(ctx, "module_id")

	if err != nil {
		ctx.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	var module models.Module

	if err := db.DB.Where("id = ? AND course_id = ?", moduleID, course.ID).First(&module).Error; err != nil {
		ctx.JSON(http.StatusNotFound, gin.H{"error": "Module not found"})
		return
	}

	var body CreateLessonRequest

	if err := ctx.BindJSON(&body); err != nil {
		ctx.JSON(http.StatusBadRequest, gin.H{"error": "Invalid request"})
		return
	}

	lessonType := body.LessonType

	if lessonType == "" {
		lessonType = types.LessonArticle
	}

	lesson := models.Lesson{
		ModuleID:        module.ID,
		Title:           body.Title,
		Description:     body.Description,
		LessonType:      lessonType,
		VideoURL:        body.VideoURL,
		ArticleContent:  body.ArticleContent,
		AttachmentPath:  body.AttachmentPath,
		DurationMinutes: body.DurationMinutes,
		Order:           body.Order,
		IsPreview:       body.IsPreview,
	}

	if err := db.DB.Create(&lesson).Error; err != nil {
		log.Printf("Failed to create lesson: %v", err)
		ctx.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to create lesson"})
		return
	}

	ctx.JSON(http.StatusCreated, lesson)
}

func CreateResource(ctx *gin.Context) {
	course, ok := fetchOwnedCourse(ctx)

	if !ok {
		return
	}

	var body CreateResourceRequest

	if err := ctx.BindJSON(&body); err != nil {
		ctx.JSON(http.StatusBadRequest, gin.H{"error": "Invalid request"})
		return
	}

	resourceType := body.ResourceType

	if resourceType == "" {
		resourceType = "other"
	}

	resource := models.Resource{
		Title:        body.Title,
		Description:  body.Description,
		ResourceType: resourceType,
		FilePath:     body.FilePath,
		FileSize:     body.FileSize,
		CourseID:     &course.ID,
		IsFree:       body.IsFree,
	}

	if err := db.DB.Create(&resource).Error; err != nil {
		log.Printf("Failed to create resource: %v", err)
		ctx.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to create resource"})
		return
	}

	ctx.JSON(http.StatusCreated, resource)
}

// fetchOwnedCourse loads the :course_id course when the caller is its mentor
// or a staff user; it writes the error response itself on failure.
func fetchOwnedCourse(ctx *gin.Context) (models.Course, bool) {
	var course models.Course

	currentUser, err := utils.GetCurrentUser(ctx)

	if err != nil {
		ctx.JSON(http.StatusUnauthorized, gin.H{"error": "User not authenticated"})
		return course, false
	}

	courseID, err := utils.GetIDParam(ctx, "course_id")

	if err != nil {
		ctx.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return course, false
	}

	if err := db.DB.First(&course, courseID).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			ctx.JSON(http.StatusNotFound, gin.H{"error": "Course not found"})
		} else {
			log.Printf("Failed to fetch course: %v", err)
			ctx.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to retrieve course"})
		}
		return course, false
	}

	if course.MentorID != currentUser.ID && !currentUser.IsStaff {
		ctx.JSON(http.StatusForbidden, gin.H{"error": "Only the course mentor can modify this course"})
		return course, false
	}

	return course, true
}
