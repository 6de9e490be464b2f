package services

import (
	"fmt"
	"testing"
	"time"

	"github.com/glebarez/sqlite"
	"github.com/skillforge-dev/skillforge/db"
	"github.com/skillforge-dev/skillforge/internal/models"
	"github.com/skillforge-dev/skillforge/internal/types"
	"github.com/stretchr/testify/require"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"
)

func setupTestDB(t *testing.T) {
	t.Helper()

	conn, err := gorm.Open(sqlite.Open(":memory:"), &gorm.Config{
		Logger:         logger.Default.LogMode(logger.Silent),
		TranslateError: true,
	})
	require.NoError(t, err)

	db.DB = conn
	require.NoError(t, db.MigrateDatabase())
}

var userSeq int

func createTestUser(t *testing.T, role string) models.User {
	t.Helper()

	userSeq++
	user := models.User{
		Email:        fmt.Sprintf("user%d@example.com", userSeq),
		PasswordHash: "not-a-real-hash",
		FirstName:    "Test",
		LastName:     fmt.Sprintf("User%d", userSeq),
		Role:         role,
		IsActive:     true,
	}
	require.NoError(t, db.DB.Create(&user).Error)

	return user
}

// createTestCourse builds a published course with one module holding the given
// number of lessons.
func createTestCourse(t *testing.T, mentorID uint, lessons int) (models.Course, []models.Lesson) {
	t.Helper()

	course := models.Course{
		Title:            "Practical Backend Engineering",
		ShortDescription: "APIs from scratch",
		MentorID:         mentorID,
		Level:            types.LevelBeginner,
		Status:           types.CoursePublished,
		IsFree:           true,
		IsCertified:      true,
	}
	require.NoError(t, db.DB.Create(&course).Error)

	if lessons == 0 {
		return course, nil
	}

	module := models.Module{CourseID: course.ID, Title: "Fundamentals", Order: 1}
	require.NoError(t, db.DB.Create(&module).Error)

	created := make([]models.Lesson, 0, lessons)

	for i := 0; i < lessons; i++ {
		lesson := models.Lesson{
			ModuleID:   module.ID,
			Title:      fmt.Sprintf("Lesson %d", i+1),
			LessonType: types.LessonArticle,
			Order:      uint(i + 1),
		}
		require.NoError(t, db.DB.Create(&lesson).Error)
		created = append(created, lesson)
	}

	return course, created
}

func createTestProject(t *testing.T, creatorID uint) models.Project {
	t.Helper()

	project := models.Project{
		Title:       "Platform Rewrite",
		Description: "Rebuild the legacy platform",
		ProjectType: types.ProjectInternal,
		Status:      types.ProjectActive,
		Visibility:  types.VisibilityPrivate,
		CreatedByID: &creatorID,
		MaxMembers:  20,
	}
	require.NoError(t, db.DB.Create(&project).Error)

	return project
}

func createTestMember(t *testing.T, projectID uint, userID uint) models.ProjectMember {
	t.Helper()

	now := time.Now()
	member := models.ProjectMember{
		ProjectID:  projectID,
		UserID:     userID,
		IsApproved: true,
		ApprovedAt: &now,
		JoinedAt:   &now,
	}
	require.NoError(t, db.DB.Create(&member).Error)

	return member
}

func createTestJob(t *testing.T, clientID uint, deadline *time.Time) models.JobPosting {
	t.Helper()

	job := models.JobPosting{
		ClientID:            clientID,
		Title:               "Build a billing service",
		Description:         "Subscription billing with invoicing",
		JobType:             types.JobFreelance,
		ExperienceLevel:     types.ExperienceMid,
		BudgetType:          types.BudgetFixed,
		Status:              types.JobPublished,
		ApplicationDeadline: deadline,
	}
	require.NoError(t, db.DB.Create(&job).Error)

	return job
}
