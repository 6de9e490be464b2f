package db

import (
	"github.com/skillforge-dev/skillforge/internal/models"
	"gorm.io/driver/postgres"
	"gorm.io/gorm"
)

var DB *gorm.DB

func ConnectDatabase(dsn string) error {
	var err error

	DB, err = gorm.Open(postgres.Open(dsn), &gorm.Config{TranslateError: true})

	if err != nil {
		return err
	}

	return nil
}

func MigrateDatabase() error {
	models := []interface{}{
		&models.User{},
		&models.UserProfile{},
		&models.PasswordResetCode{},
		&models.SkillCategory{},
		&models.Skill{},
		&models.Category{},
		&models.Course{},
		&models.Module{},
		&models.Lesson{},
		&models.Enrollment{},
		&models.LessonCompletion{},
		&models.CourseReview{},
		&models.Resource{},
		&models.Project{},
		&models.ProjectRole{},
		&models.ProjectMember{},
		&models.ProjectInvitation{},
		&models.Task{},
		&models.ProjectFile{},
		&models.JobPosting{},
		&models.Proposal{},
		&models.Contract{},
		&models.Milestone{},
		&models.PortfolioItem{},
		&models.PortfolioImage{},
	}

	return DB.AutoMigrate(models...)
}
