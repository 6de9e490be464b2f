package services

import (
	"errors"
	"time"

	"github.com/skillforge-dev/skillforge/db"
	"github.com/skillforge-dev/skillforge/internal/models"
	"github.com/skillforge-dev/skillforge/internal/types"
	"gorm.io/gorm"
)

// Enroll registers a student on a course and bumps its student counter.
func Enroll(studentID uint, courseID uint, amountPaid float64) (models.Enrollment, error) {
	var enrollment models.Enrollment

	err := db.DB.Transaction(func(tx *gorm.DB) error {
		var course models.Course

		if err := tx.First(&course, courseID).Error; err != nil {
			return err
		}

		var existing models.Enrollment

		err := tx.Where("student_id = ? AND course_id = ?", studentID, courseID).First(&existing).Error

		if err == nil {
			return ErrAlreadyEnrolled
		}

		if !errors.Is(err, gorm.ErrRecordNotFound) {
			return err
		}

		enrollment = models.Enrollment{
			StudentID:  studentID,
			CourseID:   courseID,
			AmountPaid: amountPaid,
		}

		if course.IsFree {
			enrollment.PaymentStatus = types.PaymentCompleted
			now := time.Now()
			enrollment.PaymentDate = &now
		} else {
			enrollment.PaymentStatus = types.PaymentPending
		}

		if err := tx.Create(&enrollment).Error; err != nil {
			return err
		}

		return tx.Model(&course).UpdateColumn("students_count", gorm.Expr("students_count + 1")).Error
	})

	return enrollment, err
}

// RecordLessonCompletion marks a lesson complete for an enrollment and
// recomputes the enrollment's progress. Re-recording the same lesson is a
// no-op thanks to the (enrollment, lesson) uniqueness.
func RecordLessonCompletion(enrollmentID uint, lessonID uint, timeSpentMinutes uint, notes string) (models.LessonCompletion, error) {
	var completion models.LessonCompletion

	err := db.DB.Transaction(func(tx *gorm.DB) error {
		var enrollment models.Enrollment

		if err := tx.First(&enrollment, enrollmentID).Error; err != nil {
			return err
		}

		var lesson models.Lesson

		if err := tx.Preload("Module").First(&lesson, lessonID).Error; err != nil {
			return err
		}

		if lesson.Module.CourseID != enrollment.CourseID {
			return ErrLessonNotInCourse
		}

		result := tx.Where("enrollment_id = ? AND lesson_id = ?", enrollmentID, lessonID).
			Attrs(models.LessonCompletion{
				CompletedAt:      time.Now(),
				TimeSpentMinutes: timeSpentMinutes,
				Notes:            notes,
			}).
			FirstOrCreate(&completion, models.LessonCompletion{
				EnrollmentID: enrollmentID,
				LessonID:     lessonID,
			})

		if result.Error != nil {
			return result.Error
		}

		return recomputeEnrollmentProgress(tx, &enrollment)
	})

	return completion, err
}

// recomputeEnrollmentProgress derives progress from completed vs total lessons.
// A course with no lessons keeps the enrollment at its current progress; the
// formula is undefined there and the enrollment never self-completes.
func recomputeEnrollmentProgress(tx *gorm.DB, enrollment *models.Enrollment) error {
	var totalLessons int64

	err := tx.Model(&models.Lesson{}).
		Joins("JOIN modules ON modules.id = lessons.module_id").
		Where("modules.course_id = ? AND modules.deleted_at IS NULL", enrollment.CourseID).
		Count(&totalLessons).Error

	if err != nil {
		return err
	}

	if totalLessons == 0 {
		return nil
	}

	var completedLessons int64

	err = tx.Model(&models.LessonCompletion{}).
		Where("enrollment_id = ?", enrollment.ID).
		Count(&completedLessons).Error

	if err != nil {
		return err
	}

	enrollment.Progress = float64(completedLessons) / float64(totalLessons) * 100

	if enrollment.Progress >= 100 && enrollment.CompletedAt == nil {
		now := time.Now()
		enrollment.CompletedAt = &now

		var course models.Course

		if err := tx.First(&course, enrollment.CourseID).Error; err != nil {
			return err
		}

		if course.IsCertified && !enrollment.CertificateIssued {
			enrollment.CertificateIssued = true
			enrollment.CertificateIssuedAt = &now
		}
	}

	return tx.Save(enrollment).Error
}

// SubmitReview attaches the single allowed review to an enrollment.
func SubmitReview(enrollmentID uint, rating uint, title string, comment string) (models.CourseReview, error) {
	var review models.CourseReview

	err := db.DB.Transaction(func(tx *gorm.DB) error {
		var enrollment models.Enrollment

		if err := tx.First(&enrollment, enrollmentID).Error; err != nil {
			return err
		}

		var existing models.CourseReview

		err := tx.Where("enrollment_id = ?", enrollmentID).First(&existing).Error

		if err == nil {
			return ErrAlreadyReviewed
		}

		if !errors.Is(err, gorm.ErrRecordNotFound) {
			return err
		}

		review = models.CourseReview{
			EnrollmentID: enrollmentID,
			Rating:       rating,
			Title:        title,
			Comment:      comment,
		}

		return tx.Create(&review).Error
	})

	return review, err
}

// ApproveReview publishes a review and recomputes the course rating average
// over approved reviews. Re-approving is a no-op.
func ApproveReview(reviewID uint) (models.CourseReview, error) {
	var review models.CourseReview

	err := db.DB.Transaction(func(tx *gorm.DB) error {
		if err := tx.Preload("Enrollment").First(&review, reviewID).Error; err != nil {
			return err
		}

		if !review.IsApproved {
			review.IsApproved = true

			if err := tx.Save(&review).Error; err != nil {
				return err
			}
		}

		return recomputeCourseRating(tx, review.Enrollment.CourseID)
	})

	return review, err
}

func recomputeCourseRating(tx *gorm.DB, courseID uint) error {
	var course models.Course

	if err := tx.First(&course, courseID).Error; err != nil {
		return err
	}

	type ratingAggregate struct {
		Average *float64
		Total   int64
	}

	var agg ratingAggregate

	err := tx.Model(&models.CourseReview{}).
		Joins("JOIN enrollments ON enrollments.id = course_reviews.enrollment_id").
		Where("enrollments.course_id = ? AND course_reviews.is_approved = ?", courseID, true).
		Select("AVG(course_reviews.rating) AS average, COUNT(*) AS total").
		Scan(&agg).Error

	if err != nil {
		return err
	}

	if agg.Average == nil {
		return nil
	}

	course.AverageRating = *agg.Average
	course.ReviewCount = uint(agg.Total)

	return tx.Save(&course).Error
}

// IncrementResourceDownload bumps the download counter for a course resource.
func IncrementResourceDownload(resourceID uint) (models.Resource, error) {
	var resource models.Resource

	if err := db.DB.First(&resource, resourceID).Error; err != nil {
		return resource, err
	}

	err := db.DB.Model(&resource).UpdateColumn("download_count", gorm.Expr("download_count + 1")).Error

	if err != nil {
		return resource, err
	}

	resource.DownloadCount++

	return resource, nil
}
