package services

import (
	"testing"

	"github.com/skillforge-dev/skillforge/db"
	"github.com/skillforge-dev/skillforge/internal/models"
	"github.com/skillforge-dev/skillforge/internal/types"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/gorm"
)

func TestEnroll(t *testing.T) {
	setupTestDB(t)

	mentor := createTestUser(t, types.RoleMentor)
	student := createTestUser(t, types.RoleTalent)
	course, _ := createTestCourse(t, mentor.ID, 2)

	enrollment, err := Enroll(student.ID, course.ID, 0)
	require.NoError(t, err)

	// Free course payment is settled immediately
	assert.Equal(t, types.PaymentCompleted, enrollment.PaymentStatus)
	assert.NotNil(t, enrollment.PaymentDate)

	var refreshed models.Course
	require.NoError(t, db.DB.First(&refreshed, course.ID).Error)
	assert.Equal(t, uint(1), refreshed.StudentsCount)

	_, err = Enroll(student.ID, course.ID, 0)
	assert.ErrorIs(t, err, ErrAlreadyEnrolled)

	require.NoError(t, db.DB.First(&refreshed, course.ID).Error)
	assert.Equal(t, uint(1), refreshed.StudentsCount, "failed enrollment must not bump the counter")
}

func TestEnrollPaidCourse(t *testing.T) {
	setupTestDB(t)

	mentor := createTestUser(t, types.RoleMentor)
	student := createTestUser(t, types.RoleTalent)

	course := models.Course{
		Title:            "Advanced Distributed Systems",
		ShortDescription: "Consensus and replication",
		MentorID:         mentor.ID,
		Status:           types.CoursePublished,
		Price:            199,
	}
	require.NoError(t, db.DB.Create(&course).Error)

	enrollment, err := Enroll(student.ID, course.ID, 199)
	require.NoError(t, err)

	assert.Equal(t, types.PaymentPending, enrollment.PaymentStatus)
	assert.Nil(t, enrollment.PaymentDate)
	assert.Equal(t, float64(199), enrollment.AmountPaid)
}

func TestRecordLessonCompletionProgress(t *testing.T) {
	setupTestDB(t)

	mentor := createTestUser(t, types.RoleMentor)
	student := createTestUser(t, types.RoleTalent)
	course, lessons := createTestCourse(t, mentor.ID, 4)

	enrollment, err := Enroll(student.ID, course.ID, 0)
	require.NoError(t, err)

	for i := 0; i < 3; i++ {
		_, err = RecordLessonCompletion(enrollment.ID, lessons[i].ID, 10, "")
		require.NoError(t, err)
	}

	var refreshed models.Enrollment
	require.NoError(t, db.DB.First(&refreshed, enrollment.ID).Error)
	assert.InDelta(t, 75.0, refreshed.Progress, 0.01)
	assert.Nil(t, refreshed.CompletedAt)

	_, err = RecordLessonCompletion(enrollment.ID, lessons[3].ID, 10, "")
	require.NoError(t, err)

	require.NoError(t, db.DB.First(&refreshed, enrollment.ID).Error)
	assert.InDelta(t, 100.0, refreshed.Progress, 0.01)
	assert.NotNil(t, refreshed.CompletedAt)
	assert.True(t, refreshed.CertificateIssued)
	assert.NotNil(t, refreshed.CertificateIssuedAt)
}

func TestRecordLessonCompletionIdempotent(t *testing.T) {
	setupTestDB(t)

	mentor := createTestUser(t, types.RoleMentor)
	student := createTestUser(t, types.RoleTalent)
	course, lessons := createTestCourse(t, mentor.ID, 2)

	enrollment, err := Enroll(student.ID, course.ID, 0)
	require.NoError(t, err)

	first, err := RecordLessonCompletion(enrollment.ID, lessons[0].ID, 15, "good lesson")
	require.NoError(t, err)

	second, err := RecordLessonCompletion(enrollment.ID, lessons[0].ID, 99, "again")
	require.NoError(t, err)
	assert.Equal(t, first.ID, second.ID)

	var count int64
	require.NoError(t, db.DB.Model(&models.LessonCompletion{}).
		Where("enrollment_id = ?", enrollment.ID).Count(&count).Error)
	assert.Equal(t, int64(1), count)

	var refreshed models.Enrollment
	require.NoError(t, db.DB.First(&refreshed, enrollment.ID).Error)
	assert.InDelta(t, 50.0, refreshed.Progress, 0.01)
}

func TestRecordLessonCompletionWrongCourse(t *testing.T) {
	setupTestDB(t)

	mentor := createTestUser(t, types.RoleMentor)
	student := createTestUser(t, types.RoleTalent)
	course, _ := createTestCourse(t, mentor.ID, 1)
	_, otherLessons := createTestCourse(t, mentor.ID, 1)

	enrollment, err := Enroll(student.ID, course.ID, 0)
	require.NoError(t, err)

	_, err = RecordLessonCompletion(enrollment.ID, otherLessons[0].ID, 5, "")
	assert.ErrorIs(t, err, ErrLessonNotInCourse)
}

func TestZeroLessonCourseKeepsProgress(t *testing.T) {
	setupTestDB(t)

	mentor := createTestUser(t, types.RoleMentor)
	student := createTestUser(t, types.RoleTalent)
	course, _ := createTestCourse(t, mentor.ID, 0)

	enrollment, err := Enroll(student.ID, course.ID, 0)
	require.NoError(t, err)

	require.NoError(t, db.DB.Transaction(func(tx *gorm.DB) error {
		return recomputeEnrollmentProgress(tx, &enrollment)
	}))

	var refreshed models.Enrollment
	require.NoError(t, db.DB.First(&refreshed, enrollment.ID).Error)
	assert.Zero(t, refreshed.Progress)
	assert.Nil(t, refreshed.CompletedAt)
	assert.False(t, refreshed.CertificateIssued)
}

func TestReviewLifecycle(t *testing.T) {
	setupTestDB(t)

	mentor := createTestUser(t, types.RoleMentor)
	student := createTestUser(t, types.RoleTalent)
	other := createTestUser(t, types.RoleTalent)
	course, _ := createTestCourse(t, mentor.ID, 1)

	enrollment, err := Enroll(student.ID, course.ID, 0)
	require.NoError(t, err)

	review, err := SubmitReview(enrollment.ID, 4, "Solid", "Well structured")
	require.NoError(t, err)
	assert.False(t, review.IsApproved)

	_, err = SubmitReview(enrollment.ID, 5, "Again", "")
	assert.ErrorIs(t, err, ErrAlreadyReviewed)

	// Unapproved reviews do not affect the course rating
	var refreshed models.Course
	require.NoError(t, db.DB.First(&refreshed, course.ID).Error)
	assert.Zero(t, refreshed.ReviewCount)

	_, err = ApproveReview(review.ID)
	require.NoError(t, err)

	require.NoError(t, db.DB.First(&refreshed, course.ID).Error)
	assert.Equal(t, uint(1), refreshed.ReviewCount)
	assert.InDelta(t, 4.0, refreshed.AverageRating, 0.01)

	otherEnrollment, err := Enroll(other.ID, course.ID, 0)
	require.NoError(t, err)

	otherReview, err := SubmitReview(otherEnrollment.ID, 2, "", "")
	require.NoError(t, err)

	_, err = ApproveReview(otherReview.ID)
	require.NoError(t, err)

	require.NoError(t, db.DB.First(&refreshed, course.ID).Error)
	assert.Equal(t, uint(2), refreshed.ReviewCount)
	assert.InDelta(t, 3.0, refreshed.AverageRating, 0.01)
}

func TestApproveReviewIdempotent(t *testing.T) {
	setupTestDB(t)

	mentor := createTestUser(t, types.RoleMentor)
	student := createTestUser(t, types.RoleTalent)
	course, _ := createTestCourse(t, mentor.ID, 1)

	enrollment, err := Enroll(student.ID, course.ID, 0)
	require.NoError(t, err)

	review, err := SubmitReview(enrollment.ID, 5, "", "")
	require.NoError(t, err)

	_, err = ApproveReview(review.ID)
	require.NoError(t, err)

	_, err = ApproveReview(review.ID)
	require.NoError(t, err)

	var refreshed models.Course
	require.NoError(t, db.DB.First(&refreshed, course.ID).Error)
	assert.Equal(t, uint(1), refreshed.ReviewCount)
}

func TestIncrementResourceDownload(t *testing.T) {
	setupTestDB(t)

	mentor := createTestUser(t, types.RoleMentor)
	course, _ := createTestCourse(t, mentor.ID, 1)

	resource := models.Resource{
		CourseID: &course.ID,
		Title:    "Slides",
		FilePath: "/files/slides.pdf",
	}
	require.NoError(t, db.DB.Create(&resource).Error)

	updated, err := IncrementResourceDownload(resource.ID)
	require.NoError(t, err)
	assert.Equal(t, uint(1), updated.DownloadCount)

	updated, err = IncrementResourceDownload(resource.ID)
	require.NoError(t, err)
	assert.Equal(t, uint(2), updated.DownloadCount)
}
