package services

import (
	"testing"
	"time"

	"github.com/skillforge-dev/skillforge/db"
	"github.com/skillforge-dev/skillforge/internal/models"
	"github.com/skillforge-dev/skillforge/internal/types"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/gorm"
)

func TestTaskCompletionCascade(t *testing.T) {
	setupTestDB(t)

	creator := createTestUser(t, types.RoleTalent)
	project := createTestProject(t, creator.ID)
	member := createTestMember(t, project.ID, creator.ID)

	tasks := make([]models.Task, 0, 4)

	for i := 0; i < 4; i++ {
		task, err := CreateTask(TaskCreateInput{
			ProjectID:   project.ID,
			Title:       "Task",
			CreatedByID: &member.ID,
		})
		require.NoError(t, err)
		tasks = append(tasks, task)
	}

	for i := 0; i < 3; i++ {
		_, err := CompleteTask(tasks[i].ID)
		require.NoError(t, err)
	}

	var refreshed models.Project
	require.NoError(t, db.DB.First(&refreshed, project.ID).Error)
	assert.InDelta(t, 75.0, refreshed.Progress, 0.01)
	assert.Equal(t, types.ProjectActive, refreshed.Status)
	assert.Nil(t, refreshed.CompletedDate)

	completed, err := CompleteTask(tasks[3].ID)
	require.NoError(t, err)
	assert.Equal(t, types.TaskCompleted, completed.Status)
	assert.NotNil(t, completed.CompletedAt)

	require.NoError(t, db.DB.First(&refreshed, project.ID).Error)
	assert.InDelta(t, 100.0, refreshed.Progress, 0.01)
	assert.Equal(t, types.ProjectCompleted, refreshed.Status)
	assert.NotNil(t, refreshed.CompletedDate)
}

func TestCompleteTaskIdempotent(t *testing.T) {
	setupTestDB(t)

	creator := createTestUser(t, types.RoleTalent)
	project := createTestProject(t, creator.ID)

	task, err := CreateTask(TaskCreateInput{ProjectID: project.ID, Title: "Only task"})
	require.NoError(t, err)

	first, err := CompleteTask(task.ID)
	require.NoError(t, err)

	second, err := CompleteTask(task.ID)
	require.NoError(t, err)
	assert.Equal(t, first.CompletedAt.Unix(), second.CompletedAt.Unix())
}

func TestCreateTaskDilutesProgress(t *testing.T) {
	setupTestDB(t)

	creator := createTestUser(t, types.RoleTalent)
	project := createTestProject(t, creator.ID)

	task, err := CreateTask(TaskCreateInput{ProjectID: project.ID, Title: "First"})
	require.NoError(t, err)

	_, err = CompleteTask(task.ID)
	require.NoError(t, err)

	var refreshed models.Project
	require.NoError(t, db.DB.First(&refreshed, project.ID).Error)
	assert.InDelta(t, 100.0, refreshed.Progress, 0.01)

	_, err = CreateTask(TaskCreateInput{ProjectID: project.ID, Title: "Second"})
	require.NoError(t, err)

	require.NoError(t, db.DB.First(&refreshed, project.ID).Error)
	assert.InDelta(t, 50.0, refreshed.Progress, 0.01)
}

func TestDeleteTaskRecomputesProgress(t *testing.T) {
	setupTestDB(t)

	creator := createTestUser(t, types.RoleTalent)
	project := createTestProject(t, creator.ID)

	done, err := CreateTask(TaskCreateInput{ProjectID: project.ID, Title: "Done"})
	require.NoError(t, err)

	open, err := CreateTask(TaskCreateInput{ProjectID: project.ID, Title: "Open"})
	require.NoError(t, err)

	_, err = CompleteTask(done.ID)
	require.NoError(t, err)

	var refreshed models.Project
	require.NoError(t, db.DB.First(&refreshed, project.ID).Error)
	assert.InDelta(t, 50.0, refreshed.Progress, 0.01)

	deleted, err := DeleteTask(open.ID)
	require.NoError(t, err)
	assert.Equal(t, project.ID, deleted.ProjectID)

	// The surviving set is all completed, so the project finishes
	require.NoError(t, db.DB.First(&refreshed, project.ID).Error)
	assert.InDelta(t, 100.0, refreshed.Progress, 0.01)
	assert.Equal(t, types.ProjectCompleted, refreshed.Status)
	assert.NotNil(t, refreshed.CompletedDate)
}

func TestSubtaskDepthGuard(t *testing.T) {
	setupTestDB(t)

	creator := createTestUser(t, types.RoleTalent)
	project := createTestProject(t, creator.ID)

	parent, err := CreateTask(TaskCreateInput{ProjectID: project.ID, Title: "Root"})
	require.NoError(t, err)

	current := parent.ID

	for i := 0; i < maxTaskDepth-1; i++ {
		child, err := CreateTask(TaskCreateInput{
			ProjectID:    project.ID,
			Title:        "Child",
			ParentTaskID: &current,
		})
		require.NoError(t, err)
		current = child.ID
	}

	_, err = CreateTask(TaskCreateInput{
		ProjectID:    project.ID,
		Title:        "Too deep",
		ParentTaskID: &current,
	})
	assert.ErrorIs(t, err, ErrTaskTreeTooDeep)
}

func TestUpdateTaskProgress(t *testing.T) {
	setupTestDB(t)

	creator := createTestUser(t, types.RoleTalent)
	project := createTestProject(t, creator.ID)

	task, err := CreateTask(TaskCreateInput{ProjectID: project.ID, Title: "Work"})
	require.NoError(t, err)
	assert.Equal(t, types.TaskTodo, task.Status)

	task, err = UpdateTaskProgress(task.ID, 40)
	require.NoError(t, err)
	assert.Equal(t, types.TaskInProgress, task.Status)
	assert.InDelta(t, 40.0, task.Progress, 0.01)

	// Out of range values are clamped
	task, err = UpdateTaskProgress(task.ID, -10)
	require.NoError(t, err)
	assert.Zero(t, task.Progress)

	// Full progress routes through completion
	task, err = UpdateTaskProgress(task.ID, 150)
	require.NoError(t, err)
	assert.Equal(t, types.TaskCompleted, task.Status)
	assert.InDelta(t, 100.0, task.Progress, 0.01)
	assert.NotNil(t, task.CompletedAt)
}

func TestStartTask(t *testing.T) {
	setupTestDB(t)

	creator := createTestUser(t, types.RoleTalent)
	project := createTestProject(t, creator.ID)

	task, err := CreateTask(TaskCreateInput{ProjectID: project.ID, Title: "Work"})
	require.NoError(t, err)

	started, err := StartTask(task.ID)
	require.NoError(t, err)
	assert.Equal(t, types.TaskInProgress, started.Status)
	assert.NotNil(t, started.StartedAt)

	// Starting a non-todo task changes nothing
	_, err = CompleteTask(task.ID)
	require.NoError(t, err)

	again, err := StartTask(task.ID)
	require.NoError(t, err)
	assert.Equal(t, types.TaskCompleted, again.Status)
}

func createTestInvitation(t *testing.T, project models.Project, inviter models.ProjectMember, invitee models.User, expiresAt *time.Time) models.ProjectInvitation {
	t.Helper()

	role := models.ProjectRole{ProjectID: project.ID, Title: "Engineer", MaxMembers: 5}
	require.NoError(t, db.DB.Create(&role).Error)

	invitation := models.ProjectInvitation{
		ProjectID:     project.ID,
		InvitedByID:   inviter.ID,
		InvitedUserID: invitee.ID,
		RoleID:        role.ID,
		Status:        types.InvitationPending,
		ExpiresAt:     expiresAt,
	}
	require.NoError(t, db.DB.Create(&invitation).Error)

	return invitation
}

func TestAcceptInvitation(t *testing.T) {
	setupTestDB(t)

	creator := createTestUser(t, types.RoleTalent)
	invitee := createTestUser(t, types.RoleTalent)
	project := createTestProject(t, creator.ID)
	inviter := createTestMember(t, project.ID, creator.ID)

	future := time.Now().Add(72 * time.Hour)
	invitation := createTestInvitation(t, project, inviter, invitee, &future)

	member, err := AcceptInvitation(invitation.ID)
	require.NoError(t, err)
	assert.Equal(t, invitee.ID, member.UserID)
	assert.True(t, member.IsApproved)
	require.NotNil(t, member.RoleID)
	assert.Equal(t, invitation.RoleID, *member.RoleID)

	var refreshed models.ProjectInvitation
	require.NoError(t, db.DB.First(&refreshed, invitation.ID).Error)
	assert.Equal(t, types.InvitationAccepted, refreshed.Status)
	assert.NotNil(t, refreshed.RespondedAt)

	// A second accept is rejected but leaves exactly one membership
	_, err = AcceptInvitation(invitation.ID)
	assert.ErrorIs(t, err, ErrInvitationClosed)

	var count int64
	require.NoError(t, db.DB.Model(&models.ProjectMember{}).
		Where("project_id = ? AND user_id = ?", project.ID, invitee.ID).Count(&count).Error)
	assert.Equal(t, int64(1), count)
}

func TestAcceptExpiredInvitation(t *testing.T) {
	setupTestDB(t)

	creator := createTestUser(t, types.RoleTalent)
	invitee := createTestUser(t, types.RoleTalent)
	project := createTestProject(t, creator.ID)
	inviter := createTestMember(t, project.ID, creator.ID)

	past := time.Now().Add(-time.Hour)
	invitation := createTestInvitation(t, project, inviter, invitee, &past)

	_, err := AcceptInvitation(invitation.ID)
	assert.ErrorIs(t, err, ErrInvitationExpired)

	// Late accept marks the invitation expired and creates no membership
	var refreshed models.ProjectInvitation
	require.NoError(t, db.DB.First(&refreshed, invitation.ID).Error)
	assert.Equal(t, types.InvitationExpired, refreshed.Status)

	var count int64
	require.NoError(t, db.DB.Model(&models.ProjectMember{}).
		Where("project_id = ? AND user_id = ?", project.ID, invitee.ID).Count(&count).Error)
	assert.Zero(t, count)
}

func TestAcceptInvitationFullProject(t *testing.T) {
	setupTestDB(t)

	creator := createTestUser(t, types.RoleTalent)
	invitee := createTestUser(t, types.RoleTalent)
	project := createTestProject(t, creator.ID)
	inviter := createTestMember(t, project.ID, creator.ID)

	require.NoError(t, db.DB.Model(&project).Update("max_members", 1).Error)

	future := time.Now().Add(72 * time.Hour)
	invitation := createTestInvitation(t, project, inviter, invitee, &future)

	_, err := AcceptInvitation(invitation.ID)
	assert.ErrorIs(t, err, ErrProjectMembersLimit)

	// The invitation stays pending so it can be accepted once a seat frees up
	var refreshed models.ProjectInvitation
	require.NoError(t, db.DB.First(&refreshed, invitation.ID).Error)
	assert.Equal(t, types.InvitationPending, refreshed.Status)
}

func TestDeclineInvitation(t *testing.T) {
	setupTestDB(t)

	creator := createTestUser(t, types.RoleTalent)
	invitee := createTestUser(t, types.RoleTalent)
	project := createTestProject(t, creator.ID)
	inviter := createTestMember(t, project.ID, creator.ID)

	future := time.Now().Add(72 * time.Hour)
	invitation := createTestInvitation(t, project, inviter, invitee, &future)

	declined, err := DeclineInvitation(invitation.ID)
	require.NoError(t, err)
	assert.Equal(t, types.InvitationDeclined, declined.Status)
	assert.NotNil(t, declined.RespondedAt)

	_, err = AcceptInvitation(invitation.ID)
	assert.ErrorIs(t, err, ErrInvitationClosed)
}

func TestDuplicateInvitationTranslated(t *testing.T) {
	setupTestDB(t)

	creator := createTestUser(t, types.RoleTalent)
	invitee := createTestUser(t, types.RoleTalent)
	project := createTestProject(t, creator.ID)
	inviter := createTestMember(t, project.ID, creator.ID)

	future := time.Now().Add(72 * time.Hour)
	first := createTestInvitation(t, project, inviter, invitee, &future)

	// A second invitation for the same user collides on the
	// (project, invited user) unique index as a typed duplicate error
	second := models.ProjectInvitation{
		ProjectID:     project.ID,
		InvitedByID:   inviter.ID,
		InvitedUserID: invitee.ID,
		RoleID:        first.RoleID,
		Status:        types.InvitationPending,
		ExpiresAt:     &future,
	}
	err := db.DB.Create(&second).Error
	assert.ErrorIs(t, err, gorm.ErrDuplicatedKey)
}

func TestMemberLifecycle(t *testing.T) {
	setupTestDB(t)

	creator := createTestUser(t, types.RoleTalent)
	joiner := createTestUser(t, types.RoleTalent)
	project := createTestProject(t, creator.ID)
	createTestMember(t, project.ID, creator.ID)

	pending := models.ProjectMember{ProjectID: project.ID, UserID: joiner.ID}
	require.NoError(t, db.DB.Create(&pending).Error)

	approved, err := ApproveMember(pending.ID)
	require.NoError(t, err)
	assert.True(t, approved.IsApproved)
	require.NotNil(t, approved.ApprovedAt)

	firstStamp := *approved.ApprovedAt

	// Re-approving keeps the original stamp
	approved, err = ApproveMember(pending.ID)
	require.NoError(t, err)
	assert.Equal(t, firstStamp.Unix(), approved.ApprovedAt.Unix())

	count, err := ActiveMemberCount(project.ID)
	require.NoError(t, err)
	assert.Equal(t, int64(2), count)

	removed, err := RemoveMember(pending.ID)
	require.NoError(t, err)
	assert.False(t, removed.IsActive)
	assert.NotNil(t, removed.LeftAt)

	count, err = ActiveMemberCount(project.ID)
	require.NoError(t, err)
	assert.Equal(t, int64(1), count)

	// The row survives for history
	var kept models.ProjectMember
	require.NoError(t, db.DB.First(&kept, pending.ID).Error)
	assert.Equal(t, joiner.ID, kept.UserID)
}

func TestFileVersioning(t *testing.T) {
	setupTestDB(t)

	creator := createTestUser(t, types.RoleTalent)
	project := createTestProject(t, creator.ID)
	member := createTestMember(t, project.ID, creator.ID)

	original := models.ProjectFile{
		ProjectID:    project.ID,
		UploadedByID: &member.ID,
		FilePath:     "/files/spec-v1.pdf",
		Description:  "Requirements",
		Category:     "document",
		Version:      1,
		IsCurrent:    true,
	}
	require.NoError(t, db.DB.Create(&original).Error)

	second, err := CreateFileVersion(original.ID, "/files/spec-v2.pdf", 2048, "")
	require.NoError(t, err)
	assert.Equal(t, 2, second.Version)
	assert.True(t, second.IsCurrent)
	require.NotNil(t, second.ParentVersionID)
	assert.Equal(t, original.ID, *second.ParentVersionID)
	assert.Equal(t, "Requirements", second.Description, "description carries over when omitted")

	var demoted models.ProjectFile
	require.NoError(t, db.DB.First(&demoted, original.ID).Error)
	assert.False(t, demoted.IsCurrent)

	// Superseding a demoted version is rejected
	_, err = CreateFileVersion(original.ID, "/files/spec-v2b.pdf", 0, "")
	assert.ErrorIs(t, err, ErrFileVersionOutdated)

	third, err := CreateFileVersion(second.ID, "/files/spec-v3.pdf", 4096, "Final")
	require.NoError(t, err)
	assert.Equal(t, 3, third.Version)
	assert.Equal(t, "Final", third.Description)
}

func TestIncrementFileDownload(t *testing.T) {
	setupTestDB(t)

	creator := createTestUser(t, types.RoleTalent)
	project := createTestProject(t, creator.ID)

	file := models.ProjectFile{
		ProjectID: project.ID,
		FilePath:  "/files/readme.md",
		Category:  "document",
		Version:   1,
		IsCurrent: true,
	}
	require.NoError(t, db.DB.Create(&file).Error)

	updated, err := IncrementFileDownload(file.ID)
	require.NoError(t, err)
	assert.Equal(t, uint(1), updated.DownloadCount)
}
