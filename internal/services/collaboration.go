package services

import (
	"time"

	"github.com/skillforge-dev/skillforge/db"
	"github.com/skillforge-dev/skillforge/internal/models"
	"github.com/skillforge-dev/skillforge/internal/types"
	"gorm.io/gorm"
)

// Subtask chains are capped so a cascade delete cannot walk an unbounded tree.
const maxTaskDepth = 10

type TaskCreateInput struct {
	ProjectID    uint
	Title        string
	Description  string
	Priority     string
	Status       string
	AssignedToID *uint
	CreatedByID  *uint
	ParentTaskID *uint
	DueDate      *time.Time
	EstimatedHours *float64
}

// CreateTask validates the parent chain depth before inserting.
func CreateTask(input TaskCreateInput) (models.Task, error) {
	task := models.Task{
		ProjectID:      input.ProjectID,
		Title:          input.Title,
		Description:    input.Description,
		Priority:       input.Priority,
		Status:         input.Status,
		AssignedToID:   input.AssignedToID,
		CreatedByID:    input.CreatedByID,
		ParentTaskID:   input.ParentTaskID,
		DueDate:        input.DueDate,
		EstimatedHours: input.EstimatedHours,
	}

	if task.Priority == "" {
		task.Priority = types.PriorityMedium
	}

	if task.Status == "" {
		task.Status = types.TaskTodo
	}

	err := db.DB.Transaction(func(tx *gorm.DB) error {
		if input.ParentTaskID != nil {
			depth, err := taskDepth(tx, *input.ParentTaskID)

			if err != nil {
				return err
			}

			if depth+1 >= maxTaskDepth {
				return ErrTaskTreeTooDeep
			}
		}

		if err := tx.Create(&task).Error; err != nil {
			return err
		}

		// A new task dilutes the completed fraction.
		var project models.Project

		if err := tx.First(&project, input.ProjectID).Error; err != nil {
			return err
		}

		return recomputeProjectProgress(tx, &project)
	})

	return task, err
}

func taskDepth(tx *gorm.DB, taskID uint) (int, error) {
	depth := 0
	current := taskID

	for depth < maxTaskDepth {
		var task models.Task

		if err := tx.Select("id", "parent_task_id").First(&task, current).Error; err != nil {
			return 0, err
		}

		if task.ParentTaskID == nil {
			return depth, nil
		}

		current = *task.ParentTaskID
		depth++
	}

	return depth, nil
}

// StartTask promotes a todo task to in_progress and stamps the start time.
func StartTask(taskID uint) (models.Task, error) {
	var task models.Task

	err := db.DB.Transaction(func(tx *gorm.DB) error {
		if err := tx.First(&task, taskID).Error; err != nil {
			return err
		}

		if task.Status != types.TaskTodo {
			return nil
		}

		task.Status = types.TaskInProgress
		now := time.Now()
		task.StartedAt = &now

		return tx.Save(&task).Error
	})

	return task, err
}

// CompleteTask is idempotent: completing a completed task changes nothing.
// On first completion the owning project's progress is recomputed in the same
// transaction.
func CompleteTask(taskID uint) (models.Task, error) {
	var task models.Task

	err := db.DB.Transaction(func(tx *gorm.DB) error {
		if err := tx.First(&task, taskID).Error; err != nil {
			return err
		}

		return completeTaskTx(tx, &task)
	})

	return task, err
}

func completeTaskTx(tx *gorm.DB, task *models.Task) error {
	if task.Status == types.TaskCompleted {
		return nil
	}

	task.Status = types.TaskCompleted
	task.Progress = 100
	now := time.Now()
	task.CompletedAt = &now

	if err := tx.Save(task).Error; err != nil {
		return err
	}

	var project models.Project

	if err := tx.First(&project, task.ProjectID).Error; err != nil {
		return err
	}

	return recomputeProjectProgress(tx, &project)
}

// UpdateTaskProgress clamps the value into [0,100], routes 100 to completion
// and promotes a todo task to in_progress on first movement.
func UpdateTaskProgress(taskID uint, progress float64) (models.Task, error) {
	var task models.Task

	if progress < 0 {
		progress = 0
	}

	if progress > 100 {
		progress = 100
	}

	err := db.DB.Transaction(func(tx *gorm.DB) error {
		if err := tx.First(&task, taskID).Error; err != nil {
			return err
		}

		if progress == 100 {
			return completeTaskTx(tx, &task)
		}

		task.Progress = progress

		if progress > 0 && task.Status == types.TaskTodo {
			task.Status = types.TaskInProgress
		}

		return tx.Save(&task).Error
	})

	return task, err
}

// DeleteTask removes a task and recomputes the owning project's progress from
// the surviving set, in one transaction. Without the recompute a deleted open
// task would leave the completed fraction stale.
func DeleteTask(taskID uint) (models.Task, error) {
	var task models.Task

	err := db.DB.Transaction(func(tx *gorm.DB) error {
		if err := tx.First(&task, taskID).Error; err != nil {
			return err
		}

		if err := tx.Delete(&task).Error; err != nil {
			return err
		}

		var project models.Project

		if err := tx.First(&project, task.ProjectID).Error; err != nil {
			return err
		}

		return recomputeProjectProgress(tx, &project)
	})

	return task, err
}

func recomputeProjectProgress(tx *gorm.DB, project *models.Project) error {
	var totalTasks int64

	if err := tx.Model(&models.Task{}).Where("project_id = ?", project.ID).Count(&totalTasks).Error; err != nil {
		return err
	}

	if totalTasks == 0 {
		return nil
	}

	var completedTasks int64

	err := tx.Model(&models.Task{}).
		Where("project_id = ? AND status = ?", project.ID, types.TaskCompleted).
		Count(&completedTasks).Error

	if err != nil {
		return err
	}

	project.Progress = float64(completedTasks) / float64(totalTasks) * 100

	if project.Progress >= 100 && project.Status != types.ProjectCompleted {
		project.Status = types.ProjectCompleted
		now := time.Now()
		project.CompletedDate = &now
	}

	return tx.Save(project).Error
}

// AcceptInvitation applies the guarded Pending -> Accepted transition. The
// member row is get-or-created, so a double accept converges on one membership.
func AcceptInvitation(invitationID uint) (models.ProjectMember, error) {
	var member models.ProjectMember

	err := db.DB.Transaction(func(tx *gorm.DB) error {
		var invitation models.ProjectInvitation

		if err := tx.First(&invitation, invitationID).Error; err != nil {
			return err
		}

		if invitation.Status != types.InvitationPending {
			return ErrInvitationClosed
		}

		now := time.Now()

		if invitation.IsExpired(now) {
			invitation.Status = types.InvitationExpired

			if err := tx.Save(&invitation).Error; err != nil {
				return err
			}

			return ErrInvitationExpired
		}

		var project models.Project

		if err := tx.First(&project, invitation.ProjectID).Error; err != nil {
			return err
		}

		var activeMembers int64

		err := tx.Model(&models.ProjectMember{}).
			Where("project_id = ? AND is_active = ?", invitation.ProjectID, true).
			Count(&activeMembers).Error

		if err != nil {
			return err
		}

		if activeMembers >= int64(project.MaxMembers) {
			return ErrProjectMembersLimit
		}

		result := tx.Where("project_id = ? AND user_id = ?", invitation.ProjectID, invitation.InvitedUserID).
			Attrs(models.ProjectMember{
				RoleID:     &invitation.RoleID,
				IsApproved: true,
				ApprovedAt: &now,
				JoinedAt:   &now,
			}).
			FirstOrCreate(&member, models.ProjectMember{
				ProjectID: invitation.ProjectID,
				UserID:    invitation.InvitedUserID,
			})

		if result.Error != nil {
			return result.Error
		}

		invitation.Status = types.InvitationAccepted
		invitation.RespondedAt = &now

		return tx.Save(&invitation).Error
	})

	return member, err
}

// DeclineInvitation is valid only from Pending.
func DeclineInvitation(invitationID uint) (models.ProjectInvitation, error) {
	var invitation models.ProjectInvitation

	err := db.DB.Transaction(func(tx *gorm.DB) error {
		if err := tx.First(&invitation, invitationID).Error; err != nil {
			return err
		}

		if invitation.Status != types.InvitationPending {
			return ErrInvitationClosed
		}

		invitation.Status = types.InvitationDeclined
		now := time.Now()
		invitation.RespondedAt = &now

		return tx.Save(&invitation).Error
	})

	return invitation, err
}

// ApproveMember is idempotent; the approval stamp is set once.
func ApproveMember(memberID uint) (models.ProjectMember, error) {
	var member models.ProjectMember

	err := db.DB.Transaction(func(tx *gorm.DB) error {
		if err := tx.First(&member, memberID).Error; err != nil {
			return err
		}

		if member.IsApproved {
			return nil
		}

		member.IsApproved = true
		now := time.Now()
		member.ApprovedAt = &now

		return tx.Save(&member).Error
	})

	return member, err
}

// RemoveMember soft-leaves the project, keeping the membership row for history.
func RemoveMember(memberID uint) (models.ProjectMember, error) {
	var member models.ProjectMember

	err := db.DB.Transaction(func(tx *gorm.DB) error {
		if err := tx.First(&member, memberID).Error; err != nil {
			return err
		}

		if !member.IsActive {
			return nil
		}

		member.IsActive = false
		now := time.Now()
		member.LeftAt = &now

		return tx.Save(&member).Error
	})

	return member, err
}

// ActiveMemberCount counts current members of a project.
func ActiveMemberCount(projectID uint) (int64, error) {
	var count int64

	err := db.DB.Model(&models.ProjectMember{}).
		Where("project_id = ? AND is_active = ?", projectID, true).
		Count(&count).Error

	return count, err
}

// CreateFileVersion supersedes the current version of a file lineage: the old
// version is demoted and the new one becomes current with version+1.
func CreateFileVersion(fileID uint, filePath string, fileSize uint, description string) (models.ProjectFile, error) {
	var newVersion models.ProjectFile

	err := db.DB.Transaction(func(tx *gorm.DB) error {
		var current models.ProjectFile

		if err := tx.First(&current, fileID).Error; err != nil {
			return err
		}

		if !current.IsCurrent {
			return ErrFileVersionOutdated
		}

		current.IsCurrent = false

		if err := tx.Save(&current).Error; err != nil {
			return err
		}

		if description == "" {
			description = current.Description
		}

		newVersion = models.ProjectFile{
			ProjectID:       current.ProjectID,
			UploadedByID:    current.UploadedByID,
			FilePath:        filePath,
			FileSize:        fileSize,
			Description:     description,
			Category:        current.Category,
			Version:         current.Version + 1,
			IsCurrent:       true,
			ParentVersionID: &current.ID,
			IsPublic:        current.IsPublic,
		}

		return tx.Create(&newVersion).Error
	})

	return newVersion, err
}

// IncrementFileDownload bumps the download counter for a project file.
func IncrementFileDownload(fileID uint) (models.ProjectFile, error) {
	var file models.ProjectFile

	if err := db.DB.First(&file, fileID).Error; err != nil {
		return file, err
	}

	err := db.DB.Model(&file).UpdateColumn("download_count", gorm.Expr("download_count + 1")).Error

	if err != nil {
		return file, err
	}

	file.DownloadCount++

	return file, nil
}
