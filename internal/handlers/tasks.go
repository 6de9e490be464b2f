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

type CreateTaskRequest struct {
	Title          string     `json:"title" binding:"required,max=200"`
	Description    string     `json:"description"`
	Priority       string     `json:"priority" binding:"omitempty,oneof=low medium high critical"`
	AssignedToID   *uint      `json:"assigned_to_id"`
	ParentTaskID   *uint      `json:"parent_task_id"`
	DueDate        *time.Time `json:"due_date"`
	EstimatedHours *float64   `json:"estimated_hours" binding:"omitempty,gte=0"`
	SkillIDs       []uint     `json:"skill_ids"`
}

type UpdateTaskProgressRequest struct {
	Progress float64 `json:"progress" binding:"min=0,max=100"`
}

func CreateTask(ctx *gin.Context) {
	project, ok := fetchProject(ctx)

	if !ok {
		return
	}

	userID, err := utils.GetCurrentUserID(ctx)

	if err != nil {
		ctx.JSON(http.StatusUnauthorized, gin.H{"error": "User not authenticated"})
		return
	}

	var body CreateTaskRequest

	if err := ctx.BindJSON(&body); err != nil {
		ctx.JSON(http.StatusBadRequest, gin.H{"error": "Invalid request"})
		return
	}

	var creator models.ProjectMember

	err = db.DB.Where("project_id = ? AND user_id = ? AND is_active = ?", project.ID, userID, true).
		First(&creator).Error

	if err != nil {
		ctx.JSON(http.StatusForbidden, gin.H{"error": "Only project members can create tasks"})
		return
	}

	if body.ParentTaskID != nil {
		var parent models.Task

		err := db.DB.Where("id = ? AND project_id = ?", *body.ParentTaskID, project.ID).
			First(&parent).Error

		if err != nil {
			ctx.JSON(http.StatusNotFound, gin.H{"error": "Parent task not found"})
			return
		}
	}

	task, err := services.CreateTask(services.TaskCreateInput{
		ProjectID:      project.ID,
		Title:          body.Title,
		Description:    body.Description,
		Priority:       body.Priority,
		AssignedToID:   body.AssignedToID,
		CreatedByID:    &creator.ID,
		ParentTaskID:   body.ParentTaskID,
		DueDate:        body.DueDate,
		EstimatedHours: body.EstimatedHours,
	})

	if err != nil {
		if errors.Is(err, services.ErrTaskTreeTooDeep) {
			ctx.JSON(http.StatusBadRequest, gin.H{"error": "Subtask nesting is too deep"})
			return
		}
		log.Printf("Failed to create task: %v", err)
		ctx.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to create task"})
		return
	}

	if len(body.SkillIDs) > 0 {
		var skills []models.Skill

		if err := db.DB.Find(&skills, body.SkillIDs).Error; err == nil {
			if err := db.DB.Model(&task).Association("Skills").Replace(skills); err != nil {
				log.Printf("Failed to attach skills: %v", err)
			}
		}
	}

	BroadcastProjectRefresh(project.ID)

	ctx.JSON(http.StatusCreated, task)
}

func ListTasks(ctx *gin.Context) {
	project, ok := fetchProject(ctx)

	if !ok {
		return
	}

	query := db.DB.Preload("AssignedTo").Preload("Subtasks").
		Where("project_id = ?", project.ID)

	if status := ctx.Query("status"); status != "" {
		query = query.Where("status = ?", status)
	}

	// Top-level tasks only unless a flat listing is requested.
	if ctx.Query("flat") == "" {
		query = query.Where("parent_task_id IS NULL")
	}

	var tasks []models.Task

	if err := query.Order("created_at").Find(&tasks).Error; err != nil {
		log.Printf("Failed to list tasks: %v", err)
		ctx.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to retrieve tasks"})
		return
	}

	ctx.JSON(http.StatusOK, tasks)
}

func StartTask(ctx *gin.Context) {
	taskID, err := utils.GetIDParam(ctx, "task_id")

	if err != nil {
		ctx.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	task, err := services.StartTask(taskID)

	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			ctx.JSON(http.StatusNotFound, gin.H{"error": "Task not found"})
			return
		}
		log.Printf("Failed to start task: %v", err)
		ctx.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to start task"})
		return
	}

	BroadcastProjectRefresh(task.ProjectID)

	ctx.JSON(http.StatusOK, task)
}

func CompleteTask(ctx *gin.Context) {
	taskID, err := utils.GetIDParam(ctx, "task_id")

	if err != nil {
		ctx.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	task, err := services.CompleteTask(taskID)

	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			ctx.JSON(http.StatusNotFound, gin.H{"error": "Task not found"})
			return
		}
		log.Printf("Failed to complete task: %v", err)
		ctx.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to complete task"})
		return
	}

	BroadcastProjectRefresh(task.ProjectID)

	ctx.JSON(http.StatusOK, task)
}

func UpdateTaskProgress(ctx *gin.Context) {
	taskID, err := utils.GetIDParam(ctx, "task_id")

	if err != nil {
		ctx.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	var body UpdateTaskProgressRequest

	if err := ctx.BindJSON(&body); err != nil {
		ctx.JSON(http.StatusBadRequest, gin.H{"error": "Invalid request"})
		return
	}

	task, err := services.UpdateTaskProgress(taskID, body.Progress)

	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			ctx.JSON(http.StatusNotFound, gin.H{"error": "Task not found"})
			return
		}
		log.Printf("Failed to update task progress: %v", err)
		ctx.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to update task progress"})
		return
	}

	BroadcastProjectRefresh(task.ProjectID)

	ctx.JSON(http.StatusOK, task)
}

func DeleteTask(ctx *gin.Context) {
	taskID, err := utils.GetIDParam(ctx, "task_id")

	if err != nil {
		ctx.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	task, err := services.DeleteTask(taskID)

	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			ctx.JSON(http.StatusNotFound, gin.H{"error": "Task not found"})
			return
		}
		log.Printf("Failed to delete task: %v", err)
		ctx.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to delete task"})
		return
	}

	BroadcastProjectRefresh(task.ProjectID)

	ctx.Status(http.StatusNoContent)
}
