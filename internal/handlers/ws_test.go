package handlers

import (
	"testing"

	"github.com/skillforge-dev/skillforge/internal/models"
	"github.com/skillforge-dev/skillforge/internal/types"
	"github.com/stretchr/testify/assert"
	"gorm.io/gorm"
)

func TestProjectRefreshPayload(t *testing.T) {
	project := models.Project{
		Model:    gorm.Model{ID: 42},
		Status:   types.ProjectActive,
		Progress: 75,
	}

	payload := projectRefreshPayload(project)

	assert.Equal(t, "refresh", payload["type"])
	assert.Equal(t, uint(42), payload["project_id"])
	assert.Equal(t, types.ProjectActive, payload["status"])
	assert.InDelta(t, 75.0, payload["progress"], 0.01)
}
