package model

import (
	"reflect"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func gormTag(t *testing.T, model any, field string) string {
	t.Helper()

	f, ok := reflect.TypeOf(model).FieldByName(field)
	require.True(t, ok, "field %s not declared", field)

	return f.Tag.Get("gorm")
}

// Deleting a user must take their owned rows with it, while tasks they are
// only assigned to survive with the reference cleared.
func TestUserOwnedRowsCascadeOnDelete(t *testing.T) {
	for _, field := range []string{"RefreshTokens", "Notifications", "Activities"} {
		assert.Contains(t, gormTag(t, UserModel{}, field), "OnDelete:CASCADE", field)
	}

	assert.Contains(t, gormTag(t, TaskModel{}, "Creator"), "OnDelete:CASCADE")
	assert.Contains(t, gormTag(t, TaskModel{}, "Assignee"), "OnDelete:SET NULL")
	assert.Contains(t, gormTag(t, CommentModel{}, "User"), "OnDelete:CASCADE")
}

func TestTaskDependentsCascadeOnDelete(t *testing.T) {
	assert.Contains(t, gormTag(t, TaskModel{}, "Comments"), "OnDelete:CASCADE")
	assert.Contains(t, gormTag(t, TaskModel{}, "Notifications"), "OnDelete:CASCADE")
	assert.Contains(t, gormTag(t, TaskModel{}, "Subtasks"), "OnDelete:SET NULL")
	assert.Contains(t, gormTag(t, CommentModel{}, "Replies"), "OnDelete:CASCADE")
}
