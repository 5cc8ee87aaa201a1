package transport

import (
	"encoding/json"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/questforge/backend/domain"
	"github.com/questforge/backend/usecase/engine"
)

func TestDecodeActionAddTask(t *testing.T) {
	action, err := DecodeAction(ActionRequest{
		Type:    "add_task",
		Payload: json.RawMessage(`{"title":"read a book","priority":"high"}`),
	})
	require.NoError(t, err)

	add, ok := action.(engine.AddTask)
	require.True(t, ok)
	assert.Equal(t, "read a book", add.Title)
	assert.Equal(t, domain.PriorityHigh, add.Priority)
	assert.Nil(t, add.DueDate)
}

func TestDecodeActionUnknownType(t *testing.T) {
	_, err := DecodeAction(ActionRequest{Type: "explode"})
	assert.True(t, domain.IsDomainError(err, domain.ErrCodeInvalid))
}

func TestDecodeActionMalformedPayload(t *testing.T) {
	_, err := DecodeAction(ActionRequest{
		Type:    "toggle_task",
		Payload: json.RawMessage(`{"id":42}`),
	})
	assert.True(t, domain.IsDomainError(err, domain.ErrCodeInvalid))
}

func TestDecodeActionEmptyPayloadDefaults(t *testing.T) {
	action, err := DecodeAction(ActionRequest{Type: "update_settings"})
	require.NoError(t, err)

	set, ok := action.(engine.UpdateSettings)
	require.True(t, ok)
	assert.Equal(t, domain.Settings{}, set.Settings)
}

func TestDecodeActionCoversEveryKind(t *testing.T) {
	kinds := []string{
		"add_task", "toggle_task", "delete_task",
		"unlock_achievement", "update_streak",
		"add_mood_entry", "delete_mood_entry",
		"add_important_date", "delete_important_date",
		"add_question", "delete_question",
		"update_settings",
	}
	for _, kind := range kinds {
		_, err := DecodeAction(ActionRequest{Type: kind, Payload: json.RawMessage(`{}`)})
		assert.NoError(t, err, kind)
	}
}
