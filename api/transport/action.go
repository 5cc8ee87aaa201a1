package transport

import (
	"encoding/json"
	"time"

	"github.com/questforge/backend/domain"
	"github.com/questforge/backend/usecase/engine"
)

// ActionRequest is the wire form of one engine action: a kind tag plus the
// kind-specific payload.
type ActionRequest struct {
	Type    string          `json:"type"`
	Payload json.RawMessage `json:"payload"`
}

type actionDecoder func(json.RawMessage) (engine.Action, error)

var actionDecoders = map[string]actionDecoder{
	"add_task": func(raw json.RawMessage) (engine.Action, error) {
		var req TaskRequest
		if err := json.Unmarshal(raw, &req); err != nil {
			return nil, err
		}
		var due *time.Time
		if req.DueDate != "" {
			if parsed, err := time.Parse(time.RFC3339, req.DueDate); err == nil {
				due = &parsed
			}
		}
		return engine.AddTask{
			Title:       req.Title,
			Description: req.Description,
			Priority:    domain.Priority(req.Priority),
			DueDate:     due,
		}, nil
	},
	"toggle_task": func(raw json.RawMessage) (engine.Action, error) {
		var req struct {
			ID string `json:"id"`
		}
		if err := json.Unmarshal(raw, &req); err != nil {
			return nil, err
		}
		return engine.ToggleTask{ID: req.ID}, nil
	},
	"delete_task": func(raw json.RawMessage) (engine.Action, error) {
		var req struct {
			ID string `json:"id"`
		}
		if err := json.Unmarshal(raw, &req); err != nil {
			return nil, err
		}
		return engine.DeleteTask{ID: req.ID}, nil
	},
	"unlock_achievement": func(raw json.RawMessage) (engine.Action, error) {
		var req struct {
			ID string `json:"id"`
		}
		if err := json.Unmarshal(raw, &req); err != nil {
			return nil, err
		}
		return engine.UnlockAchievement{ID: req.ID}, nil
	},
	"update_streak": func(raw json.RawMessage) (engine.Action, error) {
		var req domain.Streak
		if err := json.Unmarshal(raw, &req); err != nil {
			return nil, err
		}
		return engine.UpdateStreak{Streak: req}, nil
	},
	"add_mood_entry": func(raw json.RawMessage) (engine.Action, error) {
		var req MoodEntryRequest
		if err := json.Unmarshal(raw, &req); err != nil {
			return nil, err
		}
		return engine.AddMoodEntry{Mood: req.Mood, Note: req.Note}, nil
	},
	"delete_mood_entry": func(raw json.RawMessage) (engine.Action, error) {
		var req struct {
			ID string `json:"id"`
		}
		if err := json.Unmarshal(raw, &req); err != nil {
			return nil, err
		}
		return engine.DeleteMoodEntry{ID: req.ID}, nil
	},
	"add_important_date": func(raw json.RawMessage) (engine.Action, error) {
		var req ImportantDateRequest
		if err := json.Unmarshal(raw, &req); err != nil {
			return nil, err
		}
		return engine.AddImportantDate{Title: req.Title, Date: req.Date, Category: req.Category}, nil
	},
	"delete_important_date": func(raw json.RawMessage) (engine.Action, error) {
		var req struct {
			ID string `json:"id"`
		}
		if err := json.Unmarshal(raw, &req); err != nil {
			return nil, err
		}
		return engine.DeleteImportantDate{ID: req.ID}, nil
	},
	"add_question": func(raw json.RawMessage) (engine.Action, error) {
		var req QuestionRequest
		if err := json.Unmarshal(raw, &req); err != nil {
			return nil, err
		}
		return engine.AddQuestion{Text: req.Text, Answer: req.Answer}, nil
	},
	"delete_question": func(raw json.RawMessage) (engine.Action, error) {
		var req struct {
			ID string `json:"id"`
		}
		if err := json.Unmarshal(raw, &req); err != nil {
			return nil, err
		}
		return engine.DeleteQuestion{ID: req.ID}, nil
	},
	"update_settings": func(raw json.RawMessage) (engine.Action, error) {
		var req SettingsRequest
		if err := json.Unmarshal(raw, &req); err != nil {
			return nil, err
		}
		return engine.UpdateSettings{Settings: domain.Settings{
			Theme:         req.Theme,
			Notifications: req.Notifications,
			WeekStartsOn:  req.WeekStartsOn,
		}}, nil
	},
}

// DecodeAction resolves a wire action into its engine variant. Unknown kinds
// and bad payloads are invalid requests; the reducer itself never sees them.
func DecodeAction(req ActionRequest) (engine.Action, error) {
	decode, ok := actionDecoders[req.Type]
	if !ok {
		return nil, domain.NewError(domain.ErrCodeInvalid, "unknown action type")
	}
	payload := req.Payload
	if len(payload) == 0 {
		payload = json.RawMessage("{}")
	}
	action, err := decode(payload)
	if err != nil {
		return nil, domain.WrapError(domain.ErrCodeInvalid, "malformed action payload", err)
	}
	return action, nil
}
