package transport

type SignUpRequest struct {
	Email    string `json:"email"`
	Password string `json:"password"`
}

type SignInRequest struct {
	Email    string `json:"email"`
	Password string `json:"password"`
}

type PasswordResetRequest struct {
	Email string `json:"email"`
}

type PasswordResetConfirmRequest struct {
	Token       string `json:"token"`
	NewPassword string `json:"new_password"`
}

type TaskRequest struct {
	Title       string `json:"title"`
	Description string `json:"description"`
	Priority    string `json:"priority"`
	DueDate     string `json:"due_date"`
}

type MoodEntryRequest struct {
	Mood string `json:"mood"`
	Note string `json:"note"`
}

type ImportantDateRequest struct {
	Title    string `json:"title"`
	Date     string `json:"date"`
	Category string `json:"category"`
}

type QuestionRequest struct {
	Text   string `json:"text"`
	Answer string `json:"answer"`
}

type SettingsRequest struct {
	Theme         string `json:"theme"`
	Notifications bool   `json:"notifications"`
	WeekStartsOn  string `json:"week_starts_on"`
}
