package monitor

import "time"

type Status struct {
	PostgreSQL bool      `json:"postgresql"`
	Redis      bool      `json:"redis"`
	LocalStore bool      `json:"local_store"`
	Buffered   int       `json:"buffered_snapshots"`
	LastCheck  time.Time `json:"last_check"`
}
