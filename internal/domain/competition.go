package domain

import "time"

type Edition struct {
	ID        uint      `json:"id"`
	Name      string    `json:"name"`
	Year      int       `json:"year"`
	Active    bool      `json:"active"`
	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`
}

type Sport struct {
	ID         uint      `json:"id"`
	Name       string    `json:"name"`
	Collective bool      `json:"collective"` // team sport vs individual
	CreatedAt  time.Time `json:"created_at"`
	UpdatedAt  time.Time `json:"updated_at"`
}

type School struct {
	ID        uint      `json:"id"`
	Name      string    `json:"name"`
	City      string    `json:"city"`
	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`
}
