package models

import (
	"time"
)

type ShortURL struct {
	ID        int64     `json:"id"`
	Alias     string    `json:"alias"`
	LongURL   string    `json:"long_url"`
	ShortURL  string    `json:"short_url"`
	Topic     *string   `json:"topic,omitempty"`
	UserID    string    `json:"user_id"`
	CreatedAt time.Time `json:"created_at"`
}

type CreateShortURLInput struct {
	LongURL     string  `json:"longUrl"`
	CustomAlias *string `json:"customAlias,omitempty"`
	Topic       *string `json:"topic,omitempty"`
	UserID      string  `json:"-"`
}
