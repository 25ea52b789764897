package model

import "time"

type Score struct {
	ChatID    int64     `json:"chatId"`
	UserID    int64     `json:"userId"`
	Points    int       `json:"points"`
	Wins      int       `json:"wins"`
	UpdatedAt time.Time `json:"updatedAt"`
}
