package model

import "time"

const DefaultPrefix = "#"

// Chat holds per-chat bot settings.
type Chat struct {
	ID        int64     `json:"id"`
	Prefix    string    `json:"prefix"`
	UpdatedAt time.Time `json:"updatedAt"`
}

func NewChat(id int64) Chat {
	return Chat{ID: id, Prefix: DefaultPrefix, UpdatedAt: time.Now()}
}
