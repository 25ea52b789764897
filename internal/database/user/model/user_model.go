package model

import (
	"strings"
	"time"
)

type User struct {
	ID           int64     `json:"id"`
	Admin        bool      `json:"admin"`
	FirstName    string    `json:"firstName"`
	LastName     string    `json:"lastName"`
	LanguageCode string    `json:"languageCode"`
	Username     string    `json:"username"`
	CreatedAt    time.Time `json:"createdAt"`
}

func (u User) DisplayName() string {
	name := strings.TrimSpace(u.FirstName + " " + u.LastName)
	if name != "" {
		return name
	}

	if u.Username != "" {
		return "@" + u.Username
	}

	return "unknown"
}
