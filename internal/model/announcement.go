package model

import "time"

// Announcement is a saved announcement template. Announcements are the
// third persisted record alongside residents and transactions.
type Announcement struct {
	CreatedAt time.Time `json:"createdAt"`
	Title     string    `json:"title"`
	Body      string    `json:"body"`
	ID        int64     `json:"id"`
}
