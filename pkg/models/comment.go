package models

import "time"

type Comment struct {
	ID         int64     `json:"id"`
	PostID     string    `json:"postId"`
	UserID     string    `json:"userId"`
	AuthorName string    `json:"autor,omitempty"`
	Text       string    `json:"texto"`
	Likes      int       `json:"likes"`
	CreatedAt  time.Time `json:"createdAt"`
}
