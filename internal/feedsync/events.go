package feedsync

import (
	"time"

	"campusmarket/pkg/models"
)

const (
	EventPostCreated  = "post.created"
	EventVoteUpdated  = "vote.updated"
	EventCommentAdded = "comment.added"
)

// PostEvent announces a new post so open feeds can prepend it.
type PostEvent struct {
	Type   string       `json:"type"`
	Module string       `json:"modulo"`
	Post   *models.Post `json:"post"`
	At     time.Time    `json:"at"`
}

func NewPostEvent(p *models.Post) PostEvent {
	return PostEvent{
		Type:   EventPostCreated,
		Module: p.Module,
		Post:   p,
		At:     time.Now().UTC(),
	}
}

// VoteEvent carries the new aggregate score of a post.
type VoteEvent struct {
	Type   string    `json:"type"`
	PostID string    `json:"postId"`
	Score  int       `json:"votos"`
	At     time.Time `json:"at"`
}

func NewVoteEvent(postID string, score int) VoteEvent {
	return VoteEvent{
		Type:   EventVoteUpdated,
		PostID: postID,
		Score:  score,
		At:     time.Now().UTC(),
	}
}

type CommentEvent struct {
	Type    string    `json:"type"`
	PostID  string    `json:"postId"`
	Comment any       `json:"comentario,omitempty"`
	Count   int       `json:"comentarios"`
	At      time.Time `json:"at"`
}

func NewCommentEvent(postID string, comment any, count int) CommentEvent {
	return CommentEvent{
		Type:    EventCommentAdded,
		PostID:  postID,
		Comment: comment,
		Count:   count,
		At:      time.Now().UTC(),
	}
}
