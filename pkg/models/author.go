package models

// SelfAuthorID marks posts created by the locally authenticated user.
const SelfAuthorID = "USER_SELF"

type Author struct {
	ID        string `json:"id"`
	Name      string `json:"nome"`
	AvatarURL string `json:"avatarUrl,omitempty"`
	Course    string `json:"curso,omitempty"`
	Verified  bool   `json:"verificado,omitempty"`
}
