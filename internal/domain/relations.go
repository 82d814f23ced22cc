package domain

// Subscription is a follower relation. A user cannot follow themselves.
type Subscription struct {
	UserID      string `json:"user_id"`
	FollowingID string `json:"following_id"`
}

// IsSelf reports whether the subscription points back at its owner.
func (s *Subscription) IsSelf() bool {
	return s.UserID == s.FollowingID
}
