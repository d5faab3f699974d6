package models

import "time"

// UserPoint is the current point holding of a single user.
type UserPoint struct {
	UserID       int64 `json:"id"`
	Point        int64 `json:"point"`
	UpdateMillis int64 `json:"updateMillis"`
}

// EmptyUserPoint is the implicit prior state of a user that has never been charged.
func EmptyUserPoint(userID int64) UserPoint {
	return UserPoint{UserID: userID, Point: 0, UpdateMillis: time.Now().UnixMilli()}
}
