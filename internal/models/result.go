package models

import "time"

// QuizResult is one finished quiz attempt. It is never updated after creation.
type QuizResult struct {
	ID        string    `db:"id" json:"id"`
	UserID    string    `db:"user_id" json:"userId"`
	CreatedAt time.Time `db:"created_at" json:"createdAt"`
	Score     int       `db:"score" json:"score"`
	Attempted int       `db:"attempted" json:"attempted"`
	Correct   int       `db:"correct" json:"correct"`
	TimeTaken int       `db:"time_taken" json:"timeTaken"` // seconds
}

// ResultWithEmail is a result joined with its owner's email for admin listings.
type ResultWithEmail struct {
	QuizResult
	Email string `db:"email" json:"email"`
}

// UnknownEmail is reported for results whose owner cannot be resolved.
const UnknownEmail = "Unknown"
