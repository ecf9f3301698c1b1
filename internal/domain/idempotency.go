package domain

import "time"

// Idempotency represents a recorded result of a previously processed response
// submission, keyed by (user_id, assessment_id, key). It lets clients retry a
// save safely: a replay returns the current scores without re-running the
// save path.
type Idempotency struct {
	ID           string    `gorm:"type:TEXT NOT NULL;primaryKey"`
	UserID       string    `gorm:"type:TEXT NOT NULL;uniqueIndex:ux_user_assessment_key,priority:1"`
	AssessmentID string    `gorm:"type:TEXT NOT NULL;uniqueIndex:ux_user_assessment_key,priority:2"`
	Key          string    `gorm:"type:TEXT NOT NULL;uniqueIndex:ux_user_assessment_key,priority:3"`
	Status       int       `gorm:"type:INTEGER NOT NULL"`
	CreatedAt    time.Time `gorm:"type:DATETIME NOT NULL;autoCreateTime"`
	ExpiresAt    time.Time `gorm:"type:DATETIME NOT NULL;index"`
}

// TableName implements the GORM tabler interface.
func (Idempotency) TableName() string { return "idempotency" }
