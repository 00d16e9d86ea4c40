package domain

import (
	"time"

	"github.com/google/uuid"
	"gorm.io/datatypes"
	"gorm.io/gorm"
)

// Meeting is one analyzed transcript upload.
type Meeting struct {
	ID uuid.UUID `gorm:"type:uuid;primaryKey" json:"id"`

	Title        string `gorm:"type:text;not null;default:''" json:"title"`
	Date         string `gorm:"type:text;not null;default:''" json:"date"`
	DurationMS   int64  `gorm:"not null;default:0" json:"duration_ms"`
	UnknownCount int    `gorm:"not null;default:0" json:"unknown_count"`

	Participants datatypes.JSON `gorm:"type:jsonb;not null;default:'[]'" json:"participants"`

	// SHA-256 of the raw VTT, used as the cache/dedup key.
	TranscriptSHA string `gorm:"type:text;not null;index" json:"transcript_sha"`
	Status        string `gorm:"type:text;not null;default:'pending';index" json:"status"`

	CreatedAt time.Time      `gorm:"not null;index" json:"created_at"`
	UpdatedAt time.Time      `gorm:"not null" json:"updated_at"`
	DeletedAt gorm.DeletedAt `gorm:"index" json:"deleted_at,omitempty"`
}

func (Meeting) TableName() string { return "meeting" }

// MeetingAnalysis stores the full pipeline output for a meeting as jsonb
// artifacts, one row per meeting.
type MeetingAnalysis struct {
	ID        uuid.UUID `gorm:"type:uuid;primaryKey" json:"id"`
	MeetingID uuid.UUID `gorm:"type:uuid;not null;uniqueIndex" json:"meeting_id"`

	Model string `gorm:"type:text;not null;default:''" json:"model"`

	CollectiveSummary datatypes.JSON `gorm:"type:jsonb;not null;default:'{}'" json:"collective_summary"`
	Chapters          datatypes.JSON `gorm:"type:jsonb;not null;default:'[]'" json:"chapters"`
	Timeline          datatypes.JSON `gorm:"type:jsonb;not null;default:'[]'" json:"timeline"`
	Mindmap           datatypes.JSON `gorm:"type:jsonb;not null;default:'{}'" json:"mindmap"`

	CreatedAt time.Time `gorm:"not null" json:"created_at"`
	UpdatedAt time.Time `gorm:"not null" json:"updated_at"`
}

func (MeetingAnalysis) TableName() string { return "meeting_analysis" }
