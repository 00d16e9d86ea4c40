package repos

import (
	"context"

	"github.com/google/uuid"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"

	"github.com/summerstudio/meetscribe-backend/internal/domain"
	"github.com/summerstudio/meetscribe-backend/internal/platform/logger"
)

type AnalysisRepo interface {
	// Upsert writes the analysis row for a meeting, replacing any prior run.
	Upsert(ctx context.Context, tx *gorm.DB, row *domain.MeetingAnalysis) error
	GetByMeetingID(ctx context.Context, tx *gorm.DB, meetingID uuid.UUID) (*domain.MeetingAnalysis, error)
	FullDeleteByMeetingID(ctx context.Context, tx *gorm.DB, meetingID uuid.UUID) error
}

type analysisRepo struct {
	db  *gorm.DB
	log *logger.Logger
}

func NewAnalysisRepo(db *gorm.DB, baseLog *logger.Logger) AnalysisRepo {
	return &analysisRepo{db: db, log: baseLog.With("repo", "AnalysisRepo")}
}

func (r *analysisRepo) Upsert(ctx context.Context, tx *gorm.DB, row *domain.MeetingAnalysis) error {
	t := tx
	if t == nil {
		t = r.db
	}
	if row.ID == uuid.Nil {
		row.ID = uuid.New()
	}
	return t.WithContext(ctx).
		Clauses(clause.OnConflict{
			Columns: []clause.Column{{Name: "meeting_id"}},
			DoUpdates: clause.AssignmentColumns([]string{
				"model", "collective_summary", "chapters", "timeline", "mindmap", "updated_at",
			}),
		}).
		Create(row).Error
}

func (r *analysisRepo) GetByMeetingID(ctx context.Context, tx *gorm.DB, meetingID uuid.UUID) (*domain.MeetingAnalysis, error) {
	if meetingID == uuid.Nil {
		return nil, nil
	}
	t := tx
	if t == nil {
		t = r.db
	}
	var out []*domain.MeetingAnalysis
	if err := t.WithContext(ctx).
		Where("meeting_id = ?", meetingID).
		Limit(1).
		Find(&out).Error; err != nil {
		return nil, err
	}
	if len(out) == 0 {
		return nil, nil
	}
	return out[0], nil
}

func (r *analysisRepo) FullDeleteByMeetingID(ctx context.Context, tx *gorm.DB, meetingID uuid.UUID) error {
	if meetingID == uuid.Nil {
		return nil
	}
	t := tx
	if t == nil {
		t = r.db
	}
	return t.WithContext(ctx).
		Where("meeting_id = ?", meetingID).
		Delete(&domain.MeetingAnalysis{}).Error
}
