package repos

import (
	"context"

	"github.com/google/uuid"
	"gorm.io/gorm"

	"github.com/summerstudio/meetscribe-backend/internal/domain"
	"github.com/summerstudio/meetscribe-backend/internal/platform/logger"
)

type MeetingRepo interface {
	Create(ctx context.Context, tx *gorm.DB, row *domain.Meeting) error
	GetByID(ctx context.Context, tx *gorm.DB, id uuid.UUID) (*domain.Meeting, error)
	GetByTranscriptSHA(ctx context.Context, tx *gorm.DB, sha string) (*domain.Meeting, error)
	List(ctx context.Context, tx *gorm.DB, limit, offset int) ([]*domain.Meeting, error)
	UpdateFields(ctx context.Context, tx *gorm.DB, id uuid.UUID, updates map[string]interface{}) error
	SoftDeleteByID(ctx context.Context, tx *gorm.DB, id uuid.UUID) error
}

type meetingRepo struct {
	db  *gorm.DB
	log *logger.Logger
}

func NewMeetingRepo(db *gorm.DB, baseLog *logger.Logger) MeetingRepo {
	return &meetingRepo{db: db, log: baseLog.With("repo", "MeetingRepo")}
}

func (r *meetingRepo) Create(ctx context.Context, tx *gorm.DB, row *domain.Meeting) error {
	t := tx
	if t == nil {
		t = r.db
	}
	if row.ID == uuid.Nil {
		row.ID = uuid.New()
	}
	return t.WithContext(ctx).Create(row).Error
}

func (r *meetingRepo) GetByID(ctx context.Context, tx *gorm.DB, id uuid.UUID) (*domain.Meeting, error) {
	if id == uuid.Nil {
		return nil, nil
	}
	t := tx
	if t == nil {
		t = r.db
	}
	var out []*domain.Meeting
	if err := t.WithContext(ctx).Where("id = ?", id).Limit(1).Find(&out).Error; err != nil {
		return nil, err
	}
	if len(out) == 0 {
		return nil, nil
	}
	return out[0], nil
}

func (r *meetingRepo) GetByTranscriptSHA(ctx context.Context, tx *gorm.DB, sha string) (*domain.Meeting, error) {
	if sha == "" {
		return nil, nil
	}
	t := tx
	if t == nil {
		t = r.db
	}
	var out []*domain.Meeting
	if err := t.WithContext(ctx).
		Where("transcript_sha = ?", sha).
		Order("created_at DESC").
		Limit(1).
		Find(&out).Error; err != nil {
		return nil, err
	}
	if len(out) == 0 {
		return nil, nil
	}
	return out[0], nil
}

func (r *meetingRepo) List(ctx context.Context, tx *gorm.DB, limit, offset int) ([]*domain.Meeting, error) {
	t := tx
	if t == nil {
		t = r.db
	}
	if limit <= 0 || limit > 200 {
		limit = 50
	}
	if offset < 0 {
		offset = 0
	}
	var out []*domain.Meeting
	if err := t.WithContext(ctx).
		Order("created_at DESC").
		Limit(limit).
		Offset(offset).
		Find(&out).Error; err != nil {
		return nil, err
	}
	return out, nil
}

func (r *meetingRepo) UpdateFields(ctx context.Context, tx *gorm.DB, id uuid.UUID, updates map[string]interface{}) error {
	if id == uuid.Nil || len(updates) == 0 {
		return nil
	}
	t := tx
	if t == nil {
		t = r.db
	}
	return t.WithContext(ctx).
		Model(&domain.Meeting{}).
		Where("id = ?", id).
		Updates(updates).Error
}

func (r *meetingRepo) SoftDeleteByID(ctx context.Context, tx *gorm.DB, id uuid.UUID) error {
	if id == uuid.Nil {
		return nil
	}
	t := tx
	if t == nil {
		t = r.db
	}
	return t.WithContext(ctx).Where("id = ?", id).Delete(&domain.Meeting{}).Error
}
