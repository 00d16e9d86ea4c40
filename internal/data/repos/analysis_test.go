package repos

import (
	"context"
	"testing"

	"github.com/summerstudio/meetscribe-backend/internal/data/repos/testutil"
	"github.com/summerstudio/meetscribe-backend/internal/domain"
)

func TestAnalysisRepoUpsertReplacesPriorRun(t *testing.T) {
	db := testutil.DB(t)
	tx := testutil.Tx(t, db)

	repo := NewAnalysisRepo(db, testutil.Logger(t))
	ctx := context.Background()

	meeting := testutil.SeedMeeting(t, ctx, tx, "sha-analysis-repo")

	first := &domain.MeetingAnalysis{
		MeetingID:         meeting.ID,
		Model:             "gpt-4o-mini",
		CollectiveSummary: []byte(`{"narrative_summary":"v1"}`),
		Chapters:          []byte(`[]`),
		Timeline:          []byte(`[]`),
		Mindmap:           []byte(`{}`),
	}
	if err := repo.Upsert(ctx, tx, first); err != nil {
		t.Fatalf("Upsert (first): %v", err)
	}

	second := &domain.MeetingAnalysis{
		MeetingID:         meeting.ID,
		Model:             "gpt-4o",
		CollectiveSummary: []byte(`{"narrative_summary":"v2"}`),
		Chapters:          []byte(`[]`),
		Timeline:          []byte(`[]`),
		Mindmap:           []byte(`{}`),
	}
	if err := repo.Upsert(ctx, tx, second); err != nil {
		t.Fatalf("Upsert (second): %v", err)
	}

	var count int64
	if err := tx.WithContext(ctx).
		Model(&domain.MeetingAnalysis{}).
		Where("meeting_id = ?", meeting.ID).
		Count(&count).Error; err != nil {
		t.Fatalf("count: %v", err)
	}
	if count != 1 {
		t.Fatalf("expected a single analysis row, got %d", count)
	}

	got, err := repo.GetByMeetingID(ctx, tx, meeting.ID)
	if err != nil {
		t.Fatalf("GetByMeetingID: %v", err)
	}
	if got == nil || got.Model != "gpt-4o" {
		t.Fatalf("upsert did not replace the row: %+v", got)
	}
	if string(got.CollectiveSummary) != `{"narrative_summary":"v2"}` {
		t.Fatalf("collective summary = %s", got.CollectiveSummary)
	}

	if err := repo.FullDeleteByMeetingID(ctx, tx, meeting.ID); err != nil {
		t.Fatalf("FullDeleteByMeetingID: %v", err)
	}
	got, err = repo.GetByMeetingID(ctx, tx, meeting.ID)
	if err != nil {
		t.Fatalf("GetByMeetingID after delete: %v", err)
	}
	if got != nil {
		t.Fatalf("analysis row survived delete: %+v", got)
	}
}
