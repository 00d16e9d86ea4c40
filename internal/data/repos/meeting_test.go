package repos

import (
	"context"
	"testing"

	"github.com/google/uuid"

	"github.com/summerstudio/meetscribe-backend/internal/data/repos/testutil"
	"github.com/summerstudio/meetscribe-backend/internal/domain"
)

func TestMeetingRepo(t *testing.T) {
	db := testutil.DB(t)
	tx := testutil.Tx(t, db)

	repo := NewMeetingRepo(db, testutil.Logger(t))
	ctx := context.Background()

	row := &domain.Meeting{
		Title:         "Q3 Planning",
		TranscriptSHA: "sha-meeting-repo",
		Status:        "processing",
		Participants:  []byte(`[]`),
	}
	if err := repo.Create(ctx, tx, row); err != nil {
		t.Fatalf("Create: %v", err)
	}
	if row.ID == uuid.Nil {
		t.Fatalf("Create: id not assigned")
	}

	got, err := repo.GetByID(ctx, tx, row.ID)
	if err != nil {
		t.Fatalf("GetByID: %v", err)
	}
	if got == nil || got.Title != "Q3 Planning" {
		t.Fatalf("GetByID: unexpected result: %+v", got)
	}

	got, err = repo.GetByID(ctx, tx, uuid.New())
	if err != nil {
		t.Fatalf("GetByID (missing): %v", err)
	}
	if got != nil {
		t.Fatalf("GetByID (missing): expected nil, got %+v", got)
	}

	bySHA, err := repo.GetByTranscriptSHA(ctx, tx, "sha-meeting-repo")
	if err != nil {
		t.Fatalf("GetByTranscriptSHA: %v", err)
	}
	if bySHA == nil || bySHA.ID != row.ID {
		t.Fatalf("GetByTranscriptSHA: unexpected result: %+v", bySHA)
	}

	if err := repo.UpdateFields(ctx, tx, row.ID, map[string]interface{}{
		"status": "complete",
		"title":  "Q3 Planning Sync",
	}); err != nil {
		t.Fatalf("UpdateFields: %v", err)
	}
	got, err = repo.GetByID(ctx, tx, row.ID)
	if err != nil {
		t.Fatalf("GetByID after update: %v", err)
	}
	if got.Status != "complete" || got.Title != "Q3 Planning Sync" {
		t.Fatalf("UpdateFields not applied: %+v", got)
	}

	listed, err := repo.List(ctx, tx, 10, 0)
	if err != nil {
		t.Fatalf("List: %v", err)
	}
	found := false
	for _, m := range listed {
		if m.ID == row.ID {
			found = true
		}
	}
	if !found {
		t.Fatalf("List: created meeting missing")
	}

	if err := repo.SoftDeleteByID(ctx, tx, row.ID); err != nil {
		t.Fatalf("SoftDeleteByID: %v", err)
	}
	got, err = repo.GetByID(ctx, tx, row.ID)
	if err != nil {
		t.Fatalf("GetByID after delete: %v", err)
	}
	if got != nil {
		t.Fatalf("soft-deleted meeting still visible: %+v", got)
	}
}

func TestMeetingRepoNilGuards(t *testing.T) {
	db := testutil.DB(t)
	tx := testutil.Tx(t, db)

	repo := NewMeetingRepo(db, testutil.Logger(t))
	ctx := context.Background()

	got, err := repo.GetByID(ctx, tx, uuid.Nil)
	if err != nil || got != nil {
		t.Fatalf("GetByID(nil) = (%+v, %v)", got, err)
	}
	got, err = repo.GetByTranscriptSHA(ctx, tx, "")
	if err != nil || got != nil {
		t.Fatalf("GetByTranscriptSHA(\"\") = (%+v, %v)", got, err)
	}
	if err := repo.UpdateFields(ctx, tx, uuid.Nil, map[string]interface{}{"status": "x"}); err != nil {
		t.Fatalf("UpdateFields(nil id): %v", err)
	}
	if err := repo.SoftDeleteByID(ctx, tx, uuid.Nil); err != nil {
		t.Fatalf("SoftDeleteByID(nil id): %v", err)
	}
}
