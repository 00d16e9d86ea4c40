package steps

import (
	"context"
	"fmt"

	"github.com/summerstudio/meetscribe-backend/internal/domain"
	"github.com/summerstudio/meetscribe-backend/internal/platform/llm"
	"github.com/summerstudio/meetscribe-backend/internal/platform/logger"
	"github.com/summerstudio/meetscribe-backend/internal/transcript"
)

type ExtractionDeps struct {
	Log *logger.Logger
	AI  llm.Client
}

type ExtractionInput struct {
	Utterances []transcript.Utterance
	Chapters   []domain.Chapter
}

type ExtractionOutput struct {
	ActionItems  []domain.ActionItem
	Achievements []domain.Achievement
	Blockers     []domain.Blocker
}

// Extraction pulls action items, achievements, and blockers out of the
// transcript with verbatim evidence quotes. The transcript is rendered
// without timestamps so quoted evidence matches what the model saw.
func Extraction(ctx context.Context, deps ExtractionDeps, in ExtractionInput) (ExtractionOutput, error) {
	out := ExtractionOutput{}
	if deps.Log == nil || deps.AI == nil {
		return out, fmt.Errorf("extraction: missing deps")
	}
	if len(in.Utterances) == 0 {
		return out, nil
	}

	result, err := deps.AI.GenerateJSON(ctx, extractionSystemPrompt,
		extractionUserPrompt(plainTranscript(in.Utterances), chapterOutline(in.Chapters)))
	if err != nil {
		return out, fmt.Errorf("extraction: %w", err)
	}

	out.ActionItems = NormalizeActionItems(result["action_items"])
	out.Achievements = NormalizeAchievements(result["achievements"])
	out.Blockers = NormalizeBlockers(result["blockers"])

	deps.Log.Info("extraction stage complete",
		"action_items", len(out.ActionItems),
		"achievements", len(out.Achievements),
		"blockers", len(out.Blockers),
	)
	return out, nil
}
