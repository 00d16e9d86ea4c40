package steps

import (
	"context"
	"fmt"

	"github.com/summerstudio/meetscribe-backend/internal/domain"
	"github.com/summerstudio/meetscribe-backend/internal/platform/llm"
	"github.com/summerstudio/meetscribe-backend/internal/platform/logger"
	"github.com/summerstudio/meetscribe-backend/internal/transcript"
)

type FoundationDeps struct {
	Log *logger.Logger
	AI  llm.Client
}

type FoundationInput struct {
	Utterances []transcript.Utterance
}

type FoundationOutput struct {
	MeetingDetails domain.MeetingDetails
	Timeline       []domain.TimelineEntry
	Chapters       []domain.Chapter
}

// Foundation extracts the structural skeleton of the meeting: metadata,
// a timeline of key moments, and chapter boundaries. Later stages build on
// these, so the output is normalized defensively; participants always come
// from the transcript when the model fails to list them.
func Foundation(ctx context.Context, deps FoundationDeps, in FoundationInput) (FoundationOutput, error) {
	out := emptyFoundation()
	if deps.Log == nil || deps.AI == nil {
		return out, fmt.Errorf("foundation: missing deps")
	}
	if len(in.Utterances) == 0 {
		return out, nil
	}

	durationMS := in.Utterances[len(in.Utterances)-1].EndMS
	full := timestampedTranscript(in.Utterances)

	result, err := deps.AI.GenerateJSON(ctx, foundationSystemPrompt, foundationUserPrompt(full, len(in.Utterances), durationMS))
	if err != nil {
		return out, fmt.Errorf("foundation: %w", err)
	}

	out = normalizeFoundation(result, in.Utterances, durationMS)
	deps.Log.Info("foundation stage complete",
		"title", out.MeetingDetails.Title,
		"participants", len(out.MeetingDetails.Participants),
		"timeline_points", len(out.Timeline),
		"chapters", len(out.Chapters),
	)
	return out, nil
}

func emptyFoundation() FoundationOutput {
	return FoundationOutput{
		MeetingDetails: domain.MeetingDetails{Title: "Untitled Meeting"},
	}
}

func normalizeFoundation(result map[string]any, utterances []transcript.Utterance, durationMS int64) FoundationOutput {
	out := FoundationOutput{}

	details, _ := result["meeting_details"].(map[string]any)
	out.MeetingDetails.Title = asString(details["title"], "Untitled Meeting")
	out.MeetingDetails.Date = asString(details["date"], "")
	out.MeetingDetails.DurationMS = durationMS
	out.MeetingDetails.UnknownCount = int(toInt64(details["unknown_count"], 0))
	if list, ok := details["participants"].([]any); ok {
		for _, p := range list {
			if name := asString(p, ""); name != "" {
				out.MeetingDetails.Participants = append(out.MeetingDetails.Participants, name)
			}
		}
	}
	if len(out.MeetingDetails.Participants) == 0 {
		roster, unknown := transcript.Participants(utterances)
		out.MeetingDetails.Participants = roster
		out.MeetingDetails.UnknownCount = unknown
	}

	out.Timeline = NormalizeTimeline(result["timeline"])

	if list, ok := result["chapters"].([]any); ok {
		for i, entry := range list {
			item, isMap := entry.(map[string]any)
			if !isMap {
				continue
			}
			out.Chapters = append(out.Chapters, domain.Chapter{
				ChapterID: asString(item["chapter_id"], fmt.Sprintf("ch%d", i+1)),
				Title:     asString(item["title"], fmt.Sprintf("Chapter %d", i+1)),
				StartMS:   toInt64(item["start_ms"], 0),
				EndMS:     toInt64(item["end_ms"], durationMS),
			})
		}
	}
	if len(out.Chapters) == 0 {
		out.Chapters = []domain.Chapter{{
			ChapterID: "ch1",
			Title:     "Full Meeting",
			StartMS:   0,
			EndMS:     durationMS,
		}}
	}
	return out
}
