package steps

import (
	"context"
	"fmt"
	"strings"

	"github.com/summerstudio/meetscribe-backend/internal/domain"
	"github.com/summerstudio/meetscribe-backend/internal/platform/llm"
	"github.com/summerstudio/meetscribe-backend/internal/platform/logger"
	"github.com/summerstudio/meetscribe-backend/internal/transcript"
)

type SynthesisDeps struct {
	Log *logger.Logger
	AI  llm.Client
}

type SynthesisInput struct {
	Utterances  []transcript.Utterance
	Chapters    []domain.Chapter
	ActionItems []domain.ActionItem
}

type SynthesisOutput struct {
	NarrativeSummary string
	Chapters         []domain.Chapter
}

// Synthesis writes the executive narrative and per-chapter summaries. The
// chapter structure from the foundation stage is authoritative; the model
// only contributes summary text, merged back by chapter id.
func Synthesis(ctx context.Context, deps SynthesisDeps, in SynthesisInput) (SynthesisOutput, error) {
	out := SynthesisOutput{Chapters: placeholderChapters(in.Chapters)}
	if deps.Log == nil || deps.AI == nil {
		return out, fmt.Errorf("synthesis: missing deps")
	}
	if len(in.Utterances) == 0 {
		return out, nil
	}

	actionLines := make([]string, 0, len(in.ActionItems))
	for _, item := range in.ActionItems {
		actionLines = append(actionLines, fmt.Sprintf("- %s (owner: %s)", item.Task, item.Owner))
	}

	result, err := deps.AI.GenerateJSON(ctx, synthesisSystemPrompt,
		synthesisUserPrompt(plainTranscript(in.Utterances), chapterOutline(in.Chapters), strings.Join(actionLines, "\n")))
	if err != nil {
		return out, fmt.Errorf("synthesis: %w", err)
	}

	narrative := asString(result["narrative_summary"], "")
	narrative = SanitizeNarrativeSummary(narrative)
	out.NarrativeSummary = EnsureMarkdownHeadings(narrative)

	summaries := map[string]string{}
	if list, ok := result["chapters"].([]any); ok {
		for _, entry := range list {
			item, isMap := entry.(map[string]any)
			if !isMap {
				continue
			}
			id := asString(item["chapter_id"], "")
			summary := asString(item["summary"], "")
			if id != "" && summary != "" {
				summaries[id] = summary
			}
		}
	}
	for i := range out.Chapters {
		if s, ok := summaries[out.Chapters[i].ChapterID]; ok {
			out.Chapters[i].Summary = s
		}
	}

	deps.Log.Info("synthesis stage complete",
		"narrative_chars", len(out.NarrativeSummary),
		"chapter_summaries", len(summaries),
	)
	return out, nil
}

// placeholderChapters copies the foundation chapters with a default summary
// so a missing model summary never leaves a chapter blank.
func placeholderChapters(chapters []domain.Chapter) []domain.Chapter {
	out := make([]domain.Chapter, len(chapters))
	for i, ch := range chapters {
		ch.Summary = "No summary available for this chapter."
		out[i] = ch
	}
	return out
}
