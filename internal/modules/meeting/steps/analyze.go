package steps

import (
	"context"
	"crypto/sha256"
	"encoding/hex"
	"encoding/json"
	"fmt"
	"time"

	"github.com/google/uuid"
	"golang.org/x/sync/errgroup"
	"gorm.io/datatypes"
	"gorm.io/gorm"

	graphstore "github.com/summerstudio/meetscribe-backend/internal/data/graph"
	"github.com/summerstudio/meetscribe-backend/internal/data/repos"
	"github.com/summerstudio/meetscribe-backend/internal/domain"
	"github.com/summerstudio/meetscribe-backend/internal/platform/llm"
	"github.com/summerstudio/meetscribe-backend/internal/platform/logger"
	"github.com/summerstudio/meetscribe-backend/internal/platform/neo4jdb"
	"github.com/summerstudio/meetscribe-backend/internal/platform/redisdb"
	"github.com/summerstudio/meetscribe-backend/internal/transcript"
)

type AnalyzeDeps struct {
	DB  *gorm.DB
	Log *logger.Logger
	AI  llm.Client

	Meetings repos.MeetingRepo
	Analyses repos.AnalysisRepo

	// Optional integrations; nil disables them.
	Graph *neo4jdb.Client
	Cache *redisdb.Cache

	BuilderCfg BuilderConfig
}

type AnalyzeInput struct {
	RawVTT string
	// Model overrides the configured model for this run; empty or placeholder
	// values keep the default.
	Model string
	// Force skips the transcript-hash cache and reruns the pipeline.
	Force bool
}

type AnalyzeOutput struct {
	MeetingID uuid.UUID
	Result    domain.AnalysisResult
	// FromCache is true when the result was served without rerunning stages.
	FromCache bool
}

// Analyze runs the whole pipeline for one VTT transcript: parse, the three
// model stages, deterministic mindmap construction, then persistence. The
// transcript hash dedupes repeat uploads; identical content returns the
// stored analysis.
func Analyze(ctx context.Context, deps AnalyzeDeps, in AnalyzeInput) (AnalyzeOutput, error) {
	out := AnalyzeOutput{}
	if deps.DB == nil || deps.Log == nil || deps.AI == nil || deps.Meetings == nil || deps.Analyses == nil {
		return out, fmt.Errorf("analyze: missing deps")
	}
	log := deps.Log.With("step", "Analyze")
	ai := llm.WithModel(deps.AI, in.Model)

	sum := sha256.Sum256([]byte(in.RawVTT))
	sha := hex.EncodeToString(sum[:])

	if !in.Force {
		if cached, ok := cachedResult(ctx, deps, sha); ok {
			log.Info("analysis served from cache", "transcript_sha", sha)
			out.MeetingID = parseMeetingID(cached.MeetingID)
			out.Result = cached
			out.FromCache = true
			return out, nil
		}
		if existing, err := deps.Meetings.GetByTranscriptSHA(ctx, nil, sha); err == nil && existing != nil && existing.Status == "complete" {
			if stored, err := loadStoredResult(ctx, deps, existing); err == nil {
				log.Info("analysis served from store", "meeting_id", existing.ID)
				out.MeetingID = existing.ID
				out.Result = stored
				out.FromCache = true
				return out, nil
			}
		}
	}

	utterances := transcript.ParseVTT(in.RawVTT)
	if len(utterances) == 0 {
		return out, fmt.Errorf("analyze: transcript has no utterances")
	}

	meeting := &domain.Meeting{
		ID:            uuid.New(),
		TranscriptSHA: sha,
		Status:        "processing",
		Participants:  datatypes.JSON([]byte("[]")),
	}
	if err := deps.Meetings.Create(ctx, nil, meeting); err != nil {
		return out, fmt.Errorf("analyze: create meeting: %w", err)
	}
	out.MeetingID = meeting.ID
	log = log.With("meeting_id", meeting.ID)

	result, err := runStages(ctx, deps, ai, log, utterances)
	if err != nil {
		_ = deps.Meetings.UpdateFields(ctx, nil, meeting.ID, map[string]interface{}{"status": "failed"})
		return out, err
	}
	result.MeetingID = meeting.ID.String()
	out.Result = result

	if err := persistResult(ctx, deps, log, meeting.ID, sha, ai.Model(), result); err != nil {
		_ = deps.Meetings.UpdateFields(ctx, nil, meeting.ID, map[string]interface{}{"status": "failed"})
		return out, err
	}
	return out, nil
}

func runStages(ctx context.Context, deps AnalyzeDeps, ai llm.Client, log *logger.Logger, utterances []transcript.Utterance) (domain.AnalysisResult, error) {
	result := domain.AnalysisResult{}
	started := time.Now()

	foundation, err := Foundation(ctx, FoundationDeps{Log: log, AI: ai}, FoundationInput{Utterances: utterances})
	if err != nil {
		return result, fmt.Errorf("analyze: %w", err)
	}

	extraction, err := Extraction(ctx, ExtractionDeps{Log: log, AI: ai}, ExtractionInput{
		Utterances: utterances,
		Chapters:   foundation.Chapters,
	})
	if err != nil {
		return result, fmt.Errorf("analyze: %w", err)
	}

	synthesis, err := Synthesis(ctx, SynthesisDeps{Log: log, AI: ai}, SynthesisInput{
		Utterances:  utterances,
		Chapters:    foundation.Chapters,
		ActionItems: extraction.ActionItems,
	})
	if err != nil {
		return result, fmt.Errorf("analyze: %w", err)
	}

	details := foundation.MeetingDetails
	details.Title = shortenTitle(details.Title, 8)

	chapters := attachSegmentIDs(synthesis.Chapters, utterances)

	collective := domain.CollectiveSummary{
		NarrativeSummary: synthesis.NarrativeSummary,
		ActionItems:      extraction.ActionItems,
		Achievements:     extraction.Achievements,
		Blockers:         extraction.Blockers,
	}

	mindmap := BuildMindmap(MindmapInput{
		MeetingDetails:   details,
		NarrativeSummary: synthesis.NarrativeSummary,
		Chapters:         chapters,
		Collective:       collective,
		Timeline:         foundation.Timeline,
	}, deps.BuilderCfg, log)

	log.Info("pipeline stages complete",
		"elapsed", time.Since(started).String(),
		"themes", mindmap.Meta.Themes,
		"claims", mindmap.Meta.Claims,
		"outcomes", mindmap.Meta.Outcomes,
	)

	result.MeetingDetails = details
	result.CollectiveSummary = collective
	result.Chapters = chapters
	result.Timeline = foundation.Timeline
	result.Mindmap = mindmap
	return result, nil
}

// attachSegmentIDs maps fixed windows onto chapter boundaries so chapters
// reference the transcript segments they cover.
func attachSegmentIDs(chapters []domain.Chapter, utterances []transcript.Utterance) []domain.Chapter {
	segments := transcript.SegmentUtterances(utterances, transcript.DefaultSegmentLenMS, 0)
	out := make([]domain.Chapter, len(chapters))
	for i, ch := range chapters {
		out[i] = ch
		if len(out[i].SegmentIDs) > 0 {
			continue
		}
		for _, seg := range segments {
			if seg.WindowStartMS < ch.EndMS && seg.WindowEndMS > ch.StartMS {
				out[i].SegmentIDs = append(out[i].SegmentIDs, seg.ID)
			}
		}
	}
	return out
}

func persistResult(ctx context.Context, deps AnalyzeDeps, log *logger.Logger, meetingID uuid.UUID, sha, model string, result domain.AnalysisResult) error {
	participants, _ := json.Marshal(result.MeetingDetails.Participants)
	if err := deps.Meetings.UpdateFields(ctx, nil, meetingID, map[string]interface{}{
		"title":         result.MeetingDetails.Title,
		"date":          result.MeetingDetails.Date,
		"duration_ms":   result.MeetingDetails.DurationMS,
		"unknown_count": result.MeetingDetails.UnknownCount,
		"participants":  datatypes.JSON(participants),
		"status":        "complete",
	}); err != nil {
		return fmt.Errorf("analyze: update meeting: %w", err)
	}

	analysis := &domain.MeetingAnalysis{
		MeetingID:         meetingID,
		Model:             model,
		CollectiveSummary: mustJSON(result.CollectiveSummary),
		Chapters:          mustJSON(result.Chapters),
		Timeline:          mustJSON(result.Timeline),
		Mindmap:           mustJSON(result.Mindmap),
	}
	if err := deps.Analyses.Upsert(ctx, nil, analysis); err != nil {
		return fmt.Errorf("analyze: upsert analysis: %w", err)
	}

	// Graph sync and cache write are side channels; failures log but do not
	// fail the request.
	g, gctx := errgroup.WithContext(ctx)
	g.Go(func() error {
		if err := graphstore.UpsertMeetingMindmap(gctx, deps.Graph, log, meetingID, result.Mindmap); err != nil {
			log.Warn("neo4j mindmap sync failed", "error", err)
		}
		return nil
	})
	g.Go(func() error {
		if deps.Cache != nil {
			if err := deps.Cache.SetJSON(gctx, cacheKey(sha), result); err != nil {
				log.Warn("analysis cache write failed", "error", err)
			}
		}
		return nil
	})
	return g.Wait()
}

func cachedResult(ctx context.Context, deps AnalyzeDeps, sha string) (domain.AnalysisResult, bool) {
	var result domain.AnalysisResult
	if deps.Cache == nil {
		return result, false
	}
	ok, err := deps.Cache.GetJSON(ctx, cacheKey(sha), &result)
	if err != nil || !ok {
		return result, false
	}
	return result, result.MeetingID != ""
}

func loadStoredResult(ctx context.Context, deps AnalyzeDeps, meeting *domain.Meeting) (domain.AnalysisResult, error) {
	result := domain.AnalysisResult{}
	analysis, err := deps.Analyses.GetByMeetingID(ctx, nil, meeting.ID)
	if err != nil {
		return result, err
	}
	if analysis == nil {
		return result, fmt.Errorf("analyze: no stored analysis for meeting %s", meeting.ID)
	}
	return AssembleResult(meeting, analysis)
}

// AssembleResult rebuilds the API payload from the stored meeting and
// analysis rows.
func AssembleResult(meeting *domain.Meeting, analysis *domain.MeetingAnalysis) (domain.AnalysisResult, error) {
	result := domain.AnalysisResult{MeetingID: meeting.ID.String()}
	result.MeetingDetails = domain.MeetingDetails{
		Title:        meeting.Title,
		Date:         meeting.Date,
		DurationMS:   meeting.DurationMS,
		UnknownCount: meeting.UnknownCount,
	}
	if len(meeting.Participants) > 0 {
		if err := json.Unmarshal(meeting.Participants, &result.MeetingDetails.Participants); err != nil {
			return result, err
		}
	}
	if len(analysis.CollectiveSummary) > 0 {
		if err := json.Unmarshal(analysis.CollectiveSummary, &result.CollectiveSummary); err != nil {
			return result, err
		}
	}
	if len(analysis.Chapters) > 0 {
		if err := json.Unmarshal(analysis.Chapters, &result.Chapters); err != nil {
			return result, err
		}
	}
	if len(analysis.Timeline) > 0 {
		if err := json.Unmarshal(analysis.Timeline, &result.Timeline); err != nil {
			return result, err
		}
	}
	if len(analysis.Mindmap) > 0 {
		if err := json.Unmarshal(analysis.Mindmap, &result.Mindmap); err != nil {
			return result, err
		}
	}
	return result, nil
}

func cacheKey(sha string) string { return "meetscribe:analysis:" + sha }

func mustJSON(v any) datatypes.JSON {
	b, _ := json.Marshal(v)
	return datatypes.JSON(b)
}

func parseMeetingID(s string) uuid.UUID {
	id, err := uuid.Parse(s)
	if err != nil {
		return uuid.Nil
	}
	return id
}
