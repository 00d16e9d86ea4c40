package meeting

import (
	"context"
	"fmt"

	"github.com/google/uuid"
	"gorm.io/gorm"

	"github.com/summerstudio/meetscribe-backend/internal/data/repos"
	"github.com/summerstudio/meetscribe-backend/internal/domain"
	"github.com/summerstudio/meetscribe-backend/internal/modules/meeting/steps"
	"github.com/summerstudio/meetscribe-backend/internal/platform/llm"
	"github.com/summerstudio/meetscribe-backend/internal/platform/logger"
	"github.com/summerstudio/meetscribe-backend/internal/platform/neo4jdb"
	"github.com/summerstudio/meetscribe-backend/internal/platform/redisdb"
)

type UsecasesDeps struct {
	DB  *gorm.DB
	Log *logger.Logger
	AI  llm.Client

	Meetings repos.MeetingRepo
	Analyses repos.AnalysisRepo

	// Optional integrations; nil disables them.
	Graph *neo4jdb.Client
	Cache *redisdb.Cache

	BuilderCfg steps.BuilderConfig
}

type Usecases struct {
	deps UsecasesDeps
}

func New(deps UsecasesDeps) Usecases { return Usecases{deps: deps} }

type (
	AnalyzeInput  = steps.AnalyzeInput
	AnalyzeOutput = steps.AnalyzeOutput
)

func (u Usecases) Analyze(ctx context.Context, in AnalyzeInput) (AnalyzeOutput, error) {
	return steps.Analyze(ctx, steps.AnalyzeDeps{
		DB:         u.deps.DB,
		Log:        u.deps.Log,
		AI:         u.deps.AI,
		Meetings:   u.deps.Meetings,
		Analyses:   u.deps.Analyses,
		Graph:      u.deps.Graph,
		Cache:      u.deps.Cache,
		BuilderCfg: u.deps.BuilderCfg,
	}, in)
}

// GetMeeting returns the stored analysis for one meeting.
func (u Usecases) GetMeeting(ctx context.Context, id uuid.UUID) (domain.AnalysisResult, error) {
	result := domain.AnalysisResult{}
	meeting, err := u.deps.Meetings.GetByID(ctx, nil, id)
	if err != nil {
		return result, err
	}
	if meeting == nil {
		return result, ErrMeetingNotFound
	}
	analysis, err := u.deps.Analyses.GetByMeetingID(ctx, nil, id)
	if err != nil {
		return result, err
	}
	if analysis == nil {
		return result, ErrMeetingNotFound
	}
	return steps.AssembleResult(meeting, analysis)
}

// GetMindmap returns just the mindmap graph for one meeting.
func (u Usecases) GetMindmap(ctx context.Context, id uuid.UUID) (domain.MindmapGraph, error) {
	result, err := u.GetMeeting(ctx, id)
	if err != nil {
		return domain.MindmapGraph{}, err
	}
	return result.Mindmap, nil
}

// ListMeetings returns recent meetings, newest first.
func (u Usecases) ListMeetings(ctx context.Context, limit, offset int) ([]*domain.Meeting, error) {
	return u.deps.Meetings.List(ctx, nil, limit, offset)
}

var ErrMeetingNotFound = fmt.Errorf("meeting not found")
