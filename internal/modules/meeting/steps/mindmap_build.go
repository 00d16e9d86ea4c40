package steps

import (
	"github.com/summerstudio/meetscribe-backend/internal/domain"
	"github.com/summerstudio/meetscribe-backend/internal/platform/logger"
)

// BuilderConfig carries the tunables of the coverage-first mindmap builder.
// The floors and the cluster-count heuristic are empirically tuned for
// typical meeting lengths, not derived; they are parameters so they can be
// re-tuned without touching the algorithm.
type BuilderConfig struct {
	// MaxVisibleThemes caps the top-level theme nodes; overflow folds into a
	// synthetic "More Topics" theme.
	MaxVisibleThemes int
	// MinClaimWords drops sentence fragments shorter than this many words.
	MinClaimWords int
	// SimilarityFloor is the minimum cosine similarity for attaching an
	// outcome to a theme by text alone.
	SimilarityFloor float64
	// TimeMatchFloor is the minimum token/speaker-overlap score for accepting
	// a timeline entry as a claim's time hint.
	TimeMatchFloor int
	// Seed fixes k-means initialization for reproducible clustering.
	Seed int64
}

func DefaultBuilderConfig() BuilderConfig {
	return BuilderConfig{
		MaxVisibleThemes: 7,
		MinClaimWords:    4,
		SimilarityFloor:  0.12,
		TimeMatchFloor:   2,
		Seed:             42,
	}
}

// claim is an atomic assertion extracted from narrative or chapter text.
// Claims are created once, assigned a theme once, and never dropped. Folding
// into "More Topics" only re-points ThemeID.
type claim struct {
	ID           string
	Text         string
	Source       string
	ChapterID    string
	ChapterTitle string
	Participants []string
	TimeHintMS   int64
	HasTimeHint  bool
	Confidence   float64
	ThemeID      string
}

// outcome is a normalized action item, achievement, blocker, or decision.
type outcome struct {
	ID          string
	Type        string
	Title       string
	Owner       string
	People      []string
	Deadline    string
	Status      string
	Evidence    []domain.Evidence
	TimeHintMS  int64
	HasTimeHint bool
	Confidence  float64
	ThemeID     string
}

// theme is a cluster of claims plus the outcomes attached to it. Claims are
// referenced by index into the builder's claim arena rather than copied.
type theme struct {
	ID           string
	Label        string
	ClaimIndices []int
	OutcomeIDs   []string
	Chapters     map[string]bool
	Keywords     []string
	Score        float64
}

type timelineIndexEntry struct {
	TimestampMS int64
	Tokens      map[string]bool
	Speakers    []string
}

// MindmapInput is the pre-materialized upstream data the builder consumes.
// The builder performs no I/O over it.
type MindmapInput struct {
	MeetingDetails   domain.MeetingDetails
	NarrativeSummary string
	Chapters         []domain.Chapter
	Collective       domain.CollectiveSummary
	Timeline         []domain.TimelineEntry
}

// mindmapBuilder assembles a typed knowledge graph directly from the unified
// analysis output instead of delegating to a downstream model. The goal is
// strong topic coverage: every participant and every outcome ends up attached
// somewhere in the graph.
type mindmapBuilder struct {
	cfg BuilderConfig
	log *logger.Logger

	in            MindmapInput
	participants  []string
	timelineIndex []timelineIndexEntry

	claims   []claim
	outcomes []outcome
	themes   []theme

	vectorizer *tfidfVectorizer
}

// BuildMindmap runs the full coverage-first construction: claim extraction,
// outcome normalization, coverage filling, clustering, outcome attachment,
// visibility rebalancing, and export. Deterministic for a fixed config.
func BuildMindmap(in MindmapInput, cfg BuilderConfig, log *logger.Logger) domain.MindmapGraph {
	if cfg.MaxVisibleThemes <= 0 {
		cfg.MaxVisibleThemes = DefaultBuilderConfig().MaxVisibleThemes
	}
	if cfg.MinClaimWords <= 0 {
		cfg.MinClaimWords = DefaultBuilderConfig().MinClaimWords
	}
	if log == nil {
		log = logger.NewNop()
	}

	b := &mindmapBuilder{cfg: cfg, log: log.With("step", "MindmapBuild"), in: in}

	for _, p := range in.MeetingDetails.Participants {
		if cleanText(p) != "" {
			b.participants = append(b.participants, p)
		}
	}
	for _, entry := range in.Timeline {
		speakers := make([]string, 0, len(entry.Speakers))
		for _, s := range entry.Speakers {
			if cleanText(s) != "" {
				speakers = append(speakers, s)
			}
		}
		b.timelineIndex = append(b.timelineIndex, timelineIndexEntry{
			TimestampMS: entry.TimestampMS,
			Tokens:      tokenize(entry.Event),
			Speakers:    speakers,
		})
	}

	b.extractClaims()
	b.extractOutcomes()
	b.ensureParticipationClaims()
	b.clusterClaimsIntoThemes()
	b.attachOutcomesToThemes()
	b.rebalanceThemeVisibility()

	b.log.Debug("mindmap built",
		"themes", len(b.themes),
		"claims", len(b.claims),
		"outcomes", len(b.outcomes),
	)
	return b.exportGraph()
}
