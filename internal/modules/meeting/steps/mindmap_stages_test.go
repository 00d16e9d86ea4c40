package steps

import (
	"reflect"
	"strings"
	"testing"

	"github.com/summerstudio/meetscribe-backend/internal/domain"
)

func TestSplitSentences(t *testing.T) {
	text := "- Alice shipped the new importer. It works well now!\n* Short one.\nBob raised a concern about quota limits?"
	got := splitSentences(text, 4)
	want := []string{
		"Alice shipped the new importer.",
		"It works well now!",
		"Bob raised a concern about quota limits?",
	}
	if !reflect.DeepEqual(got, want) {
		t.Fatalf("splitSentences = %v, want %v", got, want)
	}
}

func TestSplitSentencesEmpty(t *testing.T) {
	if got := splitSentences("", 4); len(got) != 0 {
		t.Fatalf("expected no sentences, got %v", got)
	}
	if got := splitSentences("   \n\n", 4); len(got) != 0 {
		t.Fatalf("expected no sentences for whitespace, got %v", got)
	}
}

func TestDetectParticipantsRosterOrder(t *testing.T) {
	b := &mindmapBuilder{participants: []string{"Alice", "Bob", "Carol"}}
	got := b.detectParticipants("carol agreed with ALICE about the plan")
	if !reflect.DeepEqual(got, []string{"Alice", "Carol"}) {
		t.Fatalf("detectParticipants = %v", got)
	}
	if got := b.detectParticipants("nobody from the roster"); got != nil {
		t.Fatalf("expected nil, got %v", got)
	}
}

func TestMatchTimeHint(t *testing.T) {
	b := &mindmapBuilder{
		cfg: DefaultBuilderConfig(),
		timelineIndex: []timelineIndexEntry{
			{TimestampMS: 1000, Tokens: tokenize("kickoff introductions agenda"), Speakers: []string{"Alice"}},
			{TimestampMS: 5000, Tokens: tokenize("database migration decision"), Speakers: []string{"Bob"}},
		},
	}

	ms, ok := b.matchTimeHint("the team made a decision about the database migration", nil)
	if !ok || ms != 5000 {
		t.Fatalf("matchTimeHint = (%d, %v), want (5000, true)", ms, ok)
	}

	// Speaker overlap counts double, pulling an otherwise weak match ahead.
	ms, ok = b.matchTimeHint("kickoff remarks", []string{"Bob"})
	if !ok || ms != 5000 {
		t.Fatalf("speaker-weighted matchTimeHint = (%d, %v), want (5000, true)", ms, ok)
	}

	// Below the floor no hint is produced.
	if _, ok := b.matchTimeHint("totally unrelated sentence", nil); ok {
		t.Fatalf("expected no hint for unrelated text")
	}
}

func TestEnsureParticipationClaims(t *testing.T) {
	b := &mindmapBuilder{
		cfg:          DefaultBuilderConfig(),
		participants: []string{"Alice", "Bob", "Carol"},
		claims: []claim{
			{ID: "claim-001", Text: "Alice shipped the importer", Participants: []string{"Alice"}},
		},
		outcomes: []outcome{
			{ID: "outcome-001", Title: "Fix staging", People: []string{"Bob"}},
		},
	}
	b.ensureParticipationClaims()

	if len(b.claims) != 2 {
		t.Fatalf("expected 1 filler claim, got %d claims", len(b.claims))
	}
	filler := b.claims[1]
	if filler.Source != "Attendance" {
		t.Fatalf("filler source = %q", filler.Source)
	}
	if !strings.Contains(filler.Text, "Carol attended the meeting") {
		t.Fatalf("filler text = %q", filler.Text)
	}
	if filler.Confidence != 0.55 {
		t.Fatalf("filler confidence = %f", filler.Confidence)
	}
	if !reflect.DeepEqual(filler.Participants, []string{"Carol"}) {
		t.Fatalf("filler participants = %v", filler.Participants)
	}
}

func TestAttachOutcomesParticipantFallback(t *testing.T) {
	b := &mindmapBuilder{
		cfg: DefaultBuilderConfig(),
		claims: []claim{
			{ID: "claim-001", Text: "database migration planning and rollout", ThemeID: "theme-001"},
			{ID: "claim-002", Text: "frontend redesign and component library", Participants: []string{"Dana"}, ThemeID: "theme-002"},
		},
		themes: []theme{
			{ID: "theme-001", Label: "Migration", ClaimIndices: []int{0}, Chapters: map[string]bool{}},
			{ID: "theme-002", Label: "Frontend", ClaimIndices: []int{1}, Chapters: map[string]bool{}},
		},
		outcomes: []outcome{
			{ID: "outcome-001", Type: "action", Title: "zzzqqq xxyyzz", People: []string{"Dana"}},
		},
	}
	b.attachOutcomesToThemes()

	if b.outcomes[0].ThemeID != "theme-002" {
		t.Fatalf("outcome attached to %q, want theme-002", b.outcomes[0].ThemeID)
	}
	if b.themes[1].Score != 1.5 {
		t.Fatalf("theme score = %f, want 1.5", b.themes[1].Score)
	}
	if !reflect.DeepEqual(b.themes[1].OutcomeIDs, []string{"outcome-001"}) {
		t.Fatalf("theme outcome ids = %v", b.themes[1].OutcomeIDs)
	}
}

func TestAttachOutcomesBySimilarity(t *testing.T) {
	b := &mindmapBuilder{
		cfg: DefaultBuilderConfig(),
		claims: []claim{
			{ID: "claim-001", Text: "database migration planning and rollout schedule", ThemeID: "theme-001"},
			{ID: "claim-002", Text: "frontend redesign component library tokens", ThemeID: "theme-002"},
		},
		themes: []theme{
			{ID: "theme-001", Label: "Migration", ClaimIndices: []int{0}, Chapters: map[string]bool{}},
			{ID: "theme-002", Label: "Frontend", ClaimIndices: []int{1}, Chapters: map[string]bool{}},
		},
		outcomes: []outcome{
			{ID: "outcome-001", Type: "action", Title: "finish the database migration rollout"},
		},
	}
	b.attachOutcomesToThemes()

	if b.outcomes[0].ThemeID != "theme-001" {
		t.Fatalf("outcome attached to %q, want theme-001", b.outcomes[0].ThemeID)
	}
}

func TestAttachOutcomesIgnoresPeopleForSimilarity(t *testing.T) {
	// "Alice" appears in theme-001's claim text, so folding the people into
	// the similarity vector would clear the floor and attach there. Only the
	// title is vectorized; the unmatchable title must drop through to the
	// participant fallback, which picks theme-002.
	b := &mindmapBuilder{
		cfg: DefaultBuilderConfig(),
		claims: []claim{
			{ID: "claim-001", Text: "alice owns the migration planning schedule", ThemeID: "theme-001"},
			{ID: "claim-002", Text: "frontend redesign component library tokens", Participants: []string{"Alice"}, ThemeID: "theme-002"},
			{ID: "claim-003", Text: "frontend accessibility audit results", Participants: []string{"Alice"}, ThemeID: "theme-002"},
		},
		themes: []theme{
			{ID: "theme-001", Label: "Migration", ClaimIndices: []int{0}, Chapters: map[string]bool{}},
			{ID: "theme-002", Label: "Frontend", ClaimIndices: []int{1, 2}, Chapters: map[string]bool{}},
		},
		outcomes: []outcome{
			{ID: "outcome-001", Type: "action", Title: "zzzqqq wwxxyy", People: []string{"Alice"}},
		},
	}
	b.attachOutcomesToThemes()

	if b.outcomes[0].ThemeID != "theme-002" {
		t.Fatalf("outcome attached to %q, want theme-002", b.outcomes[0].ThemeID)
	}
	if len(b.themes[0].OutcomeIDs) != 0 {
		t.Fatalf("theme-001 should hold no outcomes, got %v", b.themes[0].OutcomeIDs)
	}
}

func TestRebalanceFoldsOverflowThemes(t *testing.T) {
	b := &mindmapBuilder{cfg: DefaultBuilderConfig()}
	for i := 0; i < 9; i++ {
		b.claims = append(b.claims, claim{
			ID:      "claim-00" + string(rune('1'+i)),
			Text:    "claim text",
			ThemeID: themeIDForIndex(i),
		})
		b.themes = append(b.themes, theme{
			ID:           themeIDForIndex(i),
			Label:        "Theme",
			ClaimIndices: []int{i},
			Chapters:     map[string]bool{},
			Score:        float64(9 - i),
		})
	}
	b.rebalanceThemeVisibility()

	if len(b.themes) != 7 {
		t.Fatalf("expected 7 themes after folding, got %d", len(b.themes))
	}
	more := b.themes[6]
	if more.ID != overflowThemeID || more.Label != "More Topics" {
		t.Fatalf("unexpected overflow theme: %+v", more)
	}
	if len(more.ClaimIndices) != 3 {
		t.Fatalf("overflow should hold 3 claims, got %d", len(more.ClaimIndices))
	}
	total := 0
	for _, th := range b.themes {
		total += len(th.ClaimIndices)
	}
	if total != 9 {
		t.Fatalf("claims lost in fold: %d", total)
	}
	for _, ci := range more.ClaimIndices {
		if b.claims[ci].ThemeID != overflowThemeID {
			t.Fatalf("claim %d not re-pointed: %q", ci, b.claims[ci].ThemeID)
		}
	}
}

func TestRebalanceKeepsHighestScoringThemes(t *testing.T) {
	// The last theme carries the highest score (outcome attachment raises
	// scores after clustering's ordering). It must survive the fold while
	// the lowest-ranked themes collapse into "More Topics".
	b := &mindmapBuilder{cfg: DefaultBuilderConfig()}
	for i := 0; i < 8; i++ {
		b.claims = append(b.claims, claim{
			ID:      "claim-00" + string(rune('1'+i)),
			Text:    "claim text",
			ThemeID: themeIDForIndex(i),
		})
		score := 1.0
		if i == 7 {
			score = 10.0
		}
		b.themes = append(b.themes, theme{
			ID:           themeIDForIndex(i),
			Label:        "Theme",
			ClaimIndices: []int{i},
			Chapters:     map[string]bool{},
			Score:        score,
		})
	}
	b.rebalanceThemeVisibility()

	if len(b.themes) != 7 {
		t.Fatalf("expected 7 themes after folding, got %d", len(b.themes))
	}
	if b.themes[0].ID != "theme-008" {
		t.Fatalf("highest-scoring theme should rank first, got %q", b.themes[0].ID)
	}
	more := b.themes[6]
	if more.ID != overflowThemeID {
		t.Fatalf("expected overflow theme last, got %q", more.ID)
	}
	if len(more.ClaimIndices) != 2 || more.Score != 2.0 {
		t.Fatalf("overflow should hold the 2 lowest-ranked themes, got %d claims score %f", len(more.ClaimIndices), more.Score)
	}
	for _, th := range b.themes[:6] {
		if th.ID == "theme-007" || th.ID == "theme-006" {
			t.Fatalf("low-score theme %q survived the fold", th.ID)
		}
	}
	if b.claims[7].ThemeID != "theme-008" {
		t.Fatalf("visible theme claim re-pointed: %q", b.claims[7].ThemeID)
	}
}

func TestRebalanceDropsEmptyThemes(t *testing.T) {
	b := &mindmapBuilder{cfg: DefaultBuilderConfig()}
	b.claims = []claim{{ID: "claim-001", Text: "only claim", ThemeID: "theme-002"}}
	b.themes = []theme{
		{ID: "theme-001", Label: "Empty", Chapters: map[string]bool{}},
		{ID: "theme-002", Label: "Full", ClaimIndices: []int{0}, Chapters: map[string]bool{}},
	}
	b.rebalanceThemeVisibility()
	if len(b.themes) != 1 || b.themes[0].ID != "theme-002" {
		t.Fatalf("empty theme kept: %+v", b.themes)
	}
}

func TestRebalanceKeepsOneThemeWhenAllEmpty(t *testing.T) {
	b := &mindmapBuilder{cfg: DefaultBuilderConfig()}
	b.themes = []theme{
		{ID: "theme-001", Label: "Key Topics", Chapters: map[string]bool{}},
		{ID: "theme-002", Label: "Also Empty", Chapters: map[string]bool{}},
	}
	b.rebalanceThemeVisibility()
	if len(b.themes) != 1 || b.themes[0].ID != "theme-001" {
		t.Fatalf("expected single fallback theme, got %+v", b.themes)
	}
}

func themeIDForIndex(i int) string {
	return "theme-00" + string(rune('1'+i))
}

func TestOutcomeAdapters(t *testing.T) {
	action := outcomeFromActionItem(domain.ActionItem{
		Task:     "Ship the beta",
		Owner:    "Alice",
		Assignee: "Bob",
		Evidence: []domain.Evidence{{T: "00:05:00", Quote: "we ship friday"}},
	})
	if action.Type != "action" || !reflect.DeepEqual(action.People, []string{"Alice", "Bob"}) {
		t.Fatalf("unexpected action outcome: %+v", action)
	}
	if !action.HasTimeHint || action.TimeHintMS != 300_000 {
		t.Fatalf("action time hint = (%d, %v)", action.TimeHintMS, action.HasTimeHint)
	}

	win := outcomeFromAchievement(domain.Achievement{Achievement: "Closed the audit", Member: "Alice, Bob"})
	if win.Type != "achievement" || !reflect.DeepEqual(win.People, []string{"Alice", "Bob"}) {
		t.Fatalf("unexpected achievement outcome: %+v", win)
	}

	block := outcomeFromBlocker(domain.Blocker{Blocker: "CI is flaky", Member: "Carol", Owner: "Dana"})
	if block.Type != "blocker" || block.Owner != "Dana" || !reflect.DeepEqual(block.People, []string{"Carol"}) {
		t.Fatalf("unexpected blocker outcome: %+v", block)
	}
}

func TestAddOutcomeDropsEmptyTitles(t *testing.T) {
	b := &mindmapBuilder{cfg: DefaultBuilderConfig()}
	b.addOutcome(outcome{Type: "action", Title: "   "})
	if len(b.outcomes) != 0 {
		t.Fatalf("blank outcome kept: %+v", b.outcomes)
	}
	b.addOutcome(outcome{Type: "action", Title: "Real task", Evidence: []domain.Evidence{{Quote: "q"}}})
	if len(b.outcomes) != 1 || b.outcomes[0].Confidence != 0.85 {
		t.Fatalf("unexpected outcome: %+v", b.outcomes)
	}
	if b.outcomes[0].ID != "outcome-001" {
		t.Fatalf("outcome id = %q", b.outcomes[0].ID)
	}
}

func TestOutcomeLabelAndDescription(t *testing.T) {
	o := outcome{
		Type:     "blocker",
		Title:    "Staging database keeps timing out",
		Owner:    "Dana",
		Deadline: "Friday",
		Status:   "pending",
		Evidence: []domain.Evidence{{T: "00:12:00", Quote: "it timed out again"}},
	}
	label := o.label()
	if !strings.HasPrefix(label, "Blocker: ") {
		t.Fatalf("label = %q", label)
	}
	desc := o.description()
	if !strings.Contains(desc, "Owner: Dana") || !strings.Contains(desc, "Deadline: Friday") {
		t.Fatalf("description = %q", desc)
	}
	if strings.Contains(desc, "Status:") {
		t.Fatalf("pending status should be omitted: %q", desc)
	}
	if !strings.Contains(desc, "Evidence: 00:12:00 — it timed out again") {
		t.Fatalf("evidence missing: %q", desc)
	}
}
