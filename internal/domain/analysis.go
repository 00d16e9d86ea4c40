package domain

// Artifact contracts exchanged between the pipeline stages, the mindmap
// builder, and the HTTP layer. Field names mirror the JSON the frontend
// consumes.

type MeetingDetails struct {
	Title        string   `json:"title"`
	Date         string   `json:"date"`
	DurationMS   int64    `json:"duration_ms"`
	Participants []string `json:"participants"`
	UnknownCount int      `json:"unknown_count"`
}

// Evidence is one supporting snippet. T carries a timestamp label (HH:MM:SS
// or MM:SS) when the upstream stage produced one; Speaker when it attributed
// the quote instead.
type Evidence struct {
	T       string `json:"t,omitempty"`
	Speaker string `json:"speaker,omitempty"`
	Quote   string `json:"quote"`
}

type ActionItem struct {
	Task        string     `json:"task"`
	Owner       string     `json:"owner"`
	Assignee    string     `json:"assignee,omitempty"`
	Deadline    string     `json:"deadline"`
	Priority    string     `json:"priority"`
	Status      string     `json:"status"`
	TimestampMS int64      `json:"timestamp_ms,omitempty"`
	Evidence    []Evidence `json:"evidence"`
}

type Achievement struct {
	Achievement string     `json:"achievement"`
	Member      string     `json:"member"`
	Members     []string   `json:"members,omitempty"`
	Confidence  float64    `json:"confidence"`
	Evidence    []Evidence `json:"evidence"`
}

type Blocker struct {
	Blocker         string     `json:"blocker"`
	Member          string     `json:"member"`
	Owner           string     `json:"owner,omitempty"`
	AffectedMembers []string   `json:"affected_members,omitempty"`
	Severity        string     `json:"severity"`
	Evidence        []Evidence `json:"evidence"`
}

type CollectiveSummary struct {
	NarrativeSummary string        `json:"narrative_summary"`
	ActionItems      []ActionItem  `json:"action_items"`
	Achievements     []Achievement `json:"achievements"`
	Blockers         []Blocker     `json:"blockers"`
}

type Chapter struct {
	ChapterID  string   `json:"chapter_id"`
	SegmentIDs []string `json:"segment_ids"`
	Title      string   `json:"title"`
	Summary    string   `json:"summary"`
	StartMS    int64    `json:"start_ms,omitempty"`
	EndMS      int64    `json:"end_ms,omitempty"`
}

type TimelineEntry struct {
	TimestampMS int64    `json:"timestamp_ms"`
	Event       string   `json:"event"`
	Speakers    []string `json:"speakers"`
}

// MindmapNode is one node of the exported graph. Type is one of root, theme,
// chapter, claim, action, achievement, blocker, decision.
type MindmapNode struct {
	ID          string  `json:"id"`
	Label       string  `json:"label"`
	Type        string  `json:"type"`
	ParentID    string  `json:"parent_id,omitempty"`
	Description string  `json:"description,omitempty"`
	Timestamp   string  `json:"timestamp,omitempty"`
	Confidence  float64 `json:"confidence,omitempty"`
}

type MindmapEdge struct {
	From string `json:"from"`
	To   string `json:"to"`
}

type MindmapMeta struct {
	Themes   int `json:"themes"`
	Claims   int `json:"claims"`
	Outcomes int `json:"outcomes"`
}

type MindmapGraph struct {
	CenterNode MindmapNode   `json:"center_node"`
	Nodes      []MindmapNode `json:"nodes"`
	Edges      []MindmapEdge `json:"edges"`
	Meta       MindmapMeta   `json:"meta"`
}

// AnalysisResult is the full pipeline output returned to the frontend.
type AnalysisResult struct {
	MeetingID         string            `json:"meeting_id,omitempty"`
	MeetingDetails    MeetingDetails    `json:"meeting_details"`
	CollectiveSummary CollectiveSummary `json:"collective_summary"`
	Chapters          []Chapter         `json:"chapters"`
	Timeline          []TimelineEntry   `json:"timeline"`
	Mindmap           MindmapGraph      `json:"mindmap"`
}
