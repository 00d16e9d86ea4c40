package steps

import (
	"reflect"
	"strings"
	"testing"

	"github.com/summerstudio/meetscribe-backend/internal/domain"
)

func builderInput() MindmapInput {
	return MindmapInput{
		MeetingDetails: domain.MeetingDetails{
			Title:        "Q3 Planning Sync",
			Participants: []string{"Alice", "Bob", "Carol", "Dana"},
		},
		NarrativeSummary: strings.Join([]string{
			"Alice presented the quarterly budget review and hiring plan.",
			"Bob walked through the database migration timeline in detail.",
			"Carol summarized customer feedback from the latest release.",
			"The team agreed to revisit vendor contracts next month.",
		}, " "),
		Chapters: []domain.Chapter{
			{
				ChapterID: "chap-001",
				Title:     "Budget",
				Summary:   "Alice proposed cutting the travel budget. Hiring freezes were discussed at length.",
			},
			{
				ChapterID: "chap-002",
				Title:     "Engineering",
				Summary:   "Bob flagged risks in the database migration rollout. The migration window moved to the weekend.",
			},
		},
		Collective: domain.CollectiveSummary{
			ActionItems: []domain.ActionItem{
				{
					Task:     "Draft the migration runbook",
					Owner:    "Bob",
					Evidence: []domain.Evidence{{T: "00:10:00", Quote: "I'll write the runbook"}},
				},
			},
			Achievements: []domain.Achievement{
				{Achievement: "Shipped the reporting dashboard", Member: "Carol"},
			},
			Blockers: []domain.Blocker{
				{Blocker: "Vendor contract review is stalled", Member: "Alice"},
			},
		},
		Timeline: []domain.TimelineEntry{
			{TimestampMS: 0, Event: "meeting kickoff introductions", Speakers: []string{"Alice"}},
			{TimestampMS: 30_000, Event: "budget review discussion", Speakers: []string{"Alice"}},
			{TimestampMS: 600_000, Event: "database migration planning", Speakers: []string{"Bob"}},
		},
	}
}

func nodeByPredicate(graph domain.MindmapGraph, pred func(domain.MindmapNode) bool) (domain.MindmapNode, bool) {
	for _, n := range graph.Nodes {
		if pred(n) {
			return n, true
		}
	}
	return domain.MindmapNode{}, false
}

func TestBuildMindmapCoversSilentParticipants(t *testing.T) {
	graph := BuildMindmap(builderInput(), DefaultBuilderConfig(), nil)

	// Dana never speaks in the input; the builder must still surface them.
	filler, ok := nodeByPredicate(graph, func(n domain.MindmapNode) bool {
		return strings.Contains(n.Description, "Dana attended the meeting")
	})
	if !ok {
		t.Fatalf("no attendance claim for silent participant Dana")
	}
	if filler.Type != "claim" || filler.Confidence != 0.55 {
		t.Fatalf("filler node = %+v", filler)
	}
	if !strings.Contains(filler.Description, "Source: Attendance") {
		t.Fatalf("filler description = %q", filler.Description)
	}

	for _, name := range []string{"Alice", "Bob", "Carol", "Dana"} {
		if _, ok := nodeByPredicate(graph, func(n domain.MindmapNode) bool {
			return strings.Contains(n.Label, name) || strings.Contains(n.Description, name)
		}); !ok {
			t.Fatalf("participant %s missing from graph", name)
		}
	}
}

func TestBuildMindmapDeterministic(t *testing.T) {
	a := BuildMindmap(builderInput(), DefaultBuilderConfig(), nil)
	b := BuildMindmap(builderInput(), DefaultBuilderConfig(), nil)
	if !reflect.DeepEqual(a, b) {
		t.Fatalf("identical inputs built different graphs")
	}
}

func TestBuildMindmapNoContentLoss(t *testing.T) {
	graph := BuildMindmap(builderInput(), DefaultBuilderConfig(), nil)

	counts := map[string]int{}
	for _, n := range graph.Nodes {
		counts[n.Type]++
	}
	if counts["claim"] != graph.Meta.Claims {
		t.Fatalf("claim nodes = %d, meta says %d", counts["claim"], graph.Meta.Claims)
	}
	outcomes := counts["action"] + counts["achievement"] + counts["blocker"] + counts["decision"]
	if outcomes != graph.Meta.Outcomes {
		t.Fatalf("outcome nodes = %d, meta says %d", outcomes, graph.Meta.Outcomes)
	}
	if counts["theme"] != graph.Meta.Themes {
		t.Fatalf("theme nodes = %d, meta says %d", counts["theme"], graph.Meta.Themes)
	}
	if graph.Meta.Themes > DefaultBuilderConfig().MaxVisibleThemes {
		t.Fatalf("theme count %d exceeds cap", graph.Meta.Themes)
	}
	if graph.Meta.Outcomes != 3 {
		t.Fatalf("expected all 3 outcomes in graph, got %d", graph.Meta.Outcomes)
	}
}

func TestBuildMindmapEdgesMirrorParents(t *testing.T) {
	graph := BuildMindmap(builderInput(), DefaultBuilderConfig(), nil)

	if len(graph.Edges) != len(graph.Nodes) {
		t.Fatalf("edges %d != nodes %d", len(graph.Edges), len(graph.Nodes))
	}
	known := map[string]bool{graph.CenterNode.ID: true}
	for i, n := range graph.Nodes {
		if !known[n.ParentID] {
			t.Fatalf("node %s has unknown parent %s", n.ID, n.ParentID)
		}
		e := graph.Edges[i]
		if e.From != n.ParentID || e.To != n.ID {
			t.Fatalf("edge %d = %+v, want %s -> %s", i, e, n.ParentID, n.ID)
		}
		known[n.ID] = true
	}
}

func TestBuildMindmapChapterNodes(t *testing.T) {
	graph := BuildMindmap(builderInput(), DefaultBuilderConfig(), nil)

	themes := map[string]bool{}
	for _, n := range graph.Nodes {
		if n.Type == "theme" {
			themes[n.ID] = true
		}
	}
	chapterNodes := map[string]domain.MindmapNode{}
	for _, n := range graph.Nodes {
		if n.Type != "chapter" {
			continue
		}
		if !themes[n.ParentID] {
			t.Fatalf("chapter node %s not parented to a theme", n.ID)
		}
		if !strings.Contains(n.ID, "-chapter-chap-") {
			t.Fatalf("chapter node id = %q", n.ID)
		}
		chapterNodes[n.ID] = n
	}
	if len(chapterNodes) == 0 {
		t.Fatalf("no chapter nodes exported")
	}

	// Chapter-sourced claims hang off their chapter node, not the theme.
	claim, ok := nodeByPredicate(graph, func(n domain.MindmapNode) bool {
		return n.Type == "claim" && strings.Contains(n.Description, "Source: Budget")
	})
	if !ok {
		t.Fatalf("budget chapter claim missing")
	}
	if _, ok := chapterNodes[claim.ParentID]; !ok {
		t.Fatalf("budget claim parented to %q, want a chapter node", claim.ParentID)
	}
}

func TestBuildMindmapTimeHints(t *testing.T) {
	graph := BuildMindmap(builderInput(), DefaultBuilderConfig(), nil)

	migration, ok := nodeByPredicate(graph, func(n domain.MindmapNode) bool {
		return n.Type == "claim" && strings.Contains(n.Label, "database migration timeline")
	})
	if !ok {
		t.Fatalf("migration claim missing")
	}
	if migration.Timestamp != "00:10:00" {
		t.Fatalf("migration claim timestamp = %q", migration.Timestamp)
	}
	if !strings.Contains(migration.Description, "Timing: 00:10:00") {
		t.Fatalf("migration claim description = %q", migration.Description)
	}

	action, ok := nodeByPredicate(graph, func(n domain.MindmapNode) bool {
		return n.Type == "action"
	})
	if !ok {
		t.Fatalf("action node missing")
	}
	if action.Label != "Action: Draft the migration runbook" {
		t.Fatalf("action label = %q", action.Label)
	}
	if action.Timestamp != "00:10:00" {
		t.Fatalf("action timestamp = %q", action.Timestamp)
	}
	if action.Confidence != 0.85 {
		t.Fatalf("action confidence = %f", action.Confidence)
	}
}

func TestBuildMindmapEmptyInput(t *testing.T) {
	graph := BuildMindmap(MindmapInput{}, DefaultBuilderConfig(), nil)

	if graph.CenterNode.ID != "root" || graph.CenterNode.Label != "Meeting Mindmap" {
		t.Fatalf("center node = %+v", graph.CenterNode)
	}
	if graph.Meta.Themes != 1 || graph.Meta.Claims != 0 || graph.Meta.Outcomes != 0 {
		t.Fatalf("meta = %+v", graph.Meta)
	}
	if len(graph.Nodes) != 1 || graph.Nodes[0].Label != "Key Topics" {
		t.Fatalf("nodes = %+v", graph.Nodes)
	}
	if len(graph.Edges) != 1 || graph.Edges[0].From != "root" {
		t.Fatalf("edges = %+v", graph.Edges)
	}
}
