package steps

import (
	"fmt"
	"sort"
	"strings"

	"github.com/summerstudio/meetscribe-backend/internal/domain"
)

// exportGraph renders the builder state as the node/edge contract the
// frontend consumes. Nodes carry parent pointers; an explicit edge list is
// derived from them for consumers that want adjacency without walking
// parents.
func (b *mindmapBuilder) exportGraph() domain.MindmapGraph {
	title := cleanText(b.in.MeetingDetails.Title)
	if title == "" {
		title = "Meeting Mindmap"
	}
	center := domain.MindmapNode{ID: "root", Label: title, Type: "root"}

	chapterTitles := map[string]string{}
	chapterSummaries := map[string]string{}
	for _, ch := range b.in.Chapters {
		chapterTitles[ch.ChapterID] = cleanText(ch.Title)
		chapterSummaries[ch.ChapterID] = cleanText(ch.Summary)
	}

	var nodes []domain.MindmapNode
	var edges []domain.MindmapEdge
	addNode := func(n domain.MindmapNode) {
		nodes = append(nodes, n)
		edges = append(edges, domain.MindmapEdge{From: n.ParentID, To: n.ID})
	}

	chaptersSeen := map[[2]string]string{}

	for _, t := range b.themes {
		addNode(domain.MindmapNode{
			ID:          t.ID,
			Label:       t.Label,
			Type:        "theme",
			ParentID:    "root",
			Description: b.themeSummary(t),
			Confidence:  min(0.95, 0.6+0.05*t.Score),
		})

		for _, ci := range t.ClaimIndices {
			c := b.claims[ci]
			parentID := t.ID
			if c.ChapterID != "" {
				key := [2]string{t.ID, c.ChapterID}
				nodeID, seen := chaptersSeen[key]
				if !seen {
					nodeID = fmt.Sprintf("%s-chapter-%s", t.ID, slugify(c.ChapterID, "chapter", 40))
					label := chapterTitles[c.ChapterID]
					if label == "" {
						label = "Chapter"
					}
					addNode(domain.MindmapNode{
						ID:          nodeID,
						Label:       label,
						Type:        "chapter",
						ParentID:    t.ID,
						Description: capRunes(chapterSummaries[c.ChapterID], 400),
						Confidence:  0.65,
					})
					chaptersSeen[key] = nodeID
				}
				parentID = nodeID
			}

			addNode(domain.MindmapNode{
				ID:          c.ID,
				Label:       truncateRunes(c.Text, 80),
				Type:        "claim",
				ParentID:    parentID,
				Description: b.describeClaim(c),
				Timestamp:   claimTimestamp(c.TimeHintMS, c.HasTimeHint),
				Confidence:  min(0.95, c.Confidence),
			})
		}

		for _, o := range b.outcomes {
			if o.ThemeID != t.ID {
				continue
			}
			addNode(domain.MindmapNode{
				ID:          o.ID,
				Label:       o.label(),
				Type:        o.Type,
				ParentID:    t.ID,
				Description: capRunes(o.description(), 500),
				Timestamp:   claimTimestamp(o.TimeHintMS, o.HasTimeHint),
				Confidence:  min(0.95, o.Confidence),
			})
		}
	}

	return domain.MindmapGraph{
		CenterNode: center,
		Nodes:      nodes,
		Edges:      edges,
		Meta: domain.MindmapMeta{
			Themes:   len(b.themes),
			Claims:   len(b.claims),
			Outcomes: len(b.outcomes),
		},
	}
}

// themeSummary renders a theme description from its first claims and
// attached outcomes, capped so frontend tooltips stay readable.
func (b *mindmapBuilder) themeSummary(t theme) string {
	highlights := make([]string, 0, 3)
	for _, ci := range t.ClaimIndices {
		if len(highlights) >= 3 {
			break
		}
		highlights = append(highlights, b.claims[ci].Text)
	}
	attached := map[string]bool{}
	for _, oid := range t.OutcomeIDs {
		attached[oid] = true
	}
	descs := make([]string, 0, 2)
	for _, o := range b.outcomes {
		if len(descs) >= 2 {
			break
		}
		if attached[o.ID] {
			descs = append(descs, o.description())
		}
	}

	var pieces []string
	if len(highlights) > 0 {
		pieces = append(pieces, "Key points: "+strings.Join(highlights, " "))
	}
	if len(descs) > 0 {
		pieces = append(pieces, "Outcomes: "+strings.Join(descs, " "))
	}
	return capRunes(strings.Join(pieces, " "), 500)
}

func (b *mindmapBuilder) describeClaim(c claim) string {
	parts := []string{c.Text}
	if c.Source != "" {
		parts = append(parts, "Source: "+c.Source)
	}
	if len(c.Participants) > 0 {
		distinct := map[string]bool{}
		for _, p := range c.Participants {
			distinct[p] = true
		}
		names := make([]string, 0, len(distinct))
		for p := range distinct {
			names = append(names, p)
		}
		sort.Strings(names)
		parts = append(parts, "Participants: "+strings.Join(names, ", "))
	}
	if c.HasTimeHint {
		parts = append(parts, "Timing: "+formatTimestamp(c.TimeHintMS))
	}
	return strings.Join(parts, " | ")
}

func claimTimestamp(ms int64, ok bool) string {
	if !ok {
		return ""
	}
	return formatTimestamp(ms)
}
