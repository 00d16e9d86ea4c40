package steps

import "sort"

const overflowThemeID = "theme-more"

// rebalanceThemeVisibility trims the theme list down to the visible cap.
// Empty themes are dropped first; when more populated themes remain than the
// cap allows, the highest-scoring themes stay visible and the rest fold into
// a single "More Topics" theme so no claim or outcome falls off the graph.
func (b *mindmapBuilder) rebalanceThemeVisibility() {
	populated := b.themes[:0:0]
	for _, t := range b.themes {
		if len(t.ClaimIndices) > 0 || len(t.OutcomeIDs) > 0 {
			populated = append(populated, t)
		}
	}
	if len(populated) == 0 {
		if len(b.themes) > 0 {
			b.themes = b.themes[:1]
		}
		return
	}
	if len(populated) <= b.cfg.MaxVisibleThemes {
		b.themes = populated
		return
	}

	// Scores shift after clustering once outcomes attach, so rank again
	// before deciding which themes stay visible.
	sort.SliceStable(populated, func(i, j int) bool {
		return populated[i].Score > populated[j].Score
	})

	visible := populated[:b.cfg.MaxVisibleThemes-1]
	overflow := theme{
		ID:       overflowThemeID,
		Label:    "More Topics",
		Chapters: map[string]bool{},
		Keywords: []string{"miscellaneous", "additional"},
	}
	for _, t := range populated[b.cfg.MaxVisibleThemes-1:] {
		overflow.ClaimIndices = append(overflow.ClaimIndices, t.ClaimIndices...)
		overflow.OutcomeIDs = append(overflow.OutcomeIDs, t.OutcomeIDs...)
		for cid := range t.Chapters {
			overflow.Chapters[cid] = true
		}
		overflow.Score += t.Score
	}
	for _, ci := range overflow.ClaimIndices {
		b.claims[ci].ThemeID = overflowThemeID
	}
	folded := map[string]bool{}
	for _, oid := range overflow.OutcomeIDs {
		folded[oid] = true
	}
	for i := range b.outcomes {
		if folded[b.outcomes[i].ID] {
			b.outcomes[i].ThemeID = overflowThemeID
		}
	}

	b.themes = append(visible, overflow)
}
