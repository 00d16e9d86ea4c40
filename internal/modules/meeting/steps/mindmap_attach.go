package steps

// attachOutcomesToThemes links every outcome to its closest theme. The
// primary signal is cosine similarity between the outcome title and the
// aggregate text of each theme's claims; when no theme clears the floor the
// outcome falls back to the theme sharing the most participants. People
// never feed the similarity vector, only the fallback. Attached outcomes
// raise the theme score so outcome-heavy themes survive rebalancing.
func (b *mindmapBuilder) attachOutcomesToThemes() {
	if len(b.outcomes) == 0 || len(b.themes) == 0 {
		return
	}

	themeTexts := make([]string, len(b.themes))
	for i, t := range b.themes {
		parts := make([]string, 0, len(t.ClaimIndices))
		for _, ci := range t.ClaimIndices {
			parts = append(parts, b.claims[ci].Text)
		}
		if len(parts) == 0 {
			themeTexts[i] = t.Label
		} else {
			themeTexts[i] = joinNonEmpty(parts, " ")
		}
	}

	if b.vectorizer == nil {
		b.vectorizer = newTFIDFVectorizer()
		b.vectorizer.Fit(themeTexts)
	}
	themeVecs := b.vectorizer.Transform(themeTexts)

	for oi := range b.outcomes {
		o := &b.outcomes[oi]
		vec := b.vectorizer.Transform([]string{o.Title})[0]

		bestTheme := 0
		bestSim := -1.0
		for ti, tv := range themeVecs {
			if sim := cosineSimilarity(vec, tv); sim > bestSim {
				bestSim = sim
				bestTheme = ti
			}
		}

		if bestSim < b.cfg.SimilarityFloor {
			if byPeople, ok := b.bestThemeByParticipants(o.People); ok {
				bestTheme = byPeople
			}
		}

		o.ThemeID = b.themes[bestTheme].ID
		b.themes[bestTheme].OutcomeIDs = append(b.themes[bestTheme].OutcomeIDs, o.ID)
		b.themes[bestTheme].Score += 1.5
	}
}

// bestThemeByParticipants finds the theme whose claims mention the most of
// the given people. Ties resolve to the later theme.
func (b *mindmapBuilder) bestThemeByParticipants(people []string) (int, bool) {
	if len(people) == 0 {
		return 0, false
	}
	wanted := map[string]bool{}
	for _, p := range people {
		wanted[p] = true
	}

	best := -1
	bestOverlap := 0
	for ti, t := range b.themes {
		overlap := 0
		for _, ci := range t.ClaimIndices {
			for _, p := range b.claims[ci].Participants {
				if wanted[p] {
					overlap++
				}
			}
		}
		if overlap >= bestOverlap && overlap > 0 {
			bestOverlap = overlap
			best = ti
		}
	}
	if best < 0 {
		return 0, false
	}
	return best, true
}
