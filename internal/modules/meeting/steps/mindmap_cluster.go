package steps

import (
	"fmt"
	"sort"
	"strings"
)

const (
	themeLabelTerms    = 3
	themeKeywordTerms  = 6
	fallbackThemeLabel = "Key Topics"
)

// clusterClaimsIntoThemes vectorizes all claims with TF-IDF and partitions
// them into themes with k-means. Small inputs skip clustering: below four
// claims the partition is unstable and meaningless, so everything lands in
// one cluster.
func (b *mindmapBuilder) clusterClaimsIntoThemes() {
	if len(b.claims) == 0 {
		b.themes = []theme{{ID: "theme-001", Label: fallbackThemeLabel, Chapters: map[string]bool{}}}
		return
	}

	texts := make([]string, len(b.claims))
	for i, c := range b.claims {
		texts[i] = c.Text
	}
	b.vectorizer = newTFIDFVectorizer()
	matrix := b.vectorizer.Fit(texts)

	nClaims := len(b.claims)
	var labels []int
	if nClaims < 4 {
		labels = make([]int, nClaims)
	} else {
		k := b.cfg.MaxVisibleThemes + 2
		if lower := max(2, nClaims/4); lower < k {
			k = lower
		}
		if k > nClaims {
			k = nClaims
		}
		// Never request more clusters than distinct features.
		if features := b.vectorizer.FeatureCount(); features < k {
			k = features
		}
		if k < 1 {
			k = 1
		}
		labels = kmeansCosine(matrix, k, 10, b.cfg.Seed)
	}

	maxLabel := 0
	for _, l := range labels {
		if l > maxLabel {
			maxLabel = l
		}
	}

	themeByCluster := map[int]*theme{}
	for clusterIdx := 0; clusterIdx <= maxLabel; clusterIdx++ {
		var claimIndices []int
		for i, l := range labels {
			if l == clusterIdx {
				claimIndices = append(claimIndices, i)
			}
		}
		if len(claimIndices) == 0 {
			continue
		}

		rows := make([][]float64, 0, len(claimIndices))
		for _, i := range claimIndices {
			rows = append(rows, matrix[i])
		}
		keywords := b.topCentroidTerms(meanVector(rows), themeKeywordTerms)

		label := prettyLabel(keywords, themeLabelTerms)
		if label == "" {
			label = fmt.Sprintf("Theme %d", clusterIdx+1)
		}
		if len(keywords) > 5 {
			keywords = keywords[:5]
		}
		themeByCluster[clusterIdx] = &theme{
			ID:           fmt.Sprintf("theme-%03d", clusterIdx+1),
			Label:        label,
			ClaimIndices: claimIndices,
			Chapters:     map[string]bool{},
			Keywords:     keywords,
			Score:        float64(len(claimIndices)),
		}
	}

	// Assign theme ids back to claims and gather chapter coverage.
	for claimIdx, l := range labels {
		t, ok := themeByCluster[l]
		if !ok {
			continue
		}
		b.claims[claimIdx].ThemeID = t.ID
		if cid := b.claims[claimIdx].ChapterID; cid != "" {
			t.Chapters[cid] = true
		}
	}

	b.themes = b.themes[:0]
	for clusterIdx := 0; clusterIdx <= maxLabel; clusterIdx++ {
		if t, ok := themeByCluster[clusterIdx]; ok {
			b.themes = append(b.themes, *t)
		}
	}
	sort.SliceStable(b.themes, func(i, j int) bool { return b.themes[i].Score > b.themes[j].Score })

	// Should not normally occur; keep the graph buildable regardless.
	if len(b.themes) == 0 {
		all := make([]int, nClaims)
		for i := range all {
			all[i] = i
			b.claims[i].ThemeID = "theme-001"
		}
		b.themes = []theme{{
			ID:           "theme-001",
			Label:        fallbackThemeLabel,
			ClaimIndices: all,
			Chapters:     map[string]bool{},
		}}
	}
}

// topCentroidTerms returns up to n vocabulary terms with the highest centroid
// weight, strictly positive weights only. Ties favor the later feature index,
// matching a descending stable sort over (weight, index).
func (b *mindmapBuilder) topCentroidTerms(centroid []float64, n int) []string {
	if len(centroid) == 0 {
		return nil
	}
	idx := make([]int, len(centroid))
	for i := range idx {
		idx[i] = i
	}
	sort.SliceStable(idx, func(a, c int) bool {
		if centroid[idx[a]] != centroid[idx[c]] {
			return centroid[idx[a]] > centroid[idx[c]]
		}
		return idx[a] > idx[c]
	})

	names := b.vectorizer.FeatureNames()
	out := make([]string, 0, n)
	for _, i := range idx {
		if len(out) >= n {
			break
		}
		if centroid[i] <= 0 {
			break
		}
		out = append(out, names[i])
	}
	return out
}

// prettyLabel joins the top terms into a human label: hyphens become spaces
// and each term is title-cased.
func prettyLabel(keywords []string, n int) string {
	if len(keywords) > n {
		keywords = keywords[:n]
	}
	pretty := make([]string, 0, len(keywords))
	for _, kw := range keywords {
		kw = strings.ReplaceAll(kw, "-", " ")
		pretty = append(pretty, titleCase(kw))
	}
	return strings.Join(pretty, " / ")
}

func titleCase(s string) string {
	words := strings.Fields(s)
	for i, w := range words {
		r := []rune(w)
		if len(r) > 0 {
			words[i] = strings.ToUpper(string(r[0])) + strings.ToLower(string(r[1:]))
		}
	}
	return strings.Join(words, " ")
}
