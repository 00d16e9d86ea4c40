package steps

import (
	"math"
	"regexp"
	"sort"
	"strings"
)

// tfidfVectorizer maps short texts into l2-normalized TF-IDF vectors over a
// unigram+bigram vocabulary with English stop-word removal. Terms present in
// more than maxDF of the fitted documents are pruned, unless pruning would
// empty the vocabulary entirely, in which case the full vocabulary is kept so
// degenerate inputs still vectorize instead of erroring.
type tfidfVectorizer struct {
	maxDF float64

	vocab    map[string]int // term -> feature index
	features []string       // index -> term, sorted
	idf      []float64
}

var wordRe = regexp.MustCompile(`\w\w+`)

func newTFIDFVectorizer() *tfidfVectorizer {
	return &tfidfVectorizer{maxDF: 0.9}
}

// terms extracts the stop-word-filtered unigrams and bigrams of one text.
// Stop words are dropped before bigram construction, so "state of the art"
// yields the bigram "state art".
func (v *tfidfVectorizer) terms(text string) []string {
	words := wordRe.FindAllString(strings.ToLower(text), -1)
	kept := words[:0]
	for _, w := range words {
		if !englishStopWords[w] {
			kept = append(kept, w)
		}
	}
	out := make([]string, 0, len(kept)*2)
	out = append(out, kept...)
	for i := 0; i+1 < len(kept); i++ {
		out = append(out, kept[i]+" "+kept[i+1])
	}
	return out
}

// Fit learns the vocabulary and IDF weights from docs and returns their
// vectors. Safe on empty input: zero documents yield a nil matrix.
func (v *tfidfVectorizer) Fit(docs []string) [][]float64 {
	n := len(docs)
	termLists := make([][]string, n)
	df := map[string]int{}
	for i, d := range docs {
		termLists[i] = v.terms(d)
		seen := map[string]bool{}
		for _, t := range termLists[i] {
			if !seen[t] {
				seen[t] = true
				df[t]++
			}
		}
	}

	// Prune overly common terms; keep everything if that would leave nothing.
	maxCount := v.maxDF * float64(n)
	features := make([]string, 0, len(df))
	for t, c := range df {
		if float64(c) <= maxCount {
			features = append(features, t)
		}
	}
	if len(features) == 0 {
		for t := range df {
			features = append(features, t)
		}
	}
	sort.Strings(features)

	v.features = features
	v.vocab = make(map[string]int, len(features))
	for i, t := range features {
		v.vocab[t] = i
	}
	v.idf = make([]float64, len(features))
	for i, t := range features {
		v.idf[i] = math.Log(float64(1+n)/float64(1+df[t])) + 1
	}

	matrix := make([][]float64, n)
	for i := range termLists {
		matrix[i] = v.vectorizeTerms(termLists[i])
	}
	return matrix
}

// Transform vectorizes texts with the already-fitted vocabulary. Unknown
// terms are ignored.
func (v *tfidfVectorizer) Transform(docs []string) [][]float64 {
	out := make([][]float64, len(docs))
	for i, d := range docs {
		out[i] = v.vectorizeTerms(v.terms(d))
	}
	return out
}

func (v *tfidfVectorizer) vectorizeTerms(terms []string) []float64 {
	vec := make([]float64, len(v.features))
	for _, t := range terms {
		if idx, ok := v.vocab[t]; ok {
			vec[idx] += v.idf[idx]
		}
	}
	var norm float64
	for _, x := range vec {
		norm += x * x
	}
	if norm > 0 {
		inv := 1 / math.Sqrt(norm)
		for i := range vec {
			vec[i] *= inv
		}
	}
	return vec
}

// FeatureCount reports the fitted vocabulary size.
func (v *tfidfVectorizer) FeatureCount() int { return len(v.features) }

// FeatureNames returns the fitted vocabulary in feature-index order.
func (v *tfidfVectorizer) FeatureNames() []string { return v.features }
