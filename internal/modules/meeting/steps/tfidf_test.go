package steps

import (
	"math"
	"reflect"
	"testing"
)

func TestTermsFiltersStopWordsBeforeBigrams(t *testing.T) {
	v := newTFIDFVectorizer()
	got := v.terms("state of the art pipeline")
	want := []string{"state", "art", "pipeline", "state art", "art pipeline"}
	if !reflect.DeepEqual(got, want) {
		t.Fatalf("terms = %v, want %v", got, want)
	}
}

func TestTermsDropsShortTokens(t *testing.T) {
	v := newTFIDFVectorizer()
	got := v.terms("a I db ok")
	// Single-char tokens never match, "i" and "a" are stop words anyway.
	for _, term := range got {
		if len(term) < 2 {
			t.Fatalf("unexpected short term %q in %v", term, got)
		}
	}
}

func TestFitVectorsAreL2Normalized(t *testing.T) {
	v := newTFIDFVectorizer()
	matrix := v.Fit([]string{
		"database migration plan",
		"frontend redesign kickoff",
		"database backup restore",
	})
	for i, vec := range matrix {
		var norm float64
		for _, x := range vec {
			norm += x * x
		}
		if math.Abs(norm-1) > 1e-9 {
			t.Fatalf("doc %d norm = %f, want 1", i, norm)
		}
	}
}

func TestFitIDFWeighting(t *testing.T) {
	v := newTFIDFVectorizer()
	v.Fit([]string{
		"database migration",
		"database backup",
		"frontend redesign",
	})
	dbIdx, ok := v.vocab["database"]
	if !ok {
		t.Fatalf("missing feature 'database': %v", v.features)
	}
	feIdx, ok := v.vocab["frontend"]
	if !ok {
		t.Fatalf("missing feature 'frontend': %v", v.features)
	}
	// Smooth idf: ln((1+n)/(1+df)) + 1.
	wantDB := math.Log(4.0/3.0) + 1
	wantFE := math.Log(4.0/2.0) + 1
	if math.Abs(v.idf[dbIdx]-wantDB) > 1e-9 {
		t.Fatalf("idf(database) = %f, want %f", v.idf[dbIdx], wantDB)
	}
	if math.Abs(v.idf[feIdx]-wantFE) > 1e-9 {
		t.Fatalf("idf(frontend) = %f, want %f", v.idf[feIdx], wantFE)
	}
	if v.idf[dbIdx] >= v.idf[feIdx] {
		t.Fatalf("common term should weigh less: db=%f fe=%f", v.idf[dbIdx], v.idf[feIdx])
	}
}

func TestFitKeepsVocabularyWhenPruningWouldEmptyIt(t *testing.T) {
	v := newTFIDFVectorizer()
	// Every term appears in every doc, so max_df pruning would drop all of
	// them; the fallback keeps the full vocabulary instead.
	matrix := v.Fit([]string{"alpha beta", "alpha beta", "alpha beta"})
	if v.FeatureCount() == 0 {
		t.Fatalf("vocabulary emptied by pruning")
	}
	for i, vec := range matrix {
		var norm float64
		for _, x := range vec {
			norm += x * x
		}
		if norm == 0 {
			t.Fatalf("doc %d vectorized to zero", i)
		}
	}
}

func TestTransformIgnoresUnknownTerms(t *testing.T) {
	v := newTFIDFVectorizer()
	v.Fit([]string{"database migration", "frontend redesign"})
	vecs := v.Transform([]string{"quantum entanglement seminar"})
	for _, x := range vecs[0] {
		if x != 0 {
			t.Fatalf("unknown-only doc should vectorize to zero, got %v", vecs[0])
		}
	}
}

func TestFeatureNamesSorted(t *testing.T) {
	v := newTFIDFVectorizer()
	v.Fit([]string{"zebra apple", "mango apple"})
	names := v.FeatureNames()
	for i := 1; i < len(names); i++ {
		if names[i-1] >= names[i] {
			t.Fatalf("feature names not sorted: %v", names)
		}
	}
}
