package steps

import "math"

func cosineSimilarity(a, b []float64) float64 {
	if len(a) == 0 || len(b) == 0 || len(a) != len(b) {
		return 0
	}
	var dot, na, nb float64
	for i := 0; i < len(a); i++ {
		dot += a[i] * b[i]
		na += a[i] * a[i]
		nb += b[i] * b[i]
	}
	if na == 0 || nb == 0 {
		return 0
	}
	return dot / (math.Sqrt(na) * math.Sqrt(nb))
}

// kmeansCosine clusters vectors by cosine similarity and returns one cluster
// index in [0,k) per vector. Initialization is deterministic: the seed picks
// the first centroid, then each remaining centroid is the vector farthest
// from the ones chosen so far, so identical input and seed always reproduce
// identical assignments.
func kmeansCosine(vecs [][]float64, k, iters int, seed int64) []int {
	n := len(vecs)
	if n == 0 {
		return nil
	}
	if k <= 1 {
		return make([]int, n)
	}
	if k > n {
		k = n
	}
	if iters <= 0 {
		iters = 10
	}

	start := int(seed % int64(n))
	if start < 0 {
		start += n
	}

	centers := make([][]float64, 0, k)
	centers = append(centers, vecs[start])
	for len(centers) < k {
		bestIdx := 0
		bestDist := -1.0
		for i := 0; i < n; i++ {
			minSim := 1.0
			for _, c := range centers {
				if sim := cosineSimilarity(vecs[i], c); sim < minSim {
					minSim = sim
				}
			}
			if dist := 1.0 - minSim; dist > bestDist {
				bestDist = dist
				bestIdx = i
			}
		}
		centers = append(centers, vecs[bestIdx])
	}

	assign := make([]int, n)
	for iter := 0; iter < iters; iter++ {
		changed := false

		for i := 0; i < n; i++ {
			bestC := 0
			bestSim := -1.0
			for c := 0; c < k; c++ {
				if sim := cosineSimilarity(vecs[i], centers[c]); sim > bestSim {
					bestSim = sim
					bestC = c
				}
			}
			if assign[i] != bestC {
				assign[i] = bestC
				changed = true
			}
		}

		counts := make([]int, k)
		sums := make([][]float64, k)
		for c := 0; c < k; c++ {
			sums[c] = make([]float64, len(vecs[0]))
		}
		for i := 0; i < n; i++ {
			c := assign[i]
			counts[c]++
			for j := range vecs[i] {
				sums[c][j] += vecs[i][j]
			}
		}
		for c := 0; c < k; c++ {
			if counts[c] == 0 {
				continue
			}
			inv := 1.0 / float64(counts[c])
			for j := range sums[c] {
				sums[c][j] *= inv
			}
			centers[c] = sums[c]
		}

		if !changed {
			break
		}
	}

	return assign
}

// meanVector averages rows of equal length. Returns nil for empty input.
func meanVector(rows [][]float64) []float64 {
	if len(rows) == 0 || len(rows[0]) == 0 {
		return nil
	}
	out := make([]float64, len(rows[0]))
	for _, r := range rows {
		for i := range r {
			out[i] += r[i]
		}
	}
	inv := 1.0 / float64(len(rows))
	for i := range out {
		out[i] *= inv
	}
	return out
}
