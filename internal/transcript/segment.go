package transcript

import (
	"fmt"
	"strings"
)

// Segment is one time window of the transcript, rendered for prompting.
type Segment struct {
	ID            string `json:"id"`
	WindowStartMS int64  `json:"window_start_ms"`
	WindowEndMS   int64  `json:"window_end_ms"`
	Text          string `json:"text"`
}

const DefaultSegmentLenMS int64 = 600_000 // 10 minutes

// SegmentUtterances splits utterances into fixed time windows. overlapRatio
// in [0,1) shrinks the stride so neighboring windows share context.
func SegmentUtterances(utterances []Utterance, segmentLenMS int64, overlapRatio float64) []Segment {
	if len(utterances) == 0 {
		return nil
	}
	if segmentLenMS <= 0 {
		segmentLenMS = DefaultSegmentLenMS
	}
	if overlapRatio < 0 || overlapRatio >= 1 {
		overlapRatio = 0
	}

	stride := int64(float64(segmentLenMS) * (1 - overlapRatio))
	if stride < 1 {
		stride = 1
	}
	totalMS := utterances[len(utterances)-1].EndMS

	var segments []Segment
	var wStart int64
	idx := 0
	left, right := 0, 0
	n := len(utterances)

	for wStart < totalMS {
		wEnd := wStart + segmentLenMS

		for left < n && utterances[left].EndMS <= wStart {
			left++
		}
		if right < left {
			right = left
		}
		for right < n && utterances[right].StartMS < wEnd {
			right++
		}

		segments = append(segments, Segment{
			ID:            fmt.Sprintf("seg-%04d", idx),
			WindowStartMS: wStart,
			WindowEndMS:   wEnd,
			Text:          renderWindow(utterances[left:right], wStart),
		})
		idx++
		wStart += stride
	}

	return segments
}

// renderWindow formats utterances as "local_ts | speaker | text" lines with
// timestamps relative to the window start.
func renderWindow(utts []Utterance, windowStartMS int64) string {
	lines := make([]string, 0, len(utts))
	for _, u := range utts {
		local := u.StartMS - windowStartMS
		if local < 0 {
			local = 0
		}
		lines = append(lines, fmt.Sprintf("%s | %s | %s", FormatMS(local), u.Speaker, u.Text))
	}
	return strings.Join(lines, "\n")
}

// FormatMS renders milliseconds as HH:MM:SS.mmm.
func FormatMS(ms int64) string {
	s, rem := ms/1000, ms%1000
	m, s := s/60, s%60
	h, m := m/60, m%60
	return fmt.Sprintf("%02d:%02d:%02d.%03d", h, m, s, rem)
}
