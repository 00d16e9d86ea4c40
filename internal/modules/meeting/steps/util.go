package steps

import (
	"fmt"
	"regexp"
	"strconv"
	"strings"
)

var (
	spaceRe = regexp.MustCompile(`\s+`)
	tokenRe = regexp.MustCompile(`[a-zA-Z][a-zA-Z0-9]+`)
	slugRe  = regexp.MustCompile(`[^a-zA-Z0-9]+`)
	tsRe    = regexp.MustCompile(`^(?:(\d+):)?(\d{1,2}):(\d{2})(?:\.(\d{1,3}))?$`)
)

// cleanText collapses all whitespace runs to single spaces and trims.
func cleanText(text string) string {
	if text == "" {
		return ""
	}
	return strings.TrimSpace(spaceRe.ReplaceAllString(text, " "))
}

// tokenize lowercases and extracts alphanumeric words longer than 2 chars.
func tokenize(text string) map[string]bool {
	out := map[string]bool{}
	if text == "" {
		return out
	}
	for _, t := range tokenRe.FindAllString(strings.ToLower(text), -1) {
		if len(t) > 2 {
			out[t] = true
		}
	}
	return out
}

func slugify(text, def string, maxLen int) string {
	if text == "" {
		return def
	}
	s := strings.Trim(slugRe.ReplaceAllString(strings.ToLower(text), "-"), "-")
	if s == "" {
		return def
	}
	if len(s) > maxLen {
		s = s[:maxLen]
	}
	return s
}

// parseTimestampLabel converts "HH:MM:SS", "MM:SS" or "MM:SS.mmm" labels to
// milliseconds. Returns (0, false) for anything else.
func parseTimestampLabel(ts string) (int64, bool) {
	m := tsRe.FindStringSubmatch(strings.TrimSpace(ts))
	if m == nil {
		return 0, false
	}
	hours, _ := strconv.Atoi(m[1])
	minutes, _ := strconv.Atoi(m[2])
	seconds, _ := strconv.Atoi(m[3])
	millis, _ := strconv.Atoi(m[4])
	return int64((hours*60+minutes)*60+seconds)*1000 + int64(millis), true
}

// formatTimestamp renders milliseconds as a display-ready HH:MM:SS string.
func formatTimestamp(ms int64) string {
	if ms < 0 {
		ms = 0
	}
	s := ms / 1000
	m, s := s/60, s%60
	h, m := m/60, m%60
	return fmt.Sprintf("%02d:%02d:%02d", h, m, s)
}

// truncateRunes cuts text to limit runes, appending an ellipsis when cut.
func truncateRunes(text string, limit int) string {
	r := []rune(text)
	if len(r) <= limit {
		return text
	}
	return strings.TrimRight(string(r[:limit]), " ") + "…"
}

// capRunes cuts text to limit runes without an ellipsis.
func capRunes(text string, limit int) string {
	r := []rune(text)
	if len(r) <= limit {
		return text
	}
	return string(r[:limit])
}

func wordCount(text string) int {
	return len(strings.Fields(text))
}

func clamp01(x float64) float64 {
	if x < 0 {
		return 0
	}
	if x > 1 {
		return 1
	}
	return x
}

func joinNonEmpty(parts []string, sep string) string {
	out := parts[:0:0]
	for _, p := range parts {
		if p != "" {
			out = append(out, p)
		}
	}
	return strings.Join(out, sep)
}
