package steps

import (
	"fmt"
	"regexp"
	"strconv"
	"strings"

	"github.com/summerstudio/meetscribe-backend/internal/domain"
)

// Normalizers for the loosely-structured JSON the language model returns.
// Models drift between field names and formats across runs; everything here
// is tolerant on input and strict on output.

var confidenceKeywords = map[string]float64{
	"very high": 0.95,
	"high":      0.9,
	"medium":    0.6,
	"mid":       0.6,
	"moderate":  0.6,
	"low":       0.35,
	"very low":  0.2,
	"uncertain": 0.35,
}

// asString coerces a JSON value to a trimmed string, falling back to def.
func asString(v any, def string) string {
	if v == nil {
		return def
	}
	var text string
	switch val := v.(type) {
	case string:
		text = val
	case float64:
		text = strconv.FormatFloat(val, 'f', -1, 64)
	case bool:
		text = strconv.FormatBool(val)
	default:
		text = fmt.Sprintf("%v", val)
	}
	if text = strings.TrimSpace(text); text != "" {
		return text
	}
	return def
}

// firstString returns the first non-empty string among the given keys.
func firstString(m map[string]any, keys ...string) string {
	for _, k := range keys {
		if s := asString(m[k], ""); s != "" {
			return s
		}
	}
	return ""
}

// shortenTitle trims a model-generated title to a usable label. Prefers the
// text before the first colon when it reads as a standalone phrase.
func shortenTitle(v any, maxWords int) string {
	title := asString(v, "")
	if title == "" {
		return "Meeting Analysis"
	}
	if left, _, ok := strings.Cut(title, ":"); ok {
		if n := len(strings.Fields(left)); n >= 2 && n <= maxWords {
			title = strings.TrimSpace(left)
		}
	}
	words := strings.Fields(title)
	if len(words) > maxWords {
		title = strings.Join(words[:maxWords], " ")
	}
	return title
}

// normalizeConfidence accepts numbers, percentages, and keyword labels and
// maps them all into [0, 1].
func normalizeConfidence(v any, def float64) float64 {
	var numeric float64
	switch val := v.(type) {
	case float64:
		numeric = val
	case int:
		numeric = float64(val)
	case string:
		s := strings.ToLower(strings.TrimSpace(val))
		if s == "" {
			return def
		}
		if kw, ok := confidenceKeywords[s]; ok {
			return kw
		}
		parsed, err := strconv.ParseFloat(strings.ReplaceAll(s, "%", ""), 64)
		if err != nil {
			return def
		}
		numeric = parsed
	default:
		return def
	}

	if numeric > 1 {
		if numeric > 100 {
			numeric /= 100
		} else {
			numeric = 1
		}
	}
	return clamp01(numeric)
}

func toInt64(v any, def int64) int64 {
	switch val := v.(type) {
	case float64:
		return int64(val)
	case int:
		return int64(val)
	case int64:
		return val
	case string:
		parsed, err := strconv.ParseFloat(strings.TrimSpace(val), 64)
		if err != nil {
			return def
		}
		return int64(parsed)
	default:
		return def
	}
}

// normalizeEvidence accepts both the current dict shape {speaker, quote} and
// the legacy list shape, keeping at most one snippet.
func normalizeEvidence(v any) []domain.Evidence {
	item, ok := v.(map[string]any)
	if !ok {
		list, isList := v.([]any)
		if !isList || len(list) == 0 {
			return nil
		}
		item, ok = list[0].(map[string]any)
		if !ok {
			return nil
		}
	}
	ev := domain.Evidence{
		Speaker: asString(item["speaker"], ""),
		Quote:   firstString(item, "quote", "text"),
	}
	if ev.Speaker == "" && ev.Quote == "" {
		return nil
	}
	return []domain.Evidence{ev}
}

var droppedDeadlines = map[string]bool{
	"":                      true,
	"none":                  true,
	"no deadline":           true,
	"no deadline specified": true,
	"not specified":         true,
	"tbd":                   true,
}

// NormalizeActionItems cleans the model's action-item list: field-name
// variants collapse, empty tasks drop, and duplicate (task, owner, deadline)
// triples keep only their first occurrence.
func NormalizeActionItems(raw any) []domain.ActionItem {
	items, ok := raw.([]any)
	if !ok {
		return nil
	}
	var out []domain.ActionItem
	seen := map[string]bool{}
	for _, entry := range items {
		item, isMap := entry.(map[string]any)
		if !isMap {
			continue
		}
		task := firstString(item, "task", "action", "title")
		if task == "" {
			continue
		}
		owner := firstString(item, "owner", "assignee", "responsible")
		if owner == "" {
			owner = "Unassigned"
		}

		var deadline string
		deadlineRaw := item["deadline"]
		if deadlineRaw == nil {
			deadlineRaw = item["due_date"]
		}
		if deadlineRaw == nil {
			deadlineRaw = item["timeline"]
		}
		if dm, isMap := deadlineRaw.(map[string]any); isMap {
			deadline = firstString(dm, "text", "label")
		} else {
			deadline = asString(deadlineRaw, "")
		}
		if droppedDeadlines[strings.ToLower(deadline)] {
			deadline = ""
		}

		status := firstString(item, "status", "state")
		if status == "" {
			status = "pending"
		}
		priority := strings.ToLower(asString(item["priority"], "medium"))
		if priority != "high" && priority != "medium" && priority != "low" {
			priority = "medium"
		}

		key := strings.ToLower(task) + "|" + strings.ToLower(owner) + "|" + strings.ToLower(deadline)
		if seen[key] {
			continue
		}
		seen[key] = true

		out = append(out, domain.ActionItem{
			Task:        task,
			Owner:       owner,
			Deadline:    deadline,
			Priority:    priority,
			Status:      status,
			TimestampMS: toInt64(item["timestamp_ms"], 0),
			Evidence:    normalizeEvidence(item["evidence"]),
		})
	}
	return out
}

// memberList joins a members value that may be a string or a list of names.
func memberList(v any) string {
	if list, ok := v.([]any); ok {
		names := make([]string, 0, len(list))
		for _, m := range list {
			if s := asString(m, ""); s != "" {
				names = append(names, s)
			}
		}
		return strings.Join(names, ", ")
	}
	return asString(v, "")
}

// NormalizeAchievements drops empty or trivially short wins (under three
// words with no evidence) and dedupes on the achievement text.
func NormalizeAchievements(raw any) []domain.Achievement {
	items, ok := raw.([]any)
	if !ok {
		return nil
	}
	var out []domain.Achievement
	seen := map[string]bool{}
	for _, entry := range items {
		item, isMap := entry.(map[string]any)
		if !isMap {
			continue
		}
		achievement := firstString(item, "achievement", "summary")
		if achievement == "" {
			continue
		}
		if wordCount(achievement) < 3 && item["evidence"] == nil {
			continue
		}
		members := item["members"]
		if members == nil {
			members = item["member"]
		}
		member := memberList(members)
		if member == "" {
			member = "Team"
		}
		key := strings.ToLower(achievement)
		if seen[key] {
			continue
		}
		seen[key] = true

		out = append(out, domain.Achievement{
			Achievement: achievement,
			Member:      member,
			Confidence:  normalizeConfidence(item["confidence"], 0.8),
			Evidence:    normalizeEvidence(item["evidence"]),
		})
	}
	return out
}

// NormalizeBlockers mirrors NormalizeAchievements for blockers, plus a
// severity whitelist defaulting to major.
func NormalizeBlockers(raw any) []domain.Blocker {
	items, ok := raw.([]any)
	if !ok {
		return nil
	}
	var out []domain.Blocker
	seen := map[string]bool{}
	for _, entry := range items {
		item, isMap := entry.(map[string]any)
		if !isMap {
			continue
		}
		blocker := firstString(item, "blocker", "issue", "challenge")
		if blocker == "" {
			continue
		}
		if wordCount(blocker) < 3 && item["evidence"] == nil {
			continue
		}
		affected := item["affected_members"]
		if affected == nil {
			affected = item["members"]
		}
		if affected == nil {
			affected = item["member"]
		}
		member := memberList(affected)
		if member == "" {
			member = "Unknown"
		}
		severity := strings.ToLower(asString(item["severity"], "major"))
		if severity != "critical" && severity != "major" && severity != "minor" {
			severity = "major"
		}
		key := strings.ToLower(blocker)
		if seen[key] {
			continue
		}
		seen[key] = true

		out = append(out, domain.Blocker{
			Blocker:  blocker,
			Member:   member,
			Owner:    asString(item["owner"], ""),
			Severity: severity,
			Evidence: normalizeEvidence(item["evidence"]),
		})
	}
	return out
}

// NormalizeChapters assigns stable ids and titles to chapters that lack
// them and coerces segment references to seg-%04d ids.
func NormalizeChapters(raw any) []domain.Chapter {
	items, ok := raw.([]any)
	if !ok {
		return nil
	}
	var out []domain.Chapter
	for idx, entry := range items {
		item, isMap := entry.(map[string]any)
		if !isMap {
			continue
		}
		chapterID := asString(item["chapter_id"], "")
		if chapterID == "" {
			chapterID = fmt.Sprintf("chap-%03d", idx)
		}
		title := asString(item["title"], fmt.Sprintf("Chapter %d", idx+1))
		summary := asString(item["summary"], "")
		summary = strings.ReplaceAll(summary, "\r\n", "\n")
		summary = strings.ReplaceAll(summary, "\r", "\n")
		summary = strings.ReplaceAll(summary, "In this chapter", "")
		summary = strings.TrimSpace(strings.ReplaceAll(summary, "This chapter", ""))

		segments := item["segment_ids"]
		if segments == nil {
			segments = item["segments"]
		}
		var segmentIDs []string
		if list, isList := segments.([]any); isList {
			for _, seg := range list {
				if n, isNum := seg.(float64); isNum {
					segmentIDs = append(segmentIDs, fmt.Sprintf("seg-%04d", int(n)))
				} else if s := asString(seg, ""); s != "" {
					segmentIDs = append(segmentIDs, s)
				}
			}
		}

		out = append(out, domain.Chapter{
			ChapterID:  chapterID,
			SegmentIDs: segmentIDs,
			Title:      title,
			Summary:    summary,
			StartMS:    toInt64(item["start_ms"], 0),
			EndMS:      toInt64(item["end_ms"], 0),
		})
	}
	return out
}

// NormalizeTimeline accepts event/text and timestamp_ms/time_ms/timestamp
// variants, and speaker values that may be a single name or a list.
func NormalizeTimeline(raw any) []domain.TimelineEntry {
	items, ok := raw.([]any)
	if !ok {
		return nil
	}
	var out []domain.TimelineEntry
	for _, entry := range items {
		item, isMap := entry.(map[string]any)
		if !isMap {
			continue
		}
		event := firstString(item, "event", "text")
		if event == "" {
			continue
		}
		ts := item["timestamp_ms"]
		if ts == nil {
			ts = item["time_ms"]
		}
		if ts == nil {
			ts = item["timestamp"]
		}

		var speakers []string
		if list, isList := item["speakers"].([]any); isList {
			for _, s := range list {
				if name := asString(s, ""); name != "" {
					speakers = append(speakers, name)
				}
			}
		} else if name := asString(item["speakers"], ""); name != "" {
			speakers = []string{name}
		}

		out = append(out, domain.TimelineEntry{
			TimestampMS: toInt64(ts, 0),
			Event:       event,
			Speakers:    speakers,
		})
	}
	return out
}

var (
	narrativeTimestampRe = regexp.MustCompile(`\(\d{2}:\d{2}:\d{2}(?:–\d{2}:\d{2}:\d{2})?\)`)

	excludedHeadingRes = []*regexp.Regexp{
		regexp.MustCompile(`^#+\s*six thinking hats`),
		regexp.MustCompile(`^\*\*six thinking hats`),
		regexp.MustCompile(`^#+\s*chapters\s*$`),
		regexp.MustCompile(`^\*\*chapters\*\*`),
		regexp.MustCompile(`^#+\s*action items`),
		regexp.MustCompile(`^\*\*action items\*\*`),
		regexp.MustCompile(`^#+\s*decisions made`),
		regexp.MustCompile(`^\*\*decisions made\*\*`),
	}

	narrativeStopMarkers = []string{
		`"chapters"`,
		`"timeline"`,
		`"hats"`,
		"chapters [",
		"timeline [",
		"```json",
		"```",
	}
)

// SanitizeNarrativeSummary strips the extra sections the model sometimes
// appends after the narrative: raw JSON dumps, code fences, and headers for
// content that other stages own. Only whole-line headers trigger the cut so
// body text mentioning the same words survives.
func SanitizeNarrativeSummary(text string) string {
	if text == "" {
		return ""
	}
	text = narrativeTimestampRe.ReplaceAllString(text, "")
	cleaned := strings.ReplaceAll(text, "\r", "\n")

	lowered := strings.ToLower(cleaned)
	for _, marker := range narrativeStopMarkers {
		if idx := strings.Index(lowered, marker); idx != -1 {
			cleaned = cleaned[:idx]
			break
		}
	}

	var lines []string
	for _, line := range strings.Split(cleaned, "\n") {
		stripped := strings.ToLower(strings.TrimSpace(line))
		if stripped == "" {
			lines = append(lines, "")
			continue
		}
		excluded := false
		for _, re := range excludedHeadingRes {
			if re.MatchString(stripped) {
				excluded = true
				break
			}
		}
		if excluded {
			break
		}
		lines = append(lines, line)
	}
	return strings.TrimSpace(strings.Join(lines, "\n"))
}

var knownHeadings = map[string]bool{
	"Executive Summary":     true,
	"Meeting Overview":      true,
	"Key Discussion Topics": true,
	"Decisions Made":        true,
	"Concerns & Challenges": true,
	"Risks & Challenges":    true,
	"Next Steps":            true,
	"Key Takeaways":         true,
	"Key Topics":            true,
	"Summary":               true,
	"Highlights":            true,
}

// EnsureMarkdownHeadings upgrades bare or bold section titles in the
// narrative to markdown H2 headings so the frontend renders consistent
// structure. The first content line always becomes a heading.
func EnsureMarkdownHeadings(text string) string {
	if text == "" {
		return ""
	}
	normalized := strings.ReplaceAll(text, "\\r\\n", "\n")
	normalized = strings.ReplaceAll(normalized, "\\n", "\n")
	normalized = strings.ReplaceAll(normalized, "\r\n", "\n")
	normalized = strings.ReplaceAll(normalized, "\r", "\n")

	lines := strings.Split(normalized, "\n")
	firstContent := -1
	for idx, line := range lines {
		stripped := strings.TrimSpace(line)
		if stripped == "" {
			continue
		}
		if firstContent == -1 {
			firstContent = idx
		}

		if strings.HasPrefix(stripped, "**") && strings.HasSuffix(stripped, "**") && len(stripped) > 4 {
			stripped = strings.TrimSpace(strings.Trim(stripped, "*"))
			lines[idx] = stripped
		}
		if strings.HasPrefix(stripped, "#") {
			continue
		}
		matched := false
		for heading := range knownHeadings {
			if strings.EqualFold(stripped, heading) {
				lines[idx] = "## " + heading
				matched = true
				break
			}
		}
		if matched {
			continue
		}
	}

	if firstContent >= 0 {
		if first := strings.TrimSpace(lines[firstContent]); !strings.HasPrefix(first, "#") {
			lines[firstContent] = "## " + first
		}
	}

	for idx, line := range lines {
		stripped := strings.TrimSpace(line)
		if strings.HasPrefix(stripped, "**") && strings.HasSuffix(stripped, "**") && strings.Count(stripped, "**") == 2 {
			lines[idx] = strings.ReplaceAll(line, "**", "")
		}
	}
	return strings.Join(lines, "\n")
}
