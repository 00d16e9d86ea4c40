package steps

import (
	"fmt"
	"regexp"
	"strings"
)

var sentenceEndRe = regexp.MustCompile(`([.!?])\s+`)

// splitSentences segments free text into candidate claim sentences. Lines are
// the outer unit so markdown bullets and prose behave the same: bullet
// markers are stripped, then each line splits on sentence-ending punctuation
// followed by whitespace. Fragments below minWords are discarded.
func splitSentences(text string, minWords int) []string {
	text = strings.ReplaceAll(text, "\r", "\n")
	var segments []string
	for _, rawLine := range strings.Split(text, "\n") {
		line := strings.TrimSpace(rawLine)
		if line == "" {
			continue
		}
		if strings.HasPrefix(line, "-") || strings.HasPrefix(line, "*") {
			line = strings.TrimSpace(strings.TrimLeft(line, "-* "))
		}
		marked := sentenceEndRe.ReplaceAllString(line, "$1\x00")
		segments = append(segments, strings.Split(marked, "\x00")...)
	}

	var out []string
	for _, seg := range segments {
		cleaned := cleanText(seg)
		if wordCount(cleaned) >= minWords {
			out = append(out, cleaned)
		}
	}
	return out
}

// extractClaims harvests claims from the narrative summary and each chapter
// summary. Claims carry detected participants and a best-effort time hint.
func (b *mindmapBuilder) extractClaims() {
	add := func(text, source string, chapterID, chapterTitle string) {
		cleaned := cleanText(text)
		if wordCount(cleaned) < b.cfg.MinClaimWords {
			return
		}
		participants := b.detectParticipants(cleaned)
		timeHint, hasHint := b.matchTimeHint(cleaned, participants)
		confidence := 0.7
		if len(participants) > 0 {
			confidence = 0.75
		}
		b.claims = append(b.claims, claim{
			ID:           fmt.Sprintf("claim-%03d", len(b.claims)+1),
			Text:         cleaned,
			Source:       source,
			ChapterID:    chapterID,
			ChapterTitle: chapterTitle,
			Participants: participants,
			TimeHintMS:   timeHint,
			HasTimeHint:  hasHint,
			Confidence:   confidence,
		})
	}

	for _, sentence := range splitSentences(b.in.NarrativeSummary, b.cfg.MinClaimWords) {
		add(sentence, "Executive Narrative", "", "")
	}

	for _, chapter := range b.in.Chapters {
		source := cleanText(chapter.Title)
		if source == "" {
			source = "Chapter"
		}
		for _, sentence := range splitSentences(chapter.Summary, b.cfg.MinClaimWords) {
			add(sentence, source, chapter.ChapterID, chapter.Title)
		}
	}
}

// detectParticipants returns the roster members whose names appear verbatim
// (case-insensitively) in the text, in roster order. Only known roster names
// are ever attached to a claim.
func (b *mindmapBuilder) detectParticipants(text string) []string {
	lowered := strings.ToLower(text)
	var detected []string
	for _, p := range b.participants {
		if strings.Contains(lowered, strings.ToLower(p)) {
			detected = append(detected, p)
		}
	}
	return detected
}

// matchTimeHint scores every timeline entry by token overlap plus a doubled
// speaker overlap and takes the best one, scanning in timeline order so ties
// keep the first entry. A score below TimeMatchFloor is treated as noise and
// yields no hint; absence is a legitimate result, not an error.
func (b *mindmapBuilder) matchTimeHint(text string, participants []string) (int64, bool) {
	if len(b.timelineIndex) == 0 {
		return 0, false
	}
	tokens := tokenize(text)
	participantSet := map[string]bool{}
	for _, p := range participants {
		participantSet[strings.ToLower(p)] = true
	}

	bestScore := 0
	var bestTime int64
	found := false
	for _, entry := range b.timelineIndex {
		score := 0
		for t := range tokens {
			if entry.Tokens[t] {
				score++
			}
		}
		if len(participantSet) > 0 && len(entry.Speakers) > 0 {
			overlap := 0
			for _, s := range entry.Speakers {
				if participantSet[strings.ToLower(s)] {
					overlap++
				}
			}
			score += 2 * overlap
		}
		if score > bestScore {
			bestScore = score
			bestTime = entry.TimestampMS
			found = true
		}
	}
	if !found || bestScore < b.cfg.TimeMatchFloor {
		return 0, false
	}
	return bestTime, true
}

// ensureParticipationClaims synthesizes an attendance filler claim for every
// roster member no real claim or outcome mentions. Every listed participant
// must surface in the final graph; silently omitting an attendee is a defect.
func (b *mindmapBuilder) ensureParticipationClaims() {
	if len(b.participants) == 0 {
		return
	}
	mentioned := map[string]bool{}
	for _, c := range b.claims {
		for _, p := range c.Participants {
			mentioned[p] = true
		}
	}
	for _, o := range b.outcomes {
		for _, p := range o.People {
			if p != "" {
				mentioned[p] = true
			}
		}
	}
	for _, p := range b.participants {
		if mentioned[p] {
			continue
		}
		b.claims = append(b.claims, claim{
			ID:           fmt.Sprintf("claim-%03d", len(b.claims)+1),
			Text:         fmt.Sprintf("%s attended the meeting; no direct contributions were captured in the transcript.", p),
			Source:       "Attendance",
			Participants: []string{p},
			Confidence:   0.55,
		})
	}
}
