package transcript

import (
	"regexp"
	"sort"
	"strconv"
	"strings"
)

// Utterance is one spoken cue from a WebVTT transcript.
type Utterance struct {
	StartMS int64  `json:"start_ms"`
	EndMS   int64  `json:"end_ms"`
	Speaker string `json:"speaker"`
	Text    string `json:"text"`
}

// UnknownSpeaker labels cues whose speaker could not be identified.
const UnknownSpeaker = "Speaker ?"

var (
	cueRe   = regexp.MustCompile(`([\d:.]+)\s*-->\s*([\d:.]+)`)
	voiceRe = regexp.MustCompile(`<v\s+([^>]+)>(.*)`)
	colonRe = regexp.MustCompile(`^([^:]+):\s*(.*)`)
)

// ParseTimestamp converts a VTT timestamp (HH:MM:SS.mmm or MM:SS.mmm) to
// milliseconds. Malformed input parses to 0.
func ParseTimestamp(ts string) int64 {
	parts := strings.Split(strings.TrimSpace(ts), ":")
	var h, m int
	var sPart string
	switch len(parts) {
	case 3:
		h, _ = strconv.Atoi(parts[0])
		m, _ = strconv.Atoi(parts[1])
		sPart = parts[2]
	case 2:
		m, _ = strconv.Atoi(parts[0])
		sPart = parts[1]
	default:
		return 0
	}

	sec := 0
	ms := 0
	if dot := strings.IndexByte(sPart, '.'); dot >= 0 {
		sec, _ = strconv.Atoi(sPart[:dot])
		ms, _ = strconv.Atoi(sPart[dot+1:])
	} else {
		sec, _ = strconv.Atoi(sPart)
	}

	return int64(h*3600+m*60+sec)*1000 + int64(ms)
}

// ParseVTT extracts utterances from Teams-style WebVTT content. Speaker names
// come from `<v Name>` voice tags or a leading "Name:" prefix; cues with
// neither get UnknownSpeaker.
func ParseVTT(content string) []Utterance {
	var utterances []Utterance

	lines := strings.Split(content, "\n")
	i := 0
	n := len(lines)

	for i < n && !strings.HasPrefix(strings.TrimSpace(lines[i]), "WEBVTT") {
		i++
	}
	if i < n {
		i++
	}

	for i < n {
		line := strings.TrimSpace(lines[i])
		if line == "" || strings.HasPrefix(line, "NOTE") {
			i++
			continue
		}

		if strings.Contains(line, "-->") {
			if m := cueRe.FindStringSubmatch(line); m != nil {
				startMS := ParseTimestamp(m[1])
				endMS := ParseTimestamp(m[2])

				i++
				if i < n {
					textLine := strings.TrimSpace(lines[i])
					speaker, text := splitSpeaker(textLine)
					if text != "" {
						utterances = append(utterances, Utterance{
							StartMS: startMS,
							EndMS:   endMS,
							Speaker: speaker,
							Text:    text,
						})
					}
				}
			}
		}
		i++
	}

	return utterances
}

func splitSpeaker(line string) (speaker, text string) {
	speaker = UnknownSpeaker
	text = line

	if m := voiceRe.FindStringSubmatch(line); m != nil {
		speaker = strings.TrimSpace(m[1])
		text = strings.TrimSpace(m[2])
	} else if m := colonRe.FindStringSubmatch(line); m != nil {
		speaker = strings.TrimSpace(m[1])
		text = strings.TrimSpace(m[2])
	}

	if speaker == "" || strings.EqualFold(speaker, "unknown") {
		speaker = UnknownSpeaker
	}
	return speaker, text
}

// Participants returns the sorted distinct named speakers and the count of
// unattributed cues.
func Participants(utterances []Utterance) (names []string, unknownCount int) {
	seen := map[string]bool{}
	for _, u := range utterances {
		s := strings.TrimSpace(u.Speaker)
		if s == "" {
			continue
		}
		if s == UnknownSpeaker {
			unknownCount++
			continue
		}
		if !seen[s] {
			seen[s] = true
			names = append(names, s)
		}
	}
	sort.Strings(names)
	return names, unknownCount
}
