package steps

import (
	"fmt"
	"strings"

	"github.com/summerstudio/meetscribe-backend/internal/domain"
)

// Named adapters map each upstream record shape onto the canonical outcome.
// Field-name fallbacks live here and in the stage normalizers, never inside
// the clustering logic.

// extractOutcomes converts the collective summary's action items,
// achievements, and blockers into canonical outcomes. Records whose primary
// text is empty after trimming are dropped, never emitted with a blank title.
func (b *mindmapBuilder) extractOutcomes() {
	for _, item := range b.in.Collective.ActionItems {
		b.addOutcome(outcomeFromActionItem(item))
	}
	for _, item := range b.in.Collective.Achievements {
		b.addOutcome(outcomeFromAchievement(item))
	}
	for _, item := range b.in.Collective.Blockers {
		b.addOutcome(outcomeFromBlocker(item))
	}
}

func (b *mindmapBuilder) addOutcome(o outcome) {
	o.Title = cleanText(o.Title)
	if o.Title == "" {
		return
	}
	o.Owner = cleanText(o.Owner)
	o.Deadline = cleanText(o.Deadline)
	o.Status = cleanText(o.Status)

	people := make([]string, 0, len(o.People))
	for _, p := range o.People {
		if cleaned := cleanText(p); cleaned != "" {
			people = append(people, cleaned)
		}
	}
	o.People = people

	// Evidence existing is a weak proxy for provenance quality, not certainty.
	if len(o.Evidence) > 0 {
		o.Confidence = 0.85
	} else {
		o.Confidence = 0.75
	}

	o.ID = fmt.Sprintf("outcome-%03d", len(b.outcomes)+1)
	b.outcomes = append(b.outcomes, o)
}

func outcomeFromActionItem(item domain.ActionItem) outcome {
	people := []string{item.Owner}
	if cleanText(item.Assignee) != "" {
		people = append(people, item.Assignee)
	}
	timeHint, hasHint := item.TimestampMS, item.TimestampMS > 0
	if !hasHint {
		timeHint, hasHint = evidenceTimeHint(item.Evidence)
	}
	return outcome{
		Type:        "action",
		Title:       item.Task,
		Owner:       item.Owner,
		People:      people,
		Deadline:    item.Deadline,
		Status:      item.Status,
		Evidence:    item.Evidence,
		TimeHintMS:  timeHint,
		HasTimeHint: hasHint,
	}
}

func outcomeFromAchievement(item domain.Achievement) outcome {
	people := item.Members
	if len(people) == 0 && cleanText(item.Member) != "" {
		people = splitMemberList(item.Member)
	}
	timeHint, hasHint := evidenceTimeHint(item.Evidence)
	return outcome{
		Type:        "achievement",
		Title:       item.Achievement,
		People:      people,
		Evidence:    item.Evidence,
		TimeHintMS:  timeHint,
		HasTimeHint: hasHint,
	}
}

func outcomeFromBlocker(item domain.Blocker) outcome {
	people := item.AffectedMembers
	if len(people) == 0 && cleanText(item.Member) != "" {
		people = splitMemberList(item.Member)
	}
	timeHint, hasHint := evidenceTimeHint(item.Evidence)
	return outcome{
		Type:        "blocker",
		Title:       item.Blocker,
		Owner:       item.Owner,
		People:      people,
		Evidence:    item.Evidence,
		TimeHintMS:  timeHint,
		HasTimeHint: hasHint,
	}
}

// evidenceTimeHint parses the first evidence timestamp label, if any.
func evidenceTimeHint(evidence []domain.Evidence) (int64, bool) {
	if len(evidence) == 0 {
		return 0, false
	}
	return parseTimestampLabel(evidence[0].T)
}

// splitMemberList breaks a comma-joined member string ("Alice, Bob") back
// into individual names.
func splitMemberList(member string) []string {
	parts := strings.Split(member, ",")
	out := make([]string, 0, len(parts))
	for _, p := range parts {
		if cleaned := cleanText(p); cleaned != "" {
			out = append(out, cleaned)
		}
	}
	return out
}

// description renders the outcome for node descriptions: title plus owner,
// deadline, non-default status, and up to two evidence quotes.
func (o outcome) description() string {
	parts := []string{o.Title}
	if o.Owner != "" {
		parts = append(parts, "Owner: "+o.Owner)
	}
	if o.Deadline != "" {
		parts = append(parts, "Deadline: "+o.Deadline)
	}
	if o.Status != "" {
		lowered := strings.ToLower(o.Status)
		if lowered != "pending" && lowered != "to-do" {
			parts = append(parts, "Status: "+o.Status)
		}
	}
	if len(o.Evidence) > 0 {
		quotes := make([]string, 0, 2)
		for _, ev := range o.Evidence[:min(2, len(o.Evidence))] {
			label := ev.T
			if label == "" {
				label = ev.Speaker
			}
			if q := cleanText(label + " — " + ev.Quote); q != "" && cleanText(ev.Quote) != "" {
				quotes = append(quotes, q)
			}
		}
		if len(quotes) > 0 {
			parts = append(parts, "Evidence: "+strings.Join(quotes, "; "))
		}
	}
	return strings.Join(parts, " | ")
}

// label renders the outcome node label with a type prefix and a capped title.
func (o outcome) label() string {
	prefix := "Outcome"
	switch o.Type {
	case "action":
		prefix = "Action"
	case "achievement":
		prefix = "Win"
	case "blocker":
		prefix = "Blocker"
	case "decision":
		prefix = "Decision"
	}
	title := o.Title
	if len([]rune(title)) > 70 {
		title = string([]rune(title)[:70]) + "…"
	}
	return prefix + ": " + title
}
