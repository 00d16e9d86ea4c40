package steps

import (
	"fmt"
	"strings"

	"github.com/summerstudio/meetscribe-backend/internal/domain"
	"github.com/summerstudio/meetscribe-backend/internal/transcript"
)

const foundationSystemPrompt = `You are an expert meeting analyst specializing in structural analysis.

Your task is to extract the foundational structure of the meeting:
1. Meeting metadata (objective facts)
2. Timeline of key moments (8-15 critical points)
3. Chapter boundaries (3-7 thematic sections)

Be precise with timestamps and focus on objective, structural elements.`

const extractionSystemPrompt = `You are an expert meeting analyst specializing in actionable insights extraction.

Your primary objectives (in order of importance):
1. ACTION ITEMS - Find EVERY task, commitment, and follow-up. Miss nothing.
2. ACHIEVEMENTS - Identify completed work and accomplishments
3. BLOCKERS - Surface challenges, risks, and obstacles

Critical rules:
- Extract evidence as exact quotes with speaker names (no timestamps)
- Better to over-extract than miss important items
- Be specific and actionable in descriptions
- Assign priority levels based on urgency cues`

const synthesisSystemPrompt = `You are an expert at creating comprehensive, well-structured meeting documentation.

Your goal: Create a COMPLETE executive summary that captures EVERYTHING important from the meeting.

The summary should be detailed enough that someone who missed the meeting understands:
- What was discussed and why
- What decisions were made
- What problems or concerns were raised
- What the key takeaways are
- What happens next

Writing rules:
- Use markdown formatting with clear headings
- Use bullet points (-) for all lists
- Be specific: include names, numbers, dates, details
- Cover ALL major topics discussed
- Make it comprehensive but scannable`

// timestampedTranscript renders utterances as "[HH:MM:SS.mmm] Speaker: text"
// for stages that need to anchor output to real timestamps.
func timestampedTranscript(utterances []transcript.Utterance) string {
	var sb strings.Builder
	for _, u := range utterances {
		text := strings.TrimSpace(u.Text)
		if text == "" {
			continue
		}
		fmt.Fprintf(&sb, "[%s] %s: %s\n", transcript.FormatMS(u.StartMS), u.Speaker, text)
	}
	return strings.TrimRight(sb.String(), "\n")
}

// plainTranscript renders utterances as "Speaker: text" for stages that
// quote evidence without timestamps.
func plainTranscript(utterances []transcript.Utterance) string {
	var sb strings.Builder
	for _, u := range utterances {
		text := strings.TrimSpace(u.Text)
		if text == "" {
			continue
		}
		fmt.Fprintf(&sb, "%s: %s\n", u.Speaker, text)
	}
	return strings.TrimRight(sb.String(), "\n")
}

func chapterOutline(chapters []domain.Chapter) string {
	if len(chapters) == 0 {
		return "- (no chapters identified)"
	}
	lines := make([]string, 0, len(chapters))
	for _, ch := range chapters {
		lines = append(lines, fmt.Sprintf("- %s: %s", ch.ChapterID, ch.Title))
	}
	return strings.Join(lines, "\n")
}

func foundationUserPrompt(fullTranscript string, utteranceCount int, durationMS int64) string {
	return fmt.Sprintf(`Analyze this meeting transcript and extract the foundational structure.

TRANSCRIPT:
%s

MEETING METADATA:
- Total utterances: %d
- Duration: %s

Provide a JSON response with the following EXACT structure:

{
  "meeting_details": {
    "title": "A concise, descriptive meeting title (3-8 words)",
    "date": "YYYY-MM-DD (use today's date if not mentioned)",
    "duration_ms": %d,
    "participants": ["Alice", "Bob", "Charlie"],
    "unknown_count": 0
  },
  "timeline": [
    {"timestamp_ms": 0, "text": "Meeting started - introduction and agenda setting", "speakers": ["Alice"]}
  ],
  "chapters": [
    {"chapter_id": "ch1", "title": "Introduction & Agenda", "start_ms": 0, "end_ms": 180000, "topic_keywords": ["agenda", "introductions", "goals"]}
  ]
}

INSTRUCTIONS:

**Meeting Details:**
- title: Create a concise, professional title that captures the meeting's purpose
- date: Use format YYYY-MM-DD (default to today if not mentioned)
- participants: List all unique speakers (exclude "Unknown")
- unknown_count: Count of "Unknown" speaker utterances

**Timeline (8-15 key moments):**
- Select the MOST IMPORTANT moments that define the meeting flow
- Include: decisions, topic transitions, key announcements, important questions
- Use actual timestamps from the transcript
- List all speakers involved in that moment

**Chapters (3-7 thematic sections):**
- Divide the meeting into logical thematic chapters based on topic shifts
- chapter_id: Use format "ch1", "ch2", etc.
- start_ms and end_ms: Actual timestamps that define the chapter boundaries
- topic_keywords: 3-5 keywords that characterize this chapter's content

**Quality Guidelines:**
- Use ACTUAL timestamps from the transcript (don't fabricate)
- Chapters should not overlap and should cover the entire meeting
- Timeline moments should be spread throughout the meeting (not clustered)

Return ONLY valid JSON with no additional text.`, fullTranscript, utteranceCount, transcript.FormatMS(durationMS), durationMS)
}

func extractionUserPrompt(fullTranscript, chapterInfo string) string {
	return fmt.Sprintf(`Analyze this meeting transcript and extract all actionable content.

TRANSCRIPT:
%s

CHAPTERS:
%s

Return a JSON object with this EXACT structure:

{
  "action_items": [
    {
      "task": "Clear, specific description of what needs to be done",
      "owner": "Person Name (or 'Team' if group, 'Unassigned' if unclear)",
      "deadline": "Specific date, 'This week', 'ASAP', or '' if not specified",
      "priority": "high, medium, or low",
      "status": "pending",
      "evidence": {"speaker": "Who said it", "quote": "Exact words from transcript showing the commitment"}
    }
  ],
  "achievements": [
    {
      "achievement": "Clear description of what was completed",
      "members": ["Who accomplished it"],
      "confidence": 0.9,
      "evidence": {"speaker": "Who mentioned it", "quote": "Exact quote"}
    }
  ],
  "blockers": [
    {
      "blocker": "Clear description of the obstacle",
      "severity": "critical, major, or minor",
      "affected_members": ["Who is blocked"],
      "evidence": {"speaker": "Who raised it", "quote": "Exact quote"}
    }
  ]
}

Return ONLY valid JSON with no additional text.`, fullTranscript, chapterInfo)
}

func synthesisUserPrompt(fullTranscript, chapterInfo, actionSummary string) string {
	if actionSummary == "" {
		actionSummary = "No specific action items identified"
	}
	return fmt.Sprintf(`Create a comprehensive executive summary of this meeting.

TRANSCRIPT:
%s

CHAPTERS COVERED:
%s

ACTION ITEMS IDENTIFIED:
%s

Return JSON with this structure:

{
  "narrative_summary": "comprehensive markdown summary",
  "chapters": [
    {"chapter_id": "ch1", "summary": "detailed chapter summary"}
  ]
}

=== NARRATIVE SUMMARY FORMAT ===

Structure the narrative summary as:

**Executive Overview**
A 3-4 sentence paragraph summarizing the meeting's purpose, main outcomes, and key decisions.

**Key Takeaways**
4-6 bullet points capturing the most critical outcomes.

**Discussion Topics**
One H2 section per major topic with specific discussion points, contributors, decisions, and follow-ups.

Do not include raw JSON, code blocks, or sections owned by other outputs (chapters, timeline).

Return ONLY valid JSON with no additional text.`, fullTranscript, chapterInfo, actionSummary)
}
