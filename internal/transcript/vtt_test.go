package transcript

import (
	"reflect"
	"testing"
)

func TestParseTimestamp(t *testing.T) {
	cases := []struct {
		in   string
		want int64
	}{
		{"00:00:00.000", 0},
		{"00:01:05.250", 65250},
		{"01:02:03.004", 3723004},
		{"12:34.500", 754500},
		{"05:10", 310000},
		{"garbage", 0},
	}
	for _, tc := range cases {
		if got := ParseTimestamp(tc.in); got != tc.want {
			t.Fatalf("ParseTimestamp(%q) = %d, want %d", tc.in, got, tc.want)
		}
	}
}

func TestParseVTTVoiceTags(t *testing.T) {
	content := "WEBVTT\n\n" +
		"00:00:01.000 --> 00:00:04.000\n" +
		"<v Alice>Good morning everyone.\n\n" +
		"00:00:05.000 --> 00:00:08.000\n" +
		"<v Bob>Morning, let's get started.\n"

	got := ParseVTT(content)
	if len(got) != 2 {
		t.Fatalf("expected 2 utterances, got %d", len(got))
	}
	if got[0].Speaker != "Alice" || got[0].Text != "Good morning everyone." {
		t.Fatalf("unexpected first utterance: %+v", got[0])
	}
	if got[0].StartMS != 1000 || got[0].EndMS != 4000 {
		t.Fatalf("unexpected timing: %+v", got[0])
	}
	if got[1].Speaker != "Bob" {
		t.Fatalf("unexpected second speaker: %q", got[1].Speaker)
	}
}

func TestParseVTTColonPrefix(t *testing.T) {
	content := "WEBVTT\n\n" +
		"00:00:01.000 --> 00:00:04.000\n" +
		"Carol: The deploy finished last night.\n\n" +
		"00:00:05.000 --> 00:00:07.000\n" +
		"Just a bare line with no speaker\n"

	got := ParseVTT(content)
	if len(got) != 2 {
		t.Fatalf("expected 2 utterances, got %d", len(got))
	}
	if got[0].Speaker != "Carol" || got[0].Text != "The deploy finished last night." {
		t.Fatalf("unexpected first utterance: %+v", got[0])
	}
	if got[1].Speaker != UnknownSpeaker {
		t.Fatalf("expected unknown speaker, got %q", got[1].Speaker)
	}
}

func TestParseVTTSkipsNotesAndEmptyCues(t *testing.T) {
	content := "WEBVTT\n\n" +
		"NOTE this is a comment\n\n" +
		"00:00:01.000 --> 00:00:02.000\n" +
		"\n" +
		"00:00:03.000 --> 00:00:04.000\n" +
		"<v Dana>Still here.\n"

	got := ParseVTT(content)
	if len(got) != 1 {
		t.Fatalf("expected 1 utterance, got %d", len(got))
	}
	if got[0].Speaker != "Dana" {
		t.Fatalf("unexpected speaker: %q", got[0].Speaker)
	}
}

func TestParseVTTEmptyInput(t *testing.T) {
	if got := ParseVTT(""); len(got) != 0 {
		t.Fatalf("expected no utterances, got %d", len(got))
	}
	if got := ParseVTT("   \n\n  "); len(got) != 0 {
		t.Fatalf("expected no utterances for whitespace input, got %d", len(got))
	}
}

func TestParticipants(t *testing.T) {
	utts := []Utterance{
		{Speaker: "Bob", Text: "a"},
		{Speaker: "Alice", Text: "b"},
		{Speaker: UnknownSpeaker, Text: "c"},
		{Speaker: "Bob", Text: "d"},
		{Speaker: UnknownSpeaker, Text: "e"},
	}
	names, unknown := Participants(utts)
	if !reflect.DeepEqual(names, []string{"Alice", "Bob"}) {
		t.Fatalf("unexpected names: %v", names)
	}
	if unknown != 2 {
		t.Fatalf("unexpected unknown count: %d", unknown)
	}
}
