package llm

import "testing"

func TestResolveModel(t *testing.T) {
	cases := []struct {
		requested string
		want      string
	}{
		{"gpt-4o", "gpt-4o"},
		{"  gpt-4o  ", "gpt-4o"},
		{"", "fallback"},
		{"string", "fallback"},
		{"MODEL", "fallback"},
	}
	for _, tc := range cases {
		if got := ResolveModel(tc.requested, "fallback"); got != tc.want {
			t.Fatalf("ResolveModel(%q) = %q, want %q", tc.requested, got, tc.want)
		}
	}
}

func TestStripCodeFence(t *testing.T) {
	cases := []struct {
		in   string
		want string
	}{
		{`{"a":1}`, `{"a":1}`},
		{"```json\n{\"a\":1}\n```", `{"a":1}`},
		{"```\n{\"a\":1}\n```", `{"a":1}`},
		{"  {\"a\":1}  ", `{"a":1}`},
	}
	for _, tc := range cases {
		if got := stripCodeFence(tc.in); got != tc.want {
			t.Fatalf("stripCodeFence(%q) = %q, want %q", tc.in, got, tc.want)
		}
	}
}

func TestWithModel(t *testing.T) {
	base := &client{model: "gpt-4o-mini"}
	if got := WithModel(base, "gpt-4o"); got.Model() != "gpt-4o" {
		t.Fatalf("override model = %q", got.Model())
	}
	if got := WithModel(base, "string"); got.Model() != "gpt-4o-mini" {
		t.Fatalf("placeholder should keep base model, got %q", got.Model())
	}
	if got := WithModel(base, ""); got != base {
		t.Fatalf("empty override should return receiver")
	}
}
