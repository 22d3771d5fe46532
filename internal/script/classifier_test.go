package script

import (
	"bytes"
	"log/slog"
	"strings"
	"testing"
)

func testLogger() (*slog.Logger, *bytes.Buffer) {
	var buf bytes.Buffer
	return slog.New(slog.NewTextHandler(&buf, nil)), &buf
}

func TestResolveVariantExactMatches(t *testing.T) {
	log, buf := testLogger()

	for _, v := range Variants() {
		if got := ResolveVariant(log, string(v)); got != v {
			t.Errorf("ResolveVariant(%q) = %q", v, got)
		}
	}
	if buf.Len() != 0 {
		t.Errorf("exact matches logged a fallback: %s", buf.String())
	}
}

func TestResolveVariantCaseInsensitive(t *testing.T) {
	log, _ := testLogger()

	tests := []struct {
		answer string
		want   Variant
	}{
		{"topicvideo", VariantTopic},
		{"TOPICVIDEO", VariantTopic},
		{"TopicVideo", VariantTopic},
		{"quizvideo", VariantQuiz},
		{" RankingVideo ", VariantRanking},
		{`"TextMessageVideo"`, VariantTextMessage},
	}
	for _, tt := range tests {
		if got := ResolveVariant(log, tt.answer); got != tt.want {
			t.Errorf("ResolveVariant(%q) = %q, want %q", tt.answer, got, tt.want)
		}
	}
}

func TestResolveVariantDefaultsToTopic(t *testing.T) {
	log, buf := testLogger()

	if got := ResolveVariant(log, "giraffe"); got != VariantTopic {
		t.Errorf("ResolveVariant(giraffe) = %q, want %q", got, VariantTopic)
	}

	logged := buf.String()
	if !strings.Contains(logged, "defaulting to topic") {
		t.Errorf("fallback log missing, got: %s", logged)
	}
	if n := strings.Count(logged, "defaulting to topic"); n != 1 {
		t.Errorf("expected exactly one fallback entry, got %d", n)
	}
}

func TestUnwrapType(t *testing.T) {
	tests := []struct {
		name string
		raw  string
		want string
	}{
		{"jsonObject", `{"type": "QuizVideo"}`, "QuizVideo"},
		{"fencedObject", "```json\n{\"type\": \"RankingVideo\"}\n```", "RankingVideo"},
		{"bareAnswer", "TopicVideo", "TopicVideo"},
		{"objectWithoutType", `{"format": "QuizVideo"}`, `{"format": "QuizVideo"}`},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := unwrapType(tt.raw); got != tt.want {
				t.Errorf("unwrapType(%q) = %q, want %q", tt.raw, got, tt.want)
			}
		})
	}
}
