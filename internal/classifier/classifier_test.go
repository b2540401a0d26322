package classifier

import (
	"reflect"
	"slices"
	"testing"
)

func TestExtractKeywords(t *testing.T) {
	tests := []struct {
		name     string
		content  string
		expected []string
	}{
		{
			name:     "anxious with emotions",
			content:  "Me siento ansioso y tengo miedo al abandono",
			expected: []string{TagAnxious, TagEmotions},
		},
		{
			name:     "case insensitive",
			content:  "MI PAREJA Y YO NO PODEMOS HABLAR",
			expected: []string{TagRelationship, TagCommunication},
		},
		{
			name:     "style name appended after topics",
			content:  "Mi pareja dice que soy evitativo cuando discutimos",
			expected: []string{TagRelationship, TagConflict, TagAvoidant},
		},
		{
			name:     "style name only",
			content:  "¿qué es el apego desorganizado?",
			expected: []string{TagDisorganized},
		},
		{
			name:     "truncated to three",
			content:  "Tengo celos, necesito mi espacio, no hay confianza en la relación y me siento triste",
			expected: []string{TagAnxious, TagAvoidant, TagRelationship},
		},
		{
			name:     "no match",
			content:  "¿Qué tiempo hace mañana?",
			expected: []string{},
		},
		{
			name:     "empty",
			content:  "",
			expected: []string{},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := ExtractKeywords(tt.content)
			if !reflect.DeepEqual(got, tt.expected) {
				t.Errorf("ExtractKeywords(%q) = %v, want %v", tt.content, got, tt.expected)
			}
		})
	}
}

func TestExtractKeywordsProperties(t *testing.T) {
	vocab := Vocabulary()
	inputs := []string{
		"ansioso evitativo seguro desorganizado apego seguro apego ansioso",
		"pareja hablar pelea confianza siento miedo distancia tranquilo caos",
		"anxious avoidant secure disorganized relationship trust",
		"holanda",
	}
	for _, in := range inputs {
		got := ExtractKeywords(in)
		if len(got) > MaxKeywords {
			t.Errorf("%q: %d tags", in, len(got))
		}
		seen := map[string]bool{}
		for _, tag := range got {
			if !slices.Contains(vocab, tag) {
				t.Errorf("%q: tag %q not in vocabulary", in, tag)
			}
			if seen[tag] {
				t.Errorf("%q: duplicate tag %q", in, tag)
			}
			seen[tag] = true
		}
	}
}

func TestLastQuestionScorer(t *testing.T) {
	want := map[string]Style{"A": StyleAnxious, "B": StyleSecure, "C": StyleDisorganized, "D": StyleAvoidant}
	for q3, style := range want {
		got, err := LastQuestionScorer{}.Classify(Answers{Q1: "D", Q2: "D", Q3: q3})
		if err != nil {
			t.Fatal(err)
		}
		if got != style {
			t.Errorf("Q3=%s: got %s, want %s", q3, got, style)
		}
	}
	if _, err := (LastQuestionScorer{}).Classify(Answers{Q3: "E"}); err == nil {
		t.Error("expected error for invalid answer")
	}
}

func TestWeightedScorer(t *testing.T) {
	tests := []struct {
		answers  Answers
		expected Style
	}{
		{Answers{"A", "A", "A"}, StyleAnxious},
		{Answers{"B", "B", "B"}, StyleSecure},
		{Answers{"D", "D", "A"}, StyleAvoidant},
		{Answers{"C", "C", "B"}, StyleDisorganized},
		{Answers{"A", "B", "B"}, StyleSecure},
		// avoidant 1+3 beats secure 3 and disorganized 3
		{Answers{"B", "C", "D"}, StyleAvoidant},
	}
	for _, tt := range tests {
		got, err := WeightedScorer{}.Classify(tt.answers)
		if err != nil {
			t.Fatal(err)
		}
		if got != tt.expected {
			t.Errorf("%+v: got %s, want %s", tt.answers, got, tt.expected)
		}
	}
	if _, err := (WeightedScorer{}).Classify(Answers{Q1: "", Q2: "A", Q3: "A"}); err == nil {
		t.Error("expected error for missing answer")
	}
}
