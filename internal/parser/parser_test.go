package parser

import (
	"os"
	"path/filepath"
	"strings"
	"testing"
)

func TestParse(t *testing.T) {
	testCases := []struct {
		name          string
		input         string
		expectedCards int
		expectedQ     string
		expectedA     string
		expectedLine  int
	}{
		{
			name:          "Simple Q&A",
			input:         "Q: What is the capital of France?\nA: Paris",
			expectedCards: 1,
			expectedQ:     "What is the capital of France?",
			expectedA:     "Paris",
			expectedLine:  1,
		},
		{
			name:          "Context is skipped",
			input:         "Q: What is 1+1?\nA: 2\nC: Basic arithmetic",
			expectedCards: 1,
			expectedQ:     "What is 1+1?",
			expectedA:     "2",
			expectedLine:  1,
		},
		{
			name: "Multiline Answer",
			input: `
Q: What are the primary colors?
A: Red
Blue
Yellow
`,
			expectedCards: 1,
			expectedQ:     "What are the primary colors?",
			expectedA:     "Red\nBlue\nYellow",
			expectedLine:  2,
		},
		{
			name: "Two Cards",
			input: `
Q: First question
A: First answer

Q: Second question
A: Second answer
`,
			expectedCards: 2,
		},
		{
			name: "Multiline context after answer",
			input: `
Q: What is Go?
A: A statically typed, compiled programming language.
It was designed at Google.
C: Programming Languages
See go.dev
`,
			expectedCards: 1,
			expectedQ:     "What is Go?",
			expectedA:     "A statically typed, compiled programming language.\nIt was designed at Google.",
			expectedLine:  2,
		},
		{
			name:          "No cards, just text",
			input:         "This is a file with no questions.\nA: stray answer",
			expectedCards: 0,
		},
		{
			name:          "Prefixes with no space",
			input:         "Q:Question\nA:Answer",
			expectedCards: 1,
			expectedQ:     "Question",
			expectedA:     "Answer",
			expectedLine:  1,
		},
		{
			name:          "Windows line endings",
			input:         "Q: Question\r\nA: Answer\r\n",
			expectedCards: 1,
			expectedQ:     "Question",
			expectedA:     "Answer",
			expectedLine:  1,
		},
		{
			name:          "Separator ends the card",
			input:         "# Notes\n\nQ: Question\nA: Answer\n---\nTrailing prose that is not part of the answer.",
			expectedCards: 1,
			expectedQ:     "Question",
			expectedA:     "Answer",
			expectedLine:  3,
		},
		{
			name:          "Question without answer",
			input:         "Q: Unanswered\n",
			expectedCards: 1,
			expectedQ:     "Unanswered",
			expectedA:     "",
			expectedLine:  1,
		},
	}

	for _, tc := range testCases {
		t.Run(tc.name, func(t *testing.T) {
			r := strings.NewReader(tc.input)
			cards, err := Parse(r)
			if err != nil {
				t.Fatalf("Parse() returned an unexpected error: %v", err)
			}

			if len(cards) != tc.expectedCards {
				t.Fatalf("Expected %d cards, but got %d", tc.expectedCards, len(cards))
			}

			if tc.expectedCards == 1 {
				card := cards[0]
				if card.Question != tc.expectedQ {
					t.Errorf("Expected Question to be '%s', but got '%s'", tc.expectedQ, card.Question)
				}
				if card.Answer != tc.expectedA {
					t.Errorf("Expected Answer to be '%s', but got '%s'", tc.expectedA, card.Answer)
				}
				if card.Line != tc.expectedLine {
					t.Errorf("Expected Line to be %d, but got %d", tc.expectedLine, card.Line)
				}
			}
		})
	}
}

func TestParse_TwoCards(t *testing.T) {
	input := "Q: First question\nA: First answer\n\nQ: Second question\nA: Second answer\n"

	cards, err := Parse(strings.NewReader(input))
	if err != nil {
		t.Fatalf("Parse() returned an unexpected error: %v", err)
	}
	if len(cards) != 2 {
		t.Fatalf("Expected 2 cards, but got %d", len(cards))
	}

	want := []Draft{
		{Question: "First question", Answer: "First answer", Line: 1},
		{Question: "Second question", Answer: "Second answer", Line: 4},
	}
	for i := range want {
		if cards[i] != want[i] {
			t.Errorf("Expected card %d to be %+v, but got %+v", i, want[i], cards[i])
		}
	}
}

func TestParseFile(t *testing.T) {
	path := filepath.Join(t.TempDir(), "cards.md")
	if err := os.WriteFile(path, []byte("Q: 2+2?\nA: 4\n"), 0o644); err != nil {
		t.Fatalf("failed to write fixture: %v", err)
	}

	cards, err := ParseFile(path)
	if err != nil {
		t.Fatalf("ParseFile() returned an unexpected error: %v", err)
	}
	if len(cards) != 1 || cards[0].Question != "2+2?" || cards[0].Answer != "4" {
		t.Errorf("Expected one card 2+2? / 4, but got %+v", cards)
	}

	if _, err := ParseFile(filepath.Join(t.TempDir(), "missing.md")); err == nil {
		t.Error("Expected an error for a missing file")
	}
}
