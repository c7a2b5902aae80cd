// Package parser reads flashcards from markdown notes.
//
// A card starts at a line beginning with "Q:" and takes its answer from the following
// "A:" line. Both may continue over several lines. A "C:" block holds free-form context
// and is skipped, and a line consisting of "---" ends the current card.
package parser

import (
	"bufio"
	"io"
	"os"
	"strings"
)

const (
	questionPrefix = "Q:"
	answerPrefix   = "A:"
	contextPrefix  = "C:"
	separator      = "---"
)

// Draft is a card as written in a file, before validation.
type Draft struct {
	Question string
	Answer   string
	// Line is the 1-based line of the "Q:" that starts the card.
	Line int
}

type state int

const (
	seeking state = iota
	readingQuestion
	readingAnswer
	readingContext
)

// ParseFile reads a file from the given path and extracts all drafts.
func ParseFile(path string) ([]Draft, error) {
	file, err := os.Open(path)
	if err != nil {
		return nil, err
	}
	defer file.Close()

	return Parse(file)
}

// Parse reads from an io.Reader and extracts all drafts. A question without an
// answer is still returned, with an empty Answer, so the caller can report it.
func Parse(r io.Reader) ([]Draft, error) {
	p := &parser{}
	scanner := bufio.NewScanner(r)
	lineNo := 0

	for scanner.Scan() {
		lineNo++
		line := strings.TrimSuffix(scanner.Text(), "\r")

		switch {
		case line == separator:
			p.finishCard()
		case strings.HasPrefix(line, questionPrefix):
			// A new question always starts a new card.
			p.finishCard()
			p.current = Draft{Line: lineNo}
			p.begin(readingQuestion, line[len(questionPrefix):])
		case strings.HasPrefix(line, answerPrefix) && p.state != seeking:
			p.flush()
			p.begin(readingAnswer, line[len(answerPrefix):])
		case strings.HasPrefix(line, contextPrefix) && p.state != seeking:
			p.flush()
			p.begin(readingContext, "")
		case p.state != seeking:
			p.block = append(p.block, line)
		}
	}

	p.finishCard() // Finish the very last card in the file

	if err := scanner.Err(); err != nil {
		return nil, err
	}
	return p.drafts, nil
}

type parser struct {
	state   state
	current Draft
	block   []string
	drafts  []Draft
}

func (p *parser) begin(s state, firstLine string) {
	p.state = s
	p.block = append(p.block[:0], strings.TrimPrefix(firstLine, " "))
}

// flush stores the collected block in the field being read.
func (p *parser) flush() {
	content := strings.TrimSpace(strings.Join(p.block, "\n"))
	switch p.state {
	case readingQuestion:
		p.current.Question = content
	case readingAnswer:
		p.current.Answer = content
	}
	p.block = p.block[:0]
}

func (p *parser) finishCard() {
	if p.state == seeking {
		return
	}
	p.flush()
	if p.current.Question != "" {
		p.drafts = append(p.drafts, p.current)
	}
	p.current = Draft{}
	p.state = seeking
}
