// Package console is the terminal side of a session: prompts, confirmations,
// box tables and coloured status lines.
package console

import (
	"bufio"
	"errors"
	"fmt"
	"io"
	"strings"

	"github.com/fatih/color"
)

// Console reads answers from in and writes everything else to out.
type Console struct {
	in   *bufio.Reader
	out  io.Writer
	info *color.Color
	err  *color.Color
	warn *color.Color
}

// New creates a console. With noColor set, messages are written without ANSI escapes.
func New(in io.Reader, out io.Writer, noColor bool) *Console {
	c := &Console{
		in:   bufio.NewReader(in),
		out:  out,
		info: color.New(color.FgGreen),
		err:  color.New(color.FgWhite, color.BgRed),
		warn: color.New(color.FgYellow),
	}
	if noColor {
		c.info.DisableColor()
		c.err.DisableColor()
		c.warn.DisableColor()
	}
	return c
}

// Prompt asks a question and returns the trimmed answer. An empty answer is returned
// as "". io.EOF is returned once the input is exhausted.
func (c *Console) Prompt(message string) (string, error) {
	fmt.Fprintf(c.out, "\n %s\n > ", c.info.Sprint(message))
	return c.readLine()
}

// PromptWithDefault is Prompt, with def returned for an empty answer.
func (c *Console) PromptWithDefault(message, def string) (string, error) {
	fmt.Fprintf(c.out, "\n %s [%s]\n > ", c.info.Sprint(message), c.warn.Sprint(def))
	answer, err := c.readLine()
	if err != nil {
		return "", err
	}
	if answer == "" {
		return def, nil
	}
	return answer, nil
}

// Confirm asks a yes/no question until it gets y, yes, n or no. An empty answer picks def.
func (c *Console) Confirm(message string, def bool) (bool, error) {
	hint := "yes/no"
	defLabel := "no"
	if def {
		defLabel = "yes"
	}

	for {
		fmt.Fprintf(c.out, "\n %s (%s) [%s]\n > ", c.info.Sprint(message), hint, c.warn.Sprint(defLabel))
		answer, err := c.readLine()
		if err != nil {
			return false, err
		}

		switch strings.ToLower(answer) {
		case "":
			return def, nil
		case "y", "yes":
			return true, nil
		case "n", "no":
			return false, nil
		}
		c.Error("Please answer yes or no.")
	}
}

// Info writes a green message line.
func (c *Console) Info(message string) {
	c.info.Fprintln(c.out, message)
}

// Error writes a message line highlighted as an error.
func (c *Console) Error(message string) {
	c.err.Fprintln(c.out, message)
}

// Warn writes a yellow message line.
func (c *Console) Warn(message string) {
	c.warn.Fprintln(c.out, message)
}

// Line writes message without decoration.
func (c *Console) Line(message string) {
	fmt.Fprintln(c.out, message)
}

func (c *Console) readLine() (string, error) {
	line, err := c.in.ReadString('\n')
	if err != nil {
		if !errors.Is(err, io.EOF) || line == "" {
			return "", err
		}
	}
	return strings.TrimSpace(line), nil
}
