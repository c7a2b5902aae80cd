package session

import (
	"io"
	"log/slog"
	"strings"
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/conorfennell/flashdrill/internal/storage"
)

type message struct {
	kind string
	text string
}

type table struct {
	headers []string
	rows    [][]string
}

// scriptedUI answers prompts from a fixed script and records everything shown.
type scriptedUI struct {
	ctrl     *Controller
	inputs   []string
	prompts  []string
	states   []State
	messages []message
	tables   []table
}

func (u *scriptedUI) next(prompt string) (string, error) {
	u.prompts = append(u.prompts, prompt)
	if u.ctrl != nil {
		u.states = append(u.states, u.ctrl.State())
	}
	if len(u.inputs) == 0 {
		return "", io.EOF
	}
	in := u.inputs[0]
	u.inputs = u.inputs[1:]
	return strings.TrimSpace(in), nil
}

func (u *scriptedUI) Prompt(message string) (string, error) {
	return u.next(message)
}

func (u *scriptedUI) PromptWithDefault(message, def string) (string, error) {
	in, err := u.next(message)
	if err != nil {
		return "", err
	}
	if in == "" {
		return def, nil
	}
	return in, nil
}

func (u *scriptedUI) Confirm(message string, def bool) (bool, error) {
	in, err := u.next(message)
	if err != nil {
		return false, err
	}
	switch strings.ToLower(in) {
	case "":
		return def, nil
	case "y", "yes":
		return true, nil
	}
	return false, nil
}

func (u *scriptedUI) Table(headers []string, rows [][]string) {
	u.tables = append(u.tables, table{headers: headers, rows: rows})
}

func (u *scriptedUI) Info(m string)  { u.messages = append(u.messages, message{"info", m}) }
func (u *scriptedUI) Error(m string) { u.messages = append(u.messages, message{"error", m}) }
func (u *scriptedUI) Warn(m string)  { u.messages = append(u.messages, message{"warn", m}) }
func (u *scriptedUI) Line(m string)  { u.messages = append(u.messages, message{"line", m}) }

// shown returns the texts of all messages of one kind, in order.
func (u *scriptedUI) shown(kind string) []string {
	var out []string
	for _, m := range u.messages {
		if m.kind == kind {
			out = append(out, m.text)
		}
	}
	return out
}

func (u *scriptedUI) prompted(prompt string) int {
	n := 0
	for _, p := range u.prompts {
		if p == prompt {
			n++
		}
	}
	return n
}

func (u *scriptedUI) lastTable() table {
	if len(u.tables) == 0 {
		return table{}
	}
	return u.tables[len(u.tables)-1]
}

// runScript runs a full session against store, answering prompts with inputs.
func runScript(t *testing.T, store storage.Store, inputs ...string) *scriptedUI {
	t.Helper()
	ui := &scriptedUI{inputs: inputs}
	ctrl := New(store, store, ui, slog.New(slog.DiscardHandler))
	ui.ctrl = ctrl

	require.NoError(t, ctrl.Run(t.Context()))
	require.Equal(t, Exited, ctrl.State())
	require.Empty(t, ui.inputs, "script not fully consumed")
	return ui
}
