package wizard

import (
	"context"
	"errors"
	"fmt"
	"io"
	"strconv"
	"strings"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"
	"github.com/chzyer/readline"
)

var (
	questionStyle = lipgloss.NewStyle().Bold(true)
	announceStyle = lipgloss.NewStyle().Foreground(lipgloss.Color("10")).Italic(true)
)

// Terminal prompts on an interactive terminal. The type table is a bubbletea
// program; the remaining questions are read line by line with readline.
type Terminal struct {
	in  io.ReadCloser
	out io.Writer
	rl  *readline.Instance
}

// NewTerminal returns a prompter reading from in and writing to out.
func NewTerminal(in io.ReadCloser, out io.Writer) *Terminal {
	return &Terminal{in: in, out: out}
}

// Close releases the line reader.
func (t *Terminal) Close() error {
	if t.rl == nil {
		return nil
	}
	return t.rl.Close()
}

// ChooseTypes shows the model-type table.
func (t *Terminal) ChooseTypes(ctx context.Context, message string, rows []ModelRow) ([]ModelType, error) {
	program := tea.NewProgram(newTypeTable(questionStyle.Render(message), rows),
		tea.WithContext(ctx),
		tea.WithInput(t.in),
		tea.WithOutput(t.out),
	)
	final, err := program.Run()
	if err != nil {
		if errors.Is(err, tea.ErrProgramKilled) && ctx.Err() != nil {
			return nil, ctx.Err()
		}
		return nil, fmt.Errorf("type table: %w", err)
	}

	table, ok := final.(typeTable)
	if !ok || table.aborted {
		return nil, ErrAborted
	}
	return table.types(), nil
}

// Select lists numbered choices and reads the chosen number. Enter picks the first.
func (t *Terminal) Select(ctx context.Context, message string, choices []Choice) (string, error) {
	if len(choices) == 0 {
		return "", fmt.Errorf("no choices for %q", message)
	}

	t.println(questionStyle.Render(message))
	for i, c := range choices {
		t.println(fmt.Sprintf("  %d) %s", i+1, c.Label))
	}

	for {
		line, err := t.readLine(ctx, fmt.Sprintf("Choose [1-%d] (1): ", len(choices)))
		if err != nil {
			return "", err
		}
		if line == "" {
			return choices[0].Value, nil
		}
		n, err := strconv.Atoi(line)
		if err == nil && n >= 1 && n <= len(choices) {
			return choices[n-1].Value, nil
		}
		t.println(fmt.Sprintf("Please enter a number between 1 and %d.", len(choices)))
	}
}

// Input reads a free-form answer. Enter accepts def.
func (t *Terminal) Input(ctx context.Context, message, def string) (string, error) {
	prompt := message + ": "
	if def != "" {
		prompt = fmt.Sprintf("%s (%s): ", message, def)
	}
	line, err := t.readLine(ctx, questionStyle.Render(prompt))
	if err != nil {
		return "", err
	}
	if line == "" {
		return def, nil
	}
	return line, nil
}

// Confirm reads a yes/no answer. Enter accepts def.
func (t *Terminal) Confirm(ctx context.Context, message string, def bool) (bool, error) {
	hint := "y/N"
	if def {
		hint = "Y/n"
	}
	for {
		line, err := t.readLine(ctx, questionStyle.Render(fmt.Sprintf("%s (%s): ", message, hint)))
		if err != nil {
			return false, err
		}
		switch strings.ToLower(line) {
		case "":
			return def, nil
		case "y", "yes":
			return true, nil
		case "n", "no":
			return false, nil
		}
		t.println("Please answer y or n.")
	}
}

// Announce prints a progress message.
func (t *Terminal) Announce(message string) {
	t.println("")
	t.println(announceStyle.Render(message))
}

func (t *Terminal) println(s string) {
	_, _ = fmt.Fprintln(t.out, s)
}

// readLine creates the readline instance on first use so it does not compete
// with the bubbletea program for input.
func (t *Terminal) readLine(ctx context.Context, prompt string) (string, error) {
	if err := ctx.Err(); err != nil {
		return "", err
	}
	if t.rl == nil {
		rl, err := readline.NewEx(&readline.Config{
			Stdin:           t.in,
			Stdout:          t.out,
			InterruptPrompt: "^C",
		})
		if err != nil {
			return "", fmt.Errorf("failed to initialize prompt: %w", err)
		}
		t.rl = rl
	}

	t.rl.SetPrompt(prompt)
	line, err := t.rl.Readline()
	if errors.Is(err, readline.ErrInterrupt) || errors.Is(err, io.EOF) {
		return "", ErrAborted
	}
	if err != nil {
		return "", err
	}
	return strings.TrimSpace(line), nil
}
