// Package chat runs an interactive conversation with a deployed agent.
package chat

import (
	"bufio"
	"context"
	"fmt"
	"io"
	"iter"
	"strings"

	"github.com/braunmar/agent-engine/pkg/engine"
	"github.com/braunmar/agent-engine/pkg/ui"
)

// Client is the part of engine.API a chat session needs
type Client interface {
	CreateSession(ctx context.Context, id, userID string) (engine.Session, error)
	StreamQuery(ctx context.Context, id, userID, sessionID, message string) iter.Seq2[engine.Event, error]
}

// Params identifies the agent and user of a chat session
type Params struct {
	Project  string
	Location string
	AgentID  string
	UserID   string
	Debug    bool
}

// Options configures the terminal side of a chat session
type Options struct {
	AgentID string
	UserID  string
	In      io.Reader
	Out     io.Writer
	// Prompt prints "You: " before each turn; set for interactive terminals
	Prompt bool
}

var exitCommands = map[string]bool{
	"exit":  true,
	"quit":  true,
	"/exit": true,
	"/quit": true,
}

type inputLine struct {
	text string
	err  error
}

// Run opens a session and loops over user turns until EOF, an exit
// command, or ctx is cancelled. Cancellation returns ctx.Err().
func Run(ctx context.Context, client Client, opts Options) error {
	p := ui.NewPrinter(opts.Out)

	session, err := client.CreateSession(ctx, opts.AgentID, opts.UserID)
	if err != nil {
		return err
	}

	p.Success(fmt.Sprintf("Connected to agent '%s'", opts.AgentID))
	p.PrintStatusLine("Session", session.ID)
	p.PrintStatusLine("User", opts.UserID)
	p.Info("Type 'exit' or 'quit' to end the session.")
	p.NewLine()

	// The reader stops at its next line once the session is over.
	ctx, cancel := context.WithCancel(ctx)
	defer cancel()

	lines := readLines(ctx, opts.In)

	for {
		if opts.Prompt {
			p.Printf("%s ", ui.Bold("You:"))
		}

		var line inputLine
		var ok bool
		select {
		case <-ctx.Done():
			return ctx.Err()
		case line, ok = <-lines:
		}
		if !ok {
			return nil
		}
		if line.err != nil {
			return fmt.Errorf("failed to read input: %w", line.err)
		}

		message := strings.TrimSpace(line.text)
		if message == "" {
			continue
		}
		if exitCommands[strings.ToLower(message)] {
			return nil
		}

		if err := turn(ctx, client, p, opts, session.ID, message); err != nil {
			if ctx.Err() != nil {
				return ctx.Err()
			}
			return err
		}
	}
}

// turn sends one message and prints the streamed reply
func turn(ctx context.Context, client Client, p *ui.Printer, opts Options, sessionID, message string) error {
	p.Printf("%s ", ui.Bold("Agent:"))

	for ev, err := range client.StreamQuery(ctx, opts.AgentID, opts.UserID, sessionID, message) {
		if err != nil {
			p.NewLine()
			return err
		}
		if ev.ErrorCode != "" || ev.ErrorMessage != "" {
			p.NewLine()
			p.ErrorF("[%s] %s", engine.OrNA(ev.ErrorCode), ev.ErrorMessage)
			continue
		}
		p.Printf("%s", ev.Text)
	}

	p.NewLine()
	p.NewLine()
	return nil
}

// readLines feeds lines from in to a channel that is closed at EOF
func readLines(ctx context.Context, in io.Reader) <-chan inputLine {
	lines := make(chan inputLine)

	go func() {
		defer close(lines)

		scanner := bufio.NewScanner(in)
		for scanner.Scan() {
			select {
			case lines <- inputLine{text: scanner.Text()}:
			case <-ctx.Done():
				return
			}
		}
		if err := scanner.Err(); err != nil {
			select {
			case lines <- inputLine{err: err}:
			case <-ctx.Done():
			}
		}
	}()

	return lines
}
