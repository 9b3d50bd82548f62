package main

import (
	"bufio"
	"context"
	"fmt"
	"io"
	"os"
	"os/signal"
	"strings"

	"github.com/spetersoncode/scout"
	"github.com/spetersoncode/scout/event"
)

const chatThread = "cli"

// runChat is an interactive REPL over a single persisted thread.
func runChat(a *app, in io.Reader, out io.Writer) error {
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt)
	defer stop()

	ag, err := a.newAgent(ctx, chatThread)
	if err != nil {
		return err
	}

	fmt.Fprintln(out, "scout - type a question, /reset to forget the conversation, /exit to quit.")
	if n := ag.Conversation().Exchanges(); n > 0 {
		fmt.Fprintf(out, "(resumed %d previous exchanges)\n", n)
	}

	scanner := bufio.NewScanner(in)
	for {
		fmt.Fprint(out, "\n> ")
		if !scanner.Scan() {
			return scanner.Err()
		}

		line := strings.TrimSpace(scanner.Text())
		switch line {
		case "":
			continue
		case "/exit", "/quit":
			return nil
		case "/reset":
			ag.Conversation().Clear()
			if err := a.persist(ctx, chatThread, ag); err != nil {
				return err
			}
			fmt.Fprintln(out, "Conversation cleared.")
			continue
		}

		printRun(out, ag.RunStream(ctx, line), a.usageLine)
		if err := a.persist(context.WithoutCancel(ctx), chatThread, ag); err != nil {
			return err
		}
		if ctx.Err() != nil {
			return nil
		}
	}
}

// printRun writes streamed text to out and notes tool activity and usage.
func printRun(out io.Writer, events <-chan event.Event, usage func(*scout.Usage) string) {
	for e := range events {
		switch e.Type {
		case event.MessageDelta:
			fmt.Fprint(out, e.Delta)
		case event.MessageEnd:
			fmt.Fprintln(out)
		case event.ToolCallStart:
			fmt.Fprintf(out, "  [%s]\n", e.ToolCall.Name)
		case event.ToolCallResult:
			if e.ToolResult.IsError {
				fmt.Fprintf(out, "  [%s failed: %s]\n", e.ToolCall.Name, firstLine(e.ToolResult.Content))
			}
		case event.RunEnd:
			if line := usage(e.Usage); line != "" {
				fmt.Fprintf(out, "  (%s)\n", line)
			}
		case event.RunError:
			fmt.Fprintf(out, "error: %v\n", e.Error)
		}
	}
}

func firstLine(s string) string {
	if i := strings.IndexByte(s, '\n'); i >= 0 {
		return s[:i]
	}
	return s
}

