package main

import (
	"context"
	"errors"
	"fmt"
	"io"
	"net/http"
	"os"
	"os/signal"
	"strings"
	"syscall"

	"github.com/chzyer/readline"
	"github.com/rickchristie/planact"
	"github.com/rickchristie/planact/internal/transcript"
	"github.com/spf13/cobra"
)

// lineReader is the part of *readline.Instance the chat loop uses.
type lineReader interface {
	Readline() (string, error)
}

// asker is the part of *basic.Agent the chat loop uses.
type asker interface {
	Ask(ctx context.Context, question string) (string, error)
}

func newChatCmd(flags *rootFlags, d deps) *cobra.Command {
	var (
		dumpPath    string
		metricsAddr string
	)
	cmd := &cobra.Command{
		Use:   "chat",
		Short: "Start an interactive session",
		Long: `Start an interactive session. Type 'exit' or 'quit' to leave.

Examples:
  planact chat
  planact chat --toolset math --dump session.yaml
  planact chat --metrics-addr :9090`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			ctx := cmd.Context()
			a, err := newApp(ctx, flags, d)
			if err != nil {
				return err
			}
			defer a.Close()

			if metricsAddr == "" {
				metricsAddr = a.cfg.Metrics.Address
			}
			if metricsAddr != "" {
				go func() {
					a.logger.Info("serving metrics", "address", metricsAddr)
					if err := a.metrics.Serve(metricsAddr); err != nil && !errors.Is(err, http.ErrServerClosed) {
						a.logger.Error("metrics server stopped", "error", err)
					}
				}()
			}

			rl, err := readline.New(colorCyan + colorBold + "You: " + colorReset)
			if err != nil {
				return fmt.Errorf("failed to create readline: %w", err)
			}
			defer rl.Close()

			out := cmd.OutOrStdout()
			printBanner(out, a.registry.Names())
			dumper := newDumper(dumpPath, a.agent)
			return chatLoop(ctx, rl, out, a.agent, func(question string) {
				if err := dumper.dump(question); err != nil {
					a.logger.Warn("failed to write transcript", "error", err)
				}
			})
		},
	}
	cmd.Flags().StringVar(&dumpPath, "dump", "", "Append each answered exchange as YAML to this file")
	cmd.Flags().StringVar(&metricsAddr, "metrics-addr", "", "Serve Prometheus metrics on this address, e.g. :9090")
	return cmd
}

func printBanner(w io.Writer, toolNames []string) {
	fmt.Fprintf(w, "%s%s%s\n", colorYellow, strings.Repeat("=", 80), colorReset)
	fmt.Fprintf(w, "%s%sPLANACT CHAT%s\n", colorBold, colorYellow, colorReset)
	fmt.Fprintf(w, "%s%s%s\n", colorYellow, strings.Repeat("=", 80), colorReset)
	fmt.Fprintf(w, "%sTools: %s%s\n", colorDim, strings.Join(toolNames, ", "), colorReset)
	fmt.Fprintf(w, "%sType your message and press Enter. Type 'exit' to end the chat.%s\n\n", colorDim, colorReset)
}

// chatLoop reads questions until exit, EOF or interrupt. A failed question is reported and
// the loop continues. afterAnswer runs after every successful answer.
func chatLoop(ctx context.Context, rl lineReader, out io.Writer, agent asker, afterAnswer func(question string)) error {
	for {
		input, err := rl.Readline()
		if err != nil {
			if errors.Is(err, readline.ErrInterrupt) || errors.Is(err, io.EOF) {
				fmt.Fprintf(out, "\n%sChat cancelled.%s\n", colorYellow, colorReset)
				return nil
			}
			return fmt.Errorf("failed to read input: %w", err)
		}

		input = strings.TrimSpace(input)
		if input == "" {
			continue
		}
		if strings.EqualFold(input, "exit") || strings.EqualFold(input, "quit") {
			fmt.Fprintf(out, "\n%sEnding chat session. Goodbye!%s\n", colorGreen, colorReset)
			return nil
		}

		select {
		case <-ctx.Done():
			fmt.Fprintf(out, "\n%sChat cancelled.%s\n", colorYellow, colorReset)
			return ctx.Err()
		default:
		}

		reply, err := askInterruptible(ctx, agent, input)
		if err != nil {
			fmt.Fprintf(out, "\n%sError processing message: %v%s\n", colorRed, err, colorReset)
			continue
		}
		fmt.Fprintf(out, "%s%sBot:%s %s\n\n", colorGreen, colorBold, colorReset, reply)
		if afterAnswer != nil {
			afterAnswer(input)
		}
	}
}

// askInterruptible cancels the question, not the session, on SIGINT or SIGTERM.
func askInterruptible(ctx context.Context, agent asker, question string) (string, error) {
	ctx, stop := signal.NotifyContext(ctx, os.Interrupt, syscall.SIGTERM)
	defer stop()
	return agent.Ask(ctx, question)
}

// conversation is the part of *basic.Agent a dumper reads.
type conversation interface {
	ID() string
	Messages() []planact.Message
}

// dumper appends the messages added to a conversation since its previous write. An empty
// path does nothing.
type dumper struct {
	path    string
	conv    conversation
	written int
}

func newDumper(path string, conv conversation) *dumper {
	return &dumper{path: path, conv: conv}
}

func (d *dumper) dump(question string) error {
	if d.path == "" {
		return nil
	}
	messages := d.conv.Messages()
	if err := transcript.AppendFile(d.path, transcript.Entry{
		Session:  d.conv.ID(),
		Question: question,
		Messages: messages[d.written:],
	}); err != nil {
		return err
	}
	d.written = len(messages)
	return nil
}
