package main

import (
	"bufio"
	"fmt"
	"strings"

	"github.com/google/uuid"
	"github.com/spf13/cobra"

	"charterdesk/internal/http/middleware"
	"charterdesk/internal/service"
	"charterdesk/internal/types"
)

func newChatCmd(c *cli) *cobra.Command {
	var (
		role  string
		trace bool
	)
	cmd := &cobra.Command{
		Use:   "chat",
		Short: "Interactive chat with the concierge",
		Long: `Reads one message per line from stdin and prints the concierge reply.
Type /state to see the stored context, /reset to start over, /quit to exit.`,
		RunE: func(cmd *cobra.Command, args []string) error {
			if !middleware.ValidRole(role) {
				return fmt.Errorf("unknown role %q", role)
			}
			app, err := service.Build(cmd.Context(), c.cfg, c.logger)
			if err != nil {
				return err
			}
			defer app.Close()
			return runChat(cmd, app.Concierge, role, trace)
		},
	}
	cmd.Flags().StringVar(&role, "role", middleware.DefaultRole, "Terminal role: broker, operator, pilot or crew")
	cmd.Flags().BoolVar(&trace, "trace", false, "Print state, confidence and tool calls after each reply")
	return cmd
}

func runChat(cmd *cobra.Command, concierge *service.Concierge, role string, trace bool) error {
	ctx := cmd.Context()
	out := cmd.OutOrStdout()
	id := types.ID(uuid.NewString())
	fmt.Fprintf(out, "conversation %s (%s)\n", id, role)

	in := bufio.NewScanner(cmd.InOrStdin())
	for {
		fmt.Fprint(out, "> ")
		if !in.Scan() {
			fmt.Fprintln(out)
			return in.Err()
		}
		line := strings.TrimSpace(in.Text())
		switch line {
		case "":
			continue
		case "/quit", "/exit":
			return nil
		case "/reset":
			concierge.Clear(ctx, id)
			id = types.ID(uuid.NewString())
			fmt.Fprintf(out, "conversation %s\n", id)
			continue
		case "/state":
			if rec, ok := concierge.History(ctx, id); ok {
				fmt.Fprintf(out, "state=%s missing=%v\n", rec.State, rec.Context.Missing())
			} else {
				fmt.Fprintln(out, "no messages yet")
			}
			continue
		}

		res := concierge.ProcessMessage(ctx, line, id, role)
		fmt.Fprintln(out, res.Reply)
		if trace {
			fmt.Fprintf(out, "  [state=%s confidence=%.2f tools=%s]\n",
				res.NewState, res.Confidence, strings.Join(res.ToolCalls, ","))
		}
	}
}
