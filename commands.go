package main

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"os"
	"sort"
	"strings"

	"github.com/CrowderSoup/workbench/board"
	"github.com/CrowderSoup/workbench/services"
	"github.com/charmbracelet/huh"
	"github.com/fatih/color"
	"github.com/spf13/cobra"
)

func serveCmd(configPath *string) *cobra.Command {
	return &cobra.Command{
		Use:   "serve",
		Short: "Run the HTTP API and websocket server",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			return serve(cmd.Context(), MustLoad(*configPath))
		},
	}
}

// cliObserver prints load and save notices to stderr.
type cliObserver struct {
	out io.Writer
}

func (cliObserver) Changed(string, any) {}

func (o cliObserver) Failed(_, message string) {
	fmt.Fprintln(o.out, color.New(color.FgYellow).Sprintf("⚠ %s", message))
}

// withWorkspace opens the workspace for one command and waits for its saves
// before returning.
func withWorkspace(ctx context.Context, configPath string, fn func(*board.Workspace) error) error {
	cfg := MustLoad(configPath)

	// keep the CLI output clean unless asked otherwise
	if cfg.LogLevel == "" || strings.EqualFold(cfg.LogLevel, "INFO") {
		cfg.LogLevel = "ERROR"
	}
	log := mustMakeLogger(cfg)

	a, err := openApp(cfg, log, board.WithObserver(cliObserver{out: os.Stderr}))
	if err != nil {
		return err
	}
	defer a.Close()

	if err := a.Workspace.Open(ctx); err != nil {
		log.Debug("workspace opened from local data", "error", err)
	}

	runErr := fn(a.Workspace)
	if err := a.Workspace.Flush(ctx); err != nil {
		return errors.Join(runErr, err)
	}
	return runErr
}

func boardsCmd(configPath *string) *cobra.Command {
	return &cobra.Command{
		Use:   "boards",
		Short: "Show every board with its sync status",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			return withWorkspace(cmd.Context(), *configPath, func(ws *board.Workspace) error {
				for _, b := range ws.All() {
					st := b.Status()
					source := color.New(color.FgHiGreen).Sprint("remote")
					if !st.Remote {
						source = color.New(color.FgYellow).Sprint("local")
					}
					fmt.Fprintf(cmd.OutOrStdout(), "%-10s %4d  %s\n", st.Board, st.Count, source)
				}
				return nil
			})
		},
	}
}

func listCmd(configPath *string) *cobra.Command {
	var group string

	cmd := &cobra.Command{
		Use:   "list <board>",
		Short: "List the records of a board",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			return withWorkspace(cmd.Context(), *configPath, func(ws *board.Workspace) error {
				b, err := ws.Get(args[0])
				if err != nil {
					return err
				}

				rows, err := records(b.List(group))
				if err != nil {
					return err
				}
				if len(rows) == 0 {
					fmt.Fprintln(cmd.OutOrStdout(), "No records.")
					return nil
				}

				for _, row := range rows {
					id := color.New(color.FgHiBlack).Sprint(row["id"])
					line := fmt.Sprintf("%s  %s", id, titleOf(row))
					if f := b.GroupField(); f != "" {
						line += "  " + color.New(color.FgCyan).Sprintf("[%v]", row[f])
					}
					fmt.Fprintln(cmd.OutOrStdout(), line)
				}
				return nil
			})
		},
	}
	cmd.Flags().StringVar(&group, "group", "", "only records with this status, stage, type or role")
	return cmd
}

func statsCmd(configPath *string) *cobra.Command {
	return &cobra.Command{
		Use:   "stats <board>",
		Short: "Count the records of a board per column",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			return withWorkspace(cmd.Context(), *configPath, func(ws *board.Workspace) error {
				b, err := ws.Get(args[0])
				if err != nil {
					return err
				}

				stats := b.Stats()
				keys := make([]string, 0, len(stats))
				for k := range stats {
					if k != "total" {
						keys = append(keys, k)
					}
				}
				sort.Strings(keys)

				for _, k := range keys {
					fmt.Fprintf(cmd.OutOrStdout(), "%-12s %d\n", k, stats[k])
				}
				fmt.Fprintln(cmd.OutOrStdout(), color.New(color.Bold).Sprintf("%-12s %d", "total", stats["total"]))
				return nil
			})
		},
	}
}

func addCmd(configPath *string) *cobra.Command {
	var title string
	var fields []string

	cmd := &cobra.Command{
		Use:   "add <board>",
		Short: "Add a record to a board",
		Example: `  workbench add tasks --title "Write release notes" --field assignee=BRO
  workbench add memory --title Runbook --field 'tags=["ops","urgent"]'`,
		Args: cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			draft, err := draftFromFlags(args[0], title, fields)
			if err != nil {
				return err
			}

			return withWorkspace(cmd.Context(), *configPath, func(ws *board.Workspace) error {
				b, err := ws.Get(args[0])
				if err != nil {
					return err
				}

				rec, added, err := b.AddJSON(cmd.Context(), draft)
				if err != nil {
					return err
				}
				if !added {
					return errors.New("nothing added: a title is required")
				}

				row, err := record(rec)
				if err != nil {
					return err
				}
				fmt.Fprintf(cmd.OutOrStdout(), "%s %s %s\n",
					color.New(color.FgHiGreen).Sprint("✓ added"), row["id"], titleOf(row))
				return nil
			})
		},
	}
	cmd.Flags().StringVar(&title, "title", "", "title (or name for team and office)")
	cmd.Flags().StringArrayVar(&fields, "field", nil, "extra field as key=value; JSON values are decoded")
	return cmd
}

func deleteCmd(configPath *string) *cobra.Command {
	var yes bool

	cmd := &cobra.Command{
		Use:   "delete <board> <id>",
		Short: "Delete a record after confirmation",
		Args:  cobra.ExactArgs(2),
		RunE: func(cmd *cobra.Command, args []string) error {
			confirm := board.Confirmer(board.ConfirmFunc(promptConfirm))
			if yes {
				confirm = board.Confirmed
			}

			return withWorkspace(cmd.Context(), *configPath, func(ws *board.Workspace) error {
				b, err := ws.Get(args[0])
				if err != nil {
					return err
				}

				deleted, err := b.Delete(cmd.Context(), args[1], confirm)
				if errors.Is(err, board.ErrConfirmationRequired) {
					fmt.Fprintln(cmd.OutOrStdout(), "Cancelled.")
					return nil
				}
				if err != nil {
					return err
				}
				if !deleted {
					return fmt.Errorf("%w: %s", board.ErrNotFound, args[1])
				}
				fmt.Fprintln(cmd.OutOrStdout(), color.New(color.FgHiGreen).Sprintf("✓ deleted %s", args[1]))
				return nil
			})
		},
	}
	cmd.Flags().BoolVarP(&yes, "yes", "y", false, "skip the confirmation prompt")
	return cmd
}

func sendCmd(configPath *string) *cobra.Command {
	return &cobra.Command{
		Use:   "send <chatId> <text>",
		Short: "Send a Telegram message",
		Args:  cobra.ExactArgs(2),
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg := MustLoad(*configPath)
			sender := services.NewTelegramSender(cfg.Telegram.APIURL, cfg.Telegram.Token, cfg.Sync.Timeout)

			id, err := sender.Send(cmd.Context(), args[0], args[1])
			if err != nil {
				return err
			}
			fmt.Fprintf(cmd.OutOrStdout(), "sent message %d\n", id)
			return nil
		},
	}
}

func promptConfirm(prompt string) bool {
	var ok bool
	err := huh.NewConfirm().
		Title(prompt).
		Affirmative("Delete").
		Negative("Cancel").
		Value(&ok).
		Run()
	if err != nil {
		slog.Debug("confirmation aborted", "error", err)
		return false
	}
	return ok
}

// draftFromFlags builds the JSON draft for add. Field values that parse as
// JSON are used as such, everything else is a string.
func draftFromFlags(boardName, title string, fields []string) ([]byte, error) {
	draft := map[string]any{}
	for _, f := range fields {
		k, v, ok := strings.Cut(f, "=")
		if !ok || strings.TrimSpace(k) == "" {
			return nil, fmt.Errorf("invalid --field %q, want key=value", f)
		}

		var decoded any
		if err := json.Unmarshal([]byte(v), &decoded); err == nil {
			draft[k] = decoded
		} else {
			draft[k] = v
		}
	}
	if title != "" {
		draft[titleKey(boardName)] = title
	}
	return json.Marshal(draft)
}

func titleKey(boardName string) string {
	switch boardName {
	case board.TeamBoard, board.OfficeBoard:
		return "name"
	default:
		return "title"
	}
}

func titleOf(row map[string]any) string {
	if t, ok := row["title"].(string); ok && t != "" {
		return t
	}
	name, _ := row["name"].(string)
	return name
}

func record(v any) (map[string]any, error) {
	data, err := json.Marshal(v)
	if err != nil {
		return nil, err
	}
	var row map[string]any
	if err := json.Unmarshal(data, &row); err != nil {
		return nil, err
	}
	return row, nil
}

func records(v any) ([]map[string]any, error) {
	data, err := json.Marshal(v)
	if err != nil {
		return nil, err
	}
	var rows []map[string]any
	if err := json.Unmarshal(data, &rows); err != nil {
		return nil, err
	}
	return rows, nil
}
