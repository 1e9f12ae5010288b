package cli

import (
	"bufio"
	"context"
	"errors"
	"fmt"
	"os"
	"os/signal"
	"path/filepath"
	"strings"
	"syscall"

	"github.com/spf13/cobra"

	"github.com/arlogriffin/scribe/internal/agent"
	"github.com/arlogriffin/scribe/internal/history"
	"github.com/arlogriffin/scribe/internal/hooks"
	"github.com/arlogriffin/scribe/internal/llm"
	"github.com/arlogriffin/scribe/internal/store"
	"github.com/arlogriffin/scribe/internal/tools"
)

func newChatCmd() *cobra.Command {
	var (
		sessionID    string
		continueLast bool
	)

	cmd := &cobra.Command{
		Use:   "chat",
		Short: "Start an interactive conversation",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			if err := paths.EnsureDirs(); err != nil {
				return err
			}

			workDir, err := os.Getwd()
			if err != nil {
				return err
			}

			sessions := store.NewSessionStore(paths.Sessions, log)
			hist := history.New(cfg.History.MaxMessages)

			var totalTokens int
			var totalCost float64

			// Resume a named session, the latest one, or start fresh.
			switch {
			case sessionID != "":
				sess, err := sessions.Load(sessionID)
				if err != nil {
					return err
				}
				sessions.RestoreHistory(sess, hist)
				totalTokens, totalCost = sess.TotalTokens, sess.TotalCost
				fmt.Println("resumed:", store.FormatSessionSummary(sess))
			case continueLast:
				sess, err := sessions.LoadLatest()
				if err != nil && !errors.Is(err, store.ErrNotFound) {
					return err
				}
				if sess != nil {
					sessionID = sess.ID
					sessions.RestoreHistory(sess, hist)
					totalTokens, totalCost = sess.TotalTokens, sess.TotalCost
					fmt.Println("resumed:", store.FormatSessionSummary(sess))
				}
			}

			registry := agent.NewToolRegistry()
			tools.RegisterAll(registry)

			if hist.Len() == 0 {
				var names []string
				for _, d := range registry.Definitions() {
					names = append(names, d.Name)
				}
				hist.AddSystemMessage(agent.BuildSystemPrompt(agent.PromptConfig{
					Model:   cfg.Provider.Model,
					WorkDir: workDir,
					Tools:   names,
				}))
			}

			client := llm.NewAnthropicClient(cfg.Provider.APIKey, cfg.Provider.Model, log)
			stdin := bufio.NewReader(os.Stdin)
			confirm := func(name, input string) bool {
				fmt.Printf("tool %s wants to run with %s\nallow? [y/N] ", name, input)
				line, err := stdin.ReadString('\n')
				if err != nil {
					return false
				}
				answer := strings.ToLower(strings.TrimSpace(line))
				return answer == "y" || answer == "yes"
			}

			runner := agent.NewRunner(agent.RunnerConfig{
				Model:        cfg.Provider.Model,
				MaxTokens:    cfg.Provider.MaxTokens,
				CompactAfter: cfg.Compaction.Threshold,
				WorkDir:      workDir,
			}, client, hist, registry, confirm, log)

			events := hooks.NewManager(log)

			// Best-effort search archive alongside the session files,
			// refreshed whenever the session is written out.
			if db, err := store.Open(filepath.Join(paths.Data, "archive.db"), log); err == nil {
				archive := store.NewArchive(db)
				defer db.Close()
				events.On(hooks.EventSessionSaved, "archive-index", func(_ context.Context, p hooks.Payload) error {
					id, _ := p.Data["session"].(string)
					sess, err := sessions.Load(id)
					if err != nil {
						return err
					}
					return archive.Index(sess)
				})
			} else {
				log.Warn().Err(err).Msg("search archive unavailable")
			}

			ctx, cancel := signal.NotifyContext(cmd.Context(), os.Interrupt, syscall.SIGTERM)
			defer cancel()

			save := func() {
				id, err := sessions.Save(hist, client.Name(), cfg.Provider.Model,
					totalTokens+runner.TotalUsage().Total(), totalCost+runner.TotalCost(), sessionID)
				if err != nil {
					log.Error().Err(err).Msg("saving session failed")
					return
				}
				sessionID = id
				events.Emit(ctx, hooks.EventSessionSaved, map[string]any{
					"session":  id,
					"messages": hist.Len(),
				})
			}

			events.Emit(ctx, hooks.EventSessionStart, map[string]any{"session": sessionID})
			defer func() {
				events.Emit(context.Background(), hooks.EventSessionEnd, map[string]any{"session": sessionID})
			}()

			fmt.Println("scribe ready. /undo reverts the last turn, /clear starts over, /quit exits.")
			for {
				fmt.Print("> ")
				line, err := stdin.ReadString('\n')
				if err != nil {
					break
				}
				input := strings.TrimSpace(line)

				switch input {
				case "":
					continue
				case "/quit", "/exit":
					save()
					return nil
				case "/undo":
					if hist.UndoLast() {
						fmt.Println("last turn removed")
						events.Emit(ctx, hooks.EventUndo, map[string]any{"session": sessionID})
						save()
					} else {
						fmt.Println("nothing to undo")
					}
					continue
				case "/clear":
					hist.Clear()
					fmt.Println("history cleared (system instructions kept)")
					events.Emit(ctx, hooks.EventClear, map[string]any{"session": sessionID})
					save()
					continue
				}

				res, err := runner.Run(ctx, input)
				if err != nil {
					if ctx.Err() != nil {
						break
					}
					fmt.Fprintln(os.Stderr, "error:", err)
					continue
				}

				fmt.Println(res.Response)
				if res.Compacted {
					fmt.Println("(older history summarized)")
					events.Emit(ctx, hooks.EventCompaction, map[string]any{"session": sessionID})
				}
				events.Emit(ctx, hooks.EventTurnComplete, map[string]any{
					"session": sessionID,
					"tokens":  res.Usage.Total(),
				})
				log.Debug().
					Int("tokens", res.Usage.Total()).
					Float64("cost", res.CostUSD).
					Msg("turn complete")
				save()
			}

			save()
			return nil
		},
	}

	cmd.Flags().StringVar(&sessionID, "session", "", "resume the session with this id")
	cmd.Flags().BoolVarP(&continueLast, "continue", "c", false, "resume the most recent session")

	return cmd
}
