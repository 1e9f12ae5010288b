package cli

import (
	"encoding/json"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/spf13/cobra"

	"github.com/arlogriffin/scribe/internal/store"
)

func newSessionsCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "sessions",
		Short: "Inspect and manage saved sessions",
	}

	cmd.AddCommand(newSessionsListCmd())
	cmd.AddCommand(newSessionsShowCmd())
	cmd.AddCommand(newSessionsDeleteCmd())
	cmd.AddCommand(newSessionsSearchCmd())
	return cmd
}

func newSessionsListCmd() *cobra.Command {
	var limit int

	cmd := &cobra.Command{
		Use:   "list",
		Short: "List saved sessions, most recent first",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			sessions := store.NewSessionStore(paths.Sessions, log)
			all := sessions.List(limit)
			if len(all) == 0 {
				fmt.Println("no saved sessions")
				return nil
			}
			for _, sess := range all {
				fmt.Println(store.FormatSessionSummary(sess))
			}
			return nil
		},
	}

	cmd.Flags().IntVarP(&limit, "limit", "n", store.DefaultListLimit, "maximum sessions to list")
	return cmd
}

func newSessionsShowCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "show <id>",
		Short: "Print a session as JSON",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			sessions := store.NewSessionStore(paths.Sessions, log)
			sess, err := sessions.Load(args[0])
			if err != nil {
				if errors.Is(err, store.ErrNotFound) {
					return fmt.Errorf("no session with id %q", args[0])
				}
				return err
			}
			enc := json.NewEncoder(os.Stdout)
			enc.SetIndent("", "  ")
			return enc.Encode(sess)
		},
	}
}

func newSessionsDeleteCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "delete <id>",
		Short: "Delete a saved session",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			sessions := store.NewSessionStore(paths.Sessions, log)
			if !sessions.Delete(args[0]) {
				return fmt.Errorf("no session with id %q", args[0])
			}

			// Drop it from the search archive too, if one exists.
			if db, err := store.Open(filepath.Join(paths.Data, "archive.db"), log); err == nil {
				defer db.Close()
				if err := store.NewArchive(db).Remove(args[0]); err != nil {
					log.Warn().Err(err).Msg("archive cleanup failed")
				}
			}

			fmt.Println("deleted", args[0])
			return nil
		},
	}
}

func newSessionsSearchCmd() *cobra.Command {
	var limit int

	cmd := &cobra.Command{
		Use:   "search <query>",
		Short: "Full-text search across archived session messages",
		Args:  cobra.MinimumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			db, err := store.Open(filepath.Join(paths.Data, "archive.db"), log)
			if err != nil {
				return err
			}
			defer db.Close()

			hits, err := store.NewArchive(db).Search(strings.Join(args, " "), limit)
			if err != nil {
				return err
			}
			if len(hits) == 0 {
				fmt.Println("no matches")
				return nil
			}
			for _, h := range hits {
				preview := h.Content
				if r := []rune(preview); len(r) > 80 {
					preview = string(r[:80]) + "..."
				}
				fmt.Printf("%s [%s] %s\n", h.SessionID, h.Role, preview)
			}
			return nil
		},
	}

	cmd.Flags().IntVarP(&limit, "limit", "n", 20, "maximum matches to print")
	return cmd
}
