package cli

import (
	"context"
	"errors"
	"fmt"
	"strconv"
	"time"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"
	"github.com/charmbracelet/lipgloss/table"
	"github.com/spf13/cobra"

	"github.com/matzehuels/slidegraph/pkg/cursor"
	"github.com/matzehuels/slidegraph/pkg/pipeline"
	"github.com/matzehuels/slidegraph/pkg/session"
)

// walkOpts holds the walk command flags.
type walkOpts struct {
	sessionID string
	list      bool
	remove    string
	noSave    bool
	noCache   bool
	maxStates int
}

// walkCommand creates the walk command.
func (c *CLI) walkCommand() *cobra.Command {
	var opts walkOpts

	cmd := &cobra.Command{
		Use:   "walk [board.txt|-]",
		Short: "Step through a board's state graph interactively",
		Long: `Step through a board's state graph interactively.

Each screen shows the current configuration and the legal moves from it.
Choosing a move extends the walk; undo steps back. On exit the walk is saved
and can be resumed later with --session.

Walks are stored in the configured session backend (file by default, under
~/.config/slidegraph/walks).`,
		Args: cobra.MaximumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			ctx := cmd.Context()
			store, err := c.newSessionStore(ctx)
			if err != nil {
				return err
			}
			defer store.Close()

			switch {
			case opts.list:
				return listWalks(ctx, store)
			case opts.remove != "":
				if err := store.Delete(ctx, opts.remove); err != nil {
					return err
				}
				printSuccess("Deleted walk %s", opts.remove)
				return nil
			}

			walk, err := c.loadWalk(ctx, cmd, store, args, opts)
			if err != nil {
				return err
			}
			return c.runWalk(ctx, store, walk, opts)
		},
	}

	cmd.Flags().StringVar(&opts.sessionID, "session", "", "resume a saved walk by ID")
	cmd.Flags().BoolVar(&opts.list, "list", false, "list saved walks")
	cmd.Flags().StringVar(&opts.remove, "delete", "", "delete a saved walk by ID")
	cmd.Flags().BoolVar(&opts.noSave, "no-save", false, "do not save the walk on exit")
	cmd.Flags().BoolVar(&opts.noCache, "no-cache", false, "disable caching")
	cmd.Flags().IntVar(&opts.maxStates, "max-states", 0, fmt.Sprintf("state budget (default %d)", pipeline.DefaultMaxStates))

	return cmd
}

// loadWalk resumes the walk named by --session or starts a new one on the
// board given as an argument. A resumed walk must match a given board.
func (c *CLI) loadWalk(ctx context.Context, cmd *cobra.Command, store session.Store, args []string, opts walkOpts) (*session.Walk, error) {
	var text string
	if len(args) == 1 {
		t, err := readBoard(args[0], cmd.InOrStdin())
		if err != nil {
			return nil, err
		}
		text = t
	}

	if opts.sessionID != "" {
		walk, err := store.Get(ctx, opts.sessionID)
		if errors.Is(err, session.ErrNotFound) {
			return nil, fmt.Errorf("walk %s not found or expired", opts.sessionID)
		}
		if err != nil {
			return nil, err
		}
		if text != "" && !walk.MatchesBoard(text) {
			return nil, fmt.Errorf("walk %s was taken on a different board", walk.ID)
		}
		return walk, nil
	}

	if text == "" {
		return nil, errors.New("a board file or --session is required")
	}
	maxStates := opts.maxStates
	if maxStates == 0 {
		maxStates = c.Config.Explore.MaxStates
	}
	if maxStates == 0 {
		maxStates = pipeline.DefaultMaxStates
	}
	return session.New(text, maxStates, c.Config.Sessions.TTL)
}

// runWalk explores the walk's board, runs the TUI, and saves the result.
func (c *CLI) runWalk(ctx context.Context, store session.Store, walk *session.Walk, opts walkOpts) error {
	runner, err := c.newRunner(ctx, opts.noCache)
	if err != nil {
		return fmt.Errorf("initialize runner: %w", err)
	}
	defer runner.Close()

	spinner := newSpinnerWithContext(ctx, "Exploring states...")
	spinner.Start()
	b, _, g, _, err := runner.ExploreWithCacheInfo(ctx, pipeline.Options{
		Board:     walk.Board,
		MaxStates: walk.MaxStates,
		Logger:    c.Logger,
	})
	spinner.Stop()
	if err != nil {
		return err
	}

	cur, err := cursor.Restore(g, walk.Path)
	if err != nil {
		return fmt.Errorf("restore walk %s: %w", walk.ID, err)
	}

	final, err := tea.NewProgram(NewWalkModel(b, cur), tea.WithContext(ctx)).Run()
	if err != nil {
		return fmt.Errorf("walk: %w", err)
	}
	m, ok := final.(WalkModel)
	if !ok {
		return nil
	}

	path := m.Cursor.Path()
	if opts.noSave {
		printInfo("Walk of %d steps discarded", len(path)-1)
		return nil
	}
	walk.Touch(path)
	if err := store.Set(ctx, walk); err != nil {
		return fmt.Errorf("save walk: %w", err)
	}
	printSuccess("Saved walk of %d steps", len(path)-1)
	printKeyValue("Session", walk.ID)
	printNextStep("Resume", appName+" walk --session "+walk.ID)
	return nil
}

// listWalks prints saved walks, newest first.
func listWalks(ctx context.Context, store session.Store) error {
	walks, err := store.List(ctx)
	if err != nil {
		return err
	}
	if len(walks) == 0 {
		printInfo("No saved walks")
		return nil
	}

	rows := make([][]string, len(walks))
	for i, w := range walks {
		expires := "never"
		if !w.ExpiresAt.IsZero() {
			expires = w.ExpiresAt.Local().Format("Jan 2, 2006")
		}
		rows[i] = []string{w.ID, strconv.Itoa(len(w.Path) - 1), formatRelativeTime(w.UpdatedAt, time.Now()), expires}
	}

	headerStyle := lipgloss.NewStyle().Foreground(colorGray).Bold(true)
	t := table.New().
		Border(lipgloss.RoundedBorder()).
		BorderStyle(lipgloss.NewStyle().Foreground(colorDim)).
		Headers("Session", "Steps", "Updated", "Expires").
		Rows(rows...).
		StyleFunc(func(row, col int) lipgloss.Style {
			if row == -1 {
				return headerStyle
			}
			if col == 0 {
				return StyleHighlight.Padding(0, 1)
			}
			return lipgloss.NewStyle().Foreground(colorGray).Padding(0, 1)
		})
	fmt.Println(t.Render())
	return nil
}

// formatRelativeTime renders t relative to now for recent times and as a
// date otherwise.
func formatRelativeTime(t, now time.Time) string {
	diff := now.Sub(t)
	switch {
	case diff < time.Minute:
		return "just now"
	case diff < time.Hour:
		return fmt.Sprintf("%dm ago", int(diff.Minutes()))
	case diff < 24*time.Hour:
		return fmt.Sprintf("%dh ago", int(diff.Hours()))
	case diff < 7*24*time.Hour:
		return fmt.Sprintf("%dd ago", int(diff.Hours()/24))
	default:
		return t.Local().Format("Jan 2, 2006")
	}
}
