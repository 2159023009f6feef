// Package main provides the CLI entrypoint for franklin.
package main

import (
	"context"
	"errors"
	"fmt"
	"io"
	"os"
	"os/exec"
	"path/filepath"
	"strconv"
	"strings"
	"time"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/spf13/cobra"
	"golang.org/x/term"

	"github.com/verte-zerg/franklin/internal/calendar"
	"github.com/verte-zerg/franklin/internal/config"
	"github.com/verte-zerg/franklin/internal/logger"
	"github.com/verte-zerg/franklin/internal/model"
	"github.com/verte-zerg/franklin/internal/stats"
	"github.com/verte-zerg/franklin/internal/store"
	"github.com/verte-zerg/franklin/internal/tracker"
	"github.com/verte-zerg/franklin/internal/tui"
	"github.com/verte-zerg/franklin/internal/virtue"
)

const closeTimeout = 5 * time.Second

var (
	flagDB       string
	flagLogLevel string
	flagNoColor  bool

	historyClearYes bool
	historyPlot     bool
	historyWidth    int
)

func main() {
	rootCmd := newRootCmd()
	if err := rootCmd.Execute(); err != nil {
		os.Exit(1)
	}
}

func newRootCmd() *cobra.Command {
	rootCmd := &cobra.Command{
		Use:           "franklin",
		Short:         "Track faults against Franklin's thirteen virtues",
		SilenceUsage:  true,
		SilenceErrors: false,
		RunE:          runTUICmd,
	}

	defaults := config.DefaultSettings()
	rootCmd.PersistentFlags().StringVar(&flagDB, "db", defaults.DBPath, "path to the SQLite database")
	rootCmd.PersistentFlags().StringVar(&flagLogLevel, "log-level", defaults.LogLevel, "log level (trace, debug, info, warn, error, off)")
	rootCmd.PersistentFlags().BoolVar(&flagNoColor, "no-color", false, "disable ANSI colors in printed reports")

	rootCmd.AddCommand(newWeekCmd())
	rootCmd.AddCommand(newToggleCmd())
	rootCmd.AddCommand(newHistoryCmd())
	rootCmd.AddCommand(newVirtuesCmd())
	rootCmd.AddCommand(newConfigCmd())

	return rootCmd
}

// loadSettings merges defaults, the config file, and explicitly set flags.
func loadSettings(cmd *cobra.Command) (config.Settings, error) {
	fileCfg, err := config.LoadConfig(config.DefaultConfigPath())
	if err != nil {
		return config.Settings{}, fmt.Errorf("failed to load config: %w", err)
	}
	settings := fileCfg.Apply(config.DefaultSettings())
	applyStringFlag(cmd, "db", &settings.DBPath, flagDB)
	applyStringFlag(cmd, "log-level", &settings.LogLevel, flagLogLevel)
	if err := settings.Validate(); err != nil {
		return config.Settings{}, err
	}
	return settings, nil
}

func applyStringFlag(cmd *cobra.Command, name string, target *string, value string) {
	if !cmd.Flags().Changed(name) {
		return
	}
	*target = value
}

// setupLogger points the root logger at the configured file and returns a closer.
func setupLogger(settings config.Settings) func() {
	var w io.Writer = io.Discard
	closeFn := func() {}
	if settings.LogFile == "-" {
		w = os.Stderr
	} else if f, err := logger.OpenFile(settings.LogFile); err != nil {
		logErrf("failed to open log file: %v\n", err)
	} else {
		w = f
		closeFn = func() {
			if cerr := f.Close(); cerr != nil {
				// Best-effort close of the log file.
				_ = cerr
			}
		}
	}
	logger.Init(logger.Options{Level: settings.LogLevel, Format: settings.LogFormat, Writer: w})
	return closeFn
}

type session struct {
	store    *store.Store
	tracker  *tracker.Tracker
	closeLog func()
}

// openSession opens storage and builds an uninitialized tracker.
func openSession(cmd *cobra.Command) (*session, error) {
	settings, err := loadSettings(cmd)
	if err != nil {
		return nil, err
	}
	closeLog := setupLogger(settings)
	st, err := store.Open(settings.DBPath)
	if err != nil {
		closeLog()
		return nil, fmt.Errorf("failed to open db: %w", err)
	}
	return &session{
		store:    st,
		tracker:  tracker.New(st),
		closeLog: closeLog,
	}, nil
}

func (s *session) close() {
	ctx, cancel := context.WithTimeout(context.Background(), closeTimeout)
	defer cancel()
	if err := s.tracker.Close(ctx); err != nil {
		logErrf("failed to flush pending writes: %v\n", err)
	}
	if cerr := s.store.Close(); cerr != nil {
		logErrf("failed to close db: %v\n", cerr)
	}
	s.closeLog()
}

// withTracker runs fn against an initialized tracker and flushes afterwards.
func withTracker(cmd *cobra.Command, fn func(*tracker.Tracker) error) error {
	s, err := openSession(cmd)
	if err != nil {
		return err
	}
	defer s.close()
	if _, err := s.tracker.Initialize(cmd.Context()); err != nil {
		return fmt.Errorf("failed to initialize: %w", err)
	}
	return fn(s.tracker)
}

func runTUICmd(cmd *cobra.Command, _ []string) error {
	s, err := openSession(cmd)
	if err != nil {
		return err
	}
	defer s.close()

	ui := tui.NewModel(s.tracker, time.Now)
	go func() {
		if _, err := s.tracker.Initialize(context.Background()); err != nil {
			logger.Named("main").Error().Err(err).Msg("initialize failed")
		}
	}()
	program := tea.NewProgram(ui, tea.WithAltScreen())
	if _, err := program.Run(); err != nil {
		return fmt.Errorf("failed to run TUI: %w", err)
	}
	return nil
}

func newWeekCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "week",
		Short: "Print the current week",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			s, err := openSession(cmd)
			if err != nil {
				return err
			}
			defer s.close()
			// Read before Initialize, which rewrites the slot.
			saved, savedErr := s.store.UpdatedAt(cmd.Context(), store.KeyCurrentWeek)
			if savedErr != nil && !errors.Is(savedErr, store.ErrNotFound) {
				logger.Named("main").Warn().Err(savedErr).Msg("failed to read last save time")
			}
			if _, err := s.tracker.Initialize(cmd.Context()); err != nil {
				return fmt.Errorf("failed to initialize: %w", err)
			}
			out := cmd.OutOrStdout()
			today := calendar.TodayIndex(time.Now())
			if err := stats.RenderWeekGrid(out, s.tracker.CurrentWeek(), today, useColor(out)); err != nil {
				return err
			}
			_, err = fmt.Fprintln(out, lastSavedLine(saved, savedErr))
			return err
		},
	}
}

func newToggleCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "toggle <day> <virtue>",
		Short: "Toggle a fault mark in the current week",
		Long: "Toggle a fault mark in the current week.\n\n" +
			"<day> is 0-6 (Sunday first), a weekday name, or \"today\".\n" +
			"<virtue> is a virtue id (1-13) or title.",
		Args: cobra.ExactArgs(2),
		RunE: func(cmd *cobra.Command, args []string) error {
			day, err := parseDay(args[0], time.Now())
			if err != nil {
				return err
			}
			v, err := parseVirtue(args[1])
			if err != nil {
				return err
			}
			return withTracker(cmd, func(tr *tracker.Tracker) error {
				tr.ToggleFault(day, v.ID)
				state := "cleared"
				if tr.HasFault(day, v.ID) {
					state = "marked"
				}
				_, err := fmt.Fprintf(cmd.OutOrStdout(), "%s on %s %s (%d this week)\n",
					v.Title, calendar.DayName(day), state, tr.CountFaults(v.ID))
				return err
			})
		},
	}
}

func newHistoryCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "history",
		Short: "Show archived weeks",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			return withTracker(cmd, func(tr *tracker.Tracker) error {
				report := stats.BuildReport(tr.State())
				out := cmd.OutOrStdout()
				if err := stats.RenderHistory(out, report); err != nil {
					return err
				}
				if historyPlot && len(report.History) > 0 {
					if _, err := fmt.Fprintln(out); err != nil {
						return err
					}
					series := stats.TrendSeries(report.History)
					if err := stats.PlotTrend(out, "Faults per week", series, historyWidth, 0, useColor(out)); err != nil {
						return err
					}
				}
				if _, err := fmt.Fprintln(out); err != nil {
					return err
				}
				return stats.RenderVirtueTotals(out, report)
			})
		},
	}

	cmd.Flags().BoolVar(&historyPlot, "plot", false, "plot weekly fault trends")
	cmd.Flags().IntVar(&historyWidth, "width", 0, "plot width in columns (0 = terminal width)")

	deleteCmd := &cobra.Command{
		Use:   "delete <week-id>",
		Short: "Delete one archived week (id is the week's Sunday, YYYY-MM-DD)",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			id := strings.TrimSpace(args[0])
			if _, err := calendar.ParseIdentity(id); err != nil {
				return err
			}
			return withTracker(cmd, func(tr *tracker.Tracker) error {
				if model.IndexOf(tr.History(), id) < 0 {
					return fmt.Errorf("no archived week %s", id)
				}
				tr.DeleteHistoryWeek(id)
				_, err := fmt.Fprintf(cmd.OutOrStdout(), "Deleted week %s\n", id)
				return err
			})
		},
	}

	clearCmd := &cobra.Command{
		Use:   "clear",
		Short: "Delete every archived week",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			if !historyClearYes {
				return fmt.Errorf("refusing to clear history without --yes")
			}
			return withTracker(cmd, func(tr *tracker.Tracker) error {
				n := len(tr.History())
				tr.ClearHistory()
				_, err := fmt.Fprintf(cmd.OutOrStdout(), "Cleared %d archived weeks\n", n)
				return err
			})
		},
	}
	clearCmd.Flags().BoolVar(&historyClearYes, "yes", false, "confirm clearing history")

	cmd.AddCommand(deleteCmd, clearCmd)
	return cmd
}

func newVirtuesCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "virtues",
		Short: "List the thirteen virtues",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			focus := model.NewWeek(time.Now()).FocusVirtueID
			return printVirtues(cmd.OutOrStdout(), focus)
		},
	}
}

func printVirtues(w io.Writer, focus int) error {
	for _, v := range virtue.All() {
		marker := " "
		if v.ID == focus {
			marker = "*"
		}
		if _, err := fmt.Fprintf(w, "%s %2d. %-11s %s\n", marker, v.ID, v.Title, v.Precept); err != nil {
			return err
		}
	}
	return nil
}

func newConfigCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "config",
		Short: "Create/open config file",
		Args:  cobra.NoArgs,
		RunE:  runConfigCmd,
	}
}

func runConfigCmd(_ *cobra.Command, _ []string) error {
	path := config.DefaultConfigPath()
	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		return fmt.Errorf("failed to create config directory: %w", err)
	}
	if _, err := os.Stat(path); err != nil {
		if !os.IsNotExist(err) {
			return fmt.Errorf("failed to stat config: %w", err)
		}
		if err := os.WriteFile(path, []byte(defaultConfigTemplate()), 0o644); err != nil {
			return fmt.Errorf("failed to write config: %w", err)
		}
	}

	editor := strings.TrimSpace(os.Getenv("EDITOR"))
	if editor == "" {
		editor = "vi"
	}
	parts := strings.Fields(editor)
	if len(parts) == 0 {
		return fmt.Errorf("editor command is empty")
	}
	cmd := exec.Command(parts[0], append(parts[1:], path)...)
	cmd.Stdin = os.Stdin
	cmd.Stdout = os.Stdout
	cmd.Stderr = os.Stderr
	if err := cmd.Run(); err != nil {
		return fmt.Errorf("failed to open editor: %w", err)
	}
	return nil
}

func defaultConfigTemplate() string {
	d := config.DefaultSettings()
	return fmt.Sprintf(`# franklin configuration
# Uncomment a value to enable it. CLI flags override config values.

[storage]
# path = %q

[log]
# level = %q            # trace, debug, info, warn, error, off
# format = %q           # json or console
# file = %q             # "-" logs to stderr
`,
		d.DBPath,
		d.LogLevel,
		d.LogFormat,
		d.LogFile,
	)
}

func lastSavedLine(saved time.Time, err error) string {
	if err != nil {
		return "Last saved: never"
	}
	return "Last saved: " + saved.Local().Format("Mon Jan 2 15:04")
}

func parseDay(arg string, now time.Time) (int, error) {
	arg = strings.ToLower(strings.TrimSpace(arg))
	if arg == "today" {
		return calendar.TodayIndex(now), nil
	}
	if n, err := strconv.Atoi(arg); err == nil {
		if n < 0 || n >= model.DaysPerWeek {
			return 0, fmt.Errorf("day must be between 0 and %d, got %d", model.DaysPerWeek-1, n)
		}
		return n, nil
	}
	if len(arg) >= 2 {
		for day := 0; day < model.DaysPerWeek; day++ {
			if strings.HasPrefix(strings.ToLower(calendar.DayName(day)), arg) {
				return day, nil
			}
		}
	}
	return 0, fmt.Errorf("unknown day %q", arg)
}

func parseVirtue(arg string) (virtue.Virtue, error) {
	if n, err := strconv.Atoi(strings.TrimSpace(arg)); err == nil {
		v, ok := virtue.Get(n)
		if !ok {
			return virtue.Virtue{}, fmt.Errorf("virtue id must be between 1 and %d, got %d", virtue.Count, n)
		}
		return v, nil
	}
	v, ok := virtue.Lookup(arg)
	if !ok {
		return virtue.Virtue{}, fmt.Errorf("unknown virtue %q", arg)
	}
	return v, nil
}

func useColor(w io.Writer) bool {
	if flagNoColor || os.Getenv("NO_COLOR") != "" {
		return false
	}
	f, ok := w.(*os.File)
	if !ok {
		return false
	}
	return term.IsTerminal(int(f.Fd()))
}

func logErrf(format string, args ...any) {
	if _, err := fmt.Fprintf(os.Stderr, format, args...); err != nil {
		// Best-effort logging to stderr.
		_ = err
	}
}
