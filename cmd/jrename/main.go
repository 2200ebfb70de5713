package main

import (
	"bufio"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strconv"
	"strings"
	"time"

	"jrename/internal/app"
	"jrename/internal/config"
	"jrename/internal/jr"
	"jrename/internal/model"

	"github.com/olekukonko/tablewriter"
	"github.com/spf13/cobra"
	"golang.org/x/term"
)

func main() {
	if err := newRootCmd().Execute(); err != nil {
		os.Exit(1)
	}
}

// stdinIsTerminal reports whether confirmation prompts can be answered.
var stdinIsTerminal = func() bool {
	return term.IsTerminal(int(os.Stdin.Fd()))
}

// locateExecutable finds the running binary; its directory is the default target.
var locateExecutable = app.ExecutablePath

// loadConfig reads the config file, falling back to defaults when it is absent.
func loadConfig() (*config.Config, string, error) {
	defaults, err := app.GetDefaults()
	if err != nil {
		return nil, "", fmt.Errorf("getting defaults: %w", err)
	}

	cfg, err := config.ReadFromFile(defaults["config_path"], defaults["base_dir"])
	if err != nil {
		return nil, "", fmt.Errorf("reading config: %w", err)
	}
	return cfg, defaults["config_path"], nil
}

// newApp reads the config and creates a JRApp. The caller must defer app.Close().
// operation identifies the CLI command being run (e.g. "Rename", "GetHistory").
func newApp(cmd *cobra.Command, operation string, configure func(*config.Config)) (*app.JRApp, error) {
	cfg, _, err := loadConfig()
	if err != nil {
		return nil, err
	}
	if configure != nil {
		configure(cfg)
	}

	a, err := app.NewJRApp(cfg, operation, cmd.ErrOrStderr())
	if err != nil {
		return nil, fmt.Errorf("initializing app: %w", err)
	}
	return a, nil
}

func newRootCmd() *cobra.Command {
	root := &cobra.Command{
		Use:   "jrename [DIR]",
		Short: "Rename journal images to their short names",
		Long: `Rename every entry in DIR (default: the directory containing jrename)
by dropping the last four characters, keeping the first character, cutting at
" - ", replacing spaces with underscores and appending ".png".
An entry is never renamed onto an existing one.`,
		Args:         cobra.MaximumNArgs(1),
		SilenceUsage: true,
		RunE:         runRename,
	}
	root.Flags().BoolP("dry-run", "n", false, "Show what would be renamed without renaming")
	root.Flags().Bool("split-full", false, "Split the whole name on the delimiter instead of its first character")
	root.Flags().BoolP("yes", "y", false, "Do not ask for confirmation")

	configCmd := &cobra.Command{
		Use:   "config",
		Short: "Manage configuration",
	}
	configCmd.AddCommand(newConfigInitCmd(), newConfigListCmd())

	root.AddCommand(configCmd, newHistoryCmd(), newShowCmd(), newLogCmd())
	return root
}

func runRename(cmd *cobra.Command, args []string) error {
	dryRun, _ := cmd.Flags().GetBool("dry-run")
	splitFull, _ := cmd.Flags().GetBool("split-full")
	yes, _ := cmd.Flags().GetBool("yes")

	var target string
	var extraIgnore []string
	if len(args) > 0 {
		target = args[0]
	} else {
		exe, err := locateExecutable()
		if err != nil {
			return err
		}
		target = filepath.Dir(exe)
		extraIgnore = append(extraIgnore, filepath.Base(exe))
	}

	var confirm bool
	a, err := newApp(cmd, "Rename", func(cfg *config.Config) {
		if splitFull {
			cfg.Rename.Mode = jr.ModeFull
		}
		confirm = cfg.Confirm
	})
	if err != nil {
		return err
	}
	defer a.Close()

	out := cmd.OutOrStdout()

	// The plan is already on screen once the prompt was answered.
	confirmed := false
	if !dryRun && confirm && !yes && stdinIsTerminal() {
		plan, err := a.Preview(target, extraIgnore...)
		if err != nil {
			return err
		}
		printEntries(out, plan)
		if plan.Renamed == 0 {
			fmt.Fprintln(out, "Nothing to rename.")
			return nil
		}
		ok, err := askYesNo(cmd.InOrStdin(), out, fmt.Sprintf("Rename %d entr%s?", plan.Renamed, plural(plan.Renamed, "y", "ies")))
		if err != nil {
			return err
		}
		if !ok {
			fmt.Fprintln(out, "Aborted.")
			return nil
		}
		confirmed = true
	}

	result, err := a.Rename(target, dryRun, extraIgnore...)
	if result != nil && !confirmed {
		printEntries(out, result)
	}
	if err != nil {
		return fmt.Errorf("rename failed: %w", err)
	}

	verb := "Renamed"
	if dryRun {
		verb = "Would rename"
	}
	fmt.Fprintf(out, "%s %d entr%s in %s, skipped %d\n", verb, result.Renamed, plural(result.Renamed, "y", "ies"), result.Directory, result.Skipped)
	return nil
}

func printEntries(w io.Writer, result *jr.RenameResult) {
	for _, e := range result.Entries {
		switch e.Outcome {
		case jr.OutcomeRenamed, jr.OutcomeWouldRename:
			fmt.Fprintf(w, "%-13s %s -> %s\n", e.Outcome, e.OldName, e.NewName)
		case jr.OutcomeTargetExists:
			if e.OldName != e.NewName {
				fmt.Fprintf(w, "%-13s %s (%s exists)\n", e.Outcome, e.OldName, e.NewName)
			}
		case jr.OutcomeTooShort:
			fmt.Fprintf(w, "%-13s %s\n", e.Outcome, e.OldName)
		}
	}
}

func askYesNo(r io.Reader, w io.Writer, question string) (bool, error) {
	fmt.Fprintf(w, "%s [y/N] ", question)
	line, err := bufio.NewReader(r).ReadString('\n')
	if err != nil && err != io.EOF {
		return false, fmt.Errorf("reading answer: %w", err)
	}
	switch strings.ToLower(strings.TrimSpace(line)) {
	case "y", "yes":
		return true, nil
	}
	return false, nil
}

func plural(n int, one, many string) string {
	if n == 1 {
		return one
	}
	return many
}

func newConfigInitCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "init",
		Short: "Initialize configuration",
		RunE: func(cmd *cobra.Command, args []string) error {
			defaults, err := app.GetDefaults()
			if err != nil {
				return fmt.Errorf("failed to get defaults: %w", err)
			}

			cfg := config.NewConfig(defaults["base_dir"])
			if err := config.Init(defaults["config_path"], cfg); err != nil {
				return fmt.Errorf("failed to initialize config: %w", err)
			}

			out := cmd.OutOrStdout()
			fmt.Fprintf(out, "Configuration initialized at %s\n", defaults["config_path"])
			fmt.Fprintf(out, "Base Dir: %s\n", cfg.BaseDir)
			return nil
		},
	}
}

func newConfigListCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "list",
		Short: "View configuration",
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, path, err := loadConfig()
			if err != nil {
				return err
			}

			out := cmd.OutOrStdout()
			fmt.Fprintf(out, "Configuration from %s:\n\n", path)
			fmt.Fprintf(out, "Base Dir:    %s\n", cfg.BaseDir)
			fmt.Fprintf(out, "Log Dir:     %s\n", cfg.LogDir)
			fmt.Fprintf(out, "Log Level:   %s\n", cfg.LogLevel)
			fmt.Fprintf(out, "Confirm:     %t\n", cfg.Confirm)
			fmt.Fprintf(out, "Trim Length: %d\n", cfg.Rename.TrimLength)
			fmt.Fprintf(out, "Delimiter:   %q\n", cfg.Rename.Delimiter)
			fmt.Fprintf(out, "Extension:   %s\n", cfg.Rename.Extension)
			fmt.Fprintf(out, "Mode:        %s\n", cfg.Rename.Mode)
			fmt.Fprintf(out, "Short Names: %s\n", cfg.Rename.ShortNames)
			fmt.Fprintf(out, "Journal:     %s %s\n", cfg.Journal.Type, cfg.Journal.DataDir)
			fmt.Fprintf(out, "Ignore:      %s\n", strings.Join(cfg.Filesystem.Ignore, ", "))
			return nil
		},
	}
}

func newHistoryCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "history",
		Short: "View rename operation history",
		RunE: func(cmd *cobra.Command, args []string) error {
			limit, _ := cmd.Flags().GetInt("limit")

			a, err := newApp(cmd, "GetHistory", nil)
			if err != nil {
				return err
			}
			defer a.Close()

			ops, err := a.GetHistory(limit)
			if err != nil {
				return err
			}
			if len(ops) == 0 {
				fmt.Fprintln(cmd.OutOrStdout(), "No rename operations recorded.")
				return nil
			}

			renderOperations(cmd.OutOrStdout(), ops)
			return nil
		},
	}
	cmd.Flags().IntP("limit", "n", 50, "Maximum number of operations to show")
	return cmd
}

func newShowCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "show OPERATION_ID",
		Short: "View the renames of one operation",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			id, err := strconv.ParseInt(args[0], 10, 64)
			if err != nil {
				return fmt.Errorf("invalid operation id %q: %w", args[0], err)
			}

			a, err := newApp(cmd, "GetOperationRenames", nil)
			if err != nil {
				return err
			}
			defer a.Close()

			renames, err := a.GetOperationRenames(id)
			if err != nil {
				return err
			}
			if len(renames) == 0 {
				fmt.Fprintf(cmd.OutOrStdout(), "No renames recorded for operation %d.\n", id)
				return nil
			}

			renderRenames(cmd.OutOrStdout(), renames)
			return nil
		},
	}
}

func newLogCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "log NAME",
		Short: "View the renames that produced or consumed NAME",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			dir, _ := cmd.Flags().GetString("dir")

			a, err := newApp(cmd, "GetNameHistory", nil)
			if err != nil {
				return err
			}
			defer a.Close()

			renames, err := a.GetNameHistory(dir, args[0])
			if err != nil {
				return err
			}
			if len(renames) == 0 {
				fmt.Fprintln(cmd.OutOrStdout(), "No rename history.")
				return nil
			}

			renderRenames(cmd.OutOrStdout(), renames)
			return nil
		},
	}
	cmd.Flags().StringP("dir", "C", ".", "Directory the name lives in")
	return cmd
}

func renderOperations(w io.Writer, ops []*model.Operation) {
	table := tablewriter.NewWriter(w)
	table.SetHeader([]string{"ID", "Operation", "Started", "Status", "Duration", "Directory"})
	table.SetBorder(false)
	table.SetCenterSeparator("")
	table.SetAutoWrapText(false)

	for _, op := range ops {
		duration := ""
		if op.FinishedAt.Valid {
			duration = op.FinishedAt.Time.Sub(op.StartedAt).Truncate(time.Millisecond).String()
		}
		table.Append([]string{
			strconv.FormatInt(op.ID, 10),
			op.Operation,
			op.StartedAt.Local().Format("2006-01-02 15:04:05"),
			op.Status,
			duration,
			op.Parameters,
		})
	}
	table.Render()
}

func renderRenames(w io.Writer, renames []*model.Rename) {
	table := tablewriter.NewWriter(w)
	table.SetHeader([]string{"Operation", "Renamed At", "Old Name", "New Name"})
	table.SetBorder(false)
	table.SetCenterSeparator("")
	table.SetAutoWrapText(false)

	for _, r := range renames {
		table.Append([]string{
			strconv.FormatInt(r.OperationID, 10),
			r.RenamedAt.Local().Format("2006-01-02 15:04:05"),
			r.OldName,
			r.NewName,
		})
	}
	table.Render()
}
