package main

import (
	"fmt"
	"os"
	"path/filepath"
	"time"

	"github.com/dustin/go-humanize"
	"github.com/spf13/cobra"

	"mvx/internal/app"
	"mvx/internal/config"
)

func main() {
	if err := rootCmd.Execute(); err != nil {
		fmt.Fprintf(os.Stderr, "%s: ERROR: %v\n", filepath.Base(os.Args[0]), err)
		os.Exit(1)
	}
}

// newApp reads the config and creates an MvxApp. The caller must defer app.Close().
func newApp(cmd *cobra.Command) (*app.MvxApp, error) {
	_, cfg, err := app.LoadConfig()
	if err != nil {
		return nil, fmt.Errorf("reading config: %w", err)
	}

	a, err := app.NewMvxApp(cfg, cmd.OutOrStdout(), cmd.ErrOrStderr())
	if err != nil {
		return nil, fmt.Errorf("initializing app: %w", err)
	}

	return a, nil
}

var rootCmd = &cobra.Command{
	Use:   "mvx SOURCE_DIR DESTINATION_DIR SIZE",
	Short: "Move the oldest files out of a directory tree",
	Long: `Move files from SOURCE_DIR to the same relative paths under DESTINATION_DIR,
oldest modification time first, until at least SIZE bytes have been moved.
Source directories left empty are removed.

SIZE is an integer with an optional unit: B, k/kB, M/MB, G/GB, T/TB, P/PB,
E/EB (powers of 1000) or Ki/KiB, Mi/MiB, Gi/GiB, Ti/TiB, Pi/PiB, Ei/EiB
(powers of 1024). K and KB are accepted as 1024 but deprecated.

A source directory named like a subcommand must be given as ./NAME.`,
	Args:          cobra.ExactArgs(3),
	SilenceErrors: true,
	// Usage is only printed for argument errors, which are reported before this runs.
	PersistentPreRun: func(cmd *cobra.Command, args []string) {
		cmd.SilenceUsage = true
	},
	RunE: func(cmd *cobra.Command, args []string) error {
		a, err := newApp(cmd)
		if err != nil {
			return err
		}
		defer a.Close()

		result, err := a.Move(args[0], args[1], args[2])
		if err != nil {
			return err
		}

		fmt.Fprintf(cmd.OutOrStdout(), "Moved %d bytes\n", result.BytesMoved)
		return nil
	},
}

// config command
var configCmd = &cobra.Command{
	Use:   "config",
	Short: "Manage configuration",
}

var configInitCmd = &cobra.Command{
	Use:   "init",
	Short: "Initialize configuration",
	RunE: func(cmd *cobra.Command, args []string) error {
		d, err := app.GetDefaults()
		if err != nil {
			return err
		}

		cfg := config.NewConfig(d.BaseDir)

		if err := config.Init(d.ConfigPath, cfg); err != nil {
			return fmt.Errorf("failed to initialize config: %w", err)
		}

		fmt.Printf("Configuration initialized at %s\n", d.ConfigPath)
		fmt.Printf("Base Dir: %s\n", d.BaseDir)
		return nil
	},
}

var configListCmd = &cobra.Command{
	Use:   "list",
	Short: "View configuration",
	RunE: func(cmd *cobra.Command, args []string) error {
		d, cfg, err := app.LoadConfig()
		if err != nil {
			return fmt.Errorf("failed to read config: %w", err)
		}

		fmt.Printf("Configuration from %s:\n\n", d.ConfigPath)
		fmt.Printf("Base Dir:  %s\n", cfg.BaseDir)
		fmt.Printf("Log Dir:   %s\n", cfg.LogDir)
		fmt.Printf("Database:  %s %s\n", cfg.Database.Type, cfg.Database.DataDir)
		fmt.Printf("Ignore:    %v\n", cfg.Filesystem.Ignore)
		fmt.Printf("Dir Mode:  %#o\n", cfg.Filesystem.DirMode)
		return nil
	},
}

// history command
var historyCmd = &cobra.Command{
	Use:   "history",
	Short: "View recent runs",
	Args:  cobra.NoArgs,
	RunE: func(cmd *cobra.Command, args []string) error {
		limit, _ := cmd.Flags().GetInt("limit")

		a, err := newApp(cmd)
		if err != nil {
			return err
		}
		defer a.Close()

		runs, err := a.History(limit)
		if err != nil {
			return err
		}

		if len(runs) == 0 {
			fmt.Println("No runs recorded.")
			return nil
		}

		for _, run := range runs {
			duration := ""
			if run.FinishedAt.Valid {
				d := run.FinishedAt.Time.Sub(run.StartedAt)
				duration = d.Truncate(time.Millisecond).String()
			}
			fmt.Printf("%s  %s  %-8s  %9s / %-9s  %d files  %s -> %s  %s\n",
				shortID(run.ID),
				run.StartedAt.Local().Format("2006-01-02 15:04:05"),
				run.Status,
				humanize.IBytes(run.BytesMoved),
				humanize.IBytes(run.Quota),
				run.FilesMoved,
				run.SourceDir,
				run.DestinationDir,
				duration,
			)
		}
		return nil
	},
}

// log command
var logCmd = &cobra.Command{
	Use:   "log RUN_ID",
	Short: "View files moved by a run",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		a, err := newApp(cmd)
		if err != nil {
			return err
		}
		defer a.Close()

		run, files, err := a.RunLog(args[0])
		if err != nil {
			return err
		}

		fmt.Printf("Run %s (%s)\n", run.ID, run.Status)
		fmt.Printf("%s -> %s\n", run.SourceDir, run.DestinationDir)
		fmt.Printf("Moved %s of %s quota, %d file(s), %d skipped\n\n",
			humanize.IBytes(run.BytesMoved), humanize.IBytes(run.Quota), run.FilesMoved, run.FilesSkipped)

		if len(files) == 0 {
			fmt.Println("No files moved.")
			return nil
		}

		for _, f := range files {
			fmt.Printf("%s  %9s  mtime:%s  %s\n",
				f.MovedAt.Local().Format("2006-01-02 15:04:05"),
				humanize.IBytes(uint64(f.Size)),
				humanize.Time(f.ModifiedAt),
				f.RelativePath,
			)
		}
		return nil
	},
}

// shortID abbreviates a run ID for listings. Any unique prefix is accepted by the log command.
func shortID(id string) string {
	if len(id) > 8 {
		return id[:8]
	}
	return id
}

func init() {
	// A negative SIZE such as -5 must reach the size parser instead of
	// being read as a flag.
	rootCmd.Flags().SetInterspersed(false)

	// config subcommands
	configCmd.AddCommand(configInitCmd)
	configCmd.AddCommand(configListCmd)

	// root commands
	rootCmd.AddCommand(configCmd)
	rootCmd.AddCommand(historyCmd)
	historyCmd.Flags().IntP("limit", "n", 50, "Maximum number of runs to show")
	rootCmd.AddCommand(logCmd)
}
