// Command hompulse is the HOM Pulse admin console.
package main

import (
	"context"
	"errors"
	"fmt"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/spf13/cobra"

	"hompulse/console/internal/cli"
	"hompulse/console/internal/config"
	"hompulse/console/internal/logview"
	"hompulse/console/internal/session"
	"hompulse/console/internal/ui"
)

var (
	configPath string
	apiURL     string
	logStderr  bool
	keepGoing  bool
	logFilter  string
	logFollow  bool
)

func init() {
	rootCmd.PersistentFlags().StringVarP(&configPath, "config", "c", config.DefaultPath, "Path to the config file")
	rootCmd.PersistentFlags().StringVar(&apiURL, "api-url", "", "HOM Pulse API base URL, overriding the config")
	rootCmd.PersistentFlags().BoolVar(&logStderr, "log-stderr", false, "Write logs to stderr instead of the log folder")
	execCmd.Flags().BoolVarP(&keepGoing, "keep-going", "k", false, "Continue after a failing command")
	logsCmd.Flags().StringVar(&logFilter, "filter", "", "Only show entries containing this text")
	logsCmd.Flags().BoolVarP(&logFollow, "follow", "f", false, "Keep printing new entries")

	rootCmd.AddCommand(consoleCmd, execCmd, loginCmd, logoutCmd, whoamiCmd, logsCmd)
}

var rootCmd = &cobra.Command{
	Use:           "hompulse",
	Short:         "HOM Pulse admin console",
	SilenceUsage:  true,
	SilenceErrors: true,
	RunE:          runConsole,
}

var consoleCmd = &cobra.Command{
	Use:   "console",
	Short: "Start the interactive console",
	Args:  cobra.NoArgs,
	RunE:  runConsole,
}

var execCmd = &cobra.Command{
	Use:   "exec <script>",
	Short: "Run console commands from a file, or stdin when the file is -",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		in := os.Stdin
		if args[0] != "-" {
			f, err := os.Open(args[0])
			if err != nil {
				return fmt.Errorf("failed to open script: %w", err)
			}
			defer f.Close()
			in = f
		}
		return withCLI(cmd.Context(), func(ctx context.Context, c *cli.CLI) error {
			return c.Exec(ctx, in, keepGoing)
		})
	},
}

var loginCmd = &cobra.Command{
	Use:   "login <username> [password]",
	Short: "Log in and store the access token",
	Args:  cobra.RangeArgs(1, 2),
	RunE: func(cmd *cobra.Command, args []string) error {
		return runOne(cmd.Context(), append([]string{"auth", "login"}, args...))
	},
}

var logoutCmd = &cobra.Command{
	Use:   "logout",
	Short: "Clear the stored access token",
	Args:  cobra.NoArgs,
	RunE: func(cmd *cobra.Command, args []string) error {
		return runOne(cmd.Context(), []string{"auth", "logout"})
	},
}

var whoamiCmd = &cobra.Command{
	Use:   "whoami",
	Short: "Show the logged-in user",
	Args:  cobra.NoArgs,
	RunE: func(cmd *cobra.Command, args []string) error {
		return runOne(cmd.Context(), []string{"auth", "whoami"})
	},
}

var logsCmd = &cobra.Command{
	Use:   "logs [dir]",
	Short: "Print the console log files, defaulting to the configured log folder",
	Args:  cobra.MaximumNArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		cfg, err := config.Load(configPath)
		if err != nil {
			return fmt.Errorf("failed to load configuration: %w", err)
		}
		dir := cfg.LogFolder
		if len(args) == 1 {
			dir = args[0]
		}
		if _, err := os.Stat(dir); err != nil {
			return fmt.Errorf("log directory %s: %w", dir, err)
		}

		v := logview.New(dir, logFilter, ui.NewUI(os.Stdout, cfg.UseColor))
		if logFollow {
			return v.Follow(cmd.Context(), time.Second)
		}
		_, err = v.Scan()
		return err
	},
}

func runConsole(cmd *cobra.Command, args []string) error {
	return withCLI(cmd.Context(), func(ctx context.Context, c *cli.CLI) error {
		return c.Run(ctx)
	})
}

// runOne runs a single console command given as separate words
func runOne(ctx context.Context, words []string) error {
	return withCLI(ctx, func(ctx context.Context, c *cli.CLI) error {
		err := c.ExecuteArgs(ctx, words)
		if errors.Is(err, session.ErrExit) {
			return nil
		}
		return err
	})
}

// withCLI bootstraps the app, opens a console session and runs fn on it
func withCLI(ctx context.Context, fn func(context.Context, *cli.CLI) error) error {
	a, err := bootstrap(ctx)
	if err != nil {
		return err
	}
	defer a.Close()

	c, err := a.newCLI()
	if err != nil {
		return err
	}
	defer c.Close()
	return fn(ctx, c)
}

func main() {
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	if err := rootCmd.ExecuteContext(ctx); err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		stop()
		os.Exit(1)
	}
}
