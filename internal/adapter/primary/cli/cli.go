package cli

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"os"
	"os/signal"
	"path/filepath"
	"strings"
	"time"

	"github.com/chzyer/readline"
	"github.com/gdamore/tcell/v2"
	"github.com/google/shlex"
	"github.com/spf13/cobra"
	"github.com/spf13/pflag"

	"birthday-countdown/internal/adapter/primary/tui"
	"birthday-countdown/internal/adapter/primary/web"
	"birthday-countdown/internal/adapter/secondary/celebrate"
	"birthday-countdown/internal/adapter/secondary/clock"
	"birthday-countdown/internal/adapter/secondary/repository"
	"birthday-countdown/internal/domain"
	"birthday-countdown/internal/logging"
	"birthday-countdown/internal/metrics"
	"birthday-countdown/internal/usecase"
)

var (
	cfgPath   string
	verbosity int
)

// NewRootCmd creates the root CLI command.
// This is the primary adapter that translates CLI inputs to use case calls.
func NewRootCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:           "birthday-countdown",
		Short:         "Count down to a birthday and celebrate when it arrives",
		Long:          "Countdown engine with a terminal widget, a web widget and a line-mode CLI",
		SilenceUsage:  true,
		SilenceErrors: true,
	}

	defaultCfg := repository.DefaultPath()
	cmd.PersistentFlags().StringVar(&cfgPath, "config", defaultCfg, "settings file path")
	cmd.PersistentFlags().CountVarP(&verbosity, "verbose", "v", "more logging (-v, -vv, ... up to 4)")
	cmd.PersistentPreRun = func(cmd *cobra.Command, args []string) {
		logging.SetVerbosity(verbosity)
	}

	cmd.AddCommand(
		newRunCmd(),
		newTUICmd(),
		newServeCmd(),
		newRemainingCmd(),
		newConfigCmd(),
		newShellCmd(),
	)

	return cmd
}

// loadSettings reads and validates the settings file. A settings log level
// applies only when no -v flag was given.
func loadSettings() (*repository.FileRepository, domain.Settings, error) {
	repo, err := repository.NewFileRepository(cfgPath)
	if err != nil {
		return nil, domain.Settings{}, err
	}
	settings, err := repo.Load()
	if err != nil {
		return nil, domain.Settings{}, err
	}
	settings, err = domain.NewCountdownService().ValidateAndNormalize(settings)
	if err != nil {
		return nil, domain.Settings{}, fmt.Errorf("invalid settings in %s: %w", repo.Path(), err)
	}
	if verbosity == 0 {
		if err := logging.SetLevel(settings.LogLevel); err != nil {
			logging.Warnf("settings: %v", err)
		}
	}
	return repo, settings, nil
}

func newCelebrator(settings domain.Settings) domain.Celebrator {
	if !settings.Chime {
		return celebrate.NewNoopCelebrator()
	}
	return celebrate.NewChimeCelebrator()
}

func newRunCmd() *cobra.Command {
	var at string
	cmd := &cobra.Command{
		Use:   "run",
		Short: "Line-mode countdown on stdout until the date arrives",
		RunE: func(cmd *cobra.Command, args []string) error {
			_, settings, err := loadSettings()
			if err != nil {
				return err
			}
			uc, err := usecase.NewCountdownUseCase(clock.NewSystemClock(), settings.TickInterval)
			if err != nil {
				return err
			}
			defer uc.Close()

			ctx, stop := signal.NotifyContext(cmd.Context(), os.Interrupt)
			defer stop()

			return runCountdown(ctx, uc, at, cmd.OutOrStdout(), newCelebrator(settings))
		},
	}
	cmd.Flags().StringVar(&at, "at", "", "target date, e.g. 2026-12-24T18:00")
	return cmd
}

// runCountdown prints every tick on one line and celebrates once the countdown expires.
func runCountdown(ctx context.Context, uc usecase.CountdownUseCase, at string, out io.Writer, c domain.Celebrator) error {
	expired := make(chan domain.Snapshot, 1)
	unsubscribe := uc.Subscribe(domain.ObserverFunc(func(ev domain.Event) {
		switch ev.Type {
		case domain.EventTick:
			fmt.Fprintf(out, "\r%s ", ev.Snapshot.Remaining)
		case domain.EventExpired:
			expired <- ev.Snapshot
		}
	}))
	defer unsubscribe()

	if snap := uc.SetTargetInput(at); !snap.HasTarget {
		_, err := uc.Start()
		return fmt.Errorf("%s: %w", domain.MissingTargetMessage, err)
	}

	select {
	case <-ctx.Done():
		fmt.Fprintln(out)
		return nil
	case snap := <-expired:
		fmt.Fprintln(out)
		fmt.Fprintln(out, "Happy Birthday!")
		if err := c.Celebrate(ctx, snap); err != nil && ctx.Err() == nil {
			logging.Warnf("celebration: %v", err)
		}
		return nil
	}
}

func newTUICmd() *cobra.Command {
	var at string
	cmd := &cobra.Command{
		Use:   "tui",
		Short: "Full-screen terminal countdown with confetti",
		RunE: func(cmd *cobra.Command, args []string) error {
			_, settings, err := loadSettings()
			if err != nil {
				return err
			}
			uc, err := usecase.NewCountdownUseCase(clock.NewSystemClock(), settings.TickInterval)
			if err != nil {
				return err
			}
			defer uc.Close()

			ctx, stop := signal.NotifyContext(cmd.Context(), os.Interrupt)
			defer stop()
			uc.Subscribe(celebrate.OnExpiry(ctx, newCelebrator(settings)))

			screen, err := tcell.NewScreen()
			if err != nil {
				return err
			}
			app := tui.New(screen, uc)
			app.SetInput(at)
			return app.Run(ctx)
		},
	}
	cmd.Flags().StringVar(&at, "at", "", "pre-filled target date, e.g. 2026-12-24T18:00")
	return cmd
}

func newServeCmd() *cobra.Command {
	var (
		addr string
		at   string
	)
	cmd := &cobra.Command{
		Use:   "serve",
		Short: "Serve the web countdown widget and JSON API",
		RunE: func(cmd *cobra.Command, args []string) error {
			repo, settings, err := loadSettings()
			if err != nil {
				return err
			}
			if cmd.Flags().Changed("addr") {
				settings.Addr = addr
			}
			uc, err := usecase.NewCountdownUseCase(clock.NewSystemClock(), settings.TickInterval)
			if err != nil {
				return err
			}
			defer uc.Close()

			ctx, stop := signal.NotifyContext(cmd.Context(), os.Interrupt)
			defer stop()

			recorder := metrics.NewRecorder()
			uc.Subscribe(recorder)
			uc.Subscribe(celebrate.OnExpiry(ctx, newCelebrator(settings)))
			if at != "" {
				uc.SetTargetInput(at)
			}

			srv := web.NewServer(uc, settings.Addr, settings.VideoURL, recorder.Handler())
			if err := repo.Watch(ctx, func(s domain.Settings) {
				s, err := domain.NewCountdownService().ValidateAndNormalize(s)
				if err != nil {
					logging.Warnf("ignoring reloaded settings: %v", err)
					return
				}
				srv.SetVideoURL(s.VideoURL)
				if verbosity == 0 {
					_ = logging.SetLevel(s.LogLevel)
				}
			}); err != nil {
				logging.Warnf("settings hot reload disabled: %v", err)
			}

			fmt.Fprintf(cmd.OutOrStdout(), "Birthday countdown running at http://%s\n", settings.Addr)
			logging.Infof("Birthday countdown UI: http://%s", settings.Addr)

			go func() {
				<-ctx.Done()
				shutdownCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
				defer cancel()
				_ = srv.Shutdown(shutdownCtx)
			}()

			return srv.Start()
		},
	}
	cmd.Flags().StringVar(&addr, "addr", "", "HTTP listen address (overrides settings)")
	cmd.Flags().StringVar(&at, "at", "", "start counting down to this date right away")
	return cmd
}

func newRemainingCmd() *cobra.Command {
	var at string
	cmd := &cobra.Command{
		Use:   "remaining",
		Short: "Print the time left until a date once",
		RunE: func(cmd *cobra.Command, args []string) error {
			uc, err := usecase.NewCountdownUseCase(clock.NewSystemClock(), domain.DefaultTickInterval)
			if err != nil {
				return err
			}
			defer uc.Close()

			snap := uc.SetTargetInput(at)
			uc.Stop()
			if !snap.HasTarget {
				_, err := uc.Start()
				return fmt.Errorf("%s: %w", domain.MissingTargetMessage, err)
			}

			display := map[string]interface{}{
				"target":  snap.Target.Format(time.RFC3339),
				"days":    snap.Remaining.Days,
				"hours":   snap.Remaining.Hours,
				"minutes": snap.Remaining.Minutes,
				"seconds": snap.Remaining.Seconds,
				"expired": snap.Expired,
			}
			out, _ := json.MarshalIndent(display, "", "  ")
			fmt.Fprintln(cmd.OutOrStdout(), string(out))
			return nil
		},
	}
	cmd.Flags().StringVar(&at, "at", "", "target date, e.g. 2026-12-24T18:00")
	return cmd
}

func newConfigCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "config",
		Short: "Show or update the settings file",
	}
	cmd.AddCommand(newConfigGetCmd(), newConfigSetCmd())
	return cmd
}

func newConfigGetCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "get",
		Short: "Print the current settings (JSON)",
		RunE: func(cmd *cobra.Command, args []string) error {
			repo, err := repository.NewFileRepository(cfgPath)
			if err != nil {
				return err
			}
			settings, err := repo.Load()
			if err != nil {
				return err
			}

			display := map[string]interface{}{
				"tickInterval": settings.TickInterval.String(),
				"addr":         settings.Addr,
				"videoUrl":     settings.VideoURL,
				"chime":        settings.Chime,
				"logLevel":     settings.LogLevel,
				"path":         repo.Path(),
			}
			out, _ := json.MarshalIndent(display, "", "  ")
			fmt.Fprintln(cmd.OutOrStdout(), string(out))
			return nil
		},
	}
}

func newConfigSetCmd() *cobra.Command {
	var (
		intervalFlag time.Duration
		addrFlag     string
		videoFlag    string
		chimeFlag    string
		levelFlag    string
	)
	cmd := &cobra.Command{
		Use:   "set",
		Short: "Update settings",
		RunE: func(cmd *cobra.Command, args []string) error {
			repo, err := repository.NewFileRepository(cfgPath)
			if err != nil {
				return err
			}
			settings, err := repo.Load()
			if err != nil {
				return err
			}

			if cmd.Flags().Changed("interval") {
				settings.TickInterval = intervalFlag
			}
			if cmd.Flags().Changed("addr") {
				settings.Addr = addrFlag
			}
			if cmd.Flags().Changed("video") {
				settings.VideoURL = videoFlag
			}
			if cmd.Flags().Changed("chime") {
				switch chimeFlag {
				case "true":
					settings.Chime = true
				case "false":
					settings.Chime = false
				default:
					return errors.New("--chime takes true or false")
				}
			}
			if cmd.Flags().Changed("log-level") {
				settings.LogLevel = levelFlag
			}

			settings, err = domain.NewCountdownService().ValidateAndNormalize(settings)
			if err != nil {
				return err
			}
			if err := repo.Save(settings); err != nil {
				return err
			}

			fmt.Fprintf(cmd.OutOrStdout(), "saved: interval=%s addr=%s chime=%t log=%s\n",
				settings.TickInterval, settings.Addr, settings.Chime, settings.LogLevel)
			return nil
		},
	}
	cmd.Flags().DurationVar(&intervalFlag, "interval", domain.DefaultTickInterval, "refresh cadence, e.g. 1s, 500ms")
	cmd.Flags().StringVar(&addrFlag, "addr", "", "HTTP listen address for serve")
	cmd.Flags().StringVar(&videoFlag, "video", "", "embed URL shown when the countdown ends")
	cmd.Flags().StringVar(&chimeFlag, "chime", "", "true/false: play the birthday tune on expiry")
	cmd.Flags().StringVar(&levelFlag, "log-level", "", "error|warn|info|debug|trace")
	return cmd
}

func newShellCmd() *cobra.Command {
	var prompt string
	cmd := &cobra.Command{
		Use:   "shell",
		Short: "Interactive shell running the other subcommands",
		RunE: func(cmd *cobra.Command, args []string) error {
			return runInteractiveShell(prompt)
		},
	}
	cmd.Flags().StringVar(&prompt, "prompt", "countdown> ", "shell prompt")
	return cmd
}

func runInteractiveShell(prompt string) error {
	historyFile := filepath.Join(os.TempDir(), "birthday-countdown-shell.history")
	rl, err := readline.NewEx(&readline.Config{
		Prompt:          prompt,
		HistoryFile:     historyFile,
		InterruptPrompt: "^C",
		EOFPrompt:       "exit",
	})
	if err != nil {
		return err
	}
	defer rl.Close()

	sessionVerbosity := verbosity
	fmt.Println("Interactive shell. 'help' for usage, 'exit' to leave.")

	for {
		line, err := rl.Readline()
		if err == readline.ErrInterrupt {
			fmt.Println()
			continue
		}
		if err == io.EOF {
			fmt.Println()
			return nil
		}
		line = strings.TrimSpace(line)
		if line == "" {
			continue
		}
		switch line {
		case "exit", "quit":
			fmt.Println("Bye!")
			return nil
		case "help":
			printShellHelp()
			continue
		}
		tokens, err := shlex.Split(line)
		if err != nil {
			fmt.Printf("Parse error: %v\n", err)
			continue
		}
		if len(tokens) == 0 {
			continue
		}
		if tokens[0] == "log" {
			if err := handleShellLog(tokens[1:], &sessionVerbosity); err != nil {
				fmt.Printf("log: %v\n", err)
			}
			continue
		}
		if tokens[0] == "shell" {
			fmt.Println("Already in the shell. Type another command or 'exit'.")
			continue
		}

		if err := executeArgs(tokens, sessionVerbosity); err != nil {
			fmt.Printf("command error: %v\n", err)
		}
	}
}

// executeArgs runs one shell line on a fresh root. The session's log level is
// passed as leading -v flags, since building the root resets the flag variable.
func executeArgs(args []string, sessionVerbosity int) error {
	if len(args) == 0 {
		return nil
	}
	root := NewRootCmd()
	if sessionVerbosity > 0 {
		args = append([]string{"-" + strings.Repeat("v", sessionVerbosity)}, args...)
	}
	root.SetArgs(args)
	return root.Execute()
}

func handleShellLog(args []string, sessionVerbosity *int) error {
	fs := pflag.NewFlagSet("log", pflag.ContinueOnError)
	fs.SetOutput(io.Discard)
	var vcount int
	var level string
	var show bool
	fs.CountVarP(&vcount, "verbose", "v", "Increase verbosity (-v... up to 4)")
	fs.StringVar(&level, "level", "", "error|warn|info|debug|trace")
	fs.BoolVarP(&show, "show", "s", false, "print the current level")
	if err := fs.Parse(args); err != nil {
		return err
	}

	switch {
	case show && vcount == 0 && level == "":
		fmt.Printf("log level: %s (-v x%d)\n", logging.LevelName(), logging.Verbosity())
		return nil
	case level != "":
		_, count, err := logging.ParseLevel(level)
		if err != nil {
			return err
		}
		*sessionVerbosity = count
	case vcount > 0:
		*sessionVerbosity = vcount
	default:
		fmt.Printf("log level: %s (-v x%d)\n", logging.LevelName(), logging.Verbosity())
		return nil
	}

	logging.SetVerbosity(*sessionVerbosity)
	fmt.Printf("log level set to %s (-v x%d)\n", logging.LevelName(), logging.Verbosity())
	return nil
}

func printShellHelp() {
	fmt.Println(`Examples:
  run --at 2026-12-24T18:00        # line-mode countdown
  tui --at "2026-12-24 18:00"      # full-screen countdown
  serve --addr 0.0.0.0:8080        # web widget
  remaining --at 2026-12-24        # one-shot breakdown
  config get                       # show settings
  config set --interval 500ms      # update settings
  log -vv                          # more logging
  log --show                       # current log level
  exit / quit                      # leave the shell`)
}
