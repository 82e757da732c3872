// Package cmd wires up the CLI flags and dispatches to the chat
// session engine and its terminal UI.
package cmd

import (
	"bufio"
	"context"
	"fmt"
	"io"
	"os"
	"strings"
	"time"

	tea "github.com/charmbracelet/bubbletea"
	flag "github.com/spf13/pflag"
	"golang.org/x/term"

	"github.com/Tanishkshk1/Irconic/config"
	"github.com/Tanishkshk1/Irconic/internal/metrics"
	"github.com/Tanishkshk1/Irconic/internal/retry"
	"github.com/Tanishkshk1/Irconic/internal/transport"
	"github.com/Tanishkshk1/Irconic/irc"
	"github.com/Tanishkshk1/Irconic/tui"
	"github.com/Tanishkshk1/Irconic/util"
)

// version is overridable at link time:
//
//	go build -ldflags "-X github.com/Tanishkshk1/Irconic/cmd.version=2.0.0"
var version = "1.0.0" //nolint:gochecknoglobals

// Execute parses args, resolves configuration, and runs the client.
func Execute(ctx context.Context, args []string) error {
	cfg := &config.Config{}
	config.LoadFromEnv(cfg)

	fs := flag.NewFlagSet("irconic", flag.ContinueOnError)

	// ── connection ───────────────────────────────────────────────
	fs.StringVarP(&cfg.Channel, "channel", "c", cfg.Channel, "Channel to join after registering")
	fs.IntVar(&cfg.Retries, "retries", cfg.Retries, "Initial connection attempts (1 = no retry)")

	var timeoutSec int
	fs.IntVarP(&timeoutSec, "timeout", "w", 0, "Dial timeout in seconds")

	// ── SSH tunnel ───────────────────────────────────────────────
	fs.StringVarP(&cfg.TunnelSpec, "tunnel", "T", cfg.TunnelSpec, "SSH tunnel via [user@]host[:port]")
	fs.StringVar(&cfg.SSHKeyPath, "ssh-key", cfg.SSHKeyPath, "SSH private key file")
	fs.BoolVar(&cfg.SSHPassword, "ssh-password", cfg.SSHPassword, "Prompt for SSH password")

	// ── output ───────────────────────────────────────────────────
	fs.CountVarP(&cfg.Verbose, "verbose", "v", "Increase verbosity (repeatable)")
	fs.StringVar(&cfg.LogFile, "log-file", cfg.LogFile, "Append logs to a file instead of stderr")

	var showVersion, showHelp, dryRun bool
	fs.BoolVar(&showVersion, "version", false, "Print version and exit")
	fs.BoolVarP(&showHelp, "help", "h", false, "Show this help")
	fs.BoolVar(&dryRun, "dry-run", false, "Resolve configuration and exit without connecting")

	fs.Usage = func() { printUsage(fs) }

	// ── parse ────────────────────────────────────────────────────
	if err := fs.Parse(args); err != nil {
		return err
	}

	if showHelp {
		printUsage(fs)
		return nil
	}
	if showVersion {
		fmt.Printf("irconic %s\n", version)
		return nil
	}

	if timeoutSec > 0 {
		cfg.Timeout = time.Duration(timeoutSec) * time.Second
	}
	if cfg.Retries == 0 {
		cfg.Retries = config.DefaultRetries
	}

	// ── positional arguments ─────────────────────────────────────
	if err := parsePositional(cfg, fs.Args()); err != nil {
		return err
	}

	// ── interactive setup for anything still missing ─────────────
	if err := promptMissing(cfg, os.Stdin); err != nil {
		return err
	}

	if cfg.Port == 0 {
		cfg.Port = config.DefaultPort
	}

	// ── tunnel spec ──────────────────────────────────────────────
	if cfg.TunnelSpec != "" {
		user, host, port, err := config.ParseTunnelSpec(cfg.TunnelSpec)
		if err != nil {
			return fmt.Errorf("tunnel: %w", err)
		}
		cfg.TunnelEnabled = true
		cfg.TunnelUser = user
		cfg.TunnelHost = host
		cfg.TunnelPort = port
	}

	// ── validate ─────────────────────────────────────────────────
	if err := cfg.Validate(); err != nil {
		return err
	}

	if dryRun {
		fmt.Printf("irconic: would connect to %s as %q (channel %q, tunnel %v)\n",
			cfg.Addr(), cfg.Nick, cfg.Channel, cfg.TunnelEnabled)
		return nil
	}

	return run(ctx, cfg)
}

// run builds the components and drives the session to the UI.
func run(ctx context.Context, cfg *config.Config) error {
	logger, err := buildLogger(cfg)
	if err != nil {
		return err
	}

	dialer, err := buildDialer(ctx, cfg, logger)
	if err != nil {
		return err
	}

	stats := metrics.New()
	session := irc.New(cfg.Nick, dialer, logger, stats)
	defer session.Close()

	// Initial connection, optionally retried with backoff.
	backoff := retry.DefaultBackoff(cfg.Retries)
	err = backoff.Do(ctx, func(attempt int) error {
		if attempt > 1 {
			logger.Warn("connection attempt %d/%d", attempt, cfg.Retries)
		}
		return session.Connect(ctx, cfg.Server, cfg.Port)
	})
	if err != nil {
		return fmt.Errorf("connect: %w", err)
	}

	if err := session.Register(); err != nil {
		return fmt.Errorf("register: %w", err)
	}

	events, err := session.StartReceiver()
	if err != nil {
		return err
	}

	if cfg.Channel != "" {
		if err := session.Join(cfg.Channel); err != nil {
			return fmt.Errorf("join: %w", err)
		}
	}

	program := tea.NewProgram(tui.New(session, events, logger), tea.WithAltScreen())
	go func() {
		<-ctx.Done()
		program.Quit()
	}()
	_, err = program.Run()
	return err
}

// ── component builders ───────────────────────────────────────────────

func buildLogger(cfg *config.Config) (*util.Logger, error) {
	if cfg.LogFile != "" {
		return util.NewFileLogger(cfg.Verbose, cfg.LogFile)
	}
	// The UI owns the terminal; without a log file, keep stderr
	// silent unless verbosity was asked for explicitly.
	return util.NewLogger(cfg.Verbose), nil
}

func buildDialer(ctx context.Context, cfg *config.Config, logger *util.Logger) (transport.Dialer, error) {
	if !cfg.TunnelEnabled {
		return &transport.TCPDialer{Timeout: cfg.Timeout}, nil
	}

	sshDialer := transport.NewSSHDialer(&transport.SSHConfig{
		User:        cfg.TunnelUser,
		Host:        cfg.TunnelHost,
		Port:        cfg.TunnelPort,
		KeyPath:     cfg.SSHKeyPath,
		PromptPass:  cfg.SSHPassword,
		ConnTimeout: cfg.Timeout,
	}, logger)
	if err := sshDialer.Connect(ctx); err != nil {
		return nil, err
	}
	return sshDialer, nil
}

// ── helpers ──────────────────────────────────────────────────────────

// parsePositional consumes [server[:port]] [nick].
func parsePositional(cfg *config.Config, remaining []string) error {
	switch len(remaining) {
	case 0:
	case 2:
		cfg.Nick = remaining[1]
		fallthrough
	case 1:
		host, port, err := config.ParseServerSpec(remaining[0])
		if err != nil {
			return err
		}
		cfg.Server = host
		cfg.Port = port
	default:
		return fmt.Errorf("too many arguments (use --help for usage)")
	}
	return nil
}

// promptMissing asks interactively for server and nick when they were
// given neither as flags, environment, nor positionals.  Off a
// terminal the missing values become hard errors via Validate.
func promptMissing(cfg *config.Config, in *os.File) error {
	if cfg.Server != "" && cfg.Nick != "" {
		return nil
	}
	if !term.IsTerminal(int(in.Fd())) {
		return nil
	}

	reader := bufio.NewReader(in)
	if cfg.Server == "" {
		spec, err := promptLine(reader, fmt.Sprintf("Server address [port defaults to %d]: ", config.DefaultPort))
		if err != nil {
			return err
		}
		host, port, err := config.ParseServerSpec(spec)
		if err != nil {
			return err
		}
		cfg.Server = host
		cfg.Port = port
	}
	if cfg.Nick == "" {
		nick, err := promptLine(reader, "Nickname: ")
		if err != nil {
			return err
		}
		cfg.Nick = nick
	}
	return nil
}

func promptLine(reader *bufio.Reader, prompt string) (string, error) {
	fmt.Fprint(os.Stderr, prompt)
	line, err := reader.ReadString('\n')
	if err != nil && err != io.EOF {
		return "", err
	}
	return strings.TrimSpace(line), nil
}

func printUsage(fs *flag.FlagSet) {
	fmt.Fprintf(os.Stderr, `Irconic – terminal chat client v%s

An IRC client with a TUI front end and native SSH tunneling.

Usage:
  irconic [options] [server[:port]] [nick]

Options:
`, version)
	fs.PrintDefaults()
	fmt.Fprintf(os.Stderr, `
Examples:
  irconic irc.libera.chat bob                 Connect as bob
  irconic -c '#go' irc.libera.chat:6667 bob   Connect and join #go
  irconic -T admin@bastion irc.internal bob   Connect through SSH
  irconic -vv --log-file irconic.log ...      Verbose logs to a file
`)
}
