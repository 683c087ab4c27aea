package main

import (
	"bufio"
	"bytes"
	"context"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"net"
	"os"
	"sync"
	"time"

	"github.com/charmbracelet/colorprofile"
	"github.com/charmbracelet/lipgloss/v2"
	"github.com/charmbracelet/x/term"
	"github.com/spf13/cobra"

	"github.com/moodclient/mudclient"
	"github.com/moodclient/mudclient/internal/appconfig"
	"github.com/moodclient/mudclient/telnet"
	"github.com/moodclient/mudclient/utils"
)

const windowPollInterval = time.Second

type connectOptions struct {
	configPath      string
	terminalTypes   []string
	charset         string
	fallbackCharset string
	logFile         string
	logLevel        string
}

func newConnectCmd() *cobra.Command {
	var opts connectOptions
	cmd := &cobra.Command{
		Use:   "connect <host>:<port>",
		Short: "Connect to a MUD and print its output",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := appconfig.Load(opts.configPath)
			if err != nil {
				return err
			}
			opts.apply(cmd, &cfg)

			return runConnect(cmd.Context(), args[0], cfg)
		},
	}
	cmd.Flags().StringVar(&opts.configPath, "config", "", "config file path (default is the user config dir)")
	cmd.Flags().StringArrayVar(&opts.terminalTypes, "ttype", nil, "terminal type to report over TTYPE (repeatable)")
	cmd.Flags().StringVar(&opts.charset, "charset", "", "charset the MUD sends text in")
	cmd.Flags().StringVar(&opts.fallbackCharset, "fallback-charset", "", "single byte charset for text that is not valid UTF-8")
	cmd.Flags().StringVar(&opts.logFile, "log-file", "", "write the debug log to this file")
	cmd.Flags().StringVar(&opts.logLevel, "log-level", "", "debug log level (debug, info, warn, error)")
	return cmd
}

// apply overrides configuration values with the flags that were set
func (o connectOptions) apply(cmd *cobra.Command, cfg *appconfig.Config) {
	flags := cmd.Flags()
	if flags.Changed("ttype") {
		cfg.Terminal.TerminalTypes = o.terminalTypes
	}
	if flags.Changed("charset") {
		cfg.Terminal.Charset = o.charset
	}
	if flags.Changed("fallback-charset") {
		cfg.Terminal.FallbackCharset = o.fallbackCharset
	}
	if flags.Changed("log-file") {
		cfg.Logging.File = o.logFile
	}
	if flags.Changed("log-level") {
		cfg.Logging.Level = o.logLevel
	}
}

// logBuffer keeps the debug log in memory. Input forwarding can outlive the
// session and still log while the buffer is being printed.
type logBuffer struct {
	mu  sync.Mutex
	buf bytes.Buffer
}

func (b *logBuffer) Write(p []byte) (int, error) {
	b.mu.Lock()
	defer b.mu.Unlock()
	return b.buf.Write(p)
}

// WriteTo drains the log into w
func (b *logBuffer) WriteTo(w io.Writer) (int64, error) {
	b.mu.Lock()
	defer b.mu.Unlock()
	return b.buf.WriteTo(w)
}

// openLog returns the debug log destination. Without a file the log is kept in
// memory and printed to stderr after the session so that it does not interleave
// with the MUD.
func openLog(cfg appconfig.LoggingConfig, stderr io.Writer) (io.Writer, func() error, error) {
	if cfg.File == "" {
		logStore := &logBuffer{}
		return logStore, func() error {
			_, err := logStore.WriteTo(stderr)
			return err
		}, nil
	}

	file, err := os.OpenFile(cfg.File, os.O_CREATE|os.O_WRONLY|os.O_APPEND, 0o600)
	if err != nil {
		return nil, nil, fmt.Errorf("open log file: %w", err)
	}
	return file, file.Close, nil
}

func localWindowSize() (int, int, bool) {
	fd := os.Stdout.Fd()
	if !term.IsTerminal(fd) {
		return 0, 0, false
	}

	columns, rows, err := term.GetSize(fd)
	if err != nil {
		return 0, 0, false
	}
	return columns, rows, true
}

// watchWindowSize pushes the local terminal size to the remote whenever it changes
func watchWindowSize(ctx context.Context, terminal *mudclient.Terminal, logger *slog.Logger) {
	ticker := time.NewTicker(windowPollInterval)
	defer ticker.Stop()

	lastColumns, lastRows, _ := localWindowSize()
	for {
		select {
		case <-ctx.Done():
			return
		case <-ticker.C:
		}

		columns, rows, ok := localWindowSize()
		if !ok || (columns == lastColumns && rows == lastRows) {
			continue
		}
		lastColumns, lastRows = columns, rows

		if err := terminal.SetWindowSize(columns, rows); err != nil {
			logger.Warn("Window size update failed", slog.Any("error", err))
			return
		}
	}
}

// forwardInput sends each line typed on stdin to the remote
func forwardInput(input io.Reader, terminal *mudclient.Terminal) error {
	scanner := bufio.NewScanner(input)
	for scanner.Scan() {
		if err := terminal.SendLine(scanner.Text()); err != nil {
			if errors.Is(err, mudclient.ErrTerminalClosed) {
				return nil
			}
			return err
		}
	}
	return scanner.Err()
}

func runConnect(ctx context.Context, address string, cfg appconfig.Config) error {
	level, err := cfg.Logging.SlogLevel()
	if err != nil {
		return err
	}
	terminalConfig, err := cfg.TerminalConfig()
	if err != nil {
		return err
	}

	logOutput, closeLog, err := openLog(cfg.Logging, os.Stderr)
	if err != nil {
		return err
	}
	defer func() { _ = closeLog() }()
	logger := slog.New(slog.NewTextHandler(logOutput, &slog.HandlerOptions{Level: level}))

	lipgloss.EnableLegacyWindowsANSI(os.Stdout)
	output := colorprofile.NewWriter(os.Stdout, os.Environ())
	logger.Info("Detected color profile", slog.String("profile", output.Profile.String()))

	if columns, rows, ok := localWindowSize(); ok {
		terminalConfig.WindowSize = telnet.ClampWindowSize(columns, rows)
	}

	var dialer net.Dialer
	conn, err := dialer.DialContext(ctx, "tcp", address)
	if err != nil {
		return err
	}

	ctx, cancel := context.WithCancel(ctx)
	defer cancel()

	screen := newConsole(output)
	terminalConfig.EventHooks = mudclient.EventHooks{
		PrinterOutput:   []mudclient.PrinterOutputHandler{screen.printerOutput},
		ConnectionState: []mudclient.ConnectionStateHandler{screen.connectionState},
	}

	terminal, err := mudclient.NewTerminal(ctx, conn, terminalConfig)
	if err != nil {
		_ = conn.Close()
		return err
	}
	_ = utils.NewDebugLog(terminal, logger, utils.DefaultDebugLogConfig())

	var watcher sync.WaitGroup
	watcher.Add(1)
	go func() {
		defer watcher.Done()
		watchWindowSize(ctx, terminal, logger)
	}()

	// Blocked reads on stdin cannot be interrupted, so this goroutine is not joined
	go func() {
		if err := forwardInput(os.Stdin, terminal); err != nil {
			logger.Error("Reading input failed", slog.Any("error", err))
		}
		terminal.Close()
	}()

	err = terminal.WaitForExit()
	cancel()
	watcher.Wait()
	return err
}
