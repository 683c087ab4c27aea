package utils

import (
	"context"
	"log/slog"

	"github.com/moodclient/mudclient"
	"github.com/moodclient/mudclient/render"
	"github.com/moodclient/mudclient/telnet"
)

// LevelNone can be assigned to any DebugLogConfig field to stop logging that event
const LevelNone slog.Level = -8

type DebugLogConfig struct {
	EncounteredErrorLevel  slog.Level
	IncomingCommandLevel   slog.Level
	IncomingTextLevel      slog.Level
	PromptLevel            slog.Level
	OutboundCommandLevel   slog.Level
	OutboundTextLevel      slog.Level
	TelOptStateChangeLevel slog.Level
	ConnectionLevel        slog.Level
}

// DefaultDebugLogConfig logs negotiation at info and the text streams at debug
func DefaultDebugLogConfig() DebugLogConfig {
	return DebugLogConfig{
		EncounteredErrorLevel:  slog.LevelError,
		IncomingCommandLevel:   slog.LevelInfo,
		IncomingTextLevel:      slog.LevelDebug,
		PromptLevel:            slog.LevelDebug,
		OutboundCommandLevel:   slog.LevelInfo,
		OutboundTextLevel:      slog.LevelDebug,
		TelOptStateChangeLevel: slog.LevelInfo,
		ConnectionLevel:        slog.LevelInfo,
	}
}

// DebugLog writes every terminal event to a slog.Logger
type DebugLog struct {
	logger *slog.Logger
	config DebugLogConfig
}

func NewDebugLog(terminal *mudclient.Terminal, logger *slog.Logger, config DebugLogConfig) *DebugLog {
	log := &DebugLog{logger: logger, config: config}

	terminal.RegisterEncounteredErrorHook(log.logError)
	terminal.RegisterPrinterOutputHook(log.logPrinterOutput)
	terminal.RegisterPromptHook(log.logPrompt)
	terminal.RegisterInboundCommandHook(log.logInboundCommand)
	terminal.RegisterOutboundCommandHook(log.logOutboundCommand)
	terminal.RegisterOutboundTextHook(log.logOutboundText)
	terminal.RegisterTelOptStateChangeHook(log.logStateChange)
	terminal.RegisterConnectionStateHook(log.logConnection)

	return log
}

func (l *DebugLog) log(level slog.Level, msg string, attrs ...slog.Attr) {
	if level == LevelNone {
		return
	}

	l.logger.LogAttrs(context.Background(), level, msg, attrs...)
}

func (l *DebugLog) logError(terminal *mudclient.Terminal, err error) {
	l.log(l.config.EncounteredErrorLevel, "Encountered error", slog.Any("error", err))
}

func (l *DebugLog) logPrinterOutput(terminal *mudclient.Terminal, output render.Output) {
	switch o := output.(type) {
	case render.Run:
		l.log(l.config.IncomingTextLevel, "Received text",
			slog.String("contents", o.Text),
			slog.String("style", o.Style.String()),
		)
	default:
		l.log(l.config.IncomingTextLevel, "Received control", slog.String("contents", output.EscapedString()))
	}
}

func (l *DebugLog) logPrompt(terminal *mudclient.Terminal, prompt mudclient.PromptCommands) {
	l.log(l.config.PromptLevel, "Received prompt", slog.String("command", prompt.String()))
}

func (l *DebugLog) logInboundCommand(terminal *mudclient.Terminal, c telnet.Command) {
	l.log(l.config.IncomingCommandLevel, "Received command", slog.String("command", terminal.CommandString(c)))
}

func (l *DebugLog) logOutboundCommand(terminal *mudclient.Terminal, c telnet.Command) {
	l.log(l.config.OutboundCommandLevel, "Sent command", slog.String("command", terminal.CommandString(c)))
}

func (l *DebugLog) logOutboundText(terminal *mudclient.Terminal, text string) {
	l.log(l.config.OutboundTextLevel, "Sent text", slog.String("contents", text))
}

func (l *DebugLog) logStateChange(terminal *mudclient.Terminal, change telnet.StateChange) {
	l.log(l.config.TelOptStateChangeLevel, "TelOpt State Change",
		slog.String("option", change.Option.String()),
		slog.String("oldState", change.OldState.String()),
		slog.String("newState", change.NewState.String()),
		slog.String("side", change.Side.String()),
	)
}

func (l *DebugLog) logConnection(terminal *mudclient.Terminal, event mudclient.ConnectionEvent) {
	attrs := []slog.Attr{slog.String("state", event.State.String())}
	if event.State == mudclient.ConnectionStateDisconnected {
		attrs = append(attrs, slog.Bool("remote", event.Remote))
	}
	if event.Cause != nil {
		attrs = append(attrs, slog.Any("error", event.Cause))
	}

	l.log(l.config.ConnectionLevel, "Connection", attrs...)
}
