package command

import (
	"context"
	"errors"
	"fmt"
	"runtime/debug"
	"strings"

	"go.uber.org/zap"

	"github.com/GriffinCanCode/webterm/internal/domain/intent"
	"github.com/GriffinCanCode/webterm/internal/domain/session"
	"github.com/GriffinCanCode/webterm/internal/infrastructure/monitoring"
	"github.com/GriffinCanCode/webterm/internal/infrastructure/tracing"
	"github.com/GriffinCanCode/webterm/internal/providers/filesystem"
	"github.com/GriffinCanCode/webterm/internal/providers/system"
	"github.com/GriffinCanCode/webterm/internal/shared/id"
)

// aiPrefix marks a natural-language request
const aiPrefix = "ai "

// Command kinds, used as log fields and metric labels
const (
	KindEmpty   = "empty"
	KindAI      = "ai"
	KindShell   = "shell"
	KindPwd     = "pwd"
	KindLs      = "ls"
	KindCd      = "cd"
	KindHelp    = "help"
	KindSysinfo = "sysinfo"
)

// ErrNoCommand is reported for blank input
var ErrNoCommand = errors.New("No command provided")

// Translator turns free text into an intent
type Translator interface {
	Translate(text string) intent.Intent
	Rules() []intent.Action
}

// ActionExecutor performs a translated intent relative to a directory
type ActionExecutor interface {
	Execute(ctx context.Context, in intent.Intent, dir string) (filesystem.Outcome, error)
}

// ShellRunner runs a raw command line that no built-in handles
type ShellRunner interface {
	Run(ctx context.Context, raw, dir string) (stdout, stderr string, err error)
}

// Sampler reads CPU and memory utilisation
type Sampler interface {
	Sample(ctx context.Context) (system.Usage, error)
}

// Dependencies wires a Dispatcher. Logger, Metrics and Tracer are optional.
type Dependencies struct {
	Session    *session.State
	Translator Translator
	Executor   ActionExecutor
	Shell      ShellRunner
	Sampler    Sampler
	Logger     *zap.Logger
	Metrics    *monitoring.Metrics
	Tracer     *tracing.Tracer
}

type builtin func(ctx context.Context, d *Dispatcher, args []string) (Result, error)

// Dispatcher classifies a command line and routes it to the translator,
// a built-in, or the shell fallback
type Dispatcher struct {
	session    *session.State
	translator Translator
	executor   ActionExecutor
	shell      ShellRunner
	sampler    Sampler
	logger     *zap.Logger
	metrics    *monitoring.Metrics
	tracer     *tracing.Tracer
	builtins   map[string]builtin
}

// NewDispatcher creates a dispatcher
func NewDispatcher(deps Dependencies) *Dispatcher {
	logger := deps.Logger
	if logger == nil {
		logger = zap.NewNop()
	}

	return &Dispatcher{
		session:    deps.Session,
		translator: deps.Translator,
		executor:   deps.Executor,
		shell:      deps.Shell,
		sampler:    deps.Sampler,
		logger:     logger,
		metrics:    deps.Metrics,
		tracer:     deps.Tracer,
		builtins: map[string]builtin{
			KindPwd:     pwd,
			KindLs:      ls,
			KindCd:      cd,
			KindHelp:    help,
			KindSysinfo: sysinfo,
		},
	}
}

// Dispatch executes one command line. It never panics and never fails:
// every problem is reported through Result.Error.
func (d *Dispatcher) Dispatch(ctx context.Context, raw string) (res Result) {
	line := strings.TrimSpace(raw)
	kind := KindEmpty
	cmdID := id.NewCommandID()
	timer := monitoring.NewTimer(d.metrics, kind)

	var span *tracing.Span
	if d.tracer != nil {
		span, ctx = d.tracer.StartSpan(ctx, "command.dispatch")
	}

	defer func() {
		if r := recover(); r != nil {
			d.logger.Error("Command handler panicked",
				zap.Stringer("command_id", cmdID),
				zap.String("kind", kind),
				zap.Any("panic", r),
				zap.ByteString("stack", debug.Stack()),
			)
			res = unexpected(res, fmt.Errorf("%v", r))
		}
		timer.SetKind(kind)
		d.finish(ctx, span, timer, cmdID, kind, res)
	}()

	if line == "" {
		return Result{Error: ErrNoCommand.Error()}
	}

	if len(line) >= len(aiPrefix) && strings.EqualFold(line[:len(aiPrefix)], aiPrefix) {
		kind = KindAI
		return d.dispatchAI(ctx, line[len(aiPrefix):], &res)
	}

	args, err := Tokenize(line)
	if err != nil {
		kind = KindShell
		return unexpected(Result{}, err)
	}

	name := ""
	if len(args) > 0 {
		name = strings.ToLower(args[0])
	}

	handler, ok := d.builtins[name]
	if !ok {
		kind = KindShell
		return d.dispatchShell(ctx, line)
	}

	kind = name
	res, err = handler(ctx, d, args[1:])
	if err != nil {
		return unexpected(res, err)
	}
	return res
}

// dispatchAI writes into partial as it goes so a panic in the executor
// still reports the translation label.
func (d *Dispatcher) dispatchAI(ctx context.Context, query string, partial *Result) Result {
	in := d.translator.Translate(query)
	if d.metrics != nil {
		d.metrics.RecordTranslation(in.Action.String())
	}

	if !in.Matched() {
		return Result{
			Error:       fmt.Sprintf("AI could not understand: '%s'", query),
			Translation: label("Understanding failed"),
		}
	}

	partial.Translation = label(in.Label)

	out, err := d.executor.Execute(ctx, in, d.session.Dir())
	res := Result{Output: out.Output, Error: out.Error, Translation: partial.Translation}
	if err != nil {
		return unexpected(res, err)
	}
	return res
}

func (d *Dispatcher) dispatchShell(ctx context.Context, line string) Result {
	stdout, stderr, err := d.shell.Run(ctx, line, d.session.Dir())
	res := Result{Output: stdout, Error: stderr}
	if err != nil {
		return unexpected(res, err)
	}
	return res
}

func (d *Dispatcher) finish(ctx context.Context, span *tracing.Span, timer *monitoring.Timer, cmdID id.CommandID, kind string, res Result) {
	status := "ok"
	if res.Failed() {
		status = "error"
	}
	elapsed := timer.Stop(status)

	fields := []zap.Field{
		zap.Stringer("command_id", cmdID),
		zap.String("kind", kind),
		zap.String("status", status),
		zap.Duration("duration", elapsed),
	}
	if traceID := tracing.GetTraceID(ctx); traceID != "" {
		fields = append(fields, zap.String("trace_id", traceID.String()))
	}
	if res.Translation != nil {
		fields = append(fields, zap.String("translation", *res.Translation))
	}
	d.logger.Info("Command dispatched", fields...)

	if span != nil {
		span.SetTag("command.id", cmdID.String())
		span.SetTag("command.kind", kind)
		span.SetTag("command.status", status)
		span.Finish()
		d.tracer.Submit(span)
	}
}
