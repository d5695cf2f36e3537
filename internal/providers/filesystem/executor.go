package filesystem

import (
	"context"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"syscall"

	"go.uber.org/zap"

	"github.com/GriffinCanCode/webterm/internal/domain/intent"
	"github.com/GriffinCanCode/webterm/internal/infrastructure/monitoring"
)

// ErrDestinationExists is returned when a move into a directory would
// replace an entry of the same name
var ErrDestinationExists = errors.New("destination path already exists")

// Outcome is the user-facing result of a filesystem action. Error carries
// expected failures such as a missing delete target; unexpected I/O
// failures are returned as Go errors instead.
type Outcome struct {
	Output string
	Error  string
}

// Executor performs translated intents with OS filesystem calls, never
// through a shell
type Executor struct {
	logger  *zap.Logger
	metrics *monitoring.Metrics

	// rename is swapped in tests to simulate cross-device moves
	rename func(oldpath, newpath string) error
}

// NewExecutor creates an executor. metrics may be nil.
func NewExecutor(logger *zap.Logger, metrics *monitoring.Metrics) *Executor {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &Executor{
		logger:  logger,
		metrics: metrics,
		rename:  os.Rename,
	}
}

// Execute runs in against dir. Relative names are joined onto dir; dir
// itself is never changed.
func (e *Executor) Execute(ctx context.Context, in intent.Intent, dir string) (Outcome, error) {
	var (
		out Outcome
		err error
	)

	switch in.Action {
	case intent.CreateFolder:
		out, err = e.createFolder(in, dir)
	case intent.Delete:
		out, err = e.delete(in, dir)
	case intent.Move:
		out, err = e.move(ctx, in, dir)
	default:
		err = fmt.Errorf("unsupported action %q", in.Action)
	}

	status := "ok"
	switch {
	case err != nil:
		status = "error"
	case out.Error != "":
		status = "not_found"
	}
	if e.metrics != nil {
		e.metrics.RecordFSAction(in.Action.String(), status)
	}
	e.logger.Debug("Filesystem action",
		zap.String("action", in.Action.String()),
		zap.Strings("args", in.Args),
		zap.String("dir", dir),
		zap.String("status", status),
	)

	return out, err
}

func (e *Executor) createFolder(in intent.Intent, dir string) (Outcome, error) {
	name, err := in.Arg(0)
	if err != nil {
		return Outcome{}, err
	}

	if err := os.MkdirAll(join(dir, name), 0o755); err != nil {
		return Outcome{}, fmt.Errorf("create folder %s: %w", name, err)
	}
	return Outcome{Output: fmt.Sprintf("Folder '%s' created successfully.", name)}, nil
}

func (e *Executor) delete(in intent.Intent, dir string) (Outcome, error) {
	name, err := in.Arg(0)
	if err != nil {
		return Outcome{}, err
	}
	path := join(dir, name)

	info, err := os.Stat(path)
	if errors.Is(err, os.ErrNotExist) {
		return Outcome{Error: fmt.Sprintf("Error: '%s' not found.", name)}, nil
	}
	if err != nil {
		return Outcome{}, fmt.Errorf("stat %s: %w", name, err)
	}

	if info.IsDir() {
		if err := os.RemoveAll(path); err != nil {
			return Outcome{}, fmt.Errorf("delete folder %s: %w", name, err)
		}
		return Outcome{Output: fmt.Sprintf("Folder '%s' and its contents deleted successfully.", name)}, nil
	}

	if err := os.Remove(path); err != nil {
		return Outcome{}, fmt.Errorf("delete file %s: %w", name, err)
	}
	return Outcome{Output: fmt.Sprintf("File '%s' deleted successfully.", name)}, nil
}

func (e *Executor) move(ctx context.Context, in intent.Intent, dir string) (Outcome, error) {
	src, err := in.Arg(0)
	if err != nil {
		return Outcome{}, err
	}
	dst, err := in.Arg(1)
	if err != nil {
		return Outcome{}, err
	}

	from := join(dir, src)
	to := join(dir, dst)

	// An existing directory destination receives the source, like mv
	if info, err := os.Stat(to); err == nil && info.IsDir() {
		to = filepath.Join(to, filepath.Base(from))
		if _, err := os.Lstat(to); err == nil {
			return Outcome{}, fmt.Errorf("%w: %s", ErrDestinationExists, to)
		}
	}

	if err := e.rename(from, to); err != nil {
		if !errors.Is(err, syscall.EXDEV) {
			return Outcome{}, fmt.Errorf("move %s to %s: %w", src, dst, err)
		}

		e.logger.Debug("Cross-device move, copying", zap.String("from", from), zap.String("to", to))
		if err := copyTree(ctx, from, to); err != nil {
			return Outcome{}, fmt.Errorf("copy %s to %s: %w", src, dst, err)
		}
		if err := os.RemoveAll(from); err != nil {
			return Outcome{}, fmt.Errorf("remove %s after copy: %w", src, err)
		}
	}

	return Outcome{Output: fmt.Sprintf("Moved '%s' to '%s' successfully.", src, dst)}, nil
}

func join(dir, name string) string {
	if filepath.IsAbs(name) {
		return filepath.Clean(name)
	}
	return filepath.Join(dir, name)
}
