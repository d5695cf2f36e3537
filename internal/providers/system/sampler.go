package system

import (
	"context"
	"errors"
	"fmt"
	"os"
	"runtime"
	"time"

	"github.com/shirou/gopsutil/v4/cpu"
	"github.com/shirou/gopsutil/v4/mem"
	"go.uber.org/zap"

	"github.com/GriffinCanCode/webterm/internal/infrastructure/resilience"
)

// Usage is one CPU and memory utilisation reading, in percent
type Usage struct {
	CPUPercent    float64 `json:"cpu_percent"`
	MemoryPercent float64 `json:"memory_percent"`
}

// String renders the reading the way the sysinfo command prints it
func (u Usage) String() string {
	return fmt.Sprintf("CPU: %.1f%% | Memory: %.1f%%", u.CPUPercent, u.MemoryPercent)
}

// Sampler reads host utilisation. CPU is measured across interval, so
// Sample blocks for at least that long. After repeated read failures the
// breaker opens and Sample fails fast until the cooldown passes.
type Sampler struct {
	interval time.Duration
	breaker  *resilience.Breaker
	read     func(ctx context.Context, interval time.Duration) (Usage, error)
}

// NewSampler creates a sampler. A non-positive interval defaults to one second.
func NewSampler(interval time.Duration, logger *zap.Logger) *Sampler {
	if interval <= 0 {
		interval = time.Second
	}
	if logger == nil {
		logger = zap.NewNop()
	}

	breaker := resilience.New("sysinfo", resilience.Settings{
		OnStateChange: func(name string, from, to resilience.State) {
			logger.Warn("Circuit breaker state changed",
				zap.String("breaker", name),
				zap.Stringer("from", from),
				zap.Stringer("to", to),
			)
		},
	})

	return &Sampler{interval: interval, breaker: breaker, read: readUsage}
}

// Interval returns the CPU sampling window
func (s *Sampler) Interval() time.Duration {
	return s.interval
}

// Sample measures CPU over the sampling window, then reads memory
func (s *Sampler) Sample(ctx context.Context) (Usage, error) {
	usage, err := resilience.Do(s.breaker, func() (Usage, error) {
		return s.read(ctx, s.interval)
	})
	if errors.Is(err, resilience.ErrCircuitOpen) || errors.Is(err, resilience.ErrTooManyRequests) {
		return Usage{}, fmt.Errorf("%s unavailable: %w", s.breaker.Name(), err)
	}
	return usage, err
}

func readUsage(ctx context.Context, interval time.Duration) (Usage, error) {
	percents, err := cpu.PercentWithContext(ctx, interval, false)
	if err != nil {
		return Usage{}, fmt.Errorf("failed to sample cpu: %w", err)
	}
	if len(percents) == 0 {
		return Usage{}, fmt.Errorf("failed to sample cpu: no readings")
	}

	vm, err := mem.VirtualMemoryWithContext(ctx)
	if err != nil {
		return Usage{}, fmt.Errorf("failed to read memory: %w", err)
	}

	return Usage{CPUPercent: percents[0], MemoryPercent: vm.UsedPercent}, nil
}

// Info describes the process and host, for health reporting
type Info struct {
	GoVersion  string `json:"go_version"`
	OS         string `json:"os"`
	Arch       string `json:"arch"`
	CPUs       int    `json:"cpus"`
	Goroutines int    `json:"goroutines"`
	PID        int    `json:"pid"`
	Hostname   string `json:"hostname,omitempty"`
}

// Runtime reports static process facts plus the current goroutine count
func Runtime() Info {
	host, _ := os.Hostname()
	return Info{
		GoVersion:  runtime.Version(),
		OS:         runtime.GOOS,
		Arch:       runtime.GOARCH,
		CPUs:       runtime.NumCPU(),
		Goroutines: runtime.NumGoroutine(),
		PID:        os.Getpid(),
		Hostname:   host,
	}
}
