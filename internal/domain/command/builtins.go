package command

import (
	"context"
	"fmt"
	"os"
	"strings"

	"go.uber.org/zap"

	"github.com/GriffinCanCode/webterm/internal/domain/intent"
)

const commandList = "Available Commands:\n ls, pwd, cd, mkdir, rm, sysinfo, clear, help, ai [query]"

var phraseExamples = map[intent.Action]string{
	intent.CreateFolder: "ai create a folder named <name>",
	intent.Delete:       "ai delete the file|folder named <name>",
	intent.Move:         "ai move <source> to <destination>",
}

// pwd reports the process directory, which cd keeps equal to the cursor.
// A mismatch is logged rather than corrected.
func pwd(_ context.Context, d *Dispatcher, _ []string) (Result, error) {
	wd, err := os.Getwd()
	if err != nil {
		return Result{}, err
	}

	if cursor := d.session.Dir(); cursor != wd {
		d.logger.Warn("Process directory diverged from session cursor",
			zap.String("process", wd),
			zap.String("cursor", cursor),
		)
	}
	return Result{Output: wd}, nil
}

// ls lists names directly under the cursor in directory order
func ls(_ context.Context, d *Dispatcher, _ []string) (Result, error) {
	dir, err := os.Open(d.session.Dir())
	if err != nil {
		return Result{}, err
	}
	defer dir.Close()

	names, err := dir.Readdirnames(-1)
	if err != nil {
		return Result{}, err
	}
	return Result{Output: strings.Join(names, "\n")}, nil
}

func cd(_ context.Context, d *Dispatcher, args []string) (Result, error) {
	if len(args) == 0 {
		return Result{}, nil
	}

	dir, err := d.session.ChangeDir(args[0])
	if err != nil {
		return Result{}, err
	}
	return Result{Output: fmt.Sprintf("Changed directory to: %s", dir)}, nil
}

func help(_ context.Context, d *Dispatcher, _ []string) (Result, error) {
	var b strings.Builder
	b.WriteString(commandList)

	if d.translator != nil {
		b.WriteString("\nAI phrases:")
		for _, action := range d.translator.Rules() {
			if example, ok := phraseExamples[action]; ok {
				b.WriteString("\n ")
				b.WriteString(example)
			}
		}
	}
	return Result{Output: b.String()}, nil
}

func sysinfo(ctx context.Context, d *Dispatcher, _ []string) (Result, error) {
	usage, err := d.sampler.Sample(ctx)
	if err != nil {
		return Result{}, err
	}
	return Result{Output: usage.String()}, nil
}
