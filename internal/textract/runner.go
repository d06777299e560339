package textract

import (
	"bytes"
	"context"
	"log"
	"os/exec"
	"strings"
	"time"
)

// Runner executes an external command. Tests substitute a scripted implementation.
type Runner interface {
	Run(ctx context.Context, stdin []byte, name string, args ...string) (stdout, stderr []byte, err error)
}

// ExecRunner runs commands with os/exec.
type ExecRunner struct{}

func (ExecRunner) Run(ctx context.Context, stdin []byte, name string, args ...string) ([]byte, []byte, error) {
	start := time.Now()

	cmd := exec.CommandContext(ctx, name, args...)
	if stdin != nil {
		cmd.Stdin = bytes.NewReader(stdin)
	}
	var out, errb bytes.Buffer
	cmd.Stdout = &out
	cmd.Stderr = &errb

	err := cmd.Run()
	if err != nil {
		log.Printf("textract.ExecRunner: %s %s failed after %dms: %v (stderr: %s)",
			name, strings.Join(args, " "), time.Since(start).Milliseconds(), err, truncate(errb.String(), 2048))
	}
	return out.Bytes(), errb.Bytes(), err
}

func truncate(s string, max int) string {
	if len(s) <= max {
		return s
	}
	return s[:max] + "...(truncated)"
}
