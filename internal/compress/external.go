package compress

import (
	"context"
	"fmt"
	"os"
	"os/exec"
	"path/filepath"
	"time"

	"go.uber.org/zap"

	"github.com/Faultbox/meshforge/internal/logger"
)

// killGrace is how long a compressor that ignored cancellation gets
// before it is killed outright.
const killGrace = 2 * time.Second

// runExternal invokes the configured compressor binary on input inside
// a scratch directory and returns the compressed bytes. Any non-zero
// exit, unreadable output, or deadline overrun is an error; the caller
// decides whether to fall back.
func (c *Compressor) runExternal(ctx context.Context, input []byte, skinned bool) ([]byte, error) {
	dir, err := os.MkdirTemp(c.cfg.WorkDir, "meshforge-*")
	if err != nil {
		return nil, fmt.Errorf("creating scratch dir: %w", err)
	}
	defer os.RemoveAll(dir)

	inPath := filepath.Join(dir, "input.glb")
	outPath := filepath.Join(dir, "output.glb")
	if err := os.WriteFile(inPath, input, 0o644); err != nil {
		return nil, fmt.Errorf("writing scratch input: %w", err)
	}

	ctx, cancel := context.WithTimeout(ctx, c.cfg.Timeout)
	defer cancel()

	args := append(Flags(Tier(c.cfg.Tier), skinned), "-i", inPath, "-o", outPath)
	cmd := exec.CommandContext(ctx, c.cfg.BinaryPath, args...)
	cmd.WaitDelay = killGrace
	cmd.Dir = dir

	start := time.Now()
	combined, err := cmd.CombinedOutput()
	if err != nil {
		if ctx.Err() == context.DeadlineExceeded {
			return nil, fmt.Errorf("compressor exceeded %s deadline", c.cfg.Timeout)
		}
		return nil, fmt.Errorf("compressor failed: %w (output: %s)", err, truncate(combined))
	}

	out, err := os.ReadFile(outPath)
	if err != nil {
		return nil, fmt.Errorf("compressor exited clean but output missing: %w", err)
	}
	if len(out) == 0 {
		return nil, fmt.Errorf("compressor produced an empty file")
	}

	logger.Debug("external compression finished",
		zap.String("binary", c.cfg.BinaryPath),
		zap.Duration("took", time.Since(start)),
		zap.Int("inBytes", len(input)),
		zap.Int("outBytes", len(out)))
	return out, nil
}

func truncate(b []byte) string {
	const max = 256
	if len(b) > max {
		return string(b[:max]) + "..."
	}
	return string(b)
}
