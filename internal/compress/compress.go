package compress

import (
	"context"
	"fmt"
	"sync"

	"github.com/qmuntal/gltf"
	"go.uber.org/zap"

	"github.com/Faultbox/meshforge/internal/config"
	"github.com/Faultbox/meshforge/internal/document"
	"github.com/Faultbox/meshforge/internal/logger"
)

// Method names for Result.Method.
const (
	MethodExternal = "external"
	MethodFallback = "fallback"
)

// Result is the final compression output.
type Result struct {
	Buffer []byte
	Method string
}

// Compressor dispatches compression to the external binary with the
// in-process fallback behind it.
type Compressor struct {
	cfg config.CompressorConfig
}

func New(cfg config.CompressorConfig) *Compressor {
	return &Compressor{cfg: cfg}
}

var (
	warmOnce sync.Once
	warmErr  error
)

// EnsureReady runs the one-time codec warm-up: encoding a trivial
// document pulls the serializer through its lazy initialization so the
// first real asset does not pay for it. The result is cached; repeat
// calls are free.
func EnsureReady() error {
	warmOnce.Do(func() {
		doc := &gltf.Document{Asset: gltf.Asset{Version: "2.0"}}
		if _, err := document.WriteBinary(doc); err != nil {
			warmErr = fmt.Errorf("codec warm-up: %w", err)
		}
	})
	return warmErr
}

// Compress runs the external compressor on input, falling back to the
// in-process path when the binary is unavailable, exits non-zero, or
// overruns its deadline. An error is returned only when the fallback
// fails as well.
func (c *Compressor) Compress(ctx context.Context, input []byte, skinned bool) (*Result, error) {
	if err := EnsureReady(); err != nil {
		return nil, err
	}

	out, err := c.runExternal(ctx, input, skinned)
	if err == nil {
		return &Result{Buffer: out, Method: MethodExternal}, nil
	}
	if ctx.Err() == context.Canceled {
		return nil, ctx.Err()
	}
	logger.Warn("external compressor unavailable, using fallback",
		zap.String("binary", c.cfg.BinaryPath),
		zap.Error(err))

	out, fbErr := c.Fallback(input)
	if fbErr != nil {
		return nil, fmt.Errorf("external compressor failed (%v) and fallback failed: %w", err, fbErr)
	}
	return &Result{Buffer: out, Method: MethodFallback}, nil
}
