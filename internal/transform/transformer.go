package transform

import (
	"bytes"
	"context"
	"fmt"

	"github.com/tdewolff/minify/v2"
	"github.com/tdewolff/minify/v2/js"
)

// mediaType is the media type the engine is registered under.
const mediaType = "application/javascript"

// Transformer rewrites script source. Implementations must be safe for
// concurrent use: every selected file calls Transform from its own goroutine.
type Transformer interface {
	Transform(ctx context.Context, src []byte, opts Options) ([]byte, error)
}

// TransformerFunc adapts a function to the Transformer interface.
type TransformerFunc func(ctx context.Context, src []byte, opts Options) ([]byte, error)

// Transform calls f.
func (f TransformerFunc) Transform(ctx context.Context, src []byte, opts Options) ([]byte, error) {
	return f(ctx, src, opts)
}

// MinifyTransformer delegates to the tdewolff/minify JavaScript engine.
// The zero value is ready to use.
type MinifyTransformer struct{}

// NewMinifyTransformer returns the engine-backed transformer.
func NewMinifyTransformer() *MinifyTransformer {
	return &MinifyTransformer{}
}

// Transform runs the engine over src with opts. The output for a given
// input and option set is deterministic.
func (t *MinifyTransformer) Transform(ctx context.Context, src []byte, opts Options) ([]byte, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}

	m := minify.New()
	m.Add(mediaType, &js.Minifier{
		KeepVarNames: opts.KeepVarNames,
		Precision:    opts.Precision,
		Version:      opts.Version,
	})

	var out bytes.Buffer
	out.Grow(len(src))
	if err := m.Minify(mediaType, &out, bytes.NewReader(src)); err != nil {
		return nil, fmt.Errorf("transform script: %w", err)
	}
	return out.Bytes(), nil
}
