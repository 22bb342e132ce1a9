package compiler

import (
	"context"
	"fmt"

	"github.com/gogpu/naga"
	"github.com/gogpu/naga/spirv"
)

// WGSL compiles WGSL source to SPIR-V.
type WGSL struct {
	opts naga.CompileOptions
}

// WGSLOption configures a WGSL compiler.
type WGSLOption func(*naga.CompileOptions)

// WithDebugInfo emits OpName/OpLine debug instructions.
func WithDebugInfo() WGSLOption {
	return func(o *naga.CompileOptions) {
		o.Debug = true
	}
}

// WithoutValidation skips IR validation before code generation.
func WithoutValidation() WGSLOption {
	return func(o *naga.CompileOptions) {
		o.Validate = false
	}
}

// WithSPIRVVersion selects the SPIR-V version to target.
func WithSPIRVVersion(v spirv.Version) WGSLOption {
	return func(o *naga.CompileOptions) {
		o.SPIRVVersion = v
	}
}

// NewWGSL returns a WGSL compiler using naga's defaults (SPIR-V 1.3, validation on).
func NewWGSL(optFns ...WGSLOption) *WGSL {
	opts := naga.DefaultOptions()
	for _, fn := range optFns {
		fn(&opts)
	}
	return &WGSL{opts: opts}
}

// Compile implements Compiler.
func (w *WGSL) Compile(ctx context.Context, path string, source []byte) ([]byte, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	out, err := naga.CompileWithOptions(string(source), w.opts)
	if err != nil {
		return nil, fmt.Errorf("compile %s: %w", path, err)
	}
	return out, nil
}
