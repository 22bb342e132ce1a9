package pipeline

import (
	"context"

	"github.com/hupe1980/shadercache/compiler"
)

// Pipeline is a GPU pipeline built from one or more shader stages.
type Pipeline interface {
	// Name identifies the pipeline in the registry.
	Name() string
	// Sources lists the stage source paths.
	Sources() []string
	// Rebuild replaces the pipeline's stages. stages maps each source path to
	// its bytecode and always holds every path returned by Sources.
	Rebuild(stages map[string][]byte) error
}

// Compiler produces bytecode for a source path.
// *compiler.Cached implements it.
type Compiler interface {
	Compile(ctx context.Context, path string) (compiler.Result, error)
}

var _ Compiler = (*compiler.Cached)(nil)
