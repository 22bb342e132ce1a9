package compiler

import "context"

// Compiler turns shader source into bytecode.
// Implementations must be safe for concurrent use.
type Compiler interface {
	Compile(ctx context.Context, path string, source []byte) ([]byte, error)
}

// CompilerFunc adapts a function to the Compiler interface.
type CompilerFunc func(ctx context.Context, path string, source []byte) ([]byte, error)

// Compile calls f.
func (f CompilerFunc) Compile(ctx context.Context, path string, source []byte) ([]byte, error) {
	return f(ctx, path, source)
}
