// internal/llm/provider.go
package llm

import "context"

// Provider is the single seam to a language model. Implementations return the
// raw completion text; interpreting it is the parser's job, so a malformed
// completion is not an error here.
type Provider interface {
	Complete(ctx context.Context, prompt string) (string, error)
	Close() error
}
