package gemini

import "context"

// IGemini defines the Gemini client interface.
// Implementations are safe for concurrent use.
type IGemini interface {
	GenerateContent(ctx context.Context, req *Request) (*Response, error)
	Model() string
}
