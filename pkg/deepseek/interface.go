package deepseek

import "context"

// IDeepSeek defines the DeepSeek client interface.
type IDeepSeek interface {
	GenerateContent(ctx context.Context, req *Request) (*Response, error)
	Model() string
}
