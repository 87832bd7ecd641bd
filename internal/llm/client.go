// Package llm wraps the external text-generation collaborator. The
// core only depends on the Client interface; authentication, retry and
// rate limiting are the collaborator's concern, not ours.
package llm

import "context"

// Client generates a structured report from a prompt. The returned
// string must be the model's raw JSON payload; the report assembler
// owns parsing and validation.
type Client interface {
	GenerateReport(ctx context.Context, prompt string) (string, error)
}
