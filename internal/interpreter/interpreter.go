// Package interpreter defines the external AI-analysis collaborator.
package interpreter

import "context"

// Interpreter produces an interpretation for a dream description.
type Interpreter interface {
	Interpret(ctx context.Context, dreamText string) (string, error)
}
