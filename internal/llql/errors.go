package llql

import (
	"fmt"

	"github.com/roach88/llql/internal/queryir"
)

// SyntaxError reports malformed query text.
type SyntaxError struct {
	Pos     queryir.Pos
	Message string
}

func (e *SyntaxError) Error() string {
	return fmt.Sprintf("%d:%d: %s", e.Pos.Line, e.Pos.Column, e.Message)
}
