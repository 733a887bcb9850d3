package irtext

import (
	"errors"
	"fmt"
)

// ErrBitcode is returned for .bc inputs; only textual IR is read.
var ErrBitcode = errors.New("bitcode modules are not supported, disassemble with llvm-dis first")

// SyntaxError reports malformed textual IR.
type SyntaxError struct {
	File    string
	Line    int
	Column  int
	Message string
}

func (e *SyntaxError) Error() string {
	if e.File == "" {
		return fmt.Sprintf("%d:%d: %s", e.Line, e.Column, e.Message)
	}
	return fmt.Sprintf("%s:%d:%d: %s", e.File, e.Line, e.Column, e.Message)
}
