package ir

// Session owns the modules loaded for one run of the query tool. It is
// built once and then only read, so a single session may serve concurrent
// queries.
type Session struct {
	modules []*Module
}

// NewSession creates a session over already-linked modules, kept in the
// given order.
func NewSession(modules ...*Module) *Session {
	return &Session{modules: modules}
}

// Modules returns the modules in load order.
func (s *Session) Modules() []*Module {
	if s == nil {
		return nil
	}
	return s.modules
}

// NumInstructions counts the instructions across all modules.
func (s *Session) NumInstructions() int {
	n := 0
	for _, m := range s.Modules() {
		for _, f := range m.functions {
			for _, b := range f.blocks {
				n += len(b.insts)
			}
		}
	}
	return n
}
