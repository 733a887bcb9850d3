package ir

// Module is one parsed IR file.
type Module struct {
	Name           string // path the module was loaded from
	SourceFilename string
	functions      []*Function
	globals        []*Value
}

// NewModule creates an empty module.
func NewModule(name string) *Module {
	return &Module{Name: name}
}

// Functions returns defined and declared functions in source order.
func (m *Module) Functions() []*Function { return m.functions }

// Globals returns global variables in source order.
func (m *Module) Globals() []*Value { return m.globals }

// AddFunction appends a function.
func (m *Module) AddFunction(f *Function) {
	f.module = m
	m.functions = append(m.functions, f)
}

// AddGlobal appends a global variable.
func (m *Module) AddGlobal(g *Value) {
	m.globals = append(m.globals, g)
}

// Function returns the function with the given name, or nil.
func (m *Module) Function(name string) *Function {
	for _, f := range m.functions {
		if f.Name() == name {
			return f
		}
	}
	return nil
}

// Link builds the use-lists of every value referenced by an instruction.
// It must be called once, after all operands are final.
func (m *Module) Link() {
	for _, f := range m.functions {
		for _, b := range f.blocks {
			for _, inst := range b.insts {
				for i, op := range inst.operands {
					if op == nil {
						continue
					}
					switch op.kind {
					case KindInstruction, KindArgument, KindBasicBlock,
						KindFunction, KindGlobalVariable:
						op.addUse(inst, i)
					}
				}
			}
		}
	}
}

// Function is a defined or declared function.
type Function struct {
	value   *Value
	params  []*Value
	blocks  []*Block
	ret     *Type
	module  *Module
	declare bool
}

// NewFunction creates a function symbol. A declaration has no blocks.
func NewFunction(name string, ret *Type, params []*Value, declaration bool) *Function {
	f := &Function{
		value:   &Value{kind: KindFunction, name: name, typ: PointerType(0)},
		params:  params,
		ret:     ret,
		declare: declaration,
	}
	f.value.intrinsic = LookupIntrinsicID(name)
	return f
}

func (f *Function) Name() string { return f.value.name }

// Value is the function's symbol as an operand.
func (f *Function) Value() *Value { return f.value }

func (f *Function) Params() []*Value  { return f.params }
func (f *Function) Blocks() []*Block  { return f.blocks }
func (f *Function) ReturnType() *Type { return f.ret }
func (f *Function) Module() *Module   { return f.module }

// IsDeclaration reports whether the function has no body.
func (f *Function) IsDeclaration() bool { return f.declare }

// IsIntrinsic reports whether the function is an llvm.* intrinsic.
func (f *Function) IsIntrinsic() bool { return f.value.intrinsic != 0 }

// AddBlock appends a basic block.
func (f *Function) AddBlock(b *Block) {
	b.parent = f
	f.blocks = append(f.blocks, b)
}

// Block is a basic block.
type Block struct {
	value  *Value
	insts  []*Value
	parent *Function
}

// NewBlock creates a basic block. Unnamed (numbered or implicit entry)
// blocks have an empty name.
func NewBlock(name string) *Block {
	b := &Block{value: &Value{kind: KindBasicBlock, name: name, typ: LabelType()}}
	b.value.block = b
	return b
}

func (b *Block) Name() string { return b.value.name }

// Value is the block as a label operand.
func (b *Block) Value() *Value { return b.value }

func (b *Block) Instructions() []*Value { return b.insts }
func (b *Block) Parent() *Function      { return b.parent }

// Append adds an instruction at the end of the block.
func (b *Block) Append(inst *Value) {
	inst.block = b
	b.insts = append(b.insts, inst)
}
