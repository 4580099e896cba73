package irtext

// File is the root production: zero or more function definitions.
type File struct {
	Functions []*FuncDecl `@@*`
}

// FuncDecl mirrors the shape internal/ir.Printer renders: a name, a
// parameter list, an optional return type, and a brace-delimited sequence
// of blocks.
type FuncDecl struct {
	Name   string       `"fn" @Ident "("`
	Params []*Param     `[ @@ { "," @@ } ] ")"`
	Ret    *TypeRef     `[ "->" @@ ]`
	Blocks []*BlockDecl `"{" @@* "}"`
}

type Param struct {
	Name string  `@Ident ":"`
	Type *TypeRef `@@`
}

// TypeRef names a type, with an optional generic argument list — the same
// shape grammar.Type uses for the contract surface language, generalized
// here to cover Slots<K, V>. Tuple types have no textual form here.
type TypeRef struct {
	Name     string     `@Ident`
	Generics []*TypeRef `[ "<" @@ { "," @@ } ">" ]`
}

// BlockDecl is one basic block: a "%"-prefixed label followed by its
// instructions in program order.
type BlockDecl struct {
	Label        string       `"%" @Ident ":"`
	Instructions []*InstrDecl `@@*`
}

// InstrDecl is the phi/non-phi instruction sum type, disambiguated by the
// literal "phi" keyword immediately after "=" — everything else falls
// through to GenericInstr.
type InstrDecl struct {
	Phi     *PhiInstr     `  @@`
	Generic *GenericInstr `| @@`
}

// PhiInstr is "out = phi L1: v1, L2: v2, ...". Output carries an optional
// version (out.N) so this grammar can re-parse a Printer dump of a
// function that has already gone through SSA renaming, not just pre-SSA
// source.
type PhiInstr struct {
	Output *VarRef        `@@ "=" "phi"`
	Pairs  []*PhiPairNode `@@ { "," @@ }`
}

type PhiPairNode struct {
	Label string       `@Ident ":"`
	Value *OperandLeaf `@@`
}

// GenericInstr covers every non-phi instruction: an optional output
// (itself optionally versioned, for the same reason as PhiInstr.Output),
// an opcode, an operand list, and an optional "-> target, target" suffix
// for terminators.
type GenericInstr struct {
	Output   *VarRef        `[ @@ "=" ]`
	Opcode   string         `@Ident`
	Operands []*OperandLeaf `[ @@ { "," @@ } ]`
	Targets  []string       `[ "->" @Ident { "," @Ident } ]`
}

// OperandLeaf is Variable | Literal. Literal is tried first: "true" and
// "false" lex as Ident tokens a bare VarRef would otherwise also accept,
// so literal forms must win the alternative before falling back to
// treating the token as a variable name.
type OperandLeaf struct {
	Lit *LiteralNode `  @@`
	Var *VarRef      `| @@`
}

type VarRef struct {
	Name    string `@Ident`
	Version *int   `[ "." @Integer ]`
}

type LiteralNode struct {
	Int  *string `  @Integer`
	Bool *string `| @("true" | "false")`
	Str  *string `| @String`
}
