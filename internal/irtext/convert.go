package irtext

import (
	"fmt"
	"strconv"
	"strings"

	"github.com/lumenvm/lumen/internal/ir"
)

// defaultWordType is the type assigned to a local variable whose first
// mention in the text carries no type annotation — every local here is a
// plain name, typed only at parameters and the return value; EVM words are
// U256 unless a param's declared type says otherwise.
var defaultWordType = ir.IntType{Bits: 256}

// buildFunction converts a parsed FuncDecl into an *ir.Function. Blocks are
// created in a first pass (so forward jump/branch/phi references resolve
// regardless of source order), then populated with instructions in a
// second pass, mirroring how grammar/parser.go in the teacher resolves
// forward-declared symbols.
func buildFunction(decl *FuncDecl) (*ir.Function, error) {
	params := make([]*ir.Parameter, len(decl.Params))
	varTypes := map[string]ir.Type{}
	for i, p := range decl.Params {
		typ, err := convertType(p.Type)
		if err != nil {
			return nil, fmt.Errorf("function %s, param %s: %w", decl.Name, p.Name, err)
		}
		params[i] = &ir.Parameter{Name: p.Name, Type: typ}
		varTypes[p.Name] = typ
	}

	var retType ir.Type
	if decl.Ret != nil {
		t, err := convertType(decl.Ret)
		if err != nil {
			return nil, fmt.Errorf("function %s, return type: %w", decl.Name, err)
		}
		retType = t
	}

	if len(decl.Blocks) == 0 {
		return nil, fmt.Errorf("function %s has no blocks", decl.Name)
	}

	blocks := make([]*ir.BasicBlock, len(decl.Blocks))
	for i, bd := range decl.Blocks {
		blocks[i] = ir.NewBasicBlock(bd.Label)
	}

	fn := ir.NewFunction(decl.Name, blocks[0], blocks)
	fn.Params = params
	fn.ReturnType = retType

	for i, bd := range decl.Blocks {
		if err := populateBlock(blocks[i], bd, varTypes); err != nil {
			return nil, fmt.Errorf("function %s, block %s: %w", decl.Name, bd.Label, err)
		}
	}

	return fn, nil
}

func populateBlock(b *ir.BasicBlock, decl *BlockDecl, varTypes map[string]ir.Type) error {
	for _, id := range decl.Instructions {
		inst, err := convertInstruction(id, varTypes)
		if err != nil {
			return err
		}
		b.AddInstruction(inst)
	}
	return nil
}

func convertInstruction(decl *InstrDecl, varTypes map[string]ir.Type) (*ir.Instruction, error) {
	if decl.Phi != nil {
		return convertPhi(decl.Phi, varTypes)
	}
	return convertGeneric(decl.Generic, varTypes)
}

func convertPhi(decl *PhiInstr, varTypes map[string]ir.Type) (*ir.Instruction, error) {
	output := variableFromRef(decl.Output, varTypes)
	inst := ir.NewPhi(output)
	for _, pair := range decl.Pairs {
		value, err := convertOperand(pair.Value, varTypes)
		if err != nil {
			return nil, fmt.Errorf("phi %s: %w", decl.Output.Name, err)
		}
		inst.AddPhiOperand(&ir.Label{Name: pair.Label}, value)
	}
	return inst, nil
}

func convertGeneric(decl *GenericInstr, varTypes map[string]ir.Type) (*ir.Instruction, error) {
	operands := make([]ir.Operand, len(decl.Operands))
	for i, leaf := range decl.Operands {
		op, err := convertOperand(leaf, varTypes)
		if err != nil {
			return nil, fmt.Errorf("%s: %w", decl.Opcode, err)
		}
		operands[i] = op
	}

	var output *ir.Variable
	if decl.Output != nil {
		output = variableFromRef(decl.Output, varTypes)
	}

	switch ir.Opcode(decl.Opcode) {
	case ir.OpJump:
		if len(decl.Targets) != 1 {
			return nil, fmt.Errorf("jump requires exactly one target, got %d", len(decl.Targets))
		}
		return ir.NewJump(&ir.Label{Name: decl.Targets[0]}), nil

	case ir.OpBranch:
		if len(operands) != 1 {
			return nil, fmt.Errorf("branch requires exactly one condition operand, got %d", len(operands))
		}
		if len(decl.Targets) != 2 {
			return nil, fmt.Errorf("branch requires exactly two targets, got %d", len(decl.Targets))
		}
		return ir.NewBranch(operands[0], &ir.Label{Name: decl.Targets[0]}, &ir.Label{Name: decl.Targets[1]}), nil

	case ir.OpReturn:
		if len(operands) == 0 {
			return ir.NewReturn(nil), nil
		}
		return ir.NewReturn(operands[0]), nil

	case ir.OpRevert:
		return ir.NewRevert(), nil

	default:
		inst := ir.NewInstruction(ir.Opcode(decl.Opcode), operands, output)
		for _, t := range decl.Targets {
			inst.Targets = append(inst.Targets, &ir.Label{Name: t})
		}
		return inst, nil
	}
}

func convertOperand(leaf *OperandLeaf, varTypes map[string]ir.Type) (ir.Operand, error) {
	if leaf.Lit != nil {
		return convertLiteral(leaf.Lit)
	}
	if leaf.Var != nil {
		v := leaf.Var
		version := 0
		if v.Version != nil {
			version = *v.Version
		}
		typ := varTypes[v.Name]
		if typ == nil {
			typ = defaultWordType
			varTypes[v.Name] = typ
		}
		return &ir.Variable{Name: v.Name, Version: version, Type: typ}, nil
	}
	return nil, fmt.Errorf("malformed operand")
}

func convertLiteral(lit *LiteralNode) (ir.Operand, error) {
	switch {
	case lit.Int != nil:
		n, err := strconv.ParseInt(*lit.Int, 10, 64)
		if err != nil {
			return nil, fmt.Errorf("invalid integer literal %q: %w", *lit.Int, err)
		}
		return &ir.Literal{Value: n}, nil
	case lit.Bool != nil:
		return &ir.Literal{Value: *lit.Bool == "true"}, nil
	case lit.Str != nil:
		return &ir.Literal{Value: unquote(*lit.Str)}, nil
	default:
		return nil, fmt.Errorf("malformed literal")
	}
}

func unquote(raw string) string {
	s := strings.TrimPrefix(raw, `"`)
	s = strings.TrimSuffix(s, `"`)
	s = strings.ReplaceAll(s, `\"`, `"`)
	s = strings.ReplaceAll(s, `\\`, `\`)
	return s
}

// variableFromRef builds a Variable from a parsed VarRef, registering its
// type (defaulting to defaultWordType) the first time the name is seen.
func variableFromRef(ref *VarRef, varTypes map[string]ir.Type) *ir.Variable {
	typ := varTypes[ref.Name]
	if typ == nil {
		typ = defaultWordType
		varTypes[ref.Name] = typ
	}
	version := 0
	if ref.Version != nil {
		version = *ref.Version
	}
	return &ir.Variable{Name: ref.Name, Version: version, Type: typ}
}

// convertType resolves a parsed TypeRef into a concrete ir.Type. Names are
// case-sensitive and match internal/ir.Type.String()'s own rendering:
// "U<bits>" for integers, "Bool", "Address", "String", and "Slots<K, V>"
// for storage mappings.
func convertType(ref *TypeRef) (ir.Type, error) {
	switch {
	case ref.Name == "Bool":
		return ir.BoolType{}, nil
	case ref.Name == "Address":
		return ir.AddressType{}, nil
	case ref.Name == "String":
		return ir.StringType{}, nil
	case ref.Name == "Slots":
		if len(ref.Generics) != 2 {
			return nil, fmt.Errorf("Slots requires exactly two type arguments, got %d", len(ref.Generics))
		}
		key, err := convertType(ref.Generics[0])
		if err != nil {
			return nil, err
		}
		val, err := convertType(ref.Generics[1])
		if err != nil {
			return nil, err
		}
		return ir.SlotsType{KeyType: key, ValueType: val}, nil
	case strings.HasPrefix(ref.Name, "U"):
		bits, err := strconv.Atoi(strings.TrimPrefix(ref.Name, "U"))
		if err != nil {
			return nil, fmt.Errorf("unrecognized type %q", ref.Name)
		}
		return ir.IntType{Bits: bits}, nil
	default:
		return nil, fmt.Errorf("unrecognized type %q", ref.Name)
	}
}
