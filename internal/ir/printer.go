package ir

import (
	"fmt"
	"strings"
)

// Printer renders a Function as the textual IR form internal/irtext
// parses back in, matching the teacher's Printer conventions: an indent
// stack, a strings.Builder sink, and writeLine/write helpers.
type Printer struct {
	indent int
	output strings.Builder
}

func NewPrinter() *Printer {
	return &Printer{}
}

// Print renders fn to its textual form.
func Print(fn *Function) string {
	p := NewPrinter()
	p.printFunction(fn)
	return p.output.String()
}

func (p *Printer) writeIndent() {
	for i := 0; i < p.indent; i++ {
		p.output.WriteString("  ")
	}
}

func (p *Printer) writeLine(format string, args ...any) {
	p.writeIndent()
	p.output.WriteString(fmt.Sprintf(format, args...))
	p.output.WriteString("\n")
}

// printFunction prints an SSA (or pre-SSA) function.
func (p *Printer) printFunction(fn *Function) {
	params := make([]string, len(fn.Params))
	for i, param := range fn.Params {
		params[i] = fmt.Sprintf("%s: %s", param.Name, param.Type.String())
	}
	ret := ""
	if fn.ReturnType != nil {
		ret = " -> " + fn.ReturnType.String()
	}
	p.writeLine("fn %s(%s)%s {", fn.Name, strings.Join(params, ", "), ret)
	p.indent++
	for _, b := range fn.Blocks {
		p.printBlock(b)
	}
	p.indent--
	p.writeLine("}")
}

func (p *Printer) printBlock(b *BasicBlock) {
	preds := blockNames(b.CfgIn)
	succs := blockNames(b.CfgOut)
	p.writeLine("%%%s:  ; preds = [%s], succs = [%s]", b.Label, strings.Join(preds, ", "), strings.Join(succs, ", "))
	p.indent++
	for _, inst := range b.Instructions {
		p.printInstruction(inst)
	}
	p.indent--
}

func blockNames(blocks []*BasicBlock) []string {
	names := make([]string, len(blocks))
	for i, b := range blocks {
		names[i] = b.Label
	}
	return names
}

func (p *Printer) printInstruction(inst *Instruction) {
	switch inst.Opcode {
	case OpPhi:
		p.printPhi(inst)
	default:
		p.printGeneric(inst)
	}
}

func (p *Printer) printPhi(inst *Instruction) {
	pairs := inst.PhiOperands()
	parts := make([]string, len(pairs))
	for i, pair := range pairs {
		parts[i] = fmt.Sprintf("%s: %s", pair.Label.String(), pair.Value.String())
	}
	p.writeLine("%s = phi %s", inst.Output.String(), strings.Join(parts, ", "))
}

func (p *Printer) printGeneric(inst *Instruction) {
	operands := make([]string, len(inst.Operands))
	for i, op := range inst.Operands {
		operands[i] = op.String()
		if lit, ok := op.(*Literal); ok {
			if s, ok := lit.Value.(string); ok {
				operands[i] = `"` + strings.ReplaceAll(strings.ReplaceAll(s, `\`, `\\`), `"`, `\"`) + `"`
			}
		}
	}
	line := string(inst.Opcode) + " " + strings.Join(operands, ", ")
	if len(inst.Targets) > 0 {
		targets := make([]string, len(inst.Targets))
		for i, target := range inst.Targets {
			targets[i] = target.String()
		}
		line += " -> " + strings.Join(targets, ", ")
	}
	if inst.Output != nil {
		p.writeLine("%s = %s", inst.Output.String(), strings.TrimSpace(line))
		return
	}
	p.writeLine("%s", strings.TrimSpace(line))
}
