// Package dis supports analysis of compiled bytecode by disassembling it.
// This works with the opcodes defined in the `op` package and the chunks
// produced by the compiler.
package dis

import (
	"encoding/json"
	"fmt"
	"io"
	"strconv"
	"strings"

	"github.com/fatih/color"
	"github.com/hokaccha/go-prettyjson"
	"github.com/jedib0t/go-pretty/v6/table"
	"github.com/jedib0t/go-pretty/v6/text"

	"github.com/magnum-lang/magnum/object"
	"github.com/magnum-lang/magnum/op"
)

// Instruction represents a single bytecode instruction and its operands.
type Instruction struct {
	Offset     int           `json:"offset"`
	Line       int           `json:"line"`
	Name       string        `json:"opcode"`
	Opcode     op.Code       `json:"-"`
	Operands   []int         `json:"operands,omitempty"`
	Annotation string        `json:"info,omitempty"`
	Constant   object.Object `json:"constant,omitempty"`
}

// Disassemble returns a parsed representation of the given chunk.
func Disassemble(chunk *object.Chunk) ([]Instruction, error) {
	var instructions []Instruction
	code := chunk.Code
	for offset := 0; offset < len(code); {
		opcode := code[offset]
		info := op.GetInfo(opcode)
		if info.Name == "" {
			return nil, fmt.Errorf("unknown opcode %d at offset %d", opcode, offset)
		}
		width := opcode.Width()
		if offset+width > len(code) {
			return nil, fmt.Errorf("truncated %s instruction at offset %d", info.Name, offset)
		}
		instr := Instruction{
			Offset: offset,
			Line:   chunk.Line(offset),
			Name:   info.Name,
			Opcode: opcode,
		}
		switch info.OperandWidth {
		case 1:
			instr.Operands = []int{int(code[offset+1])}
		case 2:
			instr.Operands = []int{chunk.ReadUint16(offset + 1)}
		}

		var err error
		switch opcode {
		case op.LoadConst:
			instr.Constant, err = constantAt(chunk, instr.Operands[0])
			if err == nil {
				instr.Annotation = formatConstant(instr.Constant)
			}
		case op.LoadGlobal, op.StoreGlobal, op.DeclareGlobal:
			var name object.Object
			name, err = constantAt(chunk, instr.Operands[0])
			if err == nil {
				instr.Annotation = name.Inspect()
			}
		case op.LoadFast, op.StoreFast:
			instr.Annotation = fmt.Sprintf("slot %d", instr.Operands[0])
		case op.BinaryOp:
			instr.Annotation = op.BinaryOpType(instr.Operands[0]).String()
		case op.CompareOp:
			instr.Annotation = op.CompareOpType(instr.Operands[0]).String()
		case op.JumpForward, op.JumpForwardIfFalse:
			instr.Annotation = fmt.Sprintf("-> %d", offset+width+instr.Operands[0])
		case op.JumpBackward:
			instr.Annotation = fmt.Sprintf("-> %d", offset+width-instr.Operands[0])
		}
		if err != nil {
			return nil, err
		}
		instructions = append(instructions, instr)
		offset += width
	}
	return instructions, nil
}

// FindFunction returns the function with the given name among the constants
// of main.
func FindFunction(main *object.Function, name string) (*object.Function, bool) {
	for _, c := range main.Chunk().Constants {
		if fn, ok := c.(*object.Function); ok && fn.Name() == name {
			return fn, true
		}
	}
	return nil, false
}

func constantAt(chunk *object.Chunk, index int) (object.Object, error) {
	if index >= len(chunk.Constants) {
		return nil, fmt.Errorf("constant index out of range: %d", index)
	}
	return chunk.Constants[index], nil
}

func formatConstant(c object.Object) string {
	switch c := c.(type) {
	case *object.String:
		s := c.Value()
		if len(s) > 80 {
			s = s[:77] + "..."
		}
		return strconv.Quote(s)
	case *object.Function:
		return "func:" + c.DisplayName()
	default:
		return c.Inspect()
	}
}

var (
	bold    = color.New(color.Bold).SprintFunc()
	yellow  = color.New(color.FgYellow).SprintFunc()
	green   = color.New(color.FgGreen).SprintFunc()
	magenta = color.New(color.FgMagenta).SprintFunc()
	cyan    = color.New(color.FgHiCyan).SprintFunc()
)

// Print a table of the given instructions to the given writer.
func Print(writer io.Writer, instructions []Instruction) {
	t := table.NewWriter()
	t.SetOutputMirror(writer)
	t.AppendHeader(table.Row{"OFFSET", "LINE", "OPCODE", "OPERANDS", "INFO"})
	t.SetColumnConfigs([]table.ColumnConfig{
		{Number: 1, Align: text.AlignRight, AlignHeader: text.AlignCenter},
		{Number: 2, Align: text.AlignRight, AlignHeader: text.AlignCenter},
		{Number: 3, Align: text.AlignLeft, AlignHeader: text.AlignCenter},
		{Number: 4, Align: text.AlignRight, AlignHeader: text.AlignCenter},
		{Number: 5, Align: text.AlignLeft, AlignHeader: text.AlignCenter},
	})
	previousLine := -1
	for _, instr := range instructions {
		line := "|"
		if instr.Line != previousLine {
			line = strconv.Itoa(instr.Line)
			previousLine = instr.Line
		}
		t.AppendRow(table.Row{
			instr.Offset,
			line,
			bold(instr.Name),
			formatOperands(instr.Operands),
			colorize(instr),
		})
	}
	t.Render()
}

func colorize(instr Instruction) string {
	if instr.Annotation == "" {
		return ""
	}
	switch instr.Constant.(type) {
	case *object.Number:
		return yellow(instr.Annotation)
	case *object.String:
		return green(instr.Annotation)
	case *object.Function:
		return magenta(instr.Annotation)
	}
	return cyan(instr.Annotation)
}

func formatOperands(operands []int) string {
	parts := make([]string, len(operands))
	for i, operand := range operands {
		parts[i] = strconv.Itoa(operand)
	}
	return strings.Join(parts, ", ")
}

// PrintJSON writes the instructions as an indented JSON array. With colored
// set the output is syntax highlighted.
func PrintJSON(writer io.Writer, instructions []Instruction, colored bool) error {
	if instructions == nil {
		instructions = []Instruction{}
	}
	var data []byte
	var err error
	if colored {
		data, err = prettyjson.Marshal(instructions)
	} else {
		data, err = json.MarshalIndent(instructions, "", "  ")
	}
	if err != nil {
		return err
	}
	_, err = fmt.Fprintln(writer, string(data))
	return err
}
