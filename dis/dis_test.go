package dis

import (
	"bytes"
	"encoding/json"
	"strings"
	"testing"

	"github.com/fatih/color"
	"github.com/stretchr/testify/require"

	"github.com/magnum-lang/magnum/compiler"
	"github.com/magnum-lang/magnum/object"
	"github.com/magnum-lang/magnum/op"
)

func disableColor(t *testing.T) {
	previous := color.NoColor
	color.NoColor = true
	t.Cleanup(func() { color.NoColor = previous })
}

func TestFunctionDisassembly(t *testing.T) {
	main, err := compiler.Compile(`define f(a) {
  print "kaboom" @ a
  return a * 2
}`)
	require.NoError(t, err)
	require.Len(t, main.Chunk().Constants, 2)

	f, ok := FindFunction(main, "f")
	require.True(t, ok)
	instructions, err := Disassemble(f.Chunk())
	require.NoError(t, err)

	var names []string
	for _, instr := range instructions {
		names = append(names, instr.Name)
	}
	require.Equal(t, []string{
		"NOP",
		"LOAD_CONST", "LOAD_FAST", "BINARY_OP", "PRINT",
		"LOAD_FAST", "LOAD_CONST", "BINARY_OP", "RETURN_VALUE",
		"VOID", "RETURN_VALUE",
	}, names)

	require.Equal(t, Instruction{
		Offset:     1,
		Line:       2,
		Name:       "LOAD_CONST",
		Opcode:     op.LoadConst,
		Operands:   []int{0},
		Annotation: `"kaboom"`,
		Constant:   f.Chunk().Constants[0],
	}, instructions[1])
	require.Equal(t, "slot 0", instructions[2].Annotation)
	require.Equal(t, "@", instructions[3].Annotation)
	require.Equal(t, "*", instructions[7].Annotation)
	require.Equal(t, 3, instructions[5].Line)

	_, ok = FindFunction(main, "missing")
	require.False(t, ok)
}

func TestJumpTargets(t *testing.T) {
	main, err := compiler.Compile("while false: empty")
	require.NoError(t, err)
	instructions, err := Disassemble(main.Chunk())
	require.NoError(t, err)
	require.Equal(t, "JUMP_FORWARD_IF_FALSE", instructions[1].Name)
	require.Equal(t, []int{5}, instructions[1].Operands)
	require.Equal(t, "-> 9", instructions[1].Annotation)
	require.Equal(t, "JUMP_BACKWARD", instructions[4].Name)
	require.Equal(t, "-> 0", instructions[4].Annotation)
}

func TestGlobalsAndConstants(t *testing.T) {
	main, err := compiler.Compile("define g: return\nset x: 1.50\nx = x < 2")
	require.NoError(t, err)
	instructions, err := Disassemble(main.Chunk())
	require.NoError(t, err)

	var info []string
	for _, instr := range instructions {
		info = append(info, instr.Annotation)
	}
	require.Equal(t, []string{
		"func:g", "g",
		"1.5", "x",
		"x", "2", "<", "x",
		"", "",
	}, info)
}

func TestDisassembleErrors(t *testing.T) {
	chunk := &object.Chunk{}
	chunk.Emit(1, op.LoadConst, 3)
	_, err := Disassemble(chunk)
	require.EqualError(t, err, "constant index out of range: 3")

	chunk = &object.Chunk{}
	chunk.Emit(1, op.JumpForward, 0)
	_, err = Disassemble(chunk)
	require.EqualError(t, err, "truncated JUMP_FORWARD instruction at offset 0")

	chunk = &object.Chunk{}
	chunk.Emit(1, op.Code(250))
	_, err = Disassemble(chunk)
	require.EqualError(t, err, "unknown opcode 250 at offset 0")
}

func TestPrint(t *testing.T) {
	disableColor(t)
	main, err := compiler.Compile("print 1 + 2\nprint \"done\"")
	require.NoError(t, err)
	instructions, err := Disassemble(main.Chunk())
	require.NoError(t, err)

	var buf bytes.Buffer
	Print(&buf, instructions)
	lines := strings.Split(strings.TrimSpace(buf.String()), "\n")

	// Header and borders plus one row per instruction.
	require.Len(t, lines, len(instructions)+4)
	for _, header := range []string{"OFFSET", "LINE", "OPCODE", "OPERANDS", "INFO"} {
		require.Contains(t, lines[1], header)
	}
	require.Regexp(t, `^\|\s+0 \|\s+1 \| LOAD_CONST\s+\|\s+0 \| 1\s+\|$`, lines[3])
	require.Regexp(t, `^\|\s+4 \|\s+\| \| BINARY_OP\s+\|\s+1 \| \+\s+\|$`, lines[5])
	require.Contains(t, lines[7], `"done"`)
	require.NotContains(t, buf.String(), "\x1b[")
}

func TestPrintJSON(t *testing.T) {
	main, err := compiler.Compile("print 1")
	require.NoError(t, err)
	instructions, err := Disassemble(main.Chunk())
	require.NoError(t, err)

	var buf bytes.Buffer
	require.NoError(t, PrintJSON(&buf, instructions, false))

	var decoded []map[string]any
	require.NoError(t, json.Unmarshal(buf.Bytes(), &decoded))
	require.Len(t, decoded, 3)
	require.Equal(t, "LOAD_CONST", decoded[0]["opcode"])
	require.Equal(t, "1", decoded[0]["info"])
	require.Equal(t, []any{float64(0)}, decoded[0]["operands"])
	require.Equal(t, float64(1), decoded[0]["line"])
	require.NotContains(t, decoded[1], "operands")
	require.Equal(t, "1", decoded[0]["constant"])
	require.NotContains(t, decoded[1], "constant")

	buf.Reset()
	require.NoError(t, PrintJSON(&buf, nil, false))
	require.Equal(t, "[]\n", buf.String())
}

func TestPrintJSONConstants(t *testing.T) {
	main, err := compiler.Compile("define f: return 0.50\nprint \"ab\"\nprint f\nprint 1 / 3")
	require.NoError(t, err)
	instructions, err := Disassemble(main.Chunk())
	require.NoError(t, err)

	var buf bytes.Buffer
	require.NoError(t, PrintJSON(&buf, instructions, false))
	var decoded []map[string]any
	require.NoError(t, json.Unmarshal(buf.Bytes(), &decoded))

	var constants []any
	for _, instr := range decoded {
		if c, ok := instr["constant"]; ok {
			constants = append(constants, c)
		}
	}
	require.Equal(t, []any{"<Function object: `f`>", "ab", "1", "3"}, constants)
}

func TestPrintColoredJSON(t *testing.T) {
	main, err := compiler.Compile("print 1")
	require.NoError(t, err)
	instructions, err := Disassemble(main.Chunk())
	require.NoError(t, err)

	var buf bytes.Buffer
	require.NoError(t, PrintJSON(&buf, instructions, true))
	require.Contains(t, buf.String(), "LOAD_CONST")
}
