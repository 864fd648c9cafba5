package builtins

// FuncSpec documents one native.
type FuncSpec struct {
	Name    string
	Doc     string
	Args    []string
	Returns string
	Example string
}

// Docs returns documentation for all natives, sorted by name.
func Docs() []FuncSpec {
	return nativeDocs
}

var nativeDocs = []FuncSpec{
	{
		Name:    "length",
		Doc:     "Return the number of bytes in a string",
		Args:    []string{"text"},
		Returns: "number",
		Example: `length("hello")`,
	},
	{
		Name:    "number",
		Doc:     "Parse a string as a decimal number, or return void",
		Args:    []string{"text"},
		Returns: "number",
		Example: `number("3.25")`,
	},
	{
		Name:    "string",
		Doc:     "Convert a number to its canonical text",
		Args:    []string{"value"},
		Returns: "string",
		Example: "string(1 / 4)",
	},
}
