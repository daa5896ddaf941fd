// Package emit renders a route table as a JavaScript module.
//
// Records are first lowered into a small value tree (literals, references,
// JSX elements, objects and arrays) which a printer then writes out. Live
// code such as symbols and import thunks is never produced by string
// patching a serialised form.
package emit

// Value is a node of the emitted expression tree.
type Value interface {
	write(p *printer)
}

// Literal is a string, bool or int rendered as a JavaScript literal.
type Literal struct {
	Value interface{}
}

// Ref is a live code expression such as an imported symbol.
type Ref string

// Spread renders as "...expr" inside an array.
type Spread string

// Field is one key of an Object.
type Field struct {
	Key   string
	Value Value
}

// Object renders its fields in order.
type Object []Field

// Array renders its items in order.
type Array []Value

// Prop is one attribute of an Element. A nil Value renders as a bare
// boolean attribute.
type Prop struct {
	Name  string
	Value Value
}

// Element is a self-closing JSX element.
type Element struct {
	Tag   string
	Props []Prop
}

// DynamicImport renders as an arrow function returning import(module).
// Then, when set, is an expression over the loaded module "mod" chained onto
// the import.
type DynamicImport struct {
	Module string
	Then   string
}

// Str is shorthand for a string Literal.
func Str(s string) Literal { return Literal{Value: s} }

// Bool is shorthand for a boolean Literal.
func Bool(b bool) Literal { return Literal{Value: b} }
