package ir

import "fmt"

// Type is implemented by every value type a Variable may carry. This is the
// teacher's EVM type system, carried over unchanged: integers are sized in
// bits, storage mappings are modeled as Slots<Key, Value>.
type Type interface {
	String() string
}

type IntType struct {
	Bits int
}

type BoolType struct{}

type AddressType struct{}

type StringType struct{}

type SlotsType struct {
	KeyType   Type
	ValueType Type
}

type TupleType struct {
	Elements []Type
}

func (i IntType) String() string     { return fmt.Sprintf("U%d", i.Bits) }
func (b BoolType) String() string    { return "Bool" }
func (a AddressType) String() string { return "Address" }
func (s StringType) String() string  { return "String" }
func (s SlotsType) String() string {
	return fmt.Sprintf("Slots<%s, %s>", s.KeyType.String(), s.ValueType.String())
}
func (t TupleType) String() string {
	if len(t.Elements) == 0 {
		return "()"
	}
	out := "("
	for i, elem := range t.Elements {
		if i > 0 {
			out += ", "
		}
		out += elem.String()
	}
	return out + ")"
}
