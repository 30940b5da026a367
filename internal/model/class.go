package model

import (
	"fmt"
	"strings"
)

// Access flags used by the analysis.
const (
	AccPublic   uint16 = 0x0001
	AccStatic    uint16 = 0x0008
	AccNative    uint16 = 0x0100
	AccInterface uint16 = 0x0200
	AccAbstract  uint16 = 0x0400
)

// MethodKey identifies a method within its class.
type MethodKey struct {
	Name       string
	Descriptor string
}

func (k MethodKey) String() string {
	return k.Name + k.Descriptor
}

// ExceptionHandler is an exception table entry. Start, End and Handler are
// instruction indices; End is exclusive and may equal len(instructions).
type ExceptionHandler struct {
	Start     int
	End       int
	Handler   int
	CatchType string
}

// Method is a parsed method body. It is shared read-only by every mutant
// derived from it.
type Method struct {
	Owner        string
	Name         string
	Descriptor   string
	Access       uint16
	MaxStack     int
	MaxLocals    int
	Instructions []Instruction
	Handlers     []ExceptionHandler
}

// Key returns the (name, descriptor) lookup key.
func (m *Method) Key() MethodKey {
	return MethodKey{Name: m.Name, Descriptor: m.Descriptor}
}

// HasCode reports whether the method carries a Code attribute.
func (m *Method) HasCode() bool {
	return len(m.Instructions) > 0
}

// IsStatic reports whether the method is static.
func (m *Method) IsStatic() bool {
	return m.Access&AccStatic != 0
}

func (m *Method) String() string {
	return strings.ReplaceAll(m.Owner, "/", ".") + "::" + m.Name + m.Descriptor
}

// Field is a declared field. Only the ConstantValue attribute is retained.
type Field struct {
	Access     uint16
	Name       string
	Descriptor string
	// Value is the ConstantValue of a static final field, nil when absent.
	Value *Constant
}

// ClassHeader carries the class-level data of a class file.
type ClassHeader struct {
	Name         string
	SuperName    string
	Interfaces   []string
	MajorVersion uint16
	MinorVersion uint16
	Access       uint16
}

// ClassUnit is a parsed class file.
type ClassUnit struct {
	ClassHeader
	Fields []Field

	methods []*Method
	byKey   map[MethodKey]*Method
}

// NewClassUnit builds a ClassUnit and its descriptor-keyed method table.
func NewClassUnit(header ClassHeader, fields []Field, methods []*Method) (*ClassUnit, error) {
	byKey := make(map[MethodKey]*Method, len(methods))

	for _, method := range methods {
		key := method.Key()
		if _, dup := byKey[key]; dup {
			return nil, fmt.Errorf("duplicate method %s", key)
		}

		byKey[key] = method
	}

	return &ClassUnit{
		ClassHeader: header,
		Fields:      fields,
		methods:     methods,
		byKey:       byKey,
	}, nil
}

// AllMethods returns the methods in class-file order.
func (c *ClassUnit) AllMethods() []*Method {
	out := make([]*Method, len(c.methods))
	copy(out, c.methods)

	return out
}

// WithMethod returns a copy of the unit in which the method with the same
// key as replacement is swapped for it.
func (c *ClassUnit) WithMethod(replacement *Method) (*ClassUnit, error) {
	key := replacement.Key()
	if _, ok := c.byKey[key]; !ok {
		return nil, fmt.Errorf("no method %s in %s", key, c.Name)
	}

	methods := make([]*Method, len(c.methods))
	for i, method := range c.methods {
		methods[i] = method
		if method.Key() == key {
			methods[i] = replacement
		}
	}

	return NewClassUnit(c.ClassHeader, c.Fields, methods)
}

// Method looks a method up by exact name and descriptor.
func (c *ClassUnit) Method(key MethodKey) (*Method, bool) {
	method, ok := c.byKey[key]
	return method, ok
}

// MethodPredicate selects methods, e.g. to pick among overloads.
type MethodPredicate func(*Method) bool

// Methods returns, in class-file order, every method accepted by pred.
func (c *ClassUnit) Methods(pred MethodPredicate) []*Method {
	var out []*Method

	for _, method := range c.methods {
		if pred == nil || pred(method) {
			out = append(out, method)
		}
	}

	return out
}

// FirstMethod returns the first method accepted by pred.
func (c *ClassUnit) FirstMethod(pred MethodPredicate) (*Method, bool) {
	for _, method := range c.methods {
		if pred == nil || pred(method) {
			return method, true
		}
	}

	return nil, false
}

// Named matches methods by name, across all overloads.
func Named(name string) MethodPredicate {
	return func(m *Method) bool {
		return m.Name == name
	}
}

// WithCode matches methods that have a body.
func WithCode() MethodPredicate {
	return func(m *Method) bool {
		return m.HasCode()
	}
}

// SimpleName returns the class name without its package, e.g. "Loops" for "a/b/Loops".
func SimpleName(className string) string {
	className = strings.ReplaceAll(className, ".", "/")
	if i := strings.LastIndex(className, "/"); i >= 0 {
		return className[i+1:]
	}

	return className
}

// InternalName converts a dotted class name to its internal slash form.
func InternalName(className string) string {
	return strings.ReplaceAll(className, ".", "/")
}
