package fixture

import (
	"fmt"

	"gooze.dev/pkg/classmut/internal/adapter"
	"gooze.dev/pkg/classmut/internal/classfile"
	m "gooze.dev/pkg/classmut/internal/model"
)

const (
	classVersion = 52
	objectClass  = "java/lang/Object"
	iteratorType = "java/util/Iterator"
)

// Sample is one logical loop construct compiled by every producer.
type Sample struct {
	// Class is the simple class name the sample is stored under.
	Class string
	// Method is the name of the method holding the loop.
	Method string
	// Guarded is set when the loop has a recognizable exit.
	Guarded bool

	build func(p m.Producer) (*m.ClassUnit, error)
}

// Unit assembles the sample as producer would have compiled it.
func (s Sample) Unit(p m.Producer) (*m.ClassUnit, error) {
	return s.build(p)
}

// Bytes returns the encoded class file.
func (s Sample) Bytes(p m.Producer) ([]byte, error) {
	unit, err := s.build(p)
	if err != nil {
		return nil, err
	}

	return classfile.Write(unit)
}

// Samples returns every built-in loop sample.
func Samples() []Sample {
	return []Sample{
		{Class: "CountedLoop", Method: "count", Guarded: true, build: countedLoop},
		{Class: "LoopWithBreak", Method: "search", Guarded: true, build: loopWithBreak},
		{Class: "BoundFirstLoop", Method: "approach", Guarded: true, build: boundFirstLoop},
		{Class: "ArrayLoop", Method: "sum", Guarded: true, build: arrayLoop},
		{Class: "IteratorLoop", Method: "drain", Guarded: true, build: iteratorLoop},
		{Class: "FlagLoop", Method: "spin", Guarded: true, build: flagLoop},
		{Class: "InfiniteLoop", Method: "forever", Guarded: false, build: infiniteLoop},
	}
}

// Lookup returns the sample stored under class.
func Lookup(class string) (Sample, bool) {
	for _, s := range Samples() {
		if s.Class == class {
			return s, true
		}
	}

	return Sample{}, false
}

// Populate stores every sample for every producer in repo.
func Populate(repo *adapter.MemoryFixtures) error {
	for _, s := range Samples() {
		for _, p := range m.Producers() {
			data, err := s.Bytes(p)
			if err != nil {
				return fmt.Errorf("build %s for %s: %w", s.Class, p, err)
			}

			repo.Put(p, s.Class, data)
		}
	}

	return nil
}

func unit(name string, fields []m.Field, methods ...*m.Method) (*m.ClassUnit, error) {
	header := m.ClassHeader{
		Name:         name,
		SuperName:    objectClass,
		MajorVersion: classVersion,
		Access:       m.AccPublic,
	}

	return m.NewClassUnit(header, fields, methods)
}

func sinkMethod(owner string) (*m.Method, error) {
	return NewAssembler().Op(m.RETURN).Method(owner, "sink", "(I)V", m.AccStatic, 0, 1)
}

// for (int i = 0; i < 10; i++) { sink(i); }
func countedLoop(p m.Producer) (*m.ClassUnit, error) {
	const owner = "CountedLoop"

	a := NewAssembler()

	switch p {
	case m.Javac:
		a.Op(m.ICONST_0).Var(m.ISTORE, 0).
			Label("head").Var(m.ILOAD, 0).Push(m.BIPUSH, 10).Jump(m.IF_ICMPGE, "exit").
			Var(m.ILOAD, 0).Invoke(m.INVOKESTATIC, owner, "sink", "(I)V").
			Iinc(0, 1).
			Jump(m.GOTO, "head").
			Label("exit").Op(m.RETURN)
	case m.Eclipse:
		a.Op(m.ICONST_0).Var(m.ISTORE, 1).
			Jump(m.GOTO, "cond").
			Label("body").Var(m.ILOAD, 1).Invoke(m.INVOKESTATIC, owner, "sink", "(I)V").
			Iinc(1, 1).
			Label("cond").Op(m.NOP).Var(m.ILOAD, 1).Op(m.NOP).Push(m.BIPUSH, 10).Jump(m.IF_ICMPLT, "body").
			Op(m.RETURN)
	}

	count, err := a.Method(owner, "count", "()V", m.AccStatic, 2, 2)
	if err != nil {
		return nil, err
	}

	sink, err := sinkMethod(owner)
	if err != nil {
		return nil, err
	}

	return unit(owner, nil, count, sink)
}

// while (n > i) { i++; }
func boundFirstLoop(p m.Producer) (*m.ClassUnit, error) {
	const owner = "BoundFirstLoop"

	a := NewAssembler()

	switch p {
	case m.Javac:
		a.Label("head").Var(m.ILOAD, 0).Var(m.ILOAD, 1).Jump(m.IF_ICMPLE, "exit").
			Iinc(1, 1).
			Jump(m.GOTO, "head").
			Label("exit").Op(m.RETURN)
	case m.Eclipse:
		a.Jump(m.GOTO, "cond").
			Label("body").Iinc(1, 1).
			Label("cond").Var(m.ILOAD, 0).Var(m.ILOAD, 1).Jump(m.IF_ICMPGT, "body").
			Op(m.RETURN)
	}

	approach, err := a.Method(owner, "approach", "(II)V", m.AccStatic, 2, 2)
	if err != nil {
		return nil, err
	}

	return unit(owner, nil, approach)
}

// for (int i = 0; i < 10; i++) { if (x == i) break; sink(i); }
func loopWithBreak(p m.Producer) (*m.ClassUnit, error) {
	const owner = "LoopWithBreak"

	a := NewAssembler()

	switch p {
	case m.Javac:
		a.Op(m.ICONST_0).Var(m.ISTORE, 1).
			Label("head").Var(m.ILOAD, 1).Push(m.BIPUSH, 10).Jump(m.IF_ICMPGE, "exit").
			Var(m.ILOAD, 0).Var(m.ILOAD, 1).Jump(m.IF_ICMPNE, "next").
			Jump(m.GOTO, "exit").
			Label("next").Var(m.ILOAD, 1).Invoke(m.INVOKESTATIC, owner, "sink", "(I)V").
			Iinc(1, 1).
			Jump(m.GOTO, "head").
			Label("exit").Op(m.RETURN)
	case m.Eclipse:
		a.Op(m.ICONST_0).Var(m.ISTORE, 2).
			Jump(m.GOTO, "cond").
			Label("body").Var(m.ILOAD, 0).Var(m.ILOAD, 2).Jump(m.IF_ICMPEQ, "exit").
			Var(m.ILOAD, 2).Invoke(m.INVOKESTATIC, owner, "sink", "(I)V").
			Iinc(2, 1).
			Label("cond").Var(m.ILOAD, 2).Push(m.BIPUSH, 10).Jump(m.IF_ICMPLT, "body").
			Label("exit").Op(m.RETURN)
	}

	search, err := a.Method(owner, "search", "(I)V", m.AccStatic, 2, 3)
	if err != nil {
		return nil, err
	}

	sink, err := sinkMethod(owner)
	if err != nil {
		return nil, err
	}

	return unit(owner, nil, search, sink)
}

// int s = 0; for (int i = 0; i < a.length; i++) { s += a[i]; } return s;
func arrayLoop(p m.Producer) (*m.ClassUnit, error) {
	const owner = "ArrayLoop"

	a := NewAssembler()
	body := func(s, i int) {
		a.Var(m.ILOAD, s).Var(m.ALOAD, 0).Var(m.ILOAD, i).Op(m.IALOAD).Op(m.IADD).Var(m.ISTORE, s).
			Iinc(i, 1)
	}

	switch p {
	case m.Javac:
		a.Op(m.ICONST_0).Var(m.ISTORE, 1).Op(m.ICONST_0).Var(m.ISTORE, 2).
			Label("head").Var(m.ILOAD, 2).Var(m.ALOAD, 0).Op(m.ARRAYLENGTH).Jump(m.IF_ICMPGE, "exit")
		body(1, 2)
		a.Jump(m.GOTO, "head").
			Label("exit").Var(m.ILOAD, 1).Op(m.IRETURN)
	case m.Eclipse:
		a.Op(m.ICONST_0).Var(m.ISTORE, 2).Op(m.ICONST_0).Var(m.ISTORE, 3).
			Jump(m.GOTO, "cond").
			Label("body")
		body(2, 3)
		a.Label("cond").Var(m.ILOAD, 3).Var(m.ALOAD, 0).Op(m.NOP).Op(m.ARRAYLENGTH).Jump(m.IF_ICMPLT, "body").
			Var(m.ILOAD, 2).Op(m.IRETURN)
	}

	sum, err := a.Method(owner, "sum", "([I)I", m.AccStatic, 3, 4)
	if err != nil {
		return nil, err
	}

	return unit(owner, nil, sum)
}

// while (it.hasNext()) { it.next(); }
func iteratorLoop(p m.Producer) (*m.ClassUnit, error) {
	const owner = "IteratorLoop"

	a := NewAssembler()
	hasNext := func() *Assembler {
		return a.Var(m.ALOAD, 0).Invoke(m.INVOKEINTERFACE, iteratorType, "hasNext", "()Z")
	}
	next := func() *Assembler {
		return a.Var(m.ALOAD, 0).Invoke(m.INVOKEINTERFACE, iteratorType, "next", "()Ljava/lang/Object;").Op(m.POP)
	}

	switch p {
	case m.Javac:
		a.Label("head")
		hasNext().Jump(m.IFEQ, "exit")
		next().Jump(m.GOTO, "head").
			Label("exit").Op(m.RETURN)
	case m.Eclipse:
		a.Jump(m.GOTO, "cond").Label("body")
		next().Label("cond")
		hasNext().Jump(m.IFNE, "body").
			Op(m.RETURN)
	}

	drain, err := a.Method(owner, "drain", "(Ljava/util/Iterator;)V", m.AccStatic, 1, 1)
	if err != nil {
		return nil, err
	}

	return unit(owner, nil, drain)
}

// while (running) { step(); }
func flagLoop(p m.Producer) (*m.ClassUnit, error) {
	const owner = "FlagLoop"

	a := NewAssembler()
	running := func() *Assembler {
		return a.Var(m.ALOAD, 0).Field(m.GETFIELD, owner, "running", "Z")
	}
	step := func() *Assembler {
		return a.Var(m.ALOAD, 0).Invoke(m.INVOKEVIRTUAL, owner, "step", "()V")
	}

	switch p {
	case m.Javac:
		a.Label("head")
		running().Jump(m.IFEQ, "exit")
		step().Jump(m.GOTO, "head").
			Label("exit").Op(m.RETURN)
	case m.Eclipse:
		a.Jump(m.GOTO, "cond").Label("body")
		step().Label("cond").Op(m.NOP)
		running().Jump(m.IFNE, "body").
			Op(m.RETURN)
	}

	spin, err := a.Method(owner, "spin", "()V", 0, 1, 1)
	if err != nil {
		return nil, err
	}

	stepMethod, err := NewAssembler().Op(m.RETURN).Method(owner, "step", "()V", 0, 0, 1)
	if err != nil {
		return nil, err
	}

	fields := []m.Field{{Name: "running", Descriptor: "Z"}}

	return unit(owner, fields, spin, stepMethod)
}

// int i = 0; while (true) { i++; }
func infiniteLoop(p m.Producer) (*m.ClassUnit, error) {
	const owner = "InfiniteLoop"

	a := NewAssembler()

	switch p {
	case m.Javac:
		a.Op(m.ICONST_0).Var(m.ISTORE, 0).
			Label("loop").Iinc(0, 1).Jump(m.GOTO, "loop")
	case m.Eclipse:
		a.Op(m.ICONST_0).Var(m.ISTORE, 1).
			Label("loop").Op(m.NOP).Iinc(1, 1).Jump(m.GOTO, "loop")
	}

	forever, err := a.Method(owner, "forever", "()V", m.AccStatic, 1, 2)
	if err != nil {
		return nil, err
	}

	return unit(owner, nil, forever)
}
