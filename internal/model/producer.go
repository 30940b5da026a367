package model

import "fmt"

// Producer is a compiler that emitted a class file. The set is closed:
// adding one means adding a constant here and a case in every switch over it.
type Producer int

const (
	// Eclipse is the Eclipse compiler for Java (ecj).
	Eclipse Producer = iota
	// Javac is the OpenJDK compiler.
	Javac
)

// Producers lists every known producer in a fixed order.
func Producers() []Producer {
	return []Producer{Eclipse, Javac}
}

func (p Producer) String() string {
	switch p {
	case Eclipse:
		return "eclipse"
	case Javac:
		return "javac"
	}

	return fmt.Sprintf("producer(%d)", int(p))
}

// ParseProducer resolves a producer by its lower-case name.
func ParseProducer(name string) (Producer, error) {
	for _, p := range Producers() {
		if p.String() == name {
			return p, nil
		}
	}

	return 0, fmt.Errorf("unknown producer %q", name)
}
