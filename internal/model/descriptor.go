package model

import "fmt"

// ValueSize returns the stack words taken by a field descriptor: 2 for long
// and double, 1 for any other valid type, 0 when desc is not a field type.
func ValueSize(desc string) int {
	n, rest, ok := parseFieldType(desc)
	if !ok || rest != "" {
		return 0
	}

	return n
}

// MethodSlots returns the argument words and return words of a method descriptor.
func MethodSlots(desc string) (args, ret int, err error) {
	if len(desc) < 3 || desc[0] != '(' {
		return 0, 0, fmt.Errorf("bad method descriptor %q", desc)
	}

	rest := desc[1:]

	for len(rest) > 0 && rest[0] != ')' {
		n, tail, ok := parseFieldType(rest)
		if !ok {
			return 0, 0, fmt.Errorf("bad method descriptor %q", desc)
		}

		args += n
		rest = tail
	}

	if len(rest) == 0 {
		return 0, 0, fmt.Errorf("bad method descriptor %q", desc)
	}

	rest = rest[1:]
	if rest == "V" {
		return args, 0, nil
	}

	ret = ValueSize(rest)
	if ret == 0 {
		return 0, 0, fmt.Errorf("bad method descriptor %q", desc)
	}

	return args, ret, nil
}

// ArgumentSizes returns the stack words of each argument of a method
// descriptor, in declaration order.
func ArgumentSizes(desc string) ([]int, error) {
	if _, _, err := MethodSlots(desc); err != nil {
		return nil, err
	}

	var sizes []int

	for rest := desc[1:]; rest[0] != ')'; {
		n, tail, _ := parseFieldType(rest)
		sizes = append(sizes, n)
		rest = tail
	}

	return sizes, nil
}

// ReturnsVoid reports whether a method descriptor has a void return type.
func ReturnsVoid(desc string) bool {
	return len(desc) > 0 && desc[len(desc)-1] == 'V'
}

func isWideDescriptor(desc string) bool {
	return desc == "J" || desc == "D"
}

func parseFieldType(s string) (int, string, bool) {
	if s == "" {
		return 0, "", false
	}

	switch s[0] {
	case 'B', 'C', 'F', 'I', 'S', 'Z':
		return 1, s[1:], true
	case 'J', 'D':
		return 2, s[1:], true
	case 'L':
		for i := 1; i < len(s); i++ {
			if s[i] == ';' {
				if i == 1 {
					return 0, "", false
				}

				return 1, s[i+1:], true
			}
		}

		return 0, "", false
	case '[':
		i := 0
		for i < len(s) && s[i] == '[' {
			i++
		}

		_, rest, ok := parseFieldType(s[i:])
		if !ok {
			return 0, "", false
		}

		return 1, rest, true
	}

	return 0, "", false
}
