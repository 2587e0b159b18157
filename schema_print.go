package parquetrecord

import (
	"strconv"
	"strings"
)

// Print renders s in the textual schema DSL real-world Parquet tooling
// prints (the same shape `parquet-tools schema` produces for a file), for
// use in debugging and test failure messages.
func Print(s *Schema) string {
	var b strings.Builder
	if s.Name == "" {
		b.WriteString("message root {\n")
	} else {
		b.WriteString("message " + s.Name + " {\n")
	}
	for _, c := range s.Children {
		printNode(&b, c, 1)
	}
	b.WriteString("}")
	return b.String()
}

func printNode(b *strings.Builder, s *Schema, depth int) {
	pad := strings.Repeat("  ", depth)
	b.WriteString(pad)
	b.WriteString(s.Repetition.String())
	b.WriteString(" ")

	if s.IsLeaf() {
		b.WriteString(s.Physical.String())
		if s.Physical == PhysicalFixedLenByteArray {
			b.WriteString("(" + strconv.Itoa(s.FixedLen) + ")")
		}
		b.WriteString(" " + s.Name)
		if s.Logical != nil {
			b.WriteString(" (" + s.Logical.String() + ")")
		}
		if s.HasFieldID {
			b.WriteString(" = " + strconv.Itoa(int(s.FieldID)))
		}
		b.WriteString(";\n")
		return
	}

	b.WriteString("group " + s.Name)
	if s.Logical != nil {
		b.WriteString(" (" + s.Logical.String() + ")")
	}
	if s.HasFieldID {
		b.WriteString(" = " + strconv.Itoa(int(s.FieldID)))
	}
	b.WriteString(" {\n")
	for _, c := range s.Children {
		printNode(b, c, depth+1)
	}
	b.WriteString(pad + "}\n")
}
