package parquetrecord

// Schema is a node in the Parquet logical schema tree: either a leaf column
// (Physical/Logical set, Children empty) or a group (Children set, Physical
// meaningless). The root of a derived or file schema is always a group
// named "" with Repetition Required.
//
// Schema values are immutable once constructed; a single instance is shared
// across every writer/reader row, as required by spec.md §3 ("Lifecycles").
//
// This supersedes the teacher's thrift-backed Schema (which computed
// RepetitionLevel/DefinitionLevel from a flat SchemaElement list read off
// the wire): this module's CORE never touches the wire, so the tree is built
// directly by the schema builder (C4) or handed in by a test/caller standing
// in for "the file schema the external reader read", per spec.md §4.6.
type Schema struct {
	Name       string
	Repetition Repetition
	FieldID    int32 // meaningful only when HasFieldID is true; spec.md allows omission
	HasFieldID bool

	Physical PhysicalKind
	Logical  *LogicalType
	FixedLen int // only meaningful when Physical == PhysicalFixedLenByteArray

	Children []*Schema

	parent *Schema
}

// Repetition is Parquet's per-field cardinality marker.
type Repetition int8

const (
	Required Repetition = iota
	Optional
	Repeated
)

func (r Repetition) String() string {
	switch r {
	case Required:
		return "required"
	case Optional:
		return "optional"
	case Repeated:
		return "repeated"
	default:
		return "Repetition(?)"
	}
}

// IsLeaf reports whether s is a terminal column rather than a group.
func (s *Schema) IsLeaf() bool { return len(s.Children) == 0 }

// Parent returns the node's parent, or nil for the root.
func (s *Schema) Parent() *Schema { return s.parent }

// ChildByName looks up an immediate child by its wire name.
func (s *Schema) ChildByName(name string) (*Schema, bool) {
	for _, c := range s.Children {
		if c.Name == name {
			return c, true
		}
	}
	return nil, false
}

// ChildNames returns the wire names of s's immediate children, in schema
// (declaration) order.
func (s *Schema) ChildNames() []string {
	names := make([]string, len(s.Children))
	for i, c := range s.Children {
		names[i] = c.Name
	}
	return names
}

func (s *Schema) addChild(c *Schema) {
	c.parent = s
	s.Children = append(s.Children, c)
}

// IsListGroup reports whether s is a group node annotated LIST.
func (s *Schema) IsListGroup() bool {
	return !s.IsLeaf() && s.Logical != nil && s.Logical.Tag == LogicalList
}

// IsMapGroup reports whether s is a group node annotated MAP.
func (s *Schema) IsMapGroup() bool {
	return !s.IsLeaf() && s.Logical != nil && s.Logical.Tag == LogicalMap
}

// listLevels classifies a LIST-annotated group's nesting convention by
// shape, as spec.md §4.6 requires for the read side (the write side instead
// carries the convention explicitly via WriteConfig.ListLevels).
func (s *Schema) listLevels() ListLevels {
	if len(s.Children) != 1 {
		return OneLevel // malformed/defensive; callers validate shape separately
	}
	repeatedChild := s.Children[0]
	if repeatedChild.Repetition != Repeated {
		return OneLevel
	}
	if repeatedChild.IsLeaf() {
		return TwoLevel
	}
	if len(repeatedChild.Children) == 1 && repeatedChild.Children[0].Name == "element" {
		return ThreeLevel
	}
	return TwoLevel
}

// columnPath renders a column path the way error messages and the printer
// want it: dotted, root-relative.
type columnPath []string

func (p columnPath) String() string {
	s := ""
	for i, name := range p {
		if i > 0 {
			s += "."
		}
		s += name
	}
	return s
}

func (p columnPath) append(name string) columnPath {
	q := make(columnPath, len(p)+1)
	copy(q, p)
	q[len(p)] = name
	return q
}
