package mapping

import (
	"fmt"
	"slices"

	"gopkg.in/yaml.v3"

	"mapvet/internal/common"
	"mapvet/internal/diagnostic"
	"mapvet/internal/model"
)

// Pos is the line and column where a document element starts.
type Pos struct {
	Line   int
	Column int
}

// At returns the position as a diagnostic location in file.
func (p Pos) At(file string) diagnostic.Location {
	return diagnostic.Location{File: file, Line: p.Line, Column: p.Column}
}

// decodeAt decodes node into v and records where it starts. v must be a
// plain alias type without its own UnmarshalYAML.
func decodeAt[P any](node *yaml.Node, v *P, pos *Pos) error {
	if err := node.Decode(v); err != nil {
		return err
	}

	pos.Line, pos.Column = node.Line, node.Column

	return nil
}

// --- StringOrArray ---

// StringOrArray accepts either a single string or a list of strings.
type StringOrArray []string

// UnmarshalYAML implements custom YAML unmarshaling for StringOrArray.
func (s *StringOrArray) UnmarshalYAML(node *yaml.Node) error {
	switch node.Kind {
	case yaml.ScalarNode:
		var str string
		if err := node.Decode(&str); err != nil {
			return err
		}

		if str != "" {
			*s = StringOrArray{str}
		} else {
			*s = StringOrArray{}
		}

		return nil

	case yaml.SequenceNode:
		var arr []string
		if err := node.Decode(&arr); err != nil {
			return err
		}

		*s = arr

		return nil

	default:
		return fmt.Errorf("line %d: expected string or list of strings", node.Line)
	}
}

// MarshalYAML outputs a single string if length is 1, otherwise a list.
func (s StringOrArray) MarshalYAML() (any, error) {
	if common.IsSingle(s) {
		return s[0], nil
	}

	return []string(s), nil
}

// Contains returns true if the list contains the given string.
func (s StringOrArray) Contains(str string) bool {
	return slices.Contains(s, str)
}

// --- type references ---

// TypeRefDoc is a type reference written as "Person", "IsTypeOf(Person)"
// or {name: Person, include_subtypes: true}.
type TypeRefDoc struct {
	Name            string `yaml:"name"`
	IncludeSubtypes bool   `yaml:"include_subtypes,omitempty"`
	Pos             `yaml:"-"`
}

// Ref converts the document form to the model form.
func (t TypeRefDoc) Ref() model.TypeRef {
	return model.TypeRef{Name: t.Name, IncludeSubtypes: t.IncludeSubtypes}
}

// UnmarshalYAML implements custom YAML unmarshaling for TypeRefDoc.
func (t *TypeRefDoc) UnmarshalYAML(node *yaml.Node) error {
	switch node.Kind {
	case yaml.ScalarNode:
		ref := model.ParseTypeRef(node.Value)
		*t = TypeRefDoc{Name: ref.Name, IncludeSubtypes: ref.IncludeSubtypes}
		t.Line, t.Column = node.Line, node.Column

		return nil

	case yaml.MappingNode:
		type plain TypeRefDoc
		return decodeAt(node, (*plain)(t), &t.Pos)

	default:
		return fmt.Errorf("line %d: expected type name or {name, include_subtypes}", node.Line)
	}
}

// MarshalYAML writes the scalar form.
func (t TypeRefDoc) MarshalYAML() (any, error) {
	return t.Ref().String(), nil
}

// TypeRefList accepts one type reference or a list of them.
type TypeRefList []TypeRefDoc

// UnmarshalYAML implements custom YAML unmarshaling for TypeRefList.
func (l *TypeRefList) UnmarshalYAML(node *yaml.Node) error {
	if node.Kind != yaml.SequenceNode {
		var one TypeRefDoc
		if err := node.Decode(&one); err != nil {
			return err
		}

		*l = TypeRefList{one}

		return nil
	}

	refs := make(TypeRefList, 0, len(node.Content))

	for _, item := range node.Content {
		var ref TypeRefDoc
		if err := item.Decode(&ref); err != nil {
			return err
		}

		refs = append(refs, ref)
	}

	*l = refs

	return nil
}

// Refs converts the list to model references.
func (l TypeRefList) Refs() []model.TypeRef {
	out := make([]model.TypeRef, len(l))
	for i := range l {
		out[i] = l[i].Ref()
	}

	return out
}

// UnmarshalYAML accepts a bare function import name or a {name} map.
func (f *FunctionImportDecl) UnmarshalYAML(node *yaml.Node) error {
	if node.Kind == yaml.ScalarNode {
		*f = FunctionImportDecl{Name: node.Value}
		f.Line, f.Column = node.Line, node.Column

		return nil
	}

	type plain FunctionImportDecl

	return decodeAt(node, (*plain)(f), &f.Pos)
}

// --- positioned elements ---

// UnmarshalYAML records the element position.
func (d *ConceptualDoc) UnmarshalYAML(node *yaml.Node) error {
	type plain ConceptualDoc
	return decodeAt(node, (*plain)(d), &d.Pos)
}

// UnmarshalYAML records the element position.
func (d *EntityTypeDoc) UnmarshalYAML(node *yaml.Node) error {
	type plain EntityTypeDoc
	return decodeAt(node, (*plain)(d), &d.Pos)
}

// UnmarshalYAML records the element position.
func (d *AssociationDoc) UnmarshalYAML(node *yaml.Node) error {
	type plain AssociationDoc
	return decodeAt(node, (*plain)(d), &d.Pos)
}

// UnmarshalYAML records the element position.
func (d *AssociationEndDoc) UnmarshalYAML(node *yaml.Node) error {
	type plain AssociationEndDoc
	return decodeAt(node, (*plain)(d), &d.Pos)
}

// UnmarshalYAML records the element position.
func (d *EntitySetDoc) UnmarshalYAML(node *yaml.Node) error {
	type plain EntitySetDoc
	return decodeAt(node, (*plain)(d), &d.Pos)
}

// UnmarshalYAML records the element position.
func (d *AssociationSetDoc) UnmarshalYAML(node *yaml.Node) error {
	type plain AssociationSetDoc
	return decodeAt(node, (*plain)(d), &d.Pos)
}

// UnmarshalYAML records the element position.
func (d *AssociationSetEndDoc) UnmarshalYAML(node *yaml.Node) error {
	type plain AssociationSetEndDoc
	return decodeAt(node, (*plain)(d), &d.Pos)
}

// UnmarshalYAML records the element position.
func (d *StoreDoc) UnmarshalYAML(node *yaml.Node) error {
	type plain StoreDoc
	return decodeAt(node, (*plain)(d), &d.Pos)
}

// UnmarshalYAML records the element position.
func (d *TableDoc) UnmarshalYAML(node *yaml.Node) error {
	type plain TableDoc
	return decodeAt(node, (*plain)(d), &d.Pos)
}

// UnmarshalYAML records the element position.
func (d *ForeignKeyDoc) UnmarshalYAML(node *yaml.Node) error {
	type plain ForeignKeyDoc
	return decodeAt(node, (*plain)(d), &d.Pos)
}

// UnmarshalYAML records the element position.
func (d *FunctionDoc) UnmarshalYAML(node *yaml.Node) error {
	type plain FunctionDoc
	return decodeAt(node, (*plain)(d), &d.Pos)
}

// UnmarshalYAML records the element position.
func (d *MappingDoc) UnmarshalYAML(node *yaml.Node) error {
	type plain MappingDoc
	return decodeAt(node, (*plain)(d), &d.Pos)
}

// UnmarshalYAML records the element position.
func (d *SetMappingDoc) UnmarshalYAML(node *yaml.Node) error {
	type plain SetMappingDoc
	return decodeAt(node, (*plain)(d), &d.Pos)
}

// UnmarshalYAML records the element position.
func (d *TypeQueryViewDoc) UnmarshalYAML(node *yaml.Node) error {
	type plain TypeQueryViewDoc
	return decodeAt(node, (*plain)(d), &d.Pos)
}

// UnmarshalYAML records the element position.
func (d *TypeMappingDoc) UnmarshalYAML(node *yaml.Node) error {
	type plain TypeMappingDoc
	return decodeAt(node, (*plain)(d), &d.Pos)
}

// UnmarshalYAML records the element position.
func (d *FragmentDoc) UnmarshalYAML(node *yaml.Node) error {
	type plain FragmentDoc
	return decodeAt(node, (*plain)(d), &d.Pos)
}

// UnmarshalYAML records the element position.
func (d *PropertyMappingDoc) UnmarshalYAML(node *yaml.Node) error {
	type plain PropertyMappingDoc
	return decodeAt(node, (*plain)(d), &d.Pos)
}

// UnmarshalYAML records the element position.
func (d *ConditionDoc) UnmarshalYAML(node *yaml.Node) error {
	type plain ConditionDoc
	return decodeAt(node, (*plain)(d), &d.Pos)
}

// UnmarshalYAML records the element position.
func (d *FunctionMappingDoc) UnmarshalYAML(node *yaml.Node) error {
	type plain FunctionMappingDoc
	return decodeAt(node, (*plain)(d), &d.Pos)
}

// UnmarshalYAML records the element position.
func (d *ModificationFuncDoc) UnmarshalYAML(node *yaml.Node) error {
	type plain ModificationFuncDoc
	return decodeAt(node, (*plain)(d), &d.Pos)
}

// UnmarshalYAML records the element position.
func (d *ParameterDoc) UnmarshalYAML(node *yaml.Node) error {
	type plain ParameterDoc
	return decodeAt(node, (*plain)(d), &d.Pos)
}

// UnmarshalYAML records the element position.
func (d *FunctionImportMappingDoc) UnmarshalYAML(node *yaml.Node) error {
	type plain FunctionImportMappingDoc
	return decodeAt(node, (*plain)(d), &d.Pos)
}
