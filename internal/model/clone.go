package model

import "slices"

// cloneEach deep-copies a slice element by element, keeping nil as nil.
func cloneEach[T any](in []T, clone func(*T) T) []T {
	if in == nil {
		return nil
	}

	out := make([]T, len(in))
	for i := range in {
		out[i] = clone(&in[i])
	}

	return out
}

// Clone returns a deep copy of the set mapping.
func (s *SetMapping) Clone() *SetMapping {
	cp := *s
	cp.TypeMappings = cloneEach(s.TypeMappings, (*TypeMapping).Clone)
	cp.TypeQueryViews = slices.Clone(s.TypeQueryViews)
	cp.FunctionMappings = cloneEach(s.FunctionMappings, (*FunctionMapping).Clone)

	return &cp
}

// Clone returns a deep copy of the type mapping.
func (t *TypeMapping) Clone() TypeMapping {
	cp := *t
	cp.Types = slices.Clone(t.Types)
	cp.Fragments = cloneEach(t.Fragments, (*Fragment).Clone)

	return cp
}

// Clone returns a deep copy of the fragment.
func (f *Fragment) Clone() Fragment {
	cp := *f
	cp.Properties = cloneEach(f.Properties, (*PropertyMapping).Clone)
	cp.Conditions = cloneEach(f.Conditions, (*Condition).Clone)

	return cp
}

// Clone returns a deep copy of the property mapping and its nested mappings.
func (p *PropertyMapping) Clone() PropertyMapping {
	cp := *p
	cp.Properties = cloneEach(p.Properties, (*PropertyMapping).Clone)

	return cp
}

// Clone returns a copy of the condition that shares no pointers with it.
func (c *Condition) Clone() Condition {
	cp := *c

	if c.IsNull != nil {
		v := *c.IsNull
		cp.IsNull = &v
	}

	if c.Value != nil {
		v := *c.Value
		cp.Value = &v
	}

	return cp
}

// Clone returns a deep copy of the function mapping.
func (f *FunctionMapping) Clone() FunctionMapping {
	cp := *f
	cp.Insert = f.Insert.Clone()
	cp.Update = f.Update.Clone()
	cp.Delete = f.Delete.Clone()

	return cp
}

// Clone returns a deep copy of the function, or nil for a nil function.
func (m *ModificationFunction) Clone() *ModificationFunction {
	if m == nil {
		return nil
	}

	cp := *m
	cp.Bindings = cloneEach(m.Bindings, (*ParameterBinding).Clone)
	cp.collocated = slices.Clone(m.collocated)

	return &cp
}

// Clone returns a deep copy of the binding.
func (b *ParameterBinding) Clone() ParameterBinding {
	cp := *b
	cp.Path = slices.Clone(b.Path)

	if b.End != nil {
		end := *b.End
		cp.End = &end
	}

	return cp
}
