package model

import (
	"cmp"
	"fmt"
	"slices"
	"strings"

	"mapvet/internal/common"
	"mapvet/internal/diagnostic"
)

//go:generate go tool stringer -type=Operation -linecomment -output=operation_string.go

// Operation is a modification kind a stored procedure can be mapped to.
type Operation int

const (
	OperationInsert Operation = iota // insert
	OperationUpdate                  // update
	OperationDelete                  // delete
)

// Operations lists every operation in declaration order.
var Operations = []Operation{OperationInsert, OperationUpdate, OperationDelete}

// ValueVersion selects which value of a member is passed to a parameter.
type ValueVersion int

const (
	VersionCurrent ValueVersion = iota
	VersionOriginal
)

// String returns a human-readable version name.
func (v ValueVersion) String() string {
	switch v {
	case VersionCurrent:
		return "current"
	case VersionOriginal:
		return "original"
	default:
		return common.UnknownStr
	}
}

// EndRef identifies one end of an association set.
type EndRef struct {
	AssociationSet string
	Role           string
}

// String returns "Set.Role".
func (e EndRef) String() string {
	return e.AssociationSet + "." + e.Role
}

func sortEnds(ends []EndRef) {
	slices.SortFunc(ends, func(a, b EndRef) int {
		return cmp.Or(cmp.Compare(a.AssociationSet, b.AssociationSet), cmp.Compare(a.Role, b.Role))
	})
}

// AssociationEndBinding routes a parameter through an association to the
// entity at the To end.
type AssociationEndBinding struct {
	AssociationSet string
	From           string
	To             string
}

// ParameterBinding binds a store function parameter to a conceptual member.
type ParameterBinding struct {
	Parameter string
	// Path is the member path, relative to the entity or to the End target.
	Path    []string
	Version ValueVersion
	// End is set when the member is reached across an association.
	End      *AssociationEndBinding
	Location diagnostic.Location
}

// ModificationFunction maps one operation onto a store function.
type ModificationFunction struct {
	Operation Operation
	Function  string
	Bindings  []ParameterBinding
	Location  diagnostic.Location

	collocated []EndRef
}

// CollocatedEnds returns the association ends the function binds, sorted.
func (m *ModificationFunction) CollocatedEnds() []EndRef {
	return slices.Clone(m.collocated)
}

// EndConflictError reports a function that binds more than one end of the
// same association set.
type EndConflictError struct {
	Operation      Operation
	Function       string
	AssociationSet string
	Ends           []string
	Parameters     []string
	Location       diagnostic.Location
}

func (e *EndConflictError) Error() string {
	return fmt.Sprintf("%s function %q binds ends %s of association set %q (parameters %s); only one end may be mapped",
		e.Operation, e.Function, strings.Join(e.Ends, ", "), e.AssociationSet, strings.Join(e.Parameters, ", "))
}

// NewModificationFunction validates and assembles a modification function.
//
// All bindings crossing the same association set must target the same end;
// otherwise an *EndConflictError is returned and no function is built.
func NewModificationFunction(
	op Operation,
	function string,
	bindings []ParameterBinding,
	at diagnostic.Location,
) (*ModificationFunction, error) {
	type seenEnd struct {
		role  string
		param string
	}

	first := make(map[string]seenEnd)

	var collocated []EndRef

	for _, b := range bindings {
		if b.End == nil {
			continue
		}

		prev, ok := first[b.End.AssociationSet]
		if !ok {
			first[b.End.AssociationSet] = seenEnd{role: b.End.To, param: b.Parameter}
			collocated = append(collocated, EndRef{AssociationSet: b.End.AssociationSet, Role: b.End.To})

			continue
		}

		if prev.role != b.End.To {
			return nil, &EndConflictError{
				Operation:      op,
				Function:       function,
				AssociationSet: b.End.AssociationSet,
				Ends:           []string{prev.role, b.End.To},
				Parameters:     []string{prev.param, b.Parameter},
				Location:       b.Location,
			}
		}
	}

	sortEnds(collocated)

	return &ModificationFunction{
		Operation:  op,
		Function:   function,
		Bindings:   slices.Clone(bindings),
		Location:   at,
		collocated: collocated,
	}, nil
}

// FunctionMapping groups the modification functions of one entity type, or
// of a whole association set when EntityType is empty.
type FunctionMapping struct {
	EntityType string
	Insert     *ModificationFunction
	Update     *ModificationFunction
	Delete     *ModificationFunction
	Location   diagnostic.Location
}

// Function returns the function mapped for op, or nil.
func (f *FunctionMapping) Function(op Operation) *ModificationFunction {
	switch op {
	case OperationInsert:
		return f.Insert
	case OperationUpdate:
		return f.Update
	case OperationDelete:
		return f.Delete
	default:
		return nil
	}
}

// Functions returns the mapped functions in operation order.
func (f *FunctionMapping) Functions() []*ModificationFunction {
	var out []*ModificationFunction

	for _, op := range Operations {
		if fn := f.Function(op); fn != nil {
			out = append(out, fn)
		}
	}

	return out
}

// CollocatedEnds returns the union of ends bound by any of the functions, sorted.
func (f *FunctionMapping) CollocatedEnds() []EndRef {
	seen := make(map[EndRef]struct{})

	var out []EndRef

	for _, fn := range f.Functions() {
		for _, end := range fn.collocated {
			if _, ok := seen[end]; !ok {
				seen[end] = struct{}{}
				out = append(out, end)
			}
		}
	}

	sortEnds(out)

	return out
}

// FunctionImportMapping maps a conceptual function import onto a store function.
type FunctionImportMapping struct {
	FunctionImport string
	Function       string
	Location       diagnostic.Location
}
