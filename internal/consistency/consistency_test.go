package consistency

import (
	"strings"
	"testing"

	"github.com/davecgh/go-spew/spew"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"mapvet/internal/diagnostic"
	"mapvet/internal/mapping"
	"mapvet/internal/metadata"
	"mapvet/internal/model"
)

const northwindYAML = `conceptual:
  container: Northwind
  entity_types:
    - {name: Person, abstract: true, key: Id, properties: [Id, Name]}
    - {name: Employee, base: Person}
    - {name: Customer, base: Person}
    - {name: Order, key: Id, properties: [Id]}
  associations:
    - name: Manages
      ends:
        - {role: Boss, type: Employee, multiplicity: "0..1"}
        - {role: Report, type: Employee}
    - name: Places
      foreign_key: true
      ends:
        - {role: Customer, type: Customer, multiplicity: "1"}
        - {role: Order, type: Order}
  entity_sets:
    - {name: People, type: Person}
    - {name: Orders, type: Order}
  association_sets:
    - name: Management
      association: Manages
      ends: [{role: Boss, entity_set: People}, {role: Report, entity_set: People}]
    - name: CustomerOrders
      association: Places
      ends: [{role: Customer, entity_set: People}, {role: Order, entity_set: Orders}]
`

// Parameter bindings used by the tests.
const (
	toBoss     = "{name: boss_id, member: Id, association: {set: Management, from: Report, to: Boss}}"
	toReport   = "{name: report_id, member: Id, association: {set: Management, from: Boss, to: Report}}"
	toCustomer = "{name: customer_id, member: Id, association: {set: CustomerOrders, from: Order, to: Customer}}"
	toOrder    = "{name: order_id, member: Id, association: {set: CustomerOrders, from: Customer, to: Order}}"
	plainID    = "{name: id, member: Id}"
)

// fn renders a modification function with the given parameters.
func fn(op, function string, params ...string) string {
	return "          " + op + ":\n" +
		"            function: " + function + "\n" +
		"            parameters: [" + strings.Join(params, ", ") + "]\n"
}

// typeFunctions renders the function mapping of one entity type.
func typeFunctions(entityType string, fns ...string) string {
	return "        - type: " + entityType + "\n" + strings.Join(fns, "")
}

// build maps People and Orders with the given function mapping blocks and
// appends extra mapping YAML.
func build(t *testing.T, people, orders, extra string) (*model.ContainerMapping, *metadata.Catalog) {
	t.Helper()

	src := northwindYAML + "---\nmapping:\n  entity_sets:\n" +
		"    - set: People\n"
	if people != "" {
		src += "      functions:\n" + people
	}

	src += "    - set: Orders\n"
	if orders != "" {
		src += "      functions:\n" + orders
	}

	src += extra

	docs, err := mapping.ParseStream(strings.NewReader(src), "northwind.yaml")
	require.NoError(t, err, src)

	res, err := mapping.Build(docs...)
	require.NoError(t, err)
	require.Empty(t, res.Diagnostics.Errors, spew.Sdump(res.Diagnostics.Errors))

	return res.Mapping, res.Catalog
}

const managementFunctions = `  association_sets:
    - set: Management
      functions:
        - insert:
            function: dbo.AddReport
            parameters:
              - {name: boss_id, member: Boss.Id}
              - {name: report_id, member: Report.Id}
`

func TestMappedOnce(t *testing.T) {
	tests := []struct {
		name    string
		people  string
		orders  string
		extra   string
		set     string
		message string
	}{
		{
			name:   "collocated end only",
			people: typeFunctions("Employee", fn("insert", "dbo.InsertEmployee", plainID, toBoss)),
		},
		{
			name:  "own function mapping only",
			extra: managementFunctions,
		},
		{
			name:    "own function mapping and collocated end",
			people:  typeFunctions("Employee", fn("insert", "dbo.InsertEmployee", plainID, toBoss)),
			extra:   managementFunctions,
			set:     "Management",
			message: `association set "Management" is mapped to functions 2 times: by its own function mapping, by entity set "People" through end "Boss"`,
		},
		{
			name: "both ends from one entity set",
			people: typeFunctions("Employee",
				fn("insert", "dbo.InsertEmployee", plainID, toBoss),
				fn("delete", "dbo.DeleteEmployee", plainID, toReport)),
			set:     "Management",
			message: `association set "Management" is mapped to functions 2 times: by entity set "People" through end "Boss", by entity set "People" through end "Report"`,
		},
		{
			name:    "ends from two entity sets",
			people:  typeFunctions("Customer", fn("insert", "dbo.InsertCustomer", plainID, toOrder)),
			orders:  typeFunctions("Order", fn("insert", "dbo.InsertOrder", plainID, toCustomer)),
			set:     "CustomerOrders",
			message: `association set "CustomerOrders" is mapped to functions 2 times: by entity set "Orders" through end "Customer", by entity set "People" through end "Order"`,
		},
		{
			name: "one end bound by several types",
			people: typeFunctions("Employee", fn("insert", "dbo.InsertEmployee", plainID, toBoss)) +
				typeFunctions("Customer", fn("insert", "dbo.InsertCustomer", plainID, toBoss)),
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			cm, cat := build(t, tt.people, tt.orders, tt.extra)

			d := MappedOnce(cm, cat)
			if tt.set == "" {
				assert.True(t, d.IsValid(), spew.Sdump(d.Errors))
				return
			}

			require.Len(t, d.Errors, 1, spew.Sdump(d.Errors))
			assert.Equal(t, diagnostic.CodeAmbiguousFunctionMapping, d.Errors[0].Code)
			assert.Equal(t, tt.set, d.Errors[0].Set)
			assert.Equal(t, tt.message, d.Errors[0].Message)
		})
	}
}

func TestMappedOnce_Location(t *testing.T) {
	people := typeFunctions("Employee", fn("insert", "dbo.InsertEmployee", plainID, toBoss))

	cm, cat := build(t, people, "", managementFunctions)
	d := MappedOnce(cm, cat)
	require.Len(t, d.Errors, 1)

	management, ok := cm.AssociationSetMapping("Management")
	require.True(t, ok)
	assert.Equal(t, management.Location, d.Errors[0].Location)

	people = typeFunctions("Employee",
		fn("insert", "dbo.InsertEmployee", plainID, toBoss),
		fn("delete", "dbo.DeleteEmployee", plainID, toReport))

	cm, cat = build(t, people, "", "")
	d = MappedOnce(cm, cat)
	require.Len(t, d.Errors, 1)

	peopleMapping, ok := cm.EntitySetMapping("People")
	require.True(t, ok)
	assert.Equal(t, peopleMapping.Location, d.Errors[0].Location)
}

type endFinding struct {
	code   diagnostic.Code
	member string
	op     string
}

func findings(d *diagnostic.Diagnostics) []endFinding {
	var out []endFinding

	for _, e := range d.Errors {
		op, _, _ := strings.Cut(e.Message, " ")
		out = append(out, endFinding{code: e.Code, member: e.Member, op: op})
	}

	return out
}

func TestOperationEnds(t *testing.T) {
	tests := []struct {
		name   string
		people string
		orders string
		want   []endFinding
	}{
		{
			name: "insert and delete agree",
			people: typeFunctions("Employee",
				fn("insert", "dbo.InsertEmployee", plainID, toBoss),
				fn("update", "dbo.UpdateEmployee", plainID),
				fn("delete", "dbo.DeleteEmployee", plainID, toBoss)),
		},
		{
			name: "delete misses an end",
			people: typeFunctions("Employee",
				fn("insert", "dbo.InsertEmployee", plainID, toBoss),
				fn("delete", "dbo.DeleteEmployee", plainID)),
			want: []endFinding{
				{diagnostic.CodeAssociationSetNotMappedForOperation, "Management.Boss", "delete"},
			},
		},
		{
			name: "update may bind an end",
			people: typeFunctions("Employee",
				fn("insert", "dbo.InsertEmployee", plainID, toBoss),
				fn("update", "dbo.UpdateEmployee", plainID, toBoss),
				fn("delete", "dbo.DeleteEmployee", plainID, toBoss)),
		},
		{
			name: "end expected from another type's functions",
			people: typeFunctions("Employee",
				fn("insert", "dbo.InsertEmployee", plainID),
				fn("delete", "dbo.DeleteEmployee", plainID, toBoss)) +
				typeFunctions("Customer", fn("insert", "dbo.InsertCustomer", plainID)),
			want: []endFinding{
				{diagnostic.CodeAssociationSetNotMappedForOperation, "Management.Boss", "insert"},
			},
		},
		{
			name: "type cannot play the end",
			people: typeFunctions("Employee",
				fn("insert", "dbo.InsertEmployee", plainID, toBoss),
				fn("delete", "dbo.DeleteEmployee", plainID, toBoss)) +
				typeFunctions("Customer",
					fn("insert", "dbo.InsertCustomer", plainID, toBoss),
					fn("update", "dbo.UpdateCustomer", plainID, toBoss)),
			want: []endFinding{
				{diagnostic.CodeEndMappingInvalidForEntityType, "Management.Boss", "insert"},
				{diagnostic.CodeEndMappingInvalidForEntityType, "Management.Boss", "update"},
			},
		},
		{
			name:   "end of another entity set",
			people: typeFunctions("Employee", fn("insert", "dbo.InsertEmployee", plainID, toCustomer)),
			want: []endFinding{
				{diagnostic.CodeEndMappingInvalidForEntityType, "CustomerOrders.Customer", "insert"},
			},
		},
		{
			name: "foreign key ends across sets",
			people: typeFunctions("Customer",
				fn("insert", "dbo.InsertCustomer", plainID),
				fn("delete", "dbo.DeleteCustomer", plainID)),
			orders: typeFunctions("Order",
				fn("insert", "dbo.InsertOrder", plainID, toCustomer),
				fn("delete", "dbo.DeleteOrder", plainID)),
			want: []endFinding{
				{diagnostic.CodeAssociationSetNotMappedForOperation, "CustomerOrders.Customer", "delete"},
			},
		},
		{
			name: "unknown association set is left to validation",
			people: typeFunctions("Employee",
				fn("insert", "dbo.InsertEmployee", plainID,
					"{name: x, member: Id, association: {set: Ghosts, from: A, to: B}}")),
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			cm, cat := build(t, tt.people, tt.orders, "")

			d := OperationEnds(cm, cat)
			assert.Equal(t, tt.want, findings(d), spew.Sdump(d.Errors))

			for _, e := range d.Errors {
				assert.NotZero(t, e.Location.Line)
			}
		})
	}
}

func TestOperationEnds_Message(t *testing.T) {
	cm, cat := build(t, typeFunctions("Employee",
		fn("insert", "dbo.InsertEmployee", plainID, toBoss),
		fn("delete", "dbo.DeleteEmployee", plainID)), "", "")

	d := OperationEnds(cm, cat)
	require.Len(t, d.Errors, 1)
	assert.Equal(t,
		`delete function "dbo.DeleteEmployee" of entity type "Employee" does not bind end Management.Boss, which other functions of set "People" bind`,
		d.Errors[0].Message)
	assert.Equal(t, "People", d.Errors[0].Set)
}

func TestChecks_NilInputs(t *testing.T) {
	for name, check := range map[string]func(*model.ContainerMapping, *metadata.Catalog) *diagnostic.Diagnostics{
		"mapped once":    MappedOnce,
		"operation ends": OperationEnds,
	} {
		t.Run(name, func(t *testing.T) {
			d := check(nil, nil)
			require.Len(t, d.Errors, 1)
			assert.Equal(t, diagnostic.CodeNilInput, d.Errors[0].Code)
		})
	}
}
