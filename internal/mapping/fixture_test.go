package mapping

import (
	"fmt"
	"strings"
	"testing"

	"github.com/davecgh/go-spew/spew"
	"github.com/stretchr/testify/require"

	"mapvet/internal/diagnostic"
)

// northwindYAML is a complete, valid mapping: a Person hierarchy in one
// table, a self-association mapped onto a column of that table, and an
// Orders set related by a foreign-key association.
const northwindYAML = `version: "1"
conceptual:
  container: Northwind
  entity_types:
    - name: Person
      abstract: true
      key: Id
      properties: [Id, Name, Address]
    - name: Employee
      base: Person
      properties: [Salary]
    - name: Customer
      base: Person
      properties: [Rating]
    - name: Order
      key: Id
      properties: [Id, Total]
  associations:
    - name: Manages
      ends:
        - {role: Boss, type: Employee, multiplicity: "0..1"}
        - {role: Report, type: Employee}
    - name: Places
      foreign_key: true
      ends:
        - {role: Customer, type: Customer, multiplicity: "1"}
        - {role: Order, type: Order, multiplicity: "*"}
  entity_sets:
    - {name: People, type: Person}
    - {name: Orders, type: Order}
  association_sets:
    - name: Management
      association: Manages
      ends:
        - {role: Boss, entity_set: People}
        - {role: Report, entity_set: People}
    - name: CustomerOrders
      association: Places
      ends:
        - {role: Customer, entity_set: People}
        - {role: Order, entity_set: Orders}
  function_imports: [GetPeople]
store:
  container: NorthwindStore
  tables:
    - {name: dbo.People, key: id, columns: [id, name, street, city, kind, salary, rating, boss_id]}
    - {name: dbo.Orders, key: id, columns: [id, total, customer_id]}
  foreign_keys:
    - name: FK_Orders_People
      from: {table: dbo.Orders, columns: customer_id}
      to: {table: dbo.People, columns: id}
  functions:
    - {name: dbo.GetPeople}
    - {name: dbo.TopOrders, composable: true}
    - {name: dbo.InsertEmployee, parameters: [id, name, salary, boss_id]}
    - {name: dbo.InsertCustomer, parameters: [id, name, rating]}
    - {name: dbo.DeletePerson, parameters: [id]}
mapping:
  entity_sets:
    - set: People
      table: dbo.People
      types:
        - types: IsTypeOf(Person)
          fragments:
            - properties:
                - {name: Id, column: id}
                - {name: Name, column: name}
                - name: Address
                  properties:
                    - {name: Street, column: street}
                    - {name: City, column: city}
        - types: Employee
          fragments:
            - properties:
                - {name: Id, column: id}
                - {name: Salary, column: salary}
              conditions:
                - {column: kind, value: E}
        - types: [Customer]
          fragments:
            - properties:
                - {name: Id, column: id}
                - {name: Rating, column: rating}
              conditions:
                - {column: kind, value: C}
      functions:
        - type: Employee
          insert:
            function: dbo.InsertEmployee
            parameters:
              - {name: id, member: Id}
              - {name: name, member: Name}
              - {name: salary, member: Salary}
              - name: boss_id
                member: Id
                association: {set: Management, from: Report, to: Boss}
          delete:
            function: dbo.DeletePerson
            parameters:
              - {name: id, member: Id, version: original}
        - type: Customer
          insert:
            function: dbo.InsertCustomer
            parameters:
              - {name: id, member: Id}
              - {name: name, member: Name}
              - {name: rating, member: Rating}
          delete:
            function: dbo.DeletePerson
            parameters:
              - {name: id, member: Id, version: original}
    - set: Orders
      fragments:
        - table: dbo.Orders
          properties:
            - {name: Id, column: id}
            - {name: Total, column: total}
  association_sets:
    - set: Management
      table: dbo.People
      fragments:
        - properties:
            - end: Boss
              properties: [{name: Id, column: boss_id}]
            - end: Report
              properties: [{name: Id, column: id}]
          conditions:
            - {column: boss_id, is_null: false}
  function_imports:
    - {name: GetPeople, function: dbo.GetPeople}
`

// buildSources parses each source as a separate file and builds them together.
func buildSources(t *testing.T, sources ...string) *Result {
	t.Helper()

	var docs []*Document

	for i, src := range sources {
		parsed, err := ParseStream(strings.NewReader(src), fmt.Sprintf("doc%d.yaml", i))
		require.NoError(t, err)

		docs = append(docs, parsed...)
	}

	res, err := Build(docs...)
	require.NoError(t, err)

	return res
}

// validateSources builds and validates, returning the validation result.
// Build diagnostics must be empty.
func validateSources(t *testing.T, sources ...string) *diagnostic.Diagnostics {
	t.Helper()

	res := buildSources(t, sources...)
	require.Empty(t, res.Diagnostics.Errors, spew.Sdump(res.Diagnostics.Errors))

	return Validate(res.Mapping, res.Catalog)
}

// codes returns the codes of the error diagnostics in order.
func codes(d *diagnostic.Diagnostics) []diagnostic.Code {
	out := make([]diagnostic.Code, 0, len(d.Errors))
	for _, e := range d.Errors {
		out = append(out, e.Code)
	}

	return out
}

// replaceOnce replaces the single occurrence of old in s.
func replaceOnce(t *testing.T, s, old, replacement string) string {
	t.Helper()
	require.Equal(t, 1, strings.Count(s, old), "fixture must contain %q exactly once", old)

	return strings.Replace(s, old, replacement, 1)
}
