package mapping

import (
	"testing"

	"github.com/davecgh/go-spew/spew"
	"github.com/google/go-cmp/cmp"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"mapvet/internal/diagnostic"
	"mapvet/internal/metadata"
	"mapvet/internal/model"
)

func TestValidate_Northwind(t *testing.T) {
	d := validateSources(t, northwindYAML)
	assert.True(t, d.IsValid(), spew.Sdump(d.Errors))
	assert.Empty(t, d.Warnings)
}

func TestValidate_NilInputs(t *testing.T) {
	d := Validate(nil, metadata.NewCatalog("C", "S"))
	require.Len(t, d.Errors, 1)
	assert.Equal(t, diagnostic.CodeNilInput, d.Errors[0].Code)

	res := buildSources(t, northwindYAML)
	d = Validate(res.Mapping, nil)
	require.Len(t, d.Errors, 1)
	assert.Equal(t, diagnostic.CodeNilInput, d.Errors[0].Code)
}

func TestValidate_UnknownNamesSuggest(t *testing.T) {
	extra := `mapping:
  entity_sets:
    - set: Peple
      table: dbo.People
    - set: Orders
      types:
        - types: Ordr
          fragments:
            - table: dbo.Order
              properties:
                - {name: Id, column: id}
        - types: Order
          fragments:
            - table: dbo.Orders
              properties:
                - {name: Totl, column: totl}
`

	d := validateSources(t, northwindYAML, extra)

	tests := []struct {
		code        diagnostic.Code
		member      string
		suggestions []string
	}{
		{diagnostic.CodeUnknownEntityType, "Ordr", []string{"Order"}},
		{diagnostic.CodeUnknownTable, "dbo.Order", []string{"dbo.Orders"}},
		{diagnostic.CodeUnknownProperty, "Totl", []string{"Total"}},
		{diagnostic.CodeUnknownColumn, "Totl", []string{"total"}},
		{diagnostic.CodeUnknownEntitySet, "", []string{"People"}},
	}

	require.Len(t, d.Errors, len(tests), spew.Sdump(d.Errors))

	for _, tt := range tests {
		t.Run(tt.code.String(), func(t *testing.T) {
			got := d.WithCode(tt.code)
			require.Len(t, got, 1)
			assert.Equal(t, tt.member, got[0].Member)
			assert.Equal(t, tt.suggestions, got[0].Suggestions)
			assert.Equal(t, "doc1.yaml", got[0].Location.File)
		})
	}
}

func TestValidate_WithSuggestionsDisabled(t *testing.T) {
	res := buildSources(t, northwindYAML, "mapping:\n  entity_sets:\n    - {set: Peple, table: dbo.People}\n")

	d := Validate(res.Mapping, res.Catalog, WithSuggestions(0))
	require.Len(t, d.Errors, 1)
	assert.Equal(t, diagnostic.CodeUnknownEntitySet, d.Errors[0].Code)
	assert.Empty(t, d.Errors[0].Suggestions)
}

func TestValidate_Catalog(t *testing.T) {
	src := `conceptual:
  container: C
  entity_types:
    - {name: A, base: Missing, key: Nope, properties: [Id]}
    - {name: B, key: Id, properties: [Id]}
  associations:
    - name: AB
      ends:
        - {role: X, type: A}
        - {role: Y, type: Bee}
  entity_sets:
    - {name: As, type: A}
    - {name: Bs, type: B}
    - {name: Cs, type: C}
  association_sets:
    - name: Links
      association: AB
      ends:
        - {role: X, entity_set: Bs}
        - {role: Z, entity_set: As}
    - name: Dangling
      association: BA
      ends:
        - {role: X, entity_set: As}
        - {role: Y, entity_set: Bs}
store:
  container: S
  tables:
    - {name: a, key: id, columns: [ident]}
  foreign_keys:
    - name: FK_a_b
      from: {table: a, columns: id}
      to: {table: b, columns: id}
`

	d := validateSources(t, src)

	want := []diagnostic.Code{
		diagnostic.CodeUnknownEntityType,      // base Missing
		diagnostic.CodeUnknownProperty,        // key Nope
		diagnostic.CodeUnknownEntityType,      // AB.Y Bee
		diagnostic.CodeUnknownEntityType,      // Cs element type
		diagnostic.CodeUnknownAssociationType, // Dangling
		diagnostic.CodeTypeNotInSet,           // Links.X bound to Bs
		diagnostic.CodeUnknownAssociationEnd,  // Links.Z
		diagnostic.CodeUnknownColumn,          // a key id
		diagnostic.CodeUnknownColumn,          // FK_a_b from column
		diagnostic.CodeUnknownTable,           // FK_a_b to table
	}

	if diff := cmp.Diff(want, codes(d)); diff != "" {
		t.Errorf("diagnostic codes mismatch (-want +got):\n%s\n%s", diff, spew.Sdump(d.Errors))
	}
}

func TestValidate_MappingStyles(t *testing.T) {
	extra := `mapping:
  entity_sets:
    - set: Orders
      query_view: "SELECT VALUE o FROM Orders AS o"
    - set: People
      query_views:
        - {type: Employee, view: "SELECT VALUE e FROM OFTYPE(People, Employee) AS e"}
        - {type: Employee, view: "SELECT VALUE e FROM OFTYPE(People, ONLY Employee) AS e"}
        - {type: "IsTypeOf(Employee)", view: "SELECT VALUE e FROM OFTYPE(People, Employee) AS e"}
        - {type: Order, view: "SELECT VALUE o FROM Orders AS o"}
  association_sets:
    - set: Management
      query_views:
        - {type: Manages, view: "SELECT VALUE m FROM Management AS m"}
`

	d := validateSources(t, northwindYAML, extra)

	assert.Len(t, d.WithCode(diagnostic.CodeQueryViewWithFragments), 1)

	dups := d.WithCode(diagnostic.CodeDuplicateTypeQueryView)
	require.Len(t, dups, 1, "IsTypeOf(Employee) and Employee are distinct keys")
	assert.Equal(t, "Employee", dups[0].Member)

	notInSet := d.WithCode(diagnostic.CodeTypeNotInSet)
	require.Len(t, notInSet, 1)
	assert.Equal(t, "Order", notInSet[0].Member)

	invalid := d.WithCode(diagnostic.CodeInvalidDeclaration)
	require.Len(t, invalid, 1)
	assert.Equal(t, "Management", invalid[0].Set)

	assert.Len(t, d.Errors, 4, spew.Sdump(d.Errors))
}

func TestValidate_Conditions(t *testing.T) {
	tests := []struct {
		name      string
		condition string
		want      []diagnostic.Code
	}{
		{
			name:      "member and column",
			condition: `{member: Rating, column: rating, value: "1"}`,
			want:      []diagnostic.Code{diagnostic.CodeInvalidCondition},
		},
		{
			name:      "neither is_null nor value",
			condition: `{column: rating}`,
			want:      []diagnostic.Code{diagnostic.CodeInvalidCondition},
		},
		{
			name:      "is_null and value",
			condition: `{column: rating, is_null: true, value: "1"}`,
			want:      []diagnostic.Code{diagnostic.CodeInvalidCondition},
		},
		{
			name:      "second condition on a column",
			condition: `{column: kind, is_null: false}`,
			want:      []diagnostic.Code{diagnostic.CodeDuplicateCondition},
		},
		{
			name:      "value condition on a mapped column",
			condition: `{column: rating, value: "5"}`,
			want:      []diagnostic.Code{diagnostic.CodeDuplicateColumnMapping},
		},
		{
			name:      "null condition on a mapped column",
			condition: `{column: rating, is_null: true}`,
			want:      []diagnostic.Code{diagnostic.CodeDuplicateColumnMapping},
		},
		{
			name:      "not-null condition on a mapped column",
			condition: `{column: rating, is_null: false}`,
		},
		{
			name:      "unknown column",
			condition: `{column: raiting, is_null: false}`,
			want:      []diagnostic.Code{diagnostic.CodeUnknownColumn},
		},
		{
			name:      "member condition",
			condition: `{member: Rating, is_null: false}`,
		},
		{
			name:      "unknown member",
			condition: `{member: Ratin, is_null: false}`,
			want:      []diagnostic.Code{diagnostic.CodeUnknownProperty},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			src := replaceOnce(t, northwindYAML,
				"                - {column: kind, value: C}\n",
				"                - {column: kind, value: C}\n                - "+tt.condition+"\n")

			d := validateSources(t, src)
			assert.Equal(t, tt.want, codesOrNil(d), spew.Sdump(d.Errors))
		})
	}
}

func TestValidate_DuplicateColumnMapping(t *testing.T) {
	t.Run("two properties", func(t *testing.T) {
		src := replaceOnce(t, northwindYAML, "{name: Rating, column: rating}", "{name: Rating, column: id}")

		d := validateSources(t, src)
		require.Len(t, d.Errors, 1, spew.Sdump(d.Errors))
		assert.Equal(t, diagnostic.CodeDuplicateColumnMapping, d.Errors[0].Code)
		assert.Equal(t, "Rating", d.Errors[0].Member)
		assert.Contains(t, d.Errors[0].Message, `mapped by both "Id" and "Rating"`)
	})

	t.Run("one complex property", func(t *testing.T) {
		src := replaceOnce(t, northwindYAML, "{name: City, column: city}", "{name: City, column: street}")

		d := validateSources(t, src)
		assert.True(t, d.IsValid(), spew.Sdump(d.Errors))
	})

	t.Run("two ends", func(t *testing.T) {
		src := replaceOnce(t, northwindYAML, "[{name: Id, column: boss_id}]", "[{name: Id, column: id}]")

		d := validateSources(t, src)
		require.Len(t, d.Errors, 1, spew.Sdump(d.Errors))
		assert.Equal(t, diagnostic.CodeDuplicateColumnMapping, d.Errors[0].Code)
		assert.Equal(t, "Report.Id", d.Errors[0].Member)
	})
}

func TestValidate_AssociationFragments(t *testing.T) {
	extra := `mapping:
  association_sets:
    - set: Management
      fragments:
        - table: dbo.People
          properties:
            - {name: Id, column: id}
            - end: Bos
              properties: [{name: Id, column: boss_id}]
            - end: Report
              properties: [{name: Ident, column: id}]
`

	d := validateSources(t, northwindYAML, extra)

	want := []diagnostic.Code{
		diagnostic.CodeUnknownAssociationEnd, // Id is no end
		diagnostic.CodeUnknownAssociationEnd, // Bos
		diagnostic.CodeUnknownProperty,       // Report.Ident
	}
	if diff := cmp.Diff(want, codes(d)); diff != "" {
		t.Errorf("diagnostic codes mismatch (-want +got):\n%s\n%s", diff, spew.Sdump(d.Errors))
	}

	assert.Equal(t, []string{"Boss"}, d.Errors[1].Suggestions)
	assert.Equal(t, "Report.Ident", d.Errors[2].Member)
}

func TestValidate_EndMappingInEntitySet(t *testing.T) {
	src := replaceOnce(t, northwindYAML, "{name: Rating, column: rating}", "{end: Boss, properties: [{name: Id, column: rating}]}")

	d := validateSources(t, src)
	require.Len(t, d.Errors, 1, spew.Sdump(d.Errors))
	assert.Equal(t, diagnostic.CodeUnknownProperty, d.Errors[0].Code)
	assert.Contains(t, d.Errors[0].Message, "only valid in association set mappings")
}

func TestValidate_FunctionMappings(t *testing.T) {
	tests := []struct {
		name string
		old  string
		new  string
		want []diagnostic.Code
	}{
		{
			name: "composable function",
			old:  "function: dbo.InsertCustomer",
			new:  "function: dbo.TopOrders",
			want: []diagnostic.Code{
				diagnostic.CodeComposableFunctionMapped,
				diagnostic.CodeUnknownParameter,
				diagnostic.CodeUnknownParameter,
				diagnostic.CodeUnknownParameter,
			},
		},
		{
			name: "unknown function",
			old:  "function: dbo.InsertCustomer",
			new:  "function: dbo.InsertCustomers",
			want: []diagnostic.Code{diagnostic.CodeUnknownFunction},
		},
		{
			name: "unknown parameter",
			old:  "{name: rating, member: Rating}",
			new:  "{name: ratings, member: Rating}",
			want: []diagnostic.Code{diagnostic.CodeUnknownParameter},
		},
		{
			name: "unknown member",
			old:  "{name: rating, member: Rating}",
			new:  "{name: rating, member: Salary}",
			want: []diagnostic.Code{diagnostic.CodeUnknownProperty},
		},
		{
			name: "unknown end",
			old:  "association: {set: Management, from: Report, to: Boss}",
			new:  "association: {set: Management, from: Report, to: Chief}",
			want: []diagnostic.Code{diagnostic.CodeUnknownAssociationEnd},
		},
		{
			name: "unknown association set",
			old:  "association: {set: Management, from: Report, to: Boss}",
			new:  "association: {set: Managers, from: Report, to: Boss}",
			want: []diagnostic.Code{diagnostic.CodeUnknownAssociationSet},
		},
		{
			name: "type missing a function mapping",
			old:  "        - type: Customer\n",
			new:  "        - type: Person\n",
			want: []diagnostic.Code{
				diagnostic.CodeUnknownProperty, // Person has no Rating
				diagnostic.CodeMissingFunctionMappingForType,
			},
		},
		{
			name: "type outside the set",
			old:  "        - type: Customer\n",
			new:  "        - type: Order\n",
			want: []diagnostic.Code{
				diagnostic.CodeTypeNotInSet,
				diagnostic.CodeMissingFunctionMappingForType,
			},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			d := validateSources(t, replaceOnce(t, northwindYAML, tt.old, tt.new))

			if diff := cmp.Diff(tt.want, codes(d)); diff != "" {
				t.Errorf("diagnostic codes mismatch (-want +got):\n%s\n%s", diff, spew.Sdump(d.Errors))
			}
		})
	}
}

func TestValidate_DuplicateFunctionMapping(t *testing.T) {
	extra := `mapping:
  entity_sets:
    - set: People
      functions:
        - type: Customer
          delete:
            function: dbo.DeletePerson
            parameters:
              - {name: id, member: Id, version: original}
        - delete:
            function: dbo.DeletePerson
`

	d := validateSources(t, northwindYAML, extra)

	assert.Equal(t, []diagnostic.Code{
		diagnostic.CodeDuplicateName,
		diagnostic.CodeInvalidDeclaration,
	}, codes(d), spew.Sdump(d.Errors))
}

func TestValidate_AssociationFunctionMappings(t *testing.T) {
	extra := `store:
  functions:
    - {name: dbo.SetBoss, parameters: [boss_id, report_id]}
    - {name: dbo.ClearBoss, parameters: [report_id]}
mapping:
  association_sets:
    - set: Management
      functions:
        - type: Employee
          insert:
            function: dbo.SetBoss
            parameters:
              - {name: boss_id, member: Boss.Id}
              - {name: report_id, member: Report.Id}
          update:
            function: dbo.SetBoss
          delete:
            function: dbo.ClearBoss
            parameters:
              - {name: report_id, member: Reprt.Id}
        - delete:
            function: dbo.ClearBoss
            parameters:
              - {name: report_id, member: Report.Name}
`

	d := validateSources(t, northwindYAML, extra)

	want := []diagnostic.Code{
		diagnostic.CodeInvalidAssociationFunctionMapping, // two mappings
		diagnostic.CodeInvalidAssociationFunctionMapping, // names an entity type
		diagnostic.CodeInvalidAssociationFunctionMapping, // maps an update
		diagnostic.CodeUnknownAssociationEnd,             // Reprt
	}
	if diff := cmp.Diff(want, codes(d)); diff != "" {
		t.Errorf("diagnostic codes mismatch (-want +got):\n%s\n%s", diff, spew.Sdump(d.Errors))
	}

	assert.Equal(t, []string{"Report"}, d.Errors[3].Suggestions)
}

func TestValidate_FunctionImports(t *testing.T) {
	extra := `mapping:
  function_imports:
    - {name: GetPeopl, function: dbo.TopOrders}
`

	d := validateSources(t, northwindYAML, extra)

	assert.Equal(t, []diagnostic.Code{
		diagnostic.CodeUnknownFunction,
		diagnostic.CodeComposableFunctionMapped,
	}, codes(d), spew.Sdump(d.Errors))
	assert.Equal(t, []string{"GetPeople"}, d.Errors[0].Suggestions)
}

func TestValidate_DoesNotMutate(t *testing.T) {
	src := replaceOnce(t, northwindYAML, "{name: Rating, column: rating}", "{name: Ratin, column: ratin}")
	pristine := buildSources(t, src)
	res := buildSources(t, src)

	require.False(t, Validate(res.Mapping, res.Catalog).IsValid())

	before, ok := pristine.Mapping.EntitySetMapping("People")
	require.True(t, ok)

	after, ok := res.Mapping.EntitySetMapping("People")
	require.True(t, ok)

	if diff := cmp.Diff(before, after, cmp.AllowUnexported(model.ModificationFunction{})); diff != "" {
		t.Errorf("Validate mutated the mapping (-before +after):\n%s", diff)
	}
}

// codesOrNil is codes with nil for no errors, for comparing with unset fields.
func codesOrNil(d *diagnostic.Diagnostics) []diagnostic.Code {
	if len(d.Errors) == 0 {
		return nil
	}

	return codes(d)
}
