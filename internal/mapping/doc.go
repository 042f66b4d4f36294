// Package mapping provides the YAML mapping document schema, its loader,
// the builder that turns documents into a catalog and a sealed container
// mapping, and structural validation of the result.
//
// # Schema Overview
//
// A document has up to three sections. Several documents (in one file
// separated by "---", or in several files) describing the same container
// are merged.
//
//	version: "1"
//	conceptual:
//	  container: Northwind
//	  entity_types:
//	    - name: Person
//	      abstract: true
//	      key: Id
//	      properties: [Id, Name]
//	    - name: Employee
//	      base: Person
//	      properties: [Salary]
//	  associations:
//	    - name: Manages
//	      ends:
//	        - {role: Boss, type: Employee, multiplicity: "0..1"}
//	        - {role: Report, type: Employee, multiplicity: "*"}
//	  entity_sets:
//	    - {name: People, type: Person}
//	  association_sets:
//	    - name: Management
//	      association: Manages
//	      ends:
//	        - {role: Boss, entity_set: People}
//	        - {role: Report, entity_set: People}
//	store:
//	  container: NorthwindStore
//	  tables:
//	    - {name: dbo.People, key: id, columns: [id, name, salary, boss_id, kind]}
//	  foreign_keys:
//	    - name: FK_People_Boss
//	      from: {table: dbo.People, columns: boss_id}
//	      to: {table: dbo.People, columns: id}
//	  functions:
//	    - {name: dbo.InsertEmployee, parameters: [id, name, salary, boss_id]}
//	mapping:
//	  entity_sets:
//	    - set: People
//	      table: dbo.People               # default table of the fragments
//	      types:
//	        - types: IsTypeOf(Person)     # or "Person", or {name, include_subtypes}
//	          fragments:
//	            - properties:
//	                - {name: Id, column: id}
//	                - {name: Name, column: name}
//	        - types: Employee
//	          fragments:
//	            - properties:
//	                - {name: Salary, column: salary}
//	              conditions:
//	                - {column: kind, value: E}
//	      functions:
//	        - type: Employee
//	          insert:
//	            function: dbo.InsertEmployee
//	            parameters:
//	              - {name: id, member: Id}
//	              - name: boss_id
//	                member: Id
//	                association: {set: Management, from: Report, to: Boss}
//	  association_sets:
//	    - set: Management
//	      table: dbo.People
//	      fragments:                      # shorthand for the association type
//	        - properties:
//	            - end: Boss
//	              properties: [{name: Id, column: boss_id}]
//	            - end: Report
//	              properties: [{name: Id, column: id}]
//
// # Build
//
// Build resolves nothing beyond what it needs to assemble the graph. It
// reports duplicate declarations, malformed association ends, conflicting
// partial set mappings and functions binding two ends of one association
// set (MultipleEndsMapped). Every element keeps its line and column.
//
// # Validate
//
// Validate resolves every name against the catalog, attaching "did you mean"
// suggestions, and checks the structural rules of a mapping: query views and
// fragments are exclusive, type-qualified query views are unique, a fragment
// maps a column once and conditions a member once, mapped functions are
// non-composable, entity sets with function mappings cover every concrete
// type, and association sets map at most insert and delete.
package mapping
