package match

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestSuggest(t *testing.T) {
	tables := []string{"dbo.People", "dbo.Orders", "dbo.Employees"}

	assert.Equal(t, []string{"dbo.People"}, Suggest("dbo.Peple", tables, 3))
	assert.Nil(t, Suggest("dbo.Peple", tables, 0))
	assert.Nil(t, Suggest("", tables, 3))
	assert.Nil(t, Suggest("Invoices", tables, 3))
}

func TestSuggest_LimitAndOrder(t *testing.T) {
	types := []string{"Order", "Personal", "Persons", "Person"}

	assert.Equal(t, []string{"Person", "Persons"}, Suggest("Persn", types, 2))
	assert.Equal(t, []string{"Person", "Persons", "Personal"}, Suggest("Persn", types, 5))
}

func TestSuggest_ExcludesTarget(t *testing.T) {
	assert.Equal(t, []string{"Persons"}, Suggest("Person", []string{"Person", "Persons"}, 3))
}

func TestRank_Deterministic(t *testing.T) {
	ranked := Rank("ab", []string{"ac", "aa"})
	require.Len(t, ranked, 2)
	assert.Equal(t, []string{"aa", "ac"}, ranked.Names())

	assert.Equal(t, "aa", ranked[0].Name)
	assert.Nil(t, CandidateList{}.Names())
	assert.Len(t, ranked.Top(1), 1)
	assert.Len(t, ranked.Top(10), 2)
}
