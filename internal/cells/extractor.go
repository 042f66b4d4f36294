package cells

import (
	"mapvet/internal/common"
	"mapvet/internal/model"
)

// Extractor produces the flat cell list of a container mapping, with the
// identifiers the cells use. ok is false when no cells could be produced.
type Extractor interface {
	Extract(cm *model.ContainerMapping) (cells []model.Cell, identifiers []string, ok bool)
}

// ExtractorFunc adapts a function to Extractor.
type ExtractorFunc func(cm *model.ContainerMapping) ([]model.Cell, []string, bool)

// Extract calls f.
func (f ExtractorFunc) Extract(cm *model.ContainerMapping) ([]model.Cell, []string, bool) {
	return f(cm)
}

// FragmentExtractor makes one cell per mapping fragment. Sets mapped by a
// query view contribute no cells.
type FragmentExtractor struct{}

var _ Extractor = FragmentExtractor{}

// Extract walks the set mappings in name order, entity sets first.
// Identifiers are the sorted set, table, member and column names of the
// cells.
func (FragmentExtractor) Extract(cm *model.ContainerMapping) ([]model.Cell, []string, bool) {
	if cm == nil {
		return nil, nil, false
	}

	var cells []model.Cell

	ids := common.NewSet[string]()

	for _, sm := range cm.AllSetMappings() {
		if sm.HasQueryView() {
			continue
		}

		for i := range sm.TypeMappings {
			tm := &sm.TypeMappings[i]

			for j := range tm.Fragments {
				cell := fragmentCell(sm.Set, tm.Types, &tm.Fragments[j])
				if cell.Table == "" {
					cell.Table = sm.DefaultTable
				}

				ids.Add(cell.Set)
				ids.Add(cell.Table)

				for _, c := range cell.Correspondences {
					ids.Add(c.Member)
					ids.Add(c.Column)
				}

				cells = append(cells, cell)
			}
		}
	}

	return cells, ids.Sorted(), true
}

func fragmentCell(set string, types []model.TypeRef, f *model.Fragment) model.Cell {
	cell := model.Cell{
		Set:      set,
		Types:    append([]model.TypeRef(nil), types...),
		Table:    f.Table,
		Distinct: f.Distinct,
		Location: f.Location,
	}

	for _, pm := range f.Properties {
		for _, leaf := range pm.Leaves() {
			cell.Correspondences = append(cell.Correspondences, model.Correspondence{
				Member: leaf.Path,
				Column: leaf.Column,
			})
		}
	}

	for _, c := range f.Conditions {
		cond := model.CellCondition{Target: c.Target(), Store: c.IsStoreCondition()}

		switch {
		case c.IsNull != nil && *c.IsNull:
			cond.Kind = model.ConditionIsNull
		case c.IsNull != nil:
			cond.Kind = model.ConditionIsNotNull
		case c.Value != nil:
			cond.Kind = model.ConditionEquals
			cond.Value = *c.Value
		}

		cell.Conditions = append(cell.Conditions, cond)
	}

	return cell
}
