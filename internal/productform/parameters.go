package productform

import "github.com/01moynul/taptosell-admin/internal/models"

// FindCategory returns the category with id, or nil.
func FindCategory(categories []models.Category, id int64) *models.Category {
	for i := range categories {
		if categories[i].ID == id {
			return &categories[i]
		}
	}
	return nil
}

// SyncParameters builds one row per parameter of category, in the category's
// order. A row keeps the value of the matching row in previous (matched by
// parameter id); rows for parameters the category does not define are dropped.
func SyncParameters(category *models.Category, previous []models.ParameterProduct) []models.ParameterProduct {
	rows := []models.ParameterProduct{}
	if category == nil {
		return rows
	}

	values := make(map[int64]string, len(previous))
	for _, pp := range previous {
		id := pp.ParameterID
		if id == 0 && pp.Parameter != nil {
			id = pp.Parameter.ID
		}
		values[id] = pp.Value
	}

	for i := range category.Parameters {
		param := &category.Parameters[i]
		rows = append(rows, models.ParameterProduct{
			ParameterID: param.ID,
			Parameter:   param,
			Value:       values[param.ID],
		})
	}
	return rows
}

// UpdateParameterValue returns a copy of rows with the value at index
// replaced. Other rows are carried over unchanged; an out-of-range index
// returns rows as is.
func UpdateParameterValue(rows []models.ParameterProduct, index int, value string) []models.ParameterProduct {
	if index < 0 || index >= len(rows) {
		return rows
	}
	out := make([]models.ParameterProduct, len(rows))
	copy(out, rows)
	out[index].Value = value
	return out
}
