package persistence

import (
	"strings"

	"gorm.io/gorm/clause"
)

// sortColumns whitelists the columns a list endpoint may order by. Values
// never reach SQL unless they are keys of the map.
type sortColumns map[string]bool

var (
	productSort  = sortColumns{"created_at": true, "updated_at": true, "title": true, "price": true, "stock_status": true}
	customerSort = sortColumns{"created_at": true, "updated_at": true, "first_name": true, "last_name": true, "email": true, "amount_spent": true, "number_of_orders": true}
	orderSort    = sortColumns{"created_at": true, "updated_at": true, "placed_at": true, "name": true, "total_price": true, "erp_status": true}
	syncRunSort  = sortColumns{"created_at": true, "started_at": true, "finished_at": true, "kind": true, "status": true}
)

// orderBy resolves a requested column and direction into ORDER BY terms.
// Unknown columns fall back to fallback, anything but "asc" sorts descending,
// and id breaks ties so pages stay stable.
func (s sortColumns) orderBy(column, dir, fallback string) clause.OrderBy {
	column = strings.ToLower(strings.TrimSpace(column))
	if !s[column] {
		column = fallback
	}
	desc := !strings.EqualFold(strings.TrimSpace(dir), "asc")
	return clause.OrderBy{Columns: []clause.OrderByColumn{
		{Column: clause.Column{Table: clause.CurrentTable, Name: column}, Desc: desc},
		{Column: clause.Column{Table: clause.CurrentTable, Name: "id"}, Desc: desc},
	}}
}
