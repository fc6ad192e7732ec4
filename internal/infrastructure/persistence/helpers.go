package persistence

import (
	"errors"
	"strings"

	"github.com/erp/storesync/internal/domain/shared"
	"gorm.io/gorm"
)

// notFound maps GORM's missing-row error onto the domain sentinel
func notFound(err error) error {
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return shared.ErrNotFound
	}
	return err
}

// likePattern builds a case-insensitive LIKE pattern for LOWER(column) LIKE ?
func likePattern(search string) string {
	search = strings.ToLower(strings.TrimSpace(search))
	search = strings.NewReplacer(`\`, `\\`, "%", `\%`, "_", `\_`).Replace(search)
	return "%" + search + "%"
}

// paginate applies ordering and paging from filter
func paginate(query *gorm.DB, filter shared.Filter, columns sortColumns, fallback string) *gorm.DB {
	query = query.Clauses(columns.orderBy(filter.OrderBy, filter.OrderDir, fallback))
	if filter.PageSize > 0 {
		query = query.Offset(filter.Offset()).Limit(filter.PageSize)
	}
	return query
}
