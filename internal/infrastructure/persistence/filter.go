package persistence

import (
	"regexp"
	"strings"

	"gorm.io/gorm"

	"github.com/stocklot/backend/internal/domain/shared"
)

var orderColumnPattern = regexp.MustCompile(`^[a-z][a-z0-9_]*$`)

// applyPaging applies pagination and ordering from a shared.Filter. OrderBy
// is restricted to plain column names so caller input can never reach the
// ORDER BY clause as SQL.
func applyPaging(query *gorm.DB, filter shared.Filter, defaultOrder string) *gorm.DB {
	if filter.Page > 0 && filter.PageSize > 0 {
		offset := (filter.Page - 1) * filter.PageSize
		query = query.Offset(offset).Limit(filter.PageSize)
	}

	if filter.OrderBy != "" && orderColumnPattern.MatchString(filter.OrderBy) {
		dir := "ASC"
		if strings.ToLower(filter.OrderDir) == "desc" {
			dir = "DESC"
		}
		return query.Order(filter.OrderBy + " " + dir)
	}
	return query.Order(defaultOrder)
}
