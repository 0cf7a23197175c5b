package repositories

import "gorm.io/gorm"

// paginate applies skip/limit paging to a list query. A non-positive limit
// leaves the result uncapped.
func paginate(query *gorm.DB, skip, limit int) *gorm.DB {
	if skip > 0 {
		query = query.Offset(skip)
	}
	if limit > 0 {
		query = query.Limit(limit)
	}
	return query
}
