package repository

import (
	"strings"

	"gorm.io/gorm"
)

// MaxPageSize is the maximum allowed page size for paginated queries
const MaxPageSize = 200

// DefaultPageSize applies when the caller does not pass a limit
const DefaultPageSize = 10

// SortOrder represents the sort direction
type SortOrder string

const (
	SortOrderAsc  SortOrder = "asc"
	SortOrderDesc SortOrder = "desc"
)

// SortConfig holds sorting configuration for list queries
type SortConfig struct {
	Field string    // The field to sort by (API field name)
	Order SortOrder // asc or desc
}

// DefaultSortConfig returns a default sort configuration (createdAt DESC)
func DefaultSortConfig() SortConfig {
	return SortConfig{
		Field: "createdAt",
		Order: SortOrderDesc,
	}
}

// ParseSortOrder parses a string into SortOrder, defaulting to desc
func ParseSortOrder(s string) SortOrder {
	if strings.ToLower(s) == "asc" {
		return SortOrderAsc
	}
	return SortOrderDesc
}

// ParseSort parses "field" or "-field" into a SortConfig.
// A leading "-" means descending. An empty string yields the default sort.
func ParseSort(s string) SortConfig {
	s = strings.TrimSpace(s)
	if s == "" {
		return DefaultSortConfig()
	}
	if strings.HasPrefix(s, "-") {
		return SortConfig{Field: strings.TrimPrefix(s, "-"), Order: SortOrderDesc}
	}
	return SortConfig{Field: s, Order: SortOrderAsc}
}

// BuildOrderClause builds the SQL ORDER BY clause from field mapping and sort config
// fieldMap maps API field names to database column names
// Returns the default sort if field is not in whitelist
func BuildOrderClause(config SortConfig, fieldMap map[string]string, defaultColumn string) string {
	column, ok := fieldMap[config.Field]
	if !ok {
		return defaultColumn + " DESC"
	}

	order := "DESC"
	if config.Order == SortOrderAsc {
		order = "ASC"
	}

	return column + " " + order
}

// NormalizePage clamps page and page size into the allowed range
func NormalizePage(page, pageSize int) (int, int) {
	if page < 1 {
		page = 1
	}
	if pageSize < 1 {
		pageSize = DefaultPageSize
	}
	if pageSize > MaxPageSize {
		pageSize = MaxPageSize
	}
	return page, pageSize
}

// Paginate applies offset and limit for a normalized page
func Paginate(query *gorm.DB, page, pageSize int) *gorm.DB {
	return query.Offset((page - 1) * pageSize).Limit(pageSize)
}

// likeEscaper neutralises LIKE wildcards. Queries pair it with ESCAPE '!'.
var likeEscaper = strings.NewReplacer("!", "!!", "%", "!%", "_", "!_")

// likePattern lowercases a search term, escapes wildcards and wraps it for
// substring matching
func likePattern(search string) string {
	return "%" + likeEscaper.Replace(strings.ToLower(strings.TrimSpace(search))) + "%"
}
