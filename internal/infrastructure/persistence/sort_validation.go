package persistence

import (
	"strings"
)

// ValidateSortOrder validates and normalizes the sort order to ASC or DESC.
// Returns "DESC" as the default if the input is invalid or empty.
func ValidateSortOrder(orderDir string) string {
	normalized := strings.ToUpper(strings.TrimSpace(orderDir))
	if normalized == "ASC" {
		return "ASC"
	}
	return "DESC"
}

// ValidateSortField validates the sort field against a whitelist of allowed fields.
// Returns the defaultField if the input is invalid, empty, or not in the whitelist.
func ValidateSortField(sortField string, allowedFields map[string]bool, defaultField string) string {
	trimmed := strings.TrimSpace(sortField)
	if trimmed == "" {
		return defaultField
	}
	if allowedFields[trimmed] {
		return trimmed
	}
	return defaultField
}

// ShipmentSortFields contains allowed sort fields for shipments
var ShipmentSortFields = map[string]bool{
	"created_at": true,
	"updated_at": true,
	"number":     true,
}

// RequestSortFields contains allowed sort fields for requests
var RequestSortFields = map[string]bool{
	"created_at":       true,
	"updated_at":       true,
	"number":           true,
	"places":           true,
	"warehouse_number": true,
}

// orderClause builds a whitelisted ORDER BY for table
func orderClause(table, orderBy, orderDir string, allowed map[string]bool) string {
	field := ValidateSortField(orderBy, allowed, "created_at")
	return table + "." + field + " " + ValidateSortOrder(orderDir)
}
