package persistence

import (
	"strings"
)

// ValidateSortOrder normalizes the sort order to ASC or DESC, with
// ASC as the default.
func ValidateSortOrder(orderDir string) string {
	if strings.ToUpper(strings.TrimSpace(orderDir)) == "DESC" {
		return "DESC"
	}
	return "ASC"
}

// ValidateSortField checks the sort field against a whitelist so
// caller-supplied order-by values never reach the SQL directly.
func ValidateSortField(sortField string, allowedFields map[string]bool, defaultField string) string {
	trimmed := strings.TrimSpace(sortField)
	if trimmed == "" || !allowedFields[trimmed] {
		return defaultField
	}
	return trimmed
}

// Allowed sort fields per aggregate

var productSortFields = map[string]bool{
	"id":         true,
	"created_at": true,
	"updated_at": true,
	"code":       true,
	"name":       true,
	"unit_price": true,
	"status":     true,
}

var categorySortFields = map[string]bool{
	"id":         true,
	"created_at": true,
	"updated_at": true,
	"code":       true,
	"name":       true,
	"sort_order": true,
	"status":     true,
}

var catalogueSortFields = map[string]bool{
	"id":         true,
	"created_at": true,
	"updated_at": true,
	"name":       true,
	"opens_at":   true,
	"closes_at":  true,
	"status":     true,
}

var supplierSortFields = map[string]bool{
	"id":         true,
	"created_at": true,
	"updated_at": true,
	"code":       true,
	"name":       true,
	"sort_order": true,
	"status":     true,
}

var userSortFields = map[string]bool{
	"id":            true,
	"created_at":    true,
	"updated_at":    true,
	"username":      true,
	"email":         true,
	"display_name":  true,
	"member_number": true,
	"status":        true,
	"last_login_at": true,
}

var roleSortFields = map[string]bool{
	"id":         true,
	"created_at": true,
	"updated_at": true,
	"code":       true,
	"name":       true,
}

var orderSortFields = map[string]bool{
	"id":         true,
	"created_at": true,
	"updated_at": true,
	"number":     true,
	"ordered_at": true,
	"status":     true,
	"total":      true,
}

var saleSortFields = map[string]bool{
	"id":         true,
	"created_at": true,
	"number":     true,
	"sold_at":    true,
	"total":      true,
}
