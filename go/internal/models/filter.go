package models

import "strings"

// FilterByName keeps the items whose name contains query, ignoring case.
// An empty query keeps everything.
func FilterByName[T any](items []T, query string, nameOf func(T) string) []T {
	if query == "" {
		return items
	}

	needle := strings.ToLower(query)
	filtered := make([]T, 0, len(items))
	for _, item := range items {
		if strings.Contains(strings.ToLower(nameOf(item)), needle) {
			filtered = append(filtered, item)
		}
	}
	return filtered
}
