package postgres

import "strings"

func normalizePlan(name string) string {
	return strings.ToLower(strings.TrimSpace(name))
}
