package utils

import "strings"

// SplitCommaList splits a comma separated list, trimming items and dropping
// empty and repeated ones while keeping the first-seen order.
func SplitCommaList(raw string) []string {
	seen := make(map[string]bool)
	list := []string{}
	for _, part := range strings.Split(raw, ",") {
		item := strings.TrimSpace(part)
		if item == "" || seen[item] {
			continue
		}
		seen[item] = true
		list = append(list, item)
	}
	return list
}
