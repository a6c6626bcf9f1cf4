package core

import (
	"slices"
	"strings"
)

// SortServices returns a copy of services ordered by item: purely numeric
// items first in numeric order, then every other item in string order.
// Equal items keep their original relative order.
func SortServices(services []Service) []Service {
	out := slices.Clone(services)
	slices.SortStableFunc(out, func(a, b Service) int {
		return CompareItems(a.Item, b.Item)
	})
	return out
}

// CompareItems orders two service items the way SortServices does.
func CompareItems(a, b string) int {
	aNum, bNum := isDigits(a), isDigits(b)
	switch {
	case aNum && bNum:
		return compareDigits(a, b)
	case aNum:
		return -1
	case bNum:
		return 1
	default:
		return strings.Compare(a, b)
	}
}

func isDigits(s string) bool {
	if s == "" {
		return false
	}
	for i := 0; i < len(s); i++ {
		if s[i] < '0' || s[i] > '9' {
			return false
		}
	}
	return true
}

// compareDigits compares digit strings numerically without parsing them, so
// items longer than an int64 still sort as numbers.
func compareDigits(a, b string) int {
	a = strings.TrimLeft(a, "0")
	b = strings.TrimLeft(b, "0")
	if len(a) != len(b) {
		if len(a) < len(b) {
			return -1
		}
		return 1
	}
	return strings.Compare(a, b)
}
