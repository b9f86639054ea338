package repository

import (
	"errors"
	"fmt"
	"strings"
)

// ErrNoSnapshot is returned by Load* when nothing has been saved yet.
var ErrNoSnapshot = errors.New("no snapshot saved")

const listSeparator = ";"

// checkList reports items that would not survive joinList/splitList.
func checkList[T ~string](field string, items []T) error {
	for _, item := range items {
		v := string(item)
		if strings.TrimSpace(v) != v || v == "" || strings.Contains(v, listSeparator) {
			return fmt.Errorf("%s: item %q cannot be stored in a %q separated list", field, v, listSeparator)
		}
	}
	return nil
}

func joinList[T ~string](items []T) string {
	parts := make([]string, len(items))
	for i, item := range items {
		parts[i] = string(item)
	}
	return strings.Join(parts, listSeparator)
}

func splitList[T ~string](raw string) []T {
	if raw == "" {
		return nil
	}
	parts := strings.Split(raw, listSeparator)
	out := make([]T, 0, len(parts))
	for _, part := range parts {
		if part = strings.TrimSpace(part); part != "" {
			out = append(out, T(part))
		}
	}
	return out
}
