package clix

import (
	"fmt"
	"strings"

	"github.com/spf13/pflag"
)

// MaxPageSize caps --limit so one listing cannot pull the whole usage table.
const MaxPageSize = 500

type PaginationParams struct {
	Limit  int
	Offset int
}

// ParsePagination reads --limit and --offset. A non-positive limit falls back
// to defaultLimit.
func ParsePagination(flags *pflag.FlagSet, defaultLimit int) (PaginationParams, error) {
	limit, err := flags.GetInt("limit")
	if err != nil {
		return PaginationParams{}, err
	}
	offset, err := flags.GetInt("offset")
	if err != nil {
		return PaginationParams{}, err
	}
	if limit <= 0 {
		limit = defaultLimit
	}
	if limit > MaxPageSize {
		return PaginationParams{}, fmt.Errorf("limit %d exceeds maximum of %d", limit, MaxPageSize)
	}
	if offset < 0 {
		return PaginationParams{}, fmt.Errorf("offset must not be negative, got %d", offset)
	}
	return PaginationParams{Limit: limit, Offset: offset}, nil
}

// ParseList reads a comma separated string flag, trimming elements and
// dropping empty ones.
func ParseList(flags *pflag.FlagSet, name string) ([]string, error) {
	raw, err := flags.GetString(name)
	if err != nil {
		return nil, err
	}
	var out []string
	for _, t := range strings.Split(raw, ",") {
		if trimmed := strings.TrimSpace(t); trimmed != "" {
			out = append(out, trimmed)
		}
	}
	return out, nil
}
