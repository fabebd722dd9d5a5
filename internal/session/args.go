package session

import (
	"encoding/json"
	"fmt"
	"strconv"
	"strings"

	"github.com/shopspring/decimal"

	"hompulse/console/internal/model"
)

func cutField(arg string) (string, string, bool) {
	k, v, ok := strings.Cut(arg, ":")
	if !ok || k == "" {
		return "", "", false
	}
	return k, v, true
}

// positional returns the i-th positional argument, or an error naming it
func positional(cmd model.Command, i int, name string) (string, error) {
	args := cmd.Positional()
	if i >= len(args) {
		return "", fmt.Errorf("%s %s: missing <%s>", cmd.Scope, cmd.Operation, name)
	}
	return args[i], nil
}

func positionalID(cmd model.Command, i int, name string) (int64, error) {
	s, err := positional(cmd, i, name)
	if err != nil {
		return 0, err
	}
	return parseID(s, name)
}

func parseID(s, name string) (int64, error) {
	id, err := strconv.ParseInt(s, 10, 64)
	if err != nil || id <= 0 {
		return 0, fmt.Errorf("%s must be a positive integer, got %q", name, s)
	}
	return id, nil
}

// fieldInt reads an integer key:value field; absent fields yield 0
func fieldInt(fields map[string]string, key string) (int64, error) {
	v, ok := fields[key]
	if !ok || v == "" {
		return 0, nil
	}
	n, err := strconv.ParseInt(v, 10, 64)
	if err != nil {
		return 0, fmt.Errorf("%s must be an integer, got %q", key, v)
	}
	return n, nil
}

func fieldDecimal(fields map[string]string, key string) (decimal.Decimal, error) {
	v, ok := fields[key]
	if !ok || v == "" {
		return decimal.Zero, nil
	}
	d, err := decimal.NewFromString(v)
	if err != nil {
		return decimal.Zero, fmt.Errorf("%s must be a number, got %q", key, v)
	}
	return d, nil
}

func fieldBool(fields map[string]string, key string, fallback bool) (bool, error) {
	v, ok := fields[key]
	if !ok || v == "" {
		return fallback, nil
	}
	b, err := strconv.ParseBool(v)
	if err != nil {
		return false, fmt.Errorf("%s must be true or false, got %q", key, v)
	}
	return b, nil
}

// patchKinds names the fields converted from their string form
type patchKinds struct {
	ints     []string
	decimals []string
	bools    []string
}

// patchFields turns key:value fields into a PATCH body.
// Fields not listed in kinds are sent as strings.
func patchFields(fields map[string]string, kinds patchKinds) (map[string]any, error) {
	patch := make(map[string]any, len(fields))
	for k, v := range fields {
		patch[k] = v
	}
	for _, k := range kinds.ints {
		if _, ok := fields[k]; ok {
			n, err := fieldInt(fields, k)
			if err != nil {
				return nil, err
			}
			patch[k] = n
		}
	}
	for _, k := range kinds.decimals {
		if _, ok := fields[k]; ok {
			d, err := fieldDecimal(fields, k)
			if err != nil {
				return nil, err
			}
			patch[k] = json.Number(d.String())
		}
	}
	for _, k := range kinds.bools {
		if _, ok := fields[k]; ok {
			b, err := fieldBool(fields, k, false)
			if err != nil {
				return nil, err
			}
			patch[k] = b
		}
	}
	return patch, nil
}

// idList parses ids given as separate arguments or comma-separated
func idList(args []string) ([]int64, error) {
	ids := []int64{}
	for _, arg := range args {
		for _, part := range strings.Split(arg, ",") {
			part = strings.TrimSpace(part)
			if part == "" {
				continue
			}
			id, err := parseID(part, "permission id")
			if err != nil {
				return nil, err
			}
			ids = append(ids, id)
		}
	}
	return ids, nil
}
