package api

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"

	"github.com/ohler55/ojg/jp"
)

// envelopePaths are checked in order when a list endpoint does not return a bare array
var envelopePaths = []jp.Expr{
	jp.MustParseString("$.items"),
	jp.MustParseString("$.records"),
	jp.MustParseString("$.orders"),
	jp.MustParseString("$.logs"),
	jp.MustParseString("$.transactions"),
	jp.MustParseString("$.data"),
}

// GetList fetches a list endpoint and decodes its rows into out, which must point to a slice.
// A bare array is used as is; otherwise the first envelope field holding an array is used;
// a response with neither decodes as an empty list.
func (c *Client) GetList(ctx context.Context, path string, out any) error {
	return c.GetMappedList(ctx, path, "", out)
}

// GetMappedList is GetList with the field map of entity applied to each row
func (c *Client) GetMappedList(ctx context.Context, path, entity string, out any) error {
	body, err := c.do(ctx, "GET", path, nil, "")
	if err != nil {
		return err
	}
	rows, err := UnwrapList(body)
	if err != nil {
		return fmt.Errorf("decode list %s: %w", path, err)
	}
	return DecodeMapped(entity, rows, out)
}

// UnwrapList applies the list unwrapping rule to a raw JSON body
func UnwrapList(body []byte) ([]any, error) {
	if len(bytes.TrimSpace(body)) == 0 {
		return []any{}, nil
	}
	data, err := parseGeneric(body)
	if err != nil {
		return nil, err
	}
	return unwrapGeneric(data), nil
}

func unwrapGeneric(data any) []any {
	if rows, ok := data.([]any); ok {
		return rows
	}
	if _, ok := data.(map[string]any); !ok {
		return []any{}
	}
	for _, expr := range envelopePaths {
		for _, v := range expr.Get(data) {
			if rows, ok := v.([]any); ok {
				return rows
			}
		}
	}
	return []any{}
}

// parseGeneric decodes JSON keeping numbers exact so that money fields survive re-encoding
func parseGeneric(body []byte) (any, error) {
	dec := json.NewDecoder(bytes.NewReader(body))
	dec.UseNumber()
	var data any
	if err := dec.Decode(&data); err != nil {
		return nil, err
	}
	return data, nil
}
