package posts

import (
	"bytes"
	"encoding/json"
	"sort"
	"strconv"
	"time"
)

// Normalization reconciles the backend's inconsistent response shapes into
// canonical Posts. Field aliases, first present wins:
//
//	id        <- id | _id | pk
//	mediaUrl  <- imageUrl | mediaUrl
//	createdAt <- createdAt | _ts | timestamp
//
// Lists arrive either as a bare JSON array or wrapped as {"value": [...]}.

// NormalizeOne maps one raw record to a Post. fallbackID fills the id when
// the backend omitted every alias, so a single-record fetch keeps the id
// the caller asked for.
func NormalizeOne(raw json.RawMessage, fallbackID string) Post {
	p := normalizeValue(decodeRaw(raw))
	if p.ID == "" {
		p.ID = fallbackID
	}
	return p
}

// NormalizeList maps a raw list response to Posts ordered most recent
// first. Entries with missing or unparseable timestamps sort as if dated
// at the epoch, placing them last; the sort is stable for ties.
func NormalizeList(raw json.RawMessage) []Post {
	v := decodeRaw(raw)

	items, ok := v.([]any)
	if !ok {
		// Wrapper shape: the sequence lives under "value".
		if m, isMap := v.(map[string]any); isMap {
			items, _ = m["value"].([]any)
		}
	}

	out := make([]Post, 0, len(items))
	for _, item := range items {
		out = append(out, normalizeValue(item))
	}

	sort.SliceStable(out, func(i, j int) bool {
		return parseWhen(out[i].CreatedAt).After(parseWhen(out[j].CreatedAt))
	})

	return out
}

func normalizeValue(v any) Post {
	m, ok := v.(map[string]any)
	if !ok {
		return Post{}
	}
	return Post{
		ID:        firstString(m, "id", "_id", "pk"),
		Title:     firstString(m, "title"),
		Content:   firstString(m, "content"),
		MediaURL:  firstString(m, "imageUrl", "mediaUrl"),
		CreatedAt: firstString(m, "createdAt", "_ts", "timestamp"),
	}
}

// decodeRaw parses with json.Number so numeric timestamps like Cosmos _ts
// keep their exact decimal rendering.
func decodeRaw(raw json.RawMessage) any {
	dec := json.NewDecoder(bytes.NewReader(raw))
	dec.UseNumber()
	var v any
	if err := dec.Decode(&v); err != nil {
		return nil
	}
	return v
}

// firstString returns the first present key rendered as a string.
func firstString(m map[string]any, keys ...string) string {
	for _, k := range keys {
		switch v := m[k].(type) {
		case string:
			if v != "" {
				return v
			}
		case json.Number:
			return v.String()
		case float64:
			return strconv.FormatFloat(v, 'f', -1, 64)
		}
	}
	return ""
}

// CreatedAtTime parses a normalized createdAt value the same way list
// ordering does. Missing or unparseable values are the epoch.
func CreatedAtTime(s string) time.Time {
	return parseWhen(s)
}

var timeLayouts = []string{
	time.RFC3339Nano,
	time.RFC3339,
	"2006-01-02T15:04:05",
	"2006-01-02 15:04:05",
	"2006-01-02",
}

// parseWhen turns a normalized createdAt string into a sortable time.
// Numeric values are unix seconds, or milliseconds when they are too large
// to be seconds. Anything unparseable is the epoch.
func parseWhen(s string) time.Time {
	if s == "" {
		return time.Unix(0, 0)
	}

	for _, layout := range timeLayouts {
		if t, err := time.Parse(layout, s); err == nil {
			return t
		}
	}

	if n, err := strconv.ParseInt(s, 10, 64); err == nil {
		if n > 1e12 {
			return time.UnixMilli(n)
		}
		return time.Unix(n, 0)
	}

	return time.Unix(0, 0)
}
