package content

// ExtractRows returns the row array for the detected version: v4's
// `value` array, or v2's `d` (when itself an array) else `d.results`.
func ExtractRows(root map[string]any, version Version) []any {
	if version == VersionV4 {
		if arr, ok := root["value"].([]any); ok {
			return arr
		}
		return nil
	}

	d, ok := root["d"]
	if !ok {
		return nil
	}
	if arr, isArray := d.([]any); isArray {
		return arr
	}
	if dObj, isObj := d.(map[string]any); isObj {
		if results, ok := dObj["results"].([]any); ok {
			return results
		}
	}
	return nil
}

// ExtractNextLink returns the next-page link, per version: v4
// `@odata.nextLink`, v2 `__next`. The caller merges it against the base
// URL (it may be absolute or relative) via internal/urlx.
func ExtractNextLink(root map[string]any, version Version) (string, bool) {
	if version == VersionV4 {
		link, ok := root["@odata.nextLink"].(string)
		return link, ok
	}
	d, ok := root["d"].(map[string]any)
	if !ok {
		return "", false
	}
	link, ok := d["__next"].(string)
	return link, ok
}

// ExtractCount returns the total result count, if present, per version:
// v4 `@odata.count`, v2 `__count` (a string, under `d`).
func ExtractCount(root map[string]any, version Version) (int64, bool) {
	if version == VersionV4 {
		n, ok := root["@odata.count"].(float64)
		if !ok {
			return 0, false
		}
		return int64(n), true
	}
	d, ok := root["d"].(map[string]any)
	if !ok {
		return 0, false
	}
	switch v := d["__count"].(type) {
	case string:
		n, err := parseInt64(v)
		if err != nil {
			return 0, false
		}
		return n, true
	case float64:
		return int64(v), true
	default:
		return 0, false
	}
}

// ExtractMetadataContext returns the v4 `@odata.context` URL with its
// fragment stripped, per spec.md §4.3 ("Metadata context URL: v4
// @odata.context (strip #fragment)"). v2 typically has none.
func ExtractMetadataContext(root map[string]any) (string, bool) {
	ctx, ok := root["@odata.context"].(string)
	if !ok {
		return "", false
	}
	if idx := indexByte(ctx, '#'); idx >= 0 {
		return ctx[:idx], true
	}
	return ctx, true
}

func indexByte(s string, b byte) int {
	for i := 0; i < len(s); i++ {
		if s[i] == b {
			return i
		}
	}
	return -1
}

func parseInt64(s string) (int64, error) {
	var n int64
	neg := false
	i := 0
	if len(s) > 0 && (s[0] == '-' || s[0] == '+') {
		neg = s[0] == '-'
		i = 1
	}
	if i == len(s) {
		return 0, &malformedIntError{s}
	}
	for ; i < len(s); i++ {
		c := s[i]
		if c < '0' || c > '9' {
			return 0, &malformedIntError{s}
		}
		n = n*10 + int64(c-'0')
	}
	if neg {
		n = -n
	}
	return n, nil
}

type malformedIntError struct{ raw string }

func (e *malformedIntError) Error() string { return "content: malformed integer " + e.raw }
