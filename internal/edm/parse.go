package edm

import "strconv"

// parseInt parses a decimal string into an int64, used when JSON numeric
// target types are fed a JSON string per spec §4.3 ("for numeric/boolean
// target types, string is parsed").
func parseInt(s string) (int64, error) {
	return strconv.ParseInt(s, 10, 64)
}
