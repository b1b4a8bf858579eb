package booths

import (
	"bytes"
	"encoding/json"
	"fmt"
	"strconv"
	"strings"
)

// Count is a vote count stored as text. It decodes from either a JSON number
// or a JSON string and always encodes as a string.
type Count string

func (c *Count) UnmarshalJSON(b []byte) error {
	b = bytes.TrimSpace(b)
	if len(b) == 0 || bytes.Equal(b, []byte("null")) {
		*c = ""
		return nil
	}
	if b[0] == '"' {
		var s string
		if err := json.Unmarshal(b, &s); err != nil {
			return err
		}
		*c = Count(strings.TrimSpace(s))
		return nil
	}
	var n json.Number
	if err := json.Unmarshal(b, &n); err != nil {
		return fmt.Errorf("count must be a number or numeric string: %w", err)
	}
	*c = Count(n.String())
	return nil
}

// Int parses the count. A blank count is zero.
func (c Count) Int() (int64, error) {
	s := strings.TrimSpace(string(c))
	if s == "" {
		return 0, nil
	}
	return strconv.ParseInt(s, 10, 64)
}
