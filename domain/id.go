package domain

import (
	"bytes"
	"encoding/json"
	"strconv"
)

// ID is a remote-assigned identifier. The remote store may encode ids as
// JSON numbers or strings; both decode to the same textual form.
type ID string

func (id ID) String() string {
	return string(id)
}

// IsZero reports whether the id is unset.
func (id ID) IsZero() bool {
	return id == ""
}

// MarshalJSON emits canonical integers as JSON numbers so numeric ids keep
// the shape the remote store sent them in.
func (id ID) MarshalJSON() ([]byte, error) {
	if id == "" {
		return []byte("null"), nil
	}
	if n, err := strconv.ParseInt(string(id), 10, 64); err == nil && strconv.FormatInt(n, 10) == string(id) {
		return []byte(string(id)), nil
	}
	return json.Marshal(string(id))
}

func (id *ID) UnmarshalJSON(data []byte) error {
	data = bytes.TrimSpace(data)
	if len(data) == 0 || bytes.Equal(data, []byte("null")) {
		*id = ""
		return nil
	}
	if data[0] == '"' {
		var s string
		if err := json.Unmarshal(data, &s); err != nil {
			return err
		}
		*id = ID(s)
		return nil
	}
	var n json.Number
	if err := json.Unmarshal(data, &n); err != nil {
		return WrapError(ErrCodeInvalid, "invalid id", err)
	}
	*id = ID(n.String())
	return nil
}
