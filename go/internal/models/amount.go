package models

import (
	"encoding/json"
	"strconv"
	"strings"
)

// NotYetSold is the marker the summary endpoint sends instead of a price.
const NotYetSold = "Yet to be sold"

// Amount is a number the backend may send as a JSON number, a numeric
// string, null, or a marker string such as NotYetSold. Only the first two
// produce a valid amount.
type Amount struct {
	Value float64
	Valid bool
}

func NewAmount(v float64) Amount {
	return Amount{Value: v, Valid: true}
}

func (a *Amount) UnmarshalJSON(data []byte) error {
	*a = Amount{}
	trimmed := strings.TrimSpace(string(data))
	if trimmed == "" || trimmed == "null" {
		return nil
	}

	if strings.HasPrefix(trimmed, `"`) {
		var s string
		if err := json.Unmarshal(data, &s); err != nil {
			return err
		}
		if v, err := strconv.ParseFloat(strings.TrimSpace(s), 64); err == nil {
			*a = NewAmount(v)
		}
		return nil
	}

	var v float64
	if err := json.Unmarshal(data, &v); err != nil {
		return err
	}
	*a = NewAmount(v)
	return nil
}

func (a Amount) MarshalJSON() ([]byte, error) {
	if !a.Valid {
		return []byte("null"), nil
	}
	return json.Marshal(a.Value)
}

// Int returns the amount truncated to an int, or 0 when unset.
func (a Amount) Int() int {
	if !a.Valid {
		return 0
	}
	return int(a.Value)
}
