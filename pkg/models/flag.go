package models

import (
	"fmt"
	"strconv"
	"strings"
)

// Flag is a boolean-ish column value. JSON input may carry true/false or 0/1;
// it always normalizes to 0 or 1, which is how SQLite stores it.
type Flag int

func (f *Flag) UnmarshalJSON(b []byte) error {
	switch s := strings.TrimSpace(string(b)); s {
	case "true":
		*f = 1
	case "false":
		*f = 0
	default:
		n, err := strconv.ParseFloat(s, 64)
		if err != nil {
			return fmt.Errorf("invalid boolean value: %s", s)
		}
		if n != 0 {
			*f = 1
		} else {
			*f = 0
		}
	}
	return nil
}

func (f Flag) MarshalJSON() ([]byte, error) {
	return []byte(strconv.Itoa(int(f))), nil
}

// Int returns the normalized 0/1 value.
func (f Flag) Int() int {
	if f != 0 {
		return 1
	}
	return 0
}
