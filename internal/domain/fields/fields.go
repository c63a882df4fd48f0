package fields

import (
	"encoding/json"
	"fmt"
	"strconv"
)

// Rating is a title's mean review score. It is computed at read time and is
// null, not zero, for titles without reviews.
type Rating struct {
	Value float64
	Valid bool
}

func (r Rating) MarshalJSON() ([]byte, error) {
	if !r.Valid {
		return []byte("null"), nil
	}
	return []byte(strconv.FormatFloat(r.Value, 'f', -1, 64)), nil
}

func (r *Rating) UnmarshalJSON(data []byte) error {
	if string(data) == "null" {
		*r = Rating{}
		return nil
	}
	var v float64
	if err := json.Unmarshal(data, &v); err != nil {
		return err
	}
	*r = Rating{Value: v, Valid: true}
	return nil
}

// Scan implements the database scanner contract for avg() results, which
// arrive as NULL or a numeric value depending on whether reviews exist.
func (r *Rating) Scan(src any) error {
	if src == nil {
		*r = Rating{}
		return nil
	}
	switch v := src.(type) {
	case float64:
		*r = Rating{Value: v, Valid: true}
	case int64:
		*r = Rating{Value: float64(v), Valid: true}
	case string:
		parsed, err := strconv.ParseFloat(v, 64)
		if err != nil {
			return err
		}
		*r = Rating{Value: parsed, Valid: true}
	case []byte:
		parsed, err := strconv.ParseFloat(string(v), 64)
		if err != nil {
			return err
		}
		*r = Rating{Value: parsed, Valid: true}
	default:
		return fmt.Errorf("cannot scan %T into Rating", src)
	}
	return nil
}
