package jsonutil

import (
	"encoding/json"
	"fmt"
	"strconv"
	"strings"
)

// LineItem is one entry of a financial/production answer payload.
// Amount defaults to 1 when the payload carries a price only (health
// costs, feed costs), so Total is always amount*price.
type LineItem struct {
	Amount float64
	Price  float64
}

// Total returns amount*price summed across entries.
func Total(items []LineItem) float64 {
	var sum float64
	for _, it := range items {
		sum += it.Amount * it.Price
	}
	return sum
}

// rawLineItem tolerates numbers arriving as JSON numbers or as quoted
// strings; mobile clients have produced both shapes.
type rawLineItem struct {
	Amount json.RawMessage `json:"amount"`
	Price  json.RawMessage `json:"price"`
}

// ParseLineItems decodes a JSON-encoded ordered list of
// {amount?, price?} tuples. The list must be non-empty; a payload that
// is not a list of tuples is an error so the caller can skip the
// record and keep the aggregate going.
func ParseLineItems(value string) ([]LineItem, error) {
	var raw []rawLineItem
	if err := json.Unmarshal([]byte(value), &raw); err != nil {
		return nil, fmt.Errorf("payload is not a tuple list: %w", err)
	}
	if len(raw) == 0 {
		return nil, fmt.Errorf("payload tuple list is empty")
	}

	items := make([]LineItem, 0, len(raw))
	for i, r := range raw {
		amount, ok, err := flexibleFloat(r.Amount)
		if err != nil {
			return nil, fmt.Errorf("entry %d: bad amount: %w", i, err)
		}
		if !ok {
			amount = 1 // price-only entry
		}

		price, ok, err := flexibleFloat(r.Price)
		if err != nil {
			return nil, fmt.Errorf("entry %d: bad price: %w", i, err)
		}
		if !ok {
			return nil, fmt.Errorf("entry %d: missing price", i)
		}

		items = append(items, LineItem{Amount: amount, Price: price})
	}
	return items, nil
}

// ParseMetric decodes a single-field {name: number} quality-metric
// payload (fat, SNF) and returns the numeric value.
func ParseMetric(value string) (float64, error) {
	var raw map[string]json.RawMessage
	if err := json.Unmarshal([]byte(value), &raw); err != nil {
		return 0, fmt.Errorf("payload is not a metric object: %w", err)
	}

	for _, v := range raw {
		f, ok, err := flexibleFloat(v)
		if err != nil || !ok {
			continue
		}
		return f, nil
	}
	return 0, fmt.Errorf("metric object has no numeric value")
}

// ParseScalar decodes a plain numeric answer value. Accepts bare
// numbers ("1500"), decimal strings and JSON-quoted numbers.
func ParseScalar(value string) (float64, error) {
	s := strings.TrimSpace(value)
	s = strings.Trim(s, `"`)
	f, err := strconv.ParseFloat(s, 64)
	if err != nil {
		return 0, fmt.Errorf("value is not numeric: %w", err)
	}
	return f, nil
}

// flexibleFloat converts a raw JSON value to a float64, handling both
// number and quoted-string encodings. The second return is false when
// the field is absent or null.
func flexibleFloat(raw json.RawMessage) (float64, bool, error) {
	if len(raw) == 0 || string(raw) == "null" {
		return 0, false, nil
	}

	var num float64
	if err := json.Unmarshal(raw, &num); err == nil {
		return num, true, nil
	}

	var str string
	if err := json.Unmarshal(raw, &str); err == nil {
		str = strings.TrimSpace(str)
		if str == "" {
			return 0, false, nil
		}
		num, err := strconv.ParseFloat(str, 64)
		if err != nil {
			return 0, false, err
		}
		return num, true, nil
	}

	return 0, false, fmt.Errorf("value %s is neither number nor string", string(raw))
}
