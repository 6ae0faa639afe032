package model

import (
	"bytes"
	"encoding/json"
	"fmt"
)

// Averages is an ordered grade→average mapping. On the wire it is a JSON
// object whose key order is meaningful: the chart renders categories in
// exactly this order, so both marshal and unmarshal preserve it.
type Averages []GradeAvg

// Get returns the value for a grade and whether it is present.
func (a Averages) Get(grade string) (float64, bool) {
	for _, g := range a {
		if g.Grade == grade {
			return g.Value, true
		}
	}
	return 0, false
}

// Keys returns the grade labels in order.
func (a Averages) Keys() []string {
	keys := make([]string, 0, len(a))
	for _, g := range a {
		keys = append(keys, g.Grade)
	}
	return keys
}

// MarshalJSON encodes the averages as a JSON object in slice order.
func (a Averages) MarshalJSON() ([]byte, error) {
	var buf bytes.Buffer
	buf.WriteByte('{')
	for i, g := range a {
		if i > 0 {
			buf.WriteByte(',')
		}
		key, err := json.Marshal(g.Grade)
		if err != nil {
			return nil, err
		}
		buf.Write(key)
		buf.WriteByte(':')
		val, err := json.Marshal(g.Value)
		if err != nil {
			return nil, err
		}
		buf.Write(val)
	}
	buf.WriteByte('}')
	return buf.Bytes(), nil
}

// UnmarshalJSON decodes a JSON object keeping its key order.
func (a *Averages) UnmarshalJSON(data []byte) error {
	dec := json.NewDecoder(bytes.NewReader(data))
	dec.UseNumber()

	tok, err := dec.Token()
	if err != nil {
		return err
	}
	if tok == nil {
		*a = nil
		return nil
	}
	if d, ok := tok.(json.Delim); !ok || d != '{' {
		return fmt.Errorf("model: averages: expected object, got %v", tok)
	}

	out := Averages{}
	for dec.More() {
		keyTok, err := dec.Token()
		if err != nil {
			return err
		}
		key, ok := keyTok.(string)
		if !ok {
			return fmt.Errorf("model: averages: non-string key %v", keyTok)
		}
		valTok, err := dec.Token()
		if err != nil {
			return err
		}
		num, ok := valTok.(json.Number)
		if !ok {
			return fmt.Errorf("model: averages: non-numeric value for %q", key)
		}
		val, err := num.Float64()
		if err != nil {
			return err
		}
		out = append(out, GradeAvg{Grade: key, Value: val})
	}

	// Consume closing brace.
	if _, err := dec.Token(); err != nil {
		return err
	}

	*a = out
	return nil
}
