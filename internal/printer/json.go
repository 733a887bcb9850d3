package printer

import (
	"bytes"
	"encoding/json"
	"fmt"
	"io"
	"math"
	"slices"
	"strconv"
	"unicode/utf16"

	"golang.org/x/text/unicode/norm"

	"github.com/roach88/llql/internal/engine"
	"github.com/roach88/llql/internal/value"
)

// JSONPrinter writes the result as a canonical JSON array with one object
// per row, keyed by column name.
//
// Canonical form:
//  1. Object keys sorted by UTF-16 code units
//  2. No HTML escaping (< > & are written as is)
//  3. Strings are NFC normalized
//  4. No insignificant whitespace; one trailing newline
//
// Two runs producing the same rows therefore print byte-identical output.
type JSONPrinter struct{}

func (JSONPrinter) Print(w io.Writer, r *engine.Result) error {
	out, err := MarshalResult(r)
	if err != nil {
		return err
	}
	out = append(out, '\n')
	_, err = w.Write(out)
	return err
}

// MarshalResult encodes r in canonical JSON.
func MarshalResult(r *engine.Result) ([]byte, error) {
	keys := sortedKeys(r.Columns)
	var buf bytes.Buffer
	buf.WriteByte('[')
	for i, row := range r.Rows {
		if i > 0 {
			buf.WriteByte(',')
		}
		buf.WriteByte('{')
		for j, k := range keys {
			if j > 0 {
				buf.WriteByte(',')
			}
			buf.Write(marshalString(r.Columns[k]))
			buf.WriteByte(':')
			b, err := marshalValue(row[k])
			if err != nil {
				return nil, fmt.Errorf("row %d, column %q: %w", i, r.Columns[k], err)
			}
			buf.Write(b)
		}
		buf.WriteByte('}')
	}
	buf.WriteByte(']')
	return buf.Bytes(), nil
}

// sortedKeys returns column indices ordered by UTF-16 code units of the
// column name. A repeated column name keeps its first occurrence only.
func sortedKeys(cols []string) []int {
	seen := make(map[string]bool, len(cols))
	idx := make([]int, 0, len(cols))
	for i, c := range cols {
		if !seen[c] {
			seen[c] = true
			idx = append(idx, i)
		}
	}
	slices.SortFunc(idx, func(a, b int) int {
		return slices.Compare(utf16.Encode([]rune(cols[a])), utf16.Encode([]rune(cols[b])))
	})
	return idx
}

func marshalValue(v value.Value) ([]byte, error) {
	switch x := v.(type) {
	case nil, value.NullValue:
		return []byte("null"), nil
	case value.TextValue:
		return marshalString(string(x)), nil
	case value.IntValue:
		return strconv.AppendInt(nil, int64(x), 10), nil
	case value.FloatValue:
		f := float64(x)
		if math.IsNaN(f) || math.IsInf(f, 0) {
			return marshalString(x.Literal()), nil
		}
		return strconv.AppendFloat(nil, f, 'g', -1, 64), nil
	case value.BoolValue:
		return strconv.AppendBool(nil, bool(x)), nil
	case value.ArrayValue:
		var buf bytes.Buffer
		buf.WriteByte('[')
		for i, it := range x.Items {
			if i > 0 {
				buf.WriteByte(',')
			}
			b, err := marshalValue(it)
			if err != nil {
				return nil, fmt.Errorf("array[%d]: %w", i, err)
			}
			buf.Write(b)
		}
		buf.WriteByte(']')
		return buf.Bytes(), nil
	case value.InstValue, value.InstMatcherValue, value.TypeMatcherValue:
		return marshalString(v.Literal()), nil
	}
	return nil, fmt.Errorf("unsupported value %T", v)
}

// marshalString produces a JSON string with NFC normalization and without
// HTML escaping. U+2028 and U+2029 are written literally.
func marshalString(s string) []byte {
	var buf bytes.Buffer
	enc := json.NewEncoder(&buf)
	enc.SetEscapeHTML(false)
	// Encoding a string cannot fail.
	_ = enc.Encode(norm.NFC.String(s))
	out := bytes.TrimSuffix(buf.Bytes(), []byte("\n"))
	return unescapeLineSeparators(out)
}

// unescapeLineSeparators turns \u2028 and \u2029 escapes back into the
// literal characters, leaving \\u2028 (an escaped backslash) alone.
func unescapeLineSeparators(data []byte) []byte {
	if !bytes.Contains(data, []byte(`\u202`)) {
		return data
	}
	out := make([]byte, 0, len(data))
	for i := 0; i < len(data); i++ {
		if data[i] == '\\' && i+1 < len(data) && data[i+1] == '\\' {
			out = append(out, '\\', '\\')
			i++
			continue
		}
		if bytes.HasPrefix(data[i:], []byte(`\u2028`)) {
			out = append(out, "\u2028"...)
			i += 5
			continue
		}
		if bytes.HasPrefix(data[i:], []byte(`\u2029`)) {
			out = append(out, "\u2029"...)
			i += 5
			continue
		}
		out = append(out, data[i])
	}
	return out
}
