package oraclient

import (
	"fmt"
	"strconv"
	"strings"
)

// Connection string keywords, as understood by the Oracle managed driver.
const (
	KeyDataSource         = "Data Source"
	KeyPooling            = "Pooling"
	KeyMinPoolSize        = "Min Pool Size"
	KeyMaxPoolSize        = "Max Pool Size"
	KeyIncrPoolSize       = "Incr Pool Size"
	KeyDecrPoolSize       = "Decr Pool Size"
	KeyConnectionLifeTime = "Connection Lifetime"
	KeyConnectionTimeout  = "Connection Timeout"
	KeyUserID             = "User Id"
	KeyPassword           = "Password"
)

type Attribute struct {
	Key, Value string
}

// Attributes is an ordered set of connection string keywords.
type Attributes []Attribute

// String serializes the attributes as key=value pairs separated by
// semicolons. Values that would otherwise be ambiguous are quoted.
func (a Attributes) String() string {
	parts := make([]string, 0, len(a))
	for _, attr := range a {
		parts = append(parts, attr.Key+"="+quoteValue(attr.Value))
	}
	return strings.Join(parts, ";")
}

// Get returns the value of the key, compared case-insensitively. A repeated
// key yields its last value.
func (a Attributes) Get(key string) (string, bool) {
	val, found := "", false
	for _, attr := range a {
		if strings.EqualFold(attr.Key, key) {
			val, found = attr.Value, true
		}
	}
	return val, found
}

// Bool returns the key's boolean value, or nil when the key is absent.
func (a Attributes) Bool(key string) (*bool, error) {
	str, ok := a.Get(key)
	if !ok {
		return nil, nil
	}
	switch strings.ToLower(str) {
	case "yes":
		return Bool(true), nil
	case "no":
		return Bool(false), nil
	}
	val, err := strconv.ParseBool(str)
	if err != nil {
		return nil, &ValidationError{Field: key, Reason: fmt.Sprintf("bad boolean %q", str)}
	}
	return &val, nil
}

// Int returns the key's integer value, or nil when the key is absent.
func (a Attributes) Int(key string) (*int, error) {
	str, ok := a.Get(key)
	if !ok {
		return nil, nil
	}
	val, err := strconv.Atoi(str)
	if err != nil {
		return nil, &ValidationError{Field: key, Reason: fmt.Sprintf("bad integer %q", str)}
	}
	return &val, nil
}

// ParseAttributes reads a connection string produced by Attributes.String or
// written by hand in the same keyword=value;... form.
func ParseAttributes(s string) (Attributes, error) {
	var res Attributes

	i := 0
	for {
		for i < len(s) && (s[i] == ';' || s[i] == ' ' || s[i] == '\t') {
			i++
		}
		if i >= len(s) {
			return res, nil
		}

		eq := strings.IndexByte(s[i:], '=')
		if eq < 0 {
			return nil, &ValidationError{Field: "connection string",
				Reason: fmt.Sprintf("keyword %q has no value", strings.TrimSpace(s[i:]))}
		}
		key := strings.TrimSpace(s[i : i+eq])
		if key == "" {
			return nil, &ValidationError{Field: "connection string",
				Reason: fmt.Sprintf("empty keyword at offset %d", i)}
		}
		i += eq + 1
		for i < len(s) && s[i] == ' ' {
			i++
		}

		var val string
		if i < len(s) && (s[i] == '"' || s[i] == '\'') {
			var err error
			val, i, err = readQuoted(s, i)
			if err != nil {
				return nil, err
			}
		} else {
			end := strings.IndexByte(s[i:], ';')
			if end < 0 {
				end = len(s) - i
			}
			val = strings.TrimSpace(s[i : i+end])
			i += end
		}

		res = append(res, Attribute{Key: key, Value: val})
	}
}

// readQuoted reads a value enclosed in the quote found at s[start]. A doubled
// quote inside stands for one quote character.
func readQuoted(s string, start int) (string, int, error) {
	quote := s[start]
	var b strings.Builder

	i := start + 1
	for {
		if i >= len(s) {
			return "", 0, &ValidationError{Field: "connection string",
				Reason: fmt.Sprintf("unterminated quoted value at offset %d", start)}
		}
		if s[i] == quote {
			if i+1 < len(s) && s[i+1] == quote {
				b.WriteByte(quote)
				i += 2
				continue
			}
			i++
			break
		}
		b.WriteByte(s[i])
		i++
	}

	for i < len(s) && s[i] == ' ' {
		i++
	}
	if i < len(s) && s[i] != ';' {
		return "", 0, &ValidationError{Field: "connection string",
			Reason: fmt.Sprintf("unexpected text after quoted value at offset %d", i)}
	}
	return b.String(), i, nil
}

func quoteValue(v string) string {
	if v == "" {
		return v
	}
	needsQuotes := strings.ContainsRune(v, ';') || v[0] == '"' || v[0] == '\'' ||
		v != strings.TrimSpace(v)
	if !needsQuotes {
		return v
	}
	if strings.ContainsRune(v, '"') && !strings.ContainsRune(v, '\'') {
		return "'" + v + "'"
	}
	return `"` + strings.ReplaceAll(v, `"`, `""`) + `"`
}

func formatBool(v bool) string {
	if v {
		return "True"
	}
	return "False"
}

// optionAttributes lists the data source and every pool setting that is set
// in the options. Unset settings are left out so the driver applies its own
// defaults.
func optionAttributes(o *Options) Attributes {
	res := Attributes{{Key: KeyDataSource, Value: o.DataSource}}

	if o.Pooling != nil {
		res = append(res, Attribute{Key: KeyPooling, Value: formatBool(*o.Pooling)})
	}

	ints := []struct {
		key string
		val *int
	}{
		{KeyMinPoolSize, o.MinPoolSize},
		{KeyMaxPoolSize, o.MaxPoolSize},
		{KeyIncrPoolSize, o.IncrPoolSize},
		{KeyDecrPoolSize, o.DecrPoolSize},
		{KeyConnectionLifeTime, o.ConnectionLifeTime},
		{KeyConnectionTimeout, o.ConnectionTimeout},
	}
	for _, iv := range ints {
		if iv.val != nil {
			res = append(res, Attribute{Key: iv.key, Value: strconv.Itoa(*iv.val)})
		}
	}

	return res
}

func credentialAttributes(userName, password string) Attributes {
	return Attributes{
		{Key: KeyUserID, Value: userName},
		{Key: KeyPassword, Value: password},
	}
}
