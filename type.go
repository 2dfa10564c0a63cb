// File: lixenwraith/conftree/type.go
package conftree

import (
	"errors"
	"strconv"
	"strings"
	"unicode/utf8"
)

// boolPrefixes are the case-insensitive prefixes read as true; anything else is false.
var boolPrefixes = []string{"true", "1", "yes", "on"}

// getConverted resolves path and converts the comment-stripped raw value.
func getConverted[T any](c *Config, target string, parse func(string) (T, error), path []string) (T, error) {
	var zero T
	raw, dotted, err := c.rawValue(path)
	if err != nil {
		return zero, err
	}
	v, err := parse(stripComment(raw))
	if err != nil {
		return zero, &ConversionError{Path: dotted, Raw: raw, Target: target, Err: unwrapNumError(err)}
	}
	return v, nil
}

func unwrapNumError(err error) error {
	var numErr *strconv.NumError
	if errors.As(err, &numErr) {
		return numErr.Err
	}
	return err
}

func parseBool(s string) (bool, error) {
	s = strings.ToLower(s)
	for _, prefix := range boolPrefixes {
		if strings.HasPrefix(s, prefix) {
			return true, nil
		}
	}
	return false, nil
}

func signedParser(bits int) func(string) (int64, error) {
	return func(s string) (int64, error) {
		return strconv.ParseInt(s, 10, bits)
	}
}

func unsignedParser(bits int) func(string) (uint64, error) {
	return func(s string) (uint64, error) {
		return strconv.ParseUint(strings.TrimPrefix(s, "+"), 10, bits)
	}
}

func floatParser(bits int) func(string) (float64, error) {
	return func(s string) (float64, error) {
		return strconv.ParseFloat(s, bits)
	}
}

func parseRune(s string) (rune, error) {
	if utf8.RuneCountInString(s) != 1 {
		return 0, errors.New("string must be exactly one character long")
	}
	r, _ := utf8.DecodeRuneInString(s)
	return r, nil
}

// setTyped writes the string form of a typed value. A missing path is always an
// error; unless the config uses strict setters, other failures are logged and dropped.
func (c *Config) setTyped(value string, path []string) error {
	err := c.setRaw(value, path)
	if err != nil && !c.strictSetters && !errors.Is(err, ErrPathNotFound) {
		c.logger.Debug().
			Err(err).
			Str("path", JoinPath(path...)).
			Str("value", value).
			Msg("Ignoring failed set")
		return nil
	}
	return err
}

// String returns the raw value at path. The last duplicate key wins.
func (c *Config) String(path ...string) (string, error) {
	raw, _, err := c.rawValue(path)
	return raw, err
}

// TryString returns the value at path or def.
func (c *Config) TryString(def string, path ...string) string {
	if v, err := c.String(path...); err == nil {
		return v
	}
	return def
}

// SetString overwrites an existing value. Missing paths are reported, never created.
func (c *Config) SetString(value string, path ...string) error {
	return c.setRaw(value, path)
}

// Strings returns every value stored under the final path component, in file order.
func (c *Config) Strings(path ...string) ([]string, error) {
	return c.rawValues(path)
}

// TryStrings returns all values at path or def.
func (c *Config) TryStrings(def []string, path ...string) []string {
	if v, err := c.rawValues(path); err == nil {
		return v
	}
	return def
}

// Bool reads a boolean. Values starting with true, 1, yes or on (any case) are true;
// every other value is false.
func (c *Config) Bool(path ...string) (bool, error) {
	return getConverted(c, "bool", parseBool, path)
}

func (c *Config) TryBool(def bool, path ...string) bool {
	if v, err := c.Bool(path...); err == nil {
		return v
	}
	return def
}

func (c *Config) SetBool(value bool, path ...string) error {
	return c.setTyped(strconv.FormatBool(value), path)
}

// Int reads a base-10 integer sized to the platform int.
func (c *Config) Int(path ...string) (int, error) {
	v, err := getConverted(c, "int", signedParser(strconv.IntSize), path)
	return int(v), err
}

func (c *Config) TryInt(def int, path ...string) int {
	if v, err := c.Int(path...); err == nil {
		return v
	}
	return def
}

func (c *Config) SetInt(value int, path ...string) error {
	return c.setTyped(strconv.Itoa(value), path)
}

func (c *Config) Int8(path ...string) (int8, error) {
	v, err := getConverted(c, "int8", signedParser(8), path)
	return int8(v), err
}

func (c *Config) TryInt8(def int8, path ...string) int8 {
	if v, err := c.Int8(path...); err == nil {
		return v
	}
	return def
}

func (c *Config) SetInt8(value int8, path ...string) error {
	return c.setTyped(strconv.FormatInt(int64(value), 10), path)
}

func (c *Config) Int16(path ...string) (int16, error) {
	v, err := getConverted(c, "int16", signedParser(16), path)
	return int16(v), err
}

func (c *Config) TryInt16(def int16, path ...string) int16 {
	if v, err := c.Int16(path...); err == nil {
		return v
	}
	return def
}

func (c *Config) SetInt16(value int16, path ...string) error {
	return c.setTyped(strconv.FormatInt(int64(value), 10), path)
}

func (c *Config) Int32(path ...string) (int32, error) {
	v, err := getConverted(c, "int32", signedParser(32), path)
	return int32(v), err
}

func (c *Config) TryInt32(def int32, path ...string) int32 {
	if v, err := c.Int32(path...); err == nil {
		return v
	}
	return def
}

func (c *Config) SetInt32(value int32, path ...string) error {
	return c.setTyped(strconv.FormatInt(int64(value), 10), path)
}

func (c *Config) Int64(path ...string) (int64, error) {
	return getConverted(c, "int64", signedParser(64), path)
}

func (c *Config) TryInt64(def int64, path ...string) int64 {
	if v, err := c.Int64(path...); err == nil {
		return v
	}
	return def
}

func (c *Config) SetInt64(value int64, path ...string) error {
	return c.setTyped(strconv.FormatInt(value, 10), path)
}

// Uint reads a base-10 unsigned integer sized to the platform uint.
func (c *Config) Uint(path ...string) (uint, error) {
	v, err := getConverted(c, "uint", unsignedParser(strconv.IntSize), path)
	return uint(v), err
}

func (c *Config) TryUint(def uint, path ...string) uint {
	if v, err := c.Uint(path...); err == nil {
		return v
	}
	return def
}

func (c *Config) SetUint(value uint, path ...string) error {
	return c.setTyped(strconv.FormatUint(uint64(value), 10), path)
}

func (c *Config) Uint8(path ...string) (uint8, error) {
	v, err := getConverted(c, "uint8", unsignedParser(8), path)
	return uint8(v), err
}

func (c *Config) TryUint8(def uint8, path ...string) uint8 {
	if v, err := c.Uint8(path...); err == nil {
		return v
	}
	return def
}

func (c *Config) SetUint8(value uint8, path ...string) error {
	return c.setTyped(strconv.FormatUint(uint64(value), 10), path)
}

func (c *Config) Uint16(path ...string) (uint16, error) {
	v, err := getConverted(c, "uint16", unsignedParser(16), path)
	return uint16(v), err
}

func (c *Config) TryUint16(def uint16, path ...string) uint16 {
	if v, err := c.Uint16(path...); err == nil {
		return v
	}
	return def
}

func (c *Config) SetUint16(value uint16, path ...string) error {
	return c.setTyped(strconv.FormatUint(uint64(value), 10), path)
}

func (c *Config) Uint32(path ...string) (uint32, error) {
	v, err := getConverted(c, "uint32", unsignedParser(32), path)
	return uint32(v), err
}

func (c *Config) TryUint32(def uint32, path ...string) uint32 {
	if v, err := c.Uint32(path...); err == nil {
		return v
	}
	return def
}

func (c *Config) SetUint32(value uint32, path ...string) error {
	return c.setTyped(strconv.FormatUint(uint64(value), 10), path)
}

func (c *Config) Uint64(path ...string) (uint64, error) {
	return getConverted(c, "uint64", unsignedParser(64), path)
}

func (c *Config) TryUint64(def uint64, path ...string) uint64 {
	if v, err := c.Uint64(path...); err == nil {
		return v
	}
	return def
}

func (c *Config) SetUint64(value uint64, path ...string) error {
	return c.setTyped(strconv.FormatUint(value, 10), path)
}

func (c *Config) Float32(path ...string) (float32, error) {
	v, err := getConverted(c, "float32", floatParser(32), path)
	return float32(v), err
}

func (c *Config) TryFloat32(def float32, path ...string) float32 {
	if v, err := c.Float32(path...); err == nil {
		return v
	}
	return def
}

func (c *Config) SetFloat32(value float32, path ...string) error {
	return c.setTyped(strconv.FormatFloat(float64(value), 'g', -1, 32), path)
}

func (c *Config) Float64(path ...string) (float64, error) {
	return getConverted(c, "float64", floatParser(64), path)
}

func (c *Config) TryFloat64(def float64, path ...string) float64 {
	if v, err := c.Float64(path...); err == nil {
		return v
	}
	return def
}

func (c *Config) SetFloat64(value float64, path ...string) error {
	return c.setTyped(strconv.FormatFloat(value, 'g', -1, 64), path)
}

// Rune reads a value that must be exactly one character.
func (c *Config) Rune(path ...string) (rune, error) {
	return getConverted(c, "rune", parseRune, path)
}

func (c *Config) TryRune(def rune, path ...string) rune {
	if v, err := c.Rune(path...); err == nil {
		return v
	}
	return def
}

func (c *Config) SetRune(value rune, path ...string) error {
	return c.setTyped(string(value), path)
}
