package validate

import (
	"encoding/json"
	"errors"
	"io"
	"strconv"
	"strings"
)

type ErrField struct {
	Field string `json:"field"`
	Msg   string `json:"msg"`
}

type Errs []ErrField

func (e Errs) Error() string { // error interface
	var b strings.Builder
	for i, ef := range e {
		if i > 0 {
			b.WriteString("; ")
		}
		b.WriteString(ef.Field + ": " + ef.Msg)
	}
	return b.String()
}

// Helpers
func Required(field, value string) *ErrField {
	if strings.TrimSpace(value) == "" {
		return &ErrField{Field: field, Msg: "required"}
	}
	return nil
}

// Int64 parses a base-10 path or query value.
func Int64(field, value string) (int64, *ErrField) {
	if ef := Required(field, value); ef != nil {
		return 0, ef
	}
	n, err := strconv.ParseInt(strings.TrimSpace(value), 10, 64)
	if err != nil {
		return 0, &ErrField{Field: field, Msg: "must be an integer"}
	}
	return n, nil
}

// maxBody bounds amount bodies; a JSON integer never needs more.
const maxBody = 64

// AmountBody reads a request body holding a single JSON integer such as
// `5000`. Range checks are left to the caller.
func AmountBody(field string, r io.Reader) (int64, *ErrField) {
	dec := json.NewDecoder(io.LimitReader(r, maxBody))
	dec.UseNumber()

	var v any
	if err := dec.Decode(&v); err != nil {
		if errors.Is(err, io.EOF) {
			return 0, &ErrField{Field: field, Msg: "required"}
		}
		return 0, &ErrField{Field: field, Msg: "must be a JSON number"}
	}
	num, ok := v.(json.Number)
	if !ok {
		return 0, &ErrField{Field: field, Msg: "must be a JSON number"}
	}
	if _, err := dec.Token(); !errors.Is(err, io.EOF) {
		return 0, &ErrField{Field: field, Msg: "unexpected trailing data"}
	}
	n, err := num.Int64()
	if err != nil {
		return 0, &ErrField{Field: field, Msg: "must be an integer"}
	}
	return n, nil
}
