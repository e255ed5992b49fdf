package form

import (
	"bytes"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"strconv"
	"strings"
)

const indent = "  "

// Render pretty-prints a JSON value with two space indentation. Object keys
// keep the order they were received in, string escapes are decoded and
// number literals are kept as sent.
func Render(raw json.RawMessage) (string, error) {
	dec := json.NewDecoder(bytes.NewReader(raw))
	dec.UseNumber()

	var sb strings.Builder
	if err := renderValue(&sb, dec, 0); err != nil {
		return "", err
	}
	if tok, err := dec.Token(); err != io.EOF {
		if err == nil {
			err = fmt.Errorf("invalid JSON: unexpected %v after top-level value", tok)
		}
		return "", err
	}
	return sb.String(), nil
}

func renderValue(sb *strings.Builder, dec *json.Decoder, depth int) error {
	tok, err := dec.Token()
	if err == io.EOF {
		return io.ErrUnexpectedEOF
	}
	if err != nil {
		return err
	}

	switch t := tok.(type) {
	case json.Delim:
		switch t {
		case '{':
			return renderObject(sb, dec, depth)
		case '[':
			return renderArray(sb, dec, depth)
		}
		return fmt.Errorf("invalid JSON: unexpected %q", rune(t))
	case string:
		return renderString(sb, t)
	case json.Number:
		sb.WriteString(t.String())
	case bool:
		sb.WriteString(strconv.FormatBool(t))
	case nil:
		sb.WriteString("null")
	}
	return nil
}

func renderObject(sb *strings.Builder, dec *json.Decoder, depth int) error {
	sb.WriteByte('{')
	n := 0
	for dec.More() {
		tok, err := dec.Token()
		if err != nil {
			return err
		}
		key, ok := tok.(string)
		if !ok {
			return errors.New("invalid JSON: object key is not a string")
		}
		if n > 0 {
			sb.WriteByte(',')
		}
		newline(sb, depth+1)
		if err := renderString(sb, key); err != nil {
			return err
		}
		sb.WriteString(": ")
		if err := renderValue(sb, dec, depth+1); err != nil {
			return err
		}
		n++
	}
	if err := closeDelim(dec); err != nil {
		return err
	}
	if n > 0 {
		newline(sb, depth)
	}
	sb.WriteByte('}')
	return nil
}

func renderArray(sb *strings.Builder, dec *json.Decoder, depth int) error {
	sb.WriteByte('[')
	n := 0
	for dec.More() {
		if n > 0 {
			sb.WriteByte(',')
		}
		newline(sb, depth+1)
		if err := renderValue(sb, dec, depth+1); err != nil {
			return err
		}
		n++
	}
	if err := closeDelim(dec); err != nil {
		return err
	}
	if n > 0 {
		newline(sb, depth)
	}
	sb.WriteByte(']')
	return nil
}

func closeDelim(dec *json.Decoder) error {
	_, err := dec.Token()
	if err == io.EOF {
		return io.ErrUnexpectedEOF
	}
	return err
}

// renderString writes s as a JSON string, escaping only what JSON requires.
func renderString(sb *strings.Builder, s string) error {
	var buf bytes.Buffer
	enc := json.NewEncoder(&buf)
	enc.SetEscapeHTML(false)
	if err := enc.Encode(s); err != nil {
		return err
	}
	sb.Write(bytes.TrimSuffix(buf.Bytes(), []byte("\n")))
	return nil
}

func newline(sb *strings.Builder, depth int) {
	sb.WriteByte('\n')
	sb.WriteString(strings.Repeat(indent, depth))
}
