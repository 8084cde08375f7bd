package exchange

import (
	"bytes"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"strings"
	"time"

	"github.com/mauv0809/head2head/internal/ledger"
	"github.com/vmihailenco/msgpack/v5"
	"github.com/vmihailenco/msgpack/v5/msgpcode"
)

// Format selects the encoding of an exported ledger document.
type Format string

const (
	FormatJSON    Format = "json"
	FormatMsgpack Format = "msgpack"
)

// ErrImportParse matches every *ImportParseError with errors.Is.
var ErrImportParse = errors.New("import document could not be parsed")

// ImportParseError reports a malformed import document.
type ImportParseError struct {
	Err error
}

func (e *ImportParseError) Error() string {
	return fmt.Sprintf("%v: %v", ErrImportParse, e.Err)
}

func (e *ImportParseError) Unwrap() error {
	return e.Err
}

func (e *ImportParseError) Is(target error) bool {
	return target == ErrImportParse
}

// ParseFormat maps a user supplied name to a Format. Empty means JSON.
func ParseFormat(s string) (Format, error) {
	switch Format(strings.ToLower(strings.TrimSpace(s))) {
	case "", FormatJSON:
		return FormatJSON, nil
	case FormatMsgpack:
		return FormatMsgpack, nil
	}
	return "", fmt.Errorf("unknown format %q", s)
}

// ContentType returns the MIME type of documents in this format.
func (f Format) ContentType() string {
	if f == FormatMsgpack {
		return "application/msgpack"
	}
	return "application/json"
}

// FileName returns the download name for a document exported at t.
func (f Format) FileName(t time.Time) string {
	ext := "json"
	if f == FormatMsgpack {
		ext = "msgpack"
	}
	return fmt.Sprintf("head2head_%s.%s", t.Format("2006-01-02"), ext)
}

// Export writes the whole ledger as {players: {...}, matches: [...]}.
func Export(w io.Writer, l *ledger.Ledger, f Format) error {
	switch f {
	case FormatJSON:
		enc := json.NewEncoder(w)
		enc.SetIndent("", "  ")
		return enc.Encode(l)
	case FormatMsgpack:
		enc := msgpack.NewEncoder(w)
		enc.SetCustomStructTag("json")
		return enc.Encode(l)
	}
	return fmt.Errorf("unknown format %q", f)
}

// document mirrors ledger.Ledger with raw sections so missing keys can be told
// apart from empty ones. A null section counts as missing.
type document struct {
	Players json.RawMessage `json:"players"`
	Matches json.RawMessage `json:"matches"`
}

// Import decodes a document written by Export. Malformed input yields an
// *ImportParseError; the caller's state is never touched here.
func Import(r io.Reader, f Format) (*ledger.Ledger, error) {
	raw, err := io.ReadAll(r)
	if err != nil {
		return nil, &ImportParseError{Err: err}
	}
	if len(bytes.TrimSpace(raw)) == 0 {
		return nil, &ImportParseError{Err: errors.New("document is empty")}
	}

	var l *ledger.Ledger
	switch f {
	case FormatJSON:
		l, err = decodeJSON(raw)
	case FormatMsgpack:
		l, err = decodeMsgpack(raw)
	default:
		err = fmt.Errorf("unknown format %q", f)
	}
	if err != nil {
		return nil, &ImportParseError{Err: err}
	}

	if l.Players == nil {
		l.Players = make(map[string]*ledger.PlayerRecord)
	}
	if l.Matches == nil {
		l.Matches = []ledger.MatchRecord{}
	}
	for i := range l.Matches {
		l.Matches[i].Date = l.Matches[i].Date.UTC()
	}
	for name, p := range l.Players {
		if p == nil {
			return nil, &ImportParseError{Err: fmt.Errorf("player %q has no record", name)}
		}
	}
	return l, nil
}

func decodeJSON(raw []byte) (*ledger.Ledger, error) {
	var doc document
	if err := json.Unmarshal(raw, &doc); err != nil {
		return nil, err
	}
	if err := requireSections(isNullJSON(doc.Players), isNullJSON(doc.Matches)); err != nil {
		return nil, err
	}

	l := &ledger.Ledger{}
	if err := json.Unmarshal(doc.Players, &l.Players); err != nil {
		return nil, fmt.Errorf("players: %w", err)
	}
	if err := json.Unmarshal(doc.Matches, &l.Matches); err != nil {
		return nil, fmt.Errorf("matches: %w", err)
	}
	return l, nil
}

func decodeMsgpack(raw []byte) (*ledger.Ledger, error) {
	var doc map[string]msgpack.RawMessage
	if err := msgpack.Unmarshal(raw, &doc); err != nil {
		return nil, err
	}
	players, matches := doc["players"], doc["matches"]
	if err := requireSections(isNullMsgpack(players), isNullMsgpack(matches)); err != nil {
		return nil, err
	}

	l := &ledger.Ledger{}
	if err := decodeMsgpackSection(players, &l.Players); err != nil {
		return nil, fmt.Errorf("players: %w", err)
	}
	if err := decodeMsgpackSection(matches, &l.Matches); err != nil {
		return nil, fmt.Errorf("matches: %w", err)
	}
	return l, nil
}

func decodeMsgpackSection(raw msgpack.RawMessage, v any) error {
	dec := msgpack.NewDecoder(bytes.NewReader(raw))
	dec.SetCustomStructTag("json")
	return dec.Decode(v)
}

// requireSections rejects documents where either section is absent or null.
func requireSections(playersMissing, matchesMissing bool) error {
	if playersMissing {
		return errors.New(`missing "players"`)
	}
	if matchesMissing {
		return errors.New(`missing "matches"`)
	}
	return nil
}

func isNullJSON(raw json.RawMessage) bool {
	trimmed := bytes.TrimSpace(raw)
	return len(trimmed) == 0 || bytes.Equal(trimmed, []byte("null"))
}

func isNullMsgpack(raw msgpack.RawMessage) bool {
	return len(raw) == 0 || (len(raw) == 1 && raw[0] == msgpcode.Nil)
}
