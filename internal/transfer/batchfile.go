package transfer

import (
	"bufio"
	"fmt"
	"io"
	"os"
	"strings"

	"github.com/cockroachdb/errors"
)

// LineError reports a batch line that could not be split into an entry.
type LineError struct {
	Line int
	Text string
}

func (e LineError) Error() string {
	return fmt.Sprintf("line %d: expected <address> <amount>, got %q", e.Line, e.Text)
}

// ParseLine splits one "<address> <amount>" line. ok is false for lines
// that carry no entry (blank or # comment).
func ParseLine(text string, line int) (e Entry, ok bool, err error) {
	trimmed := strings.TrimSpace(text)
	if trimmed == "" || strings.HasPrefix(trimmed, "#") {
		return Entry{}, false, nil
	}
	fields := strings.Fields(trimmed)
	if len(fields) != 2 {
		return Entry{}, false, LineError{Line: line, Text: trimmed}
	}
	return Entry{Destination: fields[0], Amount: fields[1], Line: line}, true, nil
}

// ParseBatch reads entries from r. Malformed lines are collected and skipped.
// Address and amount checks happen later, in Validate.
func ParseBatch(r io.Reader) ([]Entry, []LineError, error) {
	var (
		entries []Entry
		bad     []LineError
	)
	sc := bufio.NewScanner(r)
	n := 0
	for sc.Scan() {
		n++
		e, ok, err := ParseLine(sc.Text(), n)
		if err != nil {
			var le LineError
			if errors.As(err, &le) {
				bad = append(bad, le)
			}
			continue
		}
		if ok {
			entries = append(entries, e)
		}
	}
	if err := sc.Err(); err != nil {
		return nil, nil, errors.Wrap(err, "read batch")
	}
	return entries, bad, nil
}

// ReadBatchFile parses the batch file at path.
func ReadBatchFile(path string) ([]Entry, []LineError, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, nil, errors.Wrapf(err, "open %s", path)
	}
	defer f.Close()
	return ParseBatch(f)
}
