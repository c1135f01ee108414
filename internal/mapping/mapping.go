// Package mapping loads the repository mapping table that correlates source
// repositories with their counterparts in the target account.
package mapping

import (
	"encoding/csv"
	"errors"
	"fmt"
	"io"
	"os"
	"sort"
	"strings"

	"golang.org/x/text/encoding/unicode"
	"golang.org/x/text/transform"
)

// Column names of the mapping file, in order.
const (
	SourceColumn = "source_repository"
	TargetColumn = "target_repository"
)

// ErrMalformedMappingFile is returned when the mapping file does not have
// exactly the two expected columns.
var ErrMalformedMappingFile = errors.New("malformed repository mapping file")

// Table maps source "owner/name" to target "owner/name". Rows with an empty
// target are intentionally unmapped and are not stored.
type Table struct {
	targets map[string]string
}

// NewTable builds a table from explicit pairs. Empty targets are dropped.
func NewTable(pairs map[string]string) *Table {
	t := &Table{targets: make(map[string]string, len(pairs))}
	for src, dst := range pairs {
		if dst != "" {
			t.targets[src] = dst
		}
	}
	return t
}

// LoadFile reads the mapping CSV at path.
func LoadFile(path string) (*Table, error) {
	f, err := os.Open(path) // #nosec G304 - path is an explicit user input
	if err != nil {
		return nil, fmt.Errorf("failed to open repository mappings: %w", err)
	}
	defer func() { _ = f.Close() }()
	return Load(f)
}

// Load parses a mapping table. The header must be exactly
// "source_repository,target_repository". A UTF-8 byte order mark, as written
// by spreadsheet tools, is ignored.
func Load(r io.Reader) (*Table, error) {
	decoded := transform.NewReader(r, unicode.BOMOverride(unicode.UTF8.NewDecoder()))
	reader := csv.NewReader(decoded)
	reader.FieldsPerRecord = -1
	reader.TrimLeadingSpace = true

	header, err := reader.Read()
	if err != nil {
		if errors.Is(err, io.EOF) {
			return nil, malformed("file is empty")
		}
		return nil, fmt.Errorf("%w: %v", ErrMalformedMappingFile, err)
	}
	if !validHeader(header) {
		return nil, malformed(fmt.Sprintf("found columns %q", header))
	}

	t := &Table{targets: make(map[string]string)}
	line := 1
	for {
		record, err := reader.Read()
		if errors.Is(err, io.EOF) {
			break
		}
		line++
		if err != nil {
			return nil, fmt.Errorf("%w: line %d: %v", ErrMalformedMappingFile, line, err)
		}
		if len(record) != 2 {
			return nil, malformed(fmt.Sprintf("line %d has %d columns", line, len(record)))
		}

		source := strings.TrimSpace(record[0])
		target := strings.TrimSpace(record[1])
		if source == "" || target == "" {
			continue
		}
		if _, dup := t.targets[source]; dup {
			return nil, malformed(fmt.Sprintf("line %d repeats source repository %q", line, source))
		}
		t.targets[source] = target
	}

	return t, nil
}

func validHeader(header []string) bool {
	if len(header) != 2 {
		return false
	}
	return strings.TrimSpace(header[0]) == SourceColumn && strings.TrimSpace(header[1]) == TargetColumn
}

func malformed(detail string) error {
	return fmt.Errorf("%w: %s; expected a CSV with exactly two columns %q and %q (generate one with 'projmigrate mappings-template')",
		ErrMalformedMappingFile, detail, SourceColumn, TargetColumn)
}

// Lookup returns the target repository for source.
func (t *Table) Lookup(source string) (string, bool) {
	if t == nil {
		return "", false
	}
	target, ok := t.targets[source]
	return target, ok
}

// Len returns the number of mapped repositories.
func (t *Table) Len() int {
	if t == nil {
		return 0
	}
	return len(t.targets)
}

// WriteTemplate writes a mapping file with one row per source repository and an
// empty target column for the operator to fill in.
func WriteTemplate(w io.Writer, sources []string) error {
	sorted := append([]string(nil), sources...)
	sort.Strings(sorted)

	cw := csv.NewWriter(w)
	if err := cw.Write([]string{SourceColumn, TargetColumn}); err != nil {
		return fmt.Errorf("failed to write mapping template: %w", err)
	}
	var prev string
	for i, src := range sorted {
		if i > 0 && src == prev {
			continue
		}
		prev = src
		if err := cw.Write([]string{src, ""}); err != nil {
			return fmt.Errorf("failed to write mapping template: %w", err)
		}
	}
	cw.Flush()
	return cw.Error()
}
