// Package valueset imports value set exports into a ValueSetStore.
//
// Files are tab-delimited with a header row naming at least the
// ValueSetOID and Code columns:
//
//	ValueSetOID	ValueSetName	Code	Description	CodeSystem	CodeSystemOID
package valueset

import (
	"context"
	"encoding/csv"
	"errors"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"sort"
	"strings"

	"github.com/custodia-labs/vocab-validator/internal/core/domain"
	"github.com/custodia-labs/vocab-validator/internal/core/ports/driven"
	"github.com/custodia-labs/vocab-validator/internal/logger"
)

// Header names, compared case-insensitively with blanks removed.
const (
	ColumnValuesetOID   = "VALUESETOID"
	ColumnValuesetName  = "VALUESETNAME"
	ColumnCode          = "CODE"
	ColumnDescription   = "DESCRIPTION"
	ColumnCodeSystem    = "CODESYSTEM"
	ColumnCodeSystemOID = "CODESYSTEMOID"
)

// ErrMissingColumn is returned when a file lacks a required column.
var ErrMissingColumn = errors.New("valueset: required column not found")

// Stats summarizes one import.
type Stats struct {
	Files     int
	Concepts  int
	Valuesets int
}

// Importer reads every value set file in a directory and replaces the
// contents of a store with them.
type Importer struct {
	store driven.ValueSetStore
}

// NewImporter creates an importer writing to store.
func NewImporter(store driven.ValueSetStore) *Importer {
	return &Importer{store: store}
}

// Import parses all regular, non-hidden files directly inside dir and
// replaces the store contents in one step. Nothing is written when any file
// fails to parse.
func (i *Importer) Import(ctx context.Context, dir string) (Stats, error) {
	info, err := os.Stat(dir)
	if err != nil {
		return Stats{}, fmt.Errorf("stat value set directory: %w", err)
	}
	if !info.IsDir() {
		return Stats{}, fmt.Errorf("%s: %w", dir, domain.ErrNotDirectory)
	}

	files, err := listFiles(dir)
	if err != nil {
		return Stats{}, err
	}

	var concepts []domain.ValueSetConcept
	for _, path := range files {
		parsed, err := ParseFile(ctx, path)
		if err != nil {
			return Stats{}, err
		}
		logger.Debug("Parsed %d value set concepts from %s", len(parsed), path)
		concepts = append(concepts, parsed...)
	}

	if err := i.store.ReplaceAll(ctx, concepts); err != nil {
		return Stats{}, fmt.Errorf("replace value sets: %w", err)
	}
	count, err := i.store.CountValuesets(ctx)
	if err != nil {
		return Stats{}, fmt.Errorf("count value sets: %w", err)
	}

	stats := Stats{Files: len(files), Concepts: len(concepts), Valuesets: count}
	logger.Info("Imported %d value sets (%d concepts) from %s", stats.Valuesets, stats.Concepts, dir)
	return stats, nil
}

// ParseFile reads one tab-delimited value set file.
// Codes are uppercased; rows without an OID or code are skipped.
func ParseFile(ctx context.Context, path string) ([]domain.ValueSetConcept, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("open %s: %w", path, err)
	}
	defer f.Close()
	return Parse(ctx, f, path)
}

// Parse reads tab-delimited value set rows from r. name is used in errors.
func Parse(ctx context.Context, r io.Reader, name string) ([]domain.ValueSetConcept, error) {
	reader := csv.NewReader(r)
	reader.Comma = '\t'
	reader.FieldsPerRecord = -1
	reader.LazyQuotes = true

	header, err := reader.Read()
	if errors.Is(err, io.EOF) {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("read header of %s: %w", name, err)
	}
	cols := indexColumns(header)
	oidIdx, ok := cols[ColumnValuesetOID]
	if !ok {
		return nil, fmt.Errorf("%s: %w: %s", name, ErrMissingColumn, ColumnValuesetOID)
	}
	codeIdx, ok := cols[ColumnCode]
	if !ok {
		return nil, fmt.Errorf("%s: %w: %s", name, ErrMissingColumn, ColumnCode)
	}
	get := func(row []string, col string) string {
		idx, ok := cols[col]
		if !ok || idx >= len(row) {
			return ""
		}
		return strings.TrimSpace(row[idx])
	}

	var concepts []domain.ValueSetConcept
	for n := 0; ; n++ {
		if n%10000 == 0 {
			if err := ctx.Err(); err != nil {
				return nil, err
			}
		}
		row, err := reader.Read()
		if errors.Is(err, io.EOF) {
			break
		}
		if err != nil {
			return nil, fmt.Errorf("read %s: %w", name, err)
		}
		if oidIdx >= len(row) || codeIdx >= len(row) {
			continue
		}

		oid := strings.TrimSpace(row[oidIdx])
		code := domain.NormalizeKey(row[codeIdx])
		if oid == "" || code == "" {
			continue
		}
		concepts = append(concepts, domain.ValueSetConcept{
			ValuesetOID:    oid,
			ValuesetName:   get(row, ColumnValuesetName),
			Code:           code,
			DisplayName:    get(row, ColumnDescription),
			CodeSystem:     get(row, ColumnCodeSystemOID),
			CodeSystemName: get(row, ColumnCodeSystem),
		})
	}
	return concepts, nil
}

func indexColumns(header []string) map[string]int {
	cols := make(map[string]int, len(header))
	for i, name := range header {
		key := strings.ToUpper(strings.Join(strings.Fields(strings.TrimPrefix(name, "\uFEFF")), ""))
		if _, dup := cols[key]; !dup {
			cols[key] = i
		}
	}
	return cols
}

func listFiles(dir string) ([]string, error) {
	entries, err := os.ReadDir(dir)
	if err != nil {
		return nil, fmt.Errorf("read %s: %w", dir, err)
	}
	var files []string
	for _, entry := range entries {
		if !entry.Type().IsRegular() || strings.HasPrefix(entry.Name(), ".") {
			continue
		}
		files = append(files, filepath.Join(dir, entry.Name()))
	}
	sort.Strings(files)
	return files, nil
}
