// Package textscan reads vendor terminology files line by line.
package textscan

import (
	"bufio"
	"context"
	"fmt"
	"os"
	"strings"
)

// maxLineSize bounds a single line. RF2 and RRF rows stay well below it.
const maxLineSize = 4 * 1024 * 1024

const utf8BOM = "\uFEFF"

// LineFunc is called for each line. lineNo starts at 1.
// The line has its trailing CR removed.
type LineFunc func(lineNo int, line string) error

// Lines calls fn for every line of the file at path.
// It stops at the first error returned by fn or when ctx is done.
func Lines(ctx context.Context, path string, fn LineFunc) error {
	f, err := os.Open(path)
	if err != nil {
		return fmt.Errorf("open %s: %w", path, err)
	}
	defer f.Close()

	scanner := bufio.NewScanner(f)
	scanner.Buffer(make([]byte, 64*1024), maxLineSize)

	lineNo := 0
	for scanner.Scan() {
		lineNo++
		if lineNo%10000 == 0 {
			if err := ctx.Err(); err != nil {
				return err
			}
		}

		line := strings.TrimSuffix(scanner.Text(), "\r")
		if lineNo == 1 {
			line = strings.TrimPrefix(line, utf8BOM)
		}
		if err := fn(lineNo, line); err != nil {
			return fmt.Errorf("%s:%d: %w", path, lineNo, err)
		}
	}
	if err := scanner.Err(); err != nil {
		return fmt.Errorf("read %s: %w", path, err)
	}
	return ctx.Err()
}

// Slice returns line[start:end] trimmed, clamped to the line length.
// A negative end means the rest of the line.
func Slice(line string, start, end int) string {
	if start >= len(line) {
		return ""
	}
	if end < 0 || end > len(line) {
		end = len(line)
	}
	return strings.TrimSpace(line[start:end])
}
