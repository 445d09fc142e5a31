// Package annotation parses break point annotation files.
// Each line holds a time offset in seconds, a TAB, and a label that
// names the output file for the segment starting at that offset.
package annotation

import (
	"bufio"
	"errors"
	"fmt"
	"io"
	"os"
	"strconv"
	"strings"
)

// ErrEmptyAnnotation is returned when a file contains no break points.
var ErrEmptyAnnotation = errors.New("annotation file contains no break points")

// BreakPoint marks the start of one segment in the recording.
type BreakPoint struct {
	// Time is the offset from the start of the recording in seconds.
	Time float64
	// Label names the segment and becomes the base of its output filename.
	Label string
}

// ParseError describes a malformed annotation line.
type ParseError struct {
	// Line is the 1-based line number in the annotation file.
	Line int
	// Text is the offending line content.
	Text string
	// Reason explains what was wrong with the line.
	Reason string
}

func (e *ParseError) Error() string {
	return fmt.Sprintf("annotation line %d (%q): %s", e.Line, e.Text, e.Reason)
}

// Parse reads break points from r, one per line, preserving input order.
// Blank lines are skipped. Any malformed line aborts parsing with a
// *ParseError; an input with no valid lines yields ErrEmptyAnnotation.
func Parse(r io.Reader) ([]BreakPoint, error) {
	var points []BreakPoint

	scanner := bufio.NewScanner(r)
	lineNo := 0
	for scanner.Scan() {
		lineNo++
		line := scanner.Text()
		if strings.TrimSpace(line) == "" {
			continue
		}

		timeField, labelField, found := strings.Cut(line, "\t")
		if !found {
			return nil, &ParseError{Line: lineNo, Text: line, Reason: "missing TAB separator"}
		}

		t, err := strconv.ParseFloat(strings.TrimSpace(timeField), 64)
		if err != nil {
			return nil, &ParseError{Line: lineNo, Text: line, Reason: fmt.Sprintf("invalid time %q", timeField)}
		}
		if t < 0 {
			return nil, &ParseError{Line: lineNo, Text: line, Reason: fmt.Sprintf("negative time %g", t)}
		}

		label := strings.TrimSpace(labelField)
		if label == "" {
			return nil, &ParseError{Line: lineNo, Text: line, Reason: "empty label"}
		}

		points = append(points, BreakPoint{Time: t, Label: label})
	}
	if err := scanner.Err(); err != nil {
		return nil, fmt.Errorf("read annotation: %w", err)
	}

	if len(points) == 0 {
		return nil, ErrEmptyAnnotation
	}
	return points, nil
}

// ParseFile reads break points from the annotation file at path.
func ParseFile(path string) ([]BreakPoint, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("open annotation file: %w", err)
	}
	defer f.Close()

	points, err := Parse(f)
	if err != nil {
		return nil, err
	}
	return points, nil
}

// MaxLabelLen returns the length of the longest label, used for aligned
// progress output.
func MaxLabelLen(points []BreakPoint) int {
	maxLen := 0
	for _, p := range points {
		if len(p.Label) > maxLen {
			maxLen = len(p.Label)
		}
	}
	return maxLen
}
