package util

import (
	"fmt"
)

// ParseLocation represents a location in a source file
type ParseLocation struct {
	File   *ParseSourceFile
	Offset int
	Line   int
	Col    int
}

// NewParseLocation creates a new ParseLocation
func NewParseLocation(file *ParseSourceFile, offset, line, col int) *ParseLocation {
	return &ParseLocation{
		File:   file,
		Offset: offset,
		Line:   line,
		Col:    col,
	}
}

// String returns a string representation of the location
func (p *ParseLocation) String() string {
	if p.Offset >= 0 {
		return fmt.Sprintf("%s@%d:%d", p.File.URL, p.Line, p.Col)
	}
	return p.File.URL
}

// ParseSourceFile represents a source file
type ParseSourceFile struct {
	Content string
	URL     string
}

// NewParseSourceFile creates a new ParseSourceFile
func NewParseSourceFile(content, url string) *ParseSourceFile {
	return &ParseSourceFile{
		Content: content,
		URL:     url,
	}
}

// OffsetLocation computes the line/column location of a byte offset in file.
// Offsets past the end of the content are clamped.
func OffsetLocation(file *ParseSourceFile, offset int) *ParseLocation {
	if offset > len(file.Content) {
		offset = len(file.Content)
	}
	line := 0
	col := 0
	for i := 0; i < offset; i++ {
		if file.Content[i] == '\n' {
			line++
			col = 0
		} else {
			col++
		}
	}
	return NewParseLocation(file, offset, line, col)
}

// ParseSourceSpan represents a span of source code
type ParseSourceSpan struct {
	Start *ParseLocation
	End   *ParseLocation
}

// NewParseSourceSpan creates a new ParseSourceSpan
func NewParseSourceSpan(start, end *ParseLocation) *ParseSourceSpan {
	return &ParseSourceSpan{
		Start: start,
		End:   end,
	}
}

// OffsetSpan builds a ParseSourceSpan from a pair of byte offsets into file.
func OffsetSpan(file *ParseSourceFile, start, end int) *ParseSourceSpan {
	return NewParseSourceSpan(OffsetLocation(file, start), OffsetLocation(file, end))
}

// String returns the source code in this span
func (p *ParseSourceSpan) String() string {
	return p.Start.File.Content[p.Start.Offset:p.End.Offset]
}

// ParseErrorLevel represents the level of a parse error
type ParseErrorLevel int

const (
	ParseErrorLevelWarning ParseErrorLevel = iota
	ParseErrorLevelError
)

// ParseError represents a diagnostic produced during compilation
type ParseError struct {
	Span  *ParseSourceSpan
	Msg   string
	Level ParseErrorLevel
}

// NewParseError creates a new error-level ParseError
func NewParseError(span *ParseSourceSpan, msg string) *ParseError {
	return &ParseError{
		Span:  span,
		Msg:   msg,
		Level: ParseErrorLevelError,
	}
}

// NewParseWarning creates a new warning-level ParseError
func NewParseWarning(span *ParseSourceSpan, msg string) *ParseError {
	return &ParseError{
		Span:  span,
		Msg:   msg,
		Level: ParseErrorLevelWarning,
	}
}

// Error implements the error interface
func (p *ParseError) Error() string {
	return p.String()
}

// String returns a string representation of the error
func (p *ParseError) String() string {
	if p.Span == nil || p.Span.Start == nil {
		return p.Msg
	}
	return fmt.Sprintf("%s: %s", p.Msg, p.Span.Start)
}

// ErrorCollector accumulates diagnostics during a compilation run.
// Warnings are always non-fatal; error-level diagnostics mark the run as
// failed but do not unwind it.
type ErrorCollector struct {
	errors []*ParseError
}

// NewErrorCollector creates a new ErrorCollector
func NewErrorCollector() *ErrorCollector {
	return &ErrorCollector{}
}

// Warn records a non-fatal diagnostic
func (ec *ErrorCollector) Warn(msg string, span *ParseSourceSpan) {
	ec.errors = append(ec.errors, NewParseWarning(span, msg))
}

// Error records an error-level diagnostic
func (ec *ErrorCollector) Error(msg string, span *ParseSourceSpan) {
	ec.errors = append(ec.errors, NewParseError(span, msg))
}

// Errors returns all accumulated diagnostics in emission order
func (ec *ErrorCollector) Errors() []*ParseError {
	return ec.errors
}

// Warnings returns only the warning-level diagnostics
func (ec *ErrorCollector) Warnings() []*ParseError {
	var warnings []*ParseError
	for _, e := range ec.errors {
		if e.Level == ParseErrorLevelWarning {
			warnings = append(warnings, e)
		}
	}
	return warnings
}

// HasErrors reports whether any error-level diagnostic was recorded
func (ec *ErrorCollector) HasErrors() bool {
	for _, e := range ec.errors {
		if e.Level == ParseErrorLevelError {
			return true
		}
	}
	return false
}
