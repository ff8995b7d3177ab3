package parser

import (
	"bufio"
	"errors"
	"io"

	"golang.org/x/text/encoding/unicode"
	"golang.org/x/text/transform"
)

// eachLine decodes r leniently and calls fn for every line, numbered from 1.
// UTF-8 is assumed unless a BOM says otherwise; invalid sequences decode to
// U+FFFD instead of failing the read.
func eachLine(r io.Reader, fn func(lineNo int, line string)) (int, error) {
	decoded := transform.NewReader(r, unicode.BOMOverride(unicode.UTF8.NewDecoder()))
	reader := bufio.NewReader(decoded)

	lineNo := 0
	for {
		line, err := reader.ReadString('\n')
		if len(line) > 0 {
			lineNo++
			fn(lineNo, trimNewline(line))
		}
		if err != nil {
			if errors.Is(err, io.EOF) {
				return lineNo, nil
			}
			return lineNo, err
		}
	}
}

func trimNewline(line string) string {
	if n := len(line); n > 0 && line[n-1] == '\n' {
		line = line[:n-1]
	}
	if n := len(line); n > 0 && line[n-1] == '\r' {
		line = line[:n-1]
	}
	return line
}
