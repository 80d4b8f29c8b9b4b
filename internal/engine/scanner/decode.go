package scanner

import (
	"bytes"
	"os"
	"strings"
	"unicode/utf8"

	"golang.org/x/text/encoding/charmap"

	"rapidscore/internal/core/errors"
)

var utf8BOM = []byte{0xEF, 0xBB, 0xBF}

// Byte values Windows-1252 leaves unassigned.
var cp1252Undefined = []byte{0x81, 0x8D, 0x8F, 0x90, 0x9D}

// Decode converts file content to text. UTF-8 is tried first (a leading BOM
// is dropped); content that is not valid UTF-8 is read as Windows-1252, the
// encoding older controllers save programs in.
func Decode(data []byte) (string, error) {
	data = bytes.TrimPrefix(data, utf8BOM)
	if utf8.Valid(data) {
		return string(data), nil
	}
	if containsUndefined(data) {
		return "", errors.New(errors.CodeDecodeFailed, "content is neither UTF-8 nor Windows-1252")
	}
	out, err := charmap.Windows1252.NewDecoder().Bytes(data)
	if err != nil {
		return "", errors.Wrap(err, errors.CodeDecodeFailed, "windows-1252 decode failed")
	}
	return string(out), nil
}

func containsUndefined(data []byte) bool {
	for _, b := range cp1252Undefined {
		if bytes.IndexByte(data, b) >= 0 {
			return true
		}
	}
	return false
}

// ReadLines reads and decodes path and splits it into lines.
func ReadLines(path string) ([]string, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, err
	}
	text, err := Decode(data)
	if err != nil {
		return nil, errors.AddContext(err, errors.CtxPath, path)
	}
	return SplitLines(text), nil
}

// SplitLines splits text on \n, \r\n or a lone \r. A trailing line break does
// not produce an extra empty line.
func SplitLines(text string) []string {
	if text == "" {
		return nil
	}
	text = strings.ReplaceAll(text, "\r\n", "\n")
	text = strings.ReplaceAll(text, "\r", "\n")
	lines := strings.Split(text, "\n")
	if lines[len(lines)-1] == "" {
		lines = lines[:len(lines)-1]
	}
	return lines
}
