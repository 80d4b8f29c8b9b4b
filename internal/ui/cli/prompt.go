package cli

import (
	"bufio"
	"errors"
	"fmt"
	"io"
	"strings"
)

var errNoFolder = errors.New("no folder selected")

// resolveFolder returns the folder argument, or asks for one.
func resolveFolder(args []string, std streams) (string, error) {
	if len(args) > 0 && strings.TrimSpace(args[0]) != "" {
		return args[0], nil
	}
	return promptFolder(std.in, std.err)
}

// promptFolder reads one line naming the folder to analyze. Surrounding
// quotes, as left by drag and drop into a terminal, are removed. An empty
// answer cancels.
func promptFolder(in io.Reader, out io.Writer) (string, error) {
	if in == nil {
		return "", errNoFolder
	}
	fmt.Fprint(out, "RAPID project folder: ")
	line, err := bufio.NewReader(in).ReadString('\n')
	if err != nil && !errors.Is(err, io.EOF) {
		return "", fmt.Errorf("read folder: %w", err)
	}
	folder := strings.TrimSpace(line)
	folder = strings.Trim(folder, `"'`)
	if folder == "" {
		return "", errNoFolder
	}
	return folder, nil
}
