package worker

import (
	"bufio"
	"io"
	"strings"
)

// ReadInputs reads domains from r, one per line, trimming whitespace. Blank
// lines and lines that are only whitespace are dropped, so a trailing newline
// or padding in a piped domain list never produces an empty input.
func ReadInputs(r io.Reader) ([]string, error) {
	var inputs []string
	scanner := bufio.NewScanner(r)
	for scanner.Scan() {
		line := strings.TrimSpace(scanner.Text())
		if line != "" {
			inputs = append(inputs, line)
		}
	}
	if err := scanner.Err(); err != nil {
		return nil, err
	}
	return inputs, nil
}
