package batch

import (
	"bufio"
	"fmt"
	"io"
	"os"
	"strings"
)

// ReadBatchFile reads texts from a file, one per line. Blank lines and
// lines starting with '#' are skipped; surrounding whitespace is trimmed.
func ReadBatchFile(filename string) ([]string, error) {
	f, err := os.Open(filename)
	if err != nil {
		return nil, fmt.Errorf("failed to read batch file: %w", err)
	}
	defer f.Close()

	texts, err := ReadTexts(f)
	if err != nil {
		return nil, fmt.Errorf("failed to read batch file: %w", err)
	}
	return texts, nil
}

// ReadTexts reads texts from r with the same rules as ReadBatchFile.
func ReadTexts(r io.Reader) ([]string, error) {
	var texts []string

	scanner := bufio.NewScanner(r)
	scanner.Buffer(make([]byte, 0, 64*1024), 1024*1024)
	for scanner.Scan() {
		line := strings.TrimSpace(scanner.Text())
		if line == "" || strings.HasPrefix(line, "#") {
			continue
		}
		texts = append(texts, line)
	}
	if err := scanner.Err(); err != nil {
		return nil, err
	}

	return texts, nil
}

// ReadLines reads every line of r, blank lines and '#' lines included,
// with trailing whitespace removed. Line i of the output belongs to line i
// of the input.
func ReadLines(r io.Reader) ([]string, error) {
	var lines []string

	scanner := bufio.NewScanner(r)
	scanner.Buffer(make([]byte, 0, 64*1024), 1024*1024)
	for scanner.Scan() {
		lines = append(lines, strings.TrimRight(scanner.Text(), " \t\r"))
	}
	if err := scanner.Err(); err != nil {
		return nil, err
	}

	return lines, nil
}

// WriteResults writes one result per line to w.
func WriteResults(w io.Writer, results []string) error {
	bw := bufio.NewWriter(w)
	for _, r := range results {
		if _, err := bw.WriteString(r + "\n"); err != nil {
			return err
		}
	}
	return bw.Flush()
}

// WriteResultsFile writes results to filename, one per line.
func WriteResultsFile(filename string, results []string) error {
	f, err := os.Create(filename)
	if err != nil {
		return fmt.Errorf("failed to create output file: %w", err)
	}

	if err := WriteResults(f, results); err != nil {
		f.Close()
		return fmt.Errorf("failed to write output file: %w", err)
	}
	return f.Close()
}
