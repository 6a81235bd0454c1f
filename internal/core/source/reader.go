// Package source loads the ordered URL list a batch run works through.
package source

import (
	"bufio"
	"fmt"
	"os"
	"strings"

	"linkscraper/internal/logger"
)

type Reader struct {
	log *logger.Logger
}

func NewReader() *Reader { return &Reader{log: logger.New("SourceReader")} }

// Read returns the URLs found in the line-delimited file at path, in file
// order. Lines that are empty or do not start with "http" after trimming are
// dropped silently; duplicates are preserved. A zero-length result is not an
// error at this layer.
func (r *Reader) Read(path string) ([]string, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("failed to read source file %s: %w", path, err)
	}
	defer f.Close()

	urls := make([]string, 0)
	scanner := bufio.NewScanner(f)
	for scanner.Scan() {
		line := strings.TrimSpace(scanner.Text())
		if line != "" && strings.HasPrefix(line, "http") {
			urls = append(urls, line)
		}
	}
	if err := scanner.Err(); err != nil {
		return nil, fmt.Errorf("failed to read source file %s: %w", path, err)
	}

	r.log.LogInfof("found %d URLs in %s", len(urls), path)
	return urls, nil
}
