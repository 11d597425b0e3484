package hostlist

import (
	"bufio"
	"fmt"
	"os"
	"strings"
)

// Read loads host identifiers from path, one per line. Only the first
// whitespace-separated column of each line is used; blank lines and lines
// starting with '#' are skipped. Order and duplicates are preserved. A missing
// or empty file is an error, since a run without hosts cannot do anything.
func Read(path string) ([]string, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("opening host list: %w", err)
	}
	defer f.Close()

	var hosts []string
	scanner := bufio.NewScanner(f)
	for scanner.Scan() {
		line := strings.TrimSpace(scanner.Text())
		if line == "" || strings.HasPrefix(line, "#") {
			continue
		}
		hosts = append(hosts, strings.Fields(line)[0])
	}
	if err := scanner.Err(); err != nil {
		return nil, fmt.Errorf("reading host list: %w", err)
	}
	if len(hosts) == 0 {
		return nil, fmt.Errorf("host list %s contains no hosts", path)
	}
	return hosts, nil
}
