package config

import (
	"bufio"
	"fmt"
	"io"
	"os"
	"strings"

	"sqlfleet/pkg/model"
)

// ParseTargets reads one target per line: a host, optionally followed by an
// explicit instance list after a backslash and a domain suffix as a second
// field. Blank lines and # comments are skipped. Duplicates are kept; the
// aggregator discards duplicate instances downstream.
//
//	db01
//	db02\SALES,REPORTING
//	db03 corp.example.com
func ParseTargets(r io.Reader, defaultDomain string) ([]model.Target, error) {
	var targets []model.Target
	scanner := bufio.NewScanner(r)
	line := 0
	for scanner.Scan() {
		line++
		text := strings.TrimSpace(scanner.Text())
		if text == "" || strings.HasPrefix(text, "#") {
			continue
		}
		fields := strings.Fields(text)
		if len(fields) > 2 {
			return nil, fmt.Errorf("line %d: expected 'host [domain]', got %q", line, text)
		}

		target := model.Target{Domain: defaultDomain}
		if len(fields) == 2 {
			target.Domain = fields[1]
		}
		host := fields[0]
		if i := strings.IndexByte(host, '\\'); i >= 0 {
			for _, inst := range strings.Split(host[i+1:], ",") {
				if inst = strings.TrimSpace(inst); inst != "" {
					target.Instances = append(target.Instances, inst)
				}
			}
			host = host[:i]
		}
		if host == "" {
			return nil, fmt.Errorf("line %d: empty host in %q", line, text)
		}
		target.Host = host
		targets = append(targets, target)
	}
	return targets, scanner.Err()
}

// LoadTargetsFile parses the target list at path.
func LoadTargetsFile(path, defaultDomain string) ([]model.Target, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("open target list: %w", err)
	}
	defer f.Close()
	return ParseTargets(f, defaultDomain)
}
