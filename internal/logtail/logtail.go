package logtail

import (
	"bufio"
	"errors"
	"fmt"
	"os"
	"strings"

	"github.com/tidwall/gjson"
)

// Read returns at most maxLines from the end of the file at path. A
// non-positive maxLines returns every line.
func Read(path string, maxLines int) ([]string, error) {
	file, err := os.Open(path)
	if err != nil {
		if errors.Is(err, os.ErrNotExist) {
			return nil, nil
		}
		return nil, fmt.Errorf("open log: %w", err)
	}
	defer file.Close()

	scanner := bufio.NewScanner(file)
	scanner.Buffer(make([]byte, 0, 64*1024), 1024*1024)

	if maxLines <= 0 {
		var lines []string
		for scanner.Scan() {
			lines = append(lines, scanner.Text())
		}
		if err := scanner.Err(); err != nil {
			return nil, fmt.Errorf("read log: %w", err)
		}
		return lines, nil
	}

	ring := make([]string, maxLines)
	count := 0
	idx := 0
	for scanner.Scan() {
		ring[idx] = scanner.Text()
		idx = (idx + 1) % maxLines
		if count < maxLines {
			count++
		}
	}
	if err := scanner.Err(); err != nil {
		return nil, fmt.Errorf("read log: %w", err)
	}

	lines := make([]string, count)
	if count == maxLines {
		for i := 0; i < count; i++ {
			lines[i] = ring[(idx+i)%maxLines]
		}
	} else {
		copy(lines, ring[:count])
	}
	return lines, nil
}

// Entry is one decoded log record.
type Entry struct {
	Time      string
	Level     string
	Component string
	Message   string
	// Fields holds the remaining keys as key=value pairs in file order.
	Fields []string
	// Raw is set when the line was not JSON.
	Raw string
}

var reservedKeys = map[string]bool{"time": true, "level": true, "msg": true, "component": true}

// Parse decodes a JSON log line. Lines that are not JSON come back with only
// Raw set.
func Parse(line string) Entry {
	trimmed := strings.TrimSpace(line)
	if trimmed == "" || !gjson.Valid(trimmed) || !gjson.Parse(trimmed).IsObject() {
		return Entry{Raw: line}
	}
	parsed := gjson.Parse(trimmed)
	entry := Entry{
		Time:      parsed.Get("time").String(),
		Level:     strings.ToUpper(parsed.Get("level").String()),
		Component: parsed.Get("component").String(),
		Message:   parsed.Get("msg").String(),
	}
	parsed.ForEach(func(key, value gjson.Result) bool {
		if !reservedKeys[key.String()] {
			entry.Fields = append(entry.Fields, key.String()+"="+value.String())
		}
		return true
	})
	return entry
}

// ReadEntries reads and parses the last maxLines records.
func ReadEntries(path string, maxLines int) ([]Entry, error) {
	lines, err := Read(path, maxLines)
	if err != nil {
		return nil, err
	}
	entries := make([]Entry, 0, len(lines))
	for _, line := range lines {
		entries = append(entries, Parse(line))
	}
	return entries, nil
}
