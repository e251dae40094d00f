package logtail

import (
	"bufio"
	"errors"
	"fmt"
	"os"
	"sort"
	"strings"
	"time"
)

// Read returns at most maxLines from the end of the file at path.
func Read(path string, maxLines int) ([]string, error) {
	if maxLines <= 0 {
		return nil, nil
	}
	file, err := os.Open(path)
	if err != nil {
		if errors.Is(err, os.ErrNotExist) {
			return nil, nil
		}
		return nil, fmt.Errorf("open log: %w", err)
	}
	defer file.Close()

	ring := make([]string, maxLines)
	scanner := bufio.NewScanner(file)
	scanner.Buffer(make([]byte, 0, 64*1024), 1024*1024)
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

// Entry is one parsed logrus text line.
type Entry struct {
	Raw     string
	Time    time.Time
	Level   string // lowercase logrus level name; empty for unparsed lines
	Message string
	Fields  []Field // remaining key=value pairs in key order
}

// Field is a single structured key=value pair.
type Field struct {
	Key   string
	Value string
}

// Parse splits a line written by logrus' TextFormatter
// (time="..." level=info msg="..." key=value) into an Entry. Lines that are
// not in that shape come back with only Raw and Message set.
func Parse(line string) Entry {
	e := Entry{Raw: line}
	pairs, ok := splitPairs(line)
	if !ok {
		e.Message = line
		return e
	}
	for _, p := range pairs {
		switch p.Key {
		case "time":
			e.Time, _ = time.Parse(time.RFC3339, p.Value)
		case "level":
			e.Level = strings.ToLower(p.Value)
		case "msg":
			e.Message = p.Value
		default:
			e.Fields = append(e.Fields, p)
		}
	}
	if e.Level == "" && e.Time.IsZero() {
		return Entry{Raw: line, Message: line}
	}
	sort.SliceStable(e.Fields, func(i, j int) bool { return e.Fields[i].Key < e.Fields[j].Key })
	return e
}

// ParseLines parses each line in order.
func ParseLines(lines []string) []Entry {
	out := make([]Entry, 0, len(lines))
	for _, l := range lines {
		out = append(out, Parse(l))
	}
	return out
}

var levelRank = map[string]int{
	"trace":   0,
	"debug":   1,
	"info":    2,
	"warning": 3,
	"warn":    3,
	"error":   4,
	"fatal":   5,
	"panic":   6,
}

// AtLeast reports whether the entry's level is min or more severe. Unparsed
// lines always pass so continuation output is never hidden.
func (e Entry) AtLeast(min string) bool {
	want, ok := levelRank[strings.ToLower(min)]
	if !ok {
		return true
	}
	have, ok := levelRank[e.Level]
	if !ok {
		return true
	}
	return have >= want
}

// Filter keeps entries at or above min whose raw text contains query
// (case-insensitive). Empty arguments match everything.
func Filter(entries []Entry, min, query string) []Entry {
	query = strings.ToLower(strings.TrimSpace(query))
	out := make([]Entry, 0, len(entries))
	for _, e := range entries {
		if min != "" && !e.AtLeast(min) {
			continue
		}
		if query != "" && !strings.Contains(strings.ToLower(e.Raw), query) {
			continue
		}
		out = append(out, e)
	}
	return out
}

// splitPairs tokenizes logfmt. Values may be bare or double quoted with
// backslash escapes.
func splitPairs(line string) ([]Field, bool) {
	var pairs []Field
	i := 0
	for i < len(line) {
		for i < len(line) && line[i] == ' ' {
			i++
		}
		if i >= len(line) {
			break
		}
		eq := strings.IndexByte(line[i:], '=')
		if eq <= 0 {
			return nil, false
		}
		key := line[i : i+eq]
		if strings.ContainsAny(key, " \"") {
			return nil, false
		}
		i += eq + 1

		var val strings.Builder
		if i < len(line) && line[i] == '"' {
			i++
			closed := false
			for i < len(line) {
				c := line[i]
				if c == '\\' && i+1 < len(line) {
					switch line[i+1] {
					case 'n':
						val.WriteByte('\n')
					case 't':
						val.WriteByte('\t')
					default:
						val.WriteByte(line[i+1])
					}
					i += 2
					continue
				}
				if c == '"' {
					closed = true
					i++
					break
				}
				val.WriteByte(c)
				i++
			}
			if !closed {
				return nil, false
			}
		} else {
			end := strings.IndexByte(line[i:], ' ')
			if end < 0 {
				end = len(line) - i
			}
			val.WriteString(line[i : i+end])
			i += end
		}
		pairs = append(pairs, Field{Key: key, Value: val.String()})
	}
	return pairs, len(pairs) > 0
}
