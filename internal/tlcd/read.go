package tlcd

import (
	"bufio"
	"fmt"
	"io"
	"strconv"
	"strings"
)

// Gate is one parsed gate line. Weights are in fanin order (first fanin
// first), i.e. reversed with respect to the file.
type Gate struct {
	Name      string `yaml:"name"`
	Weights   []int  `yaml:"weights,flow"`
	Threshold int    `yaml:"threshold"`
	Formula   string `yaml:"formula"`
}

// File is the content of a TLCD file.
type File struct {
	Comment string   `yaml:"comment,omitempty"`
	Header  Header   `yaml:"header"`
	Inputs  []string `yaml:"inputs"`
	Outputs []string `yaml:"outputs"`
	Gates   []Gate   `yaml:"gates"`
}

// Parse reads a TLCD file. Section sizes must match the header counts.
// Blank lines and '#' comment lines are skipped; the first comment is kept.
func Parse(r io.Reader) (*File, error) {
	scanner := bufio.NewScanner(r)
	scanner.Buffer(make([]byte, 0, 64*1024), 16*1024*1024)

	var f File
	lineNo := 0
	next := func() (string, bool) {
		for scanner.Scan() {
			lineNo++
			line := strings.TrimSpace(scanner.Text())
			if line == "" {
				continue
			}
			if strings.HasPrefix(line, "#") {
				if f.Comment == "" {
					f.Comment = strings.TrimSpace(strings.TrimPrefix(line, "#"))
				}
				continue
			}
			return line, true
		}
		return "", false
	}

	line, ok := next()
	if !ok {
		return nil, readErr(scanner, "missing tlg header")
	}
	h, err := parseHeader(line)
	if err != nil {
		return nil, fmt.Errorf("line %d: %w", lineNo, err)
	}
	f.Header = h

	terminal := func(kind string, count int) ([]string, error) {
		names := make([]string, 0, count)
		for len(names) < count {
			line, ok := next()
			if !ok {
				return nil, readErr(scanner, fmt.Sprintf("expected %d %s, found %d", count, kind, len(names)))
			}
			if strings.ContainsAny(line, " \t") {
				return nil, fmt.Errorf("line %d: %s name %q contains whitespace", lineNo, kind, line)
			}
			names = append(names, line)
		}
		return names, nil
	}
	if f.Inputs, err = terminal("inputs", h.Inputs); err != nil {
		return nil, err
	}
	if f.Outputs, err = terminal("outputs", h.Outputs); err != nil {
		return nil, err
	}

	f.Gates = make([]Gate, 0, h.Gates)
	for len(f.Gates) < h.Gates {
		line, ok := next()
		if !ok {
			return nil, readErr(scanner, fmt.Sprintf("expected %d gates, found %d", h.Gates, len(f.Gates)))
		}
		g, err := parseGate(line)
		if err != nil {
			return nil, fmt.Errorf("line %d: %w", lineNo, err)
		}
		f.Gates = append(f.Gates, g)
	}
	if line, ok := next(); ok {
		return nil, fmt.Errorf("line %d: unexpected content after %d gates: %q", lineNo, h.Gates, line)
	}
	if err := scanner.Err(); err != nil {
		return nil, fmt.Errorf("read: %w", err)
	}
	return &f, nil
}

func readErr(scanner *bufio.Scanner, msg string) error {
	if err := scanner.Err(); err != nil {
		return fmt.Errorf("read: %w", err)
	}
	return fmt.Errorf("unexpected end of file: %s", msg)
}

func parseHeader(line string) (Header, error) {
	fields := strings.Fields(line)
	if len(fields) != 6 || fields[0] != "tlg" {
		return Header{}, fmt.Errorf("malformed header %q", line)
	}
	var vals [5]int
	for i := range vals {
		v, err := strconv.Atoi(fields[i+1])
		if err != nil || v < 0 {
			return Header{}, fmt.Errorf("malformed header count %q", fields[i+1])
		}
		vals[i] = v
	}
	h := Header{MaxVar: vals[0], Inputs: vals[1], Latches: vals[2], Outputs: vals[3], Gates: vals[4]}
	if h.MaxVar != h.Inputs+h.Gates {
		return Header{}, fmt.Errorf("header max variable %d != inputs %d + gates %d", h.MaxVar, h.Inputs, h.Gates)
	}
	return h, nil
}

// parseGate splits a gate line. The integers after the name are the weights
// followed by the threshold; the formula starts at the first non-integer
// token, or is the last token when it is a bare constant.
func parseGate(line string) (Gate, error) {
	fields := strings.Fields(line)
	if len(fields) < 3 {
		return Gate{}, fmt.Errorf("gate line %q is too short", line)
	}
	g := Gate{Name: fields[0]}

	var ints []int
	i := 1
	for ; i < len(fields); i++ {
		v, err := strconv.Atoi(fields[i])
		if err != nil {
			break
		}
		ints = append(ints, v)
	}
	if i == len(fields) {
		// Constant formula: the last integer token.
		g.Formula = fields[len(fields)-1]
		ints = ints[:len(ints)-1]
	} else {
		g.Formula = strings.Join(fields[i:], " ")
	}
	if len(ints) == 0 {
		return Gate{}, fmt.Errorf("gate %s has no threshold", g.Name)
	}

	g.Threshold = ints[len(ints)-1]
	ws := ints[:len(ints)-1]
	g.Weights = make([]int, len(ws))
	for j, w := range ws {
		g.Weights[len(ws)-1-j] = w
	}
	return g, nil
}
