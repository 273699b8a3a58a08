package motion

import (
	"bufio"
	"strconv"
	"strings"
	"unicode"

	v3 "github.com/deadsy/sdfx/vec/v3"
)

// IsMoveCommand reports whether a G-code word is one of the two linear move mnemonics (G0 rapid, G1 feed).
// Zero-padded spellings (G00, G01) and lowercase are accepted.
func IsMoveCommand(word string) bool {
	if len(word) < 2 || (word[0] != 'G' && word[0] != 'g') {
		return false
	}
	n, err := strconv.Atoi(word[1:])
	if err != nil || strings.ContainsAny(word[1:], "+-") {
		return false
	}
	return n == 0 || n == 1
}

// ParseMove overlays the X/Y/Z words of a single line onto base. ok is false if the line is not a move
// command. Scanning stops at the first malformed word: the axes read before it are kept. Letters other than
// X, Y and Z (F, E, ...) are skipped together with their value.
func ParseMove(line string, base v3.Vec) (p v3.Vec, ok bool) {
	line = stripComment(line)
	rest := strings.TrimLeftFunc(line, unicode.IsSpace)
	end := strings.IndexFunc(rest, unicode.IsSpace)
	if end < 0 {
		end = len(rest)
	}
	if !IsMoveCommand(rest[:end]) {
		return base, false
	}
	p = base
	s := rest[end:]
	for {
		s = strings.TrimLeftFunc(s, unicode.IsSpace)
		if s == "" {
			return p, true
		}
		axis := unicode.ToUpper(rune(s[0]))
		if axis < 'A' || axis > 'Z' {
			return p, true
		}
		s = strings.TrimLeftFunc(s[1:], unicode.IsSpace)
		n := numberPrefix(s)
		value, err := strconv.ParseFloat(s[:n], 64)
		if err != nil {
			return p, true
		}
		s = s[n:]
		switch axis {
		case 'X':
			p.X = value
		case 'Y':
			p.Y = value
		case 'Z':
			p.Z = value
		}
	}
}

// Execute parses a block of G-code and queues one clamped target per move line, each one inheriting omitted
// axes from the previous target. Anything else is ignored. It returns the number of targets queued.
func (c *Controller) Execute(program string) int {
	queued := 0
	sc := bufio.NewScanner(strings.NewReader(program))
	sc.Buffer(make([]byte, 0, 1024), len(program)+1)
	for sc.Scan() {
		p, ok := ParseMove(sc.Text(), c.last)
		if !ok {
			continue
		}
		c.Push(p)
		queued++
	}
	return queued
}

// stripComment removes a trailing ';' comment and any parenthesized comments.
func stripComment(line string) string {
	if i := strings.IndexByte(line, ';'); i >= 0 {
		line = line[:i]
	}
	for {
		open := strings.IndexByte(line, '(')
		if open < 0 {
			return line
		}
		closing := strings.IndexByte(line[open:], ')')
		if closing < 0 {
			return line[:open]
		}
		line = line[:open] + " " + line[open+closing+1:]
	}
}

// numberPrefix returns the length of the leading [+-]digits[.digits] run of s.
func numberPrefix(s string) int {
	i := 0
	if i < len(s) && (s[i] == '+' || s[i] == '-') {
		i++
	}
	for i < len(s) && (s[i] >= '0' && s[i] <= '9' || s[i] == '.') {
		i++
	}
	return i
}
