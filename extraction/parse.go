// Copyright 2025 Poiesic Systems
//
// Licensed under the Apache License, Version 2.0 (the "License");
// you may not use this file except in compliance with the License.
// You may obtain a copy of the License at
//
//     http://www.apache.org/licenses/LICENSE-2.0
//
// Unless required by applicable law or agreed to in writing, software
// distributed under the License is distributed on an "AS IS" BASIS,
// WITHOUT WARRANTIES OR CONDITIONS OF ANY KIND, either express or implied.
// See the License for the specific language governing permissions and
// limitations under the License.


package extraction

import (
	"encoding/json"
	"fmt"
	"strings"
)

// cleanResponse strips whitespace and markdown code fences from a model reply.
func cleanResponse(s string) string {
	s = strings.TrimSpace(s)
	s = strings.TrimPrefix(s, "```json")
	s = strings.TrimPrefix(s, "```")
	s = strings.TrimSuffix(s, "```")
	return strings.TrimSpace(s)
}

// isSentinel reports whether reply is the given sentinel, tolerating quotes,
// a trailing period, or a short explanation after it.
func isSentinel(reply, sentinel string) bool {
	s := strings.Trim(cleanResponse(reply), "'\"` .")
	if s == sentinel {
		return true
	}
	return strings.HasPrefix(s, sentinel) && !strings.ContainsAny(s, "{[")
}

// decodeJSON locates the first JSON object or array in a model reply and
// unmarshals it into v, repairing unquoted keys on the way.
func decodeJSON(reply string, v any) error {
	candidate := extractJSON(cleanResponse(reply))
	if candidate == "" {
		return ErrNoJSON
	}
	if err := json.Unmarshal([]byte(candidate), v); err == nil {
		return nil
	}
	if err := json.Unmarshal([]byte(repairJSON(candidate)), v); err != nil {
		return fmt.Errorf("decode model reply: %w", err)
	}
	return nil
}

// extractJSON returns the first balanced JSON object or array in s.
// Brackets inside string literals are ignored.
func extractJSON(s string) string {
	start := strings.IndexAny(s, "{[")
	if start == -1 {
		return ""
	}

	depth := 0
	inString := false
	escaped := false
	for i := start; i < len(s); i++ {
		ch := s[i]
		if inString {
			switch {
			case escaped:
				escaped = false
			case ch == '\\':
				escaped = true
			case ch == '"':
				inString = false
			}
			continue
		}
		switch ch {
		case '"':
			inString = true
		case '{', '[':
			depth++
		case '}', ']':
			depth--
			if depth == 0 {
				return s[start : i+1]
			}
		}
	}

	// Unbalanced; let the decoder report the problem.
	return s[start:]
}

// repairJSON quotes object keys a model left bare (`{answer: 1}`) or
// half-quoted (`{answer": 1}`). Text inside string literals is copied as is.
func repairJSON(s string) string {
	var b strings.Builder
	b.Grow(len(s) + 16)

	inString := false
	for i := 0; i < len(s); i++ {
		c := s[i]
		b.WriteByte(c)

		switch {
		case inString:
			if c == '\\' && i+1 < len(s) {
				i++
				b.WriteByte(s[i])
			} else if c == '"' {
				inString = false
			}
			continue
		case c == '"':
			inString = true
			continue
		case c != '{' && c != ',':
			continue
		}

		j := i + 1
		for j < len(s) && isSpace(s[j]) {
			j++
		}
		k := j
		for k < len(s) && isKeyByte(s[k]) {
			k++
		}
		if k == j {
			continue
		}
		key := s[j:k]

		switch {
		case strings.HasPrefix(s[k:], `":`):
			b.WriteString(s[i+1 : j])
			b.WriteString(`"` + key + `":`)
			i = k + 1
		case strings.HasPrefix(strings.TrimLeft(s[k:], " \t"), ":"):
			b.WriteString(s[i+1 : j])
			b.WriteString(`"` + key + `"`)
			i = k - 1
		}
	}
	return b.String()
}

func isKeyByte(c byte) bool {
	return c == '_' || c == '-' ||
		(c >= 'a' && c <= 'z') || (c >= 'A' && c <= 'Z') || (c >= '0' && c <= '9')
}

func isSpace(c byte) bool {
	return c == ' ' || c == '\n' || c == '\t' || c == '\r'
}
