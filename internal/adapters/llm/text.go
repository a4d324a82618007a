package llm

import "strings"

// StripFences removes markdown code fences models wrap around output
func StripFences(s string) string {
	s = strings.TrimSpace(s)
	s = strings.TrimPrefix(s, "```json")
	s = strings.TrimPrefix(s, "```")
	s = strings.TrimSuffix(s, "```")
	return strings.TrimSpace(s)
}

// ExtractJSON returns the first balanced JSON object or array in raw,
// or empty when none is found. Models pad structured answers with prose;
// this recovers the payload without a full reparse
func ExtractJSON(raw string) string {
	start := -1
	var opener, closer byte
	for i := 0; i < len(raw); i++ {
		if raw[i] == '{' || raw[i] == '[' {
			start = i
			opener = raw[i]
			closer = '}'
			if opener == '[' {
				closer = ']'
			}
			break
		}
	}
	if start < 0 {
		return ""
	}

	depth := 0
	inString := false
	for i := start; i < len(raw); i++ {
		ch := raw[i]
		if inString {
			switch ch {
			case '\\':
				i++
			case '"':
				inString = false
			}
			continue
		}
		switch ch {
		case '"':
			inString = true
		case opener:
			depth++
		case closer:
			depth--
			if depth == 0 {
				return raw[start : i+1]
			}
		}
	}
	return ""
}

// ChunkWords splits text into pieces of at most maxWords whitespace
// separated words. Text that already fits comes back unchanged
func ChunkWords(text string, maxWords int) []string {
	words := strings.Fields(text)
	if len(words) == 0 {
		return nil
	}
	if maxWords <= 0 || len(words) <= maxWords {
		return []string{text}
	}
	out := make([]string, 0, (len(words)+maxWords-1)/maxWords)
	for start := 0; start < len(words); start += maxWords {
		out = append(out, strings.Join(words[start:min(start+maxWords, len(words))], " "))
	}
	return out
}
