package format

import "strings"

// NormalizeNumber lowercases prefixes, exponents and suffixes, uppercases
// hex digits and completes floats like "1." and ".5".
func NormalizeNumber(text string) string {
	text = strings.ToLower(text)
	switch {
	case strings.HasPrefix(text, "0b"), strings.HasPrefix(text, "0o"):
		return text
	case strings.HasPrefix(text, "0x"):
		return text[:2] + strings.ToUpper(text[2:])
	case strings.Contains(text, "e"):
		before, after, _ := strings.Cut(text, "e")
		sign := ""
		switch {
		case strings.HasPrefix(after, "-"):
			after, sign = after[1:], "-"
		case strings.HasPrefix(after, "+"):
			after = after[1:]
		}
		return completeFloat(before) + "e" + sign + after
	case strings.HasSuffix(text, "j"):
		return completeFloat(text[:len(text)-1]) + "j"
	}
	return completeFloat(text)
}

func completeFloat(text string) string {
	before, after, ok := strings.Cut(text, ".")
	if !ok {
		return text
	}
	if before == "" {
		before = "0"
	}
	if after == "" {
		after = "0"
	}
	return before + "." + after
}

// NormalizeStringPrefix drops u/U and lowercases F and B; R keeps its case.
func NormalizeStringPrefix(text string) string {
	i := strings.IndexAny(text, `'"`)
	if i <= 0 {
		return text
	}
	prefix := strings.NewReplacer("F", "f", "B", "b", "U", "", "u", "").Replace(text[:i])
	return prefix + text[i:]
}
