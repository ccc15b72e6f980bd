package http1

// tokenChars marks the tchar set of RFC 9110 5.6.2
var tokenChars = func() (lut [256]bool) {
	for c := '0'; c <= '9'; c++ {
		lut[c] = true
	}

	for c := 'a'; c <= 'z'; c++ {
		lut[c] = true
		lut[c-'a'+'A'] = true
	}

	for _, c := range "!#$%&'*+-.^_`|~" {
		lut[c] = true
	}

	return lut
}()

func isToken(char byte) bool {
	return tokenChars[char]
}

// isURLChar accepts every visible byte, obs-text included
func isURLChar(char byte) bool {
	return char > ' ' && char != 0x7f
}

// isFieldVChar accepts bytes allowed in header values and reason phrases
func isFieldVChar(char byte) bool {
	return char == '\t' || (char >= ' ' && char != 0x7f)
}

func isDigit(char byte) bool {
	return '0' <= char && char <= '9'
}

func isAlnum(char byte) bool {
	return isDigit(char) || ('a' <= char|0x20 && char|0x20 <= 'z')
}

func isMethodChar(char byte) bool {
	return ('A' <= char && char <= 'Z') || char == '-'
}

func lower(char byte) byte {
	if 'A' <= char && char <= 'Z' {
		return char | 0x20
	}

	return char
}

func unHex(char byte) (value uint64, ok bool) {
	switch {
	case '0' <= char && char <= '9':
		return uint64(char - '0'), true
	case 'a' <= char && char <= 'f':
		return uint64(char-'a') + 10, true
	case 'A' <= char && char <= 'F':
		return uint64(char-'A') + 10, true
	}

	return 0, false
}
