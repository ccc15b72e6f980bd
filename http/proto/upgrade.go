package proto

import (
	"strings"
)

// ChooseUpgrade picks the first recognized protocol out of an Upgrade header value
func ChooseUpgrade(line string) Proto {
	for len(line) > 0 {
		var token string
		token, line = cutbyte(line, ',')

		if proto := parseUpgradeToken(strings.TrimSpace(token)); proto != Unknown {
			// pick the first supported protocol, as they are placed in an order of
			// preference
			return proto
		}
	}

	return Unknown
}

func parseUpgradeToken(token string) Proto {
	switch strings.ToLower(token) {
	case "websocket":
		return WebSocket
	case "h2c":
		return HTTP2
	case "http/1.1":
		return HTTP11
	case "http/1.0":
		return HTTP10
	}

	return Unknown
}

func cutbyte(str string, sep byte) (prefix, postfix string) {
	for i := 0; i < len(str); i++ {
		if str[i] == sep {
			return str[:i], str[i+1:]
		}
	}

	return str, ""
}
