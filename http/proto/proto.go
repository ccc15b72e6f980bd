package proto

type Proto uint8

const (
	Unknown Proto = 0
	HTTP09  Proto = 1 << iota
	HTTP10
	HTTP11
	HTTP2
	WebSocket

	HTTP1 = HTTP09 | HTTP10 | HTTP11
)

func (p Proto) String() string {
	switch p {
	case HTTP09:
		return "HTTP/0.9"
	case HTTP10:
		return "HTTP/1.0"
	case HTTP11:
		return "HTTP/1.1"
	case HTTP2:
		return "HTTP/2"
	case WebSocket:
		return "websocket"
	}

	return ""
}

var majorMinorVersionLUT = [10][10]Proto{
	0: {9: HTTP09},
	1: {0: HTTP10, 1: HTTP11},
	2: {0: HTTP2},
}

// Parse maps a version pair onto the protocol. Pairs without a dedicated
// protocol, e.g. 1.5, are Unknown
func Parse(major, minor uint16) Proto {
	if major > 9 || minor > 9 {
		return Unknown
	}

	return majorMinorVersionLUT[major][minor]
}

// KeepAliveByDefault tells whether a connection stays open when no Connection
// header says otherwise. Only versions from 1.1 onwards are persistent by default
func KeepAliveByDefault(major, minor uint16) bool {
	return major > 1 || (major == 1 && minor >= 1)
}
