package message

import (
	"github.com/indigo-web/muncher/http/method"
	"github.com/indigo-web/muncher/http/parser/http1"
	"github.com/indigo-web/muncher/http/proto"
	"github.com/indigo-web/muncher/http/status"
	"github.com/indigo-web/utils/strcomp"
)

// Message is an HTTP/1.x message assembled out of parser callbacks
type Message struct {
	Kind         http1.Mode
	Method       method.Method
	URL          string
	Code         status.Code
	Reason       string
	Major, Minor uint16
	// Headers and Trailers keep pairs in order of appearance, with names as-is
	Headers   [][2]string
	Trailers  [][2]string
	Body      []byte
	Chunked   bool
	KeepAlive bool
	Upgrade   bool
}

// Header returns the first value of the header. The name is case-insensitive
func (m Message) Header(name string) (value string, found bool) {
	for _, pair := range m.Headers {
		if strcomp.EqualFold(pair[0], name) {
			return pair[1], true
		}
	}

	return "", false
}

// Values returns all the values of the header in order of appearance
func (m Message) Values(name string) (values []string) {
	for _, pair := range m.Headers {
		if strcomp.EqualFold(pair[0], name) {
			values = append(values, pair[1])
		}
	}

	return values
}

func (m Message) Proto() proto.Proto {
	return proto.Parse(m.Major, m.Minor)
}

// UpgradeTo returns the protocol the message switches to. It is Unknown for messages
// which didn't upgrade or named no recognized protocol
func (m Message) UpgradeTo() proto.Proto {
	if !m.Upgrade {
		return proto.Unknown
	}

	for _, value := range m.Values("Upgrade") {
		if p := proto.ChooseUpgrade(value); p != proto.Unknown {
			return p
		}
	}

	return proto.Unknown
}
