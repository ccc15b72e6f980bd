package method

import "github.com/indigo-web/utils/uf"

type Method uint8

const (
	Unknown Method = iota
	DELETE
	GET
	HEAD
	POST
	PUT
	CONNECT
	OPTIONS
	TRACE
	COPY
	LOCK
	MKCOL
	MOVE
	PROPFIND
	PROPPATCH
	SEARCH
	UNLOCK
	BIND
	REBIND
	UNBIND
	ACL
	REPORT
	MKACTIVITY
	CHECKOUT
	MERGE
	MSEARCH
	NOTIFY
	SUBSCRIBE
	UNSUBSCRIBE
	PATCH
	PURGE
	MKCALENDAR
	LINK
	UNLINK
	SOURCE

	// Count is the number of known methods, which is also the greatest value of them
	Count = iota - 1
)

// MaxLength is the length of the longest known method token (UNSUBSCRIBE)
const MaxLength = len("UNSUBSCRIBE")

// List contains all the supported HTTP methods. They are sorted by their integer value, however
// Unknown method is not included. So in order to index the List, you must subtract 1 first.
var List = []Method{
	DELETE, GET, HEAD, POST, PUT, CONNECT, OPTIONS, TRACE, COPY, LOCK, MKCOL, MOVE,
	PROPFIND, PROPPATCH, SEARCH, UNLOCK, BIND, REBIND, UNBIND, ACL, REPORT, MKACTIVITY,
	CHECKOUT, MERGE, MSEARCH, NOTIFY, SUBSCRIBE, UNSUBSCRIBE, PATCH, PURGE, MKCALENDAR,
	LINK, UNLINK, SOURCE,
}

var names = [...]string{
	Unknown:     "<unknown>",
	DELETE:      "DELETE",
	GET:         "GET",
	HEAD:        "HEAD",
	POST:        "POST",
	PUT:         "PUT",
	CONNECT:     "CONNECT",
	OPTIONS:     "OPTIONS",
	TRACE:       "TRACE",
	COPY:        "COPY",
	LOCK:        "LOCK",
	MKCOL:       "MKCOL",
	MOVE:        "MOVE",
	PROPFIND:    "PROPFIND",
	PROPPATCH:   "PROPPATCH",
	SEARCH:      "SEARCH",
	UNLOCK:      "UNLOCK",
	BIND:        "BIND",
	REBIND:      "REBIND",
	UNBIND:      "UNBIND",
	ACL:         "ACL",
	REPORT:      "REPORT",
	MKACTIVITY:  "MKACTIVITY",
	CHECKOUT:    "CHECKOUT",
	MERGE:       "MERGE",
	MSEARCH:     "M-SEARCH",
	NOTIFY:      "NOTIFY",
	SUBSCRIBE:   "SUBSCRIBE",
	UNSUBSCRIBE: "UNSUBSCRIBE",
	PATCH:       "PATCH",
	PURGE:       "PURGE",
	MKCALENDAR:  "MKCALENDAR",
	LINK:        "LINK",
	UNLINK:      "UNLINK",
	SOURCE:      "SOURCE",
}

// String returns the method token as it appears on the wire. Values out of
// the known range are reported as Unknown
func (m Method) String() string {
	if int(m) >= len(names) {
		return names[Unknown]
	}

	return names[m]
}

var byLength = func() (lut [MaxLength + 1][]Method) {
	for _, method := range List {
		str := method.String()
		lut[len(str)] = append(lut[len(str)], method)
	}

	return lut
}()

// Parse returns the method by its case-sensitive token, or Unknown
func Parse(str string) Method {
	if len(str) == 0 || len(str) > MaxLength {
		return Unknown
	}

	for _, method := range byLength[len(str)] {
		if names[method] == str {
			return method
		}
	}

	return Unknown
}

// ParseBytes is Parse for a raw token. The token is not copied
func ParseBytes(token []byte) Method {
	return Parse(uf.B2S(token))
}
