package http1

import (
	"github.com/indigo-web/muncher/http/method"
	"github.com/indigo-web/muncher/http/status"
)

// Snapshot is a copy of the status of the parser at some moment. It is finalized
// only after headers or the whole message are complete
type Snapshot struct {
	StatusCode status.Code
	Method     method.Method
	Errno      Errno
	Upgrade    bool
}

const (
	methodShift  = 16
	errnoShift   = 24
	upgradeShift = 31
	errnoMask    = 0x7f
)

// Pack squeezes the snapshot into a single word: 16 bits of the status code, 8 bits
// of the method, 7 bits of the errno and the upgrade bit on top. The codes are the
// values of method.Method and Errno, which don't match http_parser's numbering
func (s Snapshot) Pack() uint32 {
	word := uint32(s.StatusCode) |
		uint32(s.Method)<<methodShift |
		uint32(s.Errno&errnoMask)<<errnoShift

	if s.Upgrade {
		word |= 1 << upgradeShift
	}

	return word
}

// Unpack is the reverse of Snapshot.Pack. It never fails: methods and errnos out of the
// known range become method.Unknown and ErrnoUnknown respectively
func Unpack(word uint32) Snapshot {
	s := Snapshot{
		StatusCode: status.Code(word & 0xffff),
		Method:     method.Method(word >> methodShift & 0xff),
		Errno:      Errno(word >> errnoShift & errnoMask),
		Upgrade:    word>>upgradeShift == 1,
	}

	if s.Method > method.Count {
		s.Method = method.Unknown
	}

	if s.Errno > ErrnoUnknown {
		s.Errno = ErrnoUnknown
	}

	return s
}
