package http1

import "fmt"

// Errno is a parse failure code. The zero value means no failure. Values fit into
// 7 bits, so they can be packed alongside the status code and the method
type Errno uint8

const (
	ErrnoOK Errno = iota

	// a callback returned false
	ErrnoCBMessageBegin
	ErrnoCBURL
	ErrnoCBHeaderField
	ErrnoCBHeaderValue
	ErrnoCBHeadersComplete
	ErrnoCBBody
	ErrnoCBMessageComplete
	ErrnoCBStatus
	ErrnoCBChunkHeader
	ErrnoCBChunkComplete

	ErrnoInvalidEOFState
	ErrnoHeaderOverflow
	ErrnoClosedConnection
	ErrnoInvalidVersion
	ErrnoInvalidStatus
	ErrnoInvalidMethod
	ErrnoInvalidURL
	ErrnoLFExpected
	ErrnoInvalidHeaderToken
	ErrnoInvalidContentLength
	ErrnoUnexpectedContentLength
	ErrnoInvalidChunkSize
	ErrnoInvalidConstant
	ErrnoInvalidTransferEncoding
	ErrnoUnknown
)

var errnoEntries = [...]struct {
	name, description string
}{
	ErrnoOK:                      {"HPE_OK", "success"},
	ErrnoCBMessageBegin:          {"HPE_CB_message_begin", "the on_message_begin callback failed"},
	ErrnoCBURL:                   {"HPE_CB_url", "the on_url callback failed"},
	ErrnoCBHeaderField:           {"HPE_CB_header_field", "the on_header_field callback failed"},
	ErrnoCBHeaderValue:           {"HPE_CB_header_value", "the on_header_value callback failed"},
	ErrnoCBHeadersComplete:       {"HPE_CB_headers_complete", "the on_headers_complete callback failed"},
	ErrnoCBBody:                  {"HPE_CB_body", "the on_body callback failed"},
	ErrnoCBMessageComplete:       {"HPE_CB_message_complete", "the on_message_complete callback failed"},
	ErrnoCBStatus:                {"HPE_CB_status", "the on_status callback failed"},
	ErrnoCBChunkHeader:           {"HPE_CB_chunk_header", "the on_chunk_header callback failed"},
	ErrnoCBChunkComplete:         {"HPE_CB_chunk_complete", "the on_chunk_complete callback failed"},
	ErrnoInvalidEOFState:         {"HPE_INVALID_EOF_STATE", "stream ended at an unexpected time"},
	ErrnoHeaderOverflow:          {"HPE_HEADER_OVERFLOW", "too many header bytes seen; overflow detected"},
	ErrnoClosedConnection:        {"HPE_CLOSED_CONNECTION", "data received after completed connection: close message"},
	ErrnoInvalidVersion:          {"HPE_INVALID_VERSION", "invalid HTTP version"},
	ErrnoInvalidStatus:           {"HPE_INVALID_STATUS", "invalid HTTP status code"},
	ErrnoInvalidMethod:           {"HPE_INVALID_METHOD", "invalid HTTP method"},
	ErrnoInvalidURL:              {"HPE_INVALID_URL", "invalid URL"},
	ErrnoLFExpected:              {"HPE_LF_EXPECTED", "LF character expected"},
	ErrnoInvalidHeaderToken:      {"HPE_INVALID_HEADER_TOKEN", "invalid character in header"},
	ErrnoInvalidContentLength:    {"HPE_INVALID_CONTENT_LENGTH", "invalid character in content-length header"},
	ErrnoUnexpectedContentLength: {"HPE_UNEXPECTED_CONTENT_LENGTH", "unexpected content-length header"},
	ErrnoInvalidChunkSize:        {"HPE_INVALID_CHUNK_SIZE", "invalid character in chunk size header"},
	ErrnoInvalidConstant:         {"HPE_INVALID_CONSTANT", "invalid constant string"},
	ErrnoInvalidTransferEncoding: {"HPE_INVALID_TRANSFER_ENCODING", "request has invalid transfer-encoding"},
	ErrnoUnknown:                 {"HPE_UNKNOWN", "an unknown error occurred"},
}

func (e Errno) entry() int {
	if int(e) >= len(errnoEntries) {
		return int(ErrnoUnknown)
	}

	return int(e)
}

// Name returns the mnemonic of the errno, e.g. HPE_INVALID_METHOD
func (e Errno) Name() string {
	return errnoEntries[e.entry()].name
}

// Description returns a human-readable explanation of the errno
func (e Errno) Description() string {
	return errnoEntries[e.entry()].description
}

func (e Errno) String() string {
	return e.Name()
}

// Error makes every errno usable as a sentinel, so errors.Is(parser.Err(), ErrnoInvalidMethod)
// works as expected
func (e Errno) Error() string {
	return e.Description()
}

// IsCallback reports whether the errno was caused by a handler aborting the parsing
func (e Errno) IsCallback() bool {
	return e >= ErrnoCBMessageBegin && e <= ErrnoCBChunkComplete
}

// Error is a parse failure along with the offset of the offending byte inside the
// data passed to the failing Feed call
type Error struct {
	Errno  Errno
	Offset int
}

func (e *Error) Error() string {
	return fmt.Sprintf("http1: %s (%s) at offset %d", e.Errno.Description(), e.Errno.Name(), e.Offset)
}

func (e *Error) Unwrap() error {
	return e.Errno
}
