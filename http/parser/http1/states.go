package http1

type parserState uint8

const (
	sDead parserState = iota + 1
	sUpgraded
	sMessageDone
	sClosed

	sStart
	sStartH
	sMethod
	sSpacesBeforeURL
	sURL
	sHTTPStart
	sHTTPLiteral
	sMajor
	sDot
	sMinor
	sRequestLineEnd
	sSpaceBeforeCode
	sCodeStart
	sCode
	sReason
	sLineAlmostDone
	sHeaderFieldStart
	sHeaderField
	sHeaderValueStart
	sHeaderValue
	sHeaderLineAlmostDone
	sHeadersAlmostDone

	sBodyIdentity
	sBodyIdentityEOF
	sChunkSizeStart
	sChunkSize
	sChunkExtension
	sChunkSizeAlmostDone
	sChunkData
	sChunkDataEnd
	sChunkDataCR
)

// headerState tells which framing header is being parsed
type headerState uint8

const (
	hGeneral headerState = iota
	hContentLength
	hTransferEncoding
	hConnection
)

const (
	fChunked uint16 = 1 << iota
	fContentLength
	fTransferEncoding
	fConnectionKeepAlive
	fConnectionClose
	fConnectionUpgrade
	fUpgrade
	fSkipBody
	fTrailing
	fFinalChunk
)
