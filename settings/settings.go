package settings

import "math"

type number interface {
	int | int8 | int16 | int32 | int64 | uint | uint8 | uint16 | uint32 | uint64
}

type Setting[T number] struct {
	Default T `mapstructure:"default"` // soft limit
	Maximal T `mapstructure:"maximal"` // hard limit
}

type (
	// HeadersNumber is responsible for the number of header fields
	// Default value is an initial capacity for handlers collecting headers
	// Maximal value is maximum number of headers allowed to be presented. Trailers
	//         are counted too
	HeadersNumber Setting[uint16]

	// HeadersSize is responsible for the size of the message head
	// Default value is an initial capacity for handlers buffering headers
	// Maximal value is a maximal number of bytes in the start line and headers
	//         (trailers included), after which the parser stops with a header
	//         overflow error
	HeadersSize Setting[uint32]

	// BodyChunkSize is responsible for chunks in chunked transfer encoding mode
	// Default value stands for nothing, as the parser never buffers chunks
	// Maximal value is a maximal length of a single chunk
	BodyChunkSize Setting[uint64]

	// FeedReadSize is responsible for how much data is fed at once by readers
	// driving the parser
	// Default value is a size of the read buffer
	// Maximal value is an upper bound for any custom read size
	FeedReadSize Setting[uint32]
)

type (
	Headers struct {
		Number HeadersNumber `mapstructure:"number"`
		Size   HeadersSize   `mapstructure:"size"`
	}

	Body struct {
		ChunkSize BodyChunkSize `mapstructure:"chunksize"`
	}

	Feed struct {
		ReadSize FeedReadSize `mapstructure:"readsize"`
	}
)

type Settings struct {
	Headers Headers `mapstructure:"headers"`
	Body    Body    `mapstructure:"body"`
	Feed    Feed    `mapstructure:"feed"`
	// Pipelining lets a single parser run over consecutive messages of a persistent
	// connection. When disabled, the parser stops after the first message and must be
	// reset explicitly
	Pipelining bool `mapstructure:"pipelining"`
}

func Default() Settings {
	// Usually, Default field stands for size of pre-allocated something
	// and Maximal stands for maximal size of something

	return Settings{
		Headers: Headers{
			Number: HeadersNumber{
				Default: 16,
				Maximal: 100,
			},
			Size: HeadersSize{
				Default: 4096,
				Maximal: 80 * 1024,
			},
		},
		Body: Body{
			ChunkSize: BodyChunkSize{
				Default: 4096,
				Maximal: math.MaxUint64,
			},
		},
		Feed: Feed{
			ReadSize: FeedReadSize{
				Default: 4096,
				Maximal: math.MaxUint16,
			},
		},
	}
}

// Fill takes some settings and fills it with default values
// everywhere where it is not filled
func Fill(original Settings) (modified Settings) {
	defaultSettings := Default()

	original.Headers.Number.Default = customOrDefault(
		original.Headers.Number.Default, defaultSettings.Headers.Number.Default,
	)
	original.Headers.Number.Maximal = customOrDefault(
		original.Headers.Number.Maximal, defaultSettings.Headers.Number.Maximal,
	)
	original.Headers.Size.Default = customOrDefault(
		original.Headers.Size.Default, defaultSettings.Headers.Size.Default,
	)
	original.Headers.Size.Maximal = customOrDefault(
		original.Headers.Size.Maximal, defaultSettings.Headers.Size.Maximal,
	)
	original.Body.ChunkSize.Default = customOrDefault(
		original.Body.ChunkSize.Default, defaultSettings.Body.ChunkSize.Default,
	)
	original.Body.ChunkSize.Maximal = customOrDefault(
		original.Body.ChunkSize.Maximal, defaultSettings.Body.ChunkSize.Maximal,
	)
	original.Feed.ReadSize.Default = customOrDefault(
		original.Feed.ReadSize.Default, defaultSettings.Feed.ReadSize.Default,
	)
	original.Feed.ReadSize.Maximal = customOrDefault(
		original.Feed.ReadSize.Maximal, defaultSettings.Feed.ReadSize.Maximal,
	)

	return original
}

func customOrDefault[T number](custom, defaultVal T) T {
	if custom == 0 {
		return defaultVal
	}

	return custom
}
