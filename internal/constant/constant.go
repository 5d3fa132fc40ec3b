package constant

import "time"

var (
	Version     = "0.1.0-dev"
	GitBranch   string
	GitRevision string
	BuildTime   string
	StartTime   = time.Now().Local()
)

const (
	// both transmit staging and receive landing use buffers of this capacity
	DatagramBufSize = 2048

	// leaky pool bound, the loops hold at most one buffer at a time
	BUFFER_POOL_SIZE = 16

	FillByte = byte(0)
	FillChar = "\x00"

	DefaultClientBind = "0.0.0.0:0"

	// substituted for missing positional args, never matches a mode
	FallbackArg = "__RANDOM_STRING_THAT_NEVER_MATCH_TO_MODE__"

	LogLevelInfo = "info"
)

// execution mode
const (
	ModeServer = "server"
	ModeClient = "client"
)

// framing decides where the payload of a received datagram ends
const (
	// strip the trailing fill bytes of the whole buffer
	FramingTrim = "trim"
	// trust the byte count reported by the receive call
	FramingLength = "length"
)
