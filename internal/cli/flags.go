package cli

import (
	"github.com/Ehco1996/myftp/internal/constant"

	cli "github.com/urfave/cli/v2"
)

var (
	ConfigPath string
	LogLevel   string
	Framing    string
	WebPort    int
	RateLimit  int
	ClientBind string
)

var RootFlags = []cli.Flag{
	&cli.StringFlag{
		Name:        "config",
		Aliases:     []string{"c"},
		Usage:       "config file path or http(s) url",
		EnvVars:     []string{"MYFTP_CONFIG_FILE"},
		Destination: &ConfigPath,
	},
	&cli.StringFlag{
		Name:        "log_level",
		Usage:       "log level",
		EnvVars:     []string{"MYFTP_LOG_LEVEL"},
		Destination: &LogLevel,
		DefaultText: constant.LogLevelInfo,
	},
	&cli.StringFlag{
		Name:        "framing",
		Usage:       "how to find the end of a received payload: trim (strip trailing zero bytes) or length (trust the received byte count)",
		EnvVars:     []string{"MYFTP_FRAMING"},
		Destination: &Framing,
		DefaultText: constant.FramingTrim,
	},
	&cli.IntFlag{
		Name:        "web_port",
		Usage:       "listen port of the prometheus web exporter, 0 disables it",
		EnvVars:     []string{"MYFTP_WEB_PORT"},
		Destination: &WebPort,
	},
	&cli.IntFlag{
		Name:        "rate_limit",
		Usage:       "server only, datagrams per second allowed from one source ip, 0 means no limit",
		EnvVars:     []string{"MYFTP_RATE_LIMIT"},
		Destination: &RateLimit,
	},
	&cli.StringFlag{
		Name:        "client_bind",
		Usage:       "client only, local address of the client socket",
		EnvVars:     []string{"MYFTP_CLIENT_BIND"},
		Destination: &ClientBind,
		DefaultText: constant.DefaultClientBind,
	},
}
