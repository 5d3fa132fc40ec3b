package cli

import (
	"context"
	"fmt"
	"io"
	"os/signal"
	"syscall"

	"github.com/pkg/errors"
	cli "github.com/urfave/cli/v2"
	"golang.org/x/sync/errgroup"

	"github.com/Ehco1996/myftp/internal/client"
	"github.com/Ehco1996/myftp/internal/config"
	"github.com/Ehco1996/myftp/internal/constant"
	"github.com/Ehco1996/myftp/internal/metrics"
	"github.com/Ehco1996/myftp/internal/server"
	"github.com/Ehco1996/myftp/internal/web"
	"github.com/Ehco1996/myftp/pkg/log"
)

var cliLogger = log.MustNewLogger(constant.LogLevelInfo).Sugar().Named("cli")

func usage() {
	cliLogger.Info("")
	cliLogger.Info("[  INIT  ] Failed to parse command line arguments.")
	cliLogger.Info("")
	cliLogger.Info("  myftp <mode> <address>")
	cliLogger.Info("")
	cliLogger.Info("    mode    : execution mode (server, client)")
	cliLogger.Info("    address : socket address to bind (e.g. '127.0.0.1:8000')")
	cliLogger.Info("")
}

func argOrFallback(args cli.Args, n int) string {
	if v := args.Get(n); v != "" {
		return v
	}
	return constant.FallbackArg
}

// startAction handles `myftp <mode> <address>` for any mode that is not a sub command,
// and `myftp -c <config>` where the mode comes from the config file.
func startAction(ctx *cli.Context) error {
	mode := argOrFallback(ctx.Args(), 0)
	address := argOrFallback(ctx.Args(), 1)
	if ctx.NArg() == 0 && ConfigPath != "" {
		mode, address = "", ""
	}
	return start(ctx, mode, address)
}

func modeAction(mode string) cli.ActionFunc {
	return func(ctx *cli.Context) error {
		return start(ctx, mode, argOrFallback(ctx.Args(), 0))
	}
}

func start(ctx *cli.Context, mode, address string) error {
	if mode != "" && mode != constant.ModeServer && mode != constant.ModeClient {
		usage()
		return nil
	}
	cfg, err := InitConfigAndComponents(mode, address)
	if err != nil {
		return err
	}
	if !cfg.IsServer() && !cfg.IsClient() {
		usage()
		return nil
	}

	mainCtx, stop := signal.NotifyContext(ctx.Context, syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	err = Run(mainCtx, cfg, ctx.App.Reader)
	cliLogger.Info("myftp exit now...")
	return err
}

// Run starts the loop of cfg.Mode plus the web server when configured, and blocks until
// the loop fails or ctx is done. A cancelled ctx is not an error.
func Run(ctx context.Context, cfg *config.Config, in io.Reader) error {
	cliLogger.Infof("Start myftp with version:%s mode:%s", constant.Version, cfg.Mode)
	metrics.RegisterMetrics()

	var loop func(context.Context) error
	switch {
	case cfg.IsServer():
		s, err := server.New(cfg.Address,
			server.WithFraming(cfg.GetFraming()),
			server.WithRateLimit(cfg.RateLimit),
		)
		if err != nil {
			return err
		}
		defer s.Close()
		loop = s.Serve
	case cfg.IsClient():
		c, err := client.Connect(ctx, cfg.Address,
			client.WithFraming(cfg.GetFraming()),
			client.WithBindAddress(cfg.ClientBind),
		)
		if err != nil {
			return err
		}
		defer c.Close()
		loop = func(ctx context.Context) error { return c.Run(ctx, in) }
	default:
		return errors.Errorf("invalid mode:%s", cfg.Mode)
	}

	g, gCtx := errgroup.WithContext(ctx)
	if cfg.NeedStartWebServer() {
		webS, err := web.NewServer(cfg)
		if err != nil {
			return err
		}
		g.Go(func() error { return webS.Start(gCtx) })
	}
	g.Go(func() error {
		metrics.Alive.Set(metrics.AliveStateRunning)
		defer metrics.Alive.Set(metrics.AliveStateInit)
		return loop(gCtx)
	})

	err := g.Wait()
	if errors.Is(err, context.Canceled) && ctx.Err() != nil {
		return nil
	}
	return err
}

func CreateCliAPP() *cli.App {
	cli.VersionPrinter = func(c *cli.Context) {
		println("Welcome to myftp (a udp request/response utility)")
		println(fmt.Sprintf("Version=%s", constant.Version))
		println(fmt.Sprintf("GitBranch=%s", constant.GitBranch))
		println(fmt.Sprintf("GitRevision=%s", constant.GitRevision))
		println(fmt.Sprintf("BuildTime=%s", constant.BuildTime))
	}
	app := cli.NewApp()
	app.Name = "myftp"
	app.Flags = RootFlags
	app.Version = constant.Version
	app.Usage = "udp echo server and interactive client"
	app.ArgsUsage = "<mode> <address>"
	app.Commands = []*cli.Command{
		{
			Name:      constant.ModeServer,
			Usage:     "answer every datagram with a report about it",
			ArgsUsage: "<address>",
			Action:    modeAction(constant.ModeServer),
		},
		{
			Name:      constant.ModeClient,
			Usage:     "send stdin line by line to a server and print the replies",
			ArgsUsage: "<address>",
			Action:    modeAction(constant.ModeClient),
		},
	}
	app.Action = startAction
	return app
}
