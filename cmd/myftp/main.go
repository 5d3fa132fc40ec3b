package main

import (
	"os"
	"time"

	"github.com/getsentry/sentry-go"

	"github.com/Ehco1996/myftp/internal/cli"
	"github.com/Ehco1996/myftp/pkg/log"
)

func main() {
	defer func() {
		err := recover()
		if err != nil {
			sentry.CurrentHub().Recover(err)
			sentry.Flush(time.Second * 5)
			panic(err)
		}
	}()

	l, err := log.NewLogger("info")
	if err != nil {
		println("new info logger failed,err=", err.Error())
		os.Exit(2)
	}
	cmdLogger := l.Sugar().Named("main")

	app := cli.CreateCliAPP()
	if err := app.Run(os.Args); err != nil {
		sentry.CurrentHub().CaptureException(err)
		sentry.Flush(time.Second * 5)
		cmdLogger.Fatalf("myftp failed, err=%s", err)
	}
}
