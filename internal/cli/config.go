package cli

import (
	"os"

	"github.com/getsentry/sentry-go"

	"github.com/Ehco1996/myftp/internal/config"
	"github.com/Ehco1996/myftp/pkg/log"
)

func loadConfig(mode, address string) (*config.Config, error) {
	args := &config.Config{
		Mode:       mode,
		Address:    address,
		LogLeveL:   LogLevel,
		Framing:    Framing,
		WebPort:    WebPort,
		RateLimit:  RateLimit,
		ClientBind: ClientBind,
	}
	if ConfigPath == "" {
		if err := args.Adjust(); err != nil {
			return nil, err
		}
		return args, nil
	}

	cfg := config.NewConfig(ConfigPath)
	if err := cfg.LoadConfig(); err != nil {
		return nil, err
	}
	// command line wins over the config file
	cfg.Override(args)
	if err := cfg.Adjust(); err != nil {
		return nil, err
	}
	return cfg, nil
}

func initSentry() error {
	if dsn := os.Getenv("SENTRY_DSN"); dsn != "" {
		cliLogger.Infof("init sentry with dsn:%s", dsn)
		return sentry.Init(sentry.ClientOptions{Dsn: dsn})
	}
	return nil
}

func initLogger(cfg *config.Config) error {
	return log.InitGlobalLogger(cfg.LogLeveL)
}

func InitConfigAndComponents(mode, address string) (*config.Config, error) {
	cfg, err := loadConfig(mode, address)
	if err != nil {
		return nil, err
	}
	if err := initLogger(cfg); err != nil {
		return nil, err
	}
	if err := initSentry(); err != nil {
		return nil, err
	}
	return cfg, nil
}
