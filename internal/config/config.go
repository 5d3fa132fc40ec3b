package config

import (
	"encoding/json"
	"os"
	"strings"

	"github.com/pkg/errors"
	"go.uber.org/zap"

	"github.com/Ehco1996/myftp/internal/codec"
	"github.com/Ehco1996/myftp/internal/constant"
	myhttp "github.com/Ehco1996/myftp/pkg/http"
)

type Config struct {
	PATH string `json:"-"`

	Mode    string `json:"mode"`
	Address string `json:"address"`

	LogLeveL  string `json:"log_level,omitempty"`
	Framing   string `json:"framing,omitempty"`
	WebPort   int    `json:"web_port,omitempty"`
	RateLimit int    `json:"rate_limit,omitempty"`

	// local address of the client socket
	ClientBind string `json:"client_bind,omitempty"`

	l *zap.SugaredLogger
}

func NewConfig(path string) *Config {
	return &Config{PATH: path, l: zap.S().Named("cfg")}
}

func (c *Config) NeedLoadFromHttp() bool {
	return strings.HasPrefix(c.PATH, "http://") || strings.HasPrefix(c.PATH, "https://")
}

// LoadConfig only reads the config, callers Adjust it once every override is applied.
func (c *Config) LoadConfig() error {
	if c.l == nil {
		c.l = zap.S().Named("cfg")
	}
	if c.NeedLoadFromHttp() {
		if err := c.readFromHttp(); err != nil {
			return err
		}
	} else {
		if err := c.readFromFile(); err != nil {
			return err
		}
	}
	return nil
}

func (c *Config) readFromFile() error {
	file, err := os.ReadFile(c.PATH)
	if err != nil {
		return errors.Wrap(err, "read config")
	}
	c.l.Debugf("Load Config From File: %s", c.PATH)
	return errors.Wrapf(json.Unmarshal(file, c), "decode config %s", c.PATH)
}

func (c *Config) readFromHttp() error {
	c.l.Debugf("Load Config From HTTP: %s", c.PATH)
	return errors.Wrap(myhttp.GetJSONWithRetry(c.PATH, c), "load config")
}

// Override copies every non empty field of o over c.
func (c *Config) Override(o *Config) {
	if o.Mode != "" {
		c.Mode = o.Mode
	}
	if o.Address != "" {
		c.Address = o.Address
	}
	if o.LogLeveL != "" {
		c.LogLeveL = o.LogLeveL
	}
	if o.Framing != "" {
		c.Framing = o.Framing
	}
	if o.WebPort != 0 {
		c.WebPort = o.WebPort
	}
	if o.RateLimit != 0 {
		c.RateLimit = o.RateLimit
	}
	if o.ClientBind != "" {
		c.ClientBind = o.ClientBind
	}
}

// Adjust fills defaults, then validates.
func (c *Config) Adjust() error {
	if c.LogLeveL == "" {
		c.LogLeveL = constant.LogLevelInfo
	}
	if c.Framing == "" {
		c.Framing = constant.FramingTrim
	}
	if c.ClientBind == "" {
		c.ClientBind = constant.DefaultClientBind
	}
	return c.Validate()
}

func (c *Config) Validate() error {
	if _, err := codec.ParseFraming(c.Framing); err != nil {
		return err
	}
	if c.Address == "" {
		return errors.New("empty address")
	}
	if c.WebPort < 0 || c.WebPort > 65535 {
		return errors.Errorf("invalid web port:%d", c.WebPort)
	}
	if c.RateLimit < 0 {
		return errors.Errorf("invalid rate limit:%d", c.RateLimit)
	}
	return nil
}

func (c *Config) GetFraming() codec.Framing {
	f, _ := codec.ParseFraming(c.Framing)
	return f
}

func (c *Config) IsServer() bool {
	return c.Mode == constant.ModeServer
}

func (c *Config) IsClient() bool {
	return c.Mode == constant.ModeClient
}

func (c *Config) NeedStartWebServer() bool {
	return c.WebPort != 0
}
