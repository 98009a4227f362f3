package main

import (
	"encoding/json"
	"fmt"
	"strings"
	"time"

	"github.com/spf13/pflag"
	"github.com/spf13/viper"

	"github.com/ftl/sim-toolkit/cat"
)

const envPrefix = "STKD"

// SlotConfig describes the modem of one slot, the slot index is the position in the list.
type SlotConfig struct {
	Port  string `mapstructure:"port"`
	Baud  uint   `mapstructure:"baud"`
	Hint  string `mapstructure:"hint"`
	Trace string `mapstructure:"trace"`
}

type STKConfig struct {
	DTMFPause       time.Duration `mapstructure:"dtmf_pause"`
	ResponseTimeout time.Duration `mapstructure:"response_timeout"`
	DisplayApps     []string      `mapstructure:"display_apps"`
	Foreground      string        `mapstructure:"foreground"`
	DefaultChannel  int           `mapstructure:"default_channel"`
	Locale          string        `mapstructure:"locale"`
}

type NSQConfig struct {
	Address       string `mapstructure:"address"`
	CommandTopic  string `mapstructure:"command_topic"`
	ResponseTopic string `mapstructure:"response_topic"`
	Channel       string `mapstructure:"channel"`
}

type HTTPConfig struct {
	Address string `mapstructure:"address"`
}

type LogConfig struct {
	Level string `mapstructure:"level"`
	File  string `mapstructure:"file"`
}

type Config struct {
	Slots []SlotConfig `mapstructure:"slots"`
	STK   STKConfig    `mapstructure:"stk"`
	NSQ   NSQConfig    `mapstructure:"nsq"`
	HTTP  HTTPConfig   `mapstructure:"http"`
	Log   LogConfig    `mapstructure:"log"`
}

func setDefaults(v *viper.Viper) {
	v.SetDefault("stk.dtmf_pause", cat.DefaultDTMFPause)
	v.SetDefault("stk.response_timeout", time.Duration(0))
	v.SetDefault("stk.display_apps", []string{"launcher", "idle", "stk"})
	v.SetDefault("stk.foreground", "idle")
	v.SetDefault("stk.default_channel", int(cat.FirstChannel))
	v.SetDefault("stk.locale", "en")
	v.SetDefault("nsq.address", "")
	v.SetDefault("nsq.command_topic", "stk.command")
	v.SetDefault("nsq.response_topic", "stk.response")
	v.SetDefault("nsq.channel", "stkd")
	v.SetDefault("http.address", ":8080")
	v.SetDefault("log.level", "info")
	v.SetDefault("log.file", "")
}

// loadConfig reads the configuration from the flags, the environment and the optional configuration file.
func loadConfig(args []string) (*Config, error) {
	flags := pflag.NewFlagSet("stkd", pflag.ContinueOnError)
	configFile := flags.StringP("config", "f", "", "configuration file")
	port := flags.StringP("port", "p", "", "AT port of the modem of a single slot, empty to detect it")
	flags.String("nsq.address", "", "address of the nsqd, empty disables the message bus")
	flags.String("http.address", ":8080", "listen address of the control surface, empty disables it")
	flags.String("log.level", "info", "log level: trace, debug, info, warn, error")
	flags.String("log.file", "", "log file, empty logs to the console only")
	err := flags.Parse(args)
	if err != nil {
		return nil, err
	}

	v := viper.New()
	setDefaults(v)
	v.SetEnvPrefix(envPrefix)
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.AutomaticEnv()
	for _, name := range []string{"nsq.address", "http.address", "log.level", "log.file"} {
		err = v.BindPFlag(name, flags.Lookup(name))
		if err != nil {
			return nil, err
		}
	}

	if *configFile != "" {
		v.SetConfigFile(*configFile)
		err = v.ReadInConfig()
		if err != nil {
			return nil, fmt.Errorf("cannot read configuration file %s: %w", *configFile, err)
		}
	}

	result := &Config{}
	err = v.Unmarshal(result)
	if err != nil {
		return nil, fmt.Errorf("invalid configuration: %w", err)
	}

	if flags.Changed("port") || len(result.Slots) == 0 {
		result.Slots = []SlotConfig{{Port: *port}}
	}
	return result, result.validate()
}

func (c *Config) validate() error {
	if len(c.Slots) > 1 {
		for i, slot := range c.Slots {
			if slot.Port == "" {
				return fmt.Errorf("slot %d: port is required with more than one slot", i)
			}
		}
	}
	if c.STK.DTMFPause < 0 || c.STK.ResponseTimeout < 0 {
		return fmt.Errorf("stk durations must not be negative")
	}
	if c.STK.DefaultChannel < int(cat.FirstChannel) || c.STK.DefaultChannel > int(cat.LastChannel) {
		return fmt.Errorf("invalid default channel 0x%02X", c.STK.DefaultChannel)
	}
	if _, ok := logLevels[strings.ToLower(c.Log.Level)]; !ok {
		return fmt.Errorf("invalid log level %s", c.Log.Level)
	}
	return nil
}

func (c *Config) serviceOptions() cat.Options {
	return cat.Options{
		DTMFPause:       c.STK.DTMFPause,
		ResponseTimeout: c.STK.ResponseTimeout,
		DisplayApps:     c.STK.DisplayApps,
		DefaultChannel:  cat.DeviceIdentity(c.STK.DefaultChannel),
	}
}

// foreground returns the foreground state used for the DISPLAY TEXT screen busy rule, or nil if every
// application may show normal priority texts.
func (c *Config) foreground() *cat.Foreground {
	if len(c.STK.DisplayApps) == 0 {
		return nil
	}
	return cat.NewForeground(c.STK.Foreground)
}

var logLevels = map[string]string{
	"trace": "TRAC",
	"debug": "DEBG",
	"info":  "INFO",
	"warn":  "WARN",
	"error": "EROR",
}

// loggerConfig builds the JSON configuration of the logger.
func (c LogConfig) loggerConfig() string {
	level := logLevels[strings.ToLower(c.Level)]
	config := map[string]interface{}{
		"TimeFormat": "2006-01-02 15:04:05",
		"Console": map[string]interface{}{
			"level": level,
			"color": false,
		},
	}
	if c.File != "" {
		config["File"] = map[string]interface{}{
			"filename": c.File,
			"level":    level,
			"daily":    true,
			"maxdays":  7,
			"append":   true,
			"permit":   "0660",
		}
	}
	result, _ := json.Marshal(config)
	return string(result)
}
