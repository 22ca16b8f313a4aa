package main

import (
	"log/slog"
	"os"

	"github.com/danielgtaylor/huma/v2/humacli"

	"github.com/MpDev89/lednode/cmd"
	"github.com/MpDev89/lednode/internal/api"
	"github.com/MpDev89/lednode/internal/config"
	"github.com/MpDev89/lednode/internal/events"
	"github.com/MpDev89/lednode/internal/gpio"
	"github.com/MpDev89/lednode/internal/hal"
	"github.com/MpDev89/lednode/internal/led"
	"github.com/MpDev89/lednode/internal/logging"
	"github.com/MpDev89/lednode/internal/metrics"
	"github.com/MpDev89/lednode/internal/systemd"
)

// Options for the CLI - flat structure with toml mapping.
type Options struct {
	Config string `help:"Path to configuration file" short:"c" default:"config.toml"`

	// Server settings
	Port           int  `help:"Port to listen on" short:"p" default:"0" toml:"server.port" env:"SERVER_PORT"`
	MaxURIHandlers int  `help:"Route table capacity" default:"16" toml:"server.max_uri_handlers" env:"SERVER_MAX_URI_HANDLERS"`
	LRUPurgeEnable bool `help:"Purge idle connections" default:"true" toml:"server.lru_purge_enable" env:"SERVER_LRU_PURGE_ENABLE"`

	// LED settings
	LEDGPIO      int    `help:"GPIO number driving the LED" default:"2" toml:"led.gpio" env:"LED_GPIO"`
	LEDActiveLow bool   `help:"LED lights at logic level 0" default:"false" toml:"led.active_low" env:"LED_ACTIVE_LOW"`
	StatusLED    string `help:"Board status LED name under /sys/class/leds" default:"" toml:"led.status_led" env:"LED_STATUS_LED"`

	// Metrics settings
	MetricsEnabled bool `help:"Expose Prometheus metrics at /metrics" default:"true" toml:"metrics.enabled" env:"METRICS_ENABLED"`

	// Logging settings
	LoggingLevel  string `help:"Global logging level (debug, info, warn, error)" default:"info" toml:"logging.level" env:"LOGGING_LEVEL"`
	LoggingFormat string `help:"Logging format (text, json)" default:"text" toml:"logging.format" env:"LOGGING_FORMAT"`
	LoggingHAL    string `help:"Endpoint facade logging level" default:"info" toml:"logging.hal" env:"LOGGING_HAL"`
	LoggingHTTP   string `help:"HTTP request logging level" default:"info" toml:"logging.http" env:"LOGGING_HTTP"`
	LoggingGPIO   string `help:"GPIO logging level" default:"info" toml:"logging.gpio" env:"LOGGING_GPIO"`
	LoggingAPI    string `help:"API logging level" default:"info" toml:"logging.api" env:"LOGGING_API"`
}

func main() {
	cli := humacli.New(func(hooks humacli.Hooks, opts *Options) {
		if loadErr := config.LoadConfig(opts); loadErr != nil {
			slog.Warn("Failed to load config", "error", loadErr)
		}

		logging.Initialize(logging.Config{
			Level:  opts.LoggingLevel,
			Format: opts.LoggingFormat,
			Modules: map[string]string{
				"hal":  opts.LoggingHAL,
				"http": opts.LoggingHTTP,
				"gpio": opts.LoggingGPIO,
				"api":  opts.LoggingAPI,
			},
		})

		logger := logging.GetLogger("main")

		eventBus := events.New()

		// LED hardware
		pin := gpio.Open(opts.LEDGPIO, logging.GetLogger("gpio"))
		controller := led.NewController(pin, opts.LEDActiveLow, eventBus, logging.GetLogger("led"))

		// Board status LED mirrors server and LED state when available
		var ledManager *led.Manager
		if opts.StatusLED != "" {
			status := led.NewStatusLED(opts.StatusLED)
			if status.Available() {
				ledManager = led.NewManager(status, eventBus, logging.GetLogger("led"))
			} else {
				logger.Warn("Status LED not found, skipping", "name", opts.StatusLED)
			}
		}

		apiOpts := &api.Options{
			HAL: hal.Config{
				Port:           opts.Port,
				LRUPurgeEnable: opts.LRUPurgeEnable,
				MaxURIHandlers: opts.MaxURIHandlers,
			},
			LED:      controller,
			EventBus: eventBus,
		}

		var unsubMetrics func()
		if opts.MetricsEnabled {
			apiOpts.PrometheusHandler = metrics.Handler()
			unsubMetrics = metrics.Subscribe(eventBus)
		}

		server := api.NewServer(apiOpts)

		// Watch the config file for logging level changes
		watcher := config.NewWatcher(
			opts.Config,
			func(path string) (logging.Config, error) {
				return config.LoadLoggingConfig(path), nil
			},
			logger,
		)
		watcher.OnReload(func(cfg logging.Config) {
			logging.Reconfigure(cfg)
		})

		notifier := systemd.NewNotifier(logger)

		hooks.OnStart(func() {
			if ledManager != nil {
				ledManager.Start()
			}

			if err := watcher.Start(); err != nil {
				logger.Warn("Failed to start config watcher, hot-reload disabled", "error", err)
			}

			if err := server.Start(); err != nil {
				logger.Error("Failed to start HTTP server", "error", err)
				os.Exit(1)
			}

			notifier.Ready()

			// Block until shutdown so the CLI keeps running
			server.Wait()
		})

		hooks.OnStop(func() {
			notifier.Stopping()
			logger.Info("Shutting down")
			if err := server.Close(); err != nil {
				logger.Error("Error stopping HTTP server", "error", err)
			}

			if stopErr := watcher.Stop(); stopErr != nil {
				logger.Warn("Error stopping config watcher", "error", stopErr)
			}
			if ledManager != nil {
				ledManager.Stop()
			}
			if unsubMetrics != nil {
				unsubMetrics()
			}
			if err := pin.Close(); err != nil {
				logger.Warn("Error releasing GPIO pin", "error", err)
			}
		})
	})

	cli.Root().AddCommand(cmd.CreateLEDCmd())

	cli.Run()
}
