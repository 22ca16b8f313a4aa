package cmd

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"github.com/MpDev89/lednode/internal/gpio"
	"github.com/MpDev89/lednode/internal/led"
	"github.com/MpDev89/lednode/internal/logging"
)

// CreateLEDCmd creates the led command for driving the LED without the
// HTTP server, useful for wiring checks.
func CreateLEDCmd() *cobra.Command {
	var gpioNumber int
	var activeLow bool
	var logJSON bool

	cmd := &cobra.Command{
		Use:   "led [state]",
		Short: "Drive the board LED directly",
		Long: `Sets the LED without starting the HTTP server. ` +
			`Accepts on/off, true/false or 1/0 and prints the resulting GPIO level.`,
		Args: cobra.ExactArgs(1),
		Run: func(_ *cobra.Command, args []string) {
			loggingConfig := logging.Config{
				Level:  "info",
				Format: "text",
			}
			if logJSON {
				loggingConfig.Format = "json"
			}
			logging.Initialize(loggingConfig)
			logger := logging.GetLogger("led")

			state, ok := led.ParseState(args[0])
			if !ok {
				logger.Error("Invalid LED state, want on/off, true/false or 1/0", "value", args[0])
				os.Exit(1)
			}

			pin := gpio.Open(gpioNumber, logger)
			defer pin.Close()

			controller := led.NewController(pin, activeLow, nil, logger)
			if err := controller.SetState(state == 1); err != nil {
				logger.Error("Failed to drive LED", "gpio", gpioNumber, "error", err)
				os.Exit(1)
			}

			result := controller.State()
			fmt.Printf("led=%v gpio=%d level=%d\n", result.On, gpioNumber, result.GPIOLevel)
		},
	}

	cmd.Flags().IntVar(&gpioNumber, "gpio", 2, "GPIO number driving the LED")
	cmd.Flags().BoolVar(&activeLow, "active-low", false, "LED lights at logic level 0")
	cmd.Flags().BoolVar(&logJSON, "log-json", false, "Use JSON log format")

	return cmd
}
