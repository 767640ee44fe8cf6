package cli

import (
	"context"
	"encoding/json"
	"fmt"
	"log"
	"time"

	"github.com/spf13/cobra"

	"github.com/chyk-ink/gestures-helper/commands"
	"github.com/chyk-ink/gestures-helper/daemon"
	"github.com/chyk-ink/gestures-helper/desktop"
	"github.com/chyk-ink/gestures-helper/server"
	"github.com/chyk-ink/gestures-helper/utils"
)

// version is overridden at build time with -ldflags "-X .../cli.version=..."
var version = "dev"

// requestTimeout bounds a single CLI call to the running service
const requestTimeout = 10 * time.Second

// rootCmd represents the base command
var rootCmd = &cobra.Command{
	Use:   "gestures-helper",
	Short: "Route touchpad gestures to KDE Plasma actions",
	Long: `gestures-helper receives gesture codes over D-Bus, looks at the focused
window reported by its KWin script and performs one desktop action: a KWin
shortcut, a virtual desktop switch, a Dolphin navigation or a key press.`,
	CompletionOptions: cobra.CompletionOptions{
		HiddenDefaultCmd: true,
	},
	Version:       version,
	SilenceUsage:  true,
	SilenceErrors: true,
}

// shutdownHook is set once at startup via SetShutdownHook
var shutdownHook = daemon.NewShutdownHook()

// SetShutdownHook shares main's cleanup registry with the commands
func SetShutdownHook(hook *daemon.ShutdownHook) {
	shutdownHook = hook
}

func GetVersion() string {
	return version
}

func initConfig() {
	utils.SetVerbose(verbose)
}

func init() {
	cobra.OnInitialize(initConfig)
	rootCmd.PersistentFlags().BoolVarP(&verbose, "verbose", "v", false, "enable verbose output")
	rootCmd.PersistentFlags().StringVar(&configPath, "config", "", "config file (default: $XDG_CONFIG_HOME/gestures-helper/config.ini)")
}

// Execute runs the root command
func Execute() error {
	// enable microseconds in logs
	log.SetFlags(log.LstdFlags | log.Lmicroseconds)

	return rootCmd.Execute()
}

// printJson is a helper function to print JSON responses
func printJson(data interface{}) {
	jsonData, err := json.MarshalIndent(data, "", "  ")
	if err != nil {
		log.Fatal(err)
	}
	fmt.Println(string(jsonData))
}

// printResponse prints response and turns an error status into an error
func printResponse(response *commands.CommandResponse) error {
	printJson(response)
	if response.Status == "error" {
		return fmt.Errorf("%s", response.Error)
	}
	return nil
}

// withService runs fn against the running helper over the session bus
func withService(fn func(ctx context.Context) *commands.CommandResponse) error {
	bus, err := desktop.NewSessionBus()
	if err != nil {
		return printResponse(commands.NewErrorResponse(err))
	}
	defer bus.Close()

	commands.SetRouter(server.NewClient(bus))

	ctx, cancel := context.WithTimeout(context.Background(), requestTimeout)
	defer cancel()

	return printResponse(fn(ctx))
}
