// Command gcodelight opens the point light demo, optionally configured from a YAML file.
package main

import (
	"log"
	"os"

	"github.com/Yeicor/gcode-light-ui"
	"github.com/spf13/cobra"
)

// defaultSessionApp names the saved session unless the config file picks another one.
const defaultSessionApp = "gcode-light"

// flags are the command line settings that override the config file.
type flags struct {
	configPath string
	watchPaths []string
	watchSet   bool
	program    string
	noSession  bool
}

var cliFlags flags

// rootCmd represents the base command
var rootCmd = &cobra.Command{
	Use:   "gcodelight [flags]",
	Short: "Move a point light over a floor with G-code",
	Long: `Opens a window with a textured floor lit by a point light.

The light follows G0/G1 moves typed into the panel or read from watched files,
or the arrow keys (PageUp/PageDown for height) in "Arrow Keys" mode.`,
	Args:         cobra.NoArgs,
	SilenceUsage: true,
	RunE: func(cmd *cobra.Command, args []string) error {
		cliFlags.watchSet = cmd.Flags().Changed("watch")
		cfg, err := loadConfig(cliFlags)
		if err != nil {
			return err
		}
		return ui.NewRenderer(cfg.Options()...).Run()
	},
}

// loadConfig merges the config file (if any) with the command line.
func loadConfig(f flags) (ui.Config, error) {
	cfg := ui.DefaultConfig()
	if f.configPath != "" {
		var err error
		if cfg, err = ui.LoadConfig(f.configPath); err != nil {
			return ui.Config{}, err
		}
	}
	if cfg.Session.AppName == "" {
		cfg.Session.AppName = defaultSessionApp
	}
	if f.noSession {
		cfg.Session.Disabled = true
	}
	if f.watchSet {
		cfg.Program.Watch = f.watchPaths
	}
	if f.program != "" {
		data, err := os.ReadFile(f.program)
		if err != nil {
			return ui.Config{}, err
		}
		cfg.Program.Text = string(data)
	}
	return cfg, nil
}

func init() {
	rootCmd.Flags().StringVarP(&cliFlags.configPath, "config", "c", "", "YAML config file")
	rootCmd.Flags().StringSliceVarP(&cliFlags.watchPaths, "watch", "w", nil, "G-code files to execute at startup and on every change")
	rootCmd.Flags().StringVarP(&cliFlags.program, "program", "p", "", "G-code file to load into the panel (not executed)")
	rootCmd.Flags().BoolVar(&cliFlags.noSession, "no-session", false, "do not restore or save the panel between runs")
}

func main() {
	if err := rootCmd.Execute(); err != nil {
		log.Fatalln("[LightUI]", err)
	}
}
