package cli

import (
	"fmt"
	"os"
	"time"

	"github.com/quangtn/vietcal/internal/model"
	"github.com/spf13/cobra"
	"github.com/spf13/viper"
)

var (
	cfgFile string
	verbose bool
)

// rootCmd represents the base command
var rootCmd = &cobra.Command{
	Use:   "vietcal",
	Short: "Vietcal - Vietnamese natural-language calendar extraction",
	Long: `Vietcal turns short Vietnamese scheduling sentences into structured
calendar entries: event name, start and end time, location, and reminder
offset.

It understands diacritic-free input, colloquial clock forms ("10h kém 15",
"9h rưỡi"), relative days and weekdays ("sáng mai", "chủ nhật tuần sau"),
ranges ("từ 9h đến 11h") and reminder phrases ("nhắc trước 15 phút").`,
	SilenceErrors: true,
	SilenceUsage:  true,
}

// Execute runs the root command
func Execute() error {
	return rootCmd.Execute()
}

// versionCmd represents the version command
var versionCmd = &cobra.Command{
	Use:   "version",
	Short: "Print version information",
	Run: func(cmd *cobra.Command, args []string) {
		fmt.Println("vietcal v0.1.0")
	},
}

func init() {
	cobra.OnInitialize(initConfig)

	rootCmd.PersistentFlags().StringVar(&cfgFile, "config", "", "config file (default: $HOME/.vietcal/config.yaml)")
	rootCmd.PersistentFlags().BoolVarP(&verbose, "verbose", "v", false, "verbose output")

	_ = viper.BindPFlag("output.verbose", rootCmd.PersistentFlags().Lookup("verbose"))

	rootCmd.AddCommand(versionCmd)
}

// initConfig reads the config file and VIETCAL_* environment variables
func initConfig() {
	if cfgFile != "" {
		viper.SetConfigFile(cfgFile)
	} else {
		home, err := os.UserHomeDir()
		if err != nil {
			fmt.Fprintf(os.Stderr, "Error finding home directory: %v\n", err)
			return
		}
		viper.AddConfigPath(home + "/.vietcal")
		viper.SetConfigType("yaml")
		viper.SetConfigName("config")
	}

	viper.SetEnvPrefix("VIETCAL")
	viper.AutomaticEnv()

	if err := viper.ReadInConfig(); err == nil && verbose {
		fmt.Fprintf(os.Stderr, "Using config file: %s\n", viper.ConfigFileUsed())
	}
}

// loadConfig merges defaults, the config file and environment variables
func loadConfig() *model.Config {
	cfg := model.DefaultConfig()
	if err := viper.Unmarshal(cfg); err != nil {
		fmt.Fprintf(os.Stderr, "Warning: invalid configuration, using defaults: %v\n", err)
		cfg = model.DefaultConfig()
	}
	cfg.Output.Verbose = cfg.Output.Verbose || verbose
	return cfg
}

// baseLayouts are the accepted --base formats, tried in order
var baseLayouts = []string{
	time.RFC3339,
	"2006-01-02 15:04",
	"2006-01-02",
}

// parseBase turns the --base flag into a reference instant. An empty flag
// means wall-clock now; the extraction core itself never reads the clock.
func parseBase(flag string) (time.Time, error) {
	if flag == "" {
		return time.Now(), nil
	}
	for _, layout := range baseLayouts {
		if t, err := time.ParseInLocation(layout, flag, time.Local); err == nil {
			return t, nil
		}
	}
	return time.Time{}, fmt.Errorf("unrecognized --base value %q (want RFC3339 or \"2006-01-02 15:04\")", flag)
}
