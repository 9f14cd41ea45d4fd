package configuration

import (
	"errors"
	"os"
	"time"

	"github.com/markusressel/rpifanctl/internal/ui"
	"github.com/mitchellh/go-homedir"
	"github.com/mitchellh/mapstructure"
	"github.com/spf13/viper"
)

type Configuration struct {
	// DevicePath is the rpifan character device node.
	DevicePath string `json:"devicePath"`
	// ThermalZonePath is the kernel thermal zone file the governor polls.
	ThermalZonePath string `json:"thermalZonePath"`

	DbPath      string `json:"dbPath"`
	PidFilePath string `json:"pidFilePath"`

	PollInterval          time.Duration `json:"pollInterval"`
	TempRollingWindowSize int           `json:"tempRollingWindowSize"`
	HistoryLimit          int           `json:"historyLimit"`

	Statistics StatisticsConfig `json:"statistics"`
	Api        ApiConfig        `json:"api"`
}

type StatisticsConfig struct {
	Enabled bool `json:"enabled"`
	Port    int  `json:"port"`
}

type ApiConfig struct {
	Enabled bool `json:"enabled"`
	Port    int  `json:"port"`
}

var CurrentConfig Configuration

// InitConfig sets up the config file search paths and defaults.
// The config file itself is optional, all values have usable defaults.
func InitConfig(cfgFile string) {
	viper.SetConfigName("rpifanctl")

	if cfgFile != "" {
		// Use config file from the flag.
		viper.SetConfigFile(cfgFile)
	} else {
		// Find home directory.
		home, err := homedir.Dir()
		if err != nil {
			ui.Error("Couldn't detect home directory: %v", err)
			os.Exit(1)
		}

		viper.AddConfigPath(".")
		viper.AddConfigPath(home)
		viper.AddConfigPath("/etc/rpifanctl/")
	}

	viper.AutomaticEnv() // read in environment variables that match

	setDefaultValues()
}

func setDefaultValues() {
	viper.SetDefault("DevicePath", "/dev/rpifan")
	viper.SetDefault("ThermalZonePath", "/sys/class/thermal/thermal_zone0/temp")
	viper.SetDefault("DbPath", "/etc/rpifanctl/rpifanctl.db")
	viper.SetDefault("PidFilePath", "/run/rpifanctl-adaptive.pid")
	viper.SetDefault("PollInterval", 1*time.Second)
	viper.SetDefault("TempRollingWindowSize", 10)
	viper.SetDefault("HistoryLimit", 500)
	viper.SetDefault("Statistics.Enabled", false)
	viper.SetDefault("Statistics.Port", 9000)
	viper.SetDefault("Api.Enabled", false)
	viper.SetDefault("Api.Port", 9001)
}

// DetectConfigFile locates the config file, if any, and returns its path.
func DetectConfigFile() string {
	if err := viper.ReadInConfig(); err != nil {
		var notFound viper.ConfigFileNotFoundError
		if errors.As(err, &notFound) {
			// the config file is optional, defaults apply
			return ""
		}
		ui.Fatal("Error reading config file: %s", err)
	}
	// this is only populated _after_ ReadInConfig()
	return viper.ConfigFileUsed()
}

func LoadConfig() {
	err := viper.Unmarshal(&CurrentConfig, viper.DecodeHook(
		mapstructure.ComposeDecodeHookFunc(
			mapstructure.StringToTimeDurationHookFunc(),
			mapstructure.StringToSliceHookFunc(","),
		),
	))
	if err != nil {
		ui.Fatal("unable to decode into struct, %v", err)
	}
}
