package config

import (
	"fmt"
	"log"
	"os"
	"os/user"
	filepath "path"

	"gopkg.in/yaml.v3"

	"github.com/mtraver/rpi-thermal-cam/camera"
)

const (
	DefaultPort         = 8080
	DefaultWebUIPort    = 8000
	DefaultDevice       = "thermalcam"
	DefaultOutputFolder = "/home/pi/thermalcam/snapshots"
)

var (
	currUsr           *user.User
	defaultConfigFile string
)

func init() {
	var err error
	currUsr, err = user.Current()
	if err != nil {
		log.Printf("Warning: Failed to get current user so default config file cannot be used. Please provide a path to a config file. Error: %v", err)
	} else {
		defaultConfigFile = filepath.Join(currUsr.HomeDir, ".config", "thermalcam", "thermalcam.conf.yaml")
	}
}

type MQTT struct {
	Broker   string `yaml:"broker"`
	ClientID string `yaml:"client_id"`
	Topic    string `yaml:"topic"`
}

type Config struct {
	// Port is the API port. Requests to it must carry a token.
	Port      int `yaml:"port"`
	WebUIPort int `yaml:"web_ui_port"`

	Device string `yaml:"device"`
	Secret string `yaml:"secret"`

	OutputFolder    string   `yaml:"output_folder"`
	SnapshotCommand []string `yaml:"snapshot_command"`

	Colormaps  []string `yaml:"colormaps"`
	UseCelsius bool     `yaml:"use_celsius"`
	Filter     bool     `yaml:"filter"`

	MQTT MQTT `yaml:"mqtt"`
}

// CameraOptions returns the initial camera settings described by c.
func (c Config) CameraOptions() camera.Options {
	return camera.Options{
		Colormaps: c.Colormaps,
		UseF:      !c.UseCelsius,
		Filter:    c.Filter,
	}
}

func (c *Config) setDefaults() {
	if c.Port == 0 {
		c.Port = DefaultPort
	}
	if c.WebUIPort == 0 {
		c.WebUIPort = DefaultWebUIPort
	}
	if c.Device == "" {
		c.Device = DefaultDevice
	}
	if c.OutputFolder == "" {
		c.OutputFolder = DefaultOutputFolder
	}
	if c.MQTT.ClientID == "" {
		c.MQTT.ClientID = c.Device
	}
}

func (c Config) validate() error {
	if c.Port == c.WebUIPort {
		return fmt.Errorf("config: port and web_ui_port must differ, both are %d", c.Port)
	}
	return nil
}

func unmarshal(path string) (Config, error) {
	rawConfig, err := os.ReadFile(path)
	if err != nil {
		return Config{}, err
	}

	var config Config
	if err := yaml.Unmarshal(rawConfig, &config); err != nil {
		return Config{}, fmt.Errorf("config: %s: %w", path, err)
	}
	config.setDefaults()
	return config, config.validate()
}

func Load(path string) (Config, error) {
	if path != "" {
		log.Printf("Using config %v", path)
		return unmarshal(path)
	}

	if defaultConfigFile != "" {
		if _, err := os.Stat(defaultConfigFile); !os.IsNotExist(err) {
			log.Printf("Using config %v", defaultConfigFile)
			return unmarshal(defaultConfigFile)
		}
	}

	log.Printf("Using default config")
	var config Config
	config.setDefaults()
	return config, nil
}
