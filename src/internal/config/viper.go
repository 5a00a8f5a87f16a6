package config

import "github.com/spf13/viper"

// NewViper reads config.json from the working directory; environment
// variables override file values.
func NewViper() *viper.Viper {
	config := viper.New()
	config.SetConfigName("config")
	config.SetConfigType("json")
	config.AddConfigPath("./")
	config.AddConfigPath("./../")
	_ = config.ReadInConfig()
	config.AutomaticEnv()
	return config
}
