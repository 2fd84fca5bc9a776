package config

import (
	"github.com/spf13/viper"
	"github.com/subosito/gotenv"
)

type Config struct {
	App struct {
		Env      string
		Timezone string
	} `mapstructure:"app"`

	HTTP struct {
		Addr string
	} `mapstructure:"http"`

	Postgres struct {
		DSN string
	} `mapstructure:"postgres"`

	Metrics struct {
		Enabled bool
	} `mapstructure:"metrics"`

	Telegram struct {
		Token       string
		AdminChatID int64 `mapstructure:"admin_chat_id"`
	} `mapstructure:"telegram"`

	Quote struct {
		MinimumUnits    int     `mapstructure:"minimum_units"`
		MaxHeightCm     float64 `mapstructure:"max_height_cm"`
		HidePriceUnits  int     `mapstructure:"hide_price_units"`
		HidePriceAmount float64 `mapstructure:"hide_price_amount"`
	} `mapstructure:"quote"`
}

func Load(path string) (Config, error) {
	// Local development convenience; real deployments inject env directly.
	_ = gotenv.Load()

	v := viper.New()
	v.SetConfigFile(path)
	v.SetEnvPrefix("APP")
	v.AutomaticEnv()

	v.SetDefault("http.addr", ":8080")
	v.SetDefault("quote.minimum_units", 10)
	v.SetDefault("quote.max_height_cm", 270)
	v.SetDefault("quote.hide_price_units", 100)
	v.SetDefault("quote.hide_price_amount", 2500)

	var c Config
	if err := v.ReadInConfig(); err != nil {
		return c, err
	}
	if err := v.Unmarshal(&c); err != nil {
		return c, err
	}
	return c, nil
}
