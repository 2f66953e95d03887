package config

import (
	"github.com/rs/zerolog/log"
	"github.com/spf13/viper"
)

type Config struct {
	Server     Server
	Database   Database
	Generation Generation
	Storage    Storage
}

type Server struct {
	Port string
}

type Database struct {
	Host     string
	Port     string
	User     string
	Password string
	Name     string
}

// Generation holds the settings for the external generative model.
type Generation struct {
	GeminiApiKey   string
	Model          string
	TimeoutSeconds int
}

type Storage struct {
	UploadDir string
}

func NewConfig() (*Config, error) {
	viper.SetConfigName(".env")
	viper.SetConfigType("env")
	viper.AddConfigPath(".")

	viper.AutomaticEnv()

	viper.SetDefault("GENERATION_MODEL", "gemini-1.5-pro")
	viper.SetDefault("GENERATION_TIMEOUT_SECONDS", 240)
	viper.SetDefault("UPLOAD_DIR", "./uploads/generation")

	if err := viper.ReadInConfig(); err != nil {
		log.Warn().Err(err).Msg("Error reading config file")
	}

	var config Config

	config.Server.Port = viper.GetString("SERVER_PORT")
	config.Database.Host = viper.GetString("DATABASE_HOST")
	config.Database.Port = viper.GetString("DATABASE_PORT")
	config.Database.User = viper.GetString("DATABASE_USER")
	config.Database.Password = viper.GetString("DATABASE_PASSWORD")
	config.Database.Name = viper.GetString("DATABASE_NAME")

	config.Generation.GeminiApiKey = viper.GetString("GEMINI_API_KEY")
	config.Generation.Model = viper.GetString("GENERATION_MODEL")
	config.Generation.TimeoutSeconds = viper.GetInt("GENERATION_TIMEOUT_SECONDS")

	config.Storage.UploadDir = viper.GetString("UPLOAD_DIR")

	log.Info().
		Str("server_port", config.Server.Port).
		Str("database_host", config.Database.Host).
		Str("generation_model", config.Generation.Model).
		Int("generation_timeout_seconds", config.Generation.TimeoutSeconds).
		Str("upload_dir", config.Storage.UploadDir).
		Msg("Config loaded")
	return &config, nil
}
