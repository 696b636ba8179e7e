package config

import (
	"errors"
	"fmt"
	"time"

	"github.com/joho/godotenv"
	"github.com/spf13/viper"
)

const minEncryptionKeyLength = 16

type Config struct {
	Server     Server
	Database   Database
	JWT        JWT
	Messaging  Messaging
	Media      Media
	Cloudinary Cloudinary
}

type Server struct {
	Port    string
	GinMode string
}

type Database struct {
	URL string
}

type JWT struct {
	Secret string
}

type Messaging struct {
	EncryptionKey     string
	EncryptionEnabled bool
	EditWindow        time.Duration
}

type Media struct {
	Storage   string // local | cloudinary
	UploadDir string
	URLPrefix string
}

type Cloudinary struct {
	CloudName string
	APIKey    string
	APISecret string
}

// Load reads the .env file when present and then the process environment.
// Required values that are missing are reported as an error; there are no
// insecure fallbacks.
func Load() (*Config, error) {
	_ = godotenv.Load()
	return Parse(NewViper())
}

func NewViper() *viper.Viper {
	v := viper.New()
	v.AutomaticEnv()

	v.SetDefault("PORT", "8080")
	v.SetDefault("GIN_MODE", "release")
	v.SetDefault("MESSAGE_ENCRYPTION_ENABLED", true)
	v.SetDefault("MESSAGE_EDIT_WINDOW_MINUTES", 15)
	v.SetDefault("MEDIA_STORAGE", "local")
	v.SetDefault("UPLOAD_DIR", "uploads")
	v.SetDefault("UPLOAD_URL_PREFIX", "/uploads/")
	return v
}

func Parse(v *viper.Viper) (*Config, error) {
	c := &Config{
		Server: Server{
			Port:    v.GetString("PORT"),
			GinMode: v.GetString("GIN_MODE"),
		},
		Database: Database{URL: v.GetString("DB_URL")},
		JWT:      JWT{Secret: v.GetString("JWT_SECRET")},
		Messaging: Messaging{
			EncryptionKey:     v.GetString("MESSAGE_ENCRYPTION_KEY"),
			EncryptionEnabled: v.GetBool("MESSAGE_ENCRYPTION_ENABLED"),
			EditWindow:        time.Duration(v.GetInt("MESSAGE_EDIT_WINDOW_MINUTES")) * time.Minute,
		},
		Media: Media{
			Storage:   v.GetString("MEDIA_STORAGE"),
			UploadDir: v.GetString("UPLOAD_DIR"),
			URLPrefix: v.GetString("UPLOAD_URL_PREFIX"),
		},
		Cloudinary: Cloudinary{
			CloudName: v.GetString("CLOUDINARY_CLOUD_NAME"),
			APIKey:    v.GetString("CLOUDINARY_API_KEY"),
			APISecret: v.GetString("CLOUDINARY_API_SECRET"),
		},
	}

	if err := c.Validate(); err != nil {
		return nil, err
	}
	return c, nil
}

func (c *Config) Validate() error {
	if c.Database.URL == "" {
		return errors.New("DB_URL is not set")
	}
	if c.JWT.Secret == "" {
		return errors.New("JWT_SECRET is not set")
	}
	if c.Messaging.EncryptionKey == "" {
		return errors.New("MESSAGE_ENCRYPTION_KEY is not set")
	}
	if len(c.Messaging.EncryptionKey) < minEncryptionKeyLength {
		return fmt.Errorf("MESSAGE_ENCRYPTION_KEY must be at least %d bytes", minEncryptionKeyLength)
	}
	if c.Messaging.EditWindow <= 0 {
		return errors.New("MESSAGE_EDIT_WINDOW_MINUTES must be positive")
	}
	switch c.Media.Storage {
	case "local":
	case "cloudinary":
		if c.Cloudinary.CloudName == "" || c.Cloudinary.APIKey == "" || c.Cloudinary.APISecret == "" {
			return errors.New("cloudinary media storage requires CLOUDINARY_CLOUD_NAME, CLOUDINARY_API_KEY and CLOUDINARY_API_SECRET")
		}
	default:
		return fmt.Errorf("unknown MEDIA_STORAGE %q", c.Media.Storage)
	}
	return nil
}
