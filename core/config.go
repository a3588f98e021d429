package core

import (
	"log"
	"net"
	"net/mail"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/joho/godotenv"
	"github.com/spf13/viper"
)

// Conf holds the application configuration. It is loaded once at start-up
// from defaults, an optional config/.env.<env> file and ENV-prefixed
// environment variables.
var Conf *Config

type Config struct {
	Debug    bool
	TestMode bool
	Env      string
	AppName  string
	Build    string

	SecretKey        string
	DefaultFromEmail string
	SendgridApiKey   string
	RollbarToken     string

	// AbsenceNotices enables guardian emails for students marked absent.
	AbsenceNotices bool

	// Standing classification cutoffs (integer percents).
	// A school that wants different cutoffs overrides these, not the code.
	StandingGoodThreshold    int
	StandingWarningThreshold int

	Server struct {
		Host               string
		Port               string
		JWTExpirationDelta time.Duration
		ShutdownTimeout    time.Duration
	}

	Database struct {
		Engine        string
		Name          string
		Host          string
		Port          string
		User          string
		Password      string
		AdminUser     string
		AdminPassword string
		DisableTLS    bool
	}
}

func (c *Config) ServerAddress() string {
	return net.JoinHostPort(c.Server.Host, c.Server.Port)
}

func (c *Config) DatabaseAddress() string {
	return net.JoinHostPort(c.Database.Host, c.Database.Port)
}

func (c *Config) FromEmail() mail.Address {
	return mail.Address{Name: c.AppName, Address: c.DefaultFromEmail}
}

func init() {
	v := viper.New()

	// defaults
	v.SetTypeByDefaultValue(true)
	v.SetDefault("debug", true)
	v.SetDefault("testMode", false)
	v.SetDefault("appName", "Mahudhurio")
	v.SetDefault("build", "dev")
	v.SetDefault("secretKey", "54t=1rk$why#+x^ml4&x(09b!7h3x#ms!%2-dzu@v8nq&-e+qy")
	v.SetDefault("defaultFromEmail", "noreply@localhost")
	v.SetDefault("absenceNotices", false)
	v.SetDefault("standingGoodThreshold", 80)
	v.SetDefault("standingWarningThreshold", 60)
	v.SetDefault("server.host", "")
	v.SetDefault("server.port", "8000")
	v.SetDefault("server.jwtExpirationDelta", 7*24*time.Hour)
	v.SetDefault("server.shutdownTimeout", 20*time.Second)
	v.SetDefault("database.engine", "postgres")
	v.SetDefault("database.name", "mahudhurio")
	v.SetDefault("database.host", "localhost")
	v.SetDefault("database.port", "5432")
	v.SetDefault("database.user", "")
	v.SetDefault("database.password", "")
	v.SetDefault("database.adminUser", "")
	v.SetDefault("database.adminPassword", "")
	v.SetDefault("database.disableTLS", true)

	env := os.Getenv("ENV") // DEV (local; default), TEST, QA, PROD
	switch env {
	case "":
		env = "DEV"
	case "TEST":
		v.SetDefault("testMode", true)
	}
	v.SetEnvPrefix(env)
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))

	// load .env if it exists (ignore if it does not)
	dotEnvPath := filepath.Join(Getwd(), "config", ".env."+strings.ToLower(env))
	if _, err := os.Stat(dotEnvPath); err == nil {
		if err := godotenv.Load(dotEnvPath); err != nil {
			log.Fatalf("config.godotenv(%s): %v", dotEnvPath, err)
		}
	} else if !os.IsNotExist(err) {
		log.Fatalf("config.os.Stat(%s): %v", dotEnvPath, err)
	}
	v.AutomaticEnv()

	Conf = new(Config)
	if err := v.Unmarshal(Conf); err != nil {
		log.Fatalf("config.viper.Unmarshal: %v", err)
	}
	Conf.Env = env
}
