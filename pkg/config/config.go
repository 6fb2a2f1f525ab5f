package config

import (
	"fmt"
	"time"
)

type DB struct {
	// Driver selects the gorm dialector: postgres or sqlite.
	Driver  string `envconfig:"DRIVER" default:"postgres"`
	Url     string `envconfig:"URL"`
	Migrate bool   `envconfig:"MIGRATE" default:"true"`
}

type Jwt struct {
	Secret   string        `envconfig:"SECRET" required:"true"`
	Expiry   time.Duration `envconfig:"EXPIRY" default:"24h"`
	Issuer   string        `envconfig:"ISSUER" default:"bank-api"`
	Audience string        `envconfig:"AUDIENCE" default:"bank-clients"`
}

type Auth struct {
	Jwt        *Jwt `envconfig:"JWT"`
	BcryptCost int  `envconfig:"BCRYPT_COST" default:"12"`
}

type Log struct {
	Level      int    `envconfig:"LEVEL" default:"0"`
	Format     string `envconfig:"FORMAT" default:"json"`
	TimeFormat string `envconfig:"TIME_FORMAT" default:"2006-01-02 15:04:05"`
	Prefix     string `envconfig:"PREFIX" default:"[bank]"`
}

type Server struct {
	Scheme string `envconfig:"SCHEME" default:"http"`
	Host   string `envconfig:"HOST" default:"localhost"`
	Port   int    `envconfig:"PORT" default:"3000"`
}

type Cors struct {
	AllowOrigins string `envconfig:"ALLOW_ORIGINS" default:"*"`
}

// Admin seeds an administrator at startup when both username and password are set.
type Admin struct {
	Username string `envconfig:"USERNAME"`
	Password string `envconfig:"PASSWORD"`
	Email    string `envconfig:"EMAIL"`
}

type App struct {
	Env    string  `envconfig:"APP_ENV" default:"development"`
	Server *Server `envconfig:"SERVER"`
	Log    *Log    `envconfig:"LOG"`
	DB     *DB     `envconfig:"DATABASE"`
	Auth   *Auth   `envconfig:"AUTH"`
	Cors   *Cors   `envconfig:"CORS"`
	Admin  *Admin  `envconfig:"ADMIN"`
}

// Addr returns the host:port the HTTP server listens on.
func (s *Server) Addr() string {
	return fmt.Sprintf("%s:%d", s.Host, s.Port)
}
