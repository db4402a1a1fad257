// config.go
//
// Typed runtime configuration, populated from the environment (after
// godotenv has loaded any .env file). Every knob has a development-safe
// default except the SMTP block and the admin password hash, which leave
// their features disabled when unset.

package main

import "github.com/kelseyhightower/envconfig"

type Config struct {
	Port     string `envconfig:"PORT" default:"5175"`
	LogLevel string `envconfig:"LOG_LEVEL" default:"info"`
	DBPath   string `envconfig:"DB_PATH" default:"./data/bannerdle.db"`

	ClientOrigin string `envconfig:"CLIENT_ORIGIN" default:"http://localhost:5173"`
	DonationURL  string `envconfig:"DONATION_URL" default:""`
	Production   bool   `envconfig:"PRODUCTION" default:"false"`

	JWTSecret         string `envconfig:"JWT_SECRET" default:"dev_secret_change_me"`
	AdminPasswordHash string `envconfig:"ADMIN_PASSWORD_HASH" default:""`
	AdminCookieName   string `envconfig:"ADMIN_COOKIE_NAME" default:"bannerdle_admin"`

	// Daily selection fire time, "HH:MM" in UTC.
	ScheduleUTC    string `envconfig:"SCHEDULE_UTC" default:"15:50"`
	SchedulerStart bool   `envconfig:"SCHEDULER_AUTOSTART" default:"true"`

	SMTPHost     string `envconfig:"SMTP_HOST" default:""`
	SMTPPort     int    `envconfig:"SMTP_PORT" default:"587"`
	SMTPUsername string `envconfig:"SMTP_USERNAME" default:""`
	SMTPPassword string `envconfig:"SMTP_PASSWORD" default:""`
	MailFrom     string `envconfig:"MAIL_FROM" default:""`
	MailTo       string `envconfig:"MAIL_TO" default:""`
}

func loadConfig() (Config, error) {
	var cfg Config
	err := envconfig.Process("", &cfg)
	return cfg, err
}
