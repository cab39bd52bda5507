package buildCFG

import (
	"fmt"
	"time"

	"github.com/rs/zerolog"
	"github.com/wb-go/wbf/config"
	"github.com/wb-go/wbf/dbpg"

	"engineersday/internal/mailer"
	"engineersday/internal/schedule"
	"engineersday/internal/workflow"
)

type ServerConfig struct {
	Port string
}

type RabbitConfig struct {
	Url      string
	Exchange string
	Queue    string
}

type LocalStoreConfig struct {
	Path string
}

func BuildServerConfig(cfg *config.Config, log *zerolog.Logger) ServerConfig {
	port := cfg.GetString("server.port")
	if port == "" {
		port = "8080"
		log.Warn().Msg("server.port not set, defaulting to 8080")
	}
	return ServerConfig{Port: port}
}

func BuildDBConfig(cfg *config.Config, log *zerolog.Logger) (string, []string, *dbpg.Options, error) {
	masterDSN := cfg.GetString("database.master_dsn")
	if masterDSN == "" {
		return "", nil, nil, fmt.Errorf("database.master_dsn is required")
	}
	slaveDSNs := cfg.GetStringSlice("database.slave_dsns")

	opts := &dbpg.Options{
		MaxOpenConns:    cfg.GetInt("database.max_open_conns"),
		MaxIdleConns:    cfg.GetInt("database.max_idle_conns"),
		ConnMaxLifetime: cfg.GetDuration("database.conn_max_lifetime"),
	}
	if opts.MaxOpenConns == 0 {
		opts.MaxOpenConns = 10
	}
	if opts.MaxIdleConns == 0 {
		opts.MaxIdleConns = 5
	}

	log.Info().Int("slaves", len(slaveDSNs)).Msg("DB config built")
	return masterDSN, slaveDSNs, opts, nil
}

func BuildRabbitConfig(cfg *config.Config, log *zerolog.Logger) (RabbitConfig, error) {
	rc := RabbitConfig{
		Url:      cfg.GetString("rabbit.url"),
		Exchange: cfg.GetString("rabbit.exchange"),
		Queue:    cfg.GetString("rabbit.queue"),
	}
	if rc.Url == "" {
		return rc, fmt.Errorf("rabbit.url is required")
	}
	if rc.Exchange == "" {
		rc.Exchange = "registrations"
	}
	if rc.Queue == "" {
		rc.Queue = "registration-emails"
	}
	log.Info().Str("exchange", rc.Exchange).Str("queue", rc.Queue).Msg("Rabbit config built")
	return rc, nil
}

func BuildLocalStoreConfig(cfg *config.Config) LocalStoreConfig {
	path := cfg.GetString("local_store.path")
	if path == "" {
		path = "eventRegistrations.db"
	}
	return LocalStoreConfig{Path: path}
}

// BuildScheduleConfig parses the static event configuration. Dates are
// ISO-8601 strings in the YAML, exactly as the site shipped them.
func BuildScheduleConfig(cfg *config.Config) (schedule.Config, error) {
	eventDate, err := time.Parse(time.RFC3339, cfg.GetString("event.date"))
	if err != nil {
		return schedule.Config{}, fmt.Errorf("invalid event.date: %w", err)
	}
	deadline, err := time.Parse(time.RFC3339, cfg.GetString("event.registration_deadline"))
	if err != nil {
		return schedule.Config{}, fmt.Errorf("invalid event.registration_deadline: %w", err)
	}

	// wbf's config wrapper does not expose viper's GetStringMapString, so
	// read event.times via Unmarshal with the same lenient semantics.
	var raw struct {
		Event struct {
			Times map[string]string `mapstructure:"times"`
		} `mapstructure:"event"`
	}
	_ = cfg.Unmarshal(&raw)

	return schedule.Config{
		EventName:            cfg.GetString("event.name"),
		EventDate:            eventDate,
		RegistrationDeadline: deadline,
		EventLocation:        cfg.GetString("event.location"),
		EventTimes:           raw.Event.Times,
	}, nil
}

func BuildSMTPConfig(cfg *config.Config) mailer.Config {
	return mailer.Config{
		Host: cfg.GetString("smtp.host"),
		Port: cfg.GetInt("smtp.port"),
		From: cfg.GetString("smtp.from"),
		Pass: cfg.GetString("smtp.pass"),
	}
}

func BuildWorkflowOptions(cfg *config.Config) workflow.Options {
	return workflow.Options{
		SubmitTimeout: cfg.GetDuration("workflow.submit_timeout"),
		ResetDelay:    cfg.GetDuration("workflow.reset_delay"),
	}
}
