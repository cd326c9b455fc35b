package config

import (
	"os"
	"time"

	"github.com/joho/godotenv"
	"github.com/pkg/errors"
	"go.uber.org/zap"
	"gopkg.in/yaml.v3"
	"max.ks1230/split-expenses-bot/internal/entity/expense"
	"max.ks1230/split-expenses-bot/internal/logger"
)

const (
	DefaultConfigFile = "data/config.yaml"
	ConfigFileEnv     = "SPLITEXPENSES_CONFIG_FILE"
)

const (
	telegramTokenEnv = "TELEGRAM_TOKEN"
	geminiAPIKeyEnv  = "GEMINI_API_KEY"
	sqlPasswordEnv   = "SQL_PASSWORD"
	amqpURLEnv       = "AMQP_URL"
)

type config struct {
	Telegram  TelegramConfig  `yaml:"telegram"`
	Expenses  expense.Catalog `yaml:"expenses"`
	Ledger    LedgerConfig    `yaml:"ledger"`
	GSheet    GSheetConfig    `yaml:"gsheet"`
	SQL       SQLConfig       `yaml:"sql"`
	Drafts    DraftsConfig    `yaml:"drafts"`
	Memcached MemcachedConfig `yaml:"memcached"`
	Gemini    GeminiConfig    `yaml:"gemini"`
	Events    EventsConfig    `yaml:"events"`
	Kafka     KafkaConfig     `yaml:"kafka"`
	AMQP      AMQPConfig      `yaml:"amqp"`
	App       AppConfig       `yaml:"app"`
}

type Service struct {
	config config
}

// Path picks the config file: the explicit path if given, then the
// environment, then the default location.
func Path(explicit string) string {
	if explicit != "" {
		return explicit
	}
	if p := os.Getenv(ConfigFileEnv); p != "" {
		return p
	}
	return DefaultConfigFile
}

func New(path string) (*Service, error) {
	// a missing .env is fine, the variables may come from the environment
	_ = godotenv.Load()

	rawYAML, err := os.ReadFile(path)
	if err != nil {
		return nil, errors.Wrap(err, "reading config file")
	}
	return Parse(rawYAML)
}

// Parse builds the service from raw YAML and applies environment overrides.
func Parse(rawYAML []byte) (*Service, error) {
	s := &Service{}

	err := yaml.Unmarshal(rawYAML, &s.config)
	if err != nil {
		return nil, errors.Wrap(err, "parsing yaml")
	}

	s.applyEnv()
	s.setDefaults()

	if err = s.validate(); err != nil {
		return nil, err
	}

	for _, name := range s.config.Expenses.UnbalancedSplitMethods() {
		logger.Warn("split type percentages do not sum to 100", zap.String("split", name))
	}

	return s, nil
}

func (s *Service) applyEnv() {
	override(&s.config.Telegram.ApiToken, telegramTokenEnv)
	override(&s.config.Gemini.Key, geminiAPIKeyEnv)
	override(&s.config.SQL.Pswd, sqlPasswordEnv)
	override(&s.config.AMQP.ServerURL, amqpURLEnv)
}

func override(field *string, env string) {
	if v, ok := os.LookupEnv(env); ok && v != "" {
		*field = v
	}
}

func (s *Service) setDefaults() {
	if s.config.Ledger.BackendName == "" {
		s.config.Ledger.BackendName = LedgerGSheet
	}
	if s.config.SQL.DriverName == "" {
		s.config.SQL.DriverName = "postgres"
	}
	if s.config.Drafts.BackendName == "" {
		s.config.Drafts.BackendName = DraftsMemory
	}
	if s.config.Drafts.TTL == 0 {
		s.config.Drafts.TTL = defaultDraftTTLMinutes
	}
	if s.config.Events.BackendName == "" {
		s.config.Events.BackendName = EventsNone
	}
	if s.config.Gemini.ModelName == "" {
		s.config.Gemini.ModelName = defaultGeminiModel
	}
	if s.config.App.TimezoneName == "" {
		s.config.App.TimezoneName = "UTC"
	}
	if s.config.App.Port == 0 {
		s.config.App.Port = defaultMetricsPort
	}
}

func (s *Service) validate() error {
	if s.config.Telegram.ApiToken == "" {
		return errors.New("telegram token is not set")
	}
	catalog := &s.config.Expenses
	if len(catalog.Users) == 0 || len(catalog.Categories) == 0 || len(catalog.SplitMethods) == 0 {
		return errors.New("users, categories and split types must not be empty")
	}

	switch s.config.Ledger.BackendName {
	case LedgerGSheet, LedgerSQL:
	default:
		return errors.Errorf("unknown ledger backend %q", s.config.Ledger.BackendName)
	}
	switch s.config.Drafts.BackendName {
	case DraftsMemory, DraftsMemcached:
	default:
		return errors.Errorf("unknown drafts backend %q", s.config.Drafts.BackendName)
	}
	switch s.config.Events.BackendName {
	case EventsNone, EventsKafka, EventsAMQP:
	default:
		return errors.Errorf("unknown events backend %q", s.config.Events.BackendName)
	}

	loc, err := time.LoadLocation(s.config.App.TimezoneName)
	if err != nil {
		return errors.Wrap(err, "loading timezone")
	}
	s.config.App.location = loc
	return nil
}

func (s *Service) Telegram() *TelegramConfig {
	return &s.config.Telegram
}

func (s *Service) Catalog() *expense.Catalog {
	return &s.config.Expenses
}

func (s *Service) Ledger() *LedgerConfig {
	return &s.config.Ledger
}

func (s *Service) GSheet() *GSheetConfig {
	return &s.config.GSheet
}

func (s *Service) SQL() *SQLConfig {
	return &s.config.SQL
}

func (s *Service) Drafts() *DraftsConfig {
	return &s.config.Drafts
}

func (s *Service) Memcached() *MemcachedConfig {
	return &s.config.Memcached
}

func (s *Service) Gemini() *GeminiConfig {
	return &s.config.Gemini
}

func (s *Service) Events() *EventsConfig {
	return &s.config.Events
}

func (s *Service) Kafka() *KafkaConfig {
	return &s.config.Kafka
}

func (s *Service) AMQP() *AMQPConfig {
	return &s.config.AMQP
}

func (s *Service) App() *AppConfig {
	return &s.config.App
}
