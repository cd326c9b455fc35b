package config

const (
	EventsNone  = "none"
	EventsKafka = "kafka"
	EventsAMQP  = "amqp"
)

type EventsConfig struct {
	BackendName string `yaml:"backend"`
}

func (s *EventsConfig) Backend() string {
	return s.BackendName
}

type KafkaConfig struct {
	BrokerList []string `yaml:"brokers"`
	EventTopic string   `yaml:"topic"`
}

func (s *KafkaConfig) Brokers() []string {
	return s.BrokerList
}

func (s *KafkaConfig) Topic() string {
	return s.EventTopic
}

type AMQPConfig struct {
	ServerURL    string `yaml:"url"`
	ExchangeName string `yaml:"exchange"`
	QueueName    string `yaml:"queue"`
}

func (s *AMQPConfig) URL() string {
	return s.ServerURL
}

func (s *AMQPConfig) Exchange() string {
	return s.ExchangeName
}

func (s *AMQPConfig) Queue() string {
	return s.QueueName
}
