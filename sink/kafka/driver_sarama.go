package kafka

import (
	"fmt"

	"github.com/IBM/sarama"

	"reforge/internal/record"
	"reforge/sink"
)

type Config struct {
	Brokers []string `yaml:"brokers"`
	Topic   string   `yaml:"topic"`
	Acks    int16    `yaml:"required_acks"` // 0,1,-1
	Format  string   `yaml:"format"`        // json|csv|tsv|psv (default json)
}

type driver struct {
	cfg Config
	p   sarama.AsyncProducer
}

func (d *driver) Configure(c any) error {
	cfg, ok := c.(Config)
	if !ok {
		return fmt.Errorf("kafka-sink: want Config")
	}
	if cfg.Format == "" {
		cfg.Format = "json"
	}
	if !sink.ValidFormat(cfg.Format) {
		return fmt.Errorf("kafka-sink: unsupported format %q", cfg.Format)
	}
	d.cfg = cfg

	sc := sarama.NewConfig()
	sc.Producer.RequiredAcks = sarama.RequiredAcks(cfg.Acks)
	var err error
	d.p, err = sarama.NewAsyncProducer(cfg.Brokers, sc)
	return err
}

func (d *driver) Push(r *record.Record) error {
	value, err := sink.Serialize(r, d.cfg.Format)
	if err != nil {
		return err
	}
	d.p.Input() <- &sarama.ProducerMessage{
		Topic: d.cfg.Topic,
		Value: sarama.StringEncoder(value),
	}
	return nil
}

func (d *driver) Close() error {
	return d.p.Close()
}

func init() { sink.Register("kafka", func() sink.Adapter { return &driver{} }) }
