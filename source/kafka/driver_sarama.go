package kafka

import (
	"context"
	"time"

	"github.com/IBM/sarama"

	"reforge/internal/frame"
	"reforge/internal/logging"
)

// SaramaDriver consumes the configured topics through a sarama consumer
// group. Frames are handed to the pipeline synchronously, so offsets are
// marked in order once emit returns; commits are flushed on a time gate.
type SaramaDriver struct {
	cfg   Config
	cl    sarama.Client
	group sarama.ConsumerGroup
	th    *Throttle
}

func (d *SaramaDriver) Configure(config Config) error {
	d.cfg = config
	d.th = NewThrottle(config.MaxInFlight)

	ver, err := sarama.ParseKafkaVersion(config.Version)
	if err != nil {
		return err
	}
	sc := sarama.NewConfig()
	sc.Version = ver
	sc.Consumer.Return.Errors = true
	if config.TLSEn {
		sc.Net.TLS.Enable = true
	}
	if config.SASLUser != "" {
		sc.Net.SASL.Enable = true
		sc.Net.SASL.User, sc.Net.SASL.Password = config.SASLUser, config.SASLPass
	}
	switch config.StartFrom {
	case "oldest":
		sc.Consumer.Offsets.Initial = sarama.OffsetOldest
	default:
		sc.Consumer.Offsets.Initial = sarama.OffsetNewest
	}

	if d.cl, err = sarama.NewClient(config.Brokers, sc); err != nil {
		return err
	}
	d.group, err = sarama.NewConsumerGroupFromClient(config.GroupID, d.cl)
	return err
}

func (d *SaramaDriver) Run(ctx context.Context, emit EmitFunc) error {
	handler := &groupHandler{driver: d, emit: emit}

	for {
		if err := d.group.Consume(ctx, d.cfg.Topics, handler); err != nil {
			return err
		}
		if ctx.Err() != nil {
			return ctx.Err()
		}
	}
}

func (d *SaramaDriver) Close() error {
	_ = d.group.Close()
	_ = d.cl.Close()
	d.th.Close()
	return nil
}

type groupHandler struct {
	driver *SaramaDriver
	emit   EmitFunc
}

func (*groupHandler) Setup(sarama.ConsumerGroupSession) error { return nil }

func (*groupHandler) Cleanup(sarama.ConsumerGroupSession) error { return nil }

func (h *groupHandler) ConsumeClaim(
	sess sarama.ConsumerGroupSession,
	claim sarama.ConsumerGroupClaim,
) error {
	lastCommit := time.Now()
	for {
		select {
		case <-sess.Context().Done():
			return sess.Context().Err()

		case msg, ok := <-claim.Messages():
			if !ok {
				return nil
			}
			if err := h.driver.th.Acquire(sess.Context()); err != nil {
				return err
			}

			f := &frame.Frame{
				Key:     msg.Key,
				Value:   msg.Value,
				Headers: toHeaderMap(msg.Headers),
				Ts:      msg.Timestamp,
				Source:  frame.Offset{Topic: msg.Topic, Partition: msg.Partition, Offset: msg.Offset},
			}
			err := h.emit(f)
			h.driver.th.Release()
			if err != nil {
				// The pipeline decides retry/abort policy; the driver only
				// reports where it stopped.
				logging.L().Error("sarama-driver: emit failed",
					"topic", msg.Topic, "partition", msg.Partition, "offset", msg.Offset, "err", err)
				return err
			}

			sess.MarkMessage(msg, "")
			if time.Since(lastCommit) >= h.driver.cfg.CommitInt {
				sess.Commit()
				lastCommit = time.Now()
			}
		}
	}
}

func toHeaderMap(src []*sarama.RecordHeader) map[string][]byte {
	if len(src) == 0 {
		return nil
	}
	out := make(map[string][]byte, len(src))
	for _, h := range src {
		out[string(h.Key)] = h.Value
	}
	return out
}
