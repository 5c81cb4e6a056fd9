package mailservice

import (
	"context"
	"encoding/json"
	"log/slog"
	"time"

	amqp "github.com/rabbitmq/amqp091-go"
	"golang.org/x/exp/rand"

	"github.com/fsopen/bloglist/internal/common"
)

// NewMailService builds a consumer that mails recipient about every new account.
func NewMailService(mb common.MessageConsumer, mailer Mailer, recipient string, logger MailLogger) *MailService {
	ctx, cancel := context.WithCancel(context.Background())
	return &MailService{
		mb:        mb,
		m:         mailer,
		logger:    logger,
		recipient: recipient,
		baseDelay: defaultBaseDelay,
		ctx:       ctx,
		cancel:    cancel,
	}
}

// Start consumes user.created events in the background until Close is called.
func (s *MailService) Start() error {
	msgs, err := s.mb.Consume(consumerName, common.UserCreatedQueue)
	if err != nil {
		return err
	}

	s.wg.Add(1)
	go func() {
		defer s.wg.Done()

		for {
			select {
			case msg, ok := <-msgs:
				if !ok {
					return
				}

				s.handleUserCreated(msg)

			case <-s.ctx.Done():
				s.logger.Info("stopping mail consumer due to context cancellation")
				return
			}
		}
	}()

	return nil
}

// handleUserCreated acks once the message is settled: mailed, undecodable, or out of retries.
// A shutdown during the backoff requeues it instead.
func (s *MailService) handleUserCreated(msg amqp.Delivery) {
	var data userCreated
	err := json.Unmarshal(msg.Body, &data)
	if err != nil {
		s.logger.Error("could not unmarshal message", slog.String("error", err.Error()))
		s.ack(msg)
		return
	}

	// exponential backoff with full jitter
	for attempt := 0; attempt < maxRetries; attempt++ {
		err = s.m.send(s.recipient, data, userCreatedTemplate)
		if err == nil {
			s.logger.Info("new account notification sent", slog.String("username", data.Username))
			s.ack(msg)
			return
		}

		if attempt == maxRetries-1 {
			break
		}

		delay := time.Duration(rand.Int63n(int64(s.baseDelay) << uint(attempt)))
		s.logger.Info("delaying new account notification", slog.String("username", data.Username), slog.Int("attempt", attempt), slog.Duration("delay", delay))

		select {
		case <-time.After(delay):
		case <-s.ctx.Done():
			if err := msg.Nack(false, true); err != nil {
				s.logger.Error("could not requeue message", slog.String("error", err.Error()))
			}
			return
		}
	}

	s.logger.Error("could not send new account notification", slog.String("username", data.Username), slog.String("error", err.Error()))
	s.ack(msg)
}

func (s *MailService) ack(msg amqp.Delivery) {
	if err := msg.Ack(false); err != nil {
		s.logger.Error("could not ack message", slog.String("error", err.Error()))
	}
}

// Close stops the consumer and waits for the message in flight.
func (s *MailService) Close() {
	s.cancel()
	s.wg.Wait()
}
