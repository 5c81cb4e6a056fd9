package mailservice

import (
	"bytes"
	"fmt"
	"sync"

	"github.com/go-mail/mail/v2"
	amqp "github.com/rabbitmq/amqp091-go"
	"github.com/stretchr/testify/mock"

	"github.com/fsopen/bloglist/internal/common"
)

type MockTemplate struct {
	mock.Mock
}

func (m *MockTemplate) ParseTemplate(name string, data any) (*bytes.Buffer, *bytes.Buffer, *bytes.Buffer, error) {
	args := m.Called(name, data)
	return args.Get(0).(*bytes.Buffer), args.Get(1).(*bytes.Buffer), args.Get(2).(*bytes.Buffer), args.Error(3)
}

type MockDialer struct {
	mock.Mock
}

func (d *MockDialer) DialAndSend(m ...*mail.Message) error {
	args := d.Called(m)
	return args.Error(0)
}

// MockMailer fails the first failures calls and records the recipients of the rest.
type MockMailer struct {
	mu         sync.Mutex
	failures   int
	calls      int
	recipients []string
	data       []any
	// onSend, if set, runs after every attempt with its 1-based number.
	onSend func(call int)
}

func (m *MockMailer) send(recipient string, data any, templateFile string) error {
	m.mu.Lock()
	defer m.mu.Unlock()

	m.calls++
	if m.onSend != nil {
		m.onSend(m.calls)
	}
	if m.calls <= m.failures {
		return fmt.Errorf("smtp unavailable")
	}

	m.recipients = append(m.recipients, recipient)
	m.data = append(m.data, data)
	return nil
}

func (m *MockMailer) sent() []string {
	m.mu.Lock()
	defer m.mu.Unlock()

	return append([]string(nil), m.recipients...)
}

type MockMessageConsumer struct {
	mock.Mock
}

func (m *MockMessageConsumer) Consume(consumer string, queue common.Queue) (<-chan amqp.Delivery, error) {
	args := m.Called(consumer, queue)
	if ch := args.Get(0); ch != nil {
		return ch.(chan amqp.Delivery), args.Error(1)
	}
	return nil, args.Error(1)
}

type fakeAcknowledger struct {
	mu       sync.Mutex
	acked    []uint64
	requeued []uint64
}

func (a *fakeAcknowledger) Ack(tag uint64, multiple bool) error {
	a.mu.Lock()
	defer a.mu.Unlock()

	a.acked = append(a.acked, tag)
	return nil
}

func (a *fakeAcknowledger) Nack(tag uint64, multiple, requeue bool) error {
	a.mu.Lock()
	defer a.mu.Unlock()

	if requeue {
		a.requeued = append(a.requeued, tag)
	}
	return nil
}

func (a *fakeAcknowledger) Reject(tag uint64, requeue bool) error { return nil }

func (a *fakeAcknowledger) count() int {
	a.mu.Lock()
	defer a.mu.Unlock()

	return len(a.acked)
}

func (a *fakeAcknowledger) requeueCount() int {
	a.mu.Lock()
	defer a.mu.Unlock()

	return len(a.requeued)
}

type nopLogger struct{}

func (nopLogger) Error(msg string, args ...any) {}

func (nopLogger) Info(msg string, args ...any) {}
