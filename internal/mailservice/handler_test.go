package mailservice

import (
	"errors"
	"testing"
	"time"

	amqp "github.com/rabbitmq/amqp091-go"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/fsopen/bloglist/internal/common"
)

func newTestService(mc *MockMessageConsumer, mailer *MockMailer) *MailService {
	s := NewMailService(mc, mailer, "moderator@example.com", nopLogger{})
	s.baseDelay = time.Millisecond
	return s
}

func TestStartSendsNotification(t *testing.T) {
	msgs := make(chan amqp.Delivery, 1)
	mockMC := new(MockMessageConsumer)
	mockMC.On("Consume", consumerName, common.UserCreatedQueue).Return(msgs, nil)

	mailer := &MockMailer{}
	ack := &fakeAcknowledger{}

	s := newTestService(mockMC, mailer)
	require.NoError(t, s.Start())
	t.Cleanup(s.Close)

	msgs <- amqp.Delivery{Acknowledger: ack, DeliveryTag: 1, Body: []byte(`{"username":"vasapol","name":"Vasapol"}`)}

	assert.Eventually(t, func() bool { return ack.count() == 1 }, time.Second, 5*time.Millisecond)
	assert.Equal(t, []string{"moderator@example.com"}, mailer.sent())
	assert.Equal(t, userCreated{Username: "vasapol", Name: "Vasapol"}, mailer.data[0])

	mockMC.AssertExpectations(t)
}

func TestStartConsumeError(t *testing.T) {
	mockMC := new(MockMessageConsumer)
	mockMC.On("Consume", consumerName, common.UserCreatedQueue).Return(nil, errors.New("channel closed"))

	s := newTestService(mockMC, &MockMailer{})
	assert.Error(t, s.Start())
}

func TestHandleUserCreated(t *testing.T) {
	testCases := []struct {
		name      string
		body      string
		failures  int
		wantSent  int
		wantCalls int
	}{
		{name: "first attempt succeeds", body: `{"username":"root"}`, wantSent: 1, wantCalls: 1},
		{name: "retries until success", body: `{"username":"root"}`, failures: 2, wantSent: 1, wantCalls: 3},
		{name: "gives up after max retries", body: `{"username":"root"}`, failures: maxRetries, wantSent: 0, wantCalls: maxRetries},
		{name: "malformed body is dropped", body: `not json`, wantSent: 0, wantCalls: 0},
	}

	for _, tc := range testCases {
		t.Run(tc.name, func(t *testing.T) {
			mailer := &MockMailer{failures: tc.failures}
			ack := &fakeAcknowledger{}

			s := newTestService(new(MockMessageConsumer), mailer)
			s.handleUserCreated(amqp.Delivery{Acknowledger: ack, Body: []byte(tc.body)})

			assert.Len(t, mailer.sent(), tc.wantSent)
			assert.Equal(t, tc.wantCalls, mailer.calls)
			assert.Equal(t, 1, ack.count(), "every settled message is acked")
			assert.Equal(t, 0, ack.requeueCount())
		})
	}
}

func TestHandleUserCreatedRequeuesOnShutdown(t *testing.T) {
	mailer := &MockMailer{failures: maxRetries}
	ack := &fakeAcknowledger{}

	s := newTestService(new(MockMessageConsumer), mailer)
	s.baseDelay = time.Hour

	time.AfterFunc(50*time.Millisecond, s.cancel)

	s.handleUserCreated(amqp.Delivery{Acknowledger: ack, Body: []byte(`{"username":"root"}`)})

	assert.Empty(t, mailer.sent())
	assert.Equal(t, 0, ack.count(), "an unsent notification is not acked")
	assert.Equal(t, 1, ack.requeueCount())
}

func TestHandleUserCreatedGivesUpWithoutFinalDelay(t *testing.T) {
	ack := &fakeAcknowledger{}
	mailer := &MockMailer{failures: maxRetries}

	s := newTestService(new(MockMessageConsumer), mailer)
	mailer.onSend = func(call int) {
		// any backoff after the last attempt would observe the cancellation and requeue
		if call == maxRetries {
			s.cancel()
		}
	}

	s.handleUserCreated(amqp.Delivery{Acknowledger: ack, Body: []byte(`{"username":"root"}`)})

	assert.Equal(t, maxRetries, mailer.calls)
	assert.Equal(t, 1, ack.count())
	assert.Equal(t, 0, ack.requeueCount())
}
