package kafka

import (
	"context"
	"encoding/json"
	"errors"
	"testing"

	"github.com/segmentio/kafka-go"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const testTopic = "transfer_flagged"

type fakeWriter struct {
	messages []kafka.Message
	err      error
	closed   bool
}

func (f *fakeWriter) WriteMessages(_ context.Context, msgs ...kafka.Message) error {
	if f.err != nil {
		return f.err
	}
	f.messages = append(f.messages, msgs...)
	return nil
}

func (f *fakeWriter) Close() error {
	f.closed = true
	return nil
}

func TestPublisher_Publish(t *testing.T) {
	w := &fakeWriter{}
	p := &Publisher{writer: w}

	event := map[string]string{"transfer_id": "t1"}
	require.NoError(t, p.Publish(context.Background(), testTopic, event))

	require.Len(t, w.messages, 1)
	assert.Equal(t, testTopic, w.messages[0].Topic)

	var decoded map[string]string
	require.NoError(t, json.Unmarshal(w.messages[0].Value, &decoded))
	assert.Equal(t, "t1", decoded["transfer_id"])
}

func TestPublisher_EncodeError(t *testing.T) {
	w := &fakeWriter{}
	p := &Publisher{writer: w}

	err := p.Publish(context.Background(), testTopic, make(chan int))
	assert.Error(t, err)
	assert.Empty(t, w.messages)
}

func TestPublisher_WriteError(t *testing.T) {
	boom := errors.New("broker down")
	p := &Publisher{writer: &fakeWriter{err: boom}}

	err := p.Publish(context.Background(), testTopic, struct{}{})
	assert.ErrorIs(t, err, boom)
}

func TestPublisher_Close(t *testing.T) {
	w := &fakeWriter{}
	p := &Publisher{writer: w}
	require.NoError(t, p.Close())
	assert.True(t, w.closed)
}

func TestNewPublisher(t *testing.T) {
	p := NewPublisher([]string{"localhost:9092"}, nil)
	writer, ok := p.writer.(*kafka.Writer)
	require.True(t, ok)
	assert.True(t, writer.Async)
	assert.Empty(t, writer.Topic)
}
