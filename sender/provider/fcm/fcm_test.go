package fcm

import (
	"context"
	"errors"
	"fmt"
	"testing"

	"firebase.google.com/go/v4/messaging"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/sacavia/sacavia-push-server/domain"
)

var ctx = context.Background()

var msg = domain.Message{Title: "New comment", Body: "sam commented on your guide"}

func TestBuildMessage(t *testing.T) {
	t.Run("ios", func(t *testing.T) {
		badge := 4
		m := buildMessage(msg, domain.SendOptions{
			Platform: domain.PlatformIOS,
			Badge:    &badge,
			Data:     map[string]string{"type": "comment"},
		})
		require.NotNil(t, m.APNS)
		assert.Nil(t, m.Android)
		assert.Equal(t, "New comment", m.Notification.Title)
		assert.Equal(t, map[string]string{"type": "comment"}, m.Data)
		aps := m.APNS.Payload.Aps
		assert.Equal(t, &badge, aps.Badge)
		assert.Equal(t, domain.DefaultSound, aps.Sound)
		assert.Equal(t, "sam commented on your guide", aps.Alert.Body)
	})
	t.Run("android", func(t *testing.T) {
		m := buildMessage(msg, domain.SendOptions{Platform: domain.PlatformAndroid, Sound: "chime"})
		require.NotNil(t, m.Android)
		assert.Nil(t, m.APNS)
		assert.Equal(t, "high", m.Android.Priority)
		assert.Equal(t, "chime", m.Android.Notification.Sound)
	})
	t.Run("web", func(t *testing.T) {
		m := buildMessage(msg, domain.SendOptions{Platform: domain.PlatformWeb})
		require.NotNil(t, m.Webpush)
		assert.Equal(t, "New comment", m.Webpush.Notification.Title)
	})
}

func TestFCM_Send(t *testing.T) {
	client := &fakeClient{}
	f := &fcm{client: client}

	id, err := f.Send(ctx, "device", msg, domain.SendOptions{Platform: domain.PlatformAndroid})
	require.NoError(t, err)
	assert.Equal(t, "projects/p/messages/1", id)
	require.Len(t, client.sent, 1)
	assert.Equal(t, "device", client.sent[0].Token)

	_, err = f.SendTopic(ctx, "boston-guides", msg, domain.SendOptions{})
	require.NoError(t, err)
	assert.Equal(t, "boston-guides", client.sent[1].Topic)
	assert.Empty(t, client.sent[1].Token)

	client.err = errors.New("unavailable")
	_, err = f.Send(ctx, "device", msg, domain.SendOptions{})
	require.Error(t, err)
	assert.False(t, f.IsInvalidToken(err))
}

func TestFCM_Subscribe(t *testing.T) {
	client := &fakeClient{}
	f := &fcm{client: client}
	var tokens = make([]string, topicBatchSize+5)
	for i := range tokens {
		tokens[i] = fmt.Sprintf("token%d", i)
	}
	res, err := f.Subscribe(ctx, tokens, "boston-guides")
	require.NoError(t, err)
	assert.Equal(t, len(tokens), res.SuccessCount)
	assert.Equal(t, []int{topicBatchSize, 5}, client.batches)
	assert.Equal(t, "/topics/boston-guides", client.topic)

	res, err = f.Unsubscribe(ctx, tokens[:2], "boston-guides")
	require.NoError(t, err)
	assert.Equal(t, 2, res.SuccessCount)
}

type fakeClient struct {
	sent    []*messaging.Message
	batches []int
	topic   string
	err     error
}

func (c *fakeClient) Send(ctx context.Context, message *messaging.Message) (string, error) {
	if c.err != nil {
		return "", c.err
	}
	c.sent = append(c.sent, message)
	return fmt.Sprintf("projects/p/messages/%d", len(c.sent)), nil
}

func (c *fakeClient) SubscribeToTopic(ctx context.Context, tokens []string, topic string) (*messaging.TopicManagementResponse, error) {
	c.batches = append(c.batches, len(tokens))
	c.topic = topic
	return &messaging.TopicManagementResponse{SuccessCount: len(tokens)}, nil
}

func (c *fakeClient) UnsubscribeFromTopic(ctx context.Context, tokens []string, topic string) (*messaging.TopicManagementResponse, error) {
	return &messaging.TopicManagementResponse{SuccessCount: len(tokens)}, nil
}
