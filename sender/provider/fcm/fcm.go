package fcm

import (
	"context"

	firebase "firebase.google.com/go/v4"
	"firebase.google.com/go/v4/messaging"
	"github.com/anyproto/any-sync/app"
	"github.com/anyproto/any-sync/app/logger"
	"go.uber.org/zap"
	"google.golang.org/api/option"

	"github.com/sacavia/sacavia-push-server/domain"
	"github.com/sacavia/sacavia-push-server/sender"
)

const CName = "push.provider.fcm"

var log = logger.NewNamed(CName)

// topic management accepts at most this many tokens per call
const topicBatchSize = 1000

const androidChannelId = "default"

func New() FCM {
	return new(fcm)
}

type FCM interface {
	sender.TopicProvider
	app.Component
}

type messagingClient interface {
	Send(ctx context.Context, message *messaging.Message) (string, error)
	SubscribeToTopic(ctx context.Context, tokens []string, topic string) (*messaging.TopicManagementResponse, error)
	UnsubscribeFromTopic(ctx context.Context, tokens []string, topic string) (*messaging.TopicManagementResponse, error)
}

type fcm struct {
	client messagingClient
}

func (f *fcm) Init(a *app.App) (err error) {
	conf := a.MustComponent("config").(configSource).GetFCM()
	if !conf.enabled() {
		log.Warn("fcm credentials are not configured, primary provider disabled")
		return nil
	}
	var opt option.ClientOption
	if conf.CredentialsJSON != "" {
		opt = option.WithCredentialsJSON([]byte(conf.CredentialsJSON))
	} else {
		opt = option.WithCredentialsFile(conf.CredentialsFile)
	}
	var fbConf *firebase.Config
	if conf.ProjectId != "" {
		fbConf = &firebase.Config{ProjectID: conf.ProjectId}
	}
	fcmApp, err := firebase.NewApp(context.Background(), fbConf, opt)
	if err != nil {
		return err
	}
	if f.client, err = fcmApp.Messaging(context.Background()); err != nil {
		return err
	}
	a.MustComponent(sender.CName).(sender.Sender).RegisterPrimary(f)
	return
}

func (f *fcm) Name() (name string) {
	return CName
}

func (f *fcm) Send(ctx context.Context, token string, msg domain.Message, opts domain.SendOptions) (messageId string, err error) {
	m := buildMessage(msg, opts)
	m.Token = token
	return f.client.Send(ctx, m)
}

func (f *fcm) SendTopic(ctx context.Context, topic domain.Topic, msg domain.Message, opts domain.SendOptions) (messageId string, err error) {
	m := buildMessage(msg, opts)
	m.Topic = topic.String()
	return f.client.Send(ctx, m)
}

func (f *fcm) IsInvalidToken(err error) bool {
	return messaging.IsUnregistered(err) || messaging.IsInvalidArgument(err)
}

func (f *fcm) Subscribe(ctx context.Context, tokens []string, topic domain.Topic) (sender.TopicResult, error) {
	return f.manageTopic(ctx, tokens, topic, f.client.SubscribeToTopic)
}

func (f *fcm) Unsubscribe(ctx context.Context, tokens []string, topic domain.Topic) (sender.TopicResult, error) {
	return f.manageTopic(ctx, tokens, topic, f.client.UnsubscribeFromTopic)
}

type topicFunc func(ctx context.Context, tokens []string, topic string) (*messaging.TopicManagementResponse, error)

func (f *fcm) manageTopic(ctx context.Context, tokens []string, topic domain.Topic, call topicFunc) (res sender.TopicResult, err error) {
	nextBatch := tokens
	for len(nextBatch) > 0 {
		batch := nextBatch
		if len(batch) > topicBatchSize {
			batch, nextBatch = nextBatch[:topicBatchSize], nextBatch[topicBatchSize:]
		} else {
			nextBatch = nil
		}
		resp, err := call(ctx, batch, topic.Path())
		if err != nil {
			return res, err
		}
		res.SuccessCount += resp.SuccessCount
		res.FailureCount += resp.FailureCount
		for _, e := range resp.Errors {
			log.Warn("topic management error",
				zap.String("topic", topic.String()),
				zap.String("reason", e.Reason),
			)
		}
	}
	return res, nil
}

// buildMessage puts platform specific fields into their sections so a single
// call carries badge and sound to iOS devices.
func buildMessage(msg domain.Message, opts domain.SendOptions) *messaging.Message {
	m := &messaging.Message{
		Data: opts.Data,
		Notification: &messaging.Notification{
			Title: msg.Title,
			Body:  msg.Body,
		},
	}
	sound := opts.SoundOrDefault()
	switch opts.Platform {
	case domain.PlatformAndroid:
		m.Android = &messaging.AndroidConfig{
			Priority: "high",
			Notification: &messaging.AndroidNotification{
				Sound:     sound,
				ChannelID: androidChannelId,
			},
		}
	case domain.PlatformWeb:
		m.Webpush = &messaging.WebpushConfig{
			Notification: &messaging.WebpushNotification{
				Title: msg.Title,
				Body:  msg.Body,
			},
		}
	default:
		m.APNS = &messaging.APNSConfig{
			Headers: map[string]string{"apns-priority": "10"},
			Payload: &messaging.APNSPayload{
				Aps: &messaging.Aps{
					Alert: &messaging.ApsAlert{
						Title: msg.Title,
						Body:  msg.Body,
					},
					Badge: opts.Badge,
					Sound: sound,
				},
			},
		}
	}
	return m
}
