// Package apns delivers notifications straight to Apple when the primary
// provider could not reach an iOS device.
package apns

import (
	"context"
	"crypto/ecdsa"
	"errors"
	"fmt"

	"github.com/anyproto/any-sync/app"
	"github.com/anyproto/any-sync/app/logger"
	"github.com/sideshow/apns2"
	"github.com/sideshow/apns2/payload"
	"github.com/sideshow/apns2/token"
	"go.uber.org/zap"

	"github.com/sacavia/sacavia-push-server/domain"
	"github.com/sacavia/sacavia-push-server/sender"
)

const CName = "push.provider.apns"

var log = logger.NewNamed(CName)

func New() APNS {
	return new(apns)
}

type APNS interface {
	sender.Provider
	app.Component
}

// Error is a rejected push, Reason is the APNs reason string.
type Error struct {
	StatusCode int
	Reason     string
}

func (e *Error) Error() string {
	return fmt.Sprintf("apns: %d %s", e.StatusCode, e.Reason)
}

type pusher interface {
	PushWithContext(ctx apns2.Context, n *apns2.Notification) (*apns2.Response, error)
}

type apns struct {
	client pusher
	topic  string
}

func (a *apns) Init(ap *app.App) (err error) {
	conf := ap.MustComponent("config").(configSource).GetAPNS()
	if !conf.enabled() {
		log.Info("apns is not configured, fallback disabled")
		return nil
	}
	var authKey *ecdsa.PrivateKey
	if conf.Key != "" {
		authKey, err = token.AuthKeyFromBytes([]byte(conf.Key))
	} else {
		authKey, err = token.AuthKeyFromFile(conf.KeyFile)
	}
	if err != nil {
		return fmt.Errorf("load apns key: %w", err)
	}
	client := apns2.NewTokenClient(&token.Token{
		AuthKey: authKey,
		KeyID:   conf.KeyId,
		TeamID:  conf.TeamId,
	})
	if conf.Production {
		client = client.Production()
	} else {
		client = client.Development()
	}
	a.client = client
	a.topic = conf.BundleId
	ap.MustComponent(sender.CName).(sender.Sender).RegisterFallback(a)
	log.Info("apns fallback enabled", zap.Bool("production", conf.Production))
	return
}

func (a *apns) Name() (name string) {
	return CName
}

func (a *apns) Send(ctx context.Context, deviceToken string, msg domain.Message, opts domain.SendOptions) (messageId string, err error) {
	resp, err := a.client.PushWithContext(ctx, &apns2.Notification{
		DeviceToken: deviceToken,
		Topic:       a.topic,
		PushType:    apns2.PushTypeAlert,
		Priority:    apns2.PriorityHigh,
		Payload:     buildPayload(msg, opts),
	})
	if err != nil {
		return "", err
	}
	if !resp.Sent() {
		return "", &Error{StatusCode: resp.StatusCode, Reason: resp.Reason}
	}
	return resp.ApnsID, nil
}

func (a *apns) IsInvalidToken(err error) bool {
	var apnsErr *Error
	if !errors.As(err, &apnsErr) {
		return false
	}
	switch apnsErr.Reason {
	case apns2.ReasonBadDeviceToken, apns2.ReasonUnregistered, apns2.ReasonDeviceTokenNotForTopic:
		return true
	}
	return false
}

func buildPayload(msg domain.Message, opts domain.SendOptions) *payload.Payload {
	p := payload.NewPayload().
		AlertTitle(msg.Title).
		AlertBody(msg.Body).
		Sound(opts.SoundOrDefault())
	if opts.Badge != nil {
		p = p.Badge(*opts.Badge)
	}
	for k, v := range opts.Data {
		p = p.Custom(k, v)
	}
	return p
}
