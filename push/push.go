package push

import (
	"context"
	"errors"
	"fmt"

	"github.com/anyproto/any-sync/app"
	"github.com/anyproto/any-sync/app/logger"
	"go.uber.org/zap"

	"github.com/sacavia/sacavia-push-server/auth"
	"github.com/sacavia/sacavia-push-server/domain"
	"github.com/sacavia/sacavia-push-server/httpserver"
	"github.com/sacavia/sacavia-push-server/metric"
	"github.com/sacavia/sacavia-push-server/queue"
	"github.com/sacavia/sacavia-push-server/repo/notificationrepo"
	"github.com/sacavia/sacavia-push-server/repo/tokenrepo"
	"github.com/sacavia/sacavia-push-server/sender"
)

const CName = "push"

var log = logger.NewNamed(CName)

var (
	ErrInvalidNotification = errors.New("invalid notification")
	ErrInvalidTarget       = errors.New("exactly one of userId, topic or token is required")
)

const (
	testTitle = "Test notification"
	testBody  = "Push notifications are working"
)

func New() Push {
	return new(push)
}

type Push interface {
	RegisterToken(ctx context.Context, userId string, req RegisterTokenRequest) (token domain.DeviceToken, created bool, err error)
	UnregisterToken(ctx context.Context, userId string, req UnregisterTokenRequest) error
	Notify(ctx context.Context, req NotifyRequest) (domain.Notification, error)
	List(ctx context.Context, userId string, filter notificationrepo.Filter) (ListResponse, error)
	MarkRead(ctx context.Context, userId, id string) error
	MarkAllRead(ctx context.Context, userId string) (count int64, err error)
	UnreadCount(ctx context.Context, userId string) (count int64, err error)
	SendTest(ctx context.Context, req TestRequest) (sender.Result, error)
	Send(ctx context.Context, req SendRequest) (SendResponse, error)
	SubscribeTopic(ctx context.Context, userId string, topic domain.Topic) (sender.TopicResult, error)
	UnsubscribeTopic(ctx context.Context, userId string, topic domain.Topic) (sender.TopicResult, error)
	app.Component
}

type RegisterTokenRequest struct {
	DeviceToken string            `json:"deviceToken" validate:"required"`
	Platform    string            `json:"platform" validate:"omitempty,oneof=ios android web"`
	APNSToken   string            `json:"apnsToken"`
	DeviceInfo  domain.DeviceInfo `json:"deviceInfo"`
}

type UnregisterTokenRequest struct {
	DeviceToken string `json:"deviceToken" validate:"required"`
	Platform    string `json:"platform" validate:"omitempty,oneof=ios android web"`
}

type NotifyRequest struct {
	Recipient string                  `json:"recipient" validate:"required"`
	Type      domain.NotificationType `json:"type" validate:"required"`
	Title     string                  `json:"title" validate:"required"`
	Message   string                  `json:"message" validate:"required"`
	Metadata  map[string]string       `json:"metadata"`
	Priority  domain.Priority         `json:"priority" validate:"omitempty,oneof=low normal high"`
	Badge     *int                    `json:"badge" validate:"omitempty,min=0"`
	Sound     string                  `json:"sound"`
	// SkipPush stores the record without a device delivery.
	SkipPush bool `json:"skipPush"`
}

type TestRequest struct {
	Token     string            `json:"token" validate:"required"`
	Platform  string            `json:"platform" validate:"omitempty,oneof=ios android web"`
	APNSToken string            `json:"apnsToken"`
	Title     string            `json:"title"`
	Body      string            `json:"body"`
	Data      map[string]string `json:"data"`
	Badge     *int              `json:"badge" validate:"omitempty,min=0"`
	Sound     string            `json:"sound"`
}

type SendRequest struct {
	UserId    string            `json:"userId"`
	Topic     string            `json:"topic"`
	Token     string            `json:"token"`
	Platform  string            `json:"platform" validate:"omitempty,oneof=ios android web"`
	APNSToken string            `json:"apnsToken"`
	Title     string            `json:"title" validate:"required"`
	Body      string            `json:"body" validate:"required"`
	Data      map[string]string `json:"data"`
	Badge     *int              `json:"badge" validate:"omitempty,min=0"`
	Sound     string            `json:"sound"`
}

type SendResponse struct {
	User   *sender.UserResult `json:"user,omitempty"`
	Result *sender.Result     `json:"result,omitempty"`
}

type ListResponse struct {
	Notifications []domain.Notification `json:"notifications"`
	Total         int64                 `json:"total"`
	Unread        int64                 `json:"unread"`
	Limit         int                   `json:"limit"`
	Skip          int                   `json:"skip"`
	HasMore       bool                  `json:"hasMore"`
}

type push struct {
	tokenRepo        tokenrepo.TokenRepo
	notificationRepo notificationrepo.NotificationRepo
	queue            queue.Queue
	sender           sender.Sender
	metric           metric.Metric
	handler          *handler
}

func (p *push) Init(a *app.App) (err error) {
	p.tokenRepo = a.MustComponent(tokenrepo.CName).(tokenrepo.TokenRepo)
	p.notificationRepo = a.MustComponent(notificationrepo.CName).(notificationrepo.NotificationRepo)
	p.queue = a.MustComponent(queue.CName).(queue.Queue)
	p.sender = a.MustComponent(sender.CName).(sender.Sender)
	p.metric = a.MustComponent(metric.CName).(metric.Metric)
	p.handler = &handler{
		p:    p,
		auth: a.MustComponent(auth.CName).(auth.Auth),
	}
	p.handler.register(a.MustComponent(httpserver.CName).(httpserver.HTTPServer).Router())
	return
}

func (p *push) Name() (name string) {
	return CName
}

func parsePlatform(s string) (domain.Platform, error) {
	if s == "" {
		return domain.PlatformIOS, nil
	}
	return domain.ParsePlatform(s)
}

func (p *push) RegisterToken(ctx context.Context, userId string, req RegisterTokenRequest) (token domain.DeviceToken, created bool, err error) {
	platform, err := parsePlatform(req.Platform)
	if err != nil {
		return
	}
	token, created, err = p.tokenRepo.Register(ctx, domain.DeviceToken{
		UserId:      userId,
		Platform:    platform,
		DeviceToken: req.DeviceToken,
		APNSToken:   req.APNSToken,
		DeviceInfo:  req.DeviceInfo,
	})
	if err != nil {
		return
	}
	log.Info("device token registered",
		zap.String("userId", userId),
		zap.String("platform", string(platform)),
		zap.Bool("created", created),
	)
	return
}

// UnregisterToken deactivates the caller's token. Without a platform the
// token is matched on every platform.
func (p *push) UnregisterToken(ctx context.Context, userId string, req UnregisterTokenRequest) error {
	var platform domain.Platform
	if req.Platform != "" {
		var err error
		if platform, err = domain.ParsePlatform(req.Platform); err != nil {
			return err
		}
	}
	return p.tokenRepo.Unregister(ctx, userId, platform, req.DeviceToken)
}

func (p *push) Notify(ctx context.Context, req NotifyRequest) (n domain.Notification, err error) {
	if !req.Type.Valid() {
		return n, fmt.Errorf("%w: unknown type %q", ErrInvalidNotification, req.Type)
	}
	n, err = p.notificationRepo.Create(ctx, domain.Notification{
		Recipient: req.Recipient,
		Type:      req.Type,
		Title:     req.Title,
		Message:   req.Message,
		Metadata:  req.Metadata,
		Priority:  req.Priority,
	})
	if err != nil || req.SkipPush {
		return
	}
	data := make(map[string]string, len(req.Metadata)+1)
	for k, v := range req.Metadata {
		data[k] = v
	}
	data["type"] = string(n.Type)
	if qErr := p.queue.Add(ctx, queue.Message{
		NotificationId: n.Id,
		RecipientId:    n.Recipient,
		Title:          n.Title,
		Body:           n.Message,
		Data:           data,
		Badge:          req.Badge,
		Sound:          req.Sound,
	}); qErr != nil {
		// the record is stored; the device delivery is best effort
		log.Warn("enqueue delivery error", zap.String("notificationId", n.Id), zap.Error(qErr))
	}
	return n, nil
}

func (p *push) List(ctx context.Context, userId string, filter notificationrepo.Filter) (resp ListResponse, err error) {
	if filter.Limit <= 0 {
		filter.Limit = notificationrepo.DefaultLimit
	}
	if filter.Limit > notificationrepo.MaxLimit {
		filter.Limit = notificationrepo.MaxLimit
	}
	notifications, total, err := p.notificationRepo.List(ctx, userId, filter)
	if err != nil {
		return
	}
	unread, err := p.notificationRepo.UnreadCount(ctx, userId)
	if err != nil {
		return
	}
	return ListResponse{
		Notifications: notifications,
		Total:         total,
		Unread:        unread,
		Limit:         filter.Limit,
		Skip:          filter.Skip,
		HasMore:       int64(filter.Skip+len(notifications)) < total,
	}, nil
}

func (p *push) MarkRead(ctx context.Context, userId, id string) error {
	return p.notificationRepo.MarkRead(ctx, userId, id)
}

func (p *push) MarkAllRead(ctx context.Context, userId string) (count int64, err error) {
	return p.notificationRepo.MarkAllRead(ctx, userId)
}

func (p *push) UnreadCount(ctx context.Context, userId string) (count int64, err error) {
	return p.notificationRepo.UnreadCount(ctx, userId)
}

func (p *push) SendTest(ctx context.Context, req TestRequest) (sender.Result, error) {
	platform, err := parsePlatform(req.Platform)
	if err != nil {
		return sender.Result{}, err
	}
	msg := domain.Message{Title: req.Title, Body: req.Body}
	if msg.Title == "" {
		msg.Title = testTitle
	}
	if msg.Body == "" {
		msg.Body = testBody
	}
	return p.sender.SendPush(ctx, req.Token, msg, domain.SendOptions{
		Data:      req.Data,
		Badge:     req.Badge,
		Sound:     req.Sound,
		Platform:  platform,
		APNSToken: req.APNSToken,
	})
}

func (p *push) Send(ctx context.Context, req SendRequest) (resp SendResponse, err error) {
	var targets int
	for _, t := range []string{req.UserId, req.Topic, req.Token} {
		if t != "" {
			targets++
		}
	}
	if targets != 1 {
		return resp, ErrInvalidTarget
	}
	msg := domain.Message{Title: req.Title, Body: req.Body}
	opts := domain.SendOptions{
		Data:      req.Data,
		Badge:     req.Badge,
		Sound:     req.Sound,
		APNSToken: req.APNSToken,
	}
	switch {
	case req.UserId != "":
		res, err := p.sender.SendToUser(ctx, req.UserId, msg, opts)
		if err != nil {
			return resp, err
		}
		resp.User = &res
	case req.Topic != "":
		topic, err := domain.NewTopic(req.Topic)
		if err != nil {
			return resp, err
		}
		res, err := p.sender.SendToTopic(ctx, topic, msg, opts)
		if err != nil {
			return resp, err
		}
		resp.Result = &res
	default:
		if opts.Platform, err = parsePlatform(req.Platform); err != nil {
			return
		}
		res, err := p.sender.SendPush(ctx, req.Token, msg, opts)
		if err != nil {
			return resp, err
		}
		resp.Result = &res
	}
	return resp, nil
}

func (p *push) SubscribeTopic(ctx context.Context, userId string, topic domain.Topic) (sender.TopicResult, error) {
	tokens, err := p.userTokens(ctx, userId)
	if err != nil {
		return sender.TopicResult{}, err
	}
	return p.sender.Subscribe(ctx, tokens, topic)
}

func (p *push) UnsubscribeTopic(ctx context.Context, userId string, topic domain.Topic) (sender.TopicResult, error) {
	tokens, err := p.userTokens(ctx, userId)
	if err != nil {
		return sender.TopicResult{}, err
	}
	return p.sender.Unsubscribe(ctx, tokens, topic)
}

func (p *push) userTokens(ctx context.Context, userId string) ([]string, error) {
	records, err := p.tokenRepo.GetActiveTokensByUserIds(ctx, []string{userId})
	if err != nil {
		return nil, err
	}
	tokens := make([]string, 0, len(records))
	for _, r := range records {
		tokens = append(tokens, r.DeviceToken)
	}
	return tokens, nil
}
