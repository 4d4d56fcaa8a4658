//go:generate mockgen -destination mock_sender/mock_sender.go github.com/sacavia/sacavia-push-server/sender Sender

package sender

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/anyproto/any-sync/app"
	"github.com/anyproto/any-sync/app/logger"
	"github.com/cheggaaa/mb/v3"
	"go.uber.org/zap"

	"github.com/sacavia/sacavia-push-server/domain"
	"github.com/sacavia/sacavia-push-server/metric"
	"github.com/sacavia/sacavia-push-server/queue"
	"github.com/sacavia/sacavia-push-server/repo/tokenrepo"
)

const CName = "push.sender"

var log = logger.NewNamed(CName)

var (
	ErrInvalidRequest  = errors.New("invalid push request")
	ErrNoPrimary       = errors.New("primary provider is not configured")
	ErrTopicNotAllowed = errors.New("topic delivery requires the primary provider")
)

const defaultWorkers = 10

// deactivateWait bounds how long invalid tokens are collected before a batch is written.
var deactivateWait = time.Second

func New() Sender {
	return new(sender)
}

type configSource interface {
	GetSender() Config
}

type Config struct {
	Workers int `yaml:"workers"`
}

type Sender interface {
	RegisterPrimary(p TopicProvider)
	RegisterFallback(p Provider)
	// SendPush delivers one message to one device. Only a malformed request
	// returns an error, provider failures are reported in Result.
	SendPush(ctx context.Context, target string, msg domain.Message, opts domain.SendOptions) (Result, error)
	SendToUser(ctx context.Context, userId string, msg domain.Message, opts domain.SendOptions) (UserResult, error)
	SendToTopic(ctx context.Context, topic domain.Topic, msg domain.Message, opts domain.SendOptions) (Result, error)
	Subscribe(ctx context.Context, tokens []string, topic domain.Topic) (TopicResult, error)
	Unsubscribe(ctx context.Context, tokens []string, topic domain.Topic) (TopicResult, error)
	app.ComponentRunnable
}

type Provider interface {
	Send(ctx context.Context, token string, msg domain.Message, opts domain.SendOptions) (messageId string, err error)
	IsInvalidToken(err error) bool
}

type TopicProvider interface {
	Provider
	SendTopic(ctx context.Context, topic domain.Topic, msg domain.Message, opts domain.SendOptions) (messageId string, err error)
	Subscribe(ctx context.Context, tokens []string, topic domain.Topic) (TopicResult, error)
	Unsubscribe(ctx context.Context, tokens []string, topic domain.Topic) (TopicResult, error)
}

type Attempt struct {
	Provider     domain.Provider `json:"provider"`
	Error        string          `json:"error,omitempty"`
	InvalidToken bool            `json:"invalidToken,omitempty"`
}

// Result is either Sent(Provider) or Failed(Reason).
type Result struct {
	Sent      bool            `json:"sent"`
	Provider  domain.Provider `json:"provider,omitempty"`
	MessageId string          `json:"messageId,omitempty"`
	Reason    string          `json:"reason,omitempty"`
	Attempts  []Attempt       `json:"attempts"`
}

func (r Result) invalidToken() bool {
	if r.Sent || len(r.Attempts) == 0 {
		return false
	}
	for _, a := range r.Attempts {
		if !a.InvalidToken {
			return false
		}
	}
	return true
}

type TokenResult struct {
	TokenId  string          `json:"tokenId"`
	Platform domain.Platform `json:"platform"`
	Result   Result          `json:"result"`
}

type UserResult struct {
	UserId  string        `json:"userId"`
	Sent    int           `json:"sent"`
	Failed  int           `json:"failed"`
	Results []TokenResult `json:"results"`
}

type TopicResult struct {
	SuccessCount int `json:"successCount"`
	FailureCount int `json:"failureCount"`
}

type sender struct {
	conf          Config
	tokenRepo     tokenrepo.TokenRepo
	queue         queue.Queue
	primary       TopicProvider
	fallback      Provider
	invalidTokens *mb.MB[string]
	loopDone      chan struct{}
	started       bool
	metrics       metrics
}

func (s *sender) Init(a *app.App) (err error) {
	if cs, ok := a.Component("config").(configSource); ok {
		s.conf = cs.GetSender()
	}
	if s.conf.Workers <= 0 {
		s.conf.Workers = defaultWorkers
	}
	s.tokenRepo = a.MustComponent(tokenrepo.CName).(tokenrepo.TokenRepo)
	s.queue = a.MustComponent(queue.CName).(queue.Queue)
	s.invalidTokens = mb.New[string](1000)
	s.loopDone = make(chan struct{})
	registerMetrics(a.MustComponent(metric.CName).(metric.Metric).Registry(), s)
	return
}

func (s *sender) Name() (name string) {
	return CName
}

func (s *sender) Run(ctx context.Context) (err error) {
	s.started = true
	go s.deactivateLoop()
	for range s.conf.Workers {
		if err = s.queue.Consume(ctx, s.handleMessage); err != nil {
			return
		}
	}
	log.Info("sender started",
		zap.Int("workers", s.conf.Workers),
		zap.Bool("primary", s.primary != nil),
		zap.Bool("fallback", s.fallback != nil),
	)
	return
}

func (s *sender) RegisterPrimary(p TopicProvider) {
	s.primary = p
}

func (s *sender) RegisterFallback(p Provider) {
	s.fallback = p
}

func (s *sender) SendPush(ctx context.Context, target string, msg domain.Message, opts domain.SendOptions) (res Result, err error) {
	if strings.TrimSpace(target) == "" || strings.TrimSpace(msg.Title) == "" || strings.TrimSpace(msg.Body) == "" {
		return res, ErrInvalidRequest
	}
	if opts.Platform == "" {
		opts.Platform = domain.PlatformIOS
	}
	switch opts.Platform {
	case domain.PlatformIOS, domain.PlatformAndroid, domain.PlatformWeb:
	default:
		return res, fmt.Errorf("%w: %w", ErrInvalidRequest, domain.ErrUnknownPlatform)
	}

	var primary Provider
	if s.primary != nil {
		primary = s.primary
	}
	if s.attempt(ctx, &res, domain.ProviderFCM, primary, target, msg, opts) {
		return res, nil
	}
	if opts.Platform == domain.PlatformIOS && s.fallback != nil {
		apnsTarget := target
		if opts.APNSToken != "" {
			apnsTarget = opts.APNSToken
		}
		if s.attempt(ctx, &res, domain.ProviderAPNS, s.fallback, apnsTarget, msg, opts) {
			return res, nil
		}
	}

	reasons := make([]string, 0, len(res.Attempts))
	for _, a := range res.Attempts {
		reasons = append(reasons, string(a.Provider)+": "+a.Error)
	}
	res.Reason = strings.Join(reasons, "; ")
	log.Warn("push failed",
		zap.String("platform", string(opts.Platform)),
		zap.String("reason", res.Reason),
	)
	return res, nil
}

// attempt makes a single provider call and records it in res.
func (s *sender) attempt(ctx context.Context, res *Result, name domain.Provider, p Provider, target string, msg domain.Message, opts domain.SendOptions) (ok bool) {
	if p == nil {
		res.Attempts = append(res.Attempts, Attempt{Provider: name, Error: ErrNoPrimary.Error()})
		s.metrics.observe(name, outcomeSkipped, 0)
		return false
	}
	st := time.Now()
	messageId, err := p.Send(ctx, target, msg, opts)
	dur := time.Since(st)
	if err != nil {
		invalid := p.IsInvalidToken(err)
		res.Attempts = append(res.Attempts, Attempt{Provider: name, Error: err.Error(), InvalidToken: invalid})
		outcome := outcomeFailed
		if invalid {
			outcome = outcomeInvalid
		}
		s.metrics.observe(name, outcome, dur)
		log.Info("provider attempt failed",
			zap.String("provider", string(name)),
			zap.Bool("invalidToken", invalid),
			zap.Duration("dur", dur),
			zap.Error(err),
		)
		return false
	}
	res.Attempts = append(res.Attempts, Attempt{Provider: name})
	res.Sent = true
	res.Provider = name
	res.MessageId = messageId
	s.metrics.observe(name, outcomeSent, dur)
	return true
}

func (s *sender) SendToUser(ctx context.Context, userId string, msg domain.Message, opts domain.SendOptions) (res UserResult, err error) {
	res.UserId = userId
	tokens, err := s.tokenRepo.GetActiveTokensByUserIds(ctx, []string{userId})
	if err != nil {
		return
	}
	var delivered []string
	for _, token := range tokens {
		tokenOpts := opts
		tokenOpts.Platform = token.Platform
		tokenOpts.APNSToken = token.APNSToken
		pushRes, pErr := s.SendPush(ctx, token.DeviceToken, msg, tokenOpts)
		if pErr != nil {
			return res, pErr
		}
		res.Results = append(res.Results, TokenResult{TokenId: token.Id, Platform: token.Platform, Result: pushRes})
		if pushRes.Sent {
			res.Sent++
			delivered = append(delivered, token.Id)
			continue
		}
		res.Failed++
		if pushRes.invalidToken() {
			s.onInvalid(token.Id)
		}
	}
	if len(delivered) > 0 {
		if tErr := s.tokenRepo.TouchUsed(ctx, delivered); tErr != nil {
			log.Warn("touch tokens error", zap.Error(tErr))
		}
	}
	return res, nil
}

func (s *sender) SendToTopic(ctx context.Context, topic domain.Topic, msg domain.Message, opts domain.SendOptions) (res Result, err error) {
	if topic == "" || strings.TrimSpace(msg.Title) == "" || strings.TrimSpace(msg.Body) == "" {
		return res, ErrInvalidRequest
	}
	if s.primary == nil {
		return res, ErrTopicNotAllowed
	}
	st := time.Now()
	messageId, sErr := s.primary.SendTopic(ctx, topic, msg, opts)
	if sErr != nil {
		s.metrics.observe(domain.ProviderFCM, outcomeFailed, time.Since(st))
		res.Attempts = []Attempt{{Provider: domain.ProviderFCM, Error: sErr.Error()}}
		res.Reason = string(domain.ProviderFCM) + ": " + sErr.Error()
		log.Warn("topic push failed", zap.String("topic", topic.String()), zap.Error(sErr))
		return res, nil
	}
	s.metrics.observe(domain.ProviderFCM, outcomeSent, time.Since(st))
	return Result{
		Sent:      true,
		Provider:  domain.ProviderFCM,
		MessageId: messageId,
		Attempts:  []Attempt{{Provider: domain.ProviderFCM}},
	}, nil
}

func (s *sender) Subscribe(ctx context.Context, tokens []string, topic domain.Topic) (TopicResult, error) {
	if s.primary == nil {
		return TopicResult{}, ErrTopicNotAllowed
	}
	if len(tokens) == 0 {
		return TopicResult{}, nil
	}
	return s.primary.Subscribe(ctx, tokens, topic)
}

func (s *sender) Unsubscribe(ctx context.Context, tokens []string, topic domain.Topic) (TopicResult, error) {
	if s.primary == nil {
		return TopicResult{}, ErrTopicNotAllowed
	}
	if len(tokens) == 0 {
		return TopicResult{}, nil
	}
	return s.primary.Unsubscribe(ctx, tokens, topic)
}

func (s *sender) handleMessage(msg queue.Message) (err error) {
	ctx := context.Background()
	data := make(map[string]string, len(msg.Data)+1)
	for k, v := range msg.Data {
		data[k] = v
	}
	if msg.NotificationId != "" {
		data["notificationId"] = msg.NotificationId
	}
	res, err := s.SendToUser(ctx, msg.RecipientId, domain.Message{Title: msg.Title, Body: msg.Body}, domain.SendOptions{
		Data:  data,
		Badge: msg.Badge,
		Sound: msg.Sound,
	})
	if errors.Is(err, ErrInvalidRequest) {
		log.Warn("drop invalid message", zap.String("notificationId", msg.NotificationId), zap.Error(err))
		return nil
	}
	if err != nil {
		return
	}
	log.Info("notification delivered",
		zap.String("notificationId", msg.NotificationId),
		zap.Int("sent", res.Sent),
		zap.Int("failed", res.Failed),
	)
	return nil
}

func (s *sender) onInvalid(tokenId string) {
	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()
	_ = s.invalidTokens.Add(ctx, tokenId)
}

func (s *sender) deactivateLoop() {
	defer close(s.loopDone)
	cond := s.invalidTokens.NewCond().WithMin(10).WithMax(500)
	for {
		ctx := mb.CtxWithTimeLimit(context.Background(), deactivateWait)
		ids, err := cond.Wait(ctx)
		if err != nil {
			return
		}
		if len(ids) == 0 {
			continue
		}
		st := time.Now()
		if err = s.tokenRepo.DeactivateTokens(context.Background(), ids); err != nil {
			log.Error("deactivate tokens error", zap.Error(err))
		} else {
			log.Info("deactivate tokens success", zap.Int("count", len(ids)), zap.Duration("dur", time.Since(st)))
		}
	}
}

func (s *sender) Close(ctx context.Context) (err error) {
	if err = s.invalidTokens.Close(); err != nil {
		return
	}
	if !s.started {
		return nil
	}
	select {
	case <-s.loopDone:
	case <-ctx.Done():
		return ctx.Err()
	}
	return nil
}
