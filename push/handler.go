package push

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"strconv"
	"time"

	"github.com/gorilla/mux"
	"go.uber.org/zap"

	"github.com/sacavia/sacavia-push-server/auth"
	"github.com/sacavia/sacavia-push-server/domain"
	"github.com/sacavia/sacavia-push-server/httpserver"
	"github.com/sacavia/sacavia-push-server/metric"
	"github.com/sacavia/sacavia-push-server/repo/notificationrepo"
	"github.com/sacavia/sacavia-push-server/repo/tokenrepo"
	"github.com/sacavia/sacavia-push-server/sender"
)

type handler struct {
	p    *push
	auth auth.Auth
}

func (h *handler) register(r *mux.Router) {
	user := func(f http.HandlerFunc) http.Handler {
		return h.auth.Middleware(f)
	}
	admin := func(f http.HandlerFunc) http.Handler {
		return h.auth.Middleware(h.auth.RequireAdmin(f))
	}
	r.Handle("/api/push/register-device", user(h.RegisterDevice)).Methods(http.MethodPost)
	r.Handle("/api/push/register-device", user(h.UnregisterDevice)).Methods(http.MethodDelete)
	r.Handle("/api/push/topics/{topic}", user(h.SubscribeTopic)).Methods(http.MethodPost)
	r.Handle("/api/push/topics/{topic}", user(h.UnsubscribeTopic)).Methods(http.MethodDelete)
	r.Handle("/api/push/send", admin(h.Send)).Methods(http.MethodPost)
	r.Handle("/api/push/test", admin(h.SendTest)).Methods(http.MethodPost)
	r.Handle("/api/notifications", user(h.List)).Methods(http.MethodGet)
	r.Handle("/api/notifications", admin(h.Create)).Methods(http.MethodPost)
	r.Handle("/api/notifications/unread-count", user(h.UnreadCount)).Methods(http.MethodGet)
	r.Handle("/api/notifications/mark-all-read", user(h.MarkAllRead)).Methods(http.MethodPost)
	r.Handle("/api/notifications/{id}/read", user(h.MarkRead)).Methods(http.MethodPatch)
}

func (h *handler) RegisterDevice(w http.ResponseWriter, r *http.Request) {
	var (
		ctx     = r.Context()
		u, _    = auth.CtxUser(ctx)
		st      = time.Now()
		created bool
		err     error
	)
	defer func() {
		h.p.metric.RequestLog(ctx, "push.registerDevice",
			metric.TotalDur(time.Since(st)),
			httpserver.RequestIdField(ctx),
			zap.String("userId", u.Id),
			zap.Bool("created", created),
			zap.Error(err),
		)
	}()
	var req RegisterTokenRequest
	if err = httpserver.DecodeJSON(r, &req); err != nil {
		writeError(w, err)
		return
	}
	token, created, err := h.p.RegisterToken(ctx, u.Id, req)
	if err != nil {
		writeError(w, err)
		return
	}
	status := http.StatusOK
	if created {
		status = http.StatusCreated
	}
	httpserver.WriteData(w, status, map[string]any{
		"token":   token,
		"created": created,
	})
}

func (h *handler) UnregisterDevice(w http.ResponseWriter, r *http.Request) {
	var (
		ctx  = r.Context()
		u, _ = auth.CtxUser(ctx)
		st   = time.Now()
		err  error
	)
	defer func() {
		h.p.metric.RequestLog(ctx, "push.unregisterDevice",
			metric.TotalDur(time.Since(st)),
			httpserver.RequestIdField(ctx),
			zap.String("userId", u.Id),
			zap.Error(err),
		)
	}()
	var req UnregisterTokenRequest
	if err = httpserver.DecodeJSON(r, &req); err != nil {
		writeError(w, err)
		return
	}
	if err = h.p.UnregisterToken(ctx, u.Id, req); err != nil {
		writeError(w, err)
		return
	}
	httpserver.WriteData(w, http.StatusOK, map[string]bool{"unregistered": true})
}

func (h *handler) SubscribeTopic(w http.ResponseWriter, r *http.Request) {
	h.manageTopic(w, r, "push.subscribeTopic", h.p.SubscribeTopic)
}

func (h *handler) UnsubscribeTopic(w http.ResponseWriter, r *http.Request) {
	h.manageTopic(w, r, "push.unsubscribeTopic", h.p.UnsubscribeTopic)
}

func (h *handler) manageTopic(w http.ResponseWriter, r *http.Request, op string, call func(ctx context.Context, userId string, topic domain.Topic) (sender.TopicResult, error)) {
	var (
		ctx  = r.Context()
		u, _ = auth.CtxUser(ctx)
		st   = time.Now()
		err  error
	)
	defer func() {
		h.p.metric.RequestLog(ctx, op,
			metric.TotalDur(time.Since(st)),
			httpserver.RequestIdField(ctx),
			zap.String("userId", u.Id),
			zap.Error(err),
		)
	}()
	topic, err := domain.NewTopic(mux.Vars(r)["topic"])
	if err != nil {
		writeError(w, err)
		return
	}
	res, err := call(ctx, u.Id, topic)
	if err != nil {
		writeError(w, err)
		return
	}
	httpserver.WriteData(w, http.StatusOK, res)
}

func (h *handler) Send(w http.ResponseWriter, r *http.Request) {
	var (
		ctx = r.Context()
		st  = time.Now()
		err error
	)
	defer func() {
		h.p.metric.RequestLog(ctx, "push.send",
			metric.TotalDur(time.Since(st)),
			httpserver.RequestIdField(ctx),
			zap.Error(err),
		)
	}()
	var req SendRequest
	if err = httpserver.DecodeJSON(r, &req); err != nil {
		writeError(w, err)
		return
	}
	resp, err := h.p.Send(ctx, req)
	if err != nil {
		writeError(w, err)
		return
	}
	httpserver.WriteData(w, http.StatusOK, resp)
}

func (h *handler) SendTest(w http.ResponseWriter, r *http.Request) {
	var (
		ctx = r.Context()
		st  = time.Now()
		res sender.Result
		err error
	)
	defer func() {
		h.p.metric.RequestLog(ctx, "push.sendTest",
			metric.TotalDur(time.Since(st)),
			httpserver.RequestIdField(ctx),
			zap.Bool("sent", res.Sent),
			zap.String("provider", string(res.Provider)),
			zap.Error(err),
		)
	}()
	var req TestRequest
	if err = httpserver.DecodeJSON(r, &req); err != nil {
		writeError(w, err)
		return
	}
	if res, err = h.p.SendTest(ctx, req); err != nil {
		writeError(w, err)
		return
	}
	httpserver.WriteData(w, http.StatusOK, res)
}

func (h *handler) Create(w http.ResponseWriter, r *http.Request) {
	var (
		ctx = r.Context()
		st  = time.Now()
		err error
	)
	defer func() {
		h.p.metric.RequestLog(ctx, "notifications.create",
			metric.TotalDur(time.Since(st)),
			httpserver.RequestIdField(ctx),
			zap.Error(err),
		)
	}()
	var req NotifyRequest
	if err = httpserver.DecodeJSON(r, &req); err != nil {
		writeError(w, err)
		return
	}
	n, err := h.p.Notify(ctx, req)
	if err != nil {
		writeError(w, err)
		return
	}
	httpserver.WriteData(w, http.StatusCreated, n)
}

func (h *handler) List(w http.ResponseWriter, r *http.Request) {
	var (
		ctx  = r.Context()
		u, _ = auth.CtxUser(ctx)
		st   = time.Now()
		err  error
	)
	defer func() {
		h.p.metric.RequestLog(ctx, "notifications.list",
			metric.TotalDur(time.Since(st)),
			httpserver.RequestIdField(ctx),
			zap.String("userId", u.Id),
			zap.Error(err),
		)
	}()
	filter, err := parseFilter(r)
	if err != nil {
		writeError(w, err)
		return
	}
	resp, err := h.p.List(ctx, u.Id, filter)
	if err != nil {
		writeError(w, err)
		return
	}
	httpserver.WriteData(w, http.StatusOK, resp)
}

func (h *handler) UnreadCount(w http.ResponseWriter, r *http.Request) {
	var (
		ctx  = r.Context()
		u, _ = auth.CtxUser(ctx)
		st   = time.Now()
		err  error
	)
	defer func() {
		h.p.metric.RequestLog(ctx, "notifications.unreadCount",
			metric.TotalDur(time.Since(st)),
			httpserver.RequestIdField(ctx),
			zap.String("userId", u.Id),
			zap.Error(err),
		)
	}()
	count, err := h.p.UnreadCount(ctx, u.Id)
	if err != nil {
		writeError(w, err)
		return
	}
	httpserver.WriteData(w, http.StatusOK, map[string]int64{"count": count})
}

func (h *handler) MarkRead(w http.ResponseWriter, r *http.Request) {
	var (
		ctx  = r.Context()
		u, _ = auth.CtxUser(ctx)
		id   = mux.Vars(r)["id"]
		st   = time.Now()
		err  error
	)
	defer func() {
		h.p.metric.RequestLog(ctx, "notifications.markRead",
			metric.TotalDur(time.Since(st)),
			httpserver.RequestIdField(ctx),
			zap.String("userId", u.Id),
			zap.String("id", id),
			zap.Error(err),
		)
	}()
	if err = h.p.MarkRead(ctx, u.Id, id); err != nil {
		writeError(w, err)
		return
	}
	httpserver.WriteData(w, http.StatusOK, map[string]any{"id": id, "read": true})
}

func (h *handler) MarkAllRead(w http.ResponseWriter, r *http.Request) {
	var (
		ctx  = r.Context()
		u, _ = auth.CtxUser(ctx)
		st   = time.Now()
		err  error
	)
	defer func() {
		h.p.metric.RequestLog(ctx, "notifications.markAllRead",
			metric.TotalDur(time.Since(st)),
			httpserver.RequestIdField(ctx),
			zap.String("userId", u.Id),
			zap.Error(err),
		)
	}()
	count, err := h.p.MarkAllRead(ctx, u.Id)
	if err != nil {
		writeError(w, err)
		return
	}
	httpserver.WriteData(w, http.StatusOK, map[string]int64{"updated": count})
}

func parseFilter(r *http.Request) (f notificationrepo.Filter, err error) {
	q := r.URL.Query()
	if s := q.Get("unread"); s != "" {
		if f.UnreadOnly, err = strconv.ParseBool(s); err != nil {
			return f, fmt.Errorf("%w: unread must be a boolean", httpserver.ErrBadRequest)
		}
	}
	if s := q.Get("limit"); s != "" {
		if f.Limit, err = strconv.Atoi(s); err != nil || f.Limit <= 0 {
			return f, fmt.Errorf("%w: limit must be a positive integer", httpserver.ErrBadRequest)
		}
	}
	page := 1
	if s := q.Get("page"); s != "" {
		if page, err = strconv.Atoi(s); err != nil || page <= 0 {
			return f, fmt.Errorf("%w: page must be a positive integer", httpserver.ErrBadRequest)
		}
	}
	limit := f.Limit
	if limit == 0 {
		limit = notificationrepo.DefaultLimit
	}
	limit = min(limit, notificationrepo.MaxLimit)
	f.Skip = (page - 1) * limit
	return f, nil
}

func writeError(w http.ResponseWriter, err error) {
	switch {
	case errors.Is(err, httpserver.ErrBadRequest),
		errors.Is(err, sender.ErrInvalidRequest),
		errors.Is(err, domain.ErrUnknownPlatform),
		errors.Is(err, domain.ErrInvalidTopic),
		errors.Is(err, ErrInvalidNotification),
		errors.Is(err, ErrInvalidTarget):
		httpserver.WriteError(w, http.StatusBadRequest, err)
	case errors.Is(err, notificationrepo.ErrNotFound),
		errors.Is(err, tokenrepo.ErrTokenNotFound):
		httpserver.WriteError(w, http.StatusNotFound, err)
	case errors.Is(err, sender.ErrTopicNotAllowed):
		httpserver.WriteError(w, http.StatusServiceUnavailable, err)
	default:
		httpserver.WriteError(w, http.StatusInternalServerError, err)
	}
}
