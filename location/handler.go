package location

import (
	"errors"
	"fmt"
	"net/http"
	"net/url"
	"strconv"
	"time"

	"github.com/gorilla/mux"
	"go.uber.org/zap"

	"github.com/sacavia/sacavia-push-server/geo"
	"github.com/sacavia/sacavia-push-server/httpserver"
	"github.com/sacavia/sacavia-push-server/metric"
)

type handler struct {
	l *location
}

func (h *handler) register(r *mux.Router) {
	r.HandleFunc("/api/locations/nearby", h.Nearby).Methods(http.MethodGet)
}

func (h *handler) Nearby(w http.ResponseWriter, r *http.Request) {
	var (
		ctx = r.Context()
		st  = time.Now()
		err error
	)
	defer func() {
		h.l.metric.RequestLog(ctx, "location.nearby",
			metric.TotalDur(time.Since(st)),
			httpserver.RequestIdField(ctx),
			zap.Error(err),
		)
	}()
	q, err := parseQuery(r.URL.Query())
	if err != nil {
		httpserver.WriteError(w, http.StatusBadRequest, err)
		return
	}
	resp, err := h.l.Nearby(ctx, q)
	if err != nil {
		if errors.Is(err, geo.ErrInvalidPoint) || errors.Is(err, geo.ErrInvalidRadius) {
			httpserver.WriteError(w, http.StatusBadRequest, err)
		} else {
			httpserver.WriteError(w, http.StatusInternalServerError, err)
		}
		return
	}
	httpserver.WriteData(w, http.StatusOK, resp)
}

func parseQuery(v url.Values) (q Query, err error) {
	if v.Get("lat") == "" || v.Get("lng") == "" {
		return q, fmt.Errorf("%w: lat and lng are required", httpserver.ErrBadRequest)
	}
	if q.Center.Lat, err = parseFloat(v, "lat"); err != nil {
		return
	}
	if q.Center.Lng, err = parseFloat(v, "lng"); err != nil {
		return
	}
	if v.Get("radius") != "" {
		if q.Radius, err = parseFloat(v, "radius"); err != nil {
			return
		}
		if q.Radius <= 0 {
			return q, geo.ErrInvalidRadius
		}
	}
	if s := v.Get("limit"); s != "" {
		if q.Limit, err = strconv.Atoi(s); err != nil || q.Limit <= 0 {
			return q, fmt.Errorf("%w: limit must be a positive integer", httpserver.ErrBadRequest)
		}
	}
	if q.Unit, err = geo.ParseUnit(v.Get("unit")); err != nil {
		return
	}
	return q, nil
}

func parseFloat(v url.Values, key string) (float64, error) {
	f, err := strconv.ParseFloat(v.Get(key), 64)
	if err != nil {
		return 0, fmt.Errorf("%w: %s must be a number", httpserver.ErrBadRequest, key)
	}
	return f, nil
}
