package metric

import (
	"context"
	"testing"
	"time"

	"github.com/anyproto/any-sync/app"
	"github.com/prometheus/client_golang/prometheus/testutil"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
)

var ctx = context.Background()

func TestMetric_RequestLog(t *testing.T) {
	a := new(app.App)
	m := New()
	a.Register(m)
	require.NoError(t, a.Start(ctx))
	t.Cleanup(func() {
		require.NoError(t, a.Close(ctx))
	})

	m.RequestLog(ctx, "push.test", TotalDur(time.Millisecond*15), zap.String("addr", "127.0.0.1"))
	m.RequestLog(ctx, "push.test", zap.Error(nil))

	mm := m.(*metric)
	assert.Equal(t, 1, testutil.CollectAndCount(mm.requests))
	families, err := m.Registry().Gather()
	require.NoError(t, err)
	var found bool
	for _, f := range families {
		if f.GetName() == "push_http_request_duration_seconds" {
			found = true
			require.Len(t, f.GetMetric(), 1)
			assert.Equal(t, uint64(1), f.GetMetric()[0].GetSummary().GetSampleCount())
		}
	}
	assert.True(t, found)
}
