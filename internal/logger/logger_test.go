package logger

import (
	"github.com/maxaizer/boss-harvester/internal/config"
	"github.com/maxaizer/boss-harvester/internal/metrics"
	"github.com/prometheus/client_golang/prometheus/testutil"
	log "github.com/sirupsen/logrus"
	"github.com/stretchr/testify/assert"
	"testing"
)

func Test_PrometheusHook_ShouldCountByErrorType(t *testing.T) {
	hook := &prometheusHook{}
	before := testutil.ToFloat64(metrics.ErrorsCounter.WithLabelValues(ErrorTypeSnapshot))

	entry := log.WithField(ErrorTypeField, ErrorTypeSnapshot)
	assert.NoError(t, hook.Fire(entry))

	after := testutil.ToFloat64(metrics.ErrorsCounter.WithLabelValues(ErrorTypeSnapshot))
	assert.Equal(t, before+1, after)
}

func Test_PrometheusHook_MissingType_ShouldCountAsUnknown(t *testing.T) {
	hook := &prometheusHook{}
	before := testutil.ToFloat64(metrics.ErrorsCounter.WithLabelValues("unknown"))

	assert.NoError(t, hook.Fire(log.NewEntry(log.StandardLogger())))

	assert.Equal(t, before+1, testutil.ToFloat64(metrics.ErrorsCounter.WithLabelValues("unknown")))
}

func Test_LevelOf(t *testing.T) {
	assert.Equal(t, log.DebugLevel, levelOf(config.LevelDebug))
	assert.Equal(t, log.WarnLevel, levelOf(config.LevelWarning))
	assert.Equal(t, log.InfoLevel, levelOf("VERBOSE"))
}
