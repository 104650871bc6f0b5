package serde

import (
	"time"

	"github.com/lk2023060901/serde-garden-go/pkg/metrics"
)

const (
	stageEncode = "encode"
	stageDecode = "decode"
)

// observe 上报一次编解码操作的耗时，配合 defer observe(..., time.Now()) 使用。
func observe(format, stage string, start time.Time) {
	ms := float64(time.Since(start).Microseconds()) / 1000.0
	switch stage {
	case stageEncode:
		metrics.EncodeDuration.WithLabelValues(format).Observe(ms)
	case stageDecode:
		metrics.DecodeDuration.WithLabelValues(format).Observe(ms)
	}
}

// recordPayload 上报编码产物或解码输入的大小。
func recordPayload(format, stage string, n int) {
	metrics.PayloadBytes.WithLabelValues(format, stage).Observe(float64(n))
}

// recordResult 上报一次操作的成败计数。
func recordResult(format, stage string, err error) {
	result := "ok"
	if err != nil {
		result = "error"
	}
	metrics.OperationTotal.WithLabelValues(format, stage, result).Inc()
}
