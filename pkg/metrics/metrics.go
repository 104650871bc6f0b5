// Licensed to the LF AI & Data foundation under one
// or more contributor license agreements. See the NOTICE file
// distributed with this work for additional information
// regarding copyright ownership. The ASF licenses this file
// to you under the Apache License, Version 2.0 (the
// "License"); you may not use this file except in compliance
// with the License. You may obtain a copy of the License at
//
//     http://www.apache.org/licenses/LICENSE-2.0
//
// Unless required by applicable law or agreed to in writing, software
// distributed under the License is distributed on an "AS IS" BASIS,
// WITHOUT WARRANTIES OR CONDITIONS OF ANY KIND, either express or implied.
// See the License for the specific language governing permissions and
// limitations under the License.

package metrics

import (
	"github.com/prometheus/client_golang/prometheus"
)

const (
	// serdeNamespace 是当前项目所有 Prometheus 指标使用的命名空间。
	serdeNamespace = "serde"

	// 以下为当前使用的通用标签名。
	formatLabelName = "format"
	stageLabelName  = "stage"
	resultLabelName = "result"
)

var (
	// durationBuckets 为编解码耗时直方图的桶划分，单位为毫秒。
	durationBuckets = prometheus.ExponentialBuckets(0.1, 2, 16)

	// sizeBuckets 为载荷大小的桶划分，单位为字节。
	sizeBuckets = []float64{64, 512, 4096, 65536, 1048576, 10485760, 104857600}

	EncodeDuration = prometheus.NewHistogramVec(
		prometheus.HistogramOpts{
			Namespace: serdeNamespace,
			Name:      "encode_duration_ms",
			Help:      "time cost of encode operations in milliseconds",
			Buckets:   durationBuckets,
		}, []string{formatLabelName})

	DecodeDuration = prometheus.NewHistogramVec(
		prometheus.HistogramOpts{
			Namespace: serdeNamespace,
			Name:      "decode_duration_ms",
			Help:      "time cost of decode operations in milliseconds",
			Buckets:   durationBuckets,
		}, []string{formatLabelName})

	PayloadBytes = prometheus.NewHistogramVec(
		prometheus.HistogramOpts{
			Namespace: serdeNamespace,
			Name:      "payload_bytes",
			Help:      "size of encoded payloads in bytes",
			Buckets:   sizeBuckets,
		}, []string{formatLabelName, stageLabelName})

	OperationTotal = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Namespace: serdeNamespace,
			Name:      "operation_total",
			Help:      "number of encode/decode operations by result",
		}, []string{formatLabelName, stageLabelName, resultLabelName})

	metricRegisterer prometheus.Registerer
)

// GetRegisterer 返回全局 Prometheus Registerer。
// 如果尚未通过 Register 显式设置，则返回 prometheus.DefaultRegisterer。
func GetRegisterer() prometheus.Registerer {
	if metricRegisterer == nil {
		return prometheus.DefaultRegisterer
	}
	return metricRegisterer
}

// Register 注册当前定义的所有指标。
// 通常应在 init 函数中调用。
func Register(r prometheus.Registerer) {
	r.MustRegister(EncodeDuration)
	r.MustRegister(DecodeDuration)
	r.MustRegister(PayloadBytes)
	r.MustRegister(OperationTotal)
	metricRegisterer = r
}
