// Copyright (C) 2019-2020 Zilliz. All rights reserved.
//
// Licensed under the Apache License, Version 2.0 (the "License"); you may not use this file except in compliance
// with the License. You may obtain a copy of the License at
//
// http://www.apache.org/licenses/LICENSE-2.0
//
// Unless required by applicable law or agreed to in writing, software distributed under the License
// is distributed on an "AS IS" BASIS, WITHOUT WARRANTIES OR CONDITIONS OF ANY KIND, either express
// or implied. See the License for the specific language governing permissions and limitations under the License.

package retry

import (
	"time"
)

// config 控制重试行为。
//
// 退避策略为线性增长：第 n 次失败后等待 n*delay，封顶 maxDelay。
type config struct {
	maxRetries uint
	delay      time.Duration
	maxDelay   time.Duration
	isRetryErr func(err error) bool
}

func newDefaultConfig() *config {
	return &config{
		maxRetries: 3,
		delay:      time.Second,
		maxDelay:   30 * time.Second,
	}
}

// Option 用于配置重试参数。
type Option func(*config)

// MaxRetries 设置首次尝试失败后的最大重试次数。
// 0 表示只尝试一次、不重试。
func MaxRetries(n uint) Option {
	return func(c *config) {
		c.maxRetries = n
	}
}

// Delay 设置线性退避的时间单位。
// 第 n 次重试前的等待时间为 n*d。
func Delay(d time.Duration) Option {
	return func(c *config) {
		c.delay = d
	}
}

// MaxDelay 设置单次等待时间的上限。
func MaxDelay(d time.Duration) Option {
	return func(c *config) {
		c.maxDelay = d
	}
}

// RetryErr 设置额外的重试判定函数。
// 返回 false 时即使错误本身可重试也会立即放弃。
func RetryErr(fn func(err error) bool) Option {
	return func(c *config) {
		c.isRetryErr = fn
	}
}
