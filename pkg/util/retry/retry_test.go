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
	"context"
	"testing"
	"time"

	"github.com/cockroachdb/errors"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/lk2023060901/serde-garden-go/pkg/util/merr"
)

func TestDoRetrySucceedAfterFailures(t *testing.T) {
	ctx := context.Background()

	attempts := 0
	fn := func() error {
		attempts++
		if attempts <= 2 {
			return errors.New("transient failure")
		}
		return nil
	}

	unit := 20 * time.Millisecond
	start := time.Now()
	err := Do(ctx, fn, MaxRetries(3), Delay(unit))
	elapsed := time.Since(start)

	require.NoError(t, err)
	assert.Equal(t, 3, attempts)
	// 线性退避：两次重试前分别等待 1*unit 和 2*unit。
	assert.GreaterOrEqual(t, elapsed, 3*unit)
	assert.Less(t, elapsed, 20*unit)
}

func TestDoAllFailed(t *testing.T) {
	ctx := context.Background()

	attempts := 0
	mockErr := errors.New("always fail")
	err := Do(ctx, func() error {
		attempts++
		return mockErr
	}, MaxRetries(2), Delay(time.Millisecond))

	assert.ErrorIs(t, err, mockErr)
	// 首次尝试 + 2 次重试。
	assert.Equal(t, 3, attempts)
}

func TestDoZeroRetriesMeansSingleAttempt(t *testing.T) {
	ctx := context.Background()

	attempts := 0
	err := Do(ctx, func() error {
		attempts++
		return errors.New("fail")
	}, MaxRetries(0), Delay(time.Millisecond))

	assert.Error(t, err)
	assert.Equal(t, 1, attempts)
}

func TestDoTerminalErrorNoRetry(t *testing.T) {
	ctx := context.Background()

	attempts := 0
	err := Do(ctx, func() error {
		attempts++
		return merr.WrapErrParameterInvalidMsg("bad input")
	}, MaxRetries(3), Delay(time.Millisecond))

	assert.ErrorIs(t, err, merr.ErrParameterInvalid)
	assert.Equal(t, 1, attempts)
}

func TestDoUnrecoverable(t *testing.T) {
	ctx := context.Background()

	attempts := 0
	err := Do(ctx, func() error {
		attempts++
		return Unrecoverable(errors.New("broken invariant"))
	}, MaxRetries(3), Delay(time.Millisecond))

	assert.Error(t, err)
	assert.Equal(t, 1, attempts)
	assert.False(t, IsRecoverable(err))
}

func TestDoCanceledDuringWait(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())

	attempts := 0
	go func() {
		time.Sleep(30 * time.Millisecond)
		cancel()
	}()

	err := Do(ctx, func() error {
		attempts++
		return errors.New("transient failure")
	}, MaxRetries(5), Delay(time.Second))

	assert.True(t, merr.IsCanceledOrTimeout(err))
	assert.Equal(t, 1, attempts)
}

func TestDoContextAlreadyDone(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	err := Do(ctx, func() error {
		t.Fatal("fn should not run")
		return nil
	})
	assert.ErrorIs(t, err, context.Canceled)
}

func TestDoRetryErrOption(t *testing.T) {
	ctx := context.Background()

	attempts := 0
	mockErr := errors.New("do not retry me")
	err := Do(ctx, func() error {
		attempts++
		return mockErr
	}, MaxRetries(3), Delay(time.Millisecond), RetryErr(func(err error) bool {
		return !errors.Is(err, mockErr)
	}))

	assert.ErrorIs(t, err, mockErr)
	assert.Equal(t, 1, attempts)
}
