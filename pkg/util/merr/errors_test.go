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

package merr

import (
	"context"
	"testing"

	"github.com/cockroachdb/errors"
	"github.com/stretchr/testify/suite"
)

type ErrSuite struct {
	suite.Suite
}

func (s *ErrSuite) TestCode() {
	err := WrapErrDecodeFailed("json", errors.New("unexpected token"))
	s.ErrorIs(err, ErrDecodeFailed)
	s.Equal(Code(ErrDecodeFailed), Code(err))
	s.Equal(TimeoutCode, Code(context.DeadlineExceeded))
	s.Equal(CanceledCode, Code(context.Canceled))
	s.Equal(errUnexpected.errCode, Code(errUnexpected))

	sameCodeErr := newSerdeError("new error", ErrDecodeFailed.errCode, false)
	s.True(sameCodeErr.Is(ErrDecodeFailed))
}

func (s *ErrSuite) TestRetryable() {
	// 结构性错误不可重试，IO 错误可重试，未知错误默认可重试。
	s.False(IsRetryableErr(WrapErrDecodeFailed("csv", errors.New("bad quote"))))
	s.False(IsRetryableErr(WrapErrParameterTooLarge(200, 100)))
	s.True(IsRetryableErr(WrapErrIoFailed("/tmp/out.csv", errors.New("connection reset"))))
	s.True(IsRetryableErr(errors.New("flaky downstream")))
	s.False(IsRetryableErr(context.Canceled))

	s.True(IsCanceledOrTimeout(context.Canceled))
	s.True(IsCanceledOrTimeout(context.DeadlineExceeded))
	s.False(IsCanceledOrTimeout(ErrIoFailed))
}

func (s *ErrSuite) TestWrap() {
	// Parameter 相关错误。
	s.ErrorIs(WrapErrParameterInvalid("slice", "map", "check input"), ErrParameterInvalid)
	s.ErrorIs(WrapErrParameterInvalidMsg("unexpected kind %s", "chan"), ErrParameterInvalid)
	s.ErrorIs(WrapErrParameterMissing("input", "validate"), ErrParameterMissing)
	s.ErrorIs(WrapErrParameterTooLarge(1024, 512), ErrParameterTooLarge)

	// Encode 相关错误。
	s.ErrorIs(WrapErrEncodeFailed("json", errors.New("cyclic"), "serialize"), ErrEncodeFailed)
	s.ErrorIs(WrapErrDepthExceeded(33, 32), ErrDepthExceeded)
	s.ErrorIs(WrapErrTypeUnsupported("chan int"), ErrTypeUnsupported)
	s.ErrorIs(WrapErrElementUnknown("empty collection"), ErrElementUnknown)

	// Decode 相关错误。
	s.ErrorIs(WrapErrDecodeFailed("xml", errors.New("tag mismatch")), ErrDecodeFailed)
	s.ErrorIs(WrapErrFieldConvert("Age", "abc", "int", errors.New("syntax")), ErrFieldConvert)
	s.ErrorIs(WrapErrFieldCount(4, 3), ErrFieldCount)
	s.ErrorIs(WrapErrHeaderUnknown("Unknown"), ErrHeaderUnknown)

	// Envelope 相关错误。
	s.ErrorIs(WrapErrCompressFailed(errors.New("short write")), ErrCompressFailed)
	s.ErrorIs(WrapErrDecompressFailed(errors.New("invalid header")), ErrDecompressFailed)

	// IO 与权限相关错误。
	s.ErrorIs(WrapErrIoFailed("out.json", errors.New("disk full")), ErrIoFailed)
	s.ErrorIs(WrapErrPrivilegeNotPermitted("write"), ErrPrivilegeNotPermitted)
	s.NoError(WrapErrIoFailed("out.json", nil))
}

func (s *ErrSuite) TestCombine() {
	var (
		errFirst  = errors.New("first")
		errSecond = errors.New("second")
		errThird  = errors.New("third")
	)

	err := Combine(errFirst, errSecond)
	s.True(errors.Is(err, errFirst))
	s.True(errors.Is(err, errSecond))
	s.Equal("first: second", err.Error())

	err = Combine(nil, errFirst)
	s.True(errors.Is(err, errFirst))

	err = Combine(errFirst, errSecond, errThird)
	s.True(errors.Is(err, errThird))

	s.NoError(Combine(nil, nil))
}

func (s *ErrSuite) TestErrorType() {
	err := WrapErrAsInputError(ErrParameterInvalid)
	s.Equal(InputError, GetErrorType(err))
	s.Equal("input_error", GetErrorType(err).String())
	s.Equal(SystemError, GetErrorType(errors.New("other")))
}

func TestErrors(t *testing.T) {
	suite.Run(t, new(ErrSuite))
}
