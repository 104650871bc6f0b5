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
	"fmt"
	"strings"

	"github.com/cockroachdb/errors"
)

// Code 返回给定错误对应的错误码。
func Code(err error) int32 {
	if err == nil {
		return 0
	}

	cause := errors.Cause(err)
	switch specificErr := cause.(type) {
	case serdeError:
		return specificErr.code()

	default:
		if errors.Is(specificErr, context.Canceled) {
			return CanceledCode
		} else if errors.Is(specificErr, context.DeadlineExceeded) {
			return TimeoutCode
		} else {
			return errUnexpected.code()
		}
	}
}

// IsRetryableErr 判断给定错误是否为可重试错误。
//
// 判定顺序：上下文取消/超时不重试；错误链中出现已知叶子错误时
// 按叶子的 retriable 标记归类；完全未知的错误默认按可重试处理，
// 交给重试层兜底。
func IsRetryableErr(err error) bool {
	if err == nil {
		return false
	}
	if IsCanceledOrTimeout(err) {
		return false
	}

	cause := errors.Cause(err)
	if serr, ok := cause.(serdeError); ok {
		return serr.retriable
	}
	for _, leaf := range leafErrors {
		if errors.Is(err, leaf) {
			return leaf.retriable
		}
	}

	return true
}

func IsCanceledOrTimeout(err error) bool {
	return errors.IsAny(err, context.Canceled, context.DeadlineExceeded)
}

func WrapErrAsInputError(err error) error {
	if serr, ok := err.(serdeError); ok {
		WithErrorType(InputError)(&serr)
		return serr
	}
	return err
}

func GetErrorType(err error) ErrorType {
	if serr, ok := err.(serdeError); ok {
		return serr.errType
	}

	return SystemError
}

type errorField interface {
	String() string
}

type valueField struct {
	name  string
	value any
}

func value(name string, value any) valueField {
	return valueField{
		name,
		value,
	}
}

func (f valueField) String() string {
	return fmt.Sprintf("%s=%v", f.name, f.value)
}

func wrapFields(err serdeError, fields ...errorField) error {
	for i := range fields {
		err.msg += fmt.Sprintf("[%s]", fields[i].String())
	}
	err.detail = err.msg
	return err
}

func wrapFieldsWithDesc(err serdeError, desc string, fields ...errorField) error {
	for i := range fields {
		err.msg += fmt.Sprintf("[%s]", fields[i].String())
	}
	err.msg += ": " + desc
	err.detail = err.msg
	return err
}

// Parameter 相关错误封装。
func WrapErrParameterInvalid[T any](expected, actual T, msg ...string) error {
	err := wrapFields(ErrParameterInvalid,
		value("expected", expected),
		value("actual", actual),
	)
	if len(msg) > 0 {
		err = errors.Wrap(err, strings.Join(msg, "->"))
	}
	return err
}

func WrapErrParameterInvalidMsg(fmtStr string, args ...any) error {
	return wrapFieldsWithDesc(ErrParameterInvalid, fmt.Sprintf(fmtStr, args...))
}

func WrapErrParameterMissing(param string, msg ...string) error {
	err := wrapFields(ErrParameterMissing, value("missing", param))
	if len(msg) > 0 {
		err = errors.Wrap(err, strings.Join(msg, "->"))
	}
	return err
}

func WrapErrParameterTooLarge(size, limit int64, msg ...string) error {
	err := wrapFields(ErrParameterTooLarge,
		value("size", size),
		value("limit", limit),
	)
	if len(msg) > 0 {
		err = errors.Wrap(err, strings.Join(msg, "->"))
	}
	return err
}

// Encode 相关错误封装。
func WrapErrEncodeFailed(format string, cause error, msg ...string) error {
	err := Combine(wrapFields(ErrEncodeFailed, value("format", format)), cause)
	if len(msg) > 0 {
		err = errors.Wrap(err, strings.Join(msg, "->"))
	}
	return err
}

func WrapErrDepthExceeded(depth, limit int, msg ...string) error {
	err := wrapFields(ErrDepthExceeded,
		value("depth", depth),
		value("limit", limit),
	)
	if len(msg) > 0 {
		err = errors.Wrap(err, strings.Join(msg, "->"))
	}
	return err
}

func WrapErrTypeUnsupported(typeName string, msg ...string) error {
	err := wrapFields(ErrTypeUnsupported, value("type", typeName))
	if len(msg) > 0 {
		err = errors.Wrap(err, strings.Join(msg, "->"))
	}
	return err
}

func WrapErrElementUnknown(reason string) error {
	return wrapFieldsWithDesc(ErrElementUnknown, reason)
}

// Decode 相关错误封装。
func WrapErrDecodeFailed(format string, cause error, msg ...string) error {
	err := Combine(wrapFields(ErrDecodeFailed, value("format", format)), cause)
	if len(msg) > 0 {
		err = errors.Wrap(err, strings.Join(msg, "->"))
	}
	return err
}

func WrapErrFieldConvert(field, raw, target string, cause error) error {
	return Combine(wrapFields(ErrFieldConvert,
		value("field", field),
		value("raw", raw),
		value("target", target),
	), cause)
}

func WrapErrFieldCount(expected, actual int, msg ...string) error {
	err := wrapFields(ErrFieldCount,
		value("expected", expected),
		value("actual", actual),
	)
	if len(msg) > 0 {
		err = errors.Wrap(err, strings.Join(msg, "->"))
	}
	return err
}

func WrapErrHeaderUnknown(column string, msg ...string) error {
	err := wrapFields(ErrHeaderUnknown, value("column", column))
	if len(msg) > 0 {
		err = errors.Wrap(err, strings.Join(msg, "->"))
	}
	return err
}

// Envelope 相关错误封装。
func WrapErrCompressFailed(cause error, msg ...string) error {
	err := Combine(ErrCompressFailed, cause)
	if len(msg) > 0 {
		err = errors.Wrap(err, strings.Join(msg, "->"))
	}
	return err
}

func WrapErrDecompressFailed(cause error, msg ...string) error {
	err := Combine(ErrDecompressFailed, cause)
	if len(msg) > 0 {
		err = errors.Wrap(err, strings.Join(msg, "->"))
	}
	return err
}

// IO 相关错误封装。
func WrapErrIoFailed(key string, err error) error {
	if err == nil {
		return nil
	}
	return wrapFieldsWithDesc(ErrIoFailed, err.Error(), value("key", key))
}

func WrapErrPrivilegeNotPermitted(op string, msg ...string) error {
	err := wrapFields(ErrPrivilegeNotPermitted, value("operation", op))
	if len(msg) > 0 {
		err = errors.Wrap(err, strings.Join(msg, "->"))
	}
	return err
}
