package funcutil

import (
	"context"
)

// CheckCtxValid 检查 ctx 是否仍然有效（未取消、未超时）。
func CheckCtxValid(ctx context.Context) bool {
	return ctx != nil && ctx.Err() == nil
}
