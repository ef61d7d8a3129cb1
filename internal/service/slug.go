package service

import (
	"context"
	"fmt"

	"github.com/google/uuid"
)

// slugExistsFn 查询 slug 是否已被占用（排除自身）
type slugExistsFn func(ctx context.Context, slug string, excludeID int64) (bool, error)

// disambiguateSlug 保证 slug 唯一：冲突时追加 -2/-3…序号
// 同名创建绝不静默覆盖旧记录
func disambiguateSlug(ctx context.Context, base string, excludeID int64, exists slugExistsFn) (string, error) {
	if base == "" {
		base = uuid.New().String()[:8]
	}

	candidate := base
	for i := 2; ; i++ {
		taken, err := exists(ctx, candidate, excludeID)
		if err != nil {
			return "", err
		}
		if !taken {
			return candidate, nil
		}
		if i > 50 {
			// 极端情况兜底，避免死循环
			return fmt.Sprintf("%s-%s", base, uuid.New().String()[:8]), nil
		}
		candidate = fmt.Sprintf("%s-%d", base, i)
	}
}
