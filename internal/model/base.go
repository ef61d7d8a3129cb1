package model

import (
	"time"
)

// BaseModel 通用主键与时间戳
type BaseModel struct {
	ID        int64     `gorm:"primaryKey;autoIncrement" json:"id"`
	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`
}

// AuditFields 审计字段 (只记录，不参与权限判断)
// 由 middleware.RegisterAuditCallbacks 在写入时自动填充
type AuditFields struct {
	CreatedBy int64 `gorm:"index" json:"created_by"` // 创建人的 UserID
	UpdatedBy int64 `gorm:"index" json:"updated_by"` // 最后修改人的 UserID
}
