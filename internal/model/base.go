package model

import (
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

var ErrInvalidUUID = errors.New("invalid uuid")

// BaseModel 自增主键，用户、档案、目标、成就共用
type BaseModel struct {
	ID        uint           `gorm:"primaryKey;autoIncrement" json:"id"`
	CreatedAt time.Time      `json:"createdAt"`
	UpdatedAt time.Time      `json:"updatedAt"`
	DeletedAt gorm.DeletedAt `gorm:"index" json:"-"`
}

// UUIDBase 学习路径主键。ID 同时用作导出文件名，只接受规范的小写 UUID 文本。
type UUIDBase struct {
	ID        string         `gorm:"primaryKey;type:varchar(36)" json:"id"`
	CreatedAt time.Time      `json:"createdAt"`
	UpdatedAt time.Time      `json:"updatedAt"`
	DeletedAt gorm.DeletedAt `gorm:"index" json:"-"`
}

func (b *UUIDBase) BeforeCreate(tx *gorm.DB) error {
	if b.ID == "" {
		b.ID = uuid.NewString()
		return nil
	}
	if !ValidUUID(b.ID) {
		return fmt.Errorf("%w: %q", ErrInvalidUUID, b.ID)
	}
	return nil
}

// ValidUUID uuid.Parse 还接受 urn/花括号等写法，这里要求与 String() 完全一致
func ValidUUID(id string) bool {
	u, err := uuid.Parse(id)
	return err == nil && u.String() == id
}
