package model

// ==================== 用户角色与登录方式 ====================

// UserRole 用户角色（封闭枚举，不是数字 flag）
type UserRole string

const (
	UserRoleCustomer UserRole = "customer" // 普通买家
	UserRoleAdmin    UserRole = "admin"    // 后台管理员
)

// LoginMethod 账号的注册/登录方式
const (
	LoginMethodPassword = "password"
	LoginMethodGoogle   = "google"
	LoginMethodFacebook = "facebook"
)

// ==================== User 用户 ====================

// User 买家/管理员账号
// 社交登录账号 Password 为空；邮箱命中已有本地账号时合并，不新建
type User struct {
	BaseModel

	// 身份
	Email    string `gorm:"size:255;uniqueIndex;not null"`
	Password string `gorm:"size:255"` // bcrypt 哈希，纯社交账号为空

	// 社交登录标识（每个平台最多一个）
	GoogleID   string `gorm:"size:128;index"`
	FacebookID string `gorm:"size:128;index"`

	// 登录方式标记
	LoginMethod string `gorm:"size:20;default:'password'"`

	// 资料
	Name    string   `gorm:"size:255;not null"`
	Phone   string   `gorm:"size:32"`
	Address string   `gorm:"type:text"`
	Role    UserRole `gorm:"size:20;default:'customer';index"`
}

func (User) TableName() string {
	return "users"
}

// IsAdmin 是否为管理员
func (u *User) IsAdmin() bool {
	return u.Role == UserRoleAdmin
}

// HasPassword 是否设置过本地密码
func (u *User) HasPassword() bool {
	return u.Password != ""
}
