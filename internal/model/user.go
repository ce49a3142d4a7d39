package model

import (
	"errors"
	"strings"

	"golang.org/x/crypto/bcrypt"
)

// ErrEmailRequired 邮箱为空
var ErrEmailRequired = errors.New("用户必须填写邮箱")

// User 用户模型
type User struct {
	Base
	Email       string `gorm:"type:varchar(255);not null;uniqueIndex" json:"email"`
	Password    string `gorm:"type:varchar(128);not null" json:"-"`
	Name        string `gorm:"type:varchar(255)" json:"name"`
	IsActive    bool   `gorm:"not null" json:"is_active"`
	IsStaff     bool   `gorm:"not null" json:"is_staff"`
	IsAuthor    bool   `gorm:"not null" json:"is_author"`
	IsSuperuser bool   `gorm:"not null" json:"is_superuser"`
}

// TableName 指定表名
func (User) TableName() string {
	return "users"
}

// NormalizeEmail 规范化邮箱：去除首尾空白，域名部分转小写
func NormalizeEmail(email string) string {
	email = strings.TrimSpace(email)
	at := strings.LastIndex(email, "@")
	if at < 0 {
		return email
	}
	return email[:at] + "@" + strings.ToLower(email[at+1:])
}

// SetPassword 使用bcrypt保存密码哈希
func (u *User) SetPassword(raw string) error {
	hash, err := bcrypt.GenerateFromPassword([]byte(raw), bcrypt.DefaultCost)
	if err != nil {
		return err
	}
	u.Password = string(hash)
	return nil
}

// CheckPassword 校验密码
func (u *User) CheckPassword(raw string) bool {
	if u.Password == "" {
		return false
	}
	return bcrypt.CompareHashAndPassword([]byte(u.Password), []byte(raw)) == nil
}
