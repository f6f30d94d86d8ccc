package types

import (
	"time"

	"gorm.io/datatypes"
)

// CompanyInfo is extracted from a company webpage or set manually.
// NumberOfEmployees and Industry stay nil when unknown.
type CompanyInfo struct {
	CompanyName       string  `json:"companyName"`
	NumberOfEmployees *int    `json:"numberOfEmployees"`
	Industry          *string `json:"industry"`
}

type User struct {
	ID          int64                            `gorm:"primaryKey;autoIncrement" json:"id"`
	Username    string                           `gorm:"uniqueIndex;not null;column:username" json:"username"`
	Password    string                           `gorm:"not null;column:password" json:"-"`
	Email       string                           `gorm:"uniqueIndex;not null;column:email" json:"email"`
	CompanyInfo *datatypes.JSONType[CompanyInfo] `gorm:"column:company_info" json:"companyInfo,omitempty"`
	Messages    []ChatMessage                    `gorm:"foreignKey:UserID;constraint:OnDelete:CASCADE" json:"messages,omitempty"`
	CreatedAt   time.Time                        `gorm:"not null" json:"created_at"`
	UpdatedAt   time.Time                        `gorm:"not null" json:"updated_at"`
}

func (User) TableName() string {
	return "app_user"
}

// CompanyInfoData unwraps the JSON column, nil when no info is stored.
func (u *User) CompanyInfoData() *CompanyInfo {
	if u == nil || u.CompanyInfo == nil {
		return nil
	}
	ci := u.CompanyInfo.Data()
	return &ci
}

// SetCompanyInfo replaces the stored company info.
func (u *User) SetCompanyInfo(ci CompanyInfo) {
	wrapped := datatypes.NewJSONType(ci)
	u.CompanyInfo = &wrapped
}
