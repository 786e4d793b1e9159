package entity

// User is a staff account. Clients are not users; they interact with the
// firm only through the public protocol endpoints.
type User struct {
	ID           int64  `gorm:"primaryKey"`
	Username     string `gorm:"not null;uniqueIndex"`
	PasswordHash string `gorm:"not null"`
	DisplayName  string `gorm:"not null"`
	Role         Role   `gorm:"not null;type:text"`
	CreatedAt    int64  `gorm:"not null"`
	UpdatedAt    int64  `gorm:"not null;autoUpdateTime:false"`
}

func (u *User) IsOwner() bool {
	return u.Role == RoleOwner
}
