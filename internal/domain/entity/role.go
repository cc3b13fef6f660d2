package entity

// Role represents a staff role in the clinic
type Role struct {
	ID          int    `gorm:"primaryKey;autoIncrement" json:"id"`
	RoleName    string `gorm:"type:varchar(50);uniqueIndex;not null" json:"role_name"`
	Description string `gorm:"type:text" json:"description,omitempty"`

	// Relationships
	Users []User `gorm:"foreignKey:RoleID" json:"users,omitempty"`
}

func (Role) TableName() string {
	return "roles"
}

// Role ID constants
const (
	RoleIDDoctor  = 1
	RoleIDHR      = 2
	RoleIDManager = 3
)

// RoleNames constants
const (
	RoleDoctor  = "doctor"
	RoleHR      = "hr"
	RoleManager = "manager"
)
