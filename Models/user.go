package Models

import "gorm.io/gorm"

// Permission levels, checked by middleware.Verify
const (
	PermissionViewer  = 1
	PermissionPlanner = 2
	PermissionManager = 3
	PermissionAdmin   = 4
)

type User struct {
	gorm.Model
	Name       string `json:"name"`
	Email      string `json:"email" gorm:"uniqueIndex"`
	Password   []byte `json:"-"`
	Permission int    `json:"permission"`
}
