// model/department.go
package model

// Department groups users into organizational units. The code is unique
// case-insensitively and is normalized to upper case before persisting.
// A department cannot be deleted while any non-deleted user references it.
type Department struct {
	Base
	Name        string `gorm:"size:255;not null" json:"name"`
	Code        string `gorm:"size:50;uniqueIndex;not null" json:"code"`
	Description string `gorm:"type:text" json:"description"`

	Users []User `gorm:"foreignKey:DepartmentID" json:"-"`
}

func (Department) TableName() string { return "departments" }
