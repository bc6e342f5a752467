package model

// Interest and Region are admin-managed reference vocabularies. Bulk upload
// replaces them wholesale; reads come back ordered by name.

type Interest struct {
	ID   uint   `gorm:"primaryKey;autoIncrement" json:"id"`
	Name string `gorm:"size:100;uniqueIndex;not null" json:"name"`
}

func (Interest) TableName() string {
	return "interests"
}

type Region struct {
	ID   uint   `gorm:"primaryKey;autoIncrement" json:"id"`
	Name string `gorm:"size:100;uniqueIndex;not null" json:"name"`
}

func (Region) TableName() string {
	return "regions"
}
