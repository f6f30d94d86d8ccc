package types

// Person is a static catalog entry: an expert the user can be matched with.
type Person struct {
	ID          int64  `gorm:"primaryKey;autoIncrement" json:"id"`
	Category    string `gorm:"column:category" json:"category"`
	Institution string `gorm:"column:institution" json:"institution"`
	Name        string `gorm:"column:name" json:"name"`
	Description string `gorm:"column:description" json:"description"`
	FocusAreas  string `gorm:"column:focus_areas" json:"focusAreas"`
	Contact     string `gorm:"column:contact" json:"contact"`
	Website     string `gorm:"column:website" json:"website"`
}

func (Person) TableName() string {
	return "person"
}
