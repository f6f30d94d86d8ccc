package types

import "time"

// Foerderung is a static catalog entry: a funding program the user can
// apply for. Date is the application deadline.
type Foerderung struct {
	ID           int64     `gorm:"primaryKey;autoIncrement" json:"id"`
	Name         string    `gorm:"column:name" json:"name"`
	Beschreibung string    `gorm:"column:beschreibung" json:"beschreibung"`
	Date         time.Time `gorm:"column:date" json:"date"`
	Branche      string    `gorm:"column:branche" json:"branche"`
	LinkWebsite  string    `gorm:"column:link_website" json:"linkWebsite"`
	LinkFormular string    `gorm:"column:link_formular" json:"linkFormular"`
}

func (Foerderung) TableName() string {
	return "foerderung"
}
