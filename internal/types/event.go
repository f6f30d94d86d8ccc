package types

import "time"

// Event is a static catalog entry: an event the user can be pointed to.
type Event struct {
	ID           int64     `gorm:"primaryKey;autoIncrement" json:"id"`
	Name         string    `gorm:"column:name" json:"name"`
	ZeitPunkt    time.Time `gorm:"column:zeit_punkt" json:"zeitPunkt"`
	Adresse      string    `gorm:"column:adresse" json:"adresse"`
	Link         string    `gorm:"column:link" json:"link"`
	Beschreibung string    `gorm:"column:beschreibung" json:"beschreibung"`
	Branche      string    `gorm:"column:branche" json:"branche"`
}

func (Event) TableName() string {
	return "event"
}
