package model

import "fmt"

// Card is a row of the cartes table. A student holds at most one card: the
// etudiant_id column carries a unique index.
type Card struct {
	ID        uint   `gorm:"primaryKey" json:"id"`
	Number    string `gorm:"column:numero" json:"number"`
	StudentID uint   `gorm:"column:etudiant_id;uniqueIndex" json:"student_id"`

	// Declared so the schema gets its FOREIGN KEY constraint. Never loaded
	// or saved; the linked student is looked up through StudentID.
	Student *Student `gorm:"foreignKey:StudentID;references:ID" json:"-"`
}

func (Card) TableName() string {
	return "cartes"
}

func (c Card) String() string {
	return fmt.Sprintf("Card(id=%d, number=%q, student_id=%d)", c.ID, c.Number, c.StudentID)
}
