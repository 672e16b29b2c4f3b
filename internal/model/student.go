package model

import "fmt"

// Student is a row of the etudiants table.
type Student struct {
	ID        uint   `gorm:"primaryKey" json:"id"`
	Surname   string `gorm:"column:nom" json:"surname"`
	GivenName string `gorm:"column:prenom" json:"given_name"`
}

func (Student) TableName() string {
	return "etudiants"
}

func (s Student) String() string {
	return fmt.Sprintf("Student(id=%d, surname=%q, given_name=%q)", s.ID, s.Surname, s.GivenName)
}
