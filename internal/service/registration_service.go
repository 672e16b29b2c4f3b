package service

import (
	"context"
	"fmt"
	"strings"

	"cardregistry/internal/model"

	"github.com/rs/zerolog"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

const missingFieldsMessage = "Error: all fields must be filled in!"

type RegistrationRequest struct {
	Surname    string
	GivenName  string
	CardNumber string
}

// RegistrationResult is what the form shows after a successful submission.
type RegistrationResult struct {
	Student     model.Student
	Card        model.Card
	Message     string
	ClearInputs bool
}

type RegistrationService struct {
	db  *gorm.DB
	log zerolog.Logger
}

func NewRegistrationService(db *gorm.DB, log zerolog.Logger) *RegistrationService {
	return &RegistrationService{db: db, log: log.With().Str("service", "registration").Logger()}
}

// Register stores one student together with its card in a single
// transaction. On failure nothing is written and a *RegistrationError is
// returned.
func (s *RegistrationService) Register(ctx context.Context, req RegistrationRequest) (*RegistrationResult, error) {
	surname := strings.TrimSpace(req.Surname)
	givenName := strings.TrimSpace(req.GivenName)
	number := strings.TrimSpace(req.CardNumber)

	if surname == "" || givenName == "" || number == "" {
		return nil, &RegistrationError{Kind: KindValidation, Message: missingFieldsMessage}
	}

	student := model.Student{Surname: surname, GivenName: givenName}
	card := model.Card{Number: number}

	err := s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		if err := tx.Omit(clause.Associations).Create(&student).Error; err != nil {
			return fmt.Errorf("insert student: %w", err)
		}
		card.StudentID = student.ID
		if err := tx.Omit(clause.Associations).Create(&card).Error; err != nil {
			return fmt.Errorf("insert card: %w", err)
		}
		return nil
	})
	if err != nil {
		regErr := &RegistrationError{
			Kind:    classify(err),
			Message: "Error while adding: " + err.Error(),
			Err:     err,
		}
		s.log.Error().Err(err).Stringer("kind", regErr.Kind).Msg("registration rolled back")
		return nil, regErr
	}

	s.log.Info().Stringer("student", student).Msg("student added")
	s.log.Info().Stringer("card", card).Msg("card added")

	return &RegistrationResult{
		Student:     student,
		Card:        card,
		Message:     fmt.Sprintf("Success: student %s %s added with card number %s", surname, givenName, number),
		ClearInputs: true,
	}, nil
}
