package service

import (
	"context"
	"errors"
	"math"

	"cardregistry/internal/model"

	"gorm.io/gorm"
)

// StudentRecord pairs a student with its card. Card is nil for a student
// without one.
type StudentRecord struct {
	Student model.Student `json:"student"`
	Card    *model.Card   `json:"card"`
}

type StudentService struct {
	db *gorm.DB
}

func NewStudentService(db *gorm.DB) *StudentService {
	return &StudentService{db: db}
}

// ListStudents returns students ordered by id with their cards. A limit of
// zero or less returns every student on a single page.
func (s *StudentService) ListStudents(ctx context.Context, page, limit int) ([]StudentRecord, int64, int, error) {
	db := s.db.WithContext(ctx)

	var totalCount int64
	if err := db.Model(&model.Student{}).Count(&totalCount).Error; err != nil {
		return nil, 0, 0, err
	}

	query := db.Order("id")
	totalPages := 1
	if limit > 0 {
		if page < 1 {
			page = 1
		}
		query = query.Offset((page - 1) * limit).Limit(limit)
		totalPages = int(math.Ceil(float64(totalCount) / float64(limit)))
	}

	var students []model.Student
	if err := query.Find(&students).Error; err != nil {
		return nil, 0, 0, err
	}
	if len(students) == 0 {
		return []StudentRecord{}, totalCount, totalPages, nil
	}

	ids := make([]uint, 0, len(students))
	for _, st := range students {
		ids = append(ids, st.ID)
	}

	var cards []model.Card
	if err := db.Where("etudiant_id IN ?", ids).Find(&cards).Error; err != nil {
		return nil, 0, 0, err
	}
	byStudent := make(map[uint]*model.Card, len(cards))
	for i := range cards {
		byStudent[cards[i].StudentID] = &cards[i]
	}

	records := make([]StudentRecord, 0, len(students))
	for _, st := range students {
		records = append(records, StudentRecord{Student: st, Card: byStudent[st.ID]})
	}

	return records, totalCount, totalPages, nil
}

// CardForStudent looks up the card linked to a student. It returns nil and
// no error when the student has no card.
func (s *StudentService) CardForStudent(ctx context.Context, studentID uint) (*model.Card, error) {
	var card model.Card
	err := s.db.WithContext(ctx).Where("etudiant_id = ?", studentID).First(&card).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}
	return &card, nil
}
