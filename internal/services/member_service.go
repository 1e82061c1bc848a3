package services

import (
	"context"
	"errors"

	"gorm.io/gorm"

	apperrors "churchbooks/internal/errors"
	"churchbooks/internal/models"
)

// maxNameSearchResults caps fuzzy member lookups; anything beyond a handful
// of hits is ambiguous anyway.
const maxNameSearchResults = 25

// memberService reads the member directory.
type memberService struct {
	db *gorm.DB
}

// NewMemberService creates a new MemberServicer.
func NewMemberService(db *gorm.DB) MemberServicer {
	return &memberService{db: db}
}

// GetMemberByID retrieves a member by ID
func (s *memberService) GetMemberByID(ctx context.Context, id string) (*models.Member, error) {
	var member models.Member
	if err := s.db.WithContext(ctx).Where("id = ?", id).First(&member).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, apperrors.ErrMemberNotFound
		}
		return nil, apperrors.Wrap(apperrors.ErrInternalServer, err)
	}
	return &member, nil
}

// SearchByNameTokens returns members whose first, middle or last name
// contains every token, case-insensitively. No tokens means no members.
func (s *memberService) SearchByNameTokens(ctx context.Context, tokens []string) ([]models.Member, error) {
	if len(tokens) == 0 {
		return nil, nil
	}

	q := s.db.WithContext(ctx).Model(&models.Member{})
	for _, tok := range tokens {
		pattern := "%" + tok + "%"
		q = q.Where("(LOWER(first_name) LIKE ? OR LOWER(middle_name) LIKE ? OR LOWER(last_name) LIKE ?)",
			pattern, pattern, pattern)
	}

	var members []models.Member
	if err := q.Order("last_name, first_name").Limit(maxNameSearchResults).Find(&members).Error; err != nil {
		return nil, apperrors.Wrap(apperrors.ErrInternalServer, err)
	}
	return members, nil
}
