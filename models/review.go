package models

import (
	"errors"
	"fmt"
	"strings"

	"github.com/Ambush3/SkateSpotApp/db"

	"github.com/google/uuid"
)

const (
	MinRating = 1
	MaxRating = 5
)

var ErrInvalidRating = errors.New("rating must be between 1 and 5")

type Review struct {
	ID        string `gorm:"type:varchar(36);primaryKey" json:"id"`
	CreatedAt int64  `gorm:"autoCreateTime:milli" json:"created_at"` // unix ms
	SpotID    string `gorm:"type:varchar(36);not null;index:review_spot" json:"spot_id"`
	Rating    int    `gorm:"not null" json:"rating"`
	Comment   string `gorm:"type:text" json:"comment,omitempty"`
}

func ValidRating(rating int) bool {
	return rating >= MinRating && rating <= MaxRating
}

// ReviewCreate adds a review to an existing spot
func ReviewCreate(spotID string, rating int, comment string) (*Review, error) {
	if !ValidRating(rating) {
		return nil, ErrInvalidRating
	}
	if _, err := SpotFind(spotID); err != nil {
		return nil, err
	}
	review := &Review{
		ID:      uuid.New().String(),
		SpotID:  spotID,
		Rating:  rating,
		Comment: strings.TrimSpace(comment),
	}
	if err := db.Instance.Create(review).Error; err != nil {
		return nil, fmt.Errorf("failed to create review: %w", err)
	}
	return review, nil
}

// ReviewsForSpot loads all reviews of the spot, newest first. There's no paging.
func ReviewsForSpot(spotID string) (result []Review, err error) {
	result = []Review{}
	err = db.Instance.Where("spot_id = ?", spotID).Order("created_at DESC").Find(&result).Error
	if err != nil {
		return nil, fmt.Errorf("failed to load reviews: %w", err)
	}
	return result, nil
}

// AverageRating is the mean of all ratings, 0 for no reviews
func AverageRating(reviews []Review) float64 {
	if len(reviews) == 0 {
		return 0
	}
	sum := 0
	for _, r := range reviews {
		sum += r.Rating
	}
	return float64(sum) / float64(len(reviews))
}
