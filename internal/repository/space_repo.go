package repository

import (
	"context"

	"gorm.io/gorm"

	"parkshare/internal/domain"
)

type SpaceRepository struct {
	db *gorm.DB
}

func NewSpaceRepository(db *gorm.DB) *SpaceRepository {
	return &SpaceRepository{db: db}
}

func (r *SpaceRepository) GetByID(ctx context.Context, id int64) (*domain.ParkingSpace, error) {
	var s domain.ParkingSpace
	if err := r.db.WithContext(ctx).First(&s, id).Error; err != nil {
		return nil, err
	}
	return &s, nil
}

func (r *SpaceRepository) List(ctx context.Context, onlyAvailable bool, limit, offset int) ([]domain.ParkingSpace, error) {
	if limit <= 0 || limit > 100 {
		limit = 20
	}

	q := r.db.WithContext(ctx).Model(&domain.ParkingSpace{})
	if onlyAvailable {
		q = q.Where("is_available = ?", true)
	}

	var spaces []domain.ParkingSpace
	if err := q.Order("id asc").Limit(limit).Offset(offset).Find(&spaces).Error; err != nil {
		return nil, err
	}
	return spaces, nil
}

func (r *SpaceRepository) ListByOwner(ctx context.Context, ownerID int64) ([]domain.ParkingSpace, error) {
	var spaces []domain.ParkingSpace
	if err := r.db.WithContext(ctx).Where("owner_id = ?", ownerID).Order("id asc").Find(&spaces).Error; err != nil {
		return nil, err
	}
	return spaces, nil
}

// Count returns the number of listed spaces. Spaces are never deleted, so
// this doubles as the high-water mark of assigned IDs.
func (r *SpaceRepository) Count(ctx context.Context) (int64, error) {
	var cnt int64
	if err := r.db.WithContext(ctx).Model(&domain.ParkingSpace{}).Count(&cnt).Error; err != nil {
		return 0, err
	}
	return cnt, nil
}
