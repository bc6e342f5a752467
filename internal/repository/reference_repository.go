package repository

import (
	"meetup_bot/internal/model"

	"gorm.io/gorm"
)

// ReferenceRepository serves the interest and region vocabularies that drive
// the profile dialog keyboards.
type ReferenceRepository struct {
	DB *gorm.DB
}

func NewReferenceRepository(db *gorm.DB) *ReferenceRepository {
	return &ReferenceRepository{DB: db}
}

func (r *ReferenceRepository) InterestNames() ([]string, error) {
	var names []string
	err := r.DB.Model(&model.Interest{}).Order("name").Pluck("name", &names).Error
	return names, err
}

func (r *ReferenceRepository) RegionNames() ([]string, error) {
	var names []string
	err := r.DB.Model(&model.Region{}).Order("name").Pluck("name", &names).Error
	return names, err
}

// ReplaceInterests swaps the whole vocabulary in one transaction so dialog
// keyboards never observe a half-imported list.
func (r *ReferenceRepository) ReplaceInterests(names []string) error {
	return r.DB.Transaction(func(tx *gorm.DB) error {
		if err := tx.Where("1 = 1").Delete(&model.Interest{}).Error; err != nil {
			return err
		}
		for _, name := range names {
			if err := tx.Create(&model.Interest{Name: name}).Error; err != nil {
				return err
			}
		}
		return nil
	})
}

func (r *ReferenceRepository) ReplaceRegions(names []string) error {
	return r.DB.Transaction(func(tx *gorm.DB) error {
		if err := tx.Where("1 = 1").Delete(&model.Region{}).Error; err != nil {
			return err
		}
		for _, name := range names {
			if err := tx.Create(&model.Region{Name: name}).Error; err != nil {
				return err
			}
		}
		return nil
	})
}
