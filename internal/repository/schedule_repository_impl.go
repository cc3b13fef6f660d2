package repository

import (
	"errors"
	"time"

	"clinic-staffing/internal/domain/entity"
	domainRepo "clinic-staffing/internal/domain/repository"

	"github.com/google/uuid"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

type scheduleRepository struct{}

func NewScheduleRepository() domainRepo.ScheduleRepository {
	return &scheduleRepository{}
}

func (r *scheduleRepository) Upsert(db *gorm.DB, entry *entity.ScheduleEntry) error {
	return db.Clauses(clause.OnConflict{
		Columns: []clause.Column{{Name: "doctor_id"}, {Name: "date"}},
		DoUpdates: clause.AssignmentColumns([]string{
			"start_time", "end_time", "break_minutes", "hours_worked", "day_type", "updated_at",
		}),
	}).Omit("Doctor").Create(entry).Error
}

func (r *scheduleRepository) FindByDoctor(db *gorm.DB, doctorID uuid.UUID) ([]entity.ScheduleEntry, error) {
	var entries []entity.ScheduleEntry
	err := db.Where("doctor_id = ?", doctorID).Order("date ASC").Find(&entries).Error
	if err != nil {
		return nil, err
	}
	return entries, nil
}

func (r *scheduleRepository) FindByDoctorMonth(db *gorm.DB, doctorID uuid.UUID, year, month int) ([]entity.ScheduleEntry, error) {
	monthStart := time.Date(year, time.Month(month), 1, 0, 0, 0, 0, time.UTC)
	monthEnd := monthStart.AddDate(0, 1, 0)

	var entries []entity.ScheduleEntry
	err := db.Where("doctor_id = ? AND date >= ? AND date < ?", doctorID, monthStart, monthEnd).
		Order("date ASC").Find(&entries).Error
	if err != nil {
		return nil, err
	}
	return entries, nil
}

func (r *scheduleRepository) FindByDoctorDate(db *gorm.DB, doctorID uuid.UUID, date time.Time) (*entity.ScheduleEntry, error) {
	var entry entity.ScheduleEntry
	err := db.Where("doctor_id = ? AND date = ?", doctorID, date).First(&entry).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, nil
		}
		return nil, err
	}
	return &entry, nil
}

func (r *scheduleRepository) FindByID(db *gorm.DB, id int) (*entity.ScheduleEntry, error) {
	var entry entity.ScheduleEntry
	err := db.Where("id = ?", id).First(&entry).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, nil
		}
		return nil, err
	}
	return &entry, nil
}

func (r *scheduleRepository) Update(db *gorm.DB, entry *entity.ScheduleEntry) error {
	return db.Omit("Doctor").Save(entry).Error
}

func (r *scheduleRepository) Delete(db *gorm.DB, id int) (int64, error) {
	result := db.Where("id = ?", id).Delete(&entity.ScheduleEntry{})
	return result.RowsAffected, result.Error
}

func (r *scheduleRepository) DeleteByDoctorDate(db *gorm.DB, doctorID uuid.UUID, date time.Time) error {
	return db.Where("doctor_id = ? AND date = ?", doctorID, date).Delete(&entity.ScheduleEntry{}).Error
}

func (r *scheduleRepository) DeleteByDoctor(db *gorm.DB, doctorID uuid.UUID) error {
	return db.Where("doctor_id = ?", doctorID).Delete(&entity.ScheduleEntry{}).Error
}
