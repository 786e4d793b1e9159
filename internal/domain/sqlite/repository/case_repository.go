package repository

import (
	"errors"

	"lawdesk/internal/domain/entity"

	"gorm.io/gorm"
)

type DefaultCaseRepository struct {
	db *gorm.DB
}

func NewCaseRepository(db *gorm.DB) *DefaultCaseRepository {
	return &DefaultCaseRepository{db: db}
}

func (r *DefaultCaseRepository) Create(c *entity.Case) error {
	return r.db.Create(c).Error
}

func (r *DefaultCaseRepository) FindByID(id int64) (*entity.Case, error) {
	var c entity.Case
	err := r.db.First(&c, id).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, nil
	}

	if err != nil {
		return nil, err
	}
	return &c, nil
}

func (r *DefaultCaseRepository) FindAll() ([]*entity.Case, error) {
	var cases []*entity.Case
	err := r.db.Find(&cases).Error
	if err != nil {
		return nil, err
	}
	return cases, nil
}

func (r *DefaultCaseRepository) FindByStatus(status entity.CaseStatus) ([]*entity.Case, error) {
	var cases []*entity.Case
	err := r.db.Where("status = ?", status).Find(&cases).Error
	if err != nil {
		return nil, err
	}
	return cases, nil
}

// FindActiveByAssignee returns the assignee's open workload: everything
// delegated to them that is not completed yet.
func (r *DefaultCaseRepository) FindActiveByAssignee(assignee string) ([]*entity.Case, error) {
	var cases []*entity.Case
	err := r.db.
		Where("assignee = ? AND status <> ?", assignee, entity.StatusCompleted).
		Find(&cases).Error
	if err != nil {
		return nil, err
	}
	return cases, nil
}

func (r *DefaultCaseRepository) CountActiveByAssignee(assignee string) (int64, error) {
	var count int64
	err := r.db.Model(&entity.Case{}).
		Where("assignee = ? AND status <> ?", assignee, entity.StatusCompleted).
		Count(&count).Error
	if err != nil {
		return 0, err
	}
	return count, nil
}

func (r *DefaultCaseRepository) CountByStatus() (map[entity.CaseStatus]int64, error) {
	type row struct {
		Status entity.CaseStatus
		Total  int64
	}

	var rows []row
	err := r.db.Model(&entity.Case{}).
		Select("status, COUNT(*) AS total").
		Group("status").
		Scan(&rows).Error
	if err != nil {
		return nil, err
	}

	counts := make(map[entity.CaseStatus]int64, len(rows))
	for _, rw := range rows {
		counts[rw.Status] = rw.Total
	}
	return counts, nil
}

// UpdateFromStatus applies fields only if the case currently sits in the
// 'from' status, bumping the version in the same statement. It reports
// false when the row was missing or no longer in 'from' — an invalid
// transition or a lost race, the caller cannot tell which and does not
// need to.
func (r *DefaultCaseRepository) UpdateFromStatus(id int64, from entity.CaseStatus, fields map[string]any) (bool, error) {
	fields["version"] = gorm.Expr("version + 1")
	tx := r.db.Model(&entity.Case{}).
		Where("id = ? AND status = ?", id, from).
		Updates(fields)
	if tx.Error != nil {
		return false, tx.Error
	}
	return tx.RowsAffected > 0, nil
}

// UpdateAnyStatus applies fields regardless of the current status. Used
// only by the owner's direct-response escape valve.
func (r *DefaultCaseRepository) UpdateAnyStatus(id int64, fields map[string]any) (bool, error) {
	fields["version"] = gorm.Expr("version + 1")
	tx := r.db.Model(&entity.Case{}).
		Where("id = ?", id).
		Updates(fields)
	if tx.Error != nil {
		return false, tx.Error
	}
	return tx.RowsAffected > 0, nil
}
