package repository

import (
	"context"
	"errors"
	"time"

	"github.com/haoran-tse/tramcar/internal/model"
	"github.com/haoran-tse/tramcar/prometheus"
	"gorm.io/gorm"
)

// ErrJobNotFound signals that the requested job does not exist.
var ErrJobNotFound = errors.New("job not found")

// activeJobs holds the listing condition: paid for and not yet expired.
const activeJobs = "paid_at IS NOT NULL AND expired_at IS NULL"

// JobRepository defines the data access contract for job postings, including
// the derived category/company views and the lifecycle updates.
type JobRepository interface {
	Create(ctx context.Context, job *model.Job) error
	// GetByID loads a job with its relations regardless of site; the
	// lifecycle operations and the sweeper work across sites.
	GetByID(ctx context.Context, id uint) (*model.Job, error)
	GetBySite(ctx context.Context, siteID, id uint) (*model.Job, error)
	ListActiveBySite(ctx context.Context, siteID uint, limit, offset int) ([]model.Job, error)
	ListActiveByCategory(ctx context.Context, siteID, categoryID uint) ([]model.Job, error)
	ListActiveByCompany(ctx context.Context, siteID, companyID uint) ([]model.Job, error)
	// ListPaidByCompany includes expired postings: it is the company's paid
	// history, not its public listing.
	ListPaidByCompany(ctx context.Context, siteID, companyID uint) ([]model.Job, error)
	// ListOverdue returns active jobs of one site paid on or before cutoff.
	ListOverdue(ctx context.Context, siteID uint, cutoff time.Time) ([]model.Job, error)
	// MarkPaid stamps paid_at only when it is still unset and reports
	// whether the row changed, so concurrent activations cannot both win.
	MarkPaid(ctx context.Context, id uint, paidAt time.Time) (bool, error)
	// MarkExpired stamps expired_at only on a paid, unexpired row.
	MarkExpired(ctx context.Context, id uint, expiredAt time.Time) (bool, error)
}

type jobRepository struct {
	db *gorm.DB
}

// NewJobRepository returns a GORM-backed JobRepository.
func NewJobRepository(db *gorm.DB) JobRepository {
	return &jobRepository{db: db}
}

func (r *jobRepository) Create(ctx context.Context, job *model.Job) error {
	defer prometheus.TrackDBOperation("insert")(time.Now())

	if err := r.db.WithContext(ctx).Create(job).Error; err != nil {
		if errors.Is(err, gorm.ErrDuplicatedKey) {
			return ErrDuplicate
		}
		return err
	}
	return nil
}

func (r *jobRepository) GetByID(ctx context.Context, id uint) (*model.Job, error) {
	defer prometheus.TrackDBOperation("query")(time.Now())

	var job model.Job
	if err := r.withRelations(ctx).First(&job, id).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrJobNotFound
		}
		return nil, err
	}
	return &job, nil
}

func (r *jobRepository) GetBySite(ctx context.Context, siteID, id uint) (*model.Job, error) {
	defer prometheus.TrackDBOperation("query")(time.Now())

	var job model.Job
	if err := r.withRelations(ctx).
		Where("id = ? AND site_id = ?", id, siteID).
		First(&job).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrJobNotFound
		}
		return nil, err
	}
	return &job, nil
}

func (r *jobRepository) ListActiveBySite(ctx context.Context, siteID uint, limit, offset int) ([]model.Job, error) {
	defer prometheus.TrackDBOperation("query")(time.Now())

	if limit <= 0 {
		limit = 20
	}
	if offset < 0 {
		offset = 0
	}

	var jobs []model.Job
	if err := r.withRelations(ctx).
		Where("site_id = ?", siteID).
		Where(activeJobs).
		Order("paid_at DESC").
		Limit(limit).
		Offset(offset).
		Find(&jobs).Error; err != nil {
		return nil, err
	}
	return jobs, nil
}

func (r *jobRepository) ListActiveByCategory(ctx context.Context, siteID, categoryID uint) ([]model.Job, error) {
	defer prometheus.TrackDBOperation("query")(time.Now())

	var jobs []model.Job
	if err := r.withRelations(ctx).
		Where("site_id = ? AND category_id = ?", siteID, categoryID).
		Where(activeJobs).
		Order("paid_at DESC").
		Find(&jobs).Error; err != nil {
		return nil, err
	}
	return jobs, nil
}

func (r *jobRepository) ListActiveByCompany(ctx context.Context, siteID, companyID uint) ([]model.Job, error) {
	defer prometheus.TrackDBOperation("query")(time.Now())

	var jobs []model.Job
	if err := r.withRelations(ctx).
		Where("site_id = ? AND company_id = ?", siteID, companyID).
		Where(activeJobs).
		Order("paid_at DESC").
		Find(&jobs).Error; err != nil {
		return nil, err
	}
	return jobs, nil
}

func (r *jobRepository) ListPaidByCompany(ctx context.Context, siteID, companyID uint) ([]model.Job, error) {
	defer prometheus.TrackDBOperation("query")(time.Now())

	var jobs []model.Job
	if err := r.withRelations(ctx).
		Where("site_id = ? AND company_id = ?", siteID, companyID).
		Where("paid_at IS NOT NULL").
		Order("paid_at DESC").
		Find(&jobs).Error; err != nil {
		return nil, err
	}
	return jobs, nil
}

func (r *jobRepository) ListOverdue(ctx context.Context, siteID uint, cutoff time.Time) ([]model.Job, error) {
	defer prometheus.TrackDBOperation("query")(time.Now())

	var jobs []model.Job
	if err := r.withRelations(ctx).
		Where("site_id = ?", siteID).
		Where(activeJobs).
		Where("paid_at <= ?", cutoff).
		Order("paid_at ASC").
		Find(&jobs).Error; err != nil {
		return nil, err
	}
	return jobs, nil
}

func (r *jobRepository) MarkPaid(ctx context.Context, id uint, paidAt time.Time) (bool, error) {
	defer prometheus.TrackDBOperation("update")(time.Now())

	result := r.db.WithContext(ctx).
		Model(&model.Job{}).
		Where("id = ? AND paid_at IS NULL", id).
		Update("paid_at", paidAt)
	if result.Error != nil {
		return false, result.Error
	}
	return result.RowsAffected > 0, nil
}

func (r *jobRepository) MarkExpired(ctx context.Context, id uint, expiredAt time.Time) (bool, error) {
	defer prometheus.TrackDBOperation("update")(time.Now())

	result := r.db.WithContext(ctx).
		Model(&model.Job{}).
		Where("id = ? AND expired_at IS NULL", id).
		Where("paid_at IS NOT NULL").
		Update("expired_at", expiredAt)
	if result.Error != nil {
		return false, result.Error
	}
	return result.RowsAffected > 0, nil
}

func (r *jobRepository) withRelations(ctx context.Context) *gorm.DB {
	return r.db.WithContext(ctx).
		Preload("Category").
		Preload("Country").
		Preload("Company").
		Preload("Site")
}
