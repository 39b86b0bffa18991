package service

import (
	"context"
	"errors"
	"fmt"
	"net/mail"
	"time"

	"github.com/haoran-tse/tramcar/internal/mailer"
	"github.com/haoran-tse/tramcar/internal/model"
	"github.com/haoran-tse/tramcar/internal/repository"
	"go.uber.org/zap"
)

// ActivateOutcome discriminates the results of Activate.
type ActivateOutcome string

const (
	// OutcomeActivated: the job went from unpaid to paid.
	OutcomeActivated ActivateOutcome = "activated"
	// OutcomeAlreadyActive: the job was paid before the call; nothing changed.
	OutcomeAlreadyActive ActivateOutcome = "already_active"
)

// ExpireOutcome discriminates the results of Expire.
type ExpireOutcome string

const (
	// OutcomeExpired: the job went from paid to expired, one notice was attempted.
	OutcomeExpired ExpireOutcome = "expired"
	// OutcomeNotPaid: the job was never paid, so there is nothing to expire.
	OutcomeNotPaid ExpireOutcome = "not_paid"
	// OutcomeAlreadyExpired: the job was expired before the call; nothing changed.
	OutcomeAlreadyExpired ExpireOutcome = "already_expired"
)

// JobService owns posting creation and the paid/expired lifecycle.
type JobService struct {
	jobs       repository.JobRepository
	categories repository.CategoryRepository
	companies  repository.CompanyRepository
	countries  repository.CountryRepository
	sites      repository.SiteRepository
	mail       mailer.Mailer
	log        *zap.Logger
}

// NewJobService returns a configured JobService.
func NewJobService(
	jobs repository.JobRepository,
	categories repository.CategoryRepository,
	companies repository.CompanyRepository,
	countries repository.CountryRepository,
	sites repository.SiteRepository,
	mail mailer.Mailer,
	log *zap.Logger,
) *JobService {
	return &JobService{
		jobs:       jobs,
		categories: categories,
		companies:  companies,
		countries:  countries,
		sites:      sites,
		mail:       mail,
		log:        log,
	}
}

// CreateJobInput carries the fields needed to submit a posting.
type CreateJobInput struct {
	Title           string
	Description     string
	ApplicationInfo string
	Location        string
	Email           string
	CategoryID      uint
	CountryID       *uint
	CompanyID       uint
	OwnerID         uint
}

// CreateJob validates the input against the site's catalog and stores the
// posting unpaid. Category and company must belong to the same site the
// posting goes to.
func (s *JobService) CreateJob(ctx context.Context, siteID uint, in CreateJobInput) (*model.Job, error) {
	if in.Title == "" || len(in.Title) > 50 {
		return nil, &ValidationError{Msg: "title is required and must be at most 50 characters"}
	}
	if in.Description == "" {
		return nil, &ValidationError{Msg: "description is required"}
	}
	if in.ApplicationInfo == "" {
		return nil, &ValidationError{Msg: "application_info is required"}
	}
	if _, err := mail.ParseAddress(in.Email); err != nil {
		return nil, &ValidationError{Msg: "email must be a valid address"}
	}
	if in.OwnerID == 0 {
		return nil, &ValidationError{Msg: "owner_id is required"}
	}

	if _, err := s.categories.GetByID(ctx, siteID, in.CategoryID); err != nil {
		if errors.Is(err, repository.ErrCategoryNotFound) {
			return nil, &ValidationError{Msg: "category does not exist on this site"}
		}
		return nil, fmt.Errorf("check category: %w", err)
	}
	if _, err := s.companies.GetByID(ctx, siteID, in.CompanyID); err != nil {
		if errors.Is(err, repository.ErrCompanyNotFound) {
			return nil, &ValidationError{Msg: "company does not exist on this site"}
		}
		return nil, fmt.Errorf("check company: %w", err)
	}
	if in.CountryID != nil {
		if _, err := s.countries.GetByID(ctx, *in.CountryID); err != nil {
			if errors.Is(err, repository.ErrCountryNotFound) {
				return nil, &ValidationError{Msg: "country does not exist"}
			}
			return nil, fmt.Errorf("check country: %w", err)
		}
	}

	job := &model.Job{
		Title:           in.Title,
		Description:     in.Description,
		ApplicationInfo: in.ApplicationInfo,
		Location:        in.Location,
		Email:           in.Email,
		CategoryID:      in.CategoryID,
		CountryID:       in.CountryID,
		CompanyID:       in.CompanyID,
		SiteID:          siteID,
		OwnerID:         in.OwnerID,
	}
	if err := s.jobs.Create(ctx, job); err != nil {
		return nil, fmt.Errorf("create job: %w", err)
	}

	created, err := s.jobs.GetByID(ctx, job.ID)
	if err != nil {
		return nil, fmt.Errorf("load created job: %w", err)
	}

	s.log.Info("job created",
		zap.Uint("job_id", job.ID),
		zap.Uint("site_id", siteID),
		zap.String("title", job.Title))
	return created, nil
}

// GetJob returns one job of the site.
func (s *JobService) GetJob(ctx context.Context, siteID, id uint) (*model.Job, error) {
	return s.jobs.GetBySite(ctx, siteID, id)
}

// ListActiveJobs returns the site's public listing, most recently activated
// first.
func (s *JobService) ListActiveJobs(ctx context.Context, siteID uint, limit, offset int) ([]model.Job, error) {
	return s.jobs.ListActiveBySite(ctx, siteID, limit, offset)
}

// Activate marks an unpaid job paid. Safe to call repeatedly: a job that is
// already paid reports OutcomeAlreadyActive and stays untouched.
func (s *JobService) Activate(ctx context.Context, jobID uint) (ActivateOutcome, *model.Job, error) {
	job, err := s.jobs.GetByID(ctx, jobID)
	if err != nil {
		return "", nil, err
	}
	if job.PaidAt != nil {
		return OutcomeAlreadyActive, job, nil
	}

	changed, err := s.jobs.MarkPaid(ctx, job.ID, time.Now().UTC())
	if err != nil {
		return "", nil, fmt.Errorf("mark job paid: %w", err)
	}

	job, err = s.jobs.GetByID(ctx, jobID)
	if err != nil {
		return "", nil, fmt.Errorf("reload job: %w", err)
	}
	if !changed {
		// Lost the race against a concurrent activation.
		return OutcomeAlreadyActive, job, nil
	}

	s.log.Info("job activated",
		zap.Uint("job_id", job.ID),
		zap.Uint("site_id", job.SiteID))
	return OutcomeActivated, job, nil
}

// Expire marks a paid job expired and emails a notice to its contact
// address. The email is best-effort: a delivery failure is logged and does
// not change the outcome. Unpaid jobs report OutcomeNotPaid and stay
// untouched.
func (s *JobService) Expire(ctx context.Context, jobID uint) (ExpireOutcome, *model.Job, error) {
	job, err := s.jobs.GetByID(ctx, jobID)
	if err != nil {
		return "", nil, err
	}
	switch {
	case job.PaidAt == nil:
		return OutcomeNotPaid, job, nil
	case job.ExpiredAt != nil:
		return OutcomeAlreadyExpired, job, nil
	}

	changed, err := s.jobs.MarkExpired(ctx, job.ID, time.Now().UTC())
	if err != nil {
		return "", nil, fmt.Errorf("mark job expired: %w", err)
	}

	job, err = s.jobs.GetByID(ctx, jobID)
	if err != nil {
		return "", nil, fmt.Errorf("reload job: %w", err)
	}
	if !changed {
		// Lost the race against a concurrent expiration; the winner sent
		// the notice.
		return OutcomeAlreadyExpired, job, nil
	}

	s.sendExpirationNotice(ctx, job)
	s.log.Info("job expired",
		zap.Uint("job_id", job.ID),
		zap.Uint("site_id", job.SiteID))
	return OutcomeExpired, job, nil
}

// ExpireOverdue walks every site and expires the paid jobs that outlived the
// site's configured listing lifetime. Returns the number of jobs expired.
func (s *JobService) ExpireOverdue(ctx context.Context) (int, error) {
	configs, err := s.sites.ListConfigs(ctx)
	if err != nil {
		return 0, fmt.Errorf("list site configs: %w", err)
	}

	now := time.Now().UTC()
	expired := 0
	for i := range configs {
		cfg := &configs[i]
		cutoff := now.AddDate(0, 0, -cfg.ExpireAfter)

		jobs, err := s.jobs.ListOverdue(ctx, cfg.SiteID, cutoff)
		if err != nil {
			return expired, fmt.Errorf("list overdue jobs for site %d: %w", cfg.SiteID, err)
		}
		for j := range jobs {
			outcome, _, err := s.Expire(ctx, jobs[j].ID)
			if err != nil {
				s.log.Error("sweep: expire failed",
					zap.Uint("job_id", jobs[j].ID),
					zap.Error(err))
				continue
			}
			if outcome == OutcomeExpired {
				expired++
			}
		}
	}
	return expired, nil
}

// sendExpirationNotice emails the job's contact address from the site's
// admin address. Failures are logged only; the expiration already happened.
func (s *JobService) sendExpirationNotice(ctx context.Context, job *model.Job) {
	cfg, err := s.sites.ConfigBySiteID(ctx, job.SiteID)
	if err != nil {
		s.log.Warn("expiration notice skipped: no site config",
			zap.Uint("job_id", job.ID),
			zap.Uint("site_id", job.SiteID),
			zap.Error(err))
		return
	}

	body, err := mailer.RenderExpired(job)
	if err != nil {
		s.log.Warn("expiration notice skipped: render failed",
			zap.Uint("job_id", job.ID),
			zap.Error(err))
		return
	}

	msg := mailer.Message{
		From:    cfg.AdminEmail,
		To:      job.Email,
		Subject: mailer.ExpiredSubject(job.Site.Name),
		Body:    body,
	}
	if err := s.mail.Send(ctx, msg); err != nil {
		s.log.Warn("expiration notice delivery failed",
			zap.Uint("job_id", job.ID),
			zap.String("to", job.Email),
			zap.Error(err))
	}
}
