package db

import (
	"context"
	"fmt"

	"github.com/jackc/pgx/v5"

	"github.com/riyanshibariyaa/resume-scoring-system/internal/types"
)

// CreateJob inserts a new job posting and returns its ID. The weight config
// is stored as authored; malformed config degrades to defaults at scoring
// time rather than being rejected here.
func (db *DB) CreateJob(ctx context.Context, title, description, requiredSkills, weightConfig string) (int64, error) {
	var id int64
	err := db.pool.QueryRow(ctx,
		`INSERT INTO jobs (title, description, required_skills, weight_config)
		 VALUES ($1, $2, NULLIF($3, ''), NULLIF($4, ''))
		 RETURNING id`,
		title, description, requiredSkills, weightConfig,
	).Scan(&id)
	if err != nil {
		return 0, fmt.Errorf("failed to create job: %w", err)
	}
	return id, nil
}

// GetJob retrieves a job record by ID, or nil when absent.
func (db *DB) GetJob(ctx context.Context, id int64) (*Job, error) {
	var (
		j                            Job
		requiredSkills, weightConfig *string
	)
	err := db.pool.QueryRow(ctx,
		`SELECT id, title, description, required_skills, weight_config, created_at, updated_at
		 FROM jobs WHERE id = $1`, id,
	).Scan(&j.ID, &j.Title, &j.Description, &requiredSkills, &weightConfig, &j.CreatedAt, &j.UpdatedAt)
	if err != nil {
		if err == pgx.ErrNoRows {
			return nil, nil
		}
		return nil, fmt.Errorf("failed to get job: %w", err)
	}
	if requiredSkills != nil {
		j.RequiredSkills = *requiredSkills
	}
	if weightConfig != nil {
		j.WeightConfig = *weightConfig
	}
	return &j, nil
}

// GetJobRequirement loads a job's scoring view. Returns nil when the job
// does not exist.
func (db *DB) GetJobRequirement(ctx context.Context, jobID int64) (*types.JobRequirement, error) {
	job, err := db.GetJob(ctx, jobID)
	if err != nil || job == nil {
		return nil, err
	}
	return &types.JobRequirement{
		JobID:          job.ID,
		Title:          job.Title,
		Description:    job.Description,
		RequiredSkills: job.RequiredSkills,
		WeightConfig:   job.WeightConfig,
		CreatedAt:      job.CreatedAt,
		UpdatedAt:      job.UpdatedAt,
	}, nil
}

// ListJobsOptions holds optional filters for listing jobs
type ListJobsOptions struct {
	TitleContains string
	Limit         int
	Offset        int
}

// ListJobs retrieves job postings with optional filters, newest first.
func (db *DB) ListJobs(ctx context.Context, opts ListJobsOptions) ([]Job, error) {
	if opts.Limit <= 0 {
		opts.Limit = 50
	}

	builder := psql.
		Select("id", "title", "description", "COALESCE(required_skills, '')",
			"COALESCE(weight_config, '')", "created_at", "updated_at").
		From("jobs").
		OrderBy("created_at DESC").
		Limit(uint64(opts.Limit)).
		Offset(uint64(opts.Offset))

	if opts.TitleContains != "" {
		builder = builder.Where("title ILIKE ?", "%"+opts.TitleContains+"%")
	}

	query, args, err := builder.ToSql()
	if err != nil {
		return nil, fmt.Errorf("failed to build job query: %w", err)
	}

	rows, err := db.pool.Query(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("failed to list jobs: %w", err)
	}
	defer rows.Close()

	var jobs []Job
	for rows.Next() {
		var j Job
		if err := rows.Scan(&j.ID, &j.Title, &j.Description, &j.RequiredSkills, &j.WeightConfig, &j.CreatedAt, &j.UpdatedAt); err != nil {
			return nil, fmt.Errorf("failed to scan job: %w", err)
		}
		jobs = append(jobs, j)
	}
	return jobs, rows.Err()
}

// UpdateJob replaces a job's mutable fields and bumps updated_at.
func (db *DB) UpdateJob(ctx context.Context, id int64, title, description, requiredSkills, weightConfig string) error {
	tag, err := db.pool.Exec(ctx,
		`UPDATE jobs
		 SET title = $2, description = $3,
		     required_skills = NULLIF($4, ''),
		     weight_config = NULLIF($5, ''),
		     updated_at = NOW()
		 WHERE id = $1`,
		id, title, description, requiredSkills, weightConfig,
	)
	if err != nil {
		return fmt.Errorf("failed to update job: %w", err)
	}
	if tag.RowsAffected() == 0 {
		return fmt.Errorf("job not found: %d", id)
	}
	return nil
}

// DeleteJob deletes a job; its scores cascade.
func (db *DB) DeleteJob(ctx context.Context, id int64) error {
	tag, err := db.pool.Exec(ctx, `DELETE FROM jobs WHERE id = $1`, id)
	if err != nil {
		return fmt.Errorf("failed to delete job: %w", err)
	}
	if tag.RowsAffected() == 0 {
		return fmt.Errorf("job not found: %d", id)
	}
	_, err = db.pool.Exec(ctx,
		`DELETE FROM embedding_vectors WHERE entity_type = 'job' AND entity_id = $1`, id)
	if err != nil {
		return fmt.Errorf("failed to delete job vectors: %w", err)
	}
	return nil
}
