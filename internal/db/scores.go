package db

import (
	"context"
	"fmt"

	"github.com/jackc/pgx/v5"

	"github.com/riyanshibariyaa/resume-scoring-system/internal/scoring"
)

// UpsertScore persists a score result keyed by (resume_id, job_id):
// the existing row is updated in place, otherwise one is inserted. The
// unique constraint guarantees a single row per pair even under
// concurrent writers.
func (db *DB) UpsertScore(ctx context.Context, result scoring.ScoreResult) error {
	_, err := db.pool.Exec(ctx,
		`INSERT INTO resume_scores
		     (resume_id, job_id, total_score, education_score, experience_score, skills_score, tier, scored_at)
		 VALUES ($1, $2, $3, $4, $5, $6, $7, $8)
		 ON CONFLICT (resume_id, job_id) DO UPDATE
		 SET total_score = $3, education_score = $4, experience_score = $5,
		     skills_score = $6, tier = $7, scored_at = $8`,
		result.ResumeID, result.JobID,
		result.TotalScore, result.EducationScore, result.ExperienceScore, result.SkillsScore,
		string(result.Tier), result.ScoredAt,
	)
	if err != nil {
		return fmt.Errorf("failed to upsert score %d/%d: %w", result.ResumeID, result.JobID, err)
	}
	return nil
}

// GetScore retrieves the persisted score for one pair, or nil when the pair
// has not been scored.
func (db *DB) GetScore(ctx context.Context, resumeID, jobID int64) (*scoring.ScoreResult, error) {
	var (
		result scoring.ScoreResult
		tier   string
	)
	err := db.pool.QueryRow(ctx,
		`SELECT resume_id, job_id, total_score, education_score, experience_score, skills_score, tier, scored_at
		 FROM resume_scores WHERE resume_id = $1 AND job_id = $2`,
		resumeID, jobID,
	).Scan(&result.ResumeID, &result.JobID, &result.TotalScore, &result.EducationScore,
		&result.ExperienceScore, &result.SkillsScore, &tier, &result.ScoredAt)
	if err != nil {
		if err == pgx.ErrNoRows {
			return nil, nil
		}
		return nil, fmt.Errorf("failed to get score: %w", err)
	}
	result.Tier = scoring.Tier(tier)
	return &result, nil
}

// ListScoresByJob retrieves the persisted score rows for a job joined with
// minimal candidate identity fields, ordered by descending total score.
func (db *DB) ListScoresByJob(ctx context.Context, jobID int64, limit int) ([]JobScoreRow, error) {
	if limit <= 0 {
		limit = 100
	}

	query, args, err := psql.
		Select("s.resume_id", "COALESCE(r.candidate_name, '')", "COALESCE(r.email, '')",
			"s.total_score", "s.education_score", "s.experience_score", "s.skills_score",
			"s.tier", "s.scored_at").
		From("resume_scores s").
		Join("resumes r ON r.id = s.resume_id").
		Where("s.job_id = ?", jobID).
		OrderBy("s.total_score DESC", "s.resume_id ASC").
		Limit(uint64(limit)).
		ToSql()
	if err != nil {
		return nil, fmt.Errorf("failed to build score query: %w", err)
	}

	rows, err := db.pool.Query(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("failed to list scores for job %d: %w", jobID, err)
	}
	defer rows.Close()

	var scores []JobScoreRow
	for rows.Next() {
		var row JobScoreRow
		if err := rows.Scan(&row.ResumeID, &row.CandidateName, &row.Email,
			&row.TotalScore, &row.EducationScore, &row.ExperienceScore, &row.SkillsScore,
			&row.Tier, &row.ScoredAt); err != nil {
			return nil, fmt.Errorf("failed to scan score row: %w", err)
		}
		scores = append(scores, row)
	}
	return scores, rows.Err()
}

// ListScoresByResume retrieves a candidate's persisted scores across jobs,
// most recently scored first.
func (db *DB) ListScoresByResume(ctx context.Context, resumeID int64) ([]scoring.ScoreResult, error) {
	rows, err := db.pool.Query(ctx,
		`SELECT resume_id, job_id, total_score, education_score, experience_score, skills_score, tier, scored_at
		 FROM resume_scores WHERE resume_id = $1 ORDER BY scored_at DESC`,
		resumeID,
	)
	if err != nil {
		return nil, fmt.Errorf("failed to list scores for resume %d: %w", resumeID, err)
	}
	defer rows.Close()

	var results []scoring.ScoreResult
	for rows.Next() {
		var (
			result scoring.ScoreResult
			tier   string
		)
		if err := rows.Scan(&result.ResumeID, &result.JobID, &result.TotalScore,
			&result.EducationScore, &result.ExperienceScore, &result.SkillsScore,
			&tier, &result.ScoredAt); err != nil {
			return nil, fmt.Errorf("failed to scan score: %w", err)
		}
		result.Tier = scoring.Tier(tier)
		results = append(results, result)
	}
	return results, rows.Err()
}
