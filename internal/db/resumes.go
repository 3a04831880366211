package db

import (
	"context"
	"fmt"

	"github.com/jackc/pgx/v5"

	"github.com/riyanshibariyaa/resume-scoring-system/internal/types"
)

// CreateResume inserts a new resume record and returns its ID. When a
// file hash is supplied and a resume with the same hash already exists,
// the existing ID is returned instead of inserting a duplicate; the
// boolean reports whether a new record was created.
func (db *DB) CreateResume(ctx context.Context, fileName string, fileHash *string) (int64, bool, error) {
	if fileHash != nil {
		var existing int64
		err := db.pool.QueryRow(ctx,
			`SELECT id FROM resumes WHERE file_hash = $1`, *fileHash,
		).Scan(&existing)
		if err == nil {
			return existing, false, nil
		}
		if err != pgx.ErrNoRows {
			return 0, false, fmt.Errorf("failed to check for duplicate resume: %w", err)
		}
	}

	var id int64
	err := db.pool.QueryRow(ctx,
		`INSERT INTO resumes (file_name, file_hash) VALUES ($1, $2) RETURNING id`,
		fileName, fileHash,
	).Scan(&id)
	if err != nil {
		return 0, false, fmt.Errorf("failed to create resume: %w", err)
	}
	return id, true, nil
}

// SaveExtractedProfile stores the extraction collaborator's output for a
// resume and marks it processed.
func (db *DB) SaveExtractedProfile(ctx context.Context, resumeID int64, profile ExtractedProfile) error {
	tag, err := db.pool.Exec(ctx,
		`UPDATE resumes
		 SET candidate_name = NULLIF($2, ''),
		     email = NULLIF($3, ''),
		     raw_text = $4,
		     skills = $5,
		     education = $6,
		     experience = $7,
		     processed_at = NOW()
		 WHERE id = $1`,
		resumeID,
		profile.CandidateName,
		profile.Email,
		profile.RawText,
		nilIfEmpty(profile.SkillsJSON),
		nilIfEmpty(profile.EducationJSON),
		nilIfEmpty(profile.ExperienceJSON),
	)
	if err != nil {
		return fmt.Errorf("failed to save extracted profile: %w", err)
	}
	if tag.RowsAffected() == 0 {
		return fmt.Errorf("resume not found: %d", resumeID)
	}
	return nil
}

// GetResume retrieves a resume record by ID, or nil when absent.
func (db *DB) GetResume(ctx context.Context, id int64) (*Resume, error) {
	var r Resume
	err := db.pool.QueryRow(ctx,
		`SELECT id, candidate_name, email, file_name, file_hash, uploaded_at, processed_at
		 FROM resumes WHERE id = $1`, id,
	).Scan(&r.ID, &r.CandidateName, &r.Email, &r.FileName, &r.FileHash, &r.UploadedAt, &r.ProcessedAt)
	if err != nil {
		if err == pgx.ErrNoRows {
			return nil, nil
		}
		return nil, fmt.Errorf("failed to get resume: %w", err)
	}
	return &r, nil
}

// GetCandidateProfile loads a resume's scoring view: identity, raw text and
// the structured fields parsed once into typed containers. Malformed JSON in
// any structured field is treated the same as absent data. Returns nil when
// the resume does not exist.
func (db *DB) GetCandidateProfile(ctx context.Context, resumeID int64) (*types.CandidateProfile, error) {
	var (
		name, email, rawText            *string
		skillsRaw, eduRaw, expRaw       []byte
	)
	err := db.pool.QueryRow(ctx,
		`SELECT candidate_name, email, raw_text, skills, education, experience
		 FROM resumes WHERE id = $1`, resumeID,
	).Scan(&name, &email, &rawText, &skillsRaw, &eduRaw, &expRaw)
	if err != nil {
		if err == pgx.ErrNoRows {
			return nil, nil
		}
		return nil, fmt.Errorf("failed to get candidate profile: %w", err)
	}

	profile := &types.CandidateProfile{
		ResumeID:   resumeID,
		Skills:     types.ParseSkills(skillsRaw),
		Education:  types.ParseEducation(eduRaw),
		Experience: types.ParseExperience(expRaw),
	}
	if name != nil {
		profile.CandidateName = *name
	}
	if email != nil {
		profile.Email = *email
	}
	if rawText != nil {
		profile.RawText = *rawText
	}
	return profile, nil
}

// ListResumesOptions holds optional filters for listing resumes
type ListResumesOptions struct {
	Email         *string
	ProcessedOnly bool
	Limit         int
	Offset        int
}

// ListResumes retrieves resumes with optional filters, newest first.
func (db *DB) ListResumes(ctx context.Context, opts ListResumesOptions) ([]Resume, error) {
	if opts.Limit <= 0 {
		opts.Limit = 50
	}

	builder := psql.
		Select("id", "candidate_name", "email", "file_name", "file_hash", "uploaded_at", "processed_at").
		From("resumes").
		OrderBy("uploaded_at DESC").
		Limit(uint64(opts.Limit)).
		Offset(uint64(opts.Offset))

	if opts.Email != nil {
		builder = builder.Where("email = ?", *opts.Email)
	}
	if opts.ProcessedOnly {
		builder = builder.Where("processed_at IS NOT NULL")
	}

	query, args, err := builder.ToSql()
	if err != nil {
		return nil, fmt.Errorf("failed to build resume query: %w", err)
	}

	rows, err := db.pool.Query(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("failed to list resumes: %w", err)
	}
	defer rows.Close()

	var resumes []Resume
	for rows.Next() {
		var r Resume
		if err := rows.Scan(&r.ID, &r.CandidateName, &r.Email, &r.FileName, &r.FileHash, &r.UploadedAt, &r.ProcessedAt); err != nil {
			return nil, fmt.Errorf("failed to scan resume: %w", err)
		}
		resumes = append(resumes, r)
	}
	return resumes, rows.Err()
}

// ListResumeIDs returns every resume ID in retrieval order. Batch scoring
// iterates this list.
func (db *DB) ListResumeIDs(ctx context.Context) ([]int64, error) {
	rows, err := db.pool.Query(ctx, `SELECT id FROM resumes ORDER BY id`)
	if err != nil {
		return nil, fmt.Errorf("failed to list resume ids: %w", err)
	}
	defer rows.Close()

	var ids []int64
	for rows.Next() {
		var id int64
		if err := rows.Scan(&id); err != nil {
			return nil, fmt.Errorf("failed to scan resume id: %w", err)
		}
		ids = append(ids, id)
	}
	return ids, rows.Err()
}

// DeleteResume deletes a resume; its scores and vector rows cascade.
func (db *DB) DeleteResume(ctx context.Context, id int64) error {
	tag, err := db.pool.Exec(ctx, `DELETE FROM resumes WHERE id = $1`, id)
	if err != nil {
		return fmt.Errorf("failed to delete resume: %w", err)
	}
	if tag.RowsAffected() == 0 {
		return fmt.Errorf("resume not found: %d", id)
	}
	// Embedding vectors are keyed by (entity_type, entity_id) rather than a
	// foreign key, so they are cleaned up explicitly.
	_, err = db.pool.Exec(ctx,
		`DELETE FROM embedding_vectors WHERE entity_type = 'candidate' AND entity_id = $1`, id)
	if err != nil {
		return fmt.Errorf("failed to delete resume vectors: %w", err)
	}
	return nil
}

func nilIfEmpty(b []byte) []byte {
	if len(b) == 0 {
		return nil
	}
	return b
}
