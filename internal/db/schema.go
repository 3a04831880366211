package db

// schemaSQL is the full DDL for the scoring system. Score rows are unique
// per (resume_id, job_id) and cascade-delete with their owning resume or
// job; embedding vectors are unique per (entity_type, entity_id) and
// replaced in place on recomputation.
const schemaSQL = `
CREATE TABLE IF NOT EXISTS resumes (
    id             BIGSERIAL PRIMARY KEY,
    candidate_name TEXT,
    email          TEXT,
    file_name      TEXT NOT NULL,
    file_hash      TEXT UNIQUE,
    raw_text       TEXT,
    skills         JSONB,
    education      JSONB,
    experience     JSONB,
    uploaded_at    TIMESTAMPTZ NOT NULL DEFAULT NOW(),
    processed_at   TIMESTAMPTZ
);

CREATE INDEX IF NOT EXISTS idx_resumes_uploaded_at ON resumes (uploaded_at);
CREATE INDEX IF NOT EXISTS idx_resumes_email ON resumes (email);

CREATE TABLE IF NOT EXISTS jobs (
    id              BIGSERIAL PRIMARY KEY,
    title           TEXT NOT NULL,
    description     TEXT NOT NULL,
    required_skills TEXT,
    weight_config   TEXT,
    created_at      TIMESTAMPTZ NOT NULL DEFAULT NOW(),
    updated_at      TIMESTAMPTZ
);

CREATE INDEX IF NOT EXISTS idx_jobs_created_at ON jobs (created_at);

CREATE TABLE IF NOT EXISTS resume_scores (
    id               BIGSERIAL PRIMARY KEY,
    resume_id        BIGINT NOT NULL REFERENCES resumes (id) ON DELETE CASCADE,
    job_id           BIGINT NOT NULL REFERENCES jobs (id) ON DELETE CASCADE,
    total_score      NUMERIC(6,2) NOT NULL,
    education_score  NUMERIC(5,2) NOT NULL,
    experience_score NUMERIC(5,2) NOT NULL,
    skills_score     NUMERIC(5,2) NOT NULL,
    tier             TEXT NOT NULL,
    scored_at        TIMESTAMPTZ NOT NULL DEFAULT NOW(),
    UNIQUE (resume_id, job_id)
);

CREATE INDEX IF NOT EXISTS idx_resume_scores_job_id ON resume_scores (job_id);
CREATE INDEX IF NOT EXISTS idx_resume_scores_total ON resume_scores (total_score);

CREATE TABLE IF NOT EXISTS embedding_vectors (
    id          BIGSERIAL PRIMARY KEY,
    entity_type TEXT NOT NULL,
    entity_id   BIGINT NOT NULL,
    vector      FLOAT8[] NOT NULL,
    dims        INT NOT NULL,
    updated_at  TIMESTAMPTZ NOT NULL DEFAULT NOW(),
    UNIQUE (entity_type, entity_id)
);
`
