package server

import (
	"bytes"
	"context"
	"fmt"
	"mime/multipart"
	"net/http/httptest"
	"time"

	"go.uber.org/zap"

	"github.com/riyanshibariyaa/resume-scoring-system/internal/db"
	"github.com/riyanshibariyaa/resume-scoring-system/internal/extract"
	"github.com/riyanshibariyaa/resume-scoring-system/internal/scoring"
)

// fakeStorage is an in-memory Storage for handler tests.
type fakeStorage struct {
	resumes      map[int64]*db.Resume
	jobs         map[int64]*db.Job
	profiles     map[int64]db.ExtractedProfile
	vectors      map[string][]float64
	jobScores    map[int64][]db.JobScoreRow
	resumeScores map[int64][]scoring.ScoreResult
	pairScores   map[string]*scoring.ScoreResult
	nextID       int64
	pingErr      error
}

func newFakeStorage() *fakeStorage {
	return &fakeStorage{
		resumes:      make(map[int64]*db.Resume),
		jobs:         make(map[int64]*db.Job),
		profiles:     make(map[int64]db.ExtractedProfile),
		vectors:      make(map[string][]float64),
		jobScores:    make(map[int64][]db.JobScoreRow),
		resumeScores: make(map[int64][]scoring.ScoreResult),
		pairScores:   make(map[string]*scoring.ScoreResult),
	}
}

func (f *fakeStorage) Ping(context.Context) error { return f.pingErr }

func (f *fakeStorage) CreateResume(_ context.Context, fileName string, fileHash *string) (int64, bool, error) {
	if fileHash != nil {
		for id, r := range f.resumes {
			if r.FileHash != nil && *r.FileHash == *fileHash {
				return id, false, nil
			}
		}
	}
	f.nextID++
	f.resumes[f.nextID] = &db.Resume{ID: f.nextID, FileName: fileName, FileHash: fileHash}
	return f.nextID, true, nil
}

func (f *fakeStorage) SaveExtractedProfile(_ context.Context, resumeID int64, profile db.ExtractedProfile) error {
	if _, ok := f.resumes[resumeID]; !ok {
		return fmt.Errorf("resume not found: %d", resumeID)
	}
	f.profiles[resumeID] = profile
	now := time.Now()
	f.resumes[resumeID].ProcessedAt = &now
	return nil
}

func (f *fakeStorage) GetResume(_ context.Context, id int64) (*db.Resume, error) {
	return f.resumes[id], nil
}

func (f *fakeStorage) ListResumes(context.Context, db.ListResumesOptions) ([]db.Resume, error) {
	var out []db.Resume
	for _, r := range f.resumes {
		out = append(out, *r)
	}
	return out, nil
}

func (f *fakeStorage) DeleteResume(_ context.Context, id int64) error {
	delete(f.resumes, id)
	return nil
}

func (f *fakeStorage) CreateJob(_ context.Context, title, description, requiredSkills, weightConfig string) (int64, error) {
	f.nextID++
	f.jobs[f.nextID] = &db.Job{
		ID: f.nextID, Title: title, Description: description,
		RequiredSkills: requiredSkills, WeightConfig: weightConfig,
	}
	return f.nextID, nil
}

func (f *fakeStorage) GetJob(_ context.Context, id int64) (*db.Job, error) {
	return f.jobs[id], nil
}

func (f *fakeStorage) ListJobs(context.Context, db.ListJobsOptions) ([]db.Job, error) {
	var out []db.Job
	for _, j := range f.jobs {
		out = append(out, *j)
	}
	return out, nil
}

func (f *fakeStorage) UpdateJob(_ context.Context, id int64, title, description, requiredSkills, weightConfig string) error {
	job, ok := f.jobs[id]
	if !ok {
		return fmt.Errorf("job not found: %d", id)
	}
	job.Title, job.Description = title, description
	job.RequiredSkills, job.WeightConfig = requiredSkills, weightConfig
	return nil
}

func (f *fakeStorage) DeleteJob(_ context.Context, id int64) error {
	delete(f.jobs, id)
	return nil
}

func (f *fakeStorage) GetScore(_ context.Context, resumeID, jobID int64) (*scoring.ScoreResult, error) {
	return f.pairScores[fmt.Sprintf("%d:%d", resumeID, jobID)], nil
}

func (f *fakeStorage) ListScoresByJob(_ context.Context, jobID int64, _ int) ([]db.JobScoreRow, error) {
	return f.jobScores[jobID], nil
}

func (f *fakeStorage) ListScoresByResume(_ context.Context, resumeID int64) ([]scoring.ScoreResult, error) {
	return f.resumeScores[resumeID], nil
}

func (f *fakeStorage) UpsertVector(_ context.Context, entityType string, entityID int64, vector []float64) error {
	f.vectors[fmt.Sprintf("%s:%d", entityType, entityID)] = vector
	return nil
}

func (f *fakeStorage) DeleteVector(_ context.Context, entityType string, entityID int64) error {
	delete(f.vectors, fmt.Sprintf("%s:%d", entityType, entityID))
	return nil
}

// fakeScorer returns canned results keyed by (resume, job).
type fakeScorer struct {
	results map[string]*scoring.ScoreResult
	batch   map[int64][]scoring.ScoreResult
	err     error
}

func (f *fakeScorer) Score(_ context.Context, resumeID, jobID int64) (*scoring.ScoreResult, error) {
	if f.err != nil {
		return nil, f.err
	}
	result, ok := f.results[fmt.Sprintf("%d:%d", resumeID, jobID)]
	if !ok {
		return nil, &scoring.NotFoundError{Kind: "resume", ID: resumeID}
	}
	return result, nil
}

func (f *fakeScorer) ScoreAll(_ context.Context, jobID int64) ([]scoring.ScoreResult, error) {
	if f.err != nil {
		return nil, f.err
	}
	return f.batch[jobID], nil
}

// fakeParser returns fixed parse and extraction output.
type fakeParser struct {
	text   string
	fields *extract.ExtractedFields
	err    error
}

func (f *fakeParser) Parse(context.Context, string, []byte) (string, error) {
	if f.err != nil {
		return "", f.err
	}
	return f.text, nil
}

func (f *fakeParser) Extract(context.Context, string) (*extract.ExtractedFields, error) {
	if f.err != nil {
		return nil, f.err
	}
	return f.fields, nil
}

type fakeEmbedder struct {
	vector []float64
	err    error
}

func (f *fakeEmbedder) Embed(context.Context, string) ([]float64, error) {
	if f.err != nil {
		return nil, f.err
	}
	return f.vector, nil
}

type testDeps struct {
	store    *fakeStorage
	scorer   *fakeScorer
	parser   *fakeParser
	embedder *fakeEmbedder
}

func newTestServer(deps testDeps) *Server {
	if deps.store == nil {
		deps.store = newFakeStorage()
	}
	if deps.scorer == nil {
		deps.scorer = &fakeScorer{results: map[string]*scoring.ScoreResult{}}
	}

	var parser Parser
	if deps.parser != nil {
		parser = deps.parser
	}
	var embedder Embedder
	if deps.embedder != nil {
		embedder = deps.embedder
	}

	return New(Config{Port: 0}, deps.store, deps.scorer, parser, embedder, zap.NewNop())
}

// multipartUpload builds a multipart request body with one file field.
func multipartUpload(fileName string, content []byte) (*bytes.Buffer, string) {
	var buf bytes.Buffer
	writer := multipart.NewWriter(&buf)
	part, _ := writer.CreateFormFile("file", fileName)
	_, _ = part.Write(content)
	_ = writer.Close()
	return &buf, writer.FormDataContentType()
}

func doRequest(s *Server, method, target, contentType string, body *bytes.Buffer) *httptest.ResponseRecorder {
	if body == nil {
		body = &bytes.Buffer{}
	}
	req := httptest.NewRequest(method, target, body)
	if contentType != "" {
		req.Header.Set("Content-Type", contentType)
	}
	w := httptest.NewRecorder()
	s.Handler().ServeHTTP(w, req)
	return w
}
