package scoring

import (
	"context"
	"fmt"
	"math"
	"sort"
	"sync"
	"time"

	"go.uber.org/zap"
	"golang.org/x/sync/errgroup"

	"github.com/riyanshibariyaa/resume-scoring-system/internal/types"
)

// Tier identifies the evidence source that produced a score, in descending
// fidelity order.
type Tier string

const (
	TierSemantic   Tier = "semantic"
	TierStructured Tier = "structured"
	TierKeyword    Tier = "keyword"
)

// Entity type tags for embedding vector lookups.
const (
	EntityResume = "candidate"
	EntityJob    = "job"
)

// ScoreResult is the persistable outcome of scoring one (resume, job) pair.
// All score fields are rounded to two decimals; sub-scores lie in [0, 100].
// The total is a weighted sum on non-semantic tiers and is deliberately not
// clamped, so job weight configs summing above 1 can push it past 100.
type ScoreResult struct {
	ResumeID        int64     `json:"resume_id"`
	JobID           int64     `json:"job_id"`
	TotalScore      float64   `json:"total_score"`
	EducationScore  float64   `json:"education_score"`
	ExperienceScore float64   `json:"experience_score"`
	SkillsScore     float64   `json:"skills_score"`
	Tier            Tier      `json:"tier"`
	ScoredAt        time.Time `json:"scored_at"`
}

// NotFoundError indicates the resume or job being scored does not exist.
type NotFoundError struct {
	Kind string
	ID   int64
}

func (e *NotFoundError) Error() string {
	return fmt.Sprintf("%s not found: %d", e.Kind, e.ID)
}

// Store is the persistence surface the orchestrator depends on. Lookups
// return nil (no error) when the entity is absent.
type Store interface {
	GetCandidateProfile(ctx context.Context, resumeID int64) (*types.CandidateProfile, error)
	GetJobRequirement(ctx context.Context, jobID int64) (*types.JobRequirement, error)
	GetVector(ctx context.Context, entityType string, entityID int64) ([]float64, error)
	UpsertScore(ctx context.Context, result ScoreResult) error
	ListResumeIDs(ctx context.Context) ([]int64, error)
}

// Orchestrator is the top-level scoring entry point. It selects the best
// available evidence tier, combines sub-scores into a total, and upserts the
// result keyed by (resume, job).
type Orchestrator struct {
	store      Store
	structured *StructuredScorer
	keyword    *KeywordScorer
	logger     *zap.Logger

	// lookupTimeout bounds vector lookups; a timeout is treated as
	// unavailability and triggers fallback, not a retry.
	lookupTimeout time.Duration

	// pairLocks serializes concurrent scoring of the same pair so the
	// read-modify-write upsert never interleaves. Entries are refcounted
	// and removed when the last holder releases, keeping the map bounded
	// by in-flight scores.
	mu        sync.Mutex
	pairLocks map[pairKey]*pairLock

	// batchParallelism bounds concurrent candidates in ScoreAll.
	batchParallelism int
}

type pairKey struct {
	resumeID int64
	jobID    int64
}

type pairLock struct {
	mu   sync.Mutex
	refs int
}

// Option configures an Orchestrator.
type Option func(*Orchestrator)

// WithLookupTimeout overrides the vector lookup timeout.
func WithLookupTimeout(d time.Duration) Option {
	return func(o *Orchestrator) { o.lookupTimeout = d }
}

// WithBatchParallelism overrides the batch scoring concurrency bound.
func WithBatchParallelism(n int) Option {
	return func(o *Orchestrator) {
		if n > 0 {
			o.batchParallelism = n
		}
	}
}

// NewOrchestrator creates a scoring orchestrator.
func NewOrchestrator(store Store, synonyms *SynonymResolver, logger *zap.Logger, opts ...Option) *Orchestrator {
	if logger == nil {
		logger = zap.NewNop()
	}
	o := &Orchestrator{
		store:            store,
		structured:       NewStructuredScorer(synonyms),
		keyword:          NewKeywordScorer(),
		logger:           logger,
		lookupTimeout:    5 * time.Second,
		pairLocks:        make(map[pairKey]*pairLock),
		batchParallelism: 4,
	}
	for _, opt := range opts {
		opt(o)
	}
	return o
}

// Score computes and persists the compatibility score for one (resume, job)
// pair. It fails with NotFoundError when either entity is missing; data
// unavailability below that (structured fields, vectors, weight config) is
// absorbed by falling back to the next-lower tier.
func (o *Orchestrator) Score(ctx context.Context, resumeID, jobID int64) (*ScoreResult, error) {
	profile, err := o.store.GetCandidateProfile(ctx, resumeID)
	if err != nil {
		return nil, fmt.Errorf("failed to load candidate profile: %w", err)
	}
	if profile == nil {
		return nil, &NotFoundError{Kind: "resume", ID: resumeID}
	}

	job, err := o.store.GetJobRequirement(ctx, jobID)
	if err != nil {
		return nil, fmt.Errorf("failed to load job: %w", err)
	}
	if job == nil {
		return nil, &NotFoundError{Kind: "job", ID: jobID}
	}

	result := o.compute(ctx, profile, job)

	key := pairKey{resumeID: resumeID, jobID: jobID}
	lock := o.acquirePair(key)
	defer o.releasePair(key, lock)

	if err := o.store.UpsertScore(ctx, result); err != nil {
		return nil, fmt.Errorf("failed to persist score: %w", err)
	}

	o.logger.Info("scored candidate",
		zap.Int64("resume_id", resumeID),
		zap.Int64("job_id", jobID),
		zap.String("tier", string(result.Tier)),
		zap.Float64("total", result.TotalScore),
	)
	return &result, nil
}

// compute runs tier selection and sub-score combination without persistence.
func (o *Orchestrator) compute(ctx context.Context, profile *types.CandidateProfile, job *types.JobRequirement) ScoreResult {
	result := ScoreResult{
		ResumeID: profile.ResumeID,
		JobID:    job.JobID,
		ScoredAt: time.Now().UTC(),
	}

	if semantic := o.trySemantic(ctx, profile.ResumeID, job.JobID); semantic.Available {
		result.Tier = TierSemantic
		result.TotalScore = round2(semantic.Value)
		edu, exp, skills := o.subScores(profile, job, BreakdownPathDefaults())
		result.EducationScore = round2(edu)
		result.ExperienceScore = round2(exp)
		result.SkillsScore = round2(skills)
		return result
	}

	weights := ResolveWeights(job.WeightConfig)
	edu, exp, skills := o.subScores(profile, job, WeightedPathDefaults())
	if profile.HasStructuredSkills() {
		result.Tier = TierStructured
	} else {
		result.Tier = TierKeyword
	}
	result.EducationScore = round2(edu)
	result.ExperienceScore = round2(exp)
	result.SkillsScore = round2(skills)
	result.TotalScore = round2(edu*weights.Education + exp*weights.Experience + skills*weights.Skills)
	return result
}

// subScores computes the three per-criterion scores, preferring structured
// data and falling back to raw-text heuristics per criterion group.
func (o *Orchestrator) subScores(profile *types.CandidateProfile, job *types.JobRequirement, defaults Defaults) (edu, exp, skills float64) {
	if profile.HasStructuredSkills() {
		edu = o.structured.EducationScore(profile.Education, defaults)
		exp = o.structured.ExperienceScore(profile.Experience, defaults)
		skills = o.structured.SkillsScore(profile, job.RequiredSkills)
		return edu, exp, skills
	}
	edu = o.keyword.EducationScore(profile.RawText)
	exp = o.keyword.ExperienceScore(profile.RawText)
	skills = o.keyword.SkillsScore(profile.RawText, job.RequiredSkills)
	return edu, exp, skills
}

// trySemantic attempts the semantic tier. Lookup errors and timeouts are
// logged and reported as unavailability; they are never surfaced.
func (o *Orchestrator) trySemantic(ctx context.Context, resumeID, jobID int64) SemanticScore {
	lookupCtx, cancel := context.WithTimeout(ctx, o.lookupTimeout)
	defer cancel()

	candidateVec, err := o.store.GetVector(lookupCtx, EntityResume, resumeID)
	if err != nil {
		o.logger.Warn("candidate vector lookup failed, falling back",
			zap.Int64("resume_id", resumeID), zap.Error(err))
		return Unavailable()
	}
	jobVec, err := o.store.GetVector(lookupCtx, EntityJob, jobID)
	if err != nil {
		o.logger.Warn("job vector lookup failed, falling back",
			zap.Int64("job_id", jobID), zap.Error(err))
		return Unavailable()
	}
	return SemanticSimilarity(candidateVec, jobVec)
}

// ScoreAll scores every resume in the system against the given job,
// returning results ordered by descending total score. Candidates are
// scored with bounded parallelism; a failure for one candidate is logged
// and skipped without aborting the rest.
func (o *Orchestrator) ScoreAll(ctx context.Context, jobID int64) ([]ScoreResult, error) {
	job, err := o.store.GetJobRequirement(ctx, jobID)
	if err != nil {
		return nil, fmt.Errorf("failed to load job: %w", err)
	}
	if job == nil {
		return nil, &NotFoundError{Kind: "job", ID: jobID}
	}

	resumeIDs, err := o.store.ListResumeIDs(ctx)
	if err != nil {
		return nil, fmt.Errorf("failed to list resumes: %w", err)
	}

	var (
		mu      sync.Mutex
		results []ScoreResult
	)

	g, gCtx := errgroup.WithContext(ctx)
	g.SetLimit(o.batchParallelism)
	for _, resumeID := range resumeIDs {
		g.Go(func() error {
			result, err := o.Score(gCtx, resumeID, jobID)
			if err != nil {
				// Isolate per-candidate failures: the batch continues.
				o.logger.Warn("batch scoring skipped candidate",
					zap.Int64("resume_id", resumeID),
					zap.Int64("job_id", jobID),
					zap.Error(err))
				return nil
			}
			mu.Lock()
			results = append(results, *result)
			mu.Unlock()
			return nil
		})
	}
	if err := g.Wait(); err != nil {
		return nil, err
	}

	sort.Slice(results, func(i, j int) bool {
		if results[i].TotalScore != results[j].TotalScore {
			return results[i].TotalScore > results[j].TotalScore
		}
		return results[i].ResumeID < results[j].ResumeID
	})
	return results, nil
}

func (o *Orchestrator) acquirePair(key pairKey) *pairLock {
	o.mu.Lock()
	lock, ok := o.pairLocks[key]
	if !ok {
		lock = &pairLock{}
		o.pairLocks[key] = lock
	}
	lock.refs++
	o.mu.Unlock()

	lock.mu.Lock()
	return lock
}

func (o *Orchestrator) releasePair(key pairKey, lock *pairLock) {
	lock.mu.Unlock()

	o.mu.Lock()
	lock.refs--
	if lock.refs == 0 {
		delete(o.pairLocks, key)
	}
	o.mu.Unlock()
}

func round2(v float64) float64 {
	return math.Round(v*100) / 100
}
