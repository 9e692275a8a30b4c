package pipeline

import (
	"context"
	"encoding/json"
	"fmt"
	"time"

	"github.com/charmbracelet/log"

	"github.com/easelhq/easel/pkg/assets"
	"github.com/easelhq/easel/pkg/cache"
	"github.com/easelhq/easel/pkg/canvas"
	"github.com/easelhq/easel/pkg/gen"
	"github.com/easelhq/easel/pkg/observability"
	"github.com/easelhq/easel/pkg/refine"
)

// Runner encapsulates pipeline execution with caching.
// Both CLI and API can use this to avoid duplicating caching logic.
//
// The Runner is stateless except for the backend, cache, and logger - it
// doesn't store pipeline results. Multiple goroutines can safely use the
// same Runner with different options.
type Runner struct {
	Backend gen.Backend
	Cache   cache.Cache
	Keyer   cache.Keyer
	Logger  *log.Logger
}

// NewRunner creates a runner with the given backend, cache, and keyer.
// If keyer is nil, a DefaultKeyer is used.
// If cache is nil, a NullCache is used (caching disabled).
func NewRunner(backend gen.Backend, c cache.Cache, keyer cache.Keyer, logger *log.Logger) *Runner {
	if keyer == nil {
		keyer = cache.NewDefaultKeyer()
	}
	if c == nil {
		c = cache.NewNullCache()
	}
	if logger == nil {
		logger = log.Default()
	}
	return &Runner{
		Backend: backend,
		Cache:   c,
		Keyer:   keyer,
		Logger:  logger,
	}
}

// Execute runs the complete research → plan → assets → compose → refine
// pipeline with caching.
func (r *Runner) Execute(ctx context.Context, opts Options) (*Result, error) {
	if err := opts.ValidateAndSetDefaults(); err != nil {
		return nil, fmt.Errorf("invalid options: %w", err)
	}
	r.applyLogger(&opts)

	result := &Result{
		Artifacts: make(map[string][]byte),
	}

	// Stage 1: Research
	researchStart := time.Now()
	observability.Pipeline().OnResearchStart(ctx, opts.Brief)
	research, researchHash, researchHit, err := r.ResearchWithCacheInfo(ctx, opts)
	observability.Pipeline().OnResearchComplete(ctx, opts.Brief, time.Since(researchStart), err)
	if err != nil {
		return nil, fmt.Errorf("research: %w", err)
	}
	result.Research = research
	result.Stats.ResearchTime = time.Since(researchStart)
	result.CacheInfo.ResearchHit = researchHit

	r.Logger.Info("researched brief",
		"tone", research.Tone,
		"keywords", len(research.Keywords),
		"duration", result.Stats.ResearchTime)

	// Stage 2: Plan
	plan, err := r.GeneratePlan(ctx, research, researchHash, opts)
	if err != nil {
		return nil, fmt.Errorf("plan: %w", err)
	}
	result.Plan = plan

	planData, err := json.Marshal(plan)
	if err != nil {
		return nil, fmt.Errorf("plan: %w", err)
	}
	planHash := cache.Hash(planData)

	r.Logger.Info("planned layout",
		"layout", plan.Layout,
		"assets", len(plan.Assets))

	// Stage 3: Assets
	assetStart := time.Now()
	produced, assetsHit, failures := r.ProduceAssetsWithCacheInfo(ctx, plan, planHash, opts)
	result.Assets = produced
	result.Stats.AssetTime = time.Since(assetStart)
	result.Stats.AssetCount = len(produced)
	result.Stats.AssetFailures = failures
	result.CacheInfo.AssetsHit = assetsHit

	r.Logger.Info("produced assets",
		"produced", len(produced),
		"failed", failures,
		"duration", result.Stats.AssetTime)

	// Stage 4+5: Compose and refine
	doc, refineResult, docHit, err := r.ComposeAndRefineWithCacheInfo(ctx, plan, planHash, produced, opts)
	if err != nil {
		return nil, err
	}
	result.Document = doc
	result.CacheInfo.DocumentHit = docHit
	result.Valid = refineResult.Valid
	result.Violations = refineResult.Violations
	result.Stats.RefineTime = refineResult.Stats.Duration
	result.Stats.RefineRounds = refineResult.Stats.Rounds
	result.Stats.RepairPasses = refineResult.Stats.RepairPasses

	// Compute document hash for cache keys and API responses
	encoded, err := doc.Encode()
	if err != nil {
		return nil, fmt.Errorf("encode: %w", err)
	}
	result.DocumentHash = cache.Hash(encoded)

	// Stage 6: Encode artifacts
	for _, format := range opts.Formats {
		data, err := r.EncodeArtifact(ctx, doc, result.DocumentHash, format, opts)
		if err != nil {
			return nil, fmt.Errorf("encode %s: %w", format, err)
		}
		result.Artifacts[format] = data
	}

	r.Logger.Info("pipeline complete",
		"valid", result.Valid,
		"violations", len(result.Violations),
		"rounds", result.Stats.RefineRounds)

	return result, nil
}

// ResearchWithCacheInfo gathers research guidance with caching and returns
// the content hash of the result plus cache hit info.
func (r *Runner) ResearchWithCacheInfo(ctx context.Context, opts Options) (*gen.Research, string, bool, error) {
	cacheKey := r.Keyer.ResearchKey(opts.Brief, opts.ResearchKeyOpts())

	if !opts.Refresh {
		if data, hit, err := r.Cache.Get(ctx, cacheKey); err == nil && hit {
			var research gen.Research
			if err := json.Unmarshal(data, &research); err == nil {
				return &research, cache.Hash(data), true, nil
			}
		}
	}

	research, err := r.Backend.Research(ctx, opts.Brief, opts.Width, opts.Height, opts.Refresh)
	if err != nil {
		return nil, "", false, err
	}

	data, err := json.Marshal(research)
	if err != nil {
		return nil, "", false, err
	}
	_ = r.Cache.Set(ctx, cacheKey, data, cache.TTLResearch)

	return research, cache.Hash(data), false, nil
}

// GeneratePlan turns research into a layout plan, with caching keyed by the
// brief and the research content.
func (r *Runner) GeneratePlan(ctx context.Context, research *gen.Research, researchHash string, opts Options) (*gen.Plan, error) {
	cacheKey := r.Keyer.PlanKey(opts.Brief, researchHash)

	if !opts.Refresh {
		if data, hit, err := r.Cache.Get(ctx, cacheKey); err == nil && hit {
			var plan gen.Plan
			if err := json.Unmarshal(data, &plan); err == nil {
				return &plan, nil
			}
		}
	}

	plan, err := r.Backend.Plan(ctx, opts.Brief, research)
	if err != nil {
		return nil, err
	}

	if data, err := json.Marshal(plan); err == nil {
		_ = r.Cache.Set(ctx, cacheKey, data, cache.TTLPlan)
	}
	return plan, nil
}

// ProduceAssetsWithCacheInfo produces the plan's assets concurrently.
// Individual failures are tolerated: composition proceeds with whatever was
// produced. Returns the results, whether all assets came from cache, and
// the failure count.
func (r *Runner) ProduceAssetsWithCacheInfo(ctx context.Context, plan *gen.Plan, planHash string, opts Options) ([]assets.Result, bool, int) {
	if len(plan.Assets) == 0 {
		return nil, false, 0
	}

	observability.Pipeline().OnAssetsStart(ctx, len(plan.Assets))
	start := time.Now()

	// Try to get all assets from cache
	if !opts.Refresh {
		cached := make([]assets.Result, 0, len(plan.Assets))
		allCached := true
		for _, d := range plan.Assets {
			cacheKey := r.Keyer.AssetKey(planHash, assetKeyOpts(d))
			data, hit, err := r.Cache.Get(ctx, cacheKey)
			if err != nil || !hit {
				allCached = false
				break
			}
			cached = append(cached, assets.Result{Task: assets.NewTask(d), URL: string(data)})
		}
		if allCached {
			observability.Pipeline().OnAssetsComplete(ctx, len(cached), 0, time.Since(start))
			return cached, true, 0
		}
	}

	scheduler := assets.NewScheduler(r.Backend, r.Logger)
	produced, errs := scheduler.Run(ctx, plan.Assets, opts.Refresh)

	for _, res := range produced {
		cacheKey := r.Keyer.AssetKey(planHash, assetKeyOpts(res.Descriptor))
		_ = r.Cache.Set(ctx, cacheKey, []byte(res.URL), cache.TTLAsset)
	}
	for _, e := range errs {
		r.Logger.Warn("asset production failed", "kind", e.Descriptor.Kind, "error", e.Err)
	}

	observability.Pipeline().OnAssetsComplete(ctx, len(produced), len(errs), time.Since(start))
	return produced, false, len(errs)
}

// ComposeAndRefineWithCacheInfo composes a candidate and refines it until
// valid or the round budget is exhausted. Refined documents are cached by
// plan hash; only valid documents are written to the cache so a transient
// bad candidate never pins a failure.
func (r *Runner) ComposeAndRefineWithCacheInfo(ctx context.Context, plan *gen.Plan, planHash string, produced []assets.Result, opts Options) (*canvas.Document, *refine.Result, bool, error) {
	cacheKey := r.Keyer.DocumentKey(planHash, opts.DocumentKeyOpts())

	if !opts.Refresh {
		if data, hit, err := r.Cache.Get(ctx, cacheKey); err == nil && hit {
			if doc, err := canvas.Decode(data); err == nil {
				valid, violations := opts.Validator.Validate(doc, opts.Width, opts.Height)
				res := &refine.Result{Document: doc, Valid: valid, Violations: violations}
				return doc, res, true, nil
			}
		}
	}

	composeStart := time.Now()
	observability.Pipeline().OnComposeStart(ctx, opts.Brief)
	fontURL, _ := assets.FontURL(produced)
	doc, err := r.Backend.Compose(ctx, gen.ComposeRequest{
		Brief:   opts.Brief,
		Width:   opts.Width,
		Height:  opts.Height,
		Plan:    plan,
		Assets:  produced,
		FontURL: fontURL,
	})
	observability.Pipeline().OnComposeComplete(ctx, opts.Brief, time.Since(composeStart), err)
	if err != nil {
		return nil, nil, false, fmt.Errorf("compose: %w", err)
	}

	controller, err := r.newController(opts)
	if err != nil {
		return nil, nil, false, fmt.Errorf("refine: %w", err)
	}

	refineStart := time.Now()
	refined, err := controller.Refine(ctx, doc)
	if err != nil {
		return nil, nil, false, fmt.Errorf("refine: %w", err)
	}
	observability.Pipeline().OnRefineComplete(ctx, refined.Stats.Rounds, refined.Valid, time.Since(refineStart))

	if refined.Valid {
		if data, err := refined.Document.Encode(); err == nil {
			_ = r.Cache.Set(ctx, cacheKey, data, cache.TTLDocument)
		}
	}
	return refined.Document, refined, false, nil
}

// EncodeArtifact encodes the document in the given format, with caching
// keyed by the document hash.
func (r *Runner) EncodeArtifact(ctx context.Context, doc *canvas.Document, documentHash, format string, opts Options) ([]byte, error) {
	if err := ValidateFormat(format); err != nil {
		return nil, err
	}
	cacheKey := r.Keyer.ArtifactKey(documentHash, opts.ArtifactKeyOpts(format))

	if !opts.Refresh {
		if data, hit, err := r.Cache.Get(ctx, cacheKey); err == nil && hit {
			return data, nil
		}
	}

	data, err := encodeArtifact(doc, format, opts.Indent)
	if err != nil {
		return nil, err
	}
	_ = r.Cache.Set(ctx, cacheKey, data, cache.TTLArtifact)
	return data, nil
}

// Close releases resources held by the runner (primarily the cache).
func (r *Runner) Close() error {
	if r.Cache != nil {
		return r.Cache.Close()
	}
	return nil
}

func (r *Runner) newController(opts Options) (*refine.Controller, error) {
	var critic gen.Critic
	if !opts.SkipCritique {
		critic = r.Backend
	}
	return refine.New(refine.Options{
		Brief:     opts.Brief,
		Width:     opts.Width,
		Height:    opts.Height,
		MaxRounds: opts.MaxRounds,
		Validator: opts.Validator,
		Repair:    opts.Repair,
		Applier:   r.Backend,
		Critic:    critic,
		Logger:    opts.Logger,
	})
}

// applyLogger sets the runner's logger on options if not already set.
func (r *Runner) applyLogger(opts *Options) {
	if opts.Logger == nil {
		opts.Logger = r.Logger
	}
}

func assetKeyOpts(d assets.Descriptor) cache.AssetKeyOpts {
	return cache.AssetKeyOpts{
		Kind:   d.Kind,
		Prompt: d.Prompt,
		Family: d.Family,
	}
}
