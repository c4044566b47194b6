package pipeline

import (
	"context"
	"strings"
	"time"

	"github.com/quangtn/vietcal/internal/cache"
	"github.com/quangtn/vietcal/internal/extract"
	"github.com/quangtn/vietcal/internal/model"
	"github.com/quangtn/vietcal/internal/resolve"
)

// Backend is one extraction implementation. The rule-based backend is always
// present; a model-based one may be ensembled behind the same contract.
type Backend interface {
	Name() string
	Process(ctx context.Context, text string, base time.Time) (*model.Result, error)
}

// RuleBackend is the deterministic regex pipeline. It never returns an error
// for malformed input: missing fields stay zero.
type RuleBackend struct {
	reminder  *extract.ReminderExtractor
	segmenter *extract.TimeSegmenter
	resolver  *resolve.Resolver
	location  *extract.LocationExtractor
	cleaner   *extract.EventCleaner
	tagger    Tagger // Optional named-entity fallback for locations (nil if disabled)
}

// NewRuleBackend builds the rule pipeline. tagger may be nil.
func NewRuleBackend(cfg model.ParserConfig, tagger Tagger) *RuleBackend {
	return &RuleBackend{
		reminder:  extract.NewReminderExtractor(cfg.DefaultReminderMinutes),
		segmenter: extract.NewTimeSegmenter(),
		resolver:  resolve.NewResolver(cfg.FallbackHour),
		location:  extract.NewLocationExtractor(),
		cleaner:   extract.NewEventCleaner(),
		tagger:    tagger,
	}
}

// Name returns the backend name
func (b *RuleBackend) Name() string { return "rule" }

// Process runs the extraction sequence: lowercase, reminder, time
// segmentation and resolution, location, event-name cleaning.
func (b *RuleBackend) Process(ctx context.Context, text string, base time.Time) (*model.Result, error) {
	text = strings.ToLower(strings.TrimSpace(text))
	if text == "" {
		return &model.Result{Backends: b.Name()}, nil
	}

	minutes, residual, _ := b.reminder.Extract(text)

	span, rest := b.segmenter.Segment(residual)
	var phrase string
	var start, end *time.Time
	if span != nil {
		phrase = span.Text
		start, end = b.resolver.Resolve(phrase, base)
	}

	location := b.location.Extract(rest)
	if location == "" && b.tagger != nil {
		if tags, err := b.tagger.Tag(ctx, rest); err == nil {
			location = LocationFromTags(tags)
		}
	}

	event := b.cleaner.Clean(residual, phrase, location)

	return &model.Result{
		EventName:       event,
		StartTime:       start,
		EndTime:         end,
		Location:        location,
		ReminderMinutes: minutes,
		TimePhrase:      phrase,
		Backends:        b.Name(),
	}, nil
}

// Pipeline wraps the rule backend with result memoization and the optional
// secondary-backend ensemble.
type Pipeline struct {
	rule      *RuleBackend
	secondary Backend // nil when no LLM backend is configured
	cache     *cache.MemoryCache
	ttl       time.Duration
}

// New assembles a pipeline from configuration. secondary may be nil.
func New(cfg *model.Config, secondary Backend, tagger Tagger) *Pipeline {
	p := &Pipeline{
		rule:      NewRuleBackend(cfg.Parser, tagger),
		secondary: secondary,
		ttl:       cfg.Cache.TTL,
	}
	if cfg.Cache.Enabled {
		p.cache = cache.NewMemoryCache(cfg.Cache.TTL, 2*cfg.Cache.TTL)
	}
	return p
}

// Process extracts scheduling information from one sentence. The reference
// instant is explicit so results are reproducible; callers wanting wall-clock
// behavior pass time.Now() themselves.
func (p *Pipeline) Process(ctx context.Context, text string, base time.Time) (*model.Result, error) {
	key := cache.Key(text, base)
	if p.cache != nil {
		if res, ok := p.cache.Get(key); ok {
			return res, nil
		}
	}

	res, err := p.rule.Process(ctx, text, base)
	if err != nil {
		return nil, err
	}

	if p.secondary != nil {
		// A secondary failure never fails the parse; the rule result
		// stands on its own.
		if sec, err := p.secondary.Process(ctx, text, base); err == nil && sec != nil {
			res = Merge(res, sec)
		}
	}

	if p.cache != nil {
		p.cache.Set(key, res, p.ttl)
	}
	return res, nil
}
