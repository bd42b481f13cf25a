package matchio

import (
	"context"
	"fmt"
	"io"
	"sort"
	"sync"

	"golang.org/x/sync/errgroup"

	"github.com/hupe1980/trackgo/blobstore"
	"github.com/hupe1980/trackgo/codec"
	"github.com/hupe1980/trackgo/model"
	"github.com/hupe1980/trackgo/resource"
)

// documentVersion is bumped on breaking changes to the match document
// layout.
const documentVersion = 1

type pairRecord struct {
	ViewA     model.ViewID        `json:"viewA"`
	ViewB     model.ViewID        `json:"viewB"`
	Describer model.DescriberType `json:"describer"`
	Matches   []model.IndMatch    `json:"matches"`
}

type document struct {
	Version int          `json:"version"`
	Pairs   []pairRecord `json:"pairs"`
}

type options struct {
	codec       codec.Codec
	controller  *resource.Controller
	compression Compression
}

// Option configures matchio operations.
type Option func(*options)

// WithCodec selects the codec used for encoding. Decoding always uses the
// same codec family (JSON); the option exists to pick the implementation.
func WithCodec(c codec.Codec) Option {
	return func(o *options) {
		if c == nil {
			c = codec.Default
		}
		o.codec = c
	}
}

// WithController throttles loads through a resource controller
// (concurrency slots and IO bandwidth).
func WithController(rc *resource.Controller) Option {
	return func(o *options) {
		o.controller = rc
	}
}

func applyOptions(optFns []Option) options {
	opts := options{
		codec: codec.Default,
	}
	for _, fn := range optFns {
		fn(&opts)
	}
	return opts
}

// Encode writes matches to w as one match document.
// Pairs are emitted in sorted order so identical inputs produce identical
// bytes.
func Encode(w io.Writer, matches model.PairwiseMatches, optFns ...Option) error {
	opts := applyOptions(optFns)

	doc := document{
		Version: documentVersion,
		Pairs:   make([]pairRecord, 0, len(matches)),
	}
	for p, ms := range matches {
		doc.Pairs = append(doc.Pairs, pairRecord{
			ViewA:     p.ViewA,
			ViewB:     p.ViewB,
			Describer: p.Describer,
			Matches:   ms,
		})
	}
	sort.Slice(doc.Pairs, func(i, j int) bool {
		a, b := doc.Pairs[i], doc.Pairs[j]
		if a.ViewA != b.ViewA {
			return a.ViewA < b.ViewA
		}
		if a.ViewB != b.ViewB {
			return a.ViewB < b.ViewB
		}
		return a.Describer < b.Describer
	})

	data, err := opts.codec.Marshal(doc)
	if err != nil {
		return fmt.Errorf("encode match document: %w", err)
	}
	_, err = w.Write(data)
	return err
}

// Decode reads one match document from r.
func Decode(r io.Reader, optFns ...Option) (model.PairwiseMatches, error) {
	opts := applyOptions(optFns)

	data, err := io.ReadAll(r)
	if err != nil {
		return nil, err
	}

	var doc document
	if err := opts.codec.Unmarshal(data, &doc); err != nil {
		return nil, fmt.Errorf("decode match document: %w", err)
	}
	if doc.Version != documentVersion {
		return nil, fmt.Errorf("unsupported match document version %d", doc.Version)
	}

	matches := make(model.PairwiseMatches, len(doc.Pairs))
	for _, rec := range doc.Pairs {
		p := model.Pair{ViewA: rec.ViewA, ViewB: rec.ViewB, Describer: rec.Describer}
		matches[p] = append(matches[p], rec.Matches...)
	}
	return matches, nil
}

// Save writes matches to the store under name.
func Save(ctx context.Context, store blobstore.Store, name string, matches model.PairwiseMatches, optFns ...Option) error {
	w, err := store.Create(ctx, name)
	if err != nil {
		return err
	}
	if err := Encode(w, matches, optFns...); err != nil {
		_ = w.Close()
		return err
	}
	return w.Close()
}

// Load reads one match document from the store.
func Load(ctx context.Context, store blobstore.Store, name string, optFns ...Option) (model.PairwiseMatches, error) {
	opts := applyOptions(optFns)

	if err := opts.controller.AcquireLoad(ctx); err != nil {
		return nil, err
	}
	defer opts.controller.ReleaseLoad()

	r, err := store.Open(ctx, name)
	if err != nil {
		return nil, err
	}
	defer func() { _ = r.Close() }()

	var src io.Reader = r
	if opts.controller != nil {
		src = resource.NewRateLimitedReader(ctx, r, opts.controller)
	}
	return Decode(src, optFns...)
}

// LoadAll loads every named document concurrently and merges the results.
// Matches of a pair that appears in several documents are concatenated.
//
// Concurrency is bounded by the controller's load slots when one is
// configured; IO bandwidth likewise.
func LoadAll(ctx context.Context, store blobstore.Store, names []string, optFns ...Option) (model.PairwiseMatches, error) {
	merged := make(model.PairwiseMatches)
	var mu sync.Mutex

	g, ctx := errgroup.WithContext(ctx)
	for _, name := range names {
		name := name
		g.Go(func() error {
			matches, err := Load(ctx, store, name, optFns...)
			if err != nil {
				return fmt.Errorf("load %s: %w", name, err)
			}
			mu.Lock()
			defer mu.Unlock()
			for p, ms := range matches {
				merged[p] = append(merged[p], ms...)
			}
			return nil
		})
	}
	if err := g.Wait(); err != nil {
		return nil, err
	}
	return merged, nil
}
