package catalog

import (
	"context"
	"io"
	"runtime"

	"github.com/charmbracelet/log"
	"github.com/sourcegraph/conc/iter"
	"github.com/spf13/afero"

	"github.com/matzehuels/pkgcheck/pkg/errors"
)

// Options configures ingestion.
type Options struct {
	// Workers bounds the number of records parsed concurrently.
	// Zero means runtime.NumCPU().
	Workers int
	// Logger receives debug output. Nil discards it.
	Logger *log.Logger
}

// WithDefaults returns a copy of o with zero fields filled in.
func (o Options) WithDefaults() Options {
	if o.Workers <= 0 {
		o.Workers = runtime.NumCPU()
	}
	if o.Logger == nil {
		o.Logger = log.NewWithOptions(io.Discard, log.Options{})
	}
	return o
}

// Ingest parses records in parallel and folds them, in slice order, into a
// Catalog. The first record that fails to parse aborts ingestion; the error
// names its asset and ordinal.
func Ingest(ctx context.Context, records []Record, opts Options) (*Catalog, error) {
	opts = opts.WithDefaults()

	mapper := iter.Mapper[Record, parsed]{MaxGoroutines: opts.Workers}
	results := mapper.Map(records, func(r *Record) parsed {
		if ctx.Err() != nil {
			return parsed{err: ctx.Err()}
		}
		return parseRecord(*r)
	})
	if err := ctx.Err(); err != nil {
		return nil, err
	}

	c := newCatalog()
	ignored := 0
	for i, res := range results {
		if res.err != nil {
			return nil, res.err
		}
		ignored += res.ignored
		c.add(res.pkg, records[i].Location())
	}

	if ignored > 0 {
		opts.Logger.Debug("ignored unmodelled dependencies", "count", ignored)
	}
	if n := len(c.duplicates); n > 0 {
		opts.Logger.Debug("duplicate catalog definitions", "count", n)
	}
	return c, nil
}

// Load reads every asset, then ingests each independently and unions the
// results in asset order. No record is parsed unless every asset decodes.
func Load(ctx context.Context, fs afero.Fs, assets []Asset, opts Options) (*Catalog, error) {
	opts = opts.WithDefaults()
	if len(assets) == 0 {
		return nil, errors.New(errors.ErrCodeInvalidAsset, "no catalog assets configured")
	}

	recordSets := make([][]Record, len(assets))
	for i, a := range assets {
		records, err := ReadAsset(fs, a)
		if err != nil {
			return nil, err
		}
		recordSets[i] = records
	}

	catalogs := make([]*Catalog, 0, len(assets))
	for i, records := range recordSets {
		c, err := Ingest(ctx, records, opts)
		if err != nil {
			return nil, err
		}
		opts.Logger.Debug("ingested catalog", "asset", assets[i].Path, "names", c.Len(), "versions", c.PackageCount())
		catalogs = append(catalogs, c)
	}
	return Union(catalogs...), nil
}
