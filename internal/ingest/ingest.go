package ingest

import (
	"bytes"
	"context"
	"io"
	"os"
	"time"

	"github.com/google/uuid"
	"github.com/rotisserie/eris"
	"go.uber.org/zap"
	"golang.org/x/sync/errgroup"

	"github.com/dharmasatrya/airfare/internal/config"
	"github.com/dharmasatrya/airfare/internal/models"
	"github.com/dharmasatrya/airfare/internal/normalizer"
	"github.com/dharmasatrya/airfare/internal/query"
	"github.com/dharmasatrya/airfare/internal/xmltree"
)

type Config struct {
	Policy           models.Policy
	Workers          int
	Timeout          time.Duration
	MaxDocumentBytes int64
}

func DefaultConfig() Config {
	return Config{
		Policy:           models.BestEffort,
		Workers:          4,
		Timeout:          10 * time.Second,
		MaxDocumentBytes: 10 << 20,
	}
}

// ConfigFrom converts the loaded application settings, rejecting an unknown
// policy name.
func ConfigFrom(c config.IngestConfig) (Config, error) {
	policy, err := models.ParsePolicy(c.Policy)
	if err != nil {
		return Config{}, eris.Wrap(err, "ingest: config")
	}
	return Config{
		Policy:           policy,
		Workers:          c.Workers,
		Timeout:          c.Timeout,
		MaxDocumentBytes: c.MaxDocumentBytes,
	}, nil
}

type Ingester struct {
	config Config
}

// Request selects the view returned by an ingestion call. A zero Policy
// falls back to the ingester's configured policy.
type Request struct {
	Mode   models.QueryMode
	Policy models.Policy
}

type Result struct {
	ID          string
	Mode        models.QueryMode
	Policy      models.Policy
	Tickets     []models.Ticket
	Itineraries int
	Normalized  int
	Errors      []*models.ItineraryError
	Elapsed     time.Duration
}

type Document struct {
	Name string
	Data []byte
}

type BatchItem struct {
	Name   string
	Result *Result
	Err    error
}

func NewIngester(config Config) *Ingester {
	if config.Policy == "" {
		config.Policy = models.BestEffort
	}
	if config.Workers <= 0 {
		config.Workers = 1
	}
	return &Ingester{
		config: config,
	}
}

func (i *Ingester) Config() Config {
	return i.config
}

// Ingest reads the whole document from r and returns the requested view.
func (i *Ingester) Ingest(ctx context.Context, r io.Reader, req Request) (*Result, error) {
	data, err := i.ReadAll(r)
	if err != nil {
		return nil, err
	}
	return i.IngestBytes(ctx, data, req)
}

// IngestFile opens path for the duration of the call only.
func (i *Ingester) IngestFile(ctx context.Context, path string, req Request) (*Result, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, eris.Wrapf(err, "ingest: open %s", path)
	}
	defer f.Close()

	return i.Ingest(ctx, f, req)
}

func (i *Ingester) IngestBytes(ctx context.Context, data []byte, req Request) (*Result, error) {
	start := time.Now()

	if i.config.Timeout > 0 {
		var cancel context.CancelFunc
		ctx, cancel = context.WithTimeout(ctx, i.config.Timeout)
		defer cancel()
	}

	mode := req.Mode
	if mode == "" {
		mode = models.ModeAll
	}
	policy := req.Policy
	if policy == "" {
		policy = i.config.Policy
	}

	if len(bytes.TrimSpace(data)) == 0 {
		return nil, models.ErrMissingDocument
	}

	doc, err := xmltree.DecodeBytes(data)
	if err != nil {
		return nil, eris.Wrap(err, "ingest: decode")
	}

	its, err := doc.Itineraries()
	if err != nil {
		return nil, eris.Wrap(err, "ingest: itineraries")
	}

	batch, err := normalizer.NormalizeAll(ctx, its, policy)
	if err != nil {
		return nil, eris.Wrap(err, "ingest: normalize")
	}

	selected, err := query.Apply(batch.Tickets, mode)
	if err != nil {
		return nil, eris.Wrapf(err, "ingest: query %s", mode)
	}

	result := &Result{
		ID:          uuid.NewString(),
		Mode:        mode,
		Policy:      policy,
		Tickets:     selected,
		Itineraries: len(its),
		Normalized:  len(batch.Tickets),
		Errors:      batch.Errors,
		Elapsed:     time.Since(start),
	}

	zap.L().Info("document ingested",
		zap.String("result_id", result.ID),
		zap.String("mode", string(mode)),
		zap.String("policy", string(policy)),
		zap.Int("itineraries", result.Itineraries),
		zap.Int("normalized", result.Normalized),
		zap.Int("failed", len(result.Errors)),
		zap.Int("selected", len(result.Tickets)),
		zap.Duration("elapsed", result.Elapsed),
	)

	return result, nil
}

// IngestBatch processes independent documents on a bounded worker pool. A
// failing document never affects the others; its error is reported in its
// BatchItem. Items keep the order of docs.
func (i *Ingester) IngestBatch(ctx context.Context, docs []Document, req Request) ([]BatchItem, error) {
	items := make([]BatchItem, len(docs))

	g, gctx := errgroup.WithContext(ctx)
	g.SetLimit(i.config.Workers)

	for idx, doc := range docs {
		idx, doc := idx, doc
		items[idx].Name = doc.Name
		g.Go(func() error {
			if err := gctx.Err(); err != nil {
				items[idx].Err = err
				return nil
			}

			result, err := i.IngestBytes(gctx, doc.Data, req)
			if err != nil {
				zap.L().Warn("batch document failed", zap.String("name", doc.Name), zap.Error(err))
				items[idx].Err = err
				return nil
			}
			items[idx].Result = result
			return nil
		})
	}

	if err := g.Wait(); err != nil {
		return items, eris.Wrap(err, "ingest: batch")
	}
	if err := ctx.Err(); err != nil {
		return items, eris.Wrap(err, "ingest: batch")
	}

	return items, nil
}

// ReadAll reads a whole document, failing with models.ErrTooLarge once it
// passes the configured size limit.
func (i *Ingester) ReadAll(r io.Reader) ([]byte, error) {
	if i.config.MaxDocumentBytes <= 0 {
		data, err := io.ReadAll(r)
		if err != nil {
			return nil, eris.Wrap(err, "ingest: read document")
		}
		return data, nil
	}

	data, err := io.ReadAll(io.LimitReader(r, i.config.MaxDocumentBytes+1))
	if err != nil {
		return nil, eris.Wrap(err, "ingest: read document")
	}
	if int64(len(data)) > i.config.MaxDocumentBytes {
		return nil, models.ErrTooLarge
	}
	return data, nil
}
