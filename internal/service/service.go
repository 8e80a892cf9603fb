// Package service connects path validation, decoding and extraction.
package service

import (
	"context"
	"fmt"
	"os"
	"path/filepath"
	"sort"

	"github.com/google/uuid"
	"go.uber.org/zap"
	"golang.org/x/sync/errgroup"

	"github.com/a3tai/infratrack/internal/config"
	"github.com/a3tai/infratrack/internal/document"
	"github.com/a3tai/infratrack/internal/export"
	"github.com/a3tai/infratrack/internal/extract"
	"github.com/a3tai/infratrack/internal/security"
)

// Result is the record extracted from one document.
type Result struct {
	Record     extract.Record
	SourceFile string
}

// Entry converts the result for export.
func (r Result) Entry() export.Entry {
	return export.Entry{Record: r.Record, SourceFile: r.SourceFile}
}

// Failure records a document that could not be decoded.
type Failure struct {
	Path string
	Err  error
}

func (f Failure) Error() string {
	return fmt.Sprintf("%s: %v", f.Path, f.Err)
}

func (f Failure) Unwrap() error {
	return f.Err
}

// Batch holds the outcome of a multi-document run. Results and Failures
// each keep input order.
type Batch struct {
	ID       string
	Results  []Result
	Failures []Failure
}

// Entries converts every result for export.
func (b *Batch) Entries() []export.Entry {
	entries := make([]export.Entry, 0, len(b.Results))
	for _, r := range b.Results {
		entries = append(entries, r.Entry())
	}
	return entries
}

// Service extracts project records from report files.
type Service struct {
	decoder   document.Decoder
	content   *document.JSONDecoder
	extractor *extract.Extractor
	validator *security.PathValidator
	workers   int
	logger    *zap.Logger
}

// Option configures a Service.
type Option func(*Service)

// WithDecoder replaces the file decoder.
func WithDecoder(d document.Decoder) Option {
	return func(s *Service) { s.decoder = d }
}

// WithExtractor replaces the extractor.
func WithExtractor(e *extract.Extractor) Option {
	return func(s *Service) { s.extractor = e }
}

// WithValidator bounds every file access to the validator's directory.
func WithValidator(v *security.PathValidator) Option {
	return func(s *Service) { s.validator = v }
}

// WithWorkers sets how many documents a batch decodes at once.
func WithWorkers(n int) Option {
	return func(s *Service) {
		if n > 0 {
			s.workers = n
		}
	}
}

// WithLogger sets the logger.
func WithLogger(l *zap.Logger) Option {
	return func(s *Service) {
		if l != nil {
			s.logger = l
		}
	}
}

// New creates a Service reading files up to maxFileSize bytes.
func New(maxFileSize int64, opts ...Option) (*Service, error) {
	content, err := document.NewJSONDecoder(maxFileSize)
	if err != nil {
		return nil, err
	}
	router := &document.Router{
		PDF:  document.NewPDFDecoder(maxFileSize),
		JSON: content,
	}

	s := &Service{
		decoder:   router,
		content:   content,
		extractor: extract.New(),
		workers:   config.DefaultWorkers,
		logger:    zap.NewNop(),
	}
	for _, opt := range opts {
		opt(s)
	}
	return s, nil
}

// NewFromConfig creates a Service from configuration. In stdio mode file
// access is bounded to the configured directory.
func NewFromConfig(cfg *config.Config, logger *zap.Logger) (*Service, error) {
	opts := []Option{WithWorkers(cfg.Workers), WithLogger(logger)}
	if cfg.IsStdioMode() {
		v, err := security.NewPathValidator(cfg.Directory)
		if err != nil {
			return nil, err
		}
		opts = append(opts, WithValidator(v))
	}
	return New(cfg.MaxFileSize, opts...)
}

// Directory returns the bounding directory, or "" when unbounded.
func (s *Service) Directory() string {
	if s.validator == nil {
		return ""
	}
	return s.validator.Root()
}

// ExtractContent runs extraction on already decoded content.
func (s *Service) ExtractContent(content document.Content) extract.Record {
	return s.extractor.Extract(content)
}

// ExtractContentJSON decodes the JSON interchange form and extracts it.
func (s *Service) ExtractContentJSON(data []byte) (extract.Record, error) {
	content, err := s.content.Parse(data)
	if err != nil {
		return extract.Record{}, err
	}
	return s.extractor.Extract(*content), nil
}

// ExtractFile decodes and extracts one report.
func (s *Service) ExtractFile(ctx context.Context, path string) (Result, error) {
	resolved, err := s.resolve(path)
	if err != nil {
		return Result{}, err
	}

	content, err := s.decoder.Decode(ctx, resolved)
	if err != nil {
		s.logger.Warn("document.decode_failed",
			zap.String("path", resolved),
			zap.Error(err),
		)
		return Result{}, err
	}

	rec := s.extractor.Extract(*content)
	s.logger.Info("document.extracted",
		zap.String("path", resolved),
		zap.String("project_id", rec.ProjectID),
		zap.Int("fields_found", rec.FilledCount()),
		zap.Int("tables", len(content.Tables)),
		zap.String("status_flag", rec.StatusFlag),
		zap.String("completeness", Completeness(rec)),
	)
	return Result{Record: rec, SourceFile: resolved}, nil
}

// ExtractDirectory extracts every supported file directly inside dir.
// An empty dir means the bounding directory.
func (s *Service) ExtractDirectory(ctx context.Context, dir string) (*Batch, error) {
	if dir == "" {
		dir = s.Directory()
	}
	if dir == "" {
		return nil, fmt.Errorf("directory cannot be empty")
	}

	resolved, err := s.resolve(dir)
	if err != nil {
		return nil, err
	}
	if s.validator != nil {
		if err := s.validator.ValidateDirectory(resolved); err != nil {
			return nil, err
		}
	}

	paths, err := ListReports(resolved)
	if err != nil {
		return nil, err
	}
	return s.ExtractFiles(ctx, paths)
}

// ExtractPaths extracts the given files and the supported files inside
// the given directories. With a validator, an input outside the bounding
// directory is never listed; it ends up as a Failure instead.
func (s *Service) ExtractPaths(ctx context.Context, inputs []string) (*Batch, error) {
	var paths []string
	for _, in := range inputs {
		target := in
		if s.validator != nil {
			resolved, err := s.validator.Resolve(in)
			if err != nil {
				paths = append(paths, in)
				continue
			}
			target = resolved
		}
		info, err := os.Stat(target)
		if err == nil && info.IsDir() {
			found, err := ListReports(target)
			if err != nil {
				return nil, err
			}
			paths = append(paths, found...)
			continue
		}
		// Missing files are reported as failures by ExtractFiles.
		paths = append(paths, in)
	}
	return s.ExtractFiles(ctx, paths)
}

// ExtractFiles extracts paths concurrently. A document that fails to decode
// becomes a Failure and does not stop the batch; only context
// cancellation aborts it.
func (s *Service) ExtractFiles(ctx context.Context, paths []string) (*Batch, error) {
	batchID := uuid.NewString()
	logger := s.logger.With(zap.String("batch_id", batchID))
	logger.Debug("batch.started", zap.Int("documents", len(paths)), zap.Int("workers", s.workers))

	results := make([]Result, len(paths))
	errs := make([]error, len(paths))

	g, gctx := errgroup.WithContext(ctx)
	g.SetLimit(s.workers)

	for i, path := range paths {
		g.Go(func() error {
			if err := gctx.Err(); err != nil {
				return err
			}
			res, err := s.ExtractFile(gctx, path)
			if err != nil {
				if ctxErr := gctx.Err(); ctxErr != nil {
					return ctxErr
				}
				errs[i] = err
				return nil
			}
			results[i] = res
			return nil
		})
	}
	if err := g.Wait(); err != nil {
		return nil, err
	}

	batch := &Batch{ID: batchID}
	for i, path := range paths {
		if errs[i] != nil {
			batch.Failures = append(batch.Failures, Failure{Path: path, Err: errs[i]})
			continue
		}
		batch.Results = append(batch.Results, results[i])
	}

	logger.Info("batch.completed",
		zap.Int("documents", len(paths)),
		zap.Int("extracted", len(batch.Results)),
		zap.Int("failed", len(batch.Failures)),
	)
	return batch, nil
}

// ListReports returns the supported files directly inside dir, sorted by
// name.
func ListReports(dir string) ([]string, error) {
	entries, err := os.ReadDir(dir)
	if err != nil {
		return nil, fmt.Errorf("read directory %s: %w", dir, err)
	}

	var paths []string
	for _, e := range entries {
		if !e.Type().IsRegular() || !document.IsSupported(e.Name()) {
			continue
		}
		paths = append(paths, filepath.Join(dir, e.Name()))
	}
	sort.Strings(paths)
	return paths, nil
}

func (s *Service) resolve(path string) (string, error) {
	if s.validator != nil {
		return s.validator.Resolve(path)
	}
	if path == "" {
		return "", fmt.Errorf("%w: path cannot be empty", document.ErrDecodeFailed)
	}
	abs, err := filepath.Abs(path)
	if err != nil {
		return "", fmt.Errorf("failed to resolve path: %w", err)
	}
	return abs, nil
}
