// Package catalog loads the static advice and quote tables from CSV files.
package catalog

import (
	"context"
	"encoding/csv"
	"errors"
	"fmt"
	"io"
	"io/fs"
	"os"
	"sort"
	"strings"

	"github.com/samber/lo"

	"github.com/okian/herocoach/internal/domain/model"
	"github.com/okian/herocoach/pkg/logger"
	"github.com/okian/herocoach/pkg/metrics"
)

const (
	adviceFields = 2 // label, text
	quoteFields  = 3 // text, author, labels
)

// Catalog is the parsed advice and quote data.
type Catalog struct {
	Advice []model.Advice
	Quotes []model.Quote
}

// Labels returns the sorted unique advice labels.
func (c *Catalog) Labels() []string {
	out := lo.Uniq(lo.Map(c.Advice, func(a model.Advice, _ int) string { return a.Label }))
	sort.Strings(out)
	return out
}

// TestData is the small built-in dataset used when the files are missing.
func TestData() *Catalog {
	return &Catalog{
		Advice: []model.Advice{
			{Label: "LOVE", Text: "Let us see what love can do."},
			{Label: "LISTENING", Text: "Listen with curiosity. Speak with honesty. Act with integrity."},
			{Label: "STEWARDSHIP", Text: "There are no problems we cannot solve together."},
		},
		Quotes: []model.Quote{
			{
				Text:   "If you're so afraid of failure, you will never succeed. You have to take chances.",
				Author: "Mario Andretti",
				Labels: []string{"Failure", "Chance", "Succeed"},
			},
		},
	}
}

// Loader reads catalog files.
type Loader struct {
	logger logger.Logger
}

// Option configures a Loader.
type Option func(*Loader)

// WithLogger sets a custom logger.
func WithLogger(l logger.Logger) Option {
	return func(ld *Loader) {
		if l != nil {
			ld.logger = l
		}
	}
}

// NewLoader creates a Loader.
func NewLoader(opts ...Option) *Loader {
	l := &Loader{logger: logger.Nop()}
	for _, opt := range opts {
		opt(l)
	}
	return l
}

// Load reads both catalogs. Any missing file yields ErrMissingResource.
func (l *Loader) Load(ctx context.Context, advicePath, quotesPath string) (*Catalog, error) {
	advice, err := l.LoadAdvice(ctx, advicePath)
	if err != nil {
		return nil, err
	}
	quotes, err := l.LoadQuotes(ctx, quotesPath)
	if err != nil {
		return nil, err
	}
	return &Catalog{Advice: advice, Quotes: quotes}, nil
}

// LoadAdvice reads an advice CSV file (label,text with a header row).
func (l *Loader) LoadAdvice(ctx context.Context, path string) ([]model.Advice, error) {
	f, err := open(path)
	if err != nil {
		return nil, err
	}
	defer f.Close()

	advice, err := l.ParseAdvice(ctx, f)
	if err != nil {
		return nil, fmt.Errorf("advice catalog %s: %w", path, err)
	}
	metrics.UpdateCatalogRows("advice", len(advice))
	l.logger.Info(ctx, "advice catalog loaded", logger.String("path", path), logger.Int("rows", len(advice)))
	return advice, nil
}

// LoadQuotes reads a quotes CSV file (text,author,labels with a header row).
func (l *Loader) LoadQuotes(ctx context.Context, path string) ([]model.Quote, error) {
	f, err := open(path)
	if err != nil {
		return nil, err
	}
	defer f.Close()

	quotes, err := l.ParseQuotes(ctx, f)
	if err != nil {
		return nil, fmt.Errorf("quotes catalog %s: %w", path, err)
	}
	metrics.UpdateCatalogRows("quotes", len(quotes))
	l.logger.Info(ctx, "quotes catalog loaded", logger.String("path", path), logger.Int("rows", len(quotes)))
	return quotes, nil
}

// ParseAdvice parses advice rows from r.
func (l *Loader) ParseAdvice(ctx context.Context, r io.Reader) ([]model.Advice, error) {
	var out []model.Advice
	err := l.eachRow(ctx, r, adviceFields, func(row []string) {
		out = append(out, model.Advice{
			Label: clean(row[0]),
			Text:  clean(row[1]),
		})
	})
	return out, err
}

// ParseQuotes parses quote rows from r. Unquoted labels spill into extra
// columns; every column from the third on is read as labels.
func (l *Loader) ParseQuotes(ctx context.Context, r io.Reader) ([]model.Quote, error) {
	var out []model.Quote
	err := l.eachRow(ctx, r, quoteFields, func(row []string) {
		var labels []string
		for _, col := range row[quoteFields-1:] {
			for _, lbl := range strings.Split(col, ",") {
				if lbl = clean(lbl); lbl != "" {
					labels = append(labels, lbl)
				}
			}
		}
		out = append(out, model.Quote{
			Text:   clean(row[0]),
			Author: clean(row[1]),
			Labels: labels,
		})
	})
	return out, err
}

// eachRow feeds every data row with at least minFields fields to fn.
// The header row is skipped, short or unparsable rows are dropped.
func (l *Loader) eachRow(ctx context.Context, r io.Reader, minFields int, fn func([]string)) error {
	reader := csv.NewReader(r)
	reader.FieldsPerRecord = -1
	reader.LazyQuotes = true
	reader.TrimLeadingSpace = true

	header := true
	for {
		if err := ctx.Err(); err != nil {
			return err
		}
		row, err := reader.Read()
		if errors.Is(err, io.EOF) {
			return nil
		}
		if err != nil {
			var perr *csv.ParseError
			if errors.As(err, &perr) {
				l.logger.Warn(ctx, "skipping unparsable catalog row", logger.Error(err))
				continue
			}
			return err
		}
		if header {
			header = false
			continue
		}
		if len(row) < minFields {
			line, _ := reader.FieldPos(0)
			l.logger.Warn(ctx, "skipping catalog row",
				logger.Error(fmt.Errorf("%w: line %d has %d fields, want %d", ErrMalformedRow, line, len(row), minFields)),
			)
			continue
		}
		fn(row)
	}
}

func open(path string) (*os.File, error) {
	f, err := os.Open(path)
	if errors.Is(err, fs.ErrNotExist) {
		return nil, fmt.Errorf("%w: %s", ErrMissingResource, path)
	}
	if err != nil {
		return nil, fmt.Errorf("open catalog %s: %w", path, err)
	}
	return f, nil
}

// clean trims whitespace and stray quote characters.
func clean(s string) string {
	return strings.TrimSpace(strings.ReplaceAll(s, `"`, ""))
}
