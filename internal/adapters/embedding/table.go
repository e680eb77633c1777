package embedding

import (
	"bufio"
	"context"
	"fmt"
	"io"
	"os"
	"strconv"
	"strings"

	"github.com/okian/herocoach/pkg/logger"
)

const maxLineBytes = 1 << 20

// VectorTable is an in-memory word vector table. It is read-only after
// construction and safe for concurrent use.
type VectorTable struct {
	vectors map[string][]float32
	dim     int
}

// NewVectorTable wraps vectors; keys are lowercased.
func NewVectorTable(vectors map[string][]float32) *VectorTable {
	t := &VectorTable{vectors: make(map[string][]float32, len(vectors))}
	for w, v := range vectors {
		t.vectors[strings.ToLower(w)] = v
		if t.dim == 0 {
			t.dim = len(v)
		}
	}
	return t
}

// LoadVectorTable reads a GloVe or word2vec text file from path.
func LoadVectorTable(ctx context.Context, path string, log logger.Logger) (*VectorTable, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("open vectors %s: %w", path, err)
	}
	defer f.Close()

	t, err := ReadVectorTable(ctx, f)
	if err != nil {
		return nil, fmt.Errorf("vectors %s: %w", path, err)
	}
	if log != nil {
		log.Info(ctx, "word vectors loaded",
			logger.String("path", path),
			logger.Int("words", t.Len()),
			logger.Int("dim", t.dim),
		)
	}
	return t, nil
}

// ReadVectorTable parses "word v1 v2 ..." lines. A leading word2vec
// "count dim" header is skipped, as are lines whose dimension differs from
// the first vector.
func ReadVectorTable(ctx context.Context, r io.Reader) (*VectorTable, error) {
	t := &VectorTable{vectors: make(map[string][]float32)}

	sc := bufio.NewScanner(r)
	sc.Buffer(make([]byte, 0, 64*1024), maxLineBytes)
	first := true
	for sc.Scan() {
		if err := ctx.Err(); err != nil {
			return nil, err
		}
		fields := strings.Fields(sc.Text())
		if first {
			first = false
			if isHeader(fields) {
				continue
			}
		}
		if len(fields) < 2 {
			continue
		}
		vec, ok := parseVector(fields[1:])
		if !ok {
			continue
		}
		if t.dim == 0 {
			t.dim = len(vec)
		}
		if len(vec) != t.dim {
			continue
		}
		t.vectors[strings.ToLower(fields[0])] = vec
	}
	if err := sc.Err(); err != nil {
		return nil, err
	}
	if len(t.vectors) == 0 {
		return nil, ErrNoVectors
	}
	return t, nil
}

func isHeader(fields []string) bool {
	if len(fields) != 2 {
		return false
	}
	_, err1 := strconv.Atoi(fields[0])
	_, err2 := strconv.Atoi(fields[1])
	return err1 == nil && err2 == nil
}

func parseVector(fields []string) ([]float32, bool) {
	vec := make([]float32, len(fields))
	for i, f := range fields {
		v, err := strconv.ParseFloat(f, 32)
		if err != nil {
			return nil, false
		}
		vec[i] = float32(v)
	}
	return vec, true
}

// Len is the number of words in the table.
func (t *VectorTable) Len() int { return len(t.vectors) }

// Similarity returns the cosine similarity of two words.
func (t *VectorTable) Similarity(_ context.Context, a, b string) (float64, error) {
	va, ok := t.vectors[strings.ToLower(a)]
	if !ok {
		return 0, fmt.Errorf("%w: %q", ErrUnknownWord, a)
	}
	vb, ok := t.vectors[strings.ToLower(b)]
	if !ok {
		return 0, fmt.Errorf("%w: %q", ErrUnknownWord, b)
	}
	return cosine(va, vb), nil
}
