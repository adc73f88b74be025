package lang

import (
	"bytes"
	"context"
	"encoding/gob"
	"io"
	"log/slog"
	"strconv"
	"sync"

	"github.com/klauspost/readahead"
	"github.com/zeebo/xxh3"
)

// globalCache memoizes parse results process-wide, keyed by a hash of
// the source content combined with the option fields that affect
// parsing. Cached programs are immutable and shared between callers.
var globalCache sync.Map

// state is one cache slot. The once gate ensures a given source is
// parsed exactly once even under concurrent first use.
type state struct {
	once sync.Once
	prog *Program
	err  error
}

// hashOptions encodes options using gob and hashes with xxh3.
// Returns a hash that uniquely identifies the options configuration.
func hashOptions(key optionsKey) uint64 {
	var buf bytes.Buffer

	enc := gob.NewEncoder(&buf)

	// Encode relevant options fields
	_ = enc.Encode(key.maxDepth)

	return xxh3.Hash(buf.Bytes())
}

// ParseReader parses a program from an io.Reader.
func ParseReader(
	ctx context.Context,
	r io.Reader,
	opts ...Option,
) (*Program, error) {
	// Wrap reader with async read-ahead for concurrent I/O.
	// This allows data to be pre-fetched while we process previous chunks.
	ra := readahead.NewReader(r)
	defer ra.Close()

	source, err := io.ReadAll(ra)
	if err != nil {
		return nil, WrapError(err)
	}

	return Parse(ctx, source, opts...)
}

// parseCached returns the memoized parse of source, parsing on first
// use. Callers that re-parse identical source with identical options
// receive the same *Program.
func parseCached(ctx context.Context, source []byte, o options) (*Program, error) {
	sourceHash := xxh3.Hash(source)
	optsHash := hashOptions(o.key())
	combinedHash := sourceHash ^ optsHash
	sourceKey := strconv.FormatUint(combinedHash, 36)

	// Get or create the cache entry
	entry := new(state)
	value, cacheHit := globalCache.LoadOrStore(sourceKey, entry)

	cached, ok := value.(*state)
	if !ok {
		return nil, NewError("invalid entry type in cache").
			With(slog.String("key", sourceKey))
	}

	o.logger.TraceContext(ctx, "parse cache",
		slog.String("key", sourceKey),
		slog.Bool("hit", cacheHit),
	)

	cached.once.Do(func() {
		cached.prog, cached.err = parse(ctx, source, o)
	})

	return cached.prog, cached.err
}

// ClearCache removes all cached parse results.
// This is primarily useful for testing or when memory needs to be reclaimed.
func ClearCache() {
	globalCache = sync.Map{}
}
