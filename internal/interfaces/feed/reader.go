// Package feed replays receipts from a JSON-lines source, one receipt per
// line, in file order.
package feed

import (
	"bufio"
	"context"
	"fmt"
	"io"
	"os"
	"strings"

	sonic "github.com/bytedance/sonic"
	"github.com/go-playground/validator/v10"

	"github.com/riskibarqy/hockey-indexer/internal/domain/receipt"
	"github.com/riskibarqy/hockey-indexer/internal/platform/logging"
	"github.com/riskibarqy/hockey-indexer/internal/usecase"
)

const (
	initialLineBuffer = 64 * 1024
	maxLineBytes      = 8 * 1024 * 1024

	// StdinPath selects standard input as the feed source.
	StdinPath = "-"
)

type Processor interface {
	Process(ctx context.Context, rc receipt.Receipt) usecase.Report
}

// Stats summarizes one Consume run.
type Stats struct {
	Lines     int
	Receipts  int
	Malformed int
	Applied   int
	Skipped   int
	Rejected  int
}

type Reader struct {
	processor Processor
	logger    *logging.Logger
	validator *validator.Validate
}

func NewReader(processor Processor, logger *logging.Logger) *Reader {
	if logger == nil {
		logger = logging.Default()
	}
	return &Reader{
		processor: processor,
		logger:    logger,
		validator: validator.New(),
	}
}

// Open resolves a feed path. StdinPath returns standard input itself, so
// closing it unblocks a pending read.
func Open(path string) (io.ReadCloser, error) {
	path = strings.TrimSpace(path)
	switch path {
	case "":
		return nil, fmt.Errorf("feed path is empty")
	case StdinPath:
		return os.Stdin, nil
	}

	file, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("open feed %s: %w", path, err)
	}
	return file, nil
}

// Consume processes every receipt in src until EOF or ctx is done. Lines that
// do not decode into a receipt are logged and counted, never fatal.
func (r *Reader) Consume(ctx context.Context, src io.Reader) (Stats, error) {
	var stats Stats

	scanner := bufio.NewScanner(src)
	scanner.Buffer(make([]byte, 0, initialLineBuffer), maxLineBytes)

	for scanner.Scan() {
		if err := ctx.Err(); err != nil {
			return stats, err
		}
		stats.Lines++

		line := strings.TrimSpace(scanner.Text())
		if line == "" {
			continue
		}

		rc, err := r.decode(ctx, line)
		if err != nil {
			stats.Malformed++
			r.logger.WarnContext(ctx, "skip malformed feed line",
				"line", stats.Lines,
				"class", usecase.ClassMalformedInput,
				"error", err,
			)
			continue
		}

		report := r.processor.Process(ctx, rc)
		stats.Receipts++
		stats.Applied += report.Count(usecase.ActionApplied)
		stats.Skipped += report.Count(usecase.ActionSkipped)
		stats.Rejected += report.Count(usecase.ActionRejected)
	}
	if err := scanner.Err(); err != nil {
		return stats, fmt.Errorf("read feed line %d: %w", stats.Lines+1, err)
	}

	r.logger.InfoContext(ctx, "receipt feed drained",
		"lines", stats.Lines,
		"receipts", stats.Receipts,
		"malformed", stats.Malformed,
		"applied", stats.Applied,
		"skipped", stats.Skipped,
		"rejected", stats.Rejected,
	)
	return stats, nil
}

func (r *Reader) decode(ctx context.Context, line string) (receipt.Receipt, error) {
	var rc receipt.Receipt
	if err := sonic.ConfigStd.UnmarshalFromString(line, &rc); err != nil {
		return receipt.Receipt{}, fmt.Errorf("%w: decode receipt: %v", usecase.ErrInvalidInput, err)
	}
	if err := r.validator.StructCtx(ctx, rc); err != nil {
		return receipt.Receipt{}, fmt.Errorf("%w: validate receipt: %v", usecase.ErrInvalidInput, err)
	}
	return rc, nil
}
