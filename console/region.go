package console

import (
	"fmt"
	"io"
	"sync"

	"github.com/elmanelman/judge-submit/render"
	"go.uber.org/zap"
)

type Format string

const (
	FormatText Format = "text"
	FormatHTML Format = "html"
)

func ParseFormat(s string) (Format, error) {
	switch Format(s) {
	case FormatText, FormatHTML:
		return Format(s), nil
	default:
		return "", fmt.Errorf("unknown output format: %s", s)
	}
}

// Region is the result display. Only the latest block is kept.
type Region struct {
	logger *zap.Logger

	mu     sync.Mutex
	out    io.Writer
	format Format
	color  bool
	last   render.Block
}

func NewRegion(logger *zap.Logger, out io.Writer, format Format, color bool) *Region {
	return &Region{logger: logger, out: out, format: format, color: color}
}

func (r *Region) Show(b render.Block) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.last = b

	var err error
	switch r.format {
	case FormatHTML:
		err = render.HTML(r.out, b)
	default:
		err = render.Text(r.out, b, r.color)
	}
	if err != nil {
		r.logger.Error("failed to render result", zap.Error(err))
	}
}

func (r *Region) Last() render.Block {
	r.mu.Lock()
	defer r.mu.Unlock()
	return r.last
}
