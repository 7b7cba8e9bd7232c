package convert

import (
	"log"
	"os"

	"github.com/argent77/tile2ee-go/internal/binpack"
	"github.com/argent77/tile2ee-go/internal/tctypes"
)

// Options mirrors Options.cpp/Options.hpp's plain getter/setter bag: a flat
// exported struct, no config file or environment layer, following this
// module's ambient-configuration idiom of a caller-constructed options
// value passed straight into the entry point that needs it.
type Options struct {
	// QualityV1 selects the palette quantizer's speed/quality trade-off
	// (0..9); internally translated to quant's speed = 10-QualityV1.
	QualityV1 int
	// QualityV2 selects the block-compression encoder's quality tier
	// (0..9), threaded through to every atlasPage's Texture.Quality and
	// from there into bcn.EncodeBC1/EncodeBC3's wbcn.EncodeOptions.Quality
	// (see DESIGN.md for the tier-to-Quality-level mapping).
	QualityV2 int

	// TisPage is the starting PVRZ page index assigned to TIS V2 output
	// (must keep TisPage+pageCount <= 100).
	TisPage int
	// MosIndex is the starting PVRZ index assigned to MOS V2 output.
	MosIndex int
	// OverwritePvrz disables the existing-file scan that otherwise skips
	// ahead to the first unused MOS PVRZ index.
	OverwritePvrz bool

	// Mosc wraps MOS V1 output as a compressed MOSC container.
	Mosc bool

	// Threads bounds the worker pool; 0 autodetects via runtime.NumCPU().
	Threads int

	// SearchPaths are additional directories searched (after the input
	// file's own directory) for a referenced PVRZ file during V2->V1
	// conversion.
	SearchPaths []string

	// AssumeTis enables headerless-TIS detection for files lacking a
	// recognized signature.
	AssumeTis bool
	// HaltOnError is reserved for a multi-file batch driver (§6); a single
	// conversion entry point always halts on its own first error.
	HaltOnError bool
	// Silent suppresses progress output on Logger.
	Silent bool

	// Format is the in-memory pixel channel order every conversion stage
	// works in internally. Defaults to tctypes.ARGB.
	Format tctypes.ColorFormat
	// Rule selects the bin-packing heuristic used to place tiles/blocks
	// onto PVRZ pages. Defaults to binpack.BestShortSideFit, the original
	// tool's BIN_RULE.
	Rule binpack.Rule

	Logger *log.Logger
}

// DefaultOptions returns an Options value with the same defaults Options.hpp
// wires up in its member initializers.
func DefaultOptions() *Options {
	return &Options{
		QualityV1: 9,
		QualityV2: 9,
		TisPage:   0,
		MosIndex:  0,
		Threads:   0,
		Format:    tctypes.ARGB,
		Rule:      binpack.BestShortSideFit,
		Logger:    log.New(os.Stderr, "", 0),
	}
}

func (o *Options) logf(format string, args ...interface{}) {
	if o.Silent || o.Logger == nil {
		return
	}
	o.Logger.Printf(format, args...)
}

// quantSpeed maps the user-facing quality knob to quant's speed parameter.
func (o *Options) quantSpeed() int {
	return 10 - o.QualityV1
}
