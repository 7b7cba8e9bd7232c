package container

import (
	"testing"

	"github.com/argent77/tile2ee-go/internal/binio"
	"github.com/argent77/tile2ee-go/internal/tctypes"
)

func TestDetectFileTypeTisV1(t *testing.T) {
	w := binio.NewWriter(0)
	WriteTisHeader(w, 1, true)
	if got := DetectFileType(w.Bytes(), false); got != tctypes.FileTISV1 {
		t.Fatalf("DetectFileType = %v, want FileTISV1", got)
	}
}

func TestDetectFileTypeTisV2(t *testing.T) {
	w := binio.NewWriter(0)
	WriteTisHeader(w, 1, false)
	if got := DetectFileType(w.Bytes(), false); got != tctypes.FileTISV2 {
		t.Fatalf("DetectFileType = %v, want FileTISV2", got)
	}
}

func TestDetectFileTypeMosV1(t *testing.T) {
	layout := PlanMosV1Layout(tctypes.TileDim, tctypes.TileDim)
	buf := NewMosV1Buffer(layout)
	if got := DetectFileType(buf, false); got != tctypes.FileMOSV1 {
		t.Fatalf("DetectFileType = %v, want FileMOSV1", got)
	}
}

func TestDetectFileTypeMosc(t *testing.T) {
	layout := PlanMosV1Layout(tctypes.TileDim, tctypes.TileDim)
	buf := NewMosV1Buffer(layout)
	mosc := WriteMosV1(buf, true)
	if got := DetectFileType(mosc, false); got != tctypes.FileMOSV1 {
		t.Fatalf("DetectFileType = %v, want FileMOSV1 (MOSC wraps V1)", got)
	}
}

func TestDetectFileTypeMosV2(t *testing.T) {
	w := binio.NewWriter(0)
	WriteMosV2Header(w, MosV2Header{Width: 64, Height: 64, NumBlocks: 1, OfsBlocks: 0x18})
	if got := DetectFileType(w.Bytes(), false); got != tctypes.FileMOSV2 {
		t.Fatalf("DetectFileType = %v, want FileMOSV2", got)
	}
}

func TestDetectFileTypeHeaderlessRequiresAssumeTis(t *testing.T) {
	data := make([]byte, tisTileSizeV1*2)
	if got := DetectFileType(data, false); got != tctypes.FileUnknown {
		t.Fatalf("DetectFileType = %v, want FileUnknown without assumeTis", got)
	}
	if got := DetectFileType(data, true); got != tctypes.FileTISV1 {
		t.Fatalf("DetectFileType = %v, want FileTISV1 with assumeTis", got)
	}
}

func TestDetectFileTypeUnknownSignature(t *testing.T) {
	data := []byte("GARBAGE!")
	if got := DetectFileType(data, false); got != tctypes.FileUnknown {
		t.Fatalf("DetectFileType = %v, want FileUnknown", got)
	}
}

func TestDetectFileTypeTooShort(t *testing.T) {
	if got := DetectFileType([]byte{1, 2, 3}, true); got != tctypes.FileUnknown {
		t.Fatalf("DetectFileType = %v, want FileUnknown for short input", got)
	}
}
