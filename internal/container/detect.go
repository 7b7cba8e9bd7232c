package container

import (
	"encoding/binary"

	"github.com/argent77/tile2ee-go/internal/tctypes"
)

// DetectFileType inspects data's signature (and, with assumeTis, its size)
// to classify it as TIS V1/V2 or MOS V1/V2, returning tctypes.FileUnknown
// when no recognized shape matches. Ported from Options::GetFileType.
func DetectFileType(data []byte, assumeTis bool) tctypes.FileType {
	if len(data) < 8 {
		return tctypes.FileUnknown
	}
	sig, ver := data[0:4], data[4:8]
	switch {
	case equal4(sig, sigTIS):
		if len(data) < headerSize24 {
			return tctypes.FileUnknown
		}
		size := binary.LittleEndian.Uint32(data[12:16])
		switch size {
		case tisTileSizeV1:
			return tctypes.FileTISV1
		case tisTileSizeV2:
			return tctypes.FileTISV2
		}
		return tctypes.FileUnknown
	case equal4(sig, sigMOS):
		switch {
		case equal4(ver, verV1):
			return tctypes.FileMOSV1
		case equal4(ver, verV2):
			return tctypes.FileMOSV2
		}
		return tctypes.FileUnknown
	case equal4(sig, sigMOSC):
		return tctypes.FileMOSV1
	default:
		if !assumeTis {
			return tctypes.FileUnknown
		}
		size := len(data)
		switch {
		case size%tisTileSizeV1 == 0 && size > 0:
			return tctypes.FileTISV1
		case size%tisTileSizeV2 == 0 && size > 0:
			return tctypes.FileTISV2
		}
		return tctypes.FileUnknown
	}
}
