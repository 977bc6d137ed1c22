//go:build windows

package client

import (
	"golang.org/x/sys/windows"
	"golang.org/x/text/encoding"
	"golang.org/x/text/encoding/charmap"
)

// consoleEncode transcodes UTF-8 payload bytes into the active console
// output codepage. UTF-8 consoles and codepages without a single-byte table
// pass through unchanged.
func consoleEncode(payload []byte) []byte {
	cp, err := windows.GetConsoleOutputCP()
	if err != nil {
		return payload
	}
	enc := encodingForCodePage(cp)
	if enc == nil {
		return payload
	}
	out, err := encoding.ReplaceUnsupported(enc.NewEncoder()).Bytes(payload)
	if err != nil {
		return payload
	}
	return out
}

func encodingForCodePage(cp uint32) encoding.Encoding {
	switch cp {
	case 437:
		return charmap.CodePage437
	case 850:
		return charmap.CodePage850
	case 852:
		return charmap.CodePage852
	case 855:
		return charmap.CodePage855
	case 858:
		return charmap.CodePage858
	case 860:
		return charmap.CodePage860
	case 862:
		return charmap.CodePage862
	case 863:
		return charmap.CodePage863
	case 865:
		return charmap.CodePage865
	case 866:
		return charmap.CodePage866
	case 874:
		return charmap.Windows874
	case 1250:
		return charmap.Windows1250
	case 1251:
		return charmap.Windows1251
	case 1252:
		return charmap.Windows1252
	case 1253:
		return charmap.Windows1253
	case 1254:
		return charmap.Windows1254
	case 1255:
		return charmap.Windows1255
	case 1256:
		return charmap.Windows1256
	case 1257:
		return charmap.Windows1257
	case 1258:
		return charmap.Windows1258
	default:
		// 65001 (UTF-8) and double-byte codepages: write raw bytes.
		return nil
	}
}
