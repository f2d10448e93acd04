package svg2img

import (
	"encoding/base64"
	"encoding/hex"
	"fmt"

	"golang.org/x/text/encoding"
	"golang.org/x/text/encoding/charmap"
	"golang.org/x/text/encoding/unicode"

	"github.com/alnah/go-svg2img/internal/fileutil"
)

// Encoding selects the textual form of a conversion result.
type Encoding string

// Supported output encodings. The names follow the ones Node.js buffers
// accept, so results can be fed to the same consumers.
const (
	EncodingNone      Encoding = ""
	EncodingBase64    Encoding = "base64"
	EncodingBase64URL Encoding = "base64url"
	EncodingHex       Encoding = "hex"
	EncodingUTF8      Encoding = "utf8"
	EncodingASCII     Encoding = "ascii"
	EncodingLatin1    Encoding = "latin1"
	EncodingBinary    Encoding = "binary"
	EncodingUTF16LE   Encoding = "utf16le"
	EncodingUCS2      Encoding = "ucs2"
)

// IsSupported reports whether e names a known encoding.
func (e Encoding) IsSupported() bool {
	switch e {
	case EncodingNone, EncodingBase64, EncodingBase64URL, EncodingHex, EncodingUTF8,
		EncodingASCII, EncodingLatin1, EncodingBinary, EncodingUTF16LE, EncodingUCS2:
		return true
	}
	return false
}

// Result is the outcome of a conversion.
// Data always holds the decoded image. Text is set only when an Encoding was
// requested.
type Result struct {
	Data     []byte
	Text     string
	Encoding Encoding
}

// IsText reports whether the caller asked for a textual result.
func (r *Result) IsText() bool {
	return r.Encoding != EncodingNone
}

// filePermissions for written images: rw-r--r--.
const filePermissions = 0o644

// decodeOutput turns the base64 payload returned by the page into a Result,
// writing the decoded image to path first when path is set.
func decodeOutput(payload, path string, enc Encoding) (*Result, error) {
	data, err := base64.StdEncoding.DecodeString(payload)
	if err != nil {
		return nil, fmt.Errorf("%w: malformed image data: %v", ErrRender, err)
	}

	if path != "" {
		if err := fileutil.WriteFileAtomic(path, data, filePermissions); err != nil {
			return nil, fmt.Errorf("%w: %v", ErrWriteOutput, err)
		}
	}

	res := &Result{Data: data, Encoding: enc}
	switch enc {
	case EncodingNone:
	case EncodingBase64:
		res.Text = payload
	default:
		text, err := encodeText(data, enc)
		if err != nil {
			return nil, err
		}
		res.Text = text
	}
	return res, nil
}

// encodeText reinterprets data using a textual encoding other than base64.
func encodeText(data []byte, enc Encoding) (string, error) {
	switch enc {
	case EncodingBase64URL:
		return base64.RawURLEncoding.EncodeToString(data), nil
	case EncodingHex:
		return hex.EncodeToString(data), nil
	}

	var dec encoding.Encoding
	switch enc {
	case EncodingUTF8:
		dec = unicode.UTF8
	case EncodingASCII:
		// ascii drops the high bit of every byte.
		masked := make([]byte, len(data))
		for i, b := range data {
			masked[i] = b & 0x7f
		}
		data = masked
		dec = charmap.ISO8859_1
	case EncodingLatin1, EncodingBinary:
		dec = charmap.ISO8859_1
	case EncodingUTF16LE, EncodingUCS2:
		// A trailing odd byte is dropped, not replaced.
		data = data[:len(data)&^1]
		dec = unicode.UTF16(unicode.LittleEndian, unicode.IgnoreBOM)
	default:
		return "", fmt.Errorf("%w: %q", ErrUnsupportedEncoding, enc)
	}

	out, err := dec.NewDecoder().Bytes(data)
	if err != nil {
		return "", fmt.Errorf("decoding %s: %w", enc, err)
	}
	return string(out), nil
}
