package table

import (
	"fmt"
	"strings"

	"golang.org/x/text/encoding"
	"golang.org/x/text/encoding/charmap"
	"golang.org/x/text/encoding/htmlindex"
	"golang.org/x/text/encoding/unicode"
)

// Encoding names accepted by the CSV backend. Any other WHATWG label
// (for example "shift_jis") is resolved through htmlindex.
const (
	EncodingLatin1      = "latin1"
	EncodingWindows1252 = "windows-1252"
	EncodingUTF8        = "utf-8"
	EncodingUTF8BOM     = "utf-8-sig"
)

// Codec pairs the decoder used when reading with the encoder used when
// writing a named text encoding
type Codec struct {
	Name string
	dec  encoding.Encoding
	enc  encoding.Encoding
}

// NewDecoder returns a fresh decoder
func (c Codec) NewDecoder() *encoding.Decoder {
	return c.dec.NewDecoder()
}

// NewEncoder returns a fresh encoder
func (c Codec) NewEncoder() *encoding.Encoder {
	return c.enc.NewEncoder()
}

// LookupCodec resolves an encoding name. UTF-8 input is BOM tolerant,
// UTF-8 output is written without a BOM unless utf-8-sig is requested.
func LookupCodec(name string) (Codec, error) {
	key := strings.ToLower(strings.TrimSpace(name))
	key = strings.ReplaceAll(key, "_", "-")

	switch key {
	case "", "utf-8", "utf8":
		return Codec{Name: EncodingUTF8, dec: unicode.UTF8BOM, enc: unicode.UTF8}, nil
	case "utf-8-sig", "utf8-sig":
		return Codec{Name: EncodingUTF8BOM, dec: unicode.UTF8BOM, enc: unicode.UTF8BOM}, nil
	case "latin1", "latin-1", "iso-8859-1", "iso8859-1", "l1":
		return Codec{Name: EncodingLatin1, dec: charmap.ISO8859_1, enc: charmap.ISO8859_1}, nil
	case "windows-1252", "cp1252":
		return Codec{Name: EncodingWindows1252, dec: charmap.Windows1252, enc: charmap.Windows1252}, nil
	}

	enc, err := htmlindex.Get(key)
	if err != nil {
		return Codec{}, fmt.Errorf("%w: %q", ErrUnsupportedEncoding, name)
	}
	return Codec{Name: key, dec: enc, enc: enc}, nil
}
