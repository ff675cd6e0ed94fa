package table

import (
	"fmt"
	"net/url"
	"strings"
	"sync"
)

// Opener builds a source or sink for a URL location
type Opener interface {
	OpenSource(u *url.URL) (Source, error)
	OpenSink(u *url.URL) (Sink, error)
}

var (
	openersMu sync.RWMutex
	openers   = map[string]Opener{}
)

// RegisterScheme makes a backend available to Open for the given URL schemes
func RegisterScheme(o Opener, schemes ...string) {
	openersMu.Lock()
	defer openersMu.Unlock()
	for _, s := range schemes {
		openers[strings.ToLower(s)] = o
	}
}

func lookupOpener(location string) (Opener, *url.URL, bool) {
	i := strings.Index(location, "://")
	if i <= 0 {
		return nil, nil, false
	}
	openersMu.RLock()
	o, ok := openers[strings.ToLower(location[:i])]
	openersMu.RUnlock()
	if !ok {
		return nil, nil, false
	}
	u, err := url.Parse(location)
	if err != nil {
		return nil, nil, false
	}
	return o, u, true
}

// OpenSource returns the source for a location. Locations whose scheme has a
// registered backend go to that backend, anything else is a CSV path.
func OpenSource(location string, opts CSVOptions) (Source, error) {
	if o, u, ok := lookupOpener(location); ok {
		src, err := o.OpenSource(u)
		if err != nil {
			return nil, fmt.Errorf("failed to open source %s: %w", Redact(location), err)
		}
		return src, nil
	}
	return NewCSVSource(location, opts)
}

// OpenSink is the write side of OpenSource
func OpenSink(location string, opts CSVOptions) (Sink, error) {
	if o, u, ok := lookupOpener(location); ok {
		sink, err := o.OpenSink(u)
		if err != nil {
			return nil, fmt.Errorf("failed to open sink %s: %w", Redact(location), err)
		}
		return sink, nil
	}
	return NewCSVSink(location, opts)
}

// Redact hides the password of a URL location so it can be logged
func Redact(location string) string {
	if !strings.Contains(location, "://") {
		return location
	}
	u, err := url.Parse(location)
	if err != nil {
		return location
	}
	return u.Redacted()
}
