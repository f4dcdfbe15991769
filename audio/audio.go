// SPDX-License-Identifier: EPL-2.0

package audio

import (
	"context"
	"io"
	"path/filepath"
	"strings"
	"sync"
)

type Source interface {
	// SampleRate of the PCM stream in Hz.
	SampleRate() int
	// Channels count (e.g., 1=mono, 2=stereo).
	Channels() int
	// ReadSamples fills dst with interleaved float32 samples in [-1,1].
	// Returns number of float32 values written (not frames). When n == 0 with err == io.EOF, the stream is finished.
	ReadSamples(dst []float32) (n int, err error)
	BufSize() int
	// Close releases any resources.
	Close() error
}

// Decoder constructs a Source from an input reader.
type Decoder interface {
	Decode(r io.Reader) (Source, error)
}

// ContextDecoder is implemented by decoders whose work can be cancelled,
// such as the ones shelling out to an external tool.
type ContextDecoder interface {
	DecodeContext(ctx context.Context, r io.Reader) (Source, error)
}

// Prober is implemented by decoders that can recognise their container from
// its first bytes.
type Prober interface {
	Probe(header []byte) bool
}

// ProbeSize is how many leading bytes Detect hands to each Prober.
const ProbeSize = 64

// Registry for decoders by format key (e.g., "wav", "mp3", "ogg").
// A format can also be reached through aliases such as file extensions
// (".oga") or MIME types ("audio/mpeg"). Lookups are case insensitive.
type Registry struct {
	codecs  map[string]Decoder
	aliases map[string]string
	order   []string
	mtx     *sync.Mutex
}

func NewRegistry() *Registry {
	return &Registry{
		codecs:  make(map[string]Decoder),
		aliases: make(map[string]string),
		mtx:     &sync.Mutex{},
	}
}

// Register adds d under format. Registering the same format again replaces
// the decoder but keeps its detection priority.
func (r *Registry) Register(format string, d Decoder, aliases ...string) {
	r.mtx.Lock()
	defer r.mtx.Unlock()

	format = normalizeKey(format)
	if _, ok := r.codecs[format]; !ok {
		r.order = append(r.order, format)
	}
	r.codecs[format] = d

	for _, alias := range aliases {
		r.aliases[normalizeKey(alias)] = format
	}
}

// Get returns the decoder registered under a format name or alias.
func (r *Registry) Get(format string) (Decoder, bool) {
	r.mtx.Lock()
	defer r.mtx.Unlock()

	key := normalizeKey(format)
	if d, ok := r.codecs[key]; ok {
		return d, true
	}

	if target, ok := r.aliases[key]; ok {
		d, ok := r.codecs[target]
		return d, ok
	}

	return nil, false
}

// ForFile returns the decoder matching a file name's extension.
func (r *Registry) ForFile(name string) (Decoder, bool) {
	ext := filepath.Ext(name)
	if ext == "" {
		return nil, false
	}

	return r.Get(ext)
}

// Detect asks every registered Prober, in registration order, whether it
// recognises header.
func (r *Registry) Detect(header []byte) (string, Decoder, bool) {
	r.mtx.Lock()
	defer r.mtx.Unlock()

	if len(header) > ProbeSize {
		header = header[:ProbeSize]
	}

	for _, format := range r.order {
		p, ok := r.codecs[format].(Prober)
		if ok && p.Probe(header) {
			return format, r.codecs[format], true
		}
	}

	return "", nil, false
}

// Formats lists registered format names in registration order.
func (r *Registry) Formats() []string {
	r.mtx.Lock()
	defer r.mtx.Unlock()

	return append([]string(nil), r.order...)
}

func normalizeKey(key string) string {
	return strings.TrimPrefix(strings.ToLower(strings.TrimSpace(key)), ".")
}
