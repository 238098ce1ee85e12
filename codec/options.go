package codec

// DefaultMaxDepth bounds value nesting for encoders and decoders.
const DefaultMaxDepth = 256

// Option configures an Encoder or Decoder.
type Option func(*settings)

type settings struct {
	maxDepth int
}

func newSettings(opts []Option) settings {
	s := settings{maxDepth: DefaultMaxDepth}
	for _, opt := range opts {
		opt(&s)
	}
	return s
}

// WithMaxDepth sets the nesting limit. Values of n below 1 keep the default.
func WithMaxDepth(n int) Option {
	return func(s *settings) {
		if n > 0 {
			s.maxDepth = n
		}
	}
}

func appendPath(path []string, seg string) []string {
	return append(path[:len(path):len(path)], seg)
}

// indexPath attaches "[i]" to the last path segment.
func indexPath(path []string, i int) []string {
	seg := "[" + itoa(i) + "]"
	if len(path) == 0 {
		return []string{seg}
	}
	out := make([]string, len(path))
	copy(out, path)
	out[len(out)-1] += seg
	return out
}

func clonePath(path []string) []string {
	if len(path) == 0 {
		return nil
	}
	return append([]string(nil), path...)
}
