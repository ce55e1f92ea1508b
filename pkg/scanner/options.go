package scanner

import "log/slog"

// Option configures a Scanner.
type Option func(*Scanner)

// WithSession shares an existing session. Its interface prefix wins over
// WithConfig.
func WithSession(s *Session) Option {
	return func(sc *Scanner) {
		sc.session = s
	}
}

// WithConfig sets the configuration used to build the scanner's own session.
func WithConfig(cfg Config) Option {
	return func(sc *Scanner) {
		sc.config = cfg
	}
}

// WithLogger sets the structured logger. Scanners log nothing by default.
func WithLogger(l *slog.Logger) Option {
	return func(sc *Scanner) {
		sc.logger = l
	}
}
