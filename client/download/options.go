package download

import (
	"errors"
	"hash"
	"os"
)

// Option defines optional settings for staging an archive.
//
// WithChecksum validates the staged file against a hex-encoded digest.
//
// WithProgress enables periodic progress logging via the logger
// supplied to ToTemp or Unpack.
//
// WithTempDir stages the body in dir instead of the system temp dir.
type Option func(*options) error

type options struct {
	checksum *checksumVerifier
	progress bool
	tempDir  string
}

func WithChecksum(h hash.Hash, expected string) Option {
	return func(opts *options) error {
		if h == nil {
			return errors.New("hash must not be nil")
		}

		if expected == "" {
			return errors.New("expected checksum must not be empty")
		}

		opts.checksum = &checksumVerifier{hash: h, expected: expected}
		return nil
	}
}

func WithProgress() Option {
	return func(opts *options) error {
		opts.progress = true
		return nil
	}
}

func WithTempDir(dir string) Option {
	return func(opts *options) error {
		info, err := os.Stat(dir)
		if err != nil {
			return err
		}
		if !info.IsDir() {
			return errors.New("temp dir is not a directory")
		}

		opts.tempDir = dir
		return nil
	}
}

func applyOptions(optFns []Option) (options, error) {
	var opts options
	for _, opt := range optFns {
		if err := opt(&opts); err != nil {
			return options{}, err
		}
	}
	return opts, nil
}
