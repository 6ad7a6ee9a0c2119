package m3uprovider

import (
	"errors"
	"fmt"

	"github.com/a13labs/m3uflat/pkg/m3uparser"
	"github.com/a13labs/m3uflat/pkg/m3uprovider/types"
)

type ProviderConfig = types.ProviderConfig

var ErrMissingSource = errors.New("playlist source is required")

// Validate checks that the source can be resolved and the charset exists.
func Validate(config ProviderConfig) error {
	if config.Source == "" {
		return ErrMissingSource
	}
	if _, err := m3uparser.LookupCharset(config.Charset); err != nil {
		return err
	}
	if _, err := m3uparser.NewLocation(config.Source, ""); err != nil {
		return fmt.Errorf("invalid playlist source: %w", err)
	}
	return nil
}
