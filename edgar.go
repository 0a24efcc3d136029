// Package edgar exposes the EDGAR client builder.
package edgar

import (
	"github.com/adamwoolhether/edgar/client"
)

// NewClient instantiates a *client.Client identifying itself with
// userAgent. The remaining options are applied in order after it.
func NewClient(userAgent string, opts ...client.Option) (*client.Client, error) {
	return client.Build(append([]client.Option{client.WithUserAgent(userAgent)}, opts...)...)
}
