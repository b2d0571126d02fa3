package config

import (
	"net/url"

	"github.com/jrsteele09/kitshop-gateway/internal/errors"
)

// Validate checks every required setting and reports all problems at once.
// Any error returned wraps errors.ErrConfiguration and must abort startup.
func Validate(c Config) error {
	var errs []error

	if GetEnv(c.GetSessionSecretEnvVar(), "") == "" {
		errs = append(errs, errors.Wrapf(errors.ErrConfiguration, "%s is not set", c.GetSessionSecretEnvVar()))
	}

	if _, err := c.GetVendorCredentials(); err != nil {
		errs = append(errs, err)
	}

	if u, err := url.Parse(c.GetVendorBaseURL()); err != nil || u.Scheme == "" || u.Host == "" {
		errs = append(errs, errors.Wrapf(errors.ErrConfiguration, "invalid vendor base url %q", c.GetVendorBaseURL()))
	}

	return errors.Join(errs...)
}
