package cli

import (
	"strings"

	"github.com/MohammadRaziei/pip-browse/pkg/errors"
	"github.com/MohammadRaziei/pip-browse/pkg/pypi"
)

// parsePackageSpec splits a "name==version" argument into its parts. A bare
// name yields an empty version. The name is validated and normalized.
func parsePackageSpec(spec string) (name, version string, err error) {
	name, version, _ = strings.Cut(spec, "==")
	name = strings.TrimSpace(name)
	version = strings.TrimSpace(version)

	if !pypi.ValidatePackageName(name) {
		return "", "", errors.New(errors.ErrCodeInvalidPackage, "invalid package name %q", name)
	}
	return pypi.NormalizePackageName(name), version, nil
}
