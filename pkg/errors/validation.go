package errors

import (
	"net/url"
	"regexp"
	"strings"
	"unicode"
)

// maxPackageIDLength is the limit nuget.org enforces on package ids.
const maxPackageIDLength = 100

// nugetIDRegex matches valid NuGet package ids: word characters separated
// by single '.', '-' or '_'.
var nugetIDRegex = regexp.MustCompile(`^\w+([.\-_]\w+)*$`)

// ValidatePackageName validates a NuGet package id.
func ValidatePackageName(name string) error {
	if name == "" {
		return New(ErrCodeInvalidPackage, "package id cannot be empty")
	}
	if len(name) > maxPackageIDLength {
		return New(ErrCodeInvalidPackage, "package id too long (max %d characters)", maxPackageIDLength)
	}
	for _, r := range name {
		if unicode.IsControl(r) {
			return New(ErrCodeInvalidPackage, "package id contains invalid control characters")
		}
	}
	if !nugetIDRegex.MatchString(name) {
		return New(ErrCodeInvalidPackage, "invalid NuGet package id: %q", name)
	}
	return nil
}

// ValidateVersion rejects declared versions that cannot be a NuGet version
// or range. Semantic checks are left to the feed.
func ValidateVersion(v string) error {
	if strings.TrimSpace(v) == "" {
		return New(ErrCodeInvalidPackage, "version cannot be empty")
	}
	for _, r := range v {
		if unicode.IsControl(r) || (unicode.IsSpace(r) && r != ' ') {
			return New(ErrCodeInvalidPackage, "version contains invalid characters: %q", v)
		}
	}
	return nil
}

// ValidateURL validates a feed URL. It must be absolute with an http or
// https scheme and a host.
func ValidateURL(rawURL string) error {
	if rawURL == "" {
		return New(ErrCodeInvalidInput, "URL cannot be empty")
	}
	u, err := url.Parse(rawURL)
	if err != nil {
		return Wrap(ErrCodeInvalidInput, err, "invalid URL %q", rawURL)
	}
	if u.Scheme != "http" && u.Scheme != "https" {
		return New(ErrCodeInvalidInput, "URL must use http or https scheme")
	}
	if u.Host == "" {
		return New(ErrCodeInvalidInput, "URL has no host: %q", rawURL)
	}
	return nil
}

// ValidateOutputName validates the base name of an output file. It must be
// a plain file name without path separators or traversal.
func ValidateOutputName(name string) error {
	if name == "" {
		return New(ErrCodeInvalidInput, "output name cannot be empty")
	}
	if strings.ContainsAny(name, `/\`) {
		return New(ErrCodeInvalidInput, "output name cannot contain path separators")
	}
	if name == "." || name == ".." {
		return New(ErrCodeInvalidInput, "output name cannot be %q", name)
	}
	for _, r := range name {
		if r == 0 || unicode.IsControl(r) {
			return New(ErrCodeInvalidInput, "output name contains invalid characters")
		}
	}
	return nil
}
