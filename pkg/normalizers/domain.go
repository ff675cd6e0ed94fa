package normalizers

import "strings"

// DomainRootAndSuffix derives the grouping identity of a domain.
//
// The root is the second-to-last dot separated label and the suffix is the
// last one. Multi-label public suffixes are not recognised, so
// "acme.co.uk" yields ("co", "uk"). Absent or dotless input yields
// (nil, nil); the function never fails.
func DomainRootAndSuffix(domain *string) (root, suffix *string) {
	if domain == nil {
		return nil, nil
	}
	parts := strings.Split(*domain, ".")
	if len(parts) < 2 {
		return nil, nil
	}
	r, s := parts[len(parts)-2], parts[len(parts)-1]
	return &r, &s
}
