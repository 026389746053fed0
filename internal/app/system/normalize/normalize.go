// Package normalize canonicalizes user-supplied identifiers before they are
// stored or compared. Every lookup and every write goes through these
// functions so the stored form and the query form always agree.
package normalize

import "strings"

// CollectionPrefix is prepended to every per-organization collection name.
const CollectionPrefix = "org_"

// OrgName trims surrounding whitespace and lowercases an organization name.
// Inner whitespace is preserved.
func OrgName(s string) string {
	return strings.ToLower(strings.TrimSpace(s))
}

// Email trims and lowercases an email address.
func Email(s string) string {
	return strings.ToLower(strings.TrimSpace(s))
}

// CollectionName derives the collection name for an organization name:
// "org_" + the normalized name with each whitespace run replaced by a
// single underscore. It is the only place this mapping is defined.
func CollectionName(orgName string) string {
	return CollectionPrefix + strings.Join(strings.Fields(OrgName(orgName)), "_")
}

// QueryParam trims a raw query-string value.
func QueryParam(s string) string {
	return strings.TrimSpace(s)
}
