package authsdk

import (
	"strings"
)

// Region selects the deployment the token endpoint lives in.
type Region string

const (
	RegionKorea  Region = "KOREA"
	RegionCanada Region = "CANADA"
	RegionUSEast Region = "US_EAST"
)

const (
	DefaultDomain  = "tjlabs.dev"
	DefaultVersion = "2025-03-25"
)

type regionInfo struct {
	prefix string
	name   string
}

var regions = map[Region]regionInfo{
	RegionKorea:  {prefix: "ap-northeast-2.", name: "Korea"},
	RegionCanada: {prefix: "ca-central-1.", name: "Canada"},
	RegionUSEast: {prefix: "us-east-1.", name: "US"},
}

// ParseRegion maps a region key to a Region. Unknown keys fall back to
// RegionKorea and report false.
func ParseRegion(s string) (Region, bool) {
	r := Region(strings.ToUpper(strings.TrimSpace(s)))
	if _, ok := regions[r]; ok {
		return r, true
	}
	return RegionKorea, false
}

func (r Region) info() regionInfo {
	if ri, ok := regions[r]; ok {
		return ri
	}
	return regions[RegionKorea]
}

// Name is the human readable region name.
func (r Region) Name() string {
	return r.info().name
}

// Endpoint describes where the token server for a deployment lives.
type Endpoint struct {
	Region Region
	// ServerType is inserted after the "user" host label, e.g. "-dev".
	ServerType string
	// Domain defaults to DefaultDomain.
	Domain string
	// Version defaults to DefaultVersion.
	Version string
}

// BaseURL returns https://<region prefix>user<server type>.<domain>.
func (e Endpoint) BaseURL() string {
	domain := e.Domain
	if domain == "" {
		domain = DefaultDomain
	}
	return "https://" + e.Region.info().prefix + "user" + e.ServerType + "." + domain
}

// TokenURL returns the login and refresh endpoint.
func (e Endpoint) TokenURL() string {
	version := e.Version
	if version == "" {
		version = DefaultVersion
	}
	return e.BaseURL() + "/" + version + "/user"
}
