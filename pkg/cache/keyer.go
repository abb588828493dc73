package cache

import (
	"crypto/sha256"
	"encoding/hex"
	"encoding/json"
)

// Keyer derives cache keys from content hashes.
type Keyer interface {
	// PlanKey identifies a plan computed from a site document.
	PlanKey(siteHash string, opts PlanKeyOpts) string
	// ArtifactKey identifies a rendered artifact of a plan.
	ArtifactKey(planHash string, opts ArtifactKeyOpts) string
}

// PlanKeyOpts holds the inputs besides the site that shape a plan.
type PlanKeyOpts struct {
	Zone      string  `json:"zone,omitempty"`
	Strategy  string  `json:"strategy,omitempty"`
	Precision float64 `json:"precision,omitempty"`
}

// ArtifactKeyOpts holds the render options that shape an artifact.
type ArtifactKeyOpts struct {
	Format     string  `json:"format"`
	Floor      int     `json:"floor,omitempty"`
	Scale      float64 `json:"scale,omitempty"`
	NoSupports bool    `json:"no_supports,omitempty"`
	Detailed   bool    `json:"detailed,omitempty"`
	// SiteHash is set for formats that draw the whole site.
	SiteHash string `json:"site_hash,omitempty"`
}

// DefaultKeyer hashes the content hash together with the options.
type DefaultKeyer struct{}

// NewDefaultKeyer creates the default keyer.
func NewDefaultKeyer() Keyer { return DefaultKeyer{} }

func (DefaultKeyer) PlanKey(siteHash string, opts PlanKeyOpts) string {
	return hashKey("plan", siteHash, opts)
}

func (DefaultKeyer) ArtifactKey(planHash string, opts ArtifactKeyOpts) string {
	return hashKey("artifact", planHash, opts)
}

var _ Keyer = DefaultKeyer{}

// Hash returns the hex SHA-256 of data. Plan and site content hashes use it.
func Hash(data []byte) string {
	sum := sha256.Sum256(data)
	return hex.EncodeToString(sum[:])
}

// hashKey returns prefix:Hash(json(parts)).
func hashKey(prefix string, parts ...any) string {
	data, _ := json.Marshal(parts)
	return prefix + ":" + Hash(data)
}
