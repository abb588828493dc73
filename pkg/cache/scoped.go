package cache

// NewScopedKeyer prefixes every key produced by inner, so several
// deployments can share one Redis without seeing each other's entries.
// A nil inner uses the default keyer.
//
//	k := cache.NewScopedKeyer(nil, "shelfplan:")
func NewScopedKeyer(inner Keyer, prefix string) Keyer {
	if inner == nil {
		inner = NewDefaultKeyer()
	}
	return scopedKeyer{inner: inner, prefix: prefix}
}

type scopedKeyer struct {
	inner  Keyer
	prefix string
}

func (k scopedKeyer) PlanKey(siteHash string, opts PlanKeyOpts) string {
	return k.prefix + k.inner.PlanKey(siteHash, opts)
}

func (k scopedKeyer) ArtifactKey(planHash string, opts ArtifactKeyOpts) string {
	return k.prefix + k.inner.ArtifactKey(planHash, opts)
}
