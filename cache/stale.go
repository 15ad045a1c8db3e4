package cache

// Stale returns the names found in all which are not part of the allowlist, keeping their order.
// These are the namespaces left behind by the previous versions.
func Stale(all []string, allow ...string) []string {
	keep := make(map[string]struct{}, len(allow))
	for _, name := range allow {
		keep[name] = struct{}{}
	}

	var stale []string
	for _, name := range all {
		if _, ok := keep[name]; !ok {
			stale = append(stale, name)
		}
	}
	return stale
}
