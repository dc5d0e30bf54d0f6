package exclude

// Filter returns the paths that match none of the rules, in their original
// order. It never adds paths and never modifies the input slice. An empty
// rule list returns the input unchanged.
func Filter(paths []string, rules []Rule) []string {
	if len(rules) == 0 {
		return paths
	}

	kept := make([]string, 0, len(paths))
	for _, p := range paths {
		if !Excluded(p, rules) {
			kept = append(kept, p)
		}
	}
	return kept
}

// Excluded reports whether any rule matches path.
func Excluded(path string, rules []Rule) bool {
	for _, r := range rules {
		if r.Match(path) {
			return true
		}
	}
	return false
}
