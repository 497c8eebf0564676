package reconcile

import "sort"

// set is a plain string set. All reconciliation bucketing is expressed as
// union/intersection/difference over these, so no element is ever counted
// twice.
type set map[string]struct{}

func newSet(vals ...string) set {
	s := make(set, len(vals))
	for _, v := range vals {
		s[v] = struct{}{}
	}
	return s
}

func (s set) add(v string) {
	s[v] = struct{}{}
}

func (s set) has(v string) bool {
	_, ok := s[v]
	return ok
}

func (s set) union(o set) set {
	out := make(set, len(s)+len(o))
	for v := range s {
		out[v] = struct{}{}
	}
	for v := range o {
		out[v] = struct{}{}
	}
	return out
}

func (s set) intersect(o set) set {
	out := make(set)
	for v := range s {
		if o.has(v) {
			out[v] = struct{}{}
		}
	}
	return out
}

func (s set) diff(o set) set {
	out := make(set)
	for v := range s {
		if !o.has(v) {
			out[v] = struct{}{}
		}
	}
	return out
}

// symDiff returns elements in exactly one of the two sets.
func (s set) symDiff(o set) set {
	out := s.diff(o)
	for v := range o.diff(s) {
		out[v] = struct{}{}
	}
	return out
}

// values returns the sorted members.
func (s set) values() []string {
	out := make([]string, 0, len(s))
	for v := range s {
		out = append(out, v)
	}
	sort.Strings(out)
	return out
}
