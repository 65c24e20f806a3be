package mt

// Scope is a contiguous index range [Start, End) processed by one work item.
type Scope struct {
	Start     int
	End       int
	LoopIndex int
}

// Len returns the number of indices in the scope.
func (s Scope) Len() int { return s.End - s.Start }

// Scopes partitions [0, count) into consecutive scopes of at most chunk items.
func Scopes(count, chunk int) []Scope {
	if count <= 0 {
		return nil
	}
	if chunk <= 0 {
		chunk = count
	}
	out := make([]Scope, 0, (count+chunk-1)/chunk)
	for start := 0; start < count; start += chunk {
		out = append(out, Scope{
			Start:     start,
			End:       min(start+chunk, count),
			LoopIndex: len(out),
		})
	}
	return out
}
