package validation

// SystematicSample picks every stride-th row index from 0, stride = total / limit
// (at least 1), stopping once limit indices are taken. The same inputs always
// give the same indices.
func SystematicSample(total, limit int) []int {
	if limit <= 0 || total <= limit {
		indices := make([]int, total)
		for i := range indices {
			indices[i] = i
		}
		return indices
	}

	stride := total / limit
	if stride < 1 {
		stride = 1
	}

	indices := make([]int, 0, limit)
	for i := 0; i < total && len(indices) < limit; i += stride {
		indices = append(indices, i)
	}
	return indices
}
