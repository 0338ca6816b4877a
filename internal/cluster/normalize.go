package cluster

// minMaxNormalize rescales each feature column independently into
// [0,1]. A column where every value is equal gets its range forced to
// 1 so the division is safe and the column collapses to 0.
func minMaxNormalize(matrix [][]float64) (normalized [][]float64, mins, ranges []float64) {
	if len(matrix) == 0 {
		return [][]float64{}, nil, nil
	}

	dims := len(matrix[0])
	mins = make([]float64, dims)
	maxs := make([]float64, dims)
	for d := 0; d < dims; d++ {
		mins[d] = matrix[0][d]
		maxs[d] = matrix[0][d]
	}
	for _, row := range matrix {
		for d, v := range row {
			if v < mins[d] {
				mins[d] = v
			}
			if v > maxs[d] {
				maxs[d] = v
			}
		}
	}

	ranges = make([]float64, dims)
	for d := 0; d < dims; d++ {
		ranges[d] = maxs[d] - mins[d]
		if ranges[d] == 0 {
			ranges[d] = 1
		}
	}

	normalized = make([][]float64, len(matrix))
	for i, row := range matrix {
		out := make([]float64, dims)
		for d, v := range row {
			out[d] = (v - mins[d]) / ranges[d]
		}
		normalized[i] = out
	}

	return normalized, mins, ranges
}

// denormalize maps one normalized point back to the original scale
func denormalize(point, mins, ranges []float64) []float64 {
	out := make([]float64, len(point))
	for d, v := range point {
		out[d] = v*ranges[d] + mins[d]
	}
	return out
}
