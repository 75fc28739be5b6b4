package forecast

// Project extrapolates series one step ahead. Samples sit at positions
// 0..n-1 and an ordinary least-squares line is evaluated at n. An empty
// series projects to 0 and a single sample projects to itself.
func Project(series []float64) float64 {
	n := len(series)
	switch n {
	case 0:
		return 0
	case 1:
		return series[0]
	}

	meanX := float64(n-1) / 2
	meanY := 0.0
	for _, y := range series {
		meanY += y
	}
	meanY /= float64(n)

	var cov, varX float64
	for i, y := range series {
		dx := float64(i) - meanX
		cov += dx * (y - meanY)
		varX += dx * dx
	}

	slope := cov / varX
	intercept := meanY - slope*meanX
	return slope*float64(n) + intercept
}
