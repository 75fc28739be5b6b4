package utils

func Contains[T comparable](items []T, item T) bool {
	for _, it := range items {
		if it == item {
			return true
		}
	}
	return false
}

// Unique drops repeated items keeping the first occurrence order.
func Unique[T comparable](items []T) []T {
	res := make([]T, 0, len(items))
	for _, it := range items {
		if !Contains(res, it) {
			res = append(res, it)
		}
	}
	return res
}
