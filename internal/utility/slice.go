package utility

// Contains kiểm tra một phần tử có nằm trong slice hay không.
func Contains[T comparable](items []T, target T) bool {
	for _, item := range items {
		if item == target {
			return true
		}
	}
	return false
}
