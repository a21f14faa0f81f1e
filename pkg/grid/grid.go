package grid

// GetGridCoords converts a linear cell index into column x and row y of a
// grid cols cells wide.
func GetGridCoords(index, cols int) (x, y int) {
	return index % cols, index / cols
}

// Rows is the number of rows needed to hold n cells at cols per row.
func Rows(n, cols int) int {
	return (n + cols - 1) / cols
}
