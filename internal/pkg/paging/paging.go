package paging

// Page describes one zero-indexed page over a collection of total items.
type Page struct {
	Index   int
	Size    int
	Offset  int
	Total   int64
	HasPrev bool
	HasNext bool
}

// New clamps a negative index to zero and computes offset and neighbor flags.
// HasNext is false for any page whose offset is at or past the total.
func New(index, size int, total int64) Page {
	if index < 0 {
		index = 0
	}
	if size <= 0 {
		size = 1
	}

	return Page{
		Index:   index,
		Size:    size,
		Offset:  index * size,
		Total:   total,
		HasPrev: index > 0,
		HasNext: int64((index+1)*size) < total,
	}
}
