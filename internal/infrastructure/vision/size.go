package vision

const (
	defaultMaxSide     = 1024
	defaultMinSide     = 16
	defaultJPEGQuality = 85
)

// scaledSize вписывает w x h в квадрат maxSide с сохранением пропорций
func scaledSize(w, h, maxSide int) (int, int) {
	longest := w
	if h > longest {
		longest = h
	}
	if longest <= maxSide {
		return w, h
	}
	scale := float64(maxSide) / float64(longest)
	nw := int(float64(w) * scale)
	nh := int(float64(h) * scale)
	if nw < 1 {
		nw = 1
	}
	if nh < 1 {
		nh = 1
	}
	return nw, nh
}
