package minc

// matchDimensions binds every volume dimension to a file dimension.
//
// Matching runs three passes: exact names, then AnySpatial against the
// spatial axes, then Any against whatever is left. Each pass walks the
// volume dimensions last to first and, for each one still unbound, the
// free file dimensions last to first, binding the first candidate found.
// forward[f] is the volume dimension bound to file dimension f, or -1;
// inverse[v] is the file dimension bound to volume dimension v.
func matchDimensions(volumeNames []DimName, fileNames []string) (forward, inverse []int, err error) {
	forward = make([]int, len(fileNames))
	for f := range forward {
		forward[f] = -1
	}
	inverse = make([]int, len(volumeNames))
	for v := range inverse {
		inverse[v] = -1
	}

	matches := 0
	for pass := 0; pass < 3; pass++ {
		for v := len(volumeNames) - 1; v >= 0; v-- {
			if inverse[v] >= 0 {
				continue
			}
			for f := len(fileNames) - 1; f >= 0; f-- {
				if forward[f] >= 0 || !volumeNames[v].matches(pass, fileNames[f]) {
					continue
				}
				forward[f] = v
				inverse[v] = f
				matches++
				break
			}
		}
	}

	if matches < len(volumeNames) {
		return nil, nil, newMismatchError(volumeNames, fileNames, "")
	}
	return forward, inverse, nil
}

func newMismatchError(volumeNames []DimName, fileNames []string, reason string) *MismatchError {
	e := &MismatchError{
		Requested: make([]string, len(volumeNames)),
		InFile:    append([]string(nil), fileNames...),
		Reason:    reason,
	}
	for i, n := range volumeNames {
		e.Requested[i] = n.String()
	}
	return e
}
