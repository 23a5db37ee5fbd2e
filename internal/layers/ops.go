package layers

import "sort"

// Add appends a layer on top of the stack, assigning ZIndex = count+1
func Add(ls []Layer, l Layer) []Layer {
	l.ZIndex = len(ls) + 1
	return append(ls, l)
}

// Remove filters out the layer with the given id
func Remove(ls []Layer, id string) ([]Layer, bool) {
	out := make([]Layer, 0, len(ls))
	removed := false
	for _, l := range ls {
		if l.ID == id {
			removed = true
			continue
		}
		out = append(out, l)
	}
	return out, removed
}

// Toggle flips a layer's visibility
func Toggle(ls []Layer, id string) ([]Layer, bool) {
	out := append([]Layer(nil), ls...)
	for i := range out {
		if out[i].ID == id {
			out[i].Visible = !out[i].Visible
			return out, true
		}
	}
	return out, false
}

// SetOpacity sets a layer's opacity, clamped to [0, 100]
func SetOpacity(ls []Layer, id string, opacity float64) ([]Layer, bool) {
	if opacity < 0 {
		opacity = 0
	}
	if opacity > 100 {
		opacity = 100
	}
	out := append([]Layer(nil), ls...)
	for i := range out {
		if out[i].ID == id {
			out[i].Opacity = opacity
			return out, true
		}
	}
	return out, false
}

// MoveUp swaps the layer with the one painted directly above it.
// A no-op on the topmost layer.
func MoveUp(ls []Layer, id string) ([]Layer, bool) {
	return move(ls, id, +1)
}

// MoveDown swaps the layer with the one painted directly below it.
// A no-op on the bottom layer.
func MoveDown(ls []Layer, id string) ([]Layer, bool) {
	return move(ls, id, -1)
}

func move(ls []Layer, id string, dir int) ([]Layer, bool) {
	ordered := Ordered(ls)

	idx := -1
	for i, l := range ordered {
		if l.ID == id {
			idx = i
			break
		}
	}
	if idx < 0 {
		return ls, false
	}

	swap := idx + dir
	if swap < 0 || swap >= len(ordered) {
		// guarded no-op at the ends
		return ls, false
	}

	ordered[idx], ordered[swap] = ordered[swap], ordered[idx]
	for i := range ordered {
		ordered[i].ZIndex = i + 1
	}
	return ordered, true
}

// Ordered returns a copy sorted ascending by ZIndex (paint order)
func Ordered(ls []Layer) []Layer {
	out := append([]Layer(nil), ls...)
	sort.SliceStable(out, func(i, j int) bool {
		return out[i].ZIndex < out[j].ZIndex
	})
	return out
}

// Find returns the layer with the given id
func Find(ls []Layer, id string) (Layer, bool) {
	for _, l := range ls {
		if l.ID == id {
			return l, true
		}
	}
	return Layer{}, false
}
