package storage

// DeepMerge overlays snapshot onto defaults and returns the result.
// Objects merge key by key recursively; arrays and scalars from the
// snapshot replace the default; a null in the snapshot keeps the default.
// Neither input is modified.
func DeepMerge(defaults, snapshot any) any {
	if snapshot == nil {
		return cloneValue(defaults)
	}
	dObj, dok := defaults.(map[string]any)
	sObj, sok := snapshot.(map[string]any)
	if !dok || !sok {
		return cloneValue(snapshot)
	}

	out := make(map[string]any, len(dObj)+len(sObj))
	for k, v := range dObj {
		out[k] = cloneValue(v)
	}
	for k, v := range sObj {
		out[k] = DeepMerge(dObj[k], v)
	}
	return out
}

func cloneValue(v any) any {
	switch t := v.(type) {
	case map[string]any:
		out := make(map[string]any, len(t))
		for k, e := range t {
			out[k] = cloneValue(e)
		}
		return out
	case []any:
		out := make([]any, len(t))
		for i, e := range t {
			out[i] = cloneValue(e)
		}
		return out
	default:
		return v
	}
}
