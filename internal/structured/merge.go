package structured

// Merge folds src into dst. When both are objects, keys missing from dst are
// appended in src order and keys present in both recurse. Any other pair
// keeps dst. It reports whether dst gained anything.
//
// dst is modified in place when it is an object.
func Merge(dst, src any) (any, bool) {
	switch d := dst.(type) {
	case *Object:
		s, ok := src.(*Object)
		if !ok {
			return dst, false
		}
		return d, mergeObjects(d, s)
	case map[string]any:
		s, ok := src.(map[string]any)
		if !ok {
			return dst, false
		}
		return d, mergeMaps(d, s)
	case nil:
		// An empty document takes the other side whole.
		return src, src != nil
	default:
		return dst, false
	}
}

func mergeObjects(dst, src *Object) bool {
	changed := false
	for _, key := range src.keys {
		sv := src.values[key]
		dv, ok := dst.values[key]
		if !ok {
			dst.Set(key, sv)
			changed = true
			continue
		}
		dObj, dIsObj := dv.(*Object)
		sObj, sIsObj := sv.(*Object)
		if dIsObj && sIsObj && mergeObjects(dObj, sObj) {
			changed = true
		}
	}
	return changed
}

func mergeMaps(dst, src map[string]any) bool {
	changed := false
	for key, sv := range src {
		dv, ok := dst[key]
		if !ok {
			dst[key] = sv
			changed = true
			continue
		}
		dMap, dIsMap := dv.(map[string]any)
		sMap, sIsMap := sv.(map[string]any)
		if dIsMap && sIsMap && mergeMaps(dMap, sMap) {
			changed = true
		}
	}
	return changed
}
