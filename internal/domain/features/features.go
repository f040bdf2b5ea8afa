package features

// Features is one transaction's flat feature map. Values are float64, int
// or bool.
type Features map[string]any

// Float returns the value under key as a float64; bools become 0 or 1 and
// missing keys 0.
func (f Features) Float(key string) float64 {
	switch v := f[key].(type) {
	case float64:
		return v
	case int:
		return float64(v)
	case bool:
		if v {
			return 1
		}
	}
	return 0
}

// Vector returns the values in Names() order.
func (f Features) Vector() []float64 {
	out := make([]float64, len(names))
	for i, key := range names {
		out[i] = f.Float(key)
	}
	return out
}
