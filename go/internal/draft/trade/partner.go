package trade

// Partner is a participant eligible to propose a trade, with its base-order position.
type Partner struct {
	ID       string
	Position int
}

// WeightPolicy assigns a sampling weight from a base-order position and the roster size.
type WeightPolicy func(position, rosterSize int) float64

// BackHalfWeighting doubles the weight of participants in the later half of the base order.
func BackHalfWeighting(position, rosterSize int) float64 {
	if position >= rosterSize/2 {
		return 2
	}
	return 1
}

// UniformWeighting gives every partner the same weight.
func UniformWeighting(int, int) float64 {
	return 1
}

// SamplePartners draws up to k partners without replacement, weighted by policy.
func SamplePartners(pool []Partner, rosterSize, k int, policy WeightPolicy, rng Rand) []Partner {
	if policy == nil {
		policy = UniformWeighting
	}
	remaining := append([]Partner(nil), pool...)
	var out []Partner
	for len(out) < k && len(remaining) > 0 {
		var total float64
		for _, p := range remaining {
			total += policy(p.Position, rosterSize)
		}
		if total <= 0 {
			break
		}
		r := rng.Float64() * total
		chosen := len(remaining) - 1
		for i, p := range remaining {
			r -= policy(p.Position, rosterSize)
			if r < 0 {
				chosen = i
				break
			}
		}
		out = append(out, remaining[chosen])
		remaining = append(remaining[:chosen], remaining[chosen+1:]...)
	}
	return out
}
