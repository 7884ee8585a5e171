package schedule

// orderedResults accumulates matches per key in first-insertion order.
type orderedResults struct {
	keys  []string
	index map[string]int
	items [][]PickupMatch
}

func newOrderedResults() *orderedResults {
	return &orderedResults{index: make(map[string]int)}
}

func (o *orderedResults) add(key string, m PickupMatch) {
	i, ok := o.index[key]
	if !ok {
		i = len(o.keys)
		o.index[key] = i
		o.keys = append(o.keys, key)
		o.items = append(o.items, nil)
	}
	o.items[i] = append(o.items[i], m)
}

func (o *orderedResults) list() []StreetResult {
	out := make([]StreetResult, len(o.keys))
	for i, key := range o.keys {
		out[i] = StreetResult{Key: key, Pickups: o.items[i]}
	}
	return out
}
