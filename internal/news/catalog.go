package news

import (
	"encoding/json"
	"fmt"
)

// ParseCatalog decodes the JSON news catalog and validates it.
func ParseCatalog(data []byte) ([]Item, error) {
	var items []Item
	if err := json.Unmarshal(data, &items); err != nil {
		return nil, fmt.Errorf("news: parse catalog: %w", err)
	}

	seen := make(map[ID]bool, len(items))
	for i, it := range items {
		if it.ID == "" {
			return nil, fmt.Errorf("news: item %d has no id", i)
		}
		if seen[it.ID] {
			return nil, fmt.Errorf("news: duplicate id %s", it.ID)
		}
		seen[it.ID] = true
		if it.Headline == "" {
			return nil, fmt.Errorf("news: item %s has no headline", it.ID)
		}
		if len(it.Tickers) == 0 && len(it.Sectors) == 0 {
			return nil, fmt.Errorf("news: item %s has empty scope", it.ID)
		}
		switch it.Direction {
		case DirectionUp, DirectionDown:
		default:
			return nil, fmt.Errorf("news: item %s has bad direction %q", it.ID, it.Direction)
		}
		switch it.Intensity {
		case IntensityLow, IntensityMedium, IntensityHigh:
		default:
			return nil, fmt.Errorf("news: item %s has bad intensity %q", it.ID, it.Intensity)
		}
	}
	return items, nil
}
