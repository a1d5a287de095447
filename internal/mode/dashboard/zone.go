package dashboard

import "fmt"

// Zone IDs: tab:{index} for each tab in the tab bar.
const zoneTabPrefix = "tab:"

func makeTabZoneID(index int) string {
	return fmt.Sprintf("%s%d", zoneTabPrefix, index)
}
