package toc

import "github.com/ziadkadry99/bookview/internal/viewer"

// Select translates a sidebar click into controller intents: jump to the
// entry's page and, on single-column layouts, close the sidebar so the page
// is visible.
func Select(e Entry, singleColumn bool) []viewer.Intent {
	intents := []viewer.Intent{viewer.RequestPage(e.TargetPage)}
	if singleColumn {
		intents = append(intents, viewer.SetSidebar(false))
	}
	return intents
}

// ActiveIndex returns the index of the entry whose page range contains
// currentPage, or -1 when currentPage precedes every entry. Entries are
// expected in reading order; the last entry extends to the end of the
// document.
func ActiveIndex(entries []Entry, currentPage int) int {
	active := -1
	for i, e := range entries {
		if e.TargetPage > currentPage {
			break
		}
		if i+1 < len(entries) && currentPage >= entries[i+1].TargetPage {
			continue
		}
		active = i
	}
	return active
}
