package ui

// Terminal size thresholds and fixed row budgets.
const (
	// LayoutSplitWidth is the width at which picker and result sit side by side.
	LayoutSplitWidth = 90

	headerRows = 1
	actionRows = 3 // bordered button
	footerRows = 1

	minPaneRows = 5

	// pickerMarginBottom is what filepicker subtracts from the window height
	// when AutoHeight is on.
	pickerMarginBottom = 5
)

type box struct {
	w, h int
}

// inner returns the content area of a bordered, padded pane with a title row.
func (b box) inner() box {
	return box{w: max(b.w-4, 0), h: max(b.h-3, 0)}
}

type layout struct {
	picker  box
	result  box
	stacked bool
}

// computeLayout splits the body between the picker and, when a result is
// shown, the result pane.
func computeLayout(width, height int, withResult bool) layout {
	bodyH := max(height-headerRows-actionRows-footerRows, minPaneRows)

	if !withResult {
		return layout{picker: box{w: width, h: bodyH}}
	}
	if width >= LayoutSplitWidth {
		pw := width * 2 / 5
		return layout{
			picker: box{w: pw, h: bodyH},
			result: box{w: width - pw, h: bodyH},
		}
	}
	ph := max(bodyH/3, minPaneRows)
	return layout{
		picker:  box{w: width, h: ph},
		result:  box{w: width, h: max(bodyH-ph, minPaneRows)},
		stacked: true,
	}
}
