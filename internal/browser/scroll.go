package browser

import (
	"fmt"
	"strings"
)

// Scroll directions
const (
	ScrollUp     = "up"
	ScrollDown   = "down"
	ScrollLeft   = "left"
	ScrollRight  = "right"
	ScrollTop    = "top"
	ScrollBottom = "bottom"
)

// ScrollDirections lists the accepted directions.
var ScrollDirections = []string{ScrollUp, ScrollDown, ScrollLeft, ScrollRight, ScrollTop, ScrollBottom}

// scrollExpression builds the script for a scroll. pixels <= 0 selects the
// default distance for the direction; top and bottom ignore it.
func scrollExpression(direction string, pixels int) (string, error) {
	switch direction {
	case ScrollUp:
		return fmt.Sprintf("window.scrollBy(0, -%d)", orDefault(pixels, defaultVerticalScroll)), nil
	case ScrollDown:
		return fmt.Sprintf("window.scrollBy(0, %d)", orDefault(pixels, defaultVerticalScroll)), nil
	case ScrollLeft:
		return fmt.Sprintf("window.scrollBy(-%d, 0)", orDefault(pixels, defaultHorizontalScroll)), nil
	case ScrollRight:
		return fmt.Sprintf("window.scrollBy(%d, 0)", orDefault(pixels, defaultHorizontalScroll)), nil
	case ScrollTop:
		return "window.scrollTo(0, 0)", nil
	case ScrollBottom:
		return "window.scrollTo(0, document.body.scrollHeight)", nil
	default:
		return "", invalidArgument("scroll direction %q (want one of %s)", direction, strings.Join(ScrollDirections, ", "))
	}
}

func orDefault(pixels, def int) int {
	if pixels <= 0 {
		return def
	}
	return pixels
}
