package observability

import (
	"fmt"
	"os"
	"strings"

	"golang.org/x/term"
)

const (
	colorReset = "\033[0m"
	colorCyan  = "\033[36m"
	colorBold  = "\033[1m"
)

func termWidth() int {
	w, _, err := term.GetSize(int(os.Stdout.Fd()))
	if err != nil {
		return 80
	}
	return w
}

func center(s string, width int) string {
	if len(s) >= width {
		return s
	}
	pad := (width - len(s)) / 2
	return strings.Repeat(" ", pad) + s
}

// PrintBanner prints the startup header, sized to the terminal.
func PrintBanner() {
	w := termWidth()
	if w > 72 {
		w = 72
	}
	rule := strings.Repeat("─", w)
	fmt.Println(colorCyan + rule + colorReset)
	fmt.Println(colorBold + center("T R A C E F O R G E", w) + colorReset)
	fmt.Println(center("test execution -> reusable workflow", w))
	fmt.Println(colorCyan + rule + colorReset)
}
