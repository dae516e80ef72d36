package theme

import (
	"fmt"
)

// Banner returns the CLI banner.
func Banner() string {
	const magenta = "\033[35m"
	const cyan = "\033[36m"
	const yellow = "\033[33m"
	const reset = "\033[0m"

	art := "" +
		"  ◢◤   " + magenta + "SCENERANK" + reset + "   ◥◣\n" +
		cyan + "   ranked affinity classification for scene profiles\n" + reset +
		yellow + "   ────────────────────────────────────────────\n" + reset
	return art
}

// PrintBanner prints the banner to stdout.
func PrintBanner() {
	fmt.Print(Banner())
}
