package console

import (
	"io"
	"os"

	"github.com/mitchellh/colorstring"
)

// Banner is where the task banners are printed
var Banner io.Writer = os.Stdout

func PrintTask(msg string) {
	colorstring.Fprintf(Banner, "[blue][bold]==>[default] %s\n", msg)
}

func PrintSubtask(msg string) {
	colorstring.Fprintf(Banner, "[green][bold]  ->[reset] %s\n", msg)
}

func PrintError(msg string) {
	colorstring.Fprintf(Banner, "[red][bold]  ->[reset] %s\n", msg)
}
