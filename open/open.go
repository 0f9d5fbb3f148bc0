// Package open hands a file or directory to the desktop's default handler.
package open

import (
	"fmt"
	"os"
	"os/exec"
	"path/filepath"
	"runtime"

	"github.com/etldl/etldl/constant"
)

// Start opens target without waiting for the handler to exit.
func Start(target string) error {
	cmd, ok := command(target)
	if !ok {
		return fmt.Errorf("unsupported OS: %s", runtime.GOOS)
	}
	return cmd.Start()
}

func command(target string) (*exec.Cmd, bool) {
	switch runtime.GOOS {
	case constant.Windows:
		rundll := filepath.Join(os.Getenv("SYSTEMROOT"), "System32", "rundll32.exe")
		return exec.Command(rundll, "url.dll,FileProtocolHandler", target), true
	case constant.Darwin:
		return exec.Command("open", target), true
	case constant.Linux:
		return exec.Command("xdg-open", target), true
	case constant.Android:
		return exec.Command("termux-open", target), true
	default:
		return nil, false
	}
}
