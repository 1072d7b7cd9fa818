//go:build windows

package speech

import (
	"fmt"
	"os"
)

func suspendProcess(*os.Process) error {
	return fmt.Errorf("pause is not supported on this platform")
}

func resumeProcess(*os.Process) error {
	return fmt.Errorf("resume is not supported on this platform")
}
