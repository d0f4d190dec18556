//go:build tools

package gitobject

import (
	_ "github.com/maxbrunsfeld/counterfeiter/v6"
)
