package vanilla_test

import (
	"io/fs"

	"github.com/goliatone/go-formulay/pkg/renderers/vanilla"
)

func fsReadStylesheet() (string, error) {
	data, err := fs.ReadFile(vanilla.AssetsFS(), vanilla.StylesheetName)
	return string(data), err
}
