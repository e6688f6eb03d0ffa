package migrations

import (
	"io/fs"

	profilefields "github.com/goliatone/go-profilefields"
)

// CoreSource names the migrations embedded in this module.
const CoreSource = "profilefields"

func init() {
	coreFS, err := fs.Sub(profilefields.GetMigrationsFS(), "data/sql/migrations")
	if err != nil {
		return
	}
	_ = Register(CoreSource, coreFS)
}
